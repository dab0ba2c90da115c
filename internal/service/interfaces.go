package service

import (
	"context"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

type PreviewService interface {
	Preview(ctx context.Context, req contract.PreviewRequest) (*contract.PreviewResponse, error)
}

type ScenarioService interface {
	ScenarioSet(ctx context.Context, req contract.ScenarioSetRequest) (*contract.ScenarioSetResponse, error)
}

type ApplyService interface {
	ApplyPlan(ctx context.Context, req contract.ApplyPlanRequest) (*contract.ApplyPlanResponse, error)
	ApplyScenario(ctx context.Context, req contract.ScenarioApplyRequest) (*contract.ScenarioApplyResponse, error)
}

// AccessChecker gates every operation on "may edit this sprint's project".
// The real implementation lives in the enclosing platform; AllowAllAccess is
// the standalone default.
type AccessChecker interface {
	CanEditProject(ctx context.Context, actor string, projectID int64) (bool, error)
}

// AllowAllAccess grants every actor edit rights on every project.
type AllowAllAccess struct{}

func (AllowAllAccess) CanEditProject(context.Context, string, int64) (bool, error) {
	return true, nil
}

// Notifier delivers follow-up assignment notifications. Delivery is owned by
// the enclosing platform; the default implementation records them locally.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// NoopNotifier drops notifications; the persisted notification record is the
// only trace.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, domain.Notification) error { return nil }
