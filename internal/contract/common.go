package contract

import (
	"github.com/alexanderramin/sprintpilot/internal/app"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

const ModelVersion = app.ModelVersion

const (
	SourceLabelAutopilot    = app.SourceLabelAutopilot
	SourceLabelDecisionTwin = app.SourceLabelDecisionTwin
)

const MaxApplyIDs = app.MaxApplyIDs

type Signals = app.Signals

type IssueManifest = app.IssueManifest

type FollowUpManifest = app.FollowUpManifest

type PolicyView = app.PolicyView

type EngineErrorCode = app.EngineErrorCode

const (
	ErrNotFound           EngineErrorCode = app.ErrNotFound
	ErrForbidden          EngineErrorCode = app.ErrForbidden
	ErrValidation         EngineErrorCode = app.ErrValidation
	ErrPolicyViolation    EngineErrorCode = app.ErrPolicyViolation
	ErrNoEligibleScenario EngineErrorCode = app.ErrNoEligibleScenario
	ErrInternal           EngineErrorCode = app.ErrInternal
)

type EngineError = app.EngineError

// NewPolicyView re-exports the resolved-policy wire conversion.
func NewPolicyView(p domain.Policy) PolicyView {
	return app.NewPolicyView(p)
}

// SanitizeIDs re-exports the lenient numeric id-list filter shared by the
// HTTP and CLI boundaries.
func SanitizeIDs(values []any) []int64 {
	return app.SanitizeIDs(values)
}

// TruncateIDs re-exports the id-list cap for already-numeric lists.
func TruncateIDs(ids []int64) []int64 {
	return app.TruncateIDs(ids)
}
