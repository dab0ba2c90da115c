package app

import (
	"time"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// ApplyPlanRequest applies an explicit drop/add plan to a sprint
// (autopilot-apply; no policy check). ID lists are expected pre-sanitized by
// the boundary; the applier truncates defensively regardless.
type ApplyPlanRequest struct {
	SprintID                int64
	Actor                   string
	DropIssueIDs            []int64
	AddIssueIDs             []int64
	CreateDecisionFollowups *bool // nil defaults to true
	Now                     *time.Time
}

type ApplyPlanResponse struct {
	SprintID       int64              `json:"sprint_id"`
	DroppedCount   int                `json:"dropped_count"`
	AddedCount     int                `json:"added_count"`
	FollowUpsCount int                `json:"followups_count"`
	Dropped        []IssueManifest    `json:"dropped"`
	Added          []IssueManifest    `json:"added"`
	FollowUps      []FollowUpManifest `json:"followups"`
}

// ScenarioApplyRequest applies a synthesized scenario (decision-twin-apply).
// Either AutoApply picks the recommended auto-apply scenario, or ScenarioID
// names one explicitly; explicit id lists override the stored plan.
type ScenarioApplyRequest struct {
	SprintID     int64
	Actor        string
	AutoApply    bool
	ScenarioID   *domain.ScenarioID
	DropIssueIDs []int64 // nil means use the scenario plan
	AddIssueIDs  []int64 // nil means use the scenario plan
	Overrides    domain.PolicyOverrides
	Now          *time.Time
}

type ScenarioApplyResponse struct {
	ApplyPlanResponse
	ScenarioID domain.ScenarioID `json:"scenario_id"`
	Policy     PolicyView        `json:"policy"`
}
