package app

import (
	"time"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// ScenarioSetRequest asks for the full ranked scenario set with guardrail
// verdicts.
type ScenarioSetRequest struct {
	SprintID  int64
	Actor     string
	Overrides domain.PolicyOverrides
	Now       *time.Time
}

// PlanView is a scenario's mutation plan in wire form.
type PlanView struct {
	DropIssueIDs            []int64 `json:"drop_issue_ids"`
	AddIssueIDs             []int64 `json:"add_issue_ids"`
	CreateDecisionFollowups bool    `json:"create_decision_followups"`
}

// PolicyResultView is a scenario's guardrail verdict in wire form.
type PolicyResultView struct {
	Violations        []string `json:"violations"`
	AutoApplyEligible bool     `json:"auto_apply_eligible"`
	ScopeChanges      int      `json:"scope_changes"`
	Drops             int      `json:"drops"`
	Adds              int      `json:"adds"`
}

// ScenarioView is one synthesized scenario with projection, plan and verdict.
type ScenarioView struct {
	ID                       domain.ScenarioID     `json:"id"`
	Name                     string                `json:"name"`
	ProjectedGoalProbability float64               `json:"projected_goal_probability"`
	DeltaVsBaseline          float64               `json:"delta_vs_baseline"`
	ConfidenceBand           domain.ConfidenceBand `json:"confidence_band"`
	Plan                     PlanView              `json:"plan"`
	Tradeoffs                string                `json:"tradeoffs"`
	Evidence                 string                `json:"evidence"`
	PolicyResult             PolicyResultView      `json:"policy_result"`
}

// Explainability identifies the model that produced a scenario set.
type Explainability struct {
	ModelVersion string `json:"model_version"`
}

type ScenarioSetResponse struct {
	SprintID                       int64              `json:"sprint_id"`
	Signals                        Signals            `json:"signals"`
	RecommendedScenarioID          domain.ScenarioID  `json:"recommended_scenario_id"`
	RecommendedAutoApplyScenarioID *domain.ScenarioID `json:"recommended_auto_apply_scenario_id"`
	Policy                         PolicyView         `json:"policy"`
	Scenarios                      []ScenarioView     `json:"scenarios"`
	Explainability                 Explainability     `json:"explainability"`
}
