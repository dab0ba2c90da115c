package app

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// ModelVersion identifies the scenario model for explainability payloads.
const ModelVersion = "decision_twin_v1"

// Source labels distinguish the two apply entry points in follow-up titles
// and audit trails.
const (
	SourceLabelAutopilot    = "Sprint Autopilot"
	SourceLabelDecisionTwin = "Decision Twin"
)

// MaxApplyIDs caps caller-supplied drop/add id lists.
const MaxApplyIDs = 10

// Signals summarizes the sprint state every read operation reports.
type Signals struct {
	CompletionPct       float64 `json:"completion_ratio_pct"`
	TimeElapsedPct      float64 `json:"time_elapsed_ratio_pct"`
	UnresolvedDecisions int     `json:"unresolved_decisions"`
	ActiveBlockers      int     `json:"active_blockers"`
	InProgressIssues    int     `json:"in_progress_issues"`
	TotalIssues         int     `json:"total_issues"`
}

// IssueManifest identifies one issue touched by an apply operation.
type IssueManifest struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// FollowUpManifest identifies one follow-up task created by an apply
// operation.
type FollowUpManifest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type EngineErrorCode string

const (
	ErrNotFound           EngineErrorCode = "NOT_FOUND"
	ErrForbidden          EngineErrorCode = "FORBIDDEN"
	ErrValidation         EngineErrorCode = "VALIDATION"
	ErrPolicyViolation    EngineErrorCode = "POLICY_VIOLATION"
	ErrNoEligibleScenario EngineErrorCode = "NO_ELIGIBLE_SCENARIO"
	ErrInternal           EngineErrorCode = "INTERNAL"
)

// EngineError is the typed, non-retryable error surfaced to callers.
type EngineError struct {
	Code       EngineErrorCode `json:"code"`
	Message    string          `json:"message"`
	Violations []string        `json:"violations,omitempty"`
}

func (e *EngineError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %s %v", e.Code, e.Message, e.Violations)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// SanitizeIDs filters a decoded JSON array into numeric issue ids, silently
// discarding non-numeric entries and truncating to MaxApplyIDs. Lenient by
// design: partial client payloads degrade instead of failing.
func SanitizeIDs(values []any) []int64 {
	var ids []int64
	for _, v := range values {
		if len(ids) >= MaxApplyIDs {
			break
		}
		switch n := v.(type) {
		case float64:
			ids = append(ids, int64(n))
		case int64:
			ids = append(ids, n)
		case int:
			ids = append(ids, int64(n))
		case string:
			parsed, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, parsed)
		}
	}
	return ids
}

// TruncateIDs enforces the MaxApplyIDs cap on an already-numeric list.
func TruncateIDs(ids []int64) []int64 {
	if len(ids) > MaxApplyIDs {
		return ids[:MaxApplyIDs]
	}
	return ids
}

// PolicyView is the resolved policy echoed back to callers.
type PolicyView struct {
	MinConfidenceBand   domain.ConfidenceBand `json:"min_confidence_band"`
	MinProbabilityDelta float64               `json:"min_probability_delta"`
	MaxScopeChanges     int                   `json:"max_scope_changes"`
	AllowBacklogAdds    bool                  `json:"allow_backlog_adds"`
	EnforcePolicy       bool                  `json:"enforce_policy"`
}

// NewPolicyView converts a resolved domain policy into its wire form.
func NewPolicyView(p domain.Policy) PolicyView {
	return PolicyView{
		MinConfidenceBand:   p.MinConfidenceBand,
		MinProbabilityDelta: p.MinProbabilityDelta,
		MaxScopeChanges:     p.MaxScopeChanges,
		AllowBacklogAdds:    p.AllowBacklogAdds,
		EnforcePolicy:       p.EnforcePolicy,
	}
}
