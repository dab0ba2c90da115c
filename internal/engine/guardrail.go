package engine

import (
	"fmt"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// EvaluatePolicy checks a scenario's plan and projected uplift against the
// resolved policy. An empty violation list makes the scenario eligible for
// automatic application.
func EvaluatePolicy(s Scenario, p domain.Policy) PolicyResult {
	drops := len(s.Plan.DropIssueIDs)
	adds := len(s.Plan.AddIssueIDs)
	scopeChanges := drops + adds

	var violations []string
	if s.ConfidenceBand.Rank() < p.MinConfidenceBand.Rank() {
		violations = append(violations, fmt.Sprintf(
			"confidence band %s is below the required minimum %s",
			s.ConfidenceBand, p.MinConfidenceBand))
	}
	if s.DeltaVsBaseline < p.MinProbabilityDelta {
		violations = append(violations, fmt.Sprintf(
			"projected probability delta %.1f is below the required minimum %.1f",
			s.DeltaVsBaseline, p.MinProbabilityDelta))
	}
	if scopeChanges > p.MaxScopeChanges {
		violations = append(violations, fmt.Sprintf(
			"plan changes %d issues, exceeding the limit of %d",
			scopeChanges, p.MaxScopeChanges))
	}
	if !p.AllowBacklogAdds && adds > 0 {
		violations = append(violations, "policy does not allow pulling issues from the backlog")
	}

	return PolicyResult{
		Violations:        violations,
		AutoApplyEligible: len(violations) == 0,
		ScopeChanges:      scopeChanges,
		Drops:             drops,
		Adds:              adds,
	}
}
