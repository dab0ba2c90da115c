package engine

import (
	"math"
	"sort"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// Plan is the concrete mutation set a scenario proposes.
type Plan struct {
	DropIssueIDs            []int64
	AddIssueIDs             []int64
	CreateDecisionFollowups bool
}

// PolicyResult is the guardrail verdict for one scenario.
type PolicyResult struct {
	Violations        []string
	AutoApplyEligible bool
	ScopeChanges      int
	Drops             int
	Adds              int
}

// Scenario is a named hypothetical sprint-scope change with its projection.
type Scenario struct {
	ID                       domain.ScenarioID
	Name                     string
	ProjectedGoalProbability float64
	DeltaVsBaseline          float64
	ConfidenceBand           domain.ConfidenceBand
	Plan                     Plan
	Tradeoffs                string
	Evidence                 string
	PolicyResult             *PolicyResult
}

// Tuning constants for translating dropped exposure into count reductions.
// The divisors differ between the two scenarios on purpose; do not unify.
const (
	scopeSwapDrops            = 2
	scopeSwapAdds             = 2
	scopeSwapExposureDivisor  = 2.6
	scopeSwapBlockerThreshold = 2.0

	focusModeDrops            = 3
	focusModeExposureDivisor  = 2.0
	focusModeBlockerThreshold = 2.5
)

// Synthesize builds the three scenarios from the sprint's raw counts and the
// ranked candidates. Completion and elapsed-time ratios are shared across all
// scenarios: hypothetical moves change the composition of remaining work, not
// the time already spent.
func Synthesize(in ProbabilityInput, drops []DropCandidate, adds []AddCandidate) []Scenario {
	baselineProb := GoalProbability(in)

	baseline := Scenario{
		ID:                       domain.ScenarioBaseline,
		Name:                     "Keep current scope",
		ProjectedGoalProbability: baselineProb,
		DeltaVsBaseline:          0,
		ConfidenceBand:           ConfidenceBand(baselineProb),
		Plan:                     Plan{},
		Tradeoffs:                "No disruption; existing risks remain unaddressed.",
		Evidence:                 "Projection from current sprint composition.",
	}

	swap := perturbedScenario(in, baselineProb, topDrops(drops, scopeSwapDrops),
		scopeSwapExposureDivisor, scopeSwapBlockerThreshold)
	swap.ID = domain.ScenarioScopeSwap
	swap.Name = "Swap exposed scope for ready backlog work"
	swap.Plan.AddIssueIDs = topAdds(adds, scopeSwapAdds)
	swap.Tradeoffs = "Trades decision-exposed work for ready backlog items; scope churn for stakeholders."
	swap.Evidence = "Drops carry the highest decision exposure; adds are the strongest unexposed backlog candidates."

	focus := perturbedScenario(in, baselineProb, topDrops(drops, focusModeDrops),
		focusModeExposureDivisor, focusModeBlockerThreshold)
	focus.ID = domain.ScenarioFocusMode
	focus.Name = "Cut exposed scope, focus the remainder"
	focus.Tradeoffs = "Reduces committed scope without replacement; goal narrows but sharpens."
	focus.Evidence = "Removing the three most exposed items concentrates capacity on deliverable work."

	return []Scenario{baseline, swap, focus}
}

// perturbedScenario projects probability after dropping the given candidates:
// active drops free in-progress slots, dropped exposure shrinks the
// unresolved-decision pressure, and a large enough reduction clears one
// blocker.
func perturbedScenario(in ProbabilityInput, baselineProb float64, dropped []DropCandidate, divisor, blockerThreshold float64) Scenario {
	var exposureReduction float64
	var activeDropped int
	dropIDs := make([]int64, 0, len(dropped))
	for _, c := range dropped {
		exposureReduction += c.Exposure
		if c.Issue.Status.IsActive() {
			activeDropped++
		}
		dropIDs = append(dropIDs, c.Issue.ID)
	}

	perturbed := in
	perturbed.InProgressCount = maxInt(0, in.InProgressCount-activeDropped)

	unresolved := float64(in.UnresolvedDecisionCount)
	reduction := math.Min(unresolved, exposureReduction/divisor)
	perturbed.UnresolvedDecisionCount = maxInt(0, int(math.Round(unresolved-reduction)))

	blockerDrop := 0
	if exposureReduction >= blockerThreshold {
		blockerDrop = 1
	}
	perturbed.BlockersCount = maxInt(0, in.BlockersCount-blockerDrop)

	prob := GoalProbability(perturbed)
	return Scenario{
		ProjectedGoalProbability: prob,
		DeltaVsBaseline:          prob - baselineProb,
		ConfidenceBand:           ConfidenceBand(prob),
		Plan: Plan{
			DropIssueIDs:            dropIDs,
			CreateDecisionFollowups: true,
		},
	}
}

func topDrops(drops []DropCandidate, n int) []DropCandidate {
	if len(drops) > n {
		drops = drops[:n]
	}
	return drops
}

func topAdds(adds []AddCandidate, n int) []int64 {
	ids := make([]int64, 0, n)
	for i, c := range adds {
		if i >= n {
			break
		}
		ids = append(ids, c.Issue.ID)
	}
	return ids
}

// Recommend returns the scenario with the highest projected probability.
// The sort is stable, so ties resolve to the earlier scenario in the fixed
// baseline, scope-swap, focus-mode order.
func Recommend(scenarios []Scenario) domain.ScenarioID {
	ranked := rankByProbability(scenarios)
	return ranked[0].ID
}

// RecommendAutoApply returns the highest-projected scenario whose guardrail
// evaluation reported zero violations, or nil if none is eligible. Same
// ordering and tie rule as Recommend.
func RecommendAutoApply(scenarios []Scenario) *domain.ScenarioID {
	var eligible []Scenario
	for _, s := range scenarios {
		if s.PolicyResult != nil && s.PolicyResult.AutoApplyEligible {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	ranked := rankByProbability(eligible)
	id := ranked[0].ID
	return &id
}

func rankByProbability(scenarios []Scenario) []Scenario {
	ranked := make([]Scenario, len(scenarios))
	copy(ranked, scenarios)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ProjectedGoalProbability > ranked[j].ProjectedGoalProbability
	})
	return ranked
}
