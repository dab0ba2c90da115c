package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/domain"
	"github.com/alexanderramin/sprintpilot/internal/engine"
)

type scenarioService struct {
	loader     *SnapshotLoader
	access     AccessChecker
	basePolicy domain.Policy
	observer   UseCaseObserver
}

func NewScenarioService(loader *SnapshotLoader, access AccessChecker, basePolicy domain.Policy, observers ...UseCaseObserver) ScenarioService {
	return &scenarioService{
		loader:     loader,
		access:     access,
		basePolicy: basePolicy,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *scenarioService) ScenarioSet(ctx context.Context, req contract.ScenarioSetRequest) (resp *contract.ScenarioSetResponse, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "scenario_set", started, err, map[string]any{"sprint_id": req.SprintID})
	}()

	if req.SprintID <= 0 {
		return nil, &contract.EngineError{Code: contract.ErrValidation, Message: "sprint id must be positive"}
	}

	snap, err := s.loader.Load(ctx, req.SprintID, resolveNow(req.Now))
	if err != nil {
		return nil, mapError(err, "sprint")
	}
	if err = checkAccess(ctx, s.access, req.Actor, snap.Project.ID); err != nil {
		return nil, err
	}

	policy := domain.ResolvePolicy(s.basePolicy, req.Overrides)
	scenarios := synthesizeScenarios(snap, policy)

	return &contract.ScenarioSetResponse{
		SprintID:                       req.SprintID,
		Signals:                        snap.Signals(),
		RecommendedScenarioID:          engine.Recommend(scenarios),
		RecommendedAutoApplyScenarioID: engine.RecommendAutoApply(scenarios),
		Policy:                         contract.NewPolicyView(policy),
		Scenarios:                      scenarioViews(scenarios),
		Explainability:                 contract.Explainability{ModelVersion: contract.ModelVersion},
	}, nil
}

// synthesizeScenarios ranks candidates, builds the three scenarios and
// attaches each one's guardrail verdict. Shared by the scenario-set read and
// the scenario apply path so both see identical plans.
func synthesizeScenarios(snap *SprintSnapshot, policy domain.Policy) []engine.Scenario {
	drops := engine.DropCandidates(snap.Issues, snap.Exposure)
	adds := engine.AddCandidates(snap.Backlog, snap.Exposure)
	scenarios := engine.Synthesize(snap.Input, drops, adds)
	for i := range scenarios {
		result := engine.EvaluatePolicy(scenarios[i], policy)
		scenarios[i].PolicyResult = &result
	}
	return scenarios
}

func scenarioViews(scenarios []engine.Scenario) []contract.ScenarioView {
	views := make([]contract.ScenarioView, 0, len(scenarios))
	for _, sc := range scenarios {
		views = append(views, contract.ScenarioView{
			ID:                       sc.ID,
			Name:                     sc.Name,
			ProjectedGoalProbability: sc.ProjectedGoalProbability,
			DeltaVsBaseline:          sc.DeltaVsBaseline,
			ConfidenceBand:           sc.ConfidenceBand,
			Plan: contract.PlanView{
				DropIssueIDs:            sc.Plan.DropIssueIDs,
				AddIssueIDs:             sc.Plan.AddIssueIDs,
				CreateDecisionFollowups: sc.Plan.CreateDecisionFollowups,
			},
			Tradeoffs:    sc.Tradeoffs,
			Evidence:     sc.Evidence,
			PolicyResult: policyResultView(sc.PolicyResult),
		})
	}
	return views
}

func policyResultView(r *engine.PolicyResult) contract.PolicyResultView {
	if r == nil {
		return contract.PolicyResultView{}
	}
	return contract.PolicyResultView{
		Violations:        r.Violations,
		AutoApplyEligible: r.AutoApplyEligible,
		ScopeChanges:      r.ScopeChanges,
		Drops:             r.Drops,
		Adds:              r.Adds,
	}
}
