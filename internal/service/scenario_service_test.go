package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

func TestScenarioSet_SynthesizesAndRecommends(t *testing.T) {
	f := newEngineFixture(t, nil)

	resp, err := f.scenarios.ScenarioSet(context.Background(), contract.ScenarioSetRequest{
		SprintID: f.sprint.ID,
		Actor:    "alex",
		Now:      &f.now,
	})
	require.NoError(t, err)

	require.Len(t, resp.Scenarios, 3)
	assert.Equal(t, domain.ScenarioBaseline, resp.Scenarios[0].ID)
	assert.Equal(t, domain.ScenarioScopeSwap, resp.Scenarios[1].ID)
	assert.Equal(t, domain.ScenarioFocusMode, resp.Scenarios[2].ID)

	baseline := resp.Scenarios[0]
	assert.Equal(t, 43.5, baseline.ProjectedGoalProbability)
	assert.Equal(t, 0.0, baseline.DeltaVsBaseline)
	assert.Equal(t, domain.BandLow, baseline.ConfidenceBand)
	assert.Empty(t, baseline.Plan.DropIssueIDs)
	assert.False(t, baseline.Plan.CreateDecisionFollowups)

	// Dropping both unfinished issues clears the in-progress penalty, rounds
	// the unresolved count down and lifts one blocker in both scenarios.
	swap := resp.Scenarios[1]
	assert.Equal(t, 55.0, swap.ProjectedGoalProbability)
	assert.Equal(t, 11.5, swap.DeltaVsBaseline)
	assert.Equal(t, domain.BandMedium, swap.ConfidenceBand)
	assert.Equal(t, []int64{f.inProg.ID, f.todo.ID}, swap.Plan.DropIssueIDs)
	assert.ElementsMatch(t, []int64{f.backlog1.ID, f.backlog2.ID}, swap.Plan.AddIssueIDs)
	assert.True(t, swap.Plan.CreateDecisionFollowups)

	focus := resp.Scenarios[2]
	assert.Equal(t, 55.0, focus.ProjectedGoalProbability)
	assert.Equal(t, []int64{f.inProg.ID, f.todo.ID}, focus.Plan.DropIssueIDs)
	assert.Empty(t, focus.Plan.AddIssueIDs)

	// 55.0 tie resolves to the earlier scenario in the fixed order.
	assert.Equal(t, domain.ScenarioScopeSwap, resp.RecommendedScenarioID)
	require.NotNil(t, resp.RecommendedAutoApplyScenarioID)
	assert.Equal(t, domain.ScenarioScopeSwap, *resp.RecommendedAutoApplyScenarioID)

	assert.Equal(t, "decision_twin_v1", resp.Explainability.ModelVersion)
}

func TestScenarioSet_GuardrailVerdictsPerScenario(t *testing.T) {
	f := newEngineFixture(t, nil)

	resp, err := f.scenarios.ScenarioSet(context.Background(), contract.ScenarioSetRequest{
		SprintID: f.sprint.ID,
		Actor:    "alex",
		Now:      &f.now,
	})
	require.NoError(t, err)

	baseline := resp.Scenarios[0].PolicyResult
	assert.False(t, baseline.AutoApplyEligible)
	assert.NotEmpty(t, baseline.Violations)

	swap := resp.Scenarios[1].PolicyResult
	assert.True(t, swap.AutoApplyEligible)
	assert.Empty(t, swap.Violations)
	assert.Equal(t, 4, swap.ScopeChanges)
	assert.Equal(t, 2, swap.Drops)
	assert.Equal(t, 2, swap.Adds)

	focus := resp.Scenarios[2].PolicyResult
	assert.True(t, focus.AutoApplyEligible)
	assert.Equal(t, 2, focus.ScopeChanges)
}

func TestScenarioSet_OverridesResolveAndEcho(t *testing.T) {
	f := newEngineFixture(t, nil)

	band := "high"
	scope := 3
	resp, err := f.scenarios.ScenarioSet(context.Background(), contract.ScenarioSetRequest{
		SprintID: f.sprint.ID,
		Actor:    "alex",
		Overrides: domain.PolicyOverrides{
			MinConfidenceBand: &band,
			MaxScopeChanges:   &scope,
		},
		Now: &f.now,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BandHigh, resp.Policy.MinConfidenceBand)
	assert.Equal(t, 3, resp.Policy.MaxScopeChanges)
	assert.Equal(t, 1.0, resp.Policy.MinProbabilityDelta)

	// Under the tightened policy nothing reaches the high band, and the swap
	// scenario's four scope changes exceed the limit.
	for _, sc := range resp.Scenarios {
		assert.False(t, sc.PolicyResult.AutoApplyEligible, string(sc.ID))
	}
	assert.Nil(t, resp.RecommendedAutoApplyScenarioID)
	// The recommendation itself stays policy-free.
	assert.Equal(t, domain.ScenarioScopeSwap, resp.RecommendedScenarioID)
}

func TestScenarioSet_UnknownSprintIsNotFound(t *testing.T) {
	f := newEngineFixture(t, nil)

	_, err := f.scenarios.ScenarioSet(context.Background(), contract.ScenarioSetRequest{SprintID: 999, Actor: "alex"})
	var engineErr *contract.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, contract.ErrNotFound, engineErr.Code)
}
