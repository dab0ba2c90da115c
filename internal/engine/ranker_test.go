package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

func issueWith(id int64, status domain.IssueStatus, priority domain.IssuePriority) *domain.Issue {
	return &domain.Issue{ID: id, Key: fmt.Sprintf("T-%d", id), Status: status, Priority: priority}
}

func TestDropCandidates_ScoreFormula(t *testing.T) {
	issues := []*domain.Issue{issueWith(1, domain.IssueTodo, domain.PriorityLow)}
	exposure := map[int64]float64{1: 2.5}

	candidates := DropCandidates(issues, exposure)
	require.Len(t, candidates, 1)
	// 2.5*1.9 + 3*0.8
	assert.InDelta(t, 7.15, candidates[0].Score, 0.0001)
}

func TestDropCandidates_ActiveBump(t *testing.T) {
	idle := DropCandidates([]*domain.Issue{issueWith(1, domain.IssueTodo, domain.PriorityMedium)}, nil)
	active := DropCandidates([]*domain.Issue{issueWith(1, domain.IssueInReview, domain.PriorityMedium)}, nil)
	assert.InDelta(t, 0.8, active[0].Score-idle[0].Score, 0.0001)
}

func TestDropCandidates_SkipsDone(t *testing.T) {
	issues := []*domain.Issue{
		issueWith(1, domain.IssueDone, domain.PriorityLow),
		issueWith(2, domain.IssueTodo, domain.PriorityLow),
	}
	candidates := DropCandidates(issues, nil)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(2), candidates[0].Issue.ID)
}

func TestDropCandidates_TiesKeepRetrievalOrder(t *testing.T) {
	issues := []*domain.Issue{
		issueWith(5, domain.IssueTodo, domain.PriorityMedium),
		issueWith(2, domain.IssueTodo, domain.PriorityMedium),
		issueWith(9, domain.IssueTodo, domain.PriorityMedium),
	}
	candidates := DropCandidates(issues, nil)
	require.Len(t, candidates, 3)
	assert.Equal(t, int64(5), candidates[0].Issue.ID)
	assert.Equal(t, int64(2), candidates[1].Issue.ID)
	assert.Equal(t, int64(9), candidates[2].Issue.ID)
}

func TestDropCandidates_HighExposureFirst(t *testing.T) {
	issues := []*domain.Issue{
		issueWith(1, domain.IssueTodo, domain.PriorityHighest),
		issueWith(2, domain.IssueTodo, domain.PriorityHighest),
	}
	exposure := map[int64]float64{2: 3.0}
	candidates := DropCandidates(issues, exposure)
	assert.Equal(t, int64(2), candidates[0].Issue.ID)
}

func TestAddCandidates_PriorityBonusMinusExposurePenalty(t *testing.T) {
	backlog := []*domain.Issue{issueWith(1, domain.IssueBacklog, domain.PriorityHighest)}
	exposure := map[int64]float64{1: 1.0}

	candidates := AddCandidates(backlog, exposure)
	require.Len(t, candidates, 1)
	// 3.0 - 1.0*1.5
	assert.InDelta(t, 1.5, candidates[0].Score, 0.0001)
}

func TestAddCandidates_UnexposedHighPriorityWins(t *testing.T) {
	backlog := []*domain.Issue{
		issueWith(1, domain.IssueBacklog, domain.PriorityHighest),
		issueWith(2, domain.IssueBacklog, domain.PriorityMedium),
	}
	exposure := map[int64]float64{1: 2.0}

	candidates := AddCandidates(backlog, exposure)
	// 3.0-3.0=0 for issue 1, 1.2 for issue 2.
	assert.Equal(t, int64(2), candidates[0].Issue.ID)
}

func TestHeatScores_ScalingAndActiveBump(t *testing.T) {
	issues := []*domain.Issue{
		issueWith(1, domain.IssueTodo, domain.PriorityMedium),
		issueWith(2, domain.IssueInProgress, domain.PriorityMedium),
	}
	exposure := map[int64]float64{1: 2.5, 2: 2.5}

	entries := HeatScores(issues, exposure)
	require.Len(t, entries, 2)
	// floor(2.5*22)=55; the active issue gets +10 and sorts first.
	assert.Equal(t, int64(2), entries[0].Issue.ID)
	assert.Equal(t, 65, entries[0].Score)
	assert.Equal(t, 55, entries[1].Score)
}

func TestHeatScores_CappedAt100(t *testing.T) {
	issues := []*domain.Issue{issueWith(1, domain.IssueInProgress, domain.PriorityMedium)}
	entries := HeatScores(issues, map[int64]float64{1: 9.0})
	assert.Equal(t, 100, entries[0].Score)
}

func TestHeatScores_LimitedToTopTen(t *testing.T) {
	var issues []*domain.Issue
	exposure := make(map[int64]float64)
	for i := int64(1); i <= 14; i++ {
		issues = append(issues, issueWith(i, domain.IssueTodo, domain.PriorityMedium))
		exposure[i] = float64(i) * 0.3
	}
	entries := HeatScores(issues, exposure)
	assert.Len(t, entries, 10)
	assert.Equal(t, int64(14), entries[0].Issue.ID)
}

func TestRiskNotes_OrderAndContent(t *testing.T) {
	risks := RiskNotes(ProbabilityInput{
		CompletionRatio:         0.2,
		TimeElapsedRatio:        0.6,
		InProgressCount:         5,
		UnresolvedDecisionCount: 3,
		BlockersCount:           2,
	}, 6)

	require.Len(t, risks, 4)
	assert.Equal(t, "delivery pace behind elapsed time", risks[0])
	assert.Equal(t, "3 unresolved decisions may affect execution", risks[1])
	assert.Equal(t, "2 active blockers reducing predictability", risks[2])
	assert.Equal(t, "WIP bottleneck", risks[3])
}

func TestRiskNotes_PaceGrace(t *testing.T) {
	// Completion within 0.15 of elapsed time is not flagged.
	risks := RiskNotes(ProbabilityInput{CompletionRatio: 0.5, TimeElapsedRatio: 0.6}, 4)
	assert.Empty(t, risks)
}

func TestRiskNotes_WIPThresholdScalesWithSprintSize(t *testing.T) {
	in := ProbabilityInput{CompletionRatio: 0.5, TimeElapsedRatio: 0.5, InProgressCount: 4}

	// 4 in progress beats max(3, 6/2)=3.
	assert.Contains(t, RiskNotes(in, 6), "WIP bottleneck")

	// On a 10-issue sprint the threshold is 5.
	assert.NotContains(t, RiskNotes(in, 10), "WIP bottleneck")
}
