package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintpilot/internal/domain"
	"github.com/alexanderramin/sprintpilot/internal/testutil"
)

func TestDecisionRepo_UnresolvedPredicate(t *testing.T) {
	repos, project, sprint := setupProjectAndSprint(t)
	ctx := context.Background()

	issue := testutil.NewTestIssue(project.ID, "Task", testutil.WithSprintID(sprint.ID))
	require.NoError(t, repos.Issues.Create(ctx, issue))

	proposed := testutil.NewTestDecision(project.ID, "Pick provider",
		testutil.WithDecisionStatus(domain.DecisionProposed))
	implementedOpen := testutil.NewTestDecision(project.ID, "Retention period",
		testutil.WithDecisionStatus(domain.DecisionImplemented))
	implementedReviewed := testutil.NewTestDecision(project.ID, "Signature scheme",
		testutil.WithDecisionStatus(domain.DecisionImplemented),
		testutil.WithReviewCompletedAt(time.Now().UTC()))
	resolved := testutil.NewTestDecision(project.ID, "Old call",
		testutil.WithDecisionStatus(domain.DecisionResolved))

	for _, d := range []*domain.Decision{proposed, implementedOpen, implementedReviewed, resolved} {
		require.NoError(t, repos.Decisions.Create(ctx, d))
		impact := testutil.NewTestImpact(d.ID, issue.ID, sprint.ID, domain.ImpactChanges)
		require.NoError(t, repos.Decisions.CreateImpact(ctx, impact))
	}

	unresolved, err := repos.Decisions.ListUnresolvedBySprint(ctx, sprint.ID, 10)
	require.NoError(t, err)
	require.Len(t, unresolved, 2)
	assert.Equal(t, proposed.ID, unresolved[0].ID)
	assert.Equal(t, implementedOpen.ID, unresolved[1].ID)

	count, err := repos.Decisions.CountUnresolvedBySprint(ctx, sprint.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDecisionRepo_CountIsDistinctAcrossImpacts(t *testing.T) {
	repos, project, sprint := setupProjectAndSprint(t)
	ctx := context.Background()

	first := testutil.NewTestIssue(project.ID, "A", testutil.WithSprintID(sprint.ID))
	second := testutil.NewTestIssue(project.ID, "B", testutil.WithSprintID(sprint.ID))
	require.NoError(t, repos.Issues.Create(ctx, first))
	require.NoError(t, repos.Issues.Create(ctx, second))

	decision := testutil.NewTestDecision(project.ID, "One decision, two impacts")
	require.NoError(t, repos.Decisions.Create(ctx, decision))
	require.NoError(t, repos.Decisions.CreateImpact(ctx,
		testutil.NewTestImpact(decision.ID, first.ID, sprint.ID, domain.ImpactBlocks)))
	require.NoError(t, repos.Decisions.CreateImpact(ctx,
		testutil.NewTestImpact(decision.ID, second.ID, sprint.ID, domain.ImpactDelays)))

	count, err := repos.Decisions.CountUnresolvedBySprint(ctx, sprint.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDecisionRepo_ListImpactsDenormalizesReviewState(t *testing.T) {
	repos, project, sprint := setupProjectAndSprint(t)
	ctx := context.Background()

	issue := testutil.NewTestIssue(project.ID, "Task", testutil.WithSprintID(sprint.ID))
	require.NoError(t, repos.Issues.Create(ctx, issue))

	reviewedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	decision := testutil.NewTestDecision(project.ID, "Reviewed decision",
		testutil.WithDecisionStatus(domain.DecisionImplemented),
		testutil.WithReviewCompletedAt(reviewedAt))
	require.NoError(t, repos.Decisions.Create(ctx, decision))
	require.NoError(t, repos.Decisions.CreateImpact(ctx,
		testutil.NewTestImpact(decision.ID, issue.ID, sprint.ID, domain.ImpactChanges)))

	impacts, err := repos.Decisions.ListImpactsBySprint(ctx, sprint.ID)
	require.NoError(t, err)
	require.Len(t, impacts, 1)
	assert.Equal(t, domain.ImpactChanges, impacts[0].ImpactType)
	require.NotNil(t, impacts[0].ReviewCompletedAt)
	assert.True(t, impacts[0].ReviewCompletedAt.Equal(reviewedAt))
}

func TestDecisionRepo_ListUnresolvedHonorsLimit(t *testing.T) {
	repos, project, sprint := setupProjectAndSprint(t)
	ctx := context.Background()

	issue := testutil.NewTestIssue(project.ID, "Task", testutil.WithSprintID(sprint.ID))
	require.NoError(t, repos.Issues.Create(ctx, issue))

	for i := 0; i < 7; i++ {
		d := testutil.NewTestDecision(project.ID, "Pending")
		require.NoError(t, repos.Decisions.Create(ctx, d))
		require.NoError(t, repos.Decisions.CreateImpact(ctx,
			testutil.NewTestImpact(d.ID, issue.ID, sprint.ID, domain.ImpactChanges)))
	}

	unresolved, err := repos.Decisions.ListUnresolvedBySprint(ctx, sprint.ID, 5)
	require.NoError(t, err)
	assert.Len(t, unresolved, 5)
}
