package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/domain"
	"github.com/alexanderramin/sprintpilot/internal/repository"
	"github.com/alexanderramin/sprintpilot/internal/testutil"
)

func TestApplyPlan_DropsAddsAndFollowsUp(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	resp, err := f.apply.ApplyPlan(ctx, contract.ApplyPlanRequest{
		SprintID:     f.sprint.ID,
		Actor:        "alex",
		DropIssueIDs: []int64{f.inProg.ID},
		AddIssueIDs:  []int64{f.backlog1.ID},
		Now:          &f.now,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.DroppedCount)
	assert.Equal(t, 1, resp.AddedCount)
	require.Len(t, resp.Dropped, 1)
	assert.Equal(t, f.inProg.Key, resp.Dropped[0].Key)
	require.Len(t, resp.Added, 1)
	assert.Equal(t, f.backlog1.Key, resp.Added[0].Key)

	dropped, err := f.repos.Issues.GetByID(ctx, f.inProg.ID)
	require.NoError(t, err)
	assert.Nil(t, dropped.SprintID)
	assert.True(t, dropped.InBacklog)
	assert.Equal(t, domain.IssueBacklog, dropped.Status, "unfinished work returns to the backlog state")

	added, err := f.repos.Issues.GetByID(ctx, f.backlog1.ID)
	require.NoError(t, err)
	require.NotNil(t, added.SprintID)
	assert.Equal(t, f.sprint.ID, *added.SprintID)
	assert.False(t, added.InBacklog)
	assert.Equal(t, domain.IssueTodo, added.Status, "pulled-in backlog work becomes actionable")

	// One unresolved decision, one follow-up, due at now+5d (before the
	// sprint end).
	require.Equal(t, 1, resp.FollowUpsCount)
	assert.Equal(t, fmt.Sprintf("Sprint Autopilot: resolve decision #%d", f.decision.ID), resp.FollowUps[0].Title)

	tasks, err := f.repos.FollowUps.ListBySprint(ctx, f.sprint.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "petra", tasks[0].Assignee)
	assert.Equal(t, domain.PriorityMedium, tasks[0].Priority)
	assert.Equal(t, "Sprint Autopilot", tasks[0].SourceLabel)
	assert.True(t, tasks[0].DueDate.Equal(time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)))
}

func TestApplyPlan_DroppedDoneIssueKeepsStatus(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	_, err := f.apply.ApplyPlan(ctx, contract.ApplyPlanRequest{
		SprintID:     f.sprint.ID,
		Actor:        "alex",
		DropIssueIDs: []int64{f.done1.ID},
		Now:          &f.now,
	})
	require.NoError(t, err)

	dropped, err := f.repos.Issues.GetByID(ctx, f.done1.ID)
	require.NoError(t, err)
	assert.Nil(t, dropped.SprintID)
	assert.True(t, dropped.InBacklog)
	assert.Equal(t, domain.IssueDone, dropped.Status)
}

func TestApplyPlan_IsIdempotent(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	req := contract.ApplyPlanRequest{
		SprintID:     f.sprint.ID,
		Actor:        "alex",
		DropIssueIDs: []int64{f.inProg.ID},
		AddIssueIDs:  []int64{f.backlog1.ID},
		Now:          &f.now,
	}

	first, err := f.apply.ApplyPlan(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 1, first.FollowUpsCount)

	second, err := f.apply.ApplyPlan(ctx, req)
	require.NoError(t, err)

	// Issues already in their target state are reported again; follow-ups
	// are not recreated.
	assert.Equal(t, first.Dropped, second.Dropped)
	assert.Equal(t, first.Added, second.Added)
	assert.Equal(t, 0, second.FollowUpsCount)

	tasks, err := f.repos.FollowUps.ListBySprint(ctx, f.sprint.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestApplyPlan_NotifiesAssigneeOnceAfterCommit(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	req := contract.ApplyPlanRequest{
		SprintID:     f.sprint.ID,
		Actor:        "alex",
		DropIssueIDs: []int64{f.inProg.ID},
		Now:          &f.now,
	}
	_, err := f.apply.ApplyPlan(ctx, req)
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "petra", f.notifier.sent[0].Recipient)
	assert.Contains(t, f.notifier.sent[0].Body, "due 2026-06-12")

	persisted, err := f.repos.Notifications.ListByRecipient(ctx, "petra")
	require.NoError(t, err)
	assert.Len(t, persisted, 1)

	// Re-running creates no follow-up and therefore no second notification.
	_, err = f.apply.ApplyPlan(ctx, req)
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent, 1)
}

func TestApplyPlan_ActorAsAssigneeIsNotNotified(t *testing.T) {
	f := newEngineFixture(t, nil)

	_, err := f.apply.ApplyPlan(context.Background(), contract.ApplyPlanRequest{
		SprintID: f.sprint.ID,
		Actor:    "petra",
		Now:      &f.now,
	})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent)
}

func TestApplyPlan_SkipsForeignAndMissingIssues(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	other := testProjectIssue(t, f)

	resp, err := f.apply.ApplyPlan(ctx, contract.ApplyPlanRequest{
		SprintID:     f.sprint.ID,
		Actor:        "alex",
		DropIssueIDs: []int64{9999, f.inProg.ID},
		AddIssueIDs:  []int64{other.ID},
		Now:          &f.now,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.DroppedCount)
	assert.Equal(t, 0, resp.AddedCount)

	untouched, err := f.repos.Issues.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.SprintID)
}

func TestApplyPlan_TruncatesIDLists(t *testing.T) {
	f := newEngineFixture(t, nil)

	// The real issue sits past the cap, so the truncated plan drops nothing.
	drops := make([]int64, 0, 11)
	for i := 0; i < 10; i++ {
		drops = append(drops, int64(9000+i))
	}
	drops = append(drops, f.inProg.ID)

	resp, err := f.apply.ApplyPlan(context.Background(), contract.ApplyPlanRequest{
		SprintID:     f.sprint.ID,
		Actor:        "alex",
		DropIssueIDs: drops,
		Now:          &f.now,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.DroppedCount)
}

func TestApplyPlan_FollowupsCanBeDisabled(t *testing.T) {
	f := newEngineFixture(t, nil)

	disabled := false
	resp, err := f.apply.ApplyPlan(context.Background(), contract.ApplyPlanRequest{
		SprintID:                f.sprint.ID,
		Actor:                   "alex",
		DropIssueIDs:            []int64{f.inProg.ID},
		CreateDecisionFollowups: &disabled,
		Now:                     &f.now,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.FollowUpsCount)

	tasks, err := f.repos.FollowUps.ListBySprint(context.Background(), f.sprint.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestApplyPlan_MidTransactionFailureRollsBack(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	// Exec 1 detaches the issue, exec 2 inserts the follow-up. Failing the
	// second write must undo the first.
	boom := errors.New("disk full")
	failing := NewApplyService(
		&testutil.FailOnNthExecUoW{DB: f.database, FailOn: 2, Err: boom},
		repository.NewSQLiteRepos,
		AllowAllAccess{},
		f.notifier,
		domain.DefaultPolicy(),
	)

	_, err := failing.ApplyPlan(ctx, contract.ApplyPlanRequest{
		SprintID:     f.sprint.ID,
		Actor:        "alex",
		DropIssueIDs: []int64{f.inProg.ID},
		Now:          &f.now,
	})
	require.ErrorIs(t, err, boom)

	kept, err := f.repos.Issues.GetByID(ctx, f.inProg.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.SprintID)

	tasks, err := f.repos.FollowUps.ListBySprint(ctx, f.sprint.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Empty(t, f.notifier.sent)
}

func TestApplyScenario_AutoAppliesRecommendedScenario(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	resp, err := f.apply.ApplyScenario(ctx, contract.ScenarioApplyRequest{
		SprintID:  f.sprint.ID,
		Actor:     "alex",
		AutoApply: true,
		Now:       &f.now,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ScenarioScopeSwap, resp.ScenarioID)
	assert.Equal(t, 2, resp.DroppedCount)
	assert.Equal(t, 2, resp.AddedCount)
	assert.Equal(t, 1, resp.FollowUpsCount)
	assert.Equal(t, fmt.Sprintf("Decision Twin: resolve decision #%d", f.decision.ID), resp.FollowUps[0].Title)
	assert.Equal(t, domain.BandMedium, resp.Policy.MinConfidenceBand)

	dropped, err := f.repos.Issues.GetByID(ctx, f.inProg.ID)
	require.NoError(t, err)
	assert.Nil(t, dropped.SprintID)

	pulled, err := f.repos.Issues.GetByID(ctx, f.backlog1.ID)
	require.NoError(t, err)
	require.NotNil(t, pulled.SprintID)
	assert.Equal(t, f.sprint.ID, *pulled.SprintID)
	assert.Equal(t, domain.IssueTodo, pulled.Status)
}

func TestApplyScenario_ExplicitScenarioID(t *testing.T) {
	f := newEngineFixture(t, nil)

	id := domain.ScenarioFocusMode
	resp, err := f.apply.ApplyScenario(context.Background(), contract.ScenarioApplyRequest{
		SprintID:   f.sprint.ID,
		Actor:      "alex",
		ScenarioID: &id,
		Now:        &f.now,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ScenarioFocusMode, resp.ScenarioID)
	assert.Equal(t, 2, resp.DroppedCount)
	assert.Equal(t, 0, resp.AddedCount)
}

func TestApplyScenario_ExplicitIDListsOverrideThePlan(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	id := domain.ScenarioScopeSwap
	resp, err := f.apply.ApplyScenario(ctx, contract.ScenarioApplyRequest{
		SprintID:     f.sprint.ID,
		Actor:        "alex",
		ScenarioID:   &id,
		DropIssueIDs: []int64{f.todo.ID},
		AddIssueIDs:  []int64{},
		Now:          &f.now,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.DroppedCount)
	assert.Equal(t, f.todo.Key, resp.Dropped[0].Key)
	assert.Equal(t, 0, resp.AddedCount)

	// The scenario's own drop stays untouched.
	kept, err := f.repos.Issues.GetByID(ctx, f.inProg.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.SprintID)
}

func TestApplyScenario_PolicyViolationRejectsExplicitScenario(t *testing.T) {
	f := newEngineFixture(t, nil)

	id := domain.ScenarioScopeSwap
	delta := 25.0
	_, err := f.apply.ApplyScenario(context.Background(), contract.ScenarioApplyRequest{
		SprintID:   f.sprint.ID,
		Actor:      "alex",
		ScenarioID: &id,
		Overrides:  domain.PolicyOverrides{MinProbabilityDelta: &delta},
		Now:        &f.now,
	})

	var engineErr *contract.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, contract.ErrPolicyViolation, engineErr.Code)
	require.NotEmpty(t, engineErr.Violations)
	assert.Contains(t, engineErr.Violations[0], "probability delta")
}

func TestApplyScenario_PolicyViolationRollsBackEverything(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	id := domain.ScenarioScopeSwap
	delta := 25.0
	_, err := f.apply.ApplyScenario(ctx, contract.ScenarioApplyRequest{
		SprintID:   f.sprint.ID,
		Actor:      "alex",
		ScenarioID: &id,
		Overrides:  domain.PolicyOverrides{MinProbabilityDelta: &delta},
		Now:        &f.now,
	})
	require.Error(t, err)

	kept, err := f.repos.Issues.GetByID(ctx, f.inProg.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.SprintID)

	tasks, err := f.repos.FollowUps.ListBySprint(ctx, f.sprint.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Empty(t, f.notifier.sent)
}

func TestApplyScenario_EnforcementCanBeDisabled(t *testing.T) {
	f := newEngineFixture(t, nil)

	id := domain.ScenarioScopeSwap
	delta := 25.0
	enforce := false
	resp, err := f.apply.ApplyScenario(context.Background(), contract.ScenarioApplyRequest{
		SprintID:   f.sprint.ID,
		Actor:      "alex",
		ScenarioID: &id,
		Overrides: domain.PolicyOverrides{
			MinProbabilityDelta: &delta,
			EnforcePolicy:       &enforce,
		},
		Now: &f.now,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.DroppedCount)
	assert.False(t, resp.Policy.EnforcePolicy)
}

func TestApplyScenario_NoEligibleScenarioUnderTightPolicy(t *testing.T) {
	f := newEngineFixture(t, nil)

	delta := 25.0
	_, err := f.apply.ApplyScenario(context.Background(), contract.ScenarioApplyRequest{
		SprintID:  f.sprint.ID,
		Actor:     "alex",
		AutoApply: true,
		Overrides: domain.PolicyOverrides{MinProbabilityDelta: &delta},
		Now:       &f.now,
	})

	var engineErr *contract.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, contract.ErrNoEligibleScenario, engineErr.Code)
}

func TestApplyScenario_RequiresScenarioOrAutoApply(t *testing.T) {
	f := newEngineFixture(t, nil)

	_, err := f.apply.ApplyScenario(context.Background(), contract.ScenarioApplyRequest{
		SprintID: f.sprint.ID,
		Actor:    "alex",
		Now:      &f.now,
	})
	var engineErr *contract.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, contract.ErrValidation, engineErr.Code)
}

func TestApplyScenario_RejectsUnknownScenarioID(t *testing.T) {
	f := newEngineFixture(t, nil)

	bogus := domain.ScenarioID("yolo_mode")
	_, err := f.apply.ApplyScenario(context.Background(), contract.ScenarioApplyRequest{
		SprintID:   f.sprint.ID,
		Actor:      "alex",
		ScenarioID: &bogus,
		Now:        &f.now,
	})
	var engineErr *contract.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, contract.ErrValidation, engineErr.Code)
}

func TestApplyScenario_DeniedActorIsForbidden(t *testing.T) {
	f := newEngineFixture(t, denyAllAccess{})

	_, err := f.apply.ApplyScenario(context.Background(), contract.ScenarioApplyRequest{
		SprintID:  f.sprint.ID,
		Actor:     "intruder",
		AutoApply: true,
		Now:       &f.now,
	})
	var engineErr *contract.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, contract.ErrForbidden, engineErr.Code)
}
