package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintpilot/internal/domain"
	"github.com/alexanderramin/sprintpilot/internal/testutil"
)

func followUpTask(orgID string, decisionID, sprintID int64, title string) *domain.FollowUpTask {
	now := time.Now().UTC()
	return &domain.FollowUpTask{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		DecisionID:  decisionID,
		SprintID:    sprintID,
		Title:       title,
		Priority:    domain.PriorityMedium,
		Assignee:    "petra",
		DueDate:     now.AddDate(0, 0, 5),
		SourceLabel: "Decision Twin",
		CreatedAt:   now,
	}
}

func TestFollowUpRepo_CreateIfAbsentIsIdempotent(t *testing.T) {
	repos, project, sprint := setupProjectAndSprint(t)
	ctx := context.Background()

	decision := testutil.NewTestDecision(project.ID, "Pending")
	require.NoError(t, repos.Decisions.Create(ctx, decision))

	title := "Decision Twin: resolve decision #1"
	created, err := repos.FollowUps.CreateIfAbsent(ctx, followUpTask(project.OrgID, decision.ID, sprint.ID, title))
	require.NoError(t, err)
	assert.True(t, created)

	// Same org, decision and title: conflict, not error.
	created, err = repos.FollowUps.CreateIfAbsent(ctx, followUpTask(project.OrgID, decision.ID, sprint.ID, title))
	require.NoError(t, err)
	assert.False(t, created)

	// A different title for the same decision is a new task.
	created, err = repos.FollowUps.CreateIfAbsent(ctx, followUpTask(project.OrgID, decision.ID, sprint.ID, "Sprint Autopilot: resolve decision #1"))
	require.NoError(t, err)
	assert.True(t, created)

	tasks, err := repos.FollowUps.ListBySprint(ctx, sprint.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestFollowUpRepo_ListBySprintRoundtrip(t *testing.T) {
	repos, project, sprint := setupProjectAndSprint(t)
	ctx := context.Background()

	decision := testutil.NewTestDecision(project.ID, "Pending")
	require.NoError(t, repos.Decisions.Create(ctx, decision))

	task := followUpTask(project.OrgID, decision.ID, sprint.ID, "resolve it")
	created, err := repos.FollowUps.CreateIfAbsent(ctx, task)
	require.NoError(t, err)
	require.True(t, created)

	tasks, err := repos.FollowUps.ListBySprint(ctx, sprint.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, "resolve it", tasks[0].Title)
	assert.Equal(t, "petra", tasks[0].Assignee)
	assert.Equal(t, "Decision Twin", tasks[0].SourceLabel)
}

func TestNotificationRepo_Roundtrip(t *testing.T) {
	repos, _, _ := setupProjectAndSprint(t)
	ctx := context.Background()

	n := &domain.Notification{
		ID:        uuid.NewString(),
		Recipient: "petra",
		Body:      "New follow-up task assigned",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repos.Notifications.Create(ctx, n))

	notes, err := repos.Notifications.ListByRecipient(ctx, "petra")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, n.Body, notes[0].Body)

	empty, err := repos.Notifications.ListByRecipient(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBlockerRepo_CountsOnlyActive(t *testing.T) {
	repos, _, sprint := setupProjectAndSprint(t)
	ctx := context.Background()

	require.NoError(t, repos.Blockers.Create(ctx, testutil.NewTestBlocker(sprint.ID, "dba approval")))
	require.NoError(t, repos.Blockers.Create(ctx, testutil.NewTestBlocker(sprint.ID, "flaky staging")))
	require.NoError(t, repos.Blockers.Create(ctx, testutil.NewTestBlocker(sprint.ID, "resolved", testutil.Inactive())))

	count, err := repos.Blockers.CountActiveBySprint(ctx, sprint.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
