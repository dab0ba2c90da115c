package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintpilot/internal/domain"
	"github.com/alexanderramin/sprintpilot/internal/repository"
	"github.com/alexanderramin/sprintpilot/internal/testutil"
)

// engineFixture wires the full service stack over an in-memory database with
// a deterministic sprint:
//
//	window 2026-06-01..2026-06-14, evaluated at 2026-06-07 (time 50% elapsed)
//	4 sprint issues: 2 done, 1 in progress, 1 todo (completion 50%)
//	1 unresolved decision blocking the in-progress issue (exposure 2.5)
//	1 active blocker
//
// Baseline probability: 55 - 2.5 - 4 - 5 = 43.5.
type engineFixture struct {
	database  *sql.DB
	repos     repository.Repos
	preview   PreviewService
	scenarios ScenarioService
	apply     ApplyService
	notifier  *capturingNotifier

	project  *domain.Project
	sprint   *domain.Sprint
	done1    *domain.Issue
	done2    *domain.Issue
	inProg   *domain.Issue
	todo     *domain.Issue
	backlog1 *domain.Issue
	backlog2 *domain.Issue
	decision *domain.Decision
	now      time.Time
}

type denyAllAccess struct{}

func (denyAllAccess) CanEditProject(context.Context, string, int64) (bool, error) {
	return false, nil
}

// capturingNotifier records every dispatched notification.
type capturingNotifier struct {
	sent []domain.Notification
}

func (c *capturingNotifier) Notify(_ context.Context, n domain.Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func newEngineFixture(t *testing.T, access AccessChecker) *engineFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()

	f := &engineFixture{
		database: database,
		repos:    repos,
		now:      time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
	}

	f.project = testutil.NewTestProject("Atlas")
	require.NoError(t, repos.Projects.Create(ctx, f.project))

	f.sprint = testutil.NewTestSprint(f.project.ID, "Sprint 1",
		testutil.WithSprintWindow(
			time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC),
		))
	require.NoError(t, repos.Sprints.Create(ctx, f.sprint))

	f.done1 = testutil.NewTestIssue(f.project.ID, "Ship login",
		testutil.WithSprintID(f.sprint.ID), testutil.WithIssueStatus(domain.IssueDone))
	f.done2 = testutil.NewTestIssue(f.project.ID, "Ship logout",
		testutil.WithSprintID(f.sprint.ID), testutil.WithIssueStatus(domain.IssueDone))
	f.inProg = testutil.NewTestIssue(f.project.ID, "Migrate billing",
		testutil.WithSprintID(f.sprint.ID), testutil.WithIssueStatus(domain.IssueInProgress))
	f.todo = testutil.NewTestIssue(f.project.ID, "Cut over webhooks",
		testutil.WithSprintID(f.sprint.ID), testutil.WithIssueStatus(domain.IssueTodo))
	f.backlog1 = testutil.NewTestIssue(f.project.ID, "PDF regeneration",
		testutil.InBacklog(), testutil.WithIssueStatus(domain.IssueBacklog),
		testutil.WithIssuePriority(domain.PriorityHigh))
	f.backlog2 = testutil.NewTestIssue(f.project.ID, "Tax settings",
		testutil.InBacklog(), testutil.WithIssueStatus(domain.IssueBacklog),
		testutil.WithIssuePriority(domain.PriorityHigh))
	for _, issue := range []*domain.Issue{f.done1, f.done2, f.inProg, f.todo, f.backlog1, f.backlog2} {
		require.NoError(t, repos.Issues.Create(ctx, issue))
	}

	f.decision = testutil.NewTestDecision(f.project.ID, "Pick payment provider",
		testutil.WithDecisionMaker("petra"))
	require.NoError(t, repos.Decisions.Create(ctx, f.decision))
	require.NoError(t, repos.Decisions.CreateImpact(ctx,
		testutil.NewTestImpact(f.decision.ID, f.inProg.ID, f.sprint.ID, domain.ImpactBlocks)))

	require.NoError(t, repos.Blockers.Create(ctx,
		testutil.NewTestBlocker(f.sprint.ID, "waiting on DBA approval")))

	if access == nil {
		access = AllowAllAccess{}
	}
	loader := NewSnapshotLoader(repos.Projects, repos.Sprints, repos.Issues, repos.Decisions, repos.Blockers)
	f.notifier = &capturingNotifier{}
	f.preview = NewPreviewService(loader, access)
	f.scenarios = NewScenarioService(loader, access, domain.DefaultPolicy())
	f.apply = NewApplyService(uow, repository.NewSQLiteRepos, access, f.notifier, domain.DefaultPolicy())

	return f
}

// testProjectIssue creates a backlog issue in a different project; apply
// operations must never touch it.
func testProjectIssue(t *testing.T, f *engineFixture) *domain.Issue {
	t.Helper()
	ctx := context.Background()

	other := testutil.NewTestProject("Borealis")
	require.NoError(t, f.repos.Projects.Create(ctx, other))

	issue := testutil.NewTestIssue(other.ID, "Foreign work", testutil.InBacklog())
	require.NoError(t, f.repos.Issues.Create(ctx, issue))
	return issue
}
