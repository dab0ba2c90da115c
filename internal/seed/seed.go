// Package seed populates a database with a small demo workspace so the CLI
// and HTTP surfaces can be exercised without the surrounding platform.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/db"
	"github.com/alexanderramin/sprintpilot/internal/domain"
	"github.com/alexanderramin/sprintpilot/internal/service"
)

// Summary reports what the seeder created.
type Summary struct {
	ProjectID int64
	SprintID  int64
	Issues    int
	Decisions int
	Blockers  int
}

// Seeder writes the demo workspace in one transaction.
type Seeder struct {
	UoW   db.UnitOfWork
	Repos service.RepoFactory
}

func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	now := time.Now().UTC()
	summary := &Summary{}

	err := s.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := s.Repos(tx)

		project := &domain.Project{
			OrgID:     "org-demo",
			Key:       "ATL",
			Name:      "Atlas Platform",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Projects.Create(ctx, project); err != nil {
			return fmt.Errorf("seeding project: %w", err)
		}
		summary.ProjectID = project.ID

		sprint := &domain.Sprint{
			ProjectID: project.ID,
			Name:      "Sprint 14",
			Goal:      "ship the billing migration",
			Status:    domain.SprintActive,
			StartDate: now.AddDate(0, 0, -7),
			EndDate:   now.AddDate(0, 0, 6),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Sprints.Create(ctx, sprint); err != nil {
			return fmt.Errorf("seeding sprint: %w", err)
		}
		summary.SprintID = sprint.ID

		type issueSpec struct {
			title    string
			status   domain.IssueStatus
			priority domain.IssuePriority
			assignee string
			backlog  bool
		}
		specs := []issueSpec{
			{"Migrate invoice ledger schema", domain.IssueInProgress, domain.PriorityHighest, "mira", false},
			{"Dual-write billing events", domain.IssueInProgress, domain.PriorityHigh, "jonas", false},
			{"Cut over payment webhooks", domain.IssueTodo, domain.PriorityHigh, "mira", false},
			{"Backfill historical invoices", domain.IssueTodo, domain.PriorityMedium, "sam", false},
			{"Rate-limit refund endpoint", domain.IssueInReview, domain.PriorityMedium, "jonas", false},
			{"Deprecate legacy export job", domain.IssueTodo, domain.PriorityLow, "", false},
			{"Update runbook for on-call", domain.IssueDone, domain.PriorityMedium, "sam", false},
			{"Fix currency rounding in totals", domain.IssueDone, domain.PriorityHigh, "mira", false},
			{"Invoice PDF regeneration tool", domain.IssueBacklog, domain.PriorityHigh, "", true},
			{"Self-serve tax settings", domain.IssueBacklog, domain.PriorityMedium, "", true},
			{"Archive dormant accounts", domain.IssueBacklog, domain.PriorityLow, "", true},
			{"Billing dashboard dark mode", domain.IssueBacklog, domain.PriorityLowest, "", true},
		}

		issues := make([]*domain.Issue, 0, len(specs))
		for n, spec := range specs {
			issue := &domain.Issue{
				ProjectID: project.ID,
				Key:       fmt.Sprintf("ATL-%d", 101+n),
				Title:     spec.title,
				Status:    spec.status,
				Priority:  spec.priority,
				Assignee:  spec.assignee,
				InBacklog: spec.backlog,
				CreatedAt: now.AddDate(0, 0, -14+n),
				UpdatedAt: now,
			}
			if !spec.backlog {
				issue.SprintID = &sprint.ID
			}
			if err := repos.Issues.Create(ctx, issue); err != nil {
				return fmt.Errorf("seeding issue %s: %w", issue.Key, err)
			}
			issues = append(issues, issue)
		}
		summary.Issues = len(issues)

		type decisionSpec struct {
			title       string
			status      domain.DecisionStatus
			level       domain.ImpactLevel
			maker       string
			reviewed    bool
			impactIssue int
			impactType  domain.ImpactType
		}
		decisionSpecs := []decisionSpec{
			{"Choose payment provider for EU region", domain.DecisionUnderReview, domain.ImpactLevelCritical, "petra", false, 0, domain.ImpactBlocks},
			{"Ledger retention period", domain.DecisionApproved, domain.ImpactLevelHigh, "petra", false, 1, domain.ImpactDelays},
			{"Webhook signature scheme", domain.DecisionImplemented, domain.ImpactLevelMedium, "jonas", true, 2, domain.ImpactChanges},
		}
		for _, spec := range decisionSpecs {
			decision := &domain.Decision{
				ProjectID:     project.ID,
				Title:         spec.title,
				Status:        spec.status,
				ImpactLevel:   spec.level,
				DecisionMaker: spec.maker,
				CreatedAt:     now.AddDate(0, 0, -10),
				UpdatedAt:     now,
			}
			if spec.reviewed {
				reviewedAt := now.AddDate(0, 0, -2)
				decision.ReviewCompletedAt = &reviewedAt
			}
			if err := repos.Decisions.Create(ctx, decision); err != nil {
				return fmt.Errorf("seeding decision: %w", err)
			}
			impact := &domain.DecisionImpact{
				DecisionID: decision.ID,
				IssueID:    issues[spec.impactIssue].ID,
				SprintID:   sprint.ID,
				ImpactType: spec.impactType,
				CreatedAt:  now,
			}
			if err := repos.Decisions.CreateImpact(ctx, impact); err != nil {
				return fmt.Errorf("seeding decision impact: %w", err)
			}
		}
		summary.Decisions = len(decisionSpecs)

		blockers := []*domain.Blocker{
			{SprintID: sprint.ID, IssueID: &issues[0].ID, Summary: "waiting on DBA approval for schema change", Active: true, CreatedAt: now},
			{SprintID: sprint.ID, Summary: "staging environment flaky since infra upgrade", Active: true, CreatedAt: now},
		}
		for _, b := range blockers {
			if err := repos.Blockers.Create(ctx, b); err != nil {
				return fmt.Errorf("seeding blocker: %w", err)
			}
		}
		summary.Blockers = len(blockers)

		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
