package repository

import (
	"context"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
}

type SprintRepo interface {
	Create(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, id int64) (*domain.Sprint, error)
}

type IssueRepo interface {
	Create(ctx context.Context, i *domain.Issue) error
	GetByID(ctx context.Context, id int64) (*domain.Issue, error)
	// ListBySprint returns all issues assigned to the sprint in stable
	// retrieval order (ascending id).
	ListBySprint(ctx context.Context, sprintID int64) ([]*domain.Issue, error)
	// ListBacklog returns up to limit backlog issues of the project (no
	// sprint assigned), ordered by descending priority then descending
	// creation time.
	ListBacklog(ctx context.Context, projectID int64, limit int) ([]*domain.Issue, error)
	Update(ctx context.Context, i *domain.Issue) error
}

type DecisionRepo interface {
	Create(ctx context.Context, d *domain.Decision) error
	GetByID(ctx context.Context, id int64) (*domain.Decision, error)
	// ListImpactsBySprint returns every decision-impact record for the
	// sprint, with the linked decision's review state denormalized onto each
	// record.
	ListImpactsBySprint(ctx context.Context, sprintID int64) ([]domain.DecisionImpact, error)
	// ListUnresolvedBySprint returns up to limit decisions linked to the
	// sprint that still carry execution risk: status in (proposed,
	// under_review, approved), or implemented with no completed review.
	ListUnresolvedBySprint(ctx context.Context, sprintID int64, limit int) ([]*domain.Decision, error)
	// CountUnresolvedBySprint counts distinct decisions matching the same
	// predicate as ListUnresolvedBySprint.
	CountUnresolvedBySprint(ctx context.Context, sprintID int64) (int, error)
	CreateImpact(ctx context.Context, imp *domain.DecisionImpact) error
}

type BlockerRepo interface {
	Create(ctx context.Context, b *domain.Blocker) error
	CountActiveBySprint(ctx context.Context, sprintID int64) (int, error)
}

type FollowUpRepo interface {
	// CreateIfAbsent inserts the follow-up task, returning false without
	// error when a task with the same (org, decision, title) already exists.
	// Idempotency is enforced by the storage-level unique constraint, not by
	// a pre-check.
	CreateIfAbsent(ctx context.Context, t *domain.FollowUpTask) (bool, error)
	ListBySprint(ctx context.Context, sprintID int64) ([]*domain.FollowUpTask, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipient string) ([]*domain.Notification, error)
}
