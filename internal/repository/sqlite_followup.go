package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/db"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

const followUpColumns = `id, org_id, decision_id, sprint_id, title, priority,
		assignee, due_date, source_label, created_at`

// SQLiteFollowUpRepo implements FollowUpRepo using a SQLite database.
type SQLiteFollowUpRepo struct {
	db db.DBTX
}

// NewSQLiteFollowUpRepo creates a new SQLiteFollowUpRepo.
func NewSQLiteFollowUpRepo(db db.DBTX) *SQLiteFollowUpRepo {
	return &SQLiteFollowUpRepo{db: db}
}

func (r *SQLiteFollowUpRepo) CreateIfAbsent(ctx context.Context, t *domain.FollowUpTask) (bool, error) {
	query := `INSERT INTO followup_tasks (id, org_id, decision_id, sprint_id, title,
		priority, assignee, due_date, source_label, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.OrgID,
		t.DecisionID,
		t.SprintID,
		t.Title,
		string(t.Priority),
		t.Assignee,
		t.DueDate.Format(dateLayout),
		t.SourceLabel,
		t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		// The (org_id, decision_id, title) unique index makes duplicate
		// creation a conflict, not an error.
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("inserting follow-up task: %w", err)
	}
	return true, nil
}

func (r *SQLiteFollowUpRepo) ListBySprint(ctx context.Context, sprintID int64) ([]*domain.FollowUpTask, error) {
	query := `SELECT ` + followUpColumns + ` FROM followup_tasks WHERE sprint_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, sprintID)
	if err != nil {
		return nil, fmt.Errorf("listing follow-up tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.FollowUpTask
	for rows.Next() {
		var t domain.FollowUpTask
		var priorityStr, dueDateStr, createdAtStr string
		if err := rows.Scan(&t.ID, &t.OrgID, &t.DecisionID, &t.SprintID, &t.Title,
			&priorityStr, &t.Assignee, &dueDateStr, &t.SourceLabel, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning follow-up task: %w", err)
		}
		t.Priority = domain.IssuePriority(priorityStr)
		var parseErr error
		t.DueDate, parseErr = time.Parse(dateLayout, dueDateStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing due_date: %w", parseErr)
		}
		t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating follow-up tasks: %w", err)
	}
	return tasks, nil
}

// SQLiteNotificationRepo implements NotificationRepo using a SQLite database.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(db db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: db}
}

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (id, recipient, body, created_at)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.Recipient,
		n.Body,
		n.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) ListByRecipient(ctx context.Context, recipient string) ([]*domain.Notification, error) {
	query := `SELECT id, recipient, body, created_at FROM notifications WHERE recipient = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, recipient)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAtStr string
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Body, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		var parseErr error
		n.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return notes, nil
}
