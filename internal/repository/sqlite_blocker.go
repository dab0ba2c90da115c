package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/db"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// SQLiteBlockerRepo implements BlockerRepo using a SQLite database.
type SQLiteBlockerRepo struct {
	db db.DBTX
}

// NewSQLiteBlockerRepo creates a new SQLiteBlockerRepo.
func NewSQLiteBlockerRepo(db db.DBTX) *SQLiteBlockerRepo {
	return &SQLiteBlockerRepo{db: db}
}

func (r *SQLiteBlockerRepo) Create(ctx context.Context, b *domain.Blocker) error {
	query := `INSERT INTO blockers (sprint_id, issue_id, summary, active, created_at)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		b.SprintID,
		nullableInt64ToValue(b.IssueID),
		b.Summary,
		boolToInt(b.Active),
		b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting blocker: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading blocker id: %w", err)
	}
	b.ID = id
	return nil
}

func (r *SQLiteBlockerRepo) CountActiveBySprint(ctx context.Context, sprintID int64) (int, error) {
	query := `SELECT COUNT(*) FROM blockers WHERE sprint_id = ? AND active = 1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, sprintID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting active blockers: %w", err)
	}
	return count, nil
}
