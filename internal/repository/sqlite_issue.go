package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/db"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// issueColumns is the canonical SELECT column list for issues.
const issueColumns = `id, project_id, sprint_id, key, title, status, priority,
		assignee, in_backlog, created_at, updated_at`

// SQLiteIssueRepo implements IssueRepo using a SQLite database.
type SQLiteIssueRepo struct {
	db db.DBTX
}

// NewSQLiteIssueRepo creates a new SQLiteIssueRepo. It accepts either a
// *sql.DB or a transaction, so the plan applier can run tx-scoped.
func NewSQLiteIssueRepo(db db.DBTX) *SQLiteIssueRepo {
	return &SQLiteIssueRepo{db: db}
}

func (r *SQLiteIssueRepo) Create(ctx context.Context, i *domain.Issue) error {
	query := `INSERT INTO issues (project_id, sprint_id, key, title, status, priority,
		assignee, in_backlog, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		i.ProjectID,
		nullableInt64ToValue(i.SprintID),
		i.Key,
		i.Title,
		string(i.Status),
		string(i.Priority),
		i.Assignee,
		boolToInt(i.InBacklog),
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting issue: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading issue id: %w", err)
	}
	i.ID = id
	return nil
}

func (r *SQLiteIssueRepo) GetByID(ctx context.Context, id int64) (*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanIssue(row)
}

func (r *SQLiteIssueRepo) ListBySprint(ctx context.Context, sprintID int64) ([]*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE sprint_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, sprintID)
	if err != nil {
		return nil, fmt.Errorf("listing issues by sprint: %w", err)
	}
	defer rows.Close()
	return r.scanIssues(rows)
}

func (r *SQLiteIssueRepo) ListBacklog(ctx context.Context, projectID int64, limit int) ([]*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues
		WHERE project_id = ? AND sprint_id IS NULL AND in_backlog = 1
		ORDER BY ` + priorityOrderSQL + `, created_at DESC, id DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing backlog issues: %w", err)
	}
	defer rows.Close()
	return r.scanIssues(rows)
}

func (r *SQLiteIssueRepo) Update(ctx context.Context, i *domain.Issue) error {
	query := `UPDATE issues SET project_id = ?, sprint_id = ?, key = ?, title = ?,
		status = ?, priority = ?, assignee = ?, in_backlog = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		i.ProjectID,
		nullableInt64ToValue(i.SprintID),
		i.Key,
		i.Title,
		string(i.Status),
		string(i.Priority),
		i.Assignee,
		boolToInt(i.InBacklog),
		i.UpdatedAt.Format(time.RFC3339),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating issue: %w", err)
	}
	return nil
}

func (r *SQLiteIssueRepo) scanIssue(row *sql.Row) (*domain.Issue, error) {
	var i domain.Issue
	var sprintID sql.NullInt64
	var statusStr, priorityStr string
	var inBacklogInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&i.ID, &i.ProjectID, &sprintID, &i.Key, &i.Title, &statusStr, &priorityStr,
		&i.Assignee, &inBacklogInt, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("issue: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning issue: %w", err)
	}
	return r.populateIssue(&i, sprintID, statusStr, priorityStr, inBacklogInt, createdAtStr, updatedAtStr)
}

func (r *SQLiteIssueRepo) scanIssues(rows *sql.Rows) ([]*domain.Issue, error) {
	var issues []*domain.Issue
	for rows.Next() {
		var i domain.Issue
		var sprintID sql.NullInt64
		var statusStr, priorityStr string
		var inBacklogInt int
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&i.ID, &i.ProjectID, &sprintID, &i.Key, &i.Title, &statusStr, &priorityStr,
			&i.Assignee, &inBacklogInt, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}

		issue, err := r.populateIssue(&i, sprintID, statusStr, priorityStr, inBacklogInt, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issues: %w", err)
	}
	return issues, nil
}

func (r *SQLiteIssueRepo) populateIssue(
	i *domain.Issue,
	sprintID sql.NullInt64,
	statusStr, priorityStr string,
	inBacklogInt int,
	createdAtStr, updatedAtStr string,
) (*domain.Issue, error) {
	if sprintID.Valid {
		v := sprintID.Int64
		i.SprintID = &v
	}
	i.Status = domain.IssueStatus(statusStr)
	i.Priority = domain.IssuePriority(priorityStr)
	i.InBacklog = intToBool(inBacklogInt)

	var parseErr error
	i.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	i.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return i, nil
}
