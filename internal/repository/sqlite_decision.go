package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/db"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

const decisionColumns = `id, project_id, title, status, impact_level, decision_maker,
		review_completed_at, created_at, updated_at`

const decisionColumnsAliased = `d.id, d.project_id, d.title, d.status, d.impact_level,
		d.decision_maker, d.review_completed_at, d.created_at, d.updated_at`

// unresolvedPredicateSQL selects decisions that still carry execution risk.
const unresolvedPredicateSQL = `(d.status IN ('proposed','under_review','approved')
		OR (d.status = 'implemented' AND d.review_completed_at IS NULL))`

// SQLiteDecisionRepo implements DecisionRepo using a SQLite database.
type SQLiteDecisionRepo struct {
	db db.DBTX
}

// NewSQLiteDecisionRepo creates a new SQLiteDecisionRepo.
func NewSQLiteDecisionRepo(db db.DBTX) *SQLiteDecisionRepo {
	return &SQLiteDecisionRepo{db: db}
}

func (r *SQLiteDecisionRepo) Create(ctx context.Context, d *domain.Decision) error {
	query := `INSERT INTO decisions (project_id, title, status, impact_level, decision_maker,
		review_completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		d.ProjectID,
		d.Title,
		string(d.Status),
		string(d.ImpactLevel),
		d.DecisionMaker,
		nullableTimeToString(d.ReviewCompletedAt, time.RFC3339),
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting decision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading decision id: %w", err)
	}
	d.ID = id
	return nil
}

func (r *SQLiteDecisionRepo) GetByID(ctx context.Context, id int64) (*domain.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var d domain.Decision
	var statusStr, impactLevelStr string
	var reviewCompletedAtStr sql.NullString
	var createdAtStr, updatedAtStr string
	err := row.Scan(&d.ID, &d.ProjectID, &d.Title, &statusStr, &impactLevelStr,
		&d.DecisionMaker, &reviewCompletedAtStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("decision: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning decision: %w", err)
	}
	return r.populateDecision(&d, statusStr, impactLevelStr, reviewCompletedAtStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteDecisionRepo) ListImpactsBySprint(ctx context.Context, sprintID int64) ([]domain.DecisionImpact, error) {
	query := `SELECT i.id, i.decision_id, i.issue_id, i.sprint_id, i.impact_type,
			d.review_completed_at, i.created_at
		FROM decision_impacts i
		JOIN decisions d ON i.decision_id = d.id
		WHERE i.sprint_id = ?
		ORDER BY i.id`
	rows, err := r.db.QueryContext(ctx, query, sprintID)
	if err != nil {
		return nil, fmt.Errorf("listing decision impacts: %w", err)
	}
	defer rows.Close()

	var impacts []domain.DecisionImpact
	for rows.Next() {
		var imp domain.DecisionImpact
		var impactTypeStr string
		var reviewCompletedAtStr sql.NullString
		var createdAtStr string
		if err := rows.Scan(&imp.ID, &imp.DecisionID, &imp.IssueID, &imp.SprintID,
			&impactTypeStr, &reviewCompletedAtStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning decision impact: %w", err)
		}
		imp.ImpactType = domain.ImpactType(impactTypeStr)
		imp.ReviewCompletedAt = parseNullableTime(reviewCompletedAtStr, time.RFC3339)
		var parseErr error
		imp.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		impacts = append(impacts, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating decision impacts: %w", err)
	}
	return impacts, nil
}

func (r *SQLiteDecisionRepo) ListUnresolvedBySprint(ctx context.Context, sprintID int64, limit int) ([]*domain.Decision, error) {
	query := `SELECT DISTINCT ` + decisionColumnsAliased + `
		FROM decisions d
		JOIN decision_impacts i ON i.decision_id = d.id
		WHERE i.sprint_id = ? AND ` + unresolvedPredicateSQL + `
		ORDER BY d.id
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, sprintID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing unresolved decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*domain.Decision
	for rows.Next() {
		var d domain.Decision
		var statusStr, impactLevelStr string
		var reviewCompletedAtStr sql.NullString
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Title, &statusStr, &impactLevelStr,
			&d.DecisionMaker, &reviewCompletedAtStr, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning unresolved decision: %w", err)
		}
		dec, err := r.populateDecision(&d, statusStr, impactLevelStr, reviewCompletedAtStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, dec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unresolved decisions: %w", err)
	}
	return decisions, nil
}

func (r *SQLiteDecisionRepo) CountUnresolvedBySprint(ctx context.Context, sprintID int64) (int, error) {
	query := `SELECT COUNT(DISTINCT d.id)
		FROM decisions d
		JOIN decision_impacts i ON i.decision_id = d.id
		WHERE i.sprint_id = ? AND ` + unresolvedPredicateSQL
	var count int
	if err := r.db.QueryRowContext(ctx, query, sprintID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting unresolved decisions: %w", err)
	}
	return count, nil
}

func (r *SQLiteDecisionRepo) CreateImpact(ctx context.Context, imp *domain.DecisionImpact) error {
	query := `INSERT INTO decision_impacts (decision_id, issue_id, sprint_id, impact_type, created_at)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		imp.DecisionID,
		imp.IssueID,
		imp.SprintID,
		string(imp.ImpactType),
		imp.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting decision impact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading decision impact id: %w", err)
	}
	imp.ID = id
	return nil
}

func (r *SQLiteDecisionRepo) populateDecision(
	d *domain.Decision,
	statusStr, impactLevelStr string,
	reviewCompletedAtStr sql.NullString,
	createdAtStr, updatedAtStr string,
) (*domain.Decision, error) {
	d.Status = domain.DecisionStatus(statusStr)
	d.ImpactLevel = domain.ImpactLevel(impactLevelStr)
	d.ReviewCompletedAt = parseNullableTime(reviewCompletedAtStr, time.RFC3339)

	var parseErr error
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return d, nil
}
