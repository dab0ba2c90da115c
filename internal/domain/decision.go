package domain

import "time"

type Decision struct {
	ID                int64
	ProjectID         int64
	Title             string
	Status            DecisionStatus
	ImpactLevel       ImpactLevel
	DecisionMaker     string
	ReviewCompletedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Unresolved reports whether the decision still carries execution risk:
// it is pending, or implemented without a completed review.
func (d *Decision) Unresolved() bool {
	switch d.Status {
	case DecisionProposed, DecisionUnderReview, DecisionApproved:
		return true
	case DecisionImplemented:
		return d.ReviewCompletedAt == nil
	}
	return false
}

// DecisionImpact links one decision to one issue within one sprint.
type DecisionImpact struct {
	ID         int64
	DecisionID int64
	IssueID    int64
	SprintID   int64
	ImpactType ImpactType
	// ReviewCompletedAt mirrors the linked decision's review state so exposure
	// can be computed without a second lookup.
	ReviewCompletedAt *time.Time
	CreatedAt         time.Time
}

type Blocker struct {
	ID        int64
	SprintID  int64
	IssueID   *int64
	Summary   string
	Active    bool
	CreatedAt time.Time
}
