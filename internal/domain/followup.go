package domain

import "time"

// FollowUpTask is an auto-generated work item prompting resolution of a
// decision that weighs on sprint confidence. Uniqueness over
// (org, decision, title) is enforced by storage.
type FollowUpTask struct {
	ID          string
	OrgID       string
	DecisionID  int64
	SprintID    int64
	Title       string
	Priority    IssuePriority
	Assignee    string
	DueDate     time.Time
	SourceLabel string
	CreatedAt   time.Time
}

type Notification struct {
	ID        string
	Recipient string
	Body      string
	CreatedAt time.Time
}
