package domain

import "time"

type Issue struct {
	ID        int64
	ProjectID int64
	SprintID  *int64
	Key       string
	Title     string
	Status    IssueStatus
	Priority  IssuePriority
	Assignee  string
	InBacklog bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InSprint reports whether the issue is currently assigned to the given sprint.
func (i *Issue) InSprint(sprintID int64) bool {
	return i.SprintID != nil && *i.SprintID == sprintID
}
