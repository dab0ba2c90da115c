package domain

import "time"

type Project struct {
	ID        int64
	OrgID     string
	Key       string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Sprint struct {
	ID        int64
	ProjectID int64
	Name      string
	Goal      string
	Status    SprintStatus
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
