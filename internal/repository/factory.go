package repository

import "github.com/alexanderramin/sprintpilot/internal/db"

// Repos bundles one instance of every repository bound to the same executor.
type Repos struct {
	Projects      ProjectRepo
	Sprints       SprintRepo
	Issues        IssueRepo
	Decisions     DecisionRepo
	Blockers      BlockerRepo
	FollowUps     FollowUpRepo
	Notifications NotificationRepo
}

// NewSQLiteRepos constructs the SQLite repository set on the given executor.
// Pass a transaction to get a tx-scoped set.
func NewSQLiteRepos(dbtx db.DBTX) Repos {
	return Repos{
		Projects:      NewSQLiteProjectRepo(dbtx),
		Sprints:       NewSQLiteSprintRepo(dbtx),
		Issues:        NewSQLiteIssueRepo(dbtx),
		Decisions:     NewSQLiteDecisionRepo(dbtx),
		Blockers:      NewSQLiteBlockerRepo(dbtx),
		FollowUps:     NewSQLiteFollowUpRepo(dbtx),
		Notifications: NewSQLiteNotificationRepo(dbtx),
	}
}
