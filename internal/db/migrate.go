package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list can be re-run against an existing database.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		org_id     TEXT NOT NULL,
		key        TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_org_key ON projects(org_id, key)`,

	`CREATE TABLE IF NOT EXISTS sprints (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		goal       TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'active'
		           CHECK(status IN ('planned','active','completed')),
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id)`,

	`CREATE TABLE IF NOT EXISTS issues (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		sprint_id  INTEGER REFERENCES sprints(id) ON DELETE SET NULL,
		key        TEXT NOT NULL,
		title      TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'backlog'
		           CHECK(status IN ('backlog','todo','in_progress','in_review','testing','done')),
		priority   TEXT NOT NULL DEFAULT 'medium'
		           CHECK(priority IN ('highest','high','medium','low','lowest')),
		assignee   TEXT NOT NULL DEFAULT '',
		in_backlog INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_sprint ON issues(sprint_id)`,

	`CREATE TABLE IF NOT EXISTS decisions (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id          INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title               TEXT NOT NULL,
		status              TEXT NOT NULL DEFAULT 'proposed'
		                    CHECK(status IN ('proposed','under_review','approved','implemented','resolved','dropped')),
		impact_level        TEXT NOT NULL DEFAULT 'medium'
		                    CHECK(impact_level IN ('low','medium','high','critical')),
		decision_maker      TEXT NOT NULL DEFAULT '',
		review_completed_at TEXT,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_decisions_project ON decisions(project_id)`,

	`CREATE TABLE IF NOT EXISTS decision_impacts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		decision_id INTEGER NOT NULL REFERENCES decisions(id) ON DELETE CASCADE,
		issue_id    INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
		sprint_id   INTEGER NOT NULL REFERENCES sprints(id) ON DELETE CASCADE,
		impact_type TEXT NOT NULL
		            CHECK(impact_type IN ('blocks','delays','changes','enables','relates_to')),
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_decision_impacts_sprint ON decision_impacts(sprint_id)`,
	`CREATE INDEX IF NOT EXISTS idx_decision_impacts_issue ON decision_impacts(issue_id)`,

	`CREATE TABLE IF NOT EXISTS blockers (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		sprint_id  INTEGER NOT NULL REFERENCES sprints(id) ON DELETE CASCADE,
		issue_id   INTEGER REFERENCES issues(id) ON DELETE SET NULL,
		summary    TEXT NOT NULL DEFAULT '',
		active     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_blockers_sprint ON blockers(sprint_id)`,

	// The unique constraint is the idempotency guard for follow-up creation:
	// a duplicate insert surfaces as a constraint conflict and is treated as
	// "already exists", never as an error.
	`CREATE TABLE IF NOT EXISTS followup_tasks (
		id           TEXT PRIMARY KEY,
		org_id       TEXT NOT NULL,
		decision_id  INTEGER NOT NULL REFERENCES decisions(id) ON DELETE CASCADE,
		sprint_id    INTEGER NOT NULL REFERENCES sprints(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		priority     TEXT NOT NULL DEFAULT 'medium',
		assignee     TEXT NOT NULL DEFAULT '',
		due_date     TEXT NOT NULL,
		source_label TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		UNIQUE(org_id, decision_id, title)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		recipient  TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}
