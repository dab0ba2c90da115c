package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

var testKeyCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithOrgID(org string) ProjectOption {
	return func(p *domain.Project) {
		p.OrgID = org
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		OrgID:     "org-test",
		Key:       fmt.Sprintf("PRJ%d", testKeyCounter.Add(1)),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sprint options
type SprintOption func(*domain.Sprint)

func WithSprintWindow(start, end time.Time) SprintOption {
	return func(s *domain.Sprint) {
		s.StartDate = start
		s.EndDate = end
	}
}

func WithSprintStatus(status domain.SprintStatus) SprintOption {
	return func(s *domain.Sprint) {
		s.Status = status
	}
}

func WithSprintGoal(goal string) SprintOption {
	return func(s *domain.Sprint) {
		s.Goal = goal
	}
}

func NewTestSprint(projectID int64, name string, opts ...SprintOption) *domain.Sprint {
	now := time.Now().UTC()
	s := &domain.Sprint{
		ProjectID: projectID,
		Name:      name,
		Goal:      "ship the release candidate",
		Status:    domain.SprintActive,
		StartDate: now.AddDate(0, 0, -7),
		EndDate:   now.AddDate(0, 0, 7),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue options
type IssueOption func(*domain.Issue)

func WithIssueStatus(status domain.IssueStatus) IssueOption {
	return func(i *domain.Issue) {
		i.Status = status
	}
}

func WithIssuePriority(priority domain.IssuePriority) IssueOption {
	return func(i *domain.Issue) {
		i.Priority = priority
	}
}

func WithSprintID(sprintID int64) IssueOption {
	return func(i *domain.Issue) {
		i.SprintID = &sprintID
		i.InBacklog = false
	}
}

func InBacklog() IssueOption {
	return func(i *domain.Issue) {
		i.SprintID = nil
		i.InBacklog = true
	}
}

func WithAssignee(assignee string) IssueOption {
	return func(i *domain.Issue) {
		i.Assignee = assignee
	}
}

func WithIssueCreatedAt(t time.Time) IssueOption {
	return func(i *domain.Issue) {
		i.CreatedAt = t
		i.UpdatedAt = t
	}
}

func NewTestIssue(projectID int64, title string, opts ...IssueOption) *domain.Issue {
	now := time.Now().UTC()
	i := &domain.Issue{
		ProjectID: projectID,
		Key:       fmt.Sprintf("ISS-%d", testKeyCounter.Add(1)),
		Title:     title,
		Status:    domain.IssueTodo,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Decision options
type DecisionOption func(*domain.Decision)

func WithDecisionStatus(status domain.DecisionStatus) DecisionOption {
	return func(d *domain.Decision) {
		d.Status = status
	}
}

func WithImpactLevel(level domain.ImpactLevel) DecisionOption {
	return func(d *domain.Decision) {
		d.ImpactLevel = level
	}
}

func WithDecisionMaker(name string) DecisionOption {
	return func(d *domain.Decision) {
		d.DecisionMaker = name
	}
}

func WithReviewCompletedAt(t time.Time) DecisionOption {
	return func(d *domain.Decision) {
		d.ReviewCompletedAt = &t
	}
}

func NewTestDecision(projectID int64, title string, opts ...DecisionOption) *domain.Decision {
	now := time.Now().UTC()
	d := &domain.Decision{
		ProjectID:   projectID,
		Title:       title,
		Status:      domain.DecisionProposed,
		ImpactLevel: domain.ImpactLevelMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func NewTestImpact(decisionID, issueID, sprintID int64, impactType domain.ImpactType) *domain.DecisionImpact {
	return &domain.DecisionImpact{
		DecisionID: decisionID,
		IssueID:    issueID,
		SprintID:   sprintID,
		ImpactType: impactType,
		CreatedAt:  time.Now().UTC(),
	}
}

// Blocker options
type BlockerOption func(*domain.Blocker)

func Inactive() BlockerOption {
	return func(b *domain.Blocker) {
		b.Active = false
	}
}

func WithBlockedIssue(issueID int64) BlockerOption {
	return func(b *domain.Blocker) {
		b.IssueID = &issueID
	}
}

func NewTestBlocker(sprintID int64, summary string, opts ...BlockerOption) *domain.Blocker {
	b := &domain.Blocker{
		SprintID:  sprintID,
		Summary:   summary,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}
