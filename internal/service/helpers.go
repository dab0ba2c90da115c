package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/domain"
	"github.com/alexanderramin/sprintpilot/internal/engine"
	"github.com/alexanderramin/sprintpilot/internal/repository"
)

// backlogLimit bounds how many backlog issues a snapshot considers for add
// candidates.
const backlogLimit = 80

// SprintSnapshot is everything the engine needs about one sprint, loaded in a
// single pass and treated as read-only afterwards.
type SprintSnapshot struct {
	Sprint   *domain.Sprint
	Project  *domain.Project
	Issues   []*domain.Issue
	Backlog  []*domain.Issue
	Impacts  []domain.DecisionImpact
	Exposure map[int64]float64
	Window   engine.Window
	Input    engine.ProbabilityInput
}

// SnapshotLoader assembles SprintSnapshots from the repositories. A loader
// bound to tx-scoped repositories reads inside that transaction.
type SnapshotLoader struct {
	projects  repository.ProjectRepo
	sprints   repository.SprintRepo
	issues    repository.IssueRepo
	decisions repository.DecisionRepo
	blockers  repository.BlockerRepo
}

func NewSnapshotLoader(
	projects repository.ProjectRepo,
	sprints repository.SprintRepo,
	issues repository.IssueRepo,
	decisions repository.DecisionRepo,
	blockers repository.BlockerRepo,
) *SnapshotLoader {
	return &SnapshotLoader{
		projects:  projects,
		sprints:   sprints,
		issues:    issues,
		decisions: decisions,
		blockers:  blockers,
	}
}

func (l *SnapshotLoader) Load(ctx context.Context, sprintID int64, now time.Time) (*SprintSnapshot, error) {
	sprint, err := l.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("loading sprint %d: %w", sprintID, err)
	}
	project, err := l.projects.GetByID(ctx, sprint.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project %d: %w", sprint.ProjectID, err)
	}
	issues, err := l.issues.ListBySprint(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("loading sprint issues: %w", err)
	}
	backlog, err := l.issues.ListBacklog(ctx, sprint.ProjectID, backlogLimit)
	if err != nil {
		return nil, fmt.Errorf("loading backlog: %w", err)
	}
	impacts, err := l.decisions.ListImpactsBySprint(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("loading decision impacts: %w", err)
	}
	unresolved, err := l.decisions.CountUnresolvedBySprint(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("counting unresolved decisions: %w", err)
	}
	blockers, err := l.blockers.CountActiveBySprint(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("counting blockers: %w", err)
	}

	var done, inProgress int
	for _, issue := range issues {
		switch issue.Status {
		case domain.IssueDone:
			done++
		case domain.IssueInProgress:
			inProgress++
		}
	}
	completion := 0.0
	if len(issues) > 0 {
		completion = float64(done) / float64(len(issues))
	}

	window := engine.Window{Start: sprint.StartDate, End: sprint.EndDate, Today: now}
	return &SprintSnapshot{
		Sprint:   sprint,
		Project:  project,
		Issues:   issues,
		Backlog:  backlog,
		Impacts:  impacts,
		Exposure: engine.ExposureByIssue(impacts),
		Window:   window,
		Input: engine.ProbabilityInput{
			CompletionRatio:         completion,
			TimeElapsedRatio:        window.TimeElapsedRatio(),
			InProgressCount:         inProgress,
			UnresolvedDecisionCount: unresolved,
			BlockersCount:           blockers,
		},
	}, nil
}

// Signals converts the snapshot's aggregate counts into the wire form every
// read operation reports.
func (s *SprintSnapshot) Signals() contract.Signals {
	return contract.Signals{
		CompletionPct:       roundPct(s.Input.CompletionRatio * 100),
		TimeElapsedPct:      roundPct(s.Input.TimeElapsedRatio * 100),
		UnresolvedDecisions: s.Input.UnresolvedDecisionCount,
		ActiveBlockers:      s.Input.BlockersCount,
		InProgressIssues:    s.Input.InProgressCount,
		TotalIssues:         len(s.Issues),
	}
}

func roundPct(v float64) float64 {
	return math.Round(v*10) / 10
}

func resolveNow(override *time.Time) time.Time {
	if override != nil {
		return override.UTC()
	}
	return time.Now().UTC()
}

// mapError translates storage-level failures into the typed contract errors;
// anything unrecognized passes through for the boundary to classify.
func mapError(err error, what string) error {
	var engineErr *contract.EngineError
	if errors.As(err, &engineErr) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &contract.EngineError{Code: contract.ErrNotFound, Message: what + " not found"}
	}
	return err
}

func checkAccess(ctx context.Context, access AccessChecker, actor string, projectID int64) error {
	ok, err := access.CanEditProject(ctx, actor, projectID)
	if err != nil {
		return fmt.Errorf("checking access: %w", err)
	}
	if !ok {
		return &contract.EngineError{
			Code:    contract.ErrForbidden,
			Message: fmt.Sprintf("actor %q may not modify project %d", actor, projectID),
		}
	}
	return nil
}
