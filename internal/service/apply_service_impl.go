package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/db"
	"github.com/alexanderramin/sprintpilot/internal/domain"
	"github.com/alexanderramin/sprintpilot/internal/engine"
	"github.com/alexanderramin/sprintpilot/internal/repository"
)

// followupLimit caps the follow-up tasks created per apply.
const followupLimit = 5

// followupDueDays is the default follow-up horizon; the sprint end date wins
// when it comes sooner.
const followupDueDays = 5

// RepoFactory builds a repository set bound to an executor; the applier calls
// it with the open transaction.
type RepoFactory func(dbtx db.DBTX) repository.Repos

type applyService struct {
	uow        db.UnitOfWork
	repos      RepoFactory
	access     AccessChecker
	notifier   Notifier
	basePolicy domain.Policy
	observer   UseCaseObserver
}

func NewApplyService(
	uow db.UnitOfWork,
	repos RepoFactory,
	access AccessChecker,
	notifier Notifier,
	basePolicy domain.Policy,
	observers ...UseCaseObserver,
) ApplyService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &applyService{
		uow:        uow,
		repos:      repos,
		access:     access,
		notifier:   notifier,
		basePolicy: basePolicy,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *applyService) ApplyPlan(ctx context.Context, req contract.ApplyPlanRequest) (resp *contract.ApplyPlanResponse, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "apply_plan", started, err, map[string]any{"sprint_id": req.SprintID})
	}()

	if req.SprintID <= 0 {
		return nil, &contract.EngineError{Code: contract.ErrValidation, Message: "sprint id must be positive"}
	}
	now := resolveNow(req.Now)
	createFollowups := req.CreateDecisionFollowups == nil || *req.CreateDecisionFollowups

	var notifications []domain.Notification
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := s.repos(tx)
		loader := NewSnapshotLoader(repos.Projects, repos.Sprints, repos.Issues, repos.Decisions, repos.Blockers)
		snap, loadErr := loader.Load(ctx, req.SprintID, now)
		if loadErr != nil {
			return mapError(loadErr, "sprint")
		}
		if accessErr := checkAccess(ctx, s.access, req.Actor, snap.Project.ID); accessErr != nil {
			return accessErr
		}
		var applyErr error
		resp, notifications, applyErr = applyMutations(ctx, repos, snap, mutationPlan{
			DropIssueIDs:    contract.TruncateIDs(req.DropIssueIDs),
			AddIssueIDs:     contract.TruncateIDs(req.AddIssueIDs),
			CreateFollowups: createFollowups,
			SourceLabel:     contract.SourceLabelAutopilot,
			Actor:           req.Actor,
			Now:             now,
		})
		return applyErr
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, notifications)
	return resp, nil
}

func (s *applyService) ApplyScenario(ctx context.Context, req contract.ScenarioApplyRequest) (resp *contract.ScenarioApplyResponse, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "apply_scenario", started, err, map[string]any{
			"sprint_id":  req.SprintID,
			"auto_apply": req.AutoApply,
		})
	}()

	if req.SprintID <= 0 {
		return nil, &contract.EngineError{Code: contract.ErrValidation, Message: "sprint id must be positive"}
	}
	if !req.AutoApply && req.ScenarioID == nil {
		return nil, &contract.EngineError{Code: contract.ErrValidation, Message: "scenario id required unless auto-apply is requested"}
	}
	if req.ScenarioID != nil && !knownScenarioID(*req.ScenarioID) {
		return nil, &contract.EngineError{
			Code:    contract.ErrValidation,
			Message: fmt.Sprintf("unknown scenario id %q", *req.ScenarioID),
		}
	}
	now := resolveNow(req.Now)
	policy := domain.ResolvePolicy(s.basePolicy, req.Overrides)

	var notifications []domain.Notification
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := s.repos(tx)
		loader := NewSnapshotLoader(repos.Projects, repos.Sprints, repos.Issues, repos.Decisions, repos.Blockers)
		snap, loadErr := loader.Load(ctx, req.SprintID, now)
		if loadErr != nil {
			return mapError(loadErr, "sprint")
		}
		if accessErr := checkAccess(ctx, s.access, req.Actor, snap.Project.ID); accessErr != nil {
			return accessErr
		}

		scenarios := synthesizeScenarios(snap, policy)
		scenario, chooseErr := chooseScenario(scenarios, req)
		if chooseErr != nil {
			return chooseErr
		}

		plan := scenario.Plan
		if req.DropIssueIDs != nil {
			plan.DropIssueIDs = contract.TruncateIDs(req.DropIssueIDs)
		}
		if req.AddIssueIDs != nil {
			plan.AddIssueIDs = contract.TruncateIDs(req.AddIssueIDs)
		}
		// Overriding the plan changes what the guardrails saw; re-evaluate
		// against the overridden plan before enforcing.
		verdict := *scenario.PolicyResult
		if req.DropIssueIDs != nil || req.AddIssueIDs != nil {
			overridden := *scenario
			overridden.Plan = plan
			verdict = engine.EvaluatePolicy(overridden, policy)
		}
		if policy.EnforcePolicy && len(verdict.Violations) > 0 {
			return &contract.EngineError{
				Code:       contract.ErrPolicyViolation,
				Message:    fmt.Sprintf("scenario %s violates the active policy", scenario.ID),
				Violations: verdict.Violations,
			}
		}

		planResp, planNotifications, applyErr := applyMutations(ctx, repos, snap, mutationPlan{
			DropIssueIDs:    plan.DropIssueIDs,
			AddIssueIDs:     plan.AddIssueIDs,
			CreateFollowups: plan.CreateDecisionFollowups,
			SourceLabel:     contract.SourceLabelDecisionTwin,
			Actor:           req.Actor,
			Now:             now,
		})
		if applyErr != nil {
			return applyErr
		}
		notifications = planNotifications
		resp = &contract.ScenarioApplyResponse{
			ApplyPlanResponse: *planResp,
			ScenarioID:        scenario.ID,
			Policy:            contract.NewPolicyView(policy),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, notifications)
	return resp, nil
}

// dispatch delivers follow-up notifications after the transaction committed.
// Delivery is best effort; the mutation already happened.
func (s *applyService) dispatch(ctx context.Context, notifications []domain.Notification) {
	for _, n := range notifications {
		if err := s.notifier.Notify(ctx, n); err != nil {
			observe(ctx, s.observer, "notify", time.Now(), err, map[string]any{"recipient": n.Recipient})
		}
	}
}

func knownScenarioID(id domain.ScenarioID) bool {
	for _, known := range domain.ScenarioOrder {
		if id == known {
			return true
		}
	}
	return false
}

func chooseScenario(scenarios []engine.Scenario, req contract.ScenarioApplyRequest) (*engine.Scenario, error) {
	var want domain.ScenarioID
	if req.AutoApply {
		id := engine.RecommendAutoApply(scenarios)
		if id == nil {
			return nil, &contract.EngineError{
				Code:    contract.ErrNoEligibleScenario,
				Message: "no scenario is eligible for automatic application under the active policy",
			}
		}
		want = *id
	} else {
		want = *req.ScenarioID
	}
	for i := range scenarios {
		if scenarios[i].ID == want {
			return &scenarios[i], nil
		}
	}
	return nil, &contract.EngineError{
		Code:    contract.ErrInternal,
		Message: fmt.Sprintf("scenario %s missing from synthesized set", want),
	}
}

// mutationPlan is the resolved input to the shared applier.
type mutationPlan struct {
	DropIssueIDs    []int64
	AddIssueIDs     []int64
	CreateFollowups bool
	SourceLabel     string
	Actor           string
	Now             time.Time
}

// applyMutations performs the drops, adds and follow-up creation inside the
// caller's transaction. Re-running the same plan reports the same manifests
// but creates no duplicate follow-ups: issues already in their target state
// are listed without being touched, and follow-up uniqueness is enforced by
// the storage constraint.
func applyMutations(
	ctx context.Context,
	repos repository.Repos,
	snap *SprintSnapshot,
	plan mutationPlan,
) (*contract.ApplyPlanResponse, []domain.Notification, error) {
	sprintID := snap.Sprint.ID
	dropped := make([]contract.IssueManifest, 0, len(plan.DropIssueIDs))
	added := make([]contract.IssueManifest, 0, len(plan.AddIssueIDs))
	followups := make([]contract.FollowUpManifest, 0, followupLimit)

	for _, id := range plan.DropIssueIDs {
		issue, err := repos.Issues.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}
		if issue.ProjectID != snap.Sprint.ProjectID {
			continue
		}
		switch {
		case issue.InSprint(sprintID):
			issue.SprintID = nil
			issue.InBacklog = true
			// Finished work keeps its status; everything else goes back to
			// the backlog state.
			if issue.Status != domain.IssueDone {
				issue.Status = domain.IssueBacklog
			}
			issue.UpdatedAt = plan.Now
			if err := repos.Issues.Update(ctx, issue); err != nil {
				return nil, nil, fmt.Errorf("dropping issue %d: %w", id, err)
			}
			dropped = append(dropped, contract.IssueManifest{ID: issue.ID, Key: issue.Key})
		case issue.SprintID == nil && issue.InBacklog:
			// Already dropped; report it so re-runs see the same manifest.
			dropped = append(dropped, contract.IssueManifest{ID: issue.ID, Key: issue.Key})
		}
	}

	for _, id := range plan.AddIssueIDs {
		issue, err := repos.Issues.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}
		if issue.ProjectID != snap.Sprint.ProjectID {
			continue
		}
		switch {
		case issue.InSprint(sprintID):
			added = append(added, contract.IssueManifest{ID: issue.ID, Key: issue.Key})
		case issue.SprintID == nil:
			issue.SprintID = &sprintID
			issue.InBacklog = false
			if issue.Status == domain.IssueBacklog {
				issue.Status = domain.IssueTodo
			}
			issue.UpdatedAt = plan.Now
			if err := repos.Issues.Update(ctx, issue); err != nil {
				return nil, nil, fmt.Errorf("adding issue %d: %w", id, err)
			}
			added = append(added, contract.IssueManifest{ID: issue.ID, Key: issue.Key})
		}
	}

	var notifications []domain.Notification
	if plan.CreateFollowups {
		decisions, err := repos.Decisions.ListUnresolvedBySprint(ctx, sprintID, followupLimit)
		if err != nil {
			return nil, nil, fmt.Errorf("listing unresolved decisions: %w", err)
		}
		due := plan.Now.AddDate(0, 0, followupDueDays)
		if snap.Sprint.EndDate.Before(due) {
			due = snap.Sprint.EndDate
		}
		for _, d := range decisions {
			task := &domain.FollowUpTask{
				ID:          uuid.NewString(),
				OrgID:       snap.Project.OrgID,
				DecisionID:  d.ID,
				SprintID:    sprintID,
				Title:       fmt.Sprintf("%s: resolve decision #%d", plan.SourceLabel, d.ID),
				Priority:    followupPriority(d.ImpactLevel),
				Assignee:    d.DecisionMaker,
				DueDate:     due,
				SourceLabel: plan.SourceLabel,
				CreatedAt:   plan.Now,
			}
			created, err := repos.FollowUps.CreateIfAbsent(ctx, task)
			if err != nil {
				return nil, nil, fmt.Errorf("creating follow-up for decision %d: %w", d.ID, err)
			}
			if !created {
				continue
			}
			followups = append(followups, contract.FollowUpManifest{ID: task.ID, Title: task.Title})
			if task.Assignee != "" && task.Assignee != plan.Actor {
				n := &domain.Notification{
					ID:        uuid.NewString(),
					Recipient: task.Assignee,
					Body:      fmt.Sprintf("New follow-up task assigned: %s (due %s)", task.Title, due.Format("2006-01-02")),
					CreatedAt: plan.Now,
				}
				if err := repos.Notifications.Create(ctx, n); err != nil {
					return nil, nil, fmt.Errorf("recording notification: %w", err)
				}
				notifications = append(notifications, *n)
			}
		}
	}

	return &contract.ApplyPlanResponse{
		SprintID:       sprintID,
		DroppedCount:   len(dropped),
		AddedCount:     len(added),
		FollowUpsCount: len(followups),
		Dropped:        dropped,
		Added:          added,
		FollowUps:      followups,
	}, notifications, nil
}

func followupPriority(level domain.ImpactLevel) domain.IssuePriority {
	if level == domain.ImpactLevelHigh || level == domain.ImpactLevelCritical {
		return domain.PriorityHigh
	}
	return domain.PriorityMedium
}
