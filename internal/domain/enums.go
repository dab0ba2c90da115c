package domain

type IssueStatus string

const (
	IssueBacklog    IssueStatus = "backlog"
	IssueTodo       IssueStatus = "todo"
	IssueInProgress IssueStatus = "in_progress"
	IssueInReview   IssueStatus = "in_review"
	IssueTesting    IssueStatus = "testing"
	IssueDone       IssueStatus = "done"
)

// ActiveStatuses are the statuses of work currently being executed.
var ActiveStatuses = map[IssueStatus]bool{
	IssueInProgress: true,
	IssueInReview:   true,
	IssueTesting:    true,
}

// IsActive reports whether the status counts as in-flight execution work.
func (s IssueStatus) IsActive() bool {
	return ActiveStatuses[s]
}

type IssuePriority string

const (
	PriorityHighest IssuePriority = "highest"
	PriorityHigh    IssuePriority = "high"
	PriorityMedium  IssuePriority = "medium"
	PriorityLow     IssuePriority = "low"
	PriorityLowest  IssuePriority = "lowest"
)

type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

type ImpactType string

const (
	ImpactBlocks    ImpactType = "blocks"
	ImpactDelays    ImpactType = "delays"
	ImpactChanges   ImpactType = "changes"
	ImpactEnables   ImpactType = "enables"
	ImpactRelatesTo ImpactType = "relates_to"
)

type DecisionStatus string

const (
	DecisionProposed    DecisionStatus = "proposed"
	DecisionUnderReview DecisionStatus = "under_review"
	DecisionApproved    DecisionStatus = "approved"
	DecisionImplemented DecisionStatus = "implemented"
	DecisionResolved    DecisionStatus = "resolved"
	DecisionDropped     DecisionStatus = "dropped"
)

type ImpactLevel string

const (
	ImpactLevelLow      ImpactLevel = "low"
	ImpactLevelMedium   ImpactLevel = "medium"
	ImpactLevelHigh     ImpactLevel = "high"
	ImpactLevelCritical ImpactLevel = "critical"
)

type ConfidenceBand string

const (
	BandLow    ConfidenceBand = "low"
	BandMedium ConfidenceBand = "medium"
	BandHigh   ConfidenceBand = "high"
)

// Rank maps bands onto an ordered scale used by policy comparisons.
func (b ConfidenceBand) Rank() int {
	switch b {
	case BandHigh:
		return 3
	case BandMedium:
		return 2
	default:
		return 1
	}
}

type ScenarioID string

const (
	ScenarioBaseline  ScenarioID = "baseline"
	ScenarioScopeSwap ScenarioID = "scope_swap"
	ScenarioFocusMode ScenarioID = "focus_mode"
)

// ScenarioOrder is the fixed synthesis order; ties between projected
// probabilities resolve to the earlier position.
var ScenarioOrder = []ScenarioID{ScenarioBaseline, ScenarioScopeSwap, ScenarioFocusMode}
