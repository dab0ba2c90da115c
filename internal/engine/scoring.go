// Package engine contains the deterministic core of the decision-exposure
// scenario engine: goal-probability scoring, per-issue exposure weighting,
// candidate ranking, scenario synthesis and policy guardrails. Everything in
// this package is a pure function of its inputs.
package engine

import (
	"math"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// Window is a sprint's date window plus the evaluation date.
type Window struct {
	Start time.Time
	End   time.Time
	Today time.Time
}

// TotalDays returns the inclusive length of the window in days, never less
// than 1.
func (w Window) TotalDays() int {
	days := int(w.End.Sub(w.Start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// ElapsedDays returns the number of window days already spent, clamped to
// [0, TotalDays].
func (w Window) ElapsedDays() int {
	elapsed := int(w.Today.Sub(w.Start).Hours()/24) + 1
	if elapsed < 0 {
		return 0
	}
	if total := w.TotalDays(); elapsed > total {
		return total
	}
	return elapsed
}

// TimeElapsedRatio returns ElapsedDays / TotalDays.
func (w Window) TimeElapsedRatio() float64 {
	return float64(w.ElapsedDays()) / float64(w.TotalDays())
}

// ProbabilityInput holds the aggregate counts feeding the goal-probability
// heuristic.
type ProbabilityInput struct {
	CompletionRatio         float64
	TimeElapsedRatio        float64
	InProgressCount         int
	UnresolvedDecisionCount int
	BlockersCount           int
}

// GoalProbability estimates the chance (0-100, clamped to [3, 98]) that the
// sprint meets its goal. Hand-tuned weights; see the scoring tests for the
// reference examples.
func GoalProbability(in ProbabilityInput) float64 {
	score := 55.0
	score += (in.CompletionRatio - in.TimeElapsedRatio) * 60.0
	score -= math.Min(20.0, float64(in.InProgressCount)*2.5)
	score -= math.Min(22.0, float64(in.UnresolvedDecisionCount)*4.0)
	score -= math.Min(15.0, float64(in.BlockersCount)*5.0)
	return clamp(score, 3.0, 98.0)
}

// ConfidenceBand maps a probability to its band. Boundaries are exact:
// 75.0 is high, 50.0 is medium.
func ConfidenceBand(probability float64) domain.ConfidenceBand {
	switch {
	case probability >= 75.0:
		return domain.BandHigh
	case probability >= 50.0:
		return domain.BandMedium
	default:
		return domain.BandLow
	}
}

// Exposure weights per impact type. Blocking and delaying impacts dominate;
// anything else contributes a residual weight.
const (
	exposureBlocking     = 1.8
	exposureChanging     = 1.1
	exposureResidual     = 0.7
	exposurePendingBonus = 0.7
)

// DecisionExposure accumulates the decision-risk weight touching one issue.
// Every impact referencing the issue contributes by type, plus a bonus when
// the linked decision's review is still open.
func DecisionExposure(issueID int64, impacts []domain.DecisionImpact) float64 {
	var exposure float64
	for _, imp := range impacts {
		if imp.IssueID != issueID {
			continue
		}
		switch imp.ImpactType {
		case domain.ImpactBlocks, domain.ImpactDelays:
			exposure += exposureBlocking
		case domain.ImpactChanges:
			exposure += exposureChanging
		default:
			exposure += exposureResidual
		}
		if imp.ReviewCompletedAt == nil {
			exposure += exposurePendingBonus
		}
	}
	return exposure
}

// ExposureByIssue precomputes DecisionExposure for every issue referenced by
// the impact set.
func ExposureByIssue(impacts []domain.DecisionImpact) map[int64]float64 {
	exposure := make(map[int64]float64)
	for _, imp := range impacts {
		if _, seen := exposure[imp.IssueID]; !seen {
			exposure[imp.IssueID] = DecisionExposure(imp.IssueID, impacts)
		}
	}
	return exposure
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
