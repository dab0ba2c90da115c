package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// priorityWeight ranks priorities for drop scoring (lower priority, higher
// weight). Unmapped values default to medium.
func priorityWeight(p domain.IssuePriority) float64 {
	switch p {
	case domain.PriorityHighest:
		return 0
	case domain.PriorityHigh:
		return 1
	case domain.PriorityMedium:
		return 2
	case domain.PriorityLow:
		return 3
	case domain.PriorityLowest:
		return 4
	default:
		return 2
	}
}

// priorityBonus rewards high-priority backlog issues in add scoring.
// Unmapped values default to medium.
func priorityBonus(p domain.IssuePriority) float64 {
	switch p {
	case domain.PriorityHighest:
		return 3.0
	case domain.PriorityHigh:
		return 2.2
	case domain.PriorityMedium:
		return 1.2
	case domain.PriorityLow:
		return 0.7
	case domain.PriorityLowest:
		return 0.3
	default:
		return 1.2
	}
}

// DropCandidate is a sprint issue ranked for removal.
type DropCandidate struct {
	Issue    *domain.Issue
	Exposure float64
	Score    float64
}

// AddCandidate is a backlog issue ranked for pulling into the sprint.
type AddCandidate struct {
	Issue    *domain.Issue
	Exposure float64
	Score    float64
}

// DropCandidates ranks the sprint's unfinished issues for removal:
// high exposure and low priority rank first, with a bump for issues already
// in flight (dropping them frees active capacity). Ties keep retrieval order.
func DropCandidates(issues []*domain.Issue, exposure map[int64]float64) []DropCandidate {
	var candidates []DropCandidate
	for _, issue := range issues {
		if issue.Status == domain.IssueDone {
			continue
		}
		exp := exposure[issue.ID]
		score := exp*1.9 + priorityWeight(issue.Priority)*0.8
		if issue.Status.IsActive() {
			score += 0.8
		}
		candidates = append(candidates, DropCandidate{Issue: issue, Exposure: exp, Score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// AddCandidates ranks backlog issues for pulling in: priority bonus minus an
// exposure penalty. The input is expected pre-ordered by descending priority
// then descending creation time; ties keep that order.
func AddCandidates(backlog []*domain.Issue, exposure map[int64]float64) []AddCandidate {
	var candidates []AddCandidate
	for _, issue := range backlog {
		exp := exposure[issue.ID]
		score := priorityBonus(issue.Priority) - exp*1.5
		candidates = append(candidates, AddCandidate{Issue: issue, Exposure: exp, Score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// HeatEntry is one row of the decision-exposure heatmap.
type HeatEntry struct {
	Issue    *domain.Issue
	Exposure float64
	Score    int
}

const heatmapLimit = 10

// HeatScores computes the preview heatmap: exposure scaled to 0-100 with an
// in-flight bump, sorted descending, top 10.
func HeatScores(issues []*domain.Issue, exposure map[int64]float64) []HeatEntry {
	var entries []HeatEntry
	for _, issue := range issues {
		exp := exposure[issue.ID]
		score := int(math.Min(100, math.Floor(exp*22)))
		if issue.Status.IsActive() {
			score += 10
			if score > 100 {
				score = 100
			}
		}
		entries = append(entries, HeatEntry{Issue: issue, Exposure: exp, Score: score})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > heatmapLimit {
		entries = entries[:heatmapLimit]
	}
	return entries
}

const riskLimit = 6

// RiskNotes derives the preview risk annunciations from the sprint signals,
// in fixed evaluation order, capped to 6.
func RiskNotes(in ProbabilityInput, totalIssues int) []string {
	var risks []string
	if in.CompletionRatio+0.15 < in.TimeElapsedRatio {
		risks = append(risks, "delivery pace behind elapsed time")
	}
	if in.UnresolvedDecisionCount > 0 {
		risks = append(risks, fmt.Sprintf("%d unresolved decisions may affect execution", in.UnresolvedDecisionCount))
	}
	if in.BlockersCount > 0 {
		risks = append(risks, fmt.Sprintf("%d active blockers reducing predictability", in.BlockersCount))
	}
	if wipLimit := maxInt(3, totalIssues/2); in.InProgressCount > wipLimit {
		risks = append(risks, "WIP bottleneck")
	}
	if len(risks) > riskLimit {
		risks = risks[:riskLimit]
	}
	return risks
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
