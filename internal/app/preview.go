package app

import (
	"time"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// PreviewRequest asks for the lightweight sprint health preview: heatmap plus
// top drop/add suggestions, no policy involvement.
type PreviewRequest struct {
	SprintID int64
	Actor    string
	// Now overrides the evaluation date (tests and replays); nil means
	// time.Now().UTC().
	Now *time.Time
}

// IssueSuggestion is one ranked drop or add suggestion.
type IssueSuggestion struct {
	IssueID  int64   `json:"issue_id"`
	Key      string  `json:"key"`
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
	Exposure float64 `json:"exposure"`
}

// HeatmapEntry is one row of the decision-exposure heatmap.
type HeatmapEntry struct {
	IssueID   int64              `json:"issue_id"`
	Key       string             `json:"key"`
	Title     string             `json:"title"`
	Status    domain.IssueStatus `json:"status"`
	Exposure  float64            `json:"exposure"`
	HeatScore int                `json:"heat_score"`
}

// ScopeSwapSuggestions carries the top-3 drop and add suggestions.
type ScopeSwapSuggestions struct {
	SuggestedDrops []IssueSuggestion `json:"suggested_drops"`
	SuggestedAdds  []IssueSuggestion `json:"suggested_adds"`
}

type PreviewResponse struct {
	SprintID                int64                 `json:"sprint_id"`
	GoalProbability         float64               `json:"goal_probability"`
	ConfidenceBand          domain.ConfidenceBand `json:"confidence_band"`
	Signals                 Signals               `json:"signals"`
	Risks                   []string              `json:"risks"`
	ScopeSwap               ScopeSwapSuggestions  `json:"scope_swap"`
	DecisionExposureHeatmap []HeatmapEntry        `json:"decision_exposure_heatmap"`
}
