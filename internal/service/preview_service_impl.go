package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/engine"
)

// previewSuggestionLimit caps the drop and add suggestion lists in the
// lightweight preview.
const previewSuggestionLimit = 3

type previewService struct {
	loader   *SnapshotLoader
	access   AccessChecker
	observer UseCaseObserver
}

func NewPreviewService(loader *SnapshotLoader, access AccessChecker, observers ...UseCaseObserver) PreviewService {
	return &previewService{
		loader:   loader,
		access:   access,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *previewService) Preview(ctx context.Context, req contract.PreviewRequest) (resp *contract.PreviewResponse, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "preview", started, err, map[string]any{"sprint_id": req.SprintID})
	}()

	if req.SprintID <= 0 {
		return nil, &contract.EngineError{Code: contract.ErrValidation, Message: "sprint id must be positive"}
	}

	snap, err := s.loader.Load(ctx, req.SprintID, resolveNow(req.Now))
	if err != nil {
		return nil, mapError(err, "sprint")
	}
	if err = checkAccess(ctx, s.access, req.Actor, snap.Project.ID); err != nil {
		return nil, err
	}

	probability := engine.GoalProbability(snap.Input)
	drops := engine.DropCandidates(snap.Issues, snap.Exposure)
	adds := engine.AddCandidates(snap.Backlog, snap.Exposure)
	heat := engine.HeatScores(snap.Issues, snap.Exposure)

	return &contract.PreviewResponse{
		SprintID:        req.SprintID,
		GoalProbability: probability,
		ConfidenceBand:  engine.ConfidenceBand(probability),
		Signals:         snap.Signals(),
		Risks:           engine.RiskNotes(snap.Input, len(snap.Issues)),
		ScopeSwap: contract.ScopeSwapSuggestions{
			SuggestedDrops: dropSuggestions(drops, previewSuggestionLimit),
			SuggestedAdds:  addSuggestions(adds, previewSuggestionLimit),
		},
		DecisionExposureHeatmap: heatmapEntries(heat),
	}, nil
}

func dropSuggestions(drops []engine.DropCandidate, limit int) []contract.IssueSuggestion {
	suggestions := make([]contract.IssueSuggestion, 0, limit)
	for i, c := range drops {
		if i >= limit {
			break
		}
		suggestions = append(suggestions, contract.IssueSuggestion{
			IssueID:  c.Issue.ID,
			Key:      c.Issue.Key,
			Title:    c.Issue.Title,
			Score:    c.Score,
			Exposure: c.Exposure,
		})
	}
	return suggestions
}

func addSuggestions(adds []engine.AddCandidate, limit int) []contract.IssueSuggestion {
	suggestions := make([]contract.IssueSuggestion, 0, limit)
	for i, c := range adds {
		if i >= limit {
			break
		}
		suggestions = append(suggestions, contract.IssueSuggestion{
			IssueID:  c.Issue.ID,
			Key:      c.Issue.Key,
			Title:    c.Issue.Title,
			Score:    c.Score,
			Exposure: c.Exposure,
		})
	}
	return suggestions
}

func heatmapEntries(heat []engine.HeatEntry) []contract.HeatmapEntry {
	entries := make([]contract.HeatmapEntry, 0, len(heat))
	for _, h := range heat {
		entries = append(entries, contract.HeatmapEntry{
			IssueID:   h.Issue.ID,
			Key:       h.Issue.Key,
			Title:     h.Issue.Title,
			Status:    h.Issue.Status,
			Exposure:  h.Exposure,
			HeatScore: h.Score,
		})
	}
	return entries
}
