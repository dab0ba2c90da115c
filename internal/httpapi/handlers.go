package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// actorHeader carries the acting user's identity, injected by the gateway.
const actorHeader = "X-Actor"

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sprintID, ok := s.sprintID(w, r)
	if !ok {
		return
	}
	resp, err := s.preview.Preview(r.Context(), contract.PreviewRequest{
		SprintID: sprintID,
		Actor:    r.Header.Get(actorHeader),
		Now:      parseNowParam(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScenarioSet(w http.ResponseWriter, r *http.Request) {
	sprintID, ok := s.sprintID(w, r)
	if !ok {
		return
	}
	overrides, err := overridesFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.scenario.ScenarioSet(r.Context(), contract.ScenarioSetRequest{
		SprintID:  sprintID,
		Actor:     r.Header.Get(actorHeader),
		Overrides: overrides,
		Now:       parseNowParam(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyPlan(w http.ResponseWriter, r *http.Request) {
	sprintID, ok := s.sprintID(w, r)
	if !ok {
		return
	}
	var body struct {
		DropIssueIDs            []any `json:"drop_issue_ids"`
		AddIssueIDs             []any `json:"add_issue_ids"`
		CreateDecisionFollowups *bool `json:"create_decision_followups"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.apply.ApplyPlan(r.Context(), contract.ApplyPlanRequest{
		SprintID:                sprintID,
		Actor:                   r.Header.Get(actorHeader),
		DropIssueIDs:            contract.SanitizeIDs(body.DropIssueIDs),
		AddIssueIDs:             contract.SanitizeIDs(body.AddIssueIDs),
		CreateDecisionFollowups: body.CreateDecisionFollowups,
		Now:                     parseNowParam(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyScenario(w http.ResponseWriter, r *http.Request) {
	sprintID, ok := s.sprintID(w, r)
	if !ok {
		return
	}
	var body struct {
		AutoApply    bool    `json:"auto_apply"`
		ScenarioID   *string `json:"scenario_id"`
		DropIssueIDs []any   `json:"drop_issue_ids"`
		AddIssueIDs  []any   `json:"add_issue_ids"`
		Overrides    struct {
			MinConfidenceBand   *string  `json:"min_confidence_band"`
			MinProbabilityDelta *float64 `json:"min_probability_delta"`
			MaxScopeChanges     *int     `json:"max_scope_changes"`
			AllowBacklogAdds    *bool    `json:"allow_backlog_adds"`
			EnforcePolicy       *bool    `json:"enforce_policy"`
		} `json:"overrides"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	var scenarioID *domain.ScenarioID
	if body.ScenarioID != nil {
		id := domain.ScenarioID(*body.ScenarioID)
		scenarioID = &id
	}
	resp, err := s.apply.ApplyScenario(r.Context(), contract.ScenarioApplyRequest{
		SprintID:     sprintID,
		Actor:        r.Header.Get(actorHeader),
		AutoApply:    body.AutoApply,
		ScenarioID:   scenarioID,
		DropIssueIDs: sanitizeOptionalIDs(body.DropIssueIDs),
		AddIssueIDs:  sanitizeOptionalIDs(body.AddIssueIDs),
		Overrides: domain.PolicyOverrides{
			MinConfidenceBand:   body.Overrides.MinConfidenceBand,
			MinProbabilityDelta: body.Overrides.MinProbabilityDelta,
			MaxScopeChanges:     body.Overrides.MaxScopeChanges,
			AllowBacklogAdds:    body.Overrides.AllowBacklogAdds,
			EnforcePolicy:       body.Overrides.EnforcePolicy,
		},
		Now: parseNowParam(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) sprintID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, &contract.EngineError{
			Code:    contract.ErrValidation,
			Message: "sprint id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &contract.EngineError{Code: contract.ErrValidation, Message: "malformed request body"}
	}
	return nil
}

// sanitizeOptionalIDs preserves the absent-vs-empty distinction: an absent
// list means "use the scenario plan", an explicit list (even empty) replaces
// it.
func sanitizeOptionalIDs(values []any) []int64 {
	if values == nil {
		return nil
	}
	ids := contract.SanitizeIDs(values)
	if ids == nil {
		return []int64{}
	}
	return ids
}

// parseNowParam reads an optional ?now=YYYY-MM-DD evaluation-date override.
// Malformed values are ignored.
func parseNowParam(r *http.Request) *time.Time {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

func overridesFromQuery(r *http.Request) (domain.PolicyOverrides, error) {
	q := r.URL.Query()
	var overrides domain.PolicyOverrides
	if v := q.Get("min_confidence_band"); v != "" {
		overrides.MinConfidenceBand = &v
	}
	if v := q.Get("min_probability_delta"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return overrides, &contract.EngineError{Code: contract.ErrValidation, Message: "min_probability_delta must be numeric"}
		}
		overrides.MinProbabilityDelta = &f
	}
	if v := q.Get("max_scope_changes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return overrides, &contract.EngineError{Code: contract.ErrValidation, Message: "max_scope_changes must be an integer"}
		}
		overrides.MaxScopeChanges = &n
	}
	if v := q.Get("allow_backlog_adds"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return overrides, &contract.EngineError{Code: contract.ErrValidation, Message: "allow_backlog_adds must be a boolean"}
		}
		overrides.AllowBacklogAdds = &b
	}
	if v := q.Get("enforce_policy"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return overrides, &contract.EngineError{Code: contract.ErrValidation, Message: "enforce_policy must be a boolean"}
		}
		overrides.EnforcePolicy = &b
	}
	return overrides, nil
}
