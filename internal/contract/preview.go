package contract

import "github.com/alexanderramin/sprintpilot/internal/app"

type PreviewRequest = app.PreviewRequest

type PreviewResponse = app.PreviewResponse

type IssueSuggestion = app.IssueSuggestion

type HeatmapEntry = app.HeatmapEntry

type ScopeSwapSuggestions = app.ScopeSwapSuggestions
