package contract

import "github.com/alexanderramin/sprintpilot/internal/app"

type ApplyPlanRequest = app.ApplyPlanRequest

type ApplyPlanResponse = app.ApplyPlanResponse

type ScenarioApplyRequest = app.ScenarioApplyRequest

type ScenarioApplyResponse = app.ScenarioApplyResponse
