package contract

import "github.com/alexanderramin/sprintpilot/internal/app"

type ScenarioSetRequest = app.ScenarioSetRequest

type ScenarioSetResponse = app.ScenarioSetResponse

type ScenarioView = app.ScenarioView

type PlanView = app.PlanView

type PolicyResultView = app.PolicyResultView

type Explainability = app.Explainability
