package contract

import "github.com/alexanderramin/sprintpilot/internal/app"

type PreviewUseCase = app.PreviewUseCase

type ScenarioSetUseCase = app.ScenarioSetUseCase

type ApplyUseCase = app.ApplyUseCase
