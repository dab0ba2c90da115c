package app

import "context"

type PreviewUseCase interface {
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error)
}

type ScenarioSetUseCase interface {
	ScenarioSet(ctx context.Context, req ScenarioSetRequest) (*ScenarioSetResponse, error)
}

type ApplyUseCase interface {
	ApplyPlan(ctx context.Context, req ApplyPlanRequest) (*ApplyPlanResponse, error)
	ApplyScenario(ctx context.Context, req ScenarioApplyRequest) (*ScenarioApplyResponse, error)
}
