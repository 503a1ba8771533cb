package port

import (
	"context"
	"ratebot/internal/core/domain"
)

type TextGenerator interface {
	GenerateFromPrompt(ctx context.Context, prompts []domain.Prompt) (domain.ModelResponse, error)
}

type HostInspector interface {
	Stats(ctx context.Context) (domain.HostStats, error)
}
