package gateway

import (
	"context"
	"fmt"

	"paperform/internal/config"
)

// New creates the gateway named by cfg.ModelProvider.
func New(ctx context.Context, cfg config.Config) (Gateway, error) {
	switch cfg.ModelProvider {
	case "openai":
		return NewOpenAIGateway(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIEndpoint)

	case "vertex":
		return NewVertexGateway(ctx, cfg.VertexProjectID, cfg.VertexRegion, cfg.VertexModel)

	default:
		return nil, fmt.Errorf("unknown model provider: %s", cfg.ModelProvider)
	}
}
