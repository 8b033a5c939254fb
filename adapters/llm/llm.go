package llm

import (
	"context"
	"fmt"

	"github.com/satriahrh/nova-ai/config"
	"github.com/satriahrh/nova-ai/domain"
)

// New builds the model client selected by cfg.Backend.
func New(ctx context.Context, cfg *config.Config) (domain.Llm, error) {
	switch cfg.Backend {
	case config.BackendGenai, "":
		client, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendLegacy:
		client, err := NewLegacyClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", cfg.Backend)
	}
}
