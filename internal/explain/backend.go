package explain

import (
	"context"
	"errors"
	"fmt"

	"github.com/jgirmay/mathlab/pkg/config"
)

// Unavailable is used when no backend could be built. Every call fails, so
// explanations resolve to the fallback text.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Name() string { return "unavailable" }

func (u Unavailable) Generate(context.Context, string) (string, error) {
	return "", errors.New(u.Reason)
}

// NewGenerator builds the backend selected by the AI configuration.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	case config.ProviderOllama:
		return NewOllamaGenerator(cfg.OllamaURL, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}
