// Package llm provides a text generation gateway with local in-process
// inference and a remote OpenAI-compatible fallback.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lectio-edu/lectio/internal/config"
)

// Options controls a single generation request.
type Options struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// System defines the public contract for text generation.
type System interface {
	// Generate produces a completion for the given prompt. The prompt may
	// carry chat sentinels; providers adapt it to their wire format.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)

	// ModelName identifies the model serving completions.
	ModelName() string
}

// New creates a generation gateway for the configured provider.
// The auto provider prefers remote inference when an API key is
// configured, then local when a model path is set.
func New(cfg *config.LLMConfig, logger *slog.Logger) (System, error) {
	switch cfg.Provider {
	case "local":
		return newLocal(cfg, logger), nil
	case "remote":
		return newRemote(cfg, logger), nil
	case "auto":
		if cfg.APIKey != "" && cfg.BaseURL != "" {
			return newRemote(cfg, logger), nil
		}
		if cfg.ModelPath != "" {
			return newLocal(cfg, logger), nil
		}
		if cfg.BaseURL != "" {
			return newRemote(cfg, logger), nil
		}
		return nil, fmt.Errorf("%w: no model path or base url configured", ErrConfiguration)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrConfiguration, cfg.Provider)
	}
}
