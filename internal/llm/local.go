package llm

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"github.com/lectio-edu/lectio/internal/config"
)

// model abstracts the loaded llama model for testability.
type model interface {
	Predict(text string, opts ...llama.PredictOption) (string, error)
}

type loadFunc func(path string, opts ...llama.ModelOption) (model, error)

// local runs a gguf model in-process. The model loads lazily on first use
// and requests are serialized: llama.cpp inference is not safe to run
// concurrently on a single model instance.
type local struct {
	cfg    *config.LLMConfig
	logger *slog.Logger
	load   loadFunc

	mu      sync.Mutex
	model   model
	loadErr error
	loaded  bool
}

func newLocal(cfg *config.LLMConfig, logger *slog.Logger) *local {
	return &local{
		cfg:    cfg,
		logger: logger.With("system", "llm", "provider", "local"),
		load: func(path string, opts ...llama.ModelOption) (model, error) {
			return llama.New(path, opts...)
		},
	}
}

func (l *local) ModelName() string {
	return filepath.Base(l.cfg.ModelPath)
}

func (l *local) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !l.loaded {
		l.logger.Info("loading model", "path", l.cfg.ModelPath)
		l.model, l.loadErr = l.load(
			l.cfg.ModelPath,
			llama.SetContext(l.cfg.ContextSize),
		)
		l.loaded = true

		if l.loadErr != nil {
			l.logger.Error("model load failed", "path", l.cfg.ModelPath, "error", l.loadErr)
		}
	}

	if l.loadErr != nil {
		return "", fmt.Errorf("%w: model %s: %v", ErrModelUnavailable, l.cfg.ModelPath, l.loadErr)
	}

	result, err := l.model.Predict(
		prompt,
		llama.SetTokens(opts.MaxTokens),
		llama.SetTemperature(float32(opts.Temperature)),
		llama.SetTopP(float32(opts.TopP)),
		llama.SetThreads(l.cfg.Threads),
		llama.SetStopWords(sentinelEnd),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	return result, nil
}
