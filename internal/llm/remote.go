package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lectio-edu/lectio/internal/config"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// remote generates completions through an OpenAI-compatible chat endpoint.
type remote struct {
	cfg    *config.LLMConfig
	logger *slog.Logger
	client *http.Client
}

func newRemote(cfg *config.LLMConfig, logger *slog.Logger) *remote {
	return &remote{
		cfg:    cfg,
		logger: logger.With("system", "llm"),
		client: &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

func (r *remote) ModelName() string {
	return r.cfg.Model
}

func (r *remote) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if r.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: api key required for remote provider", ErrConfiguration)
	}

	system, user := splitPrompt(prompt)

	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	body, err := json.Marshal(chatRequest{
		Model:       r.cfg.Model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	url := strings.TrimSuffix(r.cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	res, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		r.logger.Error("chat completion failed",
			"status", res.StatusCode,
			"body", string(data),
		)
		return "", fmt.Errorf("%w: status %d", ErrGateway, res.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrGateway, parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGateway)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
