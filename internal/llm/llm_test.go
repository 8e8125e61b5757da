package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	llama "github.com/go-skynet/go-llama.cpp"

	"github.com/lectio-edu/lectio/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewProviderSelection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.LLMConfig
		wantLocal  bool
		wantRemote bool
		wantErr    bool
	}{
		{
			name:      "explicit local",
			cfg:       config.LLMConfig{Provider: "local", ModelPath: "/models/test.gguf"},
			wantLocal: true,
		},
		{
			name:       "explicit remote",
			cfg:        config.LLMConfig{Provider: "remote", BaseURL: "http://localhost:8080/v1"},
			wantRemote: true,
		},
		{
			name:       "auto prefers remote with api key",
			cfg:        config.LLMConfig{Provider: "auto", ModelPath: "/models/test.gguf", BaseURL: "http://localhost:8080/v1", APIKey: "secret"},
			wantRemote: true,
		},
		{
			name:      "auto falls back to local model path",
			cfg:       config.LLMConfig{Provider: "auto", ModelPath: "/models/test.gguf"},
			wantLocal: true,
		},
		{
			name:       "auto uses keyless base url last",
			cfg:        config.LLMConfig{Provider: "auto", BaseURL: "http://localhost:8080/v1"},
			wantRemote: true,
		},
		{
			name:    "auto with nothing configured",
			cfg:     config.LLMConfig{Provider: "auto"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     config.LLMConfig{Provider: "quantum"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := New(&tt.cfg, testLogger())

			if tt.wantErr {
				if !errors.Is(err, ErrConfiguration) {
					t.Fatalf("error = %v, want ErrConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New error: %v", err)
			}

			_, isLocal := sys.(*local)
			_, isRemote := sys.(*remote)
			if isLocal != tt.wantLocal || isRemote != tt.wantRemote {
				t.Errorf("provider = local:%v remote:%v, want local:%v remote:%v",
					isLocal, isRemote, tt.wantLocal, tt.wantRemote)
			}
		})
	}
}

type fakeModel struct {
	response string
	err      error

	active  atomic.Int32
	overlap atomic.Bool
	calls   atomic.Int32
}

func (m *fakeModel) Predict(text string, opts ...llama.PredictOption) (string, error) {
	if m.active.Add(1) > 1 {
		m.overlap.Store(true)
	}
	defer m.active.Add(-1)

	m.calls.Add(1)
	return m.response, m.err
}

func testLocal(m *fakeModel, loadErr error, loads *atomic.Int32) *local {
	l := newLocal(&config.LLMConfig{
		Provider:    "local",
		ModelPath:   "/models/test.gguf",
		ContextSize: 2048,
		Threads:     4,
	}, testLogger())

	l.load = func(path string, opts ...llama.ModelOption) (model, error) {
		loads.Add(1)
		if loadErr != nil {
			return nil, loadErr
		}
		return m, nil
	}
	return l
}

func TestLocalGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the model once", func(t *testing.T) {
		var loads atomic.Int32
		m := &fakeModel{response: "ok"}
		l := testLocal(m, nil, &loads)

		for range 3 {
			if _, err := l.Generate(ctx, "prompt", Options{MaxTokens: 10}); err != nil {
				t.Fatalf("Generate error: %v", err)
			}
		}

		if got := loads.Load(); got != 1 {
			t.Errorf("loads = %d, want 1", got)
		}
		if got := m.calls.Load(); got != 3 {
			t.Errorf("predict calls = %d, want 3", got)
		}
	})

	t.Run("caches the load failure", func(t *testing.T) {
		var loads atomic.Int32
		l := testLocal(nil, errors.New("no such file"), &loads)

		for range 2 {
			_, err := l.Generate(ctx, "prompt", Options{})
			if !errors.Is(err, ErrModelUnavailable) {
				t.Fatalf("error = %v, want ErrModelUnavailable", err)
			}
			if !strings.Contains(err.Error(), l.cfg.ModelPath) {
				t.Errorf("error = %v, want it to name %s", err, l.cfg.ModelPath)
			}
		}

		if got := loads.Load(); got != 1 {
			t.Errorf("loads = %d, want 1", got)
		}
	})

	t.Run("serializes inference", func(t *testing.T) {
		var loads atomic.Int32
		m := &fakeModel{response: "ok"}
		l := testLocal(m, nil, &loads)

		var wg sync.WaitGroup
		for range 8 {
			wg.Go(func() {
				l.Generate(ctx, "prompt", Options{})
			})
		}
		wg.Wait()

		if m.overlap.Load() {
			t.Error("Predict ran concurrently, want serialized inference")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		var loads atomic.Int32
		m := &fakeModel{response: "ok"}
		l := testLocal(m, nil, &loads)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := l.Generate(cancelled, "prompt", Options{}); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestRemoteGenerate(t *testing.T) {
	ctx := context.Background()

	newServer := func(t *testing.T, status int, body any) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("path = %s, want /chat/completions", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("authorization = %q, want Bearer secret", got)
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(body)
		}))
	}

	remoteFor := func(url string) *remote {
		return newRemote(&config.LLMConfig{
			Provider: "remote",
			BaseURL:  url,
			APIKey:   "secret",
			Model:    "test-model",
			Timeout:  "5s",
		}, testLogger())
	}

	t.Run("success splits the prompt into messages", func(t *testing.T) {
		var captured chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&captured)
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "  verdict  "}},
				},
			})
		}))
		defer srv.Close()

		r := remoteFor(srv.URL)
		got, err := r.Generate(ctx, ComposePrompt("be strict", "check this"), Options{MaxTokens: 50})
		if err != nil {
			t.Fatalf("Generate error: %v", err)
		}
		if got != "verdict" {
			t.Errorf("Generate = %q, want verdict", got)
		}

		if len(captured.Messages) != 2 {
			t.Fatalf("messages = %d, want 2", len(captured.Messages))
		}
		if captured.Messages[0].Role != "system" || captured.Messages[0].Content != "be strict" {
			t.Errorf("system message = %+v", captured.Messages[0])
		}
		if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "check this" {
			t.Errorf("user message = %+v", captured.Messages[1])
		}
		if captured.Model != "test-model" {
			t.Errorf("model = %q, want test-model", captured.Model)
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		r := newRemote(&config.LLMConfig{BaseURL: "http://localhost:1", Timeout: "1s"}, testLogger())
		if _, err := r.Generate(ctx, "prompt", Options{}); !errors.Is(err, ErrConfiguration) {
			t.Errorf("error = %v, want ErrConfiguration", err)
		}
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := newServer(t, http.StatusBadGateway, map[string]any{"error": map[string]string{"message": "overloaded"}})
		defer srv.Close()

		r := remoteFor(srv.URL)
		if _, err := r.Generate(ctx, "prompt", Options{}); !errors.Is(err, ErrGateway) {
			t.Errorf("error = %v, want ErrGateway", err)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, map[string]any{"choices": []any{}})
		defer srv.Close()

		r := remoteFor(srv.URL)
		if _, err := r.Generate(ctx, "prompt", Options{}); !errors.Is(err, ErrGateway) {
			t.Errorf("error = %v, want ErrGateway", err)
		}
	})
}

func TestSplitPrompt(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		prompt := ComposePrompt("system text", "user text")

		system, user := splitPrompt(prompt)
		if system != "system text" {
			t.Errorf("system = %q", system)
		}
		if user != "user text" {
			t.Errorf("user = %q", user)
		}
	})

	t.Run("bare prompt is the user message", func(t *testing.T) {
		system, user := splitPrompt("  just a question  ")
		if system != "" {
			t.Errorf("system = %q, want empty", system)
		}
		if user != "just a question" {
			t.Errorf("user = %q", user)
		}
	})
}

func TestModelName(t *testing.T) {
	l := newLocal(&config.LLMConfig{ModelPath: "/models/mistral-7b.gguf"}, testLogger())
	if got := l.ModelName(); got != "mistral-7b.gguf" {
		t.Errorf("ModelName = %q, want mistral-7b.gguf", got)
	}

	r := newRemote(&config.LLMConfig{Model: "gpt-4o-mini", Timeout: "1s"}, testLogger())
	if got := r.ModelName(); got != "gpt-4o-mini" {
		t.Errorf("ModelName = %q, want gpt-4o-mini", got)
	}
}
