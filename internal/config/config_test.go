package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lectio-edu/lectio/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "lectio"
user = "lectio"
password = "lectio"
ssl_mode = "disable"

[storage]
container_name = "syllabi"
connection_string = "DefaultEndpointsProtocol=http;AccountName=lectiostore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/lectiostore;"

[api]
base_path = "/api"
max_upload_size = "25MB"

[api.pagination]
default_page_size = 25
max_page_size = 50

[llm]
provider = "remote"
base_url = "http://localhost:11434/v1"
api_key = "secret"
model = "llama3.1:8b"

[worker]
enabled = true
interval = "10s"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "syllabi" {
		t.Errorf("storage container: got %s, want syllabi", cfg.Storage.ContainerName)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.LLM.Provider != "remote" {
		t.Errorf("llm provider: got %s, want remote", cfg.LLM.Provider)
	}
	if !cfg.Worker.Enabled {
		t.Error("worker should be enabled")
	}
	if cfg.Worker.Interval != "10s" {
		t.Errorf("worker interval: got %s, want 10s", cfg.Worker.Interval)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("LECTIO_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (overlay)", cfg.Database.Host)
	}
	if cfg.Database.Name != "lectio" {
		t.Errorf("db name: got %s, want lectio (base)", cfg.Database.Name)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("LECTIO_SERVER_PORT", "3000")
	t.Setenv("LECTIO_LLM_MODEL", "mistral:7b")
	t.Setenv("LECTIO_WORKER_INTERVAL", "30s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000 (env)", cfg.Server.Port)
	}
	if cfg.LLM.Model != "mistral:7b" {
		t.Errorf("llm model: got %s, want mistral:7b (env)", cfg.LLM.Model)
	}
	if cfg.Worker.Interval != "30s" {
		t.Errorf("worker interval: got %s, want 30s (env)", cfg.Worker.Interval)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("LECTIO_DB_NAME", "testdb")
	t.Setenv("LECTIO_DB_USER", "testuser")
	t.Setenv("LECTIO_STORAGE_CONNECTION_STRING", "conn")
	t.Setenv("LECTIO_LLM_MODEL_PATH", "/models/test.gguf")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.ConnectionString != "conn" {
		t.Errorf("storage conn from env: got %s, want conn", cfg.Storage.ConnectionString)
	}
	if cfg.LLM.Provider != "auto" {
		t.Errorf("llm provider default: got %s, want auto", cfg.LLM.Provider)
	}
	if cfg.Worker.Interval != "5s" {
		t.Errorf("worker interval default: got %s, want 5s", cfg.Worker.Interval)
	}
	if cfg.Worker.MaxInputChars != 2500 {
		t.Errorf("worker max_input_chars default: got %d, want 2500", cfg.Worker.MaxInputChars)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestEnv(t *testing.T) {
	cfg := &config.Config{}

	t.Run("default", func(t *testing.T) {
		t.Setenv("LECTIO_ENV", "")
		if got := cfg.Env(); got != "local" {
			t.Errorf("env: got %s, want local", got)
		}
	})

	t.Run("from env var", func(t *testing.T) {
		t.Setenv("LECTIO_ENV", "production")
		if got := cfg.Env(); got != "production" {
			t.Errorf("env: got %s, want production", got)
		}
	})
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := &config.Config{ShutdownTimeout: "45s"}
	if got := cfg.ShutdownTimeoutDuration(); got != 45*time.Second {
		t.Errorf("shutdown timeout: got %v, want 45s", got)
	}
}

func TestServerAddr(t *testing.T) {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 9090}
	if got := cfg.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("addr: got %s, want 127.0.0.1:9090", got)
	}
}

func TestServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ServerConfig
		wantErr string
	}{
		{
			name:    "invalid port",
			cfg:     config.ServerConfig{Port: 70000},
			wantErr: "invalid port",
		},
		{
			name:    "invalid read timeout",
			cfg:     config.ServerConfig{Port: 8080, ReadTimeout: "nope"},
			wantErr: "invalid read_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"configured size", "25MB", 25 * 1024 * 1024},
		{"invalid falls back to 50MB", "garbage", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("max upload size: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLLMConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := config.LLMConfig{ModelPath: "/models/test.gguf"}
		if err := cfg.Finalize(); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}

		if cfg.Provider != "auto" {
			t.Errorf("provider: got %s, want auto", cfg.Provider)
		}
		if cfg.ContextSize != 2048 {
			t.Errorf("context_size: got %d, want 2048", cfg.ContextSize)
		}
		if cfg.MaxTokens != 300 {
			t.Errorf("max_tokens: got %d, want 300", cfg.MaxTokens)
		}
		if cfg.Temperature != 0.1 {
			t.Errorf("temperature: got %v, want 0.1", cfg.Temperature)
		}
		if cfg.TopP != 0.95 {
			t.Errorf("top_p: got %v, want 0.95", cfg.TopP)
		}
		if cfg.Timeout != "120s" {
			t.Errorf("timeout: got %s, want 120s", cfg.Timeout)
		}
	})

	t.Run("local requires model path", func(t *testing.T) {
		cfg := config.LLMConfig{Provider: "local"}
		if err := cfg.Finalize(); err == nil {
			t.Error("expected error for local provider without model_path")
		}
	})

	t.Run("remote requires base url", func(t *testing.T) {
		cfg := config.LLMConfig{Provider: "remote"}
		if err := cfg.Finalize(); err == nil {
			t.Error("expected error for remote provider without base_url")
		}
	})

	t.Run("auto requires a target", func(t *testing.T) {
		cfg := config.LLMConfig{Provider: "auto"}
		if err := cfg.Finalize(); err == nil {
			t.Error("expected error for auto provider without model_path or base_url")
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := config.LLMConfig{Provider: "local", ModelPath: "/models/a.gguf", Threads: 4}
		overlay := config.LLMConfig{ModelPath: "/models/b.gguf"}
		base.Merge(&overlay)

		if base.ModelPath != "/models/b.gguf" {
			t.Errorf("model_path: got %s, want /models/b.gguf", base.ModelPath)
		}
		if base.Provider != "local" {
			t.Errorf("provider: got %s, want local (unchanged)", base.Provider)
		}
		if base.Threads != 4 {
			t.Errorf("threads: got %d, want 4 (unchanged)", base.Threads)
		}
	})
}

func TestWorkerConfig(t *testing.T) {
	t.Run("interval duration", func(t *testing.T) {
		cfg := config.WorkerConfig{Interval: "10s"}
		if got := cfg.IntervalDuration(); got != 10*time.Second {
			t.Errorf("interval: got %v, want 10s", got)
		}
	})

	t.Run("invalid interval", func(t *testing.T) {
		cfg := config.WorkerConfig{Interval: "often"}
		if err := cfg.Finalize(); err == nil {
			t.Error("expected error for invalid interval")
		}
	})
}

func TestNotifyConfig(t *testing.T) {
	t.Run("enabled requires host", func(t *testing.T) {
		cfg := config.NotifyConfig{Enabled: true}
		if err := cfg.Finalize(); err == nil {
			t.Error("expected error for enabled notify without smtp_host")
		}
	})

	t.Run("disabled skips host requirement", func(t *testing.T) {
		cfg := config.NotifyConfig{}
		if err := cfg.Finalize(); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.Port != 587 {
			t.Errorf("smtp_port default: got %d, want 587", cfg.Port)
		}
	})
}
