package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvLLMProvider    = "LECTIO_LLM_PROVIDER"
	EnvLLMModelPath   = "LECTIO_LLM_MODEL_PATH"
	EnvLLMContextSize = "LECTIO_LLM_CONTEXT_SIZE"
	EnvLLMThreads     = "LECTIO_LLM_THREADS"
	EnvLLMBaseURL     = "LECTIO_LLM_BASE_URL"
	EnvLLMAPIKey      = "LECTIO_LLM_API_KEY"
	EnvLLMModel       = "LECTIO_LLM_MODEL"
	EnvLLMTimeout     = "LECTIO_LLM_TIMEOUT"
)

// LLMConfig holds model gateway settings for local and remote inference.
// Provider selects the gateway: "local" runs a gguf model in-process,
// "remote" calls an OpenAI-compatible endpoint, and "auto" prefers remote
// when an api key is set, then local when a model path is configured.
type LLMConfig struct {
	Provider    string `toml:"provider"`
	ModelPath   string `toml:"model_path"`
	ContextSize int    `toml:"context_size"`
	Threads     int    `toml:"threads"`
	BaseURL     string `toml:"base_url"`
	APIKey      string `toml:"api_key"`
	Model       string `toml:"model"`
	Timeout     string `toml:"timeout"`

	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
	TopP        float64 `toml:"top_p"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *LLMConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LLMConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LLMConfig) Merge(overlay *LLMConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.ModelPath != "" {
		c.ModelPath = overlay.ModelPath
	}
	if overlay.ContextSize != 0 {
		c.ContextSize = overlay.ContextSize
	}
	if overlay.Threads != 0 {
		c.Threads = overlay.Threads
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.TopP != 0 {
		c.TopP = overlay.TopP
	}
}

func (c *LLMConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = "auto"
	}
	if c.ContextSize == 0 {
		c.ContextSize = 2048
	}
	if c.Threads == 0 {
		c.Threads = 4
	}
	if c.Timeout == "" {
		c.Timeout = "120s"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 300
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.TopP == 0 {
		c.TopP = 0.95
	}
}

func (c *LLMConfig) loadEnv() {
	if v := os.Getenv(EnvLLMProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvLLMModelPath); v != "" {
		c.ModelPath = v
	}
	if v := os.Getenv(EnvLLMContextSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ContextSize = n
		}
	}
	if v := os.Getenv(EnvLLMThreads); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Threads = n
		}
	}
	if v := os.Getenv(EnvLLMBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvLLMModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvLLMTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *LLMConfig) validate() error {
	switch c.Provider {
	case "local", "remote", "auto":
	default:
		return fmt.Errorf("invalid provider: %s", c.Provider)
	}
	if c.Provider == "local" && c.ModelPath == "" {
		return fmt.Errorf("model_path required for local provider")
	}
	if c.Provider == "remote" && c.BaseURL == "" {
		return fmt.Errorf("base_url required for remote provider")
	}
	if c.Provider == "auto" && c.ModelPath == "" && c.BaseURL == "" {
		return fmt.Errorf("model_path or base_url required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
