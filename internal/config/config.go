package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

// Config represents the application configuration.
type Config struct {
	GeminiAPIKey      string `json:"gemini_api_key"`
	GeminiModel       string `json:"gemini_model"`
	DatabaseURL       string `json:"DATABASE_URL"`
	Port              string `json:"port"`
	FrontendURL       string `json:"frontend_url"`
	LLMProvider       string `json:"llm_provider"`
	LocalLLMURL       string `json:"local_llm_url"`
	LocalLLMModel     string `json:"local_llm_model"`
	LLMTimeoutSeconds int    `json:"llm_timeout_seconds"`
	LogMode           string `json:"log_mode"`
}

func defaults() Config {
	return Config{
		GeminiModel:       "gemini-1.5-flash",
		Port:              "3001",
		FrontendURL:       "http://localhost:5173",
		LLMProvider:       ProviderGemini,
		LocalLLMURL:       "http://localhost:1234/v1/chat/completions",
		LocalLLMModel:     "gemma-3-12b-it",
		LLMTimeoutSeconds: 60,
		LogMode:           "development",
	}
}

// Load reads the JSON file at path, when it exists, then applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LLMTimeout is the deadline given to a single recipe generation call.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

func applyEnv(cfg *Config) {
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Port, "PORT")
	setString(&cfg.FrontendURL, "FRONTEND_URL")
	setString(&cfg.LLMProvider, "LLM_PROVIDER")
	setString(&cfg.LocalLLMURL, "LOCAL_LLM_URL")
	setString(&cfg.LocalLLMModel, "LOCAL_LLM_MODEL")
	setString(&cfg.LogMode, "LOG_MODE")

	if v := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_SECONDS")); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.LLMTimeoutSeconds = i
		}
	}
}

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	c.LLMProvider = strings.ToLower(c.LLMProvider)
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("gemini_api_key is required when llm_provider is %q", ProviderGemini)
		}
	case ProviderLocal:
		if c.LocalLLMURL == "" {
			return fmt.Errorf("local_llm_url is required when llm_provider is %q", ProviderLocal)
		}
	default:
		return fmt.Errorf("unknown llm_provider %q", c.LLMProvider)
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.LLMTimeoutSeconds <= 0 {
		return fmt.Errorf("llm_timeout_seconds must be positive, got %d", c.LLMTimeoutSeconds)
	}
	return nil
}
