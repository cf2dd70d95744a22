package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/lifemesh/logging"
)

// Provider names returned by ProviderFor.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// ProviderFor maps a model identifier to its provider, or "" when unknown.
func ProviderFor(model string) string {
	switch {
	case strings.HasPrefix(model, "gemini-"):
		return ProviderGemini
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		return ProviderOpenAI
	case strings.HasPrefix(model, "claude-"):
		return ProviderAnthropic
	case strings.HasPrefix(model, "mock"):
		return ProviderMock
	default:
		return ""
	}
}

// APIKey returns the credential configured for provider.
func (c *Config) APIKey(provider string) string {
	switch provider {
	case ProviderGemini:
		return c.Providers.GoogleAPIKey
	case ProviderOpenAI:
		return c.Providers.OpenAIAPIKey
	case ProviderAnthropic:
		return c.Providers.AnthropicAPIKey
	default:
		return ""
	}
}

// Validate checks the settings needed to talk to the default model.
func (c *Config) Validate() error {
	var errs []error

	provider := ProviderFor(c.Model.Default)

	switch provider {
	case "":
		errs = append(errs, fmt.Errorf("model.default: unsupported model %q", c.Model.Default))
	case ProviderMock:
	default:
		if c.APIKey(provider) == "" {
			errs = append(errs, fmt.Errorf("providers: %s requires an API key for model %q", provider, c.Model.Default))
		}
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, fmt.Errorf("model.temperature: %v out of range [0,2]", c.Model.Temperature))
	}

	if c.Model.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("model.max_tokens: must not be negative"))
	}
	if c.Model.MaxCallsPerRun < 0 {
		errs = append(errs, fmt.Errorf("model.max_calls_per_run: must not be negative"))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Logger builds the configured logger. Invalid levels fall back to info.
func (c *Config) Logger() logging.Logger {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LogLevelInfo
	}
	return logging.NewSlogLogger(level, c.Log.Format, false)
}
