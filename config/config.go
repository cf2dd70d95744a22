// Package config loads lifemesh settings from a YAML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "LIFEMESH"

// Config is the complete application configuration.
type Config struct {
	Model     ModelConfig     `mapstructure:"model"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Log       LogConfig       `mapstructure:"log"`
	Email     EmailConfig     `mapstructure:"email"`
	Google    GoogleConfig    `mapstructure:"google"`
	Reports   ReportsConfig   `mapstructure:"reports"`
	Workflows WorkflowsConfig `mapstructure:"workflows"`
}

// ModelConfig selects the default model and its sampling settings.
type ModelConfig struct {
	Default     string  `mapstructure:"default"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	// MaxCallsPerRun caps model calls in one run (0 = unlimited).
	MaxCallsPerRun int `mapstructure:"max_calls_per_run"`
}

// ProvidersConfig holds provider credentials.
type ProvidersConfig struct {
	GoogleAPIKey    string `mapstructure:"google_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EmailConfig configures digest delivery.
type EmailConfig struct {
	To            string `mapstructure:"to"`
	Subject       string `mapstructure:"subject"`
	RecipientName string `mapstructure:"recipient_name"`
	SenderName    string `mapstructure:"sender_name"`
}

// GoogleConfig points at the OAuth client and token files.
type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
	DriveFolder     string `mapstructure:"drive_folder"`
	MaxMessages     int64  `mapstructure:"max_messages"`
}

// ReportsConfig configures where generated reports are written.
type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

// WorkflowsConfig points at an optional catalogue of extra static workflows.
type WorkflowsConfig struct {
	CatalogFile string `mapstructure:"catalog_file"`
}

// Loader reads configuration from defaults, file and environment.
type Loader struct {
	v          *viper.Viper
	configFile string
	dotEnv     string
}

// NewLoader creates a loader with its own viper instance.
func NewLoader() *Loader {
	return &Loader{v: viper.New(), dotEnv: ".env"}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithDotEnv sets the .env file to load. Empty disables it.
func (l *Loader) WithDotEnv(path string) *Loader {
	l.dotEnv = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Load reads the configuration. Precedence from highest to lowest: bound
// flags, LIFEMESH_* environment, unprefixed provider keys, config file,
// defaults. Variables from the .env file never override the environment.
func (l *Loader) Load() (*Config, error) {
	if l.dotEnv != "" {
		if err := godotenv.Load(l.dotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", l.dotEnv, err)
		}
	}

	setDefaults(l.v)

	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	for key, env := range map[string]string{
		"providers.google_api_key":    "GOOGLE_API_KEY",
		"providers.openai_api_key":    "OPENAI_API_KEY",
		"providers.anthropic_api_key": "ANTHROPIC_API_KEY",
	} {
		if err := l.v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName("lifemesh")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "lifemesh"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Load is a shorthand for NewLoader().WithConfigFile(path).Load().
func Load(path string) (*Config, error) {
	return NewLoader().WithConfigFile(path).Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.default", "gemini-2.0-flash")
	v.SetDefault("model.temperature", 0.7)
	v.SetDefault("model.max_tokens", 2048)
	v.SetDefault("model.max_calls_per_run", 50)

	v.SetDefault("providers.google_api_key", "")
	v.SetDefault("providers.openai_api_key", "")
	v.SetDefault("providers.anthropic_api_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("email.to", "")
	v.SetDefault("email.subject", "Daily Email Summary")
	v.SetDefault("email.recipient_name", "you")
	v.SetDefault("email.sender_name", "your assistant")

	v.SetDefault("google.credentials_file", "credentials.json")
	v.SetDefault("google.token_file", "token.json")
	v.SetDefault("google.drive_folder", "")
	v.SetDefault("google.max_messages", 5)

	v.SetDefault("reports.dir", "reports")

	v.SetDefault("workflows.catalog_file", "")
}
