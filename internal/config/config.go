package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable, e.g. HEALTHLOG_BACKEND_URL.
const EnvPrefix = "HEALTHLOG"

// AI providers for narration.
const (
	AIProviderAuto   = "auto"
	AIProviderCLI    = "cli"
	AIProviderOpenAI = "openai"
)

// Config holds the client configuration.
type Config struct {
	// Log backend
	BackendURL        string  `envconfig:"BACKEND_URL" default:"http://localhost:8080/api"`
	RequestsPerSecond float64 `envconfig:"REQUESTS_PER_SECOND" default:"5"`
	Profile           string  `envconfig:"PROFILE" default:"default"`

	// Scoring
	WindowSize      int     `envconfig:"WINDOW_SIZE" default:"7"`
	ActivityDivisor float64 `envconfig:"ACTIVITY_DIVISOR" default:"30"`
	RulesFile       string  `envconfig:"RULES_FILE"`

	// Local log cache; derived from the user config dir when empty
	JournalDir string `envconfig:"JOURNAL_DIR"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`

	// Narration: auto picks openai when an API key is set, otherwise an installed AI CLI
	AIProvider    string `envconfig:"AI_PROVIDER" default:"auto"`
	AICLI         string `envconfig:"AI_CLI"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
}

// Load reads the given .env files (missing files are skipped; variables
// already set win), then parses HEALTHLOG_* variables and resolves defaults.
func Load(dotenv ...string) (*Config, error) {
	for _, p := range dotenv {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveDefaults validates the configuration and derives empty values.
func (c *Config) ResolveDefaults() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL must not be empty")
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("WINDOW_SIZE must be at least 1, got %d", c.WindowSize)
	}
	if c.ActivityDivisor <= 0 {
		return fmt.Errorf("ACTIVITY_DIVISOR must be positive, got %g", c.ActivityDivisor)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("REQUESTS_PER_SECOND must not be negative, got %g", c.RequestsPerSecond)
	}
	if c.Profile == "" {
		c.Profile = "default"
	}

	switch c.AIProvider {
	case "", AIProviderAuto:
		if c.OpenAIAPIKey != "" {
			c.AIProvider = AIProviderOpenAI
		} else {
			c.AIProvider = AIProviderCLI
		}
	case AIProviderCLI:
	case AIProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("AI_PROVIDER=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported AI_PROVIDER: %s", c.AIProvider)
	}

	if c.JournalDir == "" {
		c.JournalDir = DefaultJournalDir()
	}
	return nil
}

// DefaultDir is the per-user configuration directory for healthlog.
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "healthlog")
}

// DefaultJournalDir is where the local log cache lives by default.
func DefaultJournalDir() string {
	return filepath.Join(DefaultDir(), "journal")
}
