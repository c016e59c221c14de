// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the service. LLM keys are optional;
// with neither key set, report generation runs on the built-in fallback.
type Config struct {
	Addr   string `env:"AIPULSE_ADDR" envDefault:":8080"`
	DBPath string `env:"AIPULSE_DB_PATH" envDefault:"aipulse.db"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"AIPULSE_OPENAI_MODEL"`

	AnthropicKey   string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel string `env:"AIPULSE_ANTHROPIC_MODEL"`

	LLMTimeout time.Duration `env:"AIPULSE_LLM_TIMEOUT" envDefault:"60s"`

	CORSOrigins []string `env:"AIPULSE_CORS_ORIGINS" envSeparator:","`

	// Admin credentials must come from the environment. The admin API stays
	// disabled when either one is missing.
	AdminUsername string `env:"AIPULSE_ADMIN_USERNAME"`
	AdminPassword string `env:"AIPULSE_ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	if c.LLMTimeout <= 0 {
		return errors.New("llm timeout must be positive")
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return errors.New("admin username and password must be set together")
	}
	return nil
}

// AdminEnabled reports whether the admin API has credentials configured.
func (c Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}
