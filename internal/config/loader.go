package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError wraps configuration loading failures with a category so
// callers can distinguish a malformed environment from a structurally
// invalid one.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadConfig reads configuration from the environment, applying a .env
// file first when present (local development only; a missing .env is not
// an error). Validation failures are fatal: a process with a bad
// configuration should never start.
func LoadConfig() (*Config, error) {
	// All timing math in the engine assumes UTC.
	time.Local = time.UTC

	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "processing environment variables",
			Err:     err,
		}
	}

	cfg.Build = NewBuildInfo()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "validating configuration",
			Err:     err,
		}
	}

	if cfg.Store.Backend == "postgres" && cfg.Store.DatabaseURL == "" {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "DATABASE_URL is required when STORE_BACKEND=postgres",
		}
	}

	if cfg.Engine.MinBandHeight > cfg.Engine.MaxBandHeight {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "WAVE_MIN_BAND_HEIGHT must not exceed WAVE_MAX_BAND_HEIGHT",
		}
	}

	return &cfg, nil
}
