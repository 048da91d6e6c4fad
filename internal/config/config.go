// Package config defines the process configuration for the wavefront
// daemon. Configuration is loaded once at startup and immutable
// thereafter, following 12-Factor principles: values come from the OS
// environment, with a .env file as a local-development fallback. A missing
// required value or invalid format fails startup immediately.
package config

import (
	"fmt"
	"time"
)

// Config is the top-level configuration struct. It is populated once
// during process initialization and never modified. Sub-components receive
// only the specific subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"waved"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server  ServerConfig
	Store   StoreConfig
	Engine  EngineConfig
	Observe ObserveConfig

	// Build metadata is linker-injected, not environment-driven.
	Build BuildInfo `ignored:"true"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host          string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port          int           `envconfig:"HTTP_PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout   time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout  time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownGrace time.Duration `envconfig:"HTTP_SHUTDOWN_GRACE" default:"15s"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects and configures the event/region backend.
type StoreConfig struct {
	// Backend is "catalog" (YAML file) or "postgres".
	Backend     string `envconfig:"STORE_BACKEND" default:"catalog" validate:"oneof=catalog postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	CatalogPath string `envconfig:"CATALOG_PATH" default:"catalog.yaml"`
}

// EngineConfig tunes the wavefront geometry engine.
type EngineConfig struct {
	BandTolerance float64       `envconfig:"WAVE_BAND_TOLERANCE" default:"0.01" validate:"gt=0,lt=1"`
	MinBandHeight float64       `envconfig:"WAVE_MIN_BAND_HEIGHT" default:"0.05" validate:"gt=0"`
	MaxBandHeight float64       `envconfig:"WAVE_MAX_BAND_HEIGHT" default:"5" validate:"gt=0"`
	SoonWindow    time.Duration `envconfig:"WAVE_SOON_WINDOW" default:"1h"`
}

// ObserveConfig tunes the observation scheduler cadence.
type ObserveConfig struct {
	DistantInterval     time.Duration `envconfig:"OBSERVE_DISTANT_INTERVAL" default:"30m"`
	ApproachingInterval time.Duration `envconfig:"OBSERVE_APPROACHING_INTERVAL" default:"5m"`
	NearInterval        time.Duration `envconfig:"OBSERVE_NEAR_INTERVAL" default:"1m"`
	ActiveInterval      time.Duration `envconfig:"OBSERVE_ACTIVE_INTERVAL" default:"5s"`
	CriticalInterval    time.Duration `envconfig:"OBSERVE_CRITICAL_INTERVAL" default:"1s"`
}

// BuildInfo holds compile-time build metadata.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration failures.
type ConfigErrorType string

const (
	ErrParsing    ConfigErrorType = "parsing"
	ErrValidation ConfigErrorType = "validation"
)
