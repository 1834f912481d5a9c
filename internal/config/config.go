// Package config loads runtime settings.
//
// Settings are layered in this order, later layers winning:
//  1. Built-in defaults (Santa Cruz, CA).
//  2. An optional YAML file.
//  3. A .env file in the working directory, if present.
//  4. COASTAL_* environment variables (e.g. COASTAL_LOCATION_TIDE_STATION).
//
// The result is validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "COASTAL"

// Config is the full application configuration
type Config struct {
	LogLevel  string          `yaml:"log_level" split_words:"true" validate:"oneof=debug info warn error"`
	Persona   string          `yaml:"persona" split_words:"true" validate:"required"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"database"`
	Location  LocationConfig  `yaml:"location" envconfig:"location"`
	Server    ServerConfig    `yaml:"server" envconfig:"server"`
	Providers ProviderConfig  `yaml:"providers" envconfig:"providers"`
	Reference ReferenceConfig `yaml:"reference" envconfig:"reference"`
}

// DatabaseConfig locates the SQLite file. An empty path uses the per-user default.
type DatabaseConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// LocationConfig is the default place to plan for
type LocationConfig struct {
	Name        string  `yaml:"name" split_words:"true"`
	Latitude    float64 `yaml:"latitude" split_words:"true" validate:"gte=-90,lte=90"`
	Longitude   float64 `yaml:"longitude" split_words:"true" validate:"gte=-180,lte=180"`
	TideStation string  `yaml:"tide_station" split_words:"true"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr" split_words:"true" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
}

// ProviderConfig configures outbound calls to weather, tide and geocoding services
type ProviderConfig struct {
	UserAgent       string        `yaml:"user_agent" split_words:"true" validate:"required"`
	Timeout         time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
	BreakerFailures uint32        `yaml:"breaker_failures" split_words:"true" validate:"gte=1"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown" split_words:"true" validate:"gt=0"`
}

// ReferenceConfig optionally replaces the bundled month/persona tables
type ReferenceConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		LogLevel: "info",
		Persona:  "beach-lover",
		Location: LocationConfig{
			Name:        "Santa Cruz, CA",
			Latitude:    36.9741,
			Longitude:   -122.0308,
			TideStation: "9413745",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Providers: ProviderConfig{
			UserAgent:       "CoastalActivities/1.0 (github.com/ngmaloney/coastal-activities)",
			Timeout:         30 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
	}
}

// ConfigErrorType categorizes configuration loading failures
type ConfigErrorType string

const (
	ErrFile       ConfigErrorType = "FILE_FAILURE"
	ErrParsing    ConfigErrorType = "PARSING_FAILED"
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
)

// ConfigError is returned by Load and wraps the underlying cause
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used. A missing file at an explicit path
// is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Type: ErrFile, Message: "failed to read config file " + path, Err: err}
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &ConfigError{Type: ErrParsing, Message: "failed to parse config file " + path, Err: err}
		}
	}

	// godotenv does not override variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &ConfigError{Type: ErrParsing, Message: "failed to load .env", Err: err}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, &ConfigError{Type: ErrParsing, Message: "failed to process environment configuration", Err: err}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{Type: ErrValidation, Message: "configuration validation failed", Err: err}
	}

	return &cfg, nil
}
