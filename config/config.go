// Package config loads the client configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Config holds the client configuration.
type Config struct {
	// Server connection
	URL      string `validate:"required,url"`
	Database string `validate:"required"`
	Username string
	Password string
	Timeout  time.Duration `validate:"gt=0"`

	// Reconciliation logs what it merged from the server.
	Verbose bool

	// Graph type declarations, watched for changes when set.
	SchemaFile string

	// Transport features
	EnableMetrics        bool
	EnableCircuitBreaker bool

	// Logging
	LogLevel    string `validate:"oneof=debug info warn error"`
	Environment string `validate:"oneof=development production test"`
}

// Load loads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		URL:         getEnv("ARANGO_URL", "http://localhost:8529"),
		Database:    getEnv("ARANGO_DATABASE", "_system"),
		Username:    getEnv("ARANGO_USERNAME", "root"),
		Password:    getEnv("ARANGO_PASSWORD", ""),
		Timeout:     time.Duration(getEnvInt("ARANGO_TIMEOUT", 60)) * time.Second,
		Verbose:     getEnvBool("ARANGO_VERBOSE", false),
		SchemaFile:  getEnv("ARANGO_SCHEMA_FILE", ""),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment: getEnv("ENVIRONMENT", "development"),

		EnableMetrics:        getEnvBool("ENABLE_METRICS", false),
		EnableCircuitBreaker: getEnvBool("ENABLE_CIRCUIT_BREAKER", false),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds a logger for the configured environment and level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	var zc zap.Config
	if c.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	switch c.LogLevel {
	case "debug":
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zc.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zc.Build()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
