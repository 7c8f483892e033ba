// Package config loads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Database drivers accepted in DATABASE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Env             string        `mapstructure:"APP_ENV" validate:"required,oneof=dev prod test"`
	Port            string        `mapstructure:"APP_PORT" validate:"required"`
	BasePath        string        `mapstructure:"API_BASE_PATH" validate:"required,startswith=/"`
	LogLevel        string        `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	DatabaseDriver  string        `mapstructure:"DATABASE_DRIVER" validate:"required,oneof=postgres sqlite memory"`
	DatabaseURL     string        `mapstructure:"DB_URL" validate:"required_unless=DatabaseDriver memory"`
	FrontendURL     string        `mapstructure:"FRONTEND_URL" validate:"omitempty,url"`
	RabbitMQURL     string        `mapstructure:"RABBITMQ_URL" validate:"omitempty,url"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// SetDefaults registers every key with its default so AutomaticEnv can
// override it during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("API_BASE_PATH", "/api/products")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DB_URL", "")
	v.SetDefault("FRONTEND_URL", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
}

// Load reads configuration from environment variables and, when CONFIG_FILE is
// set, from that file. Environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(cfg.DatabaseDriver)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validator.New().Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s failed on '%s'", e.Field(), e.Tag()))
			}
			return nil, fmt.Errorf("invalid config: %s", strings.Join(fields, "; "))
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
