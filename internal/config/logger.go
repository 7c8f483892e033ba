package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig selects the zap preset and level.
type LoggerConfig struct {
	Level string
	Env   string
}

// NewLogger builds a JSON production logger for "prod" and a console
// development logger otherwise.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Env == "prod" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// Logger returns the LoggerConfig matching c.
func (c *Config) Logger() LoggerConfig {
	return LoggerConfig{Level: c.LogLevel, Env: c.Env}
}
