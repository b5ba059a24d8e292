package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// settings holds the environment-sourced defaults for the CLI flags.
type settings struct {
	BufferSize int    `envconfig:"BUFFER_SIZE" default:"8192"`
	Timeout    int    `envconfig:"TIMEOUT" default:"0"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"error"`
}

// loadSettings reads defaults from XPIPE_* environment variables. Flags
// override whatever is loaded here.
func loadSettings() (settings, error) {
	var s settings
	if err := envconfig.Process("xpipe", &s); err != nil {
		return s, fmt.Errorf("load environment: %w", err)
	}
	return s, nil
}

// newLogger builds a console logger on stderr, keeping the data path (the
// child's inherited stdout) clean.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	return cfg.Build()
}
