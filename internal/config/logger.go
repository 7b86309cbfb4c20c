package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the root logger. Every line carries the service name,
// version and environment.
func NewLogger(cfg LoggerConfig, app AppConfig) zerolog.Logger {
	return newLogger(os.Stdout, cfg, app)
}

func newLogger(out io.Writer, cfg LoggerConfig, app AppConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", app.Name).
		Str("version", app.Version).
		Str("environment", app.Environment).
		Logger()
}
