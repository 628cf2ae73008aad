package logger

import (
	. "github.com/go-ozzo/ozzo-validation"
	"io"
	"log/slog"
	"strings"
)

type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Service, when set, is attached to every record as "service".
	Service string
	// Output defaults to stdout.
	Output io.Writer
}

func (c *Config) Validate() error {
	return ValidateStruct(c,
		Field(&c.Level, Required, In("debug", "info", "warn", "error")),
		Field(&c.Format, Required, In("json", "text")),
	)
}

func (c *Config) GetSlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
