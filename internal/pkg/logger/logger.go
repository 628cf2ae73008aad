package logger

import (
	"fmt"
	"github.com/lmittmann/tint"
	"io"
	"log/slog"
	"os"
)

type Logger struct {
	*slog.Logger
}

func New(cfg *Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l := slog.New(createHandler(cfg))
	if cfg.Service != "" {
		l = l.With("service", cfg.Service)
	}
	return &Logger{l}, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func createHandler(cfg *Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	switch cfg.Format {
	case "text":
		return tint.NewHandler(out, &tint.Options{
			Level:      cfg.GetSlogLevel(),
			AddSource:  cfg.AddSource,
			TimeFormat: "15:04:05",
		})
	default:
		return slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     cfg.GetSlogLevel(),
			AddSource: cfg.AddSource,
		})
	}
}

func (l *Logger) Component(name string) *Logger {
	return &Logger{l.Logger.With("component", name)}
}

// With returns a child logger carrying args on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}
