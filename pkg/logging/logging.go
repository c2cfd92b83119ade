package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// Name is the name of the application that the logger is for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the name of the application.
	name string

	// w is the writer that the logger will write to.
	w io.Writer
}

// NewConfig creates a new logging configuration.
func NewConfig(name Name) *Config {
	return &Config{
		name: string(name),
		w:    os.Stdout,
	}
}

// CommonLogger creates the common logger for the application. The logger is
// also set as the slog default so that packages without an injected logger
// still log in the same format.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, errors.New("no logging config provided")
	}

	h := slog.NewJSONHandler(c.w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	l := slog.New(h).With(slog.String(KeyAppName, c.name))
	slog.SetDefault(l)
	return l, nil
}
