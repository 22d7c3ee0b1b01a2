// Package logging configures zerolog and exposes it through log/slog so the
// rest of the service can keep using the standard slog call sites.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	Output io.Writer
}

// New builds a zerolog logger from cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Setup builds the logger and installs it as the slog default.
func Setup(cfg Config) *slog.Logger {
	l := slog.New(NewSlogHandler(New(cfg)))
	slog.SetDefault(l)
	return l
}
