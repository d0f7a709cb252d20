// Package logging configures the global zerolog logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level string `mapstructure:"level"`
	// File receives an uncoloured copy of the console output when set.
	File string `mapstructure:"file"`
	// Graylog is the host:port of a GELF UDP input.
	Graylog string `mapstructure:"graylog"`
}

// ParseLevel reads TRACE, DEBUG, INFO, WARN or ERROR in any case.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO", "":
		return zerolog.InfoLevel, nil
	case "WARN":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
}

// Setup points the global logger at stderr and the optional sinks of cfg. The
// returned function closes those sinks.
func Setup(cfg Config) (func() error, error) {
	return setup(cfg, os.Stderr)
}

func setup(cfg Config, console io.Writer) (func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339},
	}
	var closers []io.Closer
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closers = append(closers, f)
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}
	if cfg.Graylog != "" {
		g, err := gelf.NewWriter(cfg.Graylog)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to connect to graylog: %w", err)
		}
		closers = append(closers, g)
		writers = append(writers, g)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Debug().Str("level", level.String()).Msg("logging set up")
	return closeAll, nil
}
