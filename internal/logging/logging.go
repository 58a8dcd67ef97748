// Package logging builds the structured logger used across logbook.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level
// ("debug", "info", "warn", "error").
func New(level string, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "logbook",
	}), nil
}

// Install builds a logger and makes it the package default, so services
// logging through log.Info and friends use it.
func Install(level string, w io.Writer) (*log.Logger, error) {
	logger, err := New(level, w)
	if err != nil {
		return nil, err
	}
	log.SetDefault(logger)
	return logger, nil
}
