// SPDX-License-Identifier: MPL-2.0

// Package logging configures the process-wide slog logger. Records are
// rendered by charmbracelet/log so that warnings from discovery and progress
// from the workflow share the CLI's terminal styling.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every log line.
const Prefix = "kernel-janitor"

// New returns a slog.Logger writing to w. Verbose lowers the level from info
// to debug and adds timestamps.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		ReportTimestamp: verbose,
	})
	return slog.New(handler)
}

// Setup installs New(w, verbose) as the slog default and returns it.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	logger := New(w, verbose)
	slog.SetDefault(logger)
	return logger
}
