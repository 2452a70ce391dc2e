// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the diagnostic logger. Logs go to stderr so they
// never mix with the rendered table on stdout.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLevel keeps a normal run silent apart from the table itself.
const DefaultLevel = logrus.WarnLevel

// Options configures New.
type Options struct {
	// Level is a logrus level name; unknown names fall back to DefaultLevel
	Level string
	// Format is "text" or "json"
	Format string
	// Verbose forces debug level
	Verbose bool
	// Color enables colored level names in text format
	Color bool
}

// New creates a logger writing to w (stderr when nil).
func New(w io.Writer, opts Options) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(w)

	switch opts.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: !opts.Color,
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = DefaultLevel
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
