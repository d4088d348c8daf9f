// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

// Package logger builds the process logger from configuration.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/luxcraft/beamcast/internal/config"
)

// New builds a logrus logger per the [log] config section. Output goes to
// stderr so port lists and frame dumps on stdout stay parseable.
func New(cfg config.Log) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat:  "2006-01-02 15:04:05.000",
			FullTimestamp:    true,
			QuoteEmptyFields: true,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: want text or json", cfg.Format)
	}

	return log, nil
}

// Discard returns a logger that drops everything. Handy for tests and for
// commands that print to the terminal themselves.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
