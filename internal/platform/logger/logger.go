// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the process-wide structured logger.
//
// Records are JSON lines on stdout. When a log file is configured, the same
// records are also written to a size-rotated file.
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// Options controls level and file sink of the logger.
type Options struct {
	Debug bool

	// File enables the rotated file sink when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

/*
New creates a JSON logger tagged with the application name.

Parameters:
  - opts: Options

Returns:
  - *slog.Logger: The configured logger
  - io.Closer: Closes the file sink, a no-op when there is none
*/
func New(opts Options) (*slog.Logger, io.Closer) {
	var writer io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		writer = io.MultiWriter(os.Stdout, rotated)
		closer = rotated
	}

	return NewWithWriter(writer, opts.Debug), closer
}

// NewWithWriter creates the logger on an arbitrary writer.
func NewWithWriter(writer io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
