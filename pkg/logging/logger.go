// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging configures structured logging for photopath
// components.
//
// The package is a thin layer over the standard library slog package:
//
//   - CLI commands log human-readable text to stderr (Unix convention:
//     stdout stays clean for command output).
//   - The server logs JSON to stdout for collection by the container
//     runtime, optionally teeing to a date-stamped file.
//
// # Basic Usage
//
// Server startup:
//
//	logger, closeFn, err := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    Service: "linker",
//	    JSON:    true,
//	})
//	defer closeFn()
//	slog.SetDefault(logger)
//
// CLI:
//
//	slog.SetDefault(logging.Default())
//
// # Security Considerations
//
// This package does NOT automatically redact sensitive data. Callers
// must ensure tokens and secrets are not logged:
//
//	// BAD: logs the key
//	slog.Info("auth", "api_key", key)
//
//	// GOOD: log metadata only
//	slog.Info("auth", "api_key_present", key != "")
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// toSlogLevel maps Level onto the slog scale.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel interprets a level name ("debug", "info", "warn",
// "error"), defaulting to Info for anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config controls logger construction.
type Config struct {
	// Level is the minimum severity emitted. Default: LevelInfo.
	Level Level

	// Service names the component, used in the log file name.
	// Default: "photopath".
	Service string

	// JSON selects JSON output (for the server) over text (for CLI).
	JSON bool

	// LogDir, when set, tees output into {LogDir}/{service}_{date}.log
	// in addition to the terminal stream. The directory is created if
	// missing. "~" expands to the user's home directory.
	LogDir string
}

// =============================================================================
// Constructors
// =============================================================================

// New builds a slog.Logger per config.
//
// # Outputs
//
//   - *slog.Logger: ready to install via slog.SetDefault.
//   - func(): closes the log file if one was opened; always non-nil.
//   - error: log directory or file creation failure.
func New(config Config) (*slog.Logger, func(), error) {
	if config.Service == "" {
		config.Service = "photopath"
	}

	var stream io.Writer = os.Stderr
	if config.JSON {
		stream = os.Stdout
	}

	closeFn := func() {}
	if config.LogDir != "" {
		dir := expandPath(config.LogDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		name := fmt.Sprintf("%s_%s.log", config.Service, time.Now().Format("2006-01-02"))
		file, err := os.OpenFile(filepath.Join(dir, name),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		stream = io.MultiWriter(stream, file)
		closeFn = func() { _ = file.Close() }
	}

	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(stream, opts)
	} else {
		handler = slog.NewTextHandler(stream, opts)
	}

	return slog.New(handler), closeFn, nil
}

// Default returns a text logger on stderr at the level named by the
// LOG_LEVEL environment variable (Info when unset). Suitable for CLI
// commands.
func Default() *slog.Logger {
	logger, _, _ := New(Config{Level: ParseLevel(os.Getenv("LOG_LEVEL"))})
	return logger
}

// expandPath resolves a leading "~" to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
