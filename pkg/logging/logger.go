// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for seamctl.
//
// Console output goes to stderr so stdout stays clean for command
// output, piped JSON, and exported files. File logging is optional
// and writes JSON lines under the user's config directory:
//
//	┌───────────────────────────────────────────┐
//	│                  Logger                   │
//	│  ┌──────────────┐  ┌───────────────────┐  │
//	│  │    stderr    │  │ ~/.seamctl/logs/  │  │
//	│  │  (default)   │  │    (optional)     │  │
//	│  └──────────────┘  └───────────────────┘  │
//	└───────────────────────────────────────────┘
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    LogDir: "~/.seamctl/logs",
//	})
//	defer logger.Close()
//	logger.Install()
//
// Install makes the logger the process-wide slog default. The library
// packages (auth, interview, dashboard, store) log through slog's
// package-level functions, so one Install call at startup routes every
// log line through the configured destinations.
//
// # Log Levels
//
// Four levels, matching slog conventions:
//
//   - Debug: development troubleshooting, request/response detail
//   - Info: normal operations (session started, dashboard loaded)
//   - Warn: recoverable issues (cache write failed, degraded mode)
//   - Error: operation failures (the command continues or exits cleanly)
//
// # Security Considerations
//
// This package does NOT redact sensitive data. The bearer credential
// and interview passwords must never reach a log call:
//
//	// BAD: writes the credential to disk
//	logger.Info("login", "token", token)
//
//	// GOOD: log metadata only
//	logger.Info("login", "token_present", token != "")
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity, ordered Debug < Info < Warn < Error.
//
// Setting a minimum level filters out everything below it.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for recoverable problems.
	LevelWarn

	// LevelError is for failed operations.
	LevelError
)

// ParseLevel converts a config-file or environment string to a Level.
//
// Accepted values (case-insensitive): "debug", "info", "warn",
// "warning", "error". Anything else is an error so a typo in
// seamctl.yaml surfaces instead of silently logging at Info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q (use debug, info, warn, or error)", s)
	}
}

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel bridges Level to the standard library's slog.Level.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures Logger behavior.
//
// Note that LevelDebug is the zero value of Level, so a zero Config
// produces a Debug-level text logger on stderr. Commands always set
// Level explicitly from seamctl.yaml.
type Config struct {
	// Level sets the minimum log level.
	// Messages below this level are discarded.
	Level Level

	// LogDir enables file logging to the specified directory.
	//
	// When set, logs are also written to "{Service}_{YYYY-MM-DD}.log"
	// inside the directory, always in JSON. The directory is created
	// with 0750 permissions if missing. Supports ~ expansion:
	//
	//	"~/.seamctl/logs" -> "/home/user/.seamctl/logs"
	//
	// Default: "" (file logging disabled)
	LogDir string

	// Service identifies the component generating logs and is attached
	// to every entry as the "service" attribute. It also names the log
	// file. Default: "" (no attribute; the file falls back to "seamctl").
	Service string

	// JSON switches console output to JSON lines.
	//
	// File logs are always JSON regardless of this setting.
	// Default: false (human-readable text on the console)
	JSON bool

	// Quiet disables console output. Logs still reach the file when
	// LogDir is set. Used by the machine personality so log lines
	// never interleave with parseable stdout.
	Quiet bool

	// Console overrides the console destination.
	//
	// Defaults to os.Stderr. Tests point this at a buffer.
	Console io.Writer
}

// =============================================================================
// Logger
// =============================================================================

// Logger provides structured logging with console and file output.
//
// # Description
//
// Logger wraps slog.Logger with multi-destination fanout and cleanup.
// Call Close when done so the log file is synced and closed, and call
// Install once at startup to make it the slog default for the whole
// process.
//
// # Thread Safety
//
// Safe for concurrent use. The underlying slog.Logger is thread-safe
// and mutable state is protected by a mutex.
type Logger struct {
	// slog is the underlying structured logger
	slog *slog.Logger

	// config stores the configuration for reference
	config Config

	// file is the log file handle (nil when file logging is disabled)
	file *os.File

	// mu protects file during Close
	mu sync.Mutex
}

// New creates a Logger with the given configuration.
//
// Destinations are assembled from config: a console handler (unless
// Quiet), and a JSON file handler when LogDir is set. Failure to
// create the log directory or file silently disables file logging
// rather than failing the command; the console handler remains.
//
// The returned Logger should be closed with Close to flush the file.
func New(config Config) *Logger {
	var handlers []slog.Handler

	opts := &slog.HandlerOptions{
		Level: config.Level.toSlogLevel(),
	}

	console := config.Console
	if console == nil {
		console = os.Stderr
	}

	if !config.Quiet {
		var consoleHandler slog.Handler
		if config.JSON {
			consoleHandler = slog.NewJSONHandler(console, opts)
		} else {
			consoleHandler = slog.NewTextHandler(console, opts)
		}
		handlers = append(handlers, consoleHandler)
	}

	logger := &Logger{config: config}

	if config.LogDir != "" {
		logDir := expandPath(config.LogDir)
		if err := os.MkdirAll(logDir, 0750); err == nil {
			serviceName := config.Service
			if serviceName == "" {
				serviceName = "seamctl"
			}
			filename := fmt.Sprintf("%s_%s.log", serviceName, time.Now().Format("2006-01-02"))
			logPath := filepath.Join(logDir, filename)

			file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
			if err == nil {
				logger.file = file
				// File logs are always JSON (machine-parseable).
				handlers = append(handlers, slog.NewJSONHandler(file, opts))
			}
		}
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		// Quiet with no file would swallow everything; keep a console
		// handler so errors are never silently lost.
		handler = slog.NewTextHandler(console, opts)
	case 1:
		handler = handlers[0]
	default:
		handler = &multiHandler{handlers: handlers}
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String("service", config.Service),
		})
	}

	logger.slog = slog.New(handler)
	return logger
}

// Default returns a logger with default settings: Info level, stderr
// only, text format, service "seamctl".
func Default() *Logger {
	return New(Config{
		Level:   LevelInfo,
		Service: "seamctl",
	})
}

// Install makes this logger the process-wide slog default.
//
// The library packages log through slog's package-level functions, so
// a command calls Install once after loading config and every later
// log line flows through the configured destinations.
func (l *Logger) Install() {
	slog.SetDefault(l.slog)
}

// Debug logs a message at Debug level.
//
//	logger.Debug("request prepared", "method", "POST", "path", path)
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs a message at Info level.
//
//	logger.Info("interview started", "session_id", id)
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a message at Warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs a message at Error level.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With returns a new Logger carrying additional attributes.
//
// The child shares the parent's file handle; only the parent's Close
// should close it.
//
//	reqLogger := logger.With("request_id", reqID)
//	reqLogger.Info("processing")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
		file:   l.file,
	}
}

// Slog returns the underlying slog.Logger for APIs that take one
// directly (the local store's Badger adapter does).
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close syncs and closes the log file, if any.
//
// Safe to call on a logger without file logging; it is then a no-op.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	var errs []error
	if err := l.file.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("sync log file: %w", err))
	}
	if err := l.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	l.file = nil

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// =============================================================================
// Multi-Handler (Internal)
// =============================================================================

// multiHandler fans out log records to multiple slog handlers,
// enabling simultaneous console text and file JSON output.
type multiHandler struct {
	handlers []slog.Handler
}

// Enabled returns true if any handler is enabled for the level.
func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle sends the record to all enabled handlers.
func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WithAttrs returns a new handler with additional attributes.
func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

// WithGroup returns a new handler with a group name.
func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// =============================================================================
// Helper Functions
// =============================================================================

// expandPath expands a leading ~ to the user's home directory.
//
//	"~/.seamctl/logs" -> "/home/user/.seamctl/logs"
//	"/var/log"        -> "/var/log" (unchanged)
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
