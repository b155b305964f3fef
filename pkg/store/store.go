// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store provides local embedded persistence for seamctl.
//
// BadgerDB backs a small key-value store under the user's config
// directory (~/.seamctl/store by default). It holds:
//
//   - The bearer credential, written with a TTL so a stale login
//     simply disappears instead of producing confusing 401s.
//   - Archived interview transcripts, so a completed interview can be
//     reviewed offline with `seamctl interview log`.
//   - The last dashboard snapshot, shown (marked as cached) when the
//     service is unreachable.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// Config holds configuration for the local store.
type Config struct {
	// Dir is the directory for store files.
	// Required unless InMemory is true.
	Dir string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. If nil, that
	// output is discarded so it cannot interleave with CLI output.
	Logger *slog.Logger
}

// DefaultConfig returns the production configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:        dir,
		SyncWrites: true,
	}
}

// InMemoryConfig returns configuration for testing. Data is lost on
// Close.
func InMemoryConfig() Config {
	return Config{
		InMemory:   true,
		SyncWrites: false,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is the local persistence layer.
//
// # Description
//
//	Wraps a BadgerDB instance with typed accessors for the records
//	seamctl keeps between invocations: the bearer credential,
//	archived transcripts, and the cached dashboard snapshot.
//
// # Example
//
//	st, err := store.Open(store.DefaultConfig(dir))
//	if err != nil { ... }
//	defer st.Close()
//
// # Thread Safety
//
//	Safe for concurrent use. BadgerDB transactions provide isolation;
//	each accessor is a single transaction.
type Store struct {
	db       *badger.DB
	inMemory bool
}

// Open creates and opens a store with the given configuration.
//
// Description:
//
//	Opens the BadgerDB database at the configured directory, or in
//	memory if InMemory is true. Creates the directory if it doesn't
//	exist.
//
// Inputs:
//
//	cfg - Store configuration. Dir is required unless InMemory is true.
//
// Outputs:
//
//	*Store - The opened store. Caller must call Close() when done.
//	error - Non-nil if the directory is invalid or the database
//	cannot be opened (including when another seamctl process holds
//	the lock).
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, errors.New("dir is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0700); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	return &Store{db: db, inMemory: cfg.InMemory}, nil
}

// OpenAt opens a persistent store with production defaults at dir.
func OpenAt(dir string) (*Store, error) {
	return Open(DefaultConfig(dir))
}

// OpenInMemory opens an in-memory store for testing.
func OpenInMemory() (*Store, error) {
	return Open(InMemoryConfig())
}

// Close runs one opportunistic value log GC pass and closes the
// database. Safe to call once per Open.
func (s *Store) Close() error {
	if !s.inMemory {
		// ErrNoRewrite means no garbage to collect, not a failure.
		if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
			slog.Debug("store value log GC", slog.String("error", err.Error()))
		}
	}
	return s.db.Close()
}

// InMemory returns true if this store has no disk persistence.
func (s *Store) InMemory() bool {
	return s.inMemory
}

// =============================================================================
// Test Helpers
// =============================================================================

// TempDir creates a temporary directory for testing persistent stores.
func TempDir(prefix string) (string, error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	return dir, nil
}

// CleanupDir removes a store directory and all its contents.
// Safe to call with empty string (no-op).
func CleanupDir(path string) error {
	if path == "" {
		return nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	return os.RemoveAll(absPath)
}
