// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads seamctl's YAML configuration, creating a default
// file on first run. Values resolve in three layers: file, then
// SEAMCTL_* environment variables, then command-line flags (applied by
// the commands themselves).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".seamctl"
	configFileName = "seamctl.yaml"

	// EnvConfigPath overrides the config file location entirely.
	EnvConfigPath = "SEAMCTL_CONFIG"
)

var (
	mu      sync.RWMutex
	current SeamctlConfig
	loaded  bool

	once sync.Once
)

// Load reads the config file, creating it with defaults when missing.
// Safe to call more than once; only the first call does work.
func Load() error {
	var err error
	once.Do(func() {
		err = loadInternal()
	})
	return err
}

// Get returns the active configuration. Callers that care about live
// reloads should re-call Get rather than hold the struct.
func Get() SeamctlConfig {
	mu.RLock()
	defer mu.RUnlock()
	if !loaded {
		return DefaultConfig()
	}
	return current
}

// Reload re-reads the config file in place. Used by the file watcher;
// unlike Load it never creates the file.
func Reload() error {
	path, err := Path()
	if err != nil {
		return err
	}
	cfg, err := readFile(path)
	if err != nil {
		return err
	}
	set(cfg)
	return nil
}

// Path returns the resolved config file location.
func Path() (string, error) {
	if override := os.Getenv(EnvConfigPath); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// ExpandPath resolves a leading ~/ against the user's home directory.
// Paths without the prefix pass through unchanged.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func loadInternal() error {
	path, err := Path()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if createErr := createDefault(path); createErr != nil {
			return fmt.Errorf("creating default config: %w", createErr)
		}
	}

	cfg, err := readFile(path)
	if err != nil {
		return err
	}
	set(cfg)
	return nil
}

func readFile(path string) (SeamctlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeamctlConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SeamctlConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnv layers SEAMCTL_* variables over file values.
func applyEnv(cfg *SeamctlConfig) {
	if v := os.Getenv("SEAMCTL_API_ROOT"); v != "" {
		cfg.Service.APIRoot = v
	}
	if v := os.Getenv("SEAMCTL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SEAMCTL_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("SEAMCTL_STORE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
}

func set(cfg SeamctlConfig) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg
	loaded = true
}

// resetForTest clears the singleton so tests can exercise Load again.
func resetForTest() {
	mu.Lock()
	defer mu.Unlock()
	current = SeamctlConfig{}
	loaded = false
	once = sync.Once{}
}
