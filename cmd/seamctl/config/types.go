// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"time"
)

// CurrentConfigVersion is written into freshly created config files.
const CurrentConfigVersion = "1"

// SeamctlConfig is the root of ~/.seamctl/seamctl.yaml.
type SeamctlConfig struct {
	// Meta: file bookkeeping
	Meta MetaConfig `yaml:"meta"`

	// Service: how to reach the interview service
	Service ServiceConfig `yaml:"service"`

	// Logging: destinations and verbosity
	Logging LoggingConfig `yaml:"logging"`

	// Store: local persistence for credentials, transcripts, snapshots
	Store StoreConfig `yaml:"store"`

	// UX: terminal output behavior
	UX UXConfig `yaml:"ux"`
}

type MetaConfig struct {
	Version string `yaml:"version"`
}

type ServiceConfig struct {
	APIRoot        string `yaml:"api_root"`        // e.g. http://localhost:8000/api
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per-request bound
	CredentialTTL  string `yaml:"credential_ttl"`  // e.g. "8h", matches server token lifetime
}

// RequestTimeout returns the configured per-request timeout. The second
// return is false when unset, so callers apply their own default.
func (s ServiceConfig) RequestTimeout() (time.Duration, bool) {
	if s.TimeoutSeconds <= 0 {
		return 0, false
	}
	return time.Duration(s.TimeoutSeconds) * time.Second, true
}

// CredentialLifetime parses the credential TTL. The second return is
// false when unset or unparseable.
func (s ServiceConfig) CredentialLifetime() (time.Duration, bool) {
	if s.CredentialTTL == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s.CredentialTTL)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir"`   // empty disables the log file
	JSON  bool   `yaml:"json"`  // JSON console output
}

type StoreConfig struct {
	Dir string `yaml:"dir"`
}

type UXConfig struct {
	// Personality overrides auto-detection when set: full, standard,
	// minimal, or machine.
	Personality string `yaml:"personality"`
	Bilingual   bool   `yaml:"bilingual"`
	ShowHints   bool   `yaml:"show_hints"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() SeamctlConfig {
	return SeamctlConfig{
		Meta: MetaConfig{Version: CurrentConfigVersion},
		Service: ServiceConfig{
			APIRoot:        "http://localhost:8000/api",
			TimeoutSeconds: 30,
			CredentialTTL:  "8h",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.seamctl/logs",
		},
		Store: StoreConfig{
			Dir: "~/.seamctl/store",
		},
		UX: UXConfig{
			Personality: "",
			Bilingual:   true,
			ShowHints:   true,
		},
	}
}
