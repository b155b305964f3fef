// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/SeamWorks/seamctl/cmd/seamctl/config"
	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/auth"
	"github.com/SeamWorks/seamctl/pkg/logging"
	"github.com/SeamWorks/seamctl/pkg/store"
	"github.com/SeamWorks/seamctl/pkg/ux"
)

// appLogger is installed once per process by setupApp and closed from
// main so the log file flushes on exit.
var appLogger *logging.Logger

// setupApp loads config, installs logging, and resolves the output
// personality. Runs once from the root command's PersistentPreRun.
func setupApp() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Get()

	applyPersonality(cfg)

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	appLogger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "seamctl",
		JSON:    cfg.Logging.JSON,
		Quiet:   ux.GetPersonality().Level == ux.PersonalityMachine,
	})
	appLogger.Install()
	return nil
}

// applyPersonality resolves the output personality. Precedence:
// --personality flag, SEAMCTL_PERSONALITY, config file, terminal
// detection.
func applyPersonality(cfg config.SeamctlConfig) {
	ux.InitPersonality()

	if flagPersonality != "" {
		ux.SetPersonalityLevel(ux.ParsePersonalityLevel(flagPersonality))
	} else if envPersonalitySet() {
		// InitPersonality already honored the variable.
	} else if cfg.UX.Personality != "" {
		ux.SetPersonalityLevel(ux.ParsePersonalityLevel(cfg.UX.Personality))
	}

	p := ux.GetPersonality()
	p.Bilingual = cfg.UX.Bilingual
	p.ShowHints = cfg.UX.ShowHints
	ux.SetPersonality(p)
}

func envPersonalitySet() bool {
	return os.Getenv("SEAMCTL_PERSONALITY") != ""
}

// appContext bundles the wired service clients a command needs. Build
// one per command invocation and close it before returning.
type appContext struct {
	cfg     config.SeamctlConfig
	apiRoot string
	db      *store.Store
	creds   *auth.CredentialStore
	gw      *api.Gateway
	auth    *auth.Manager
}

// newAppContext opens the local store and builds the gateway stack
// from the active configuration.
//
// A store that cannot be opened (usually a lock held by another
// seamctl) degrades to in-memory: the command still works, it just
// cannot see or keep saved credentials, transcripts, or snapshots.
func newAppContext() (*appContext, error) {
	cfg := config.Get()

	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	ttl := auth.DefaultCredentialTTL
	if d, ok := cfg.Service.CredentialLifetime(); ok {
		ttl = d
	}
	creds := auth.NewCredentialStore(db, ttl)

	gwCfg := api.GatewayConfig{
		BaseURL: cfg.Service.APIRoot,
		Tokens:  creds,
	}
	if flagAPIRoot != "" {
		gwCfg.BaseURL = flagAPIRoot
	}
	if d, ok := cfg.Service.RequestTimeout(); ok {
		gwCfg.Timeout = d
	}
	if gwCfg.BaseURL == "" {
		gwCfg.BaseURL = api.DefaultBaseURL
	}
	gw := api.NewGateway(gwCfg)

	return &appContext{
		cfg:     cfg,
		apiRoot: gwCfg.BaseURL,
		db:      db,
		creds:   creds,
		gw:      gw,
		auth:    auth.NewManager(gw, creds),
	}, nil
}

func openStore(cfg config.SeamctlConfig) (*store.Store, error) {
	dir := config.ExpandPath(cfg.Store.Dir)
	if dir == "" {
		return store.OpenInMemory()
	}

	db, err := store.OpenAt(dir)
	if err == nil {
		return db, nil
	}

	slog.Warn("local store unavailable, continuing in memory",
		"dir", dir,
		"error", err.Error())
	ux.Warning("Local store unavailable (is another seamctl running?). Saved data is out of reach for this command.")
	return store.OpenInMemory()
}

// close releases the store. Log flushing happens in main via appLogger.
func (a *appContext) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("closing local store", "error", err.Error())
		}
	}
}
