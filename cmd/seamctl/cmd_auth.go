// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/auth"
	"github.com/SeamWorks/seamctl/pkg/ux"
)

// maxLoginAttempts bounds interactive password retries.
const maxLoginAttempts = 3

func runLoginCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	ctx, cancel := signalContext()
	defer cancel()

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	attempts := 1
	if interactive {
		attempts = maxLoginAttempts
	}

	for attempt := 1; ; attempt++ {
		password, err := readPassword(interactive)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ux.Info("Login cancelled.")
				return nil
			}
			return err
		}

		err = app.auth.Login(ctx, password)
		if err == nil {
			break
		}

		var authErr *api.AuthError
		if errors.As(err, &authErr) && attempt < attempts {
			ux.Warning("That password was not accepted. Try again.")
			continue
		}
		return err
	}

	ttl := auth.DefaultCredentialTTL
	if d, ok := app.cfg.Service.CredentialLifetime(); ok {
		ttl = d
	}
	slog.Info("login succeeded", "credential_ttl", ttl.String())
	ux.Success("Logged in. Dashboard commands are unlocked for " + lifetimeLabel(ttl) + ".")
	return nil
}

// readPassword prompts on a terminal, otherwise takes one line from
// stdin so `echo $PW | seamctl login` works in scripts.
func readPassword(interactive bool) ([]byte, error) {
	if !interactive {
		line, err := NewStdinReader().ReadLine()
		if err != nil {
			return nil, errors.New("no password on stdin")
		}
		return []byte(strings.TrimSpace(line)), nil
	}

	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Facilitator password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	return []byte(password), nil
}

// lifetimeLabel renders a duration without trailing zero units, so the
// default shows as "8h" rather than "8h0m0s". Sub-minute precision is
// not worth showing for a credential lifetime.
func lifetimeLabel(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

func runLogoutCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	if !app.auth.IsAuthenticated() {
		ux.Info("No stored login.")
		return nil
	}

	app.auth.Logout()
	slog.Info("credential discarded")
	ux.Success("Logged out.")
	return nil
}

func runWhoamiCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	if app.auth.IsAuthenticated() {
		ux.KeyValue("Authenticated", "yes")
	} else {
		ux.KeyValue("Authenticated", "no")
	}
	ux.KeyValue("Service", app.apiRoot)

	if !app.auth.IsAuthenticated() {
		ux.Muted("Run 'seamctl login' to unlock dashboard commands.")
	}
	return nil
}
