// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/SeamWorks/seamctl/cmd/seamctl/config"
	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/datatypes"
	"github.com/SeamWorks/seamctl/pkg/interview"
	"github.com/SeamWorks/seamctl/pkg/store"
	"github.com/SeamWorks/seamctl/pkg/ux"
)

func runInterviewCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	ctx, cancel := signalContext()
	defer cancel()

	req := datatypes.StartInterviewRequest{
		ParticipantCode: flagParticipant,
		Department:      flagDepartment,
		RoleLevel:       flagRole,
		LanguagePref:    flagLang,
	}

	intakeFlagsUsed := cmd.Flags().Changed("department") ||
		cmd.Flags().Changed("role") ||
		cmd.Flags().Changed("lang") ||
		cmd.Flags().Changed("participant")

	if isatty.IsTerminal(os.Stdin.Fd()) && !intakeFlagsUsed {
		if err := runIntakeForm(&req); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ux.Info("Interview cancelled.")
				return nil
			}
			return err
		}
	}

	// Long-running command: pick up config edits (output personality,
	// log level) without restarting the interview.
	if watcher, werr := config.NewWatcher(onConfigReload, onConfigError); werr == nil {
		if serr := watcher.Start(ctx); serr == nil {
			defer watcher.Stop()
		} else {
			slog.Debug("config watcher unavailable", "error", serr.Error())
		}
	}

	machine := interview.NewMachine(app.gw)
	runner := NewInterviewRunner(machine, NewInputReader(), ux.NewInterviewUI(), app.db)
	defer runner.Close()

	if err := runner.Run(ctx, req); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

// runIntakeForm collects the optional intake fields interactively.
func runIntakeForm(req *datatypes.StartInterviewRequest) error {
	role := req.RoleLevel
	if role == "" {
		role = "operational"
	}
	lang := req.LanguagePref
	if lang == "" {
		lang = "auto"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Department").
				Description("Optional. Groups your answers with colleagues from the same area.").
				Value(&req.Department),
			huh.NewSelect[string]().
				Title("Role level").
				Options(
					huh.NewOption("Operational", "operational"),
					huh.NewOption("Managerial", "managerial"),
					huh.NewOption("Executive", "executive"),
				).
				Value(&role),
			huh.NewSelect[string]().
				Title("Interview language").
				Options(
					huh.NewOption("Auto-detect (English / العربية)", "auto"),
					huh.NewOption("English", "en"),
					huh.NewOption("العربية", "ar"),
				).
				Value(&lang),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	req.RoleLevel = role
	req.LanguagePref = lang
	return nil
}

func onConfigReload(cfg config.SeamctlConfig) {
	applyPersonality(cfg)
	slog.Info("configuration reloaded")
}

func onConfigError(err error) {
	slog.Warn("config reload failed", "error", err.Error())
}

func runInterviewStatusCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	ctx, cancel := signalContext()
	defer cancel()

	st, err := interview.FetchStatus(ctx, app.gw, args[0])
	if err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) && reqErr.NotFound() {
			return fmt.Errorf("no session found with id %s", args[0])
		}
		return err
	}

	ux.NewInterviewUI().Status(st)
	return nil
}

func runInterviewLogCommand(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	if len(args) == 0 {
		return listArchivedTranscripts(app.db)
	}
	return showArchivedTranscript(app.db, args[0])
}

func listArchivedTranscripts(db *store.Store) error {
	archives, err := db.Transcripts()
	if err != nil {
		return fmt.Errorf("reading archived transcripts: %w", err)
	}
	if len(archives) == 0 {
		ux.Info("No transcripts archived on this machine.")
		return nil
	}

	// Render through the session table so the listing matches the
	// dashboard's layout.
	records := make([]datatypes.SessionRecord, 0, len(archives))
	for _, arc := range archives {
		rec := datatypes.SessionRecord{
			ID:              arc.SessionID,
			ParticipantCode: arc.ParticipantCode,
			Department:      arc.Department,
			Status:          arc.Status,
			CreatedAt:       datatypes.Timestamp{Time: arc.StartedAt},
			MessageCount:    len(arc.Messages),
			FieldNotesCount: arc.FieldNotesCount,
		}
		if arc.TotalMessages > 0 {
			rec.MessageCount = arc.TotalMessages
		}
		if !arc.EndedAt.IsZero() {
			rec.CompletedAt = &datatypes.Timestamp{Time: arc.EndedAt}
		}
		records = append(records, rec)
	}
	ux.NewDashboardUI().SessionTable(records)
	return nil
}

func showArchivedTranscript(db *store.Store, sessionID string) error {
	arc, err := db.Transcript(sessionID)
	if err != nil {
		return fmt.Errorf("reading archived transcript: %w", err)
	}
	if arc == nil {
		return fmt.Errorf("no archived transcript for session %s", sessionID)
	}

	ux.NewDashboardUI().Conversation(&datatypes.ConversationResponse{
		SessionID:       arc.SessionID,
		ParticipantCode: arc.ParticipantCode,
		Messages:        arc.Messages,
	})
	return nil
}
