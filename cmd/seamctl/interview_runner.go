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
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/SeamWorks/seamctl/pkg/datatypes"
	"github.com/SeamWorks/seamctl/pkg/interview"
	"github.com/SeamWorks/seamctl/pkg/store"
	"github.com/SeamWorks/seamctl/pkg/ux"
)

// closeGrace bounds the end-of-interview call after an interrupt.
const closeGrace = 5 * time.Second

// InterviewRunner drives one interview from intake to closing: it owns
// the read-send-display loop and archives the transcript locally when
// the interview ends, however it ends.
type InterviewRunner struct {
	machine *interview.Machine
	reader  InputReader
	ui      ux.InterviewUI
	archive *store.Store
	out     io.Writer

	mu     sync.Mutex
	closed bool
}

// NewInterviewRunner creates a runner. archive may be nil to skip
// local transcript capture.
func NewInterviewRunner(machine *interview.Machine, reader InputReader, ui ux.InterviewUI, archive *store.Store) *InterviewRunner {
	return &InterviewRunner{
		machine: machine,
		reader:  reader,
		ui:      ui,
		archive: archive,
		out:     os.Stdout,
	}
}

// Run starts the interview and loops until the participant finishes,
// input ends, or ctx is cancelled.
func (r *InterviewRunner) Run(ctx context.Context, req datatypes.StartInterviewRequest) error {
	greeting, err := r.machine.Start(ctx, req)
	if err != nil {
		return fmt.Errorf("starting interview: %w", err)
	}

	r.ui.Header(ux.IntakeSummary{
		SessionID:       r.machine.SessionID(),
		ParticipantCode: r.machine.ParticipantCode(),
		Department:      r.machine.Department(),
		RoleLevel:       req.RoleLevel,
		LanguagePref:    req.LanguagePref,
	})
	r.ui.Greeting(greeting)

	slog.Info("interview started",
		"session_id", r.machine.SessionID(),
		"participant", r.machine.ParticipantCode())

	return r.runLoop(ctx)
}

func (r *InterviewRunner) runLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return r.handleShutdown(ctx)
		default:
		}

		line, err := r.promptAndRead()
		if err == io.EOF {
			// Input ended (^D, pipe drained). Close the session.
			r.finish(ctx)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading answer: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isExitCommand(line) {
			r.finish(ctx)
			return nil
		}

		if err := r.handleAnswer(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return r.handleShutdown(ctx)
			}
			// Non-fatal: show it and let the participant try again.
			r.ui.Error(err)
			continue
		}

		if r.machine.Phase() == interview.PhaseComplete {
			r.ui.Notice("The interviewer has covered every topic.")
			r.finish(ctx)
			return nil
		}
	}
}

func (r *InterviewRunner) promptAndRead() (string, error) {
	if pr, ok := r.reader.(PromptingInputReader); ok {
		pr.SetPrompt(r.ui.Prompt())
	} else if ux.IsInteractive() {
		fmt.Fprint(r.out, r.ui.Prompt())
	}
	return r.reader.ReadLine()
}

// handleAnswer sends one answer and renders the reply plus any
// category progress it unlocked.
func (r *InterviewRunner) handleAnswer(ctx context.Context, line string) error {
	before := r.machine.Stage()

	resp, err := r.machine.Send(ctx, line)
	if err != nil {
		if errors.Is(err, interview.ErrSendPending) {
			r.ui.Notice("Still waiting for the previous reply.")
			return nil
		}
		return err
	}

	r.ui.Reply(resp.Reply)

	if after := r.machine.Stage(); after > before {
		if cat, ok := r.machine.CurrentCategory(); ok {
			r.ui.Progress(after, interview.CategoryCount, cat.Name, cat.Arabic)
		}
	}
	return nil
}

// finish closes the session and renders the closing panel. The
// interview reads as complete even when the closing call fails.
func (r *InterviewRunner) finish(ctx context.Context) {
	stats, err := r.machine.End(ctx)
	if err != nil {
		slog.Warn("closing call failed, interview ended locally",
			"session_id", r.machine.SessionID(),
			"error", err.Error())
	}
	r.ui.Closing(stats)
	r.archiveTranscript()
}

// handleShutdown closes the session on interrupt with a short grace
// window, since the parent context is already cancelled.
func (r *InterviewRunner) handleShutdown(ctx context.Context) error {
	slog.Info("interview interrupted, closing session",
		"session_id", r.machine.SessionID())

	closeCtx, cancel := context.WithTimeout(context.Background(), closeGrace)
	defer cancel()

	stats, err := r.machine.End(closeCtx)
	if err != nil {
		slog.Warn("closing call failed during shutdown",
			"session_id", r.machine.SessionID(),
			"error", err.Error())
	}
	r.ui.Closing(stats)
	r.archiveTranscript()
	return ctx.Err()
}

// archiveTranscript saves the conversation locally for `seamctl
// interview log`. Best effort; failures are logged, never surfaced.
func (r *InterviewRunner) archiveTranscript() {
	if r.archive == nil {
		return
	}

	arc := &store.TranscriptArchive{
		SessionID:       r.machine.SessionID(),
		ParticipantCode: r.machine.ParticipantCode(),
		Department:      r.machine.Department(),
		StartedAt:       r.machine.StartedAt(),
		EndedAt:         time.Now().UTC(),
		Status:          "completed",
		Messages:        r.machine.Transcript(),
	}
	if stats := r.machine.Stats(); stats != nil {
		if stats.Status != "" {
			arc.Status = stats.Status
		}
		arc.TotalMessages = stats.TotalMessages
		arc.FieldNotesCount = stats.FieldNotesCount
	}

	if err := r.archive.SaveTranscript(arc); err != nil {
		slog.Warn("failed to archive transcript",
			"session_id", arc.SessionID,
			"error", err.Error())
		return
	}
	slog.Debug("transcript archived", "session_id", arc.SessionID)
}

// Close ends the session if Run exited without finishing, e.g. on a
// read error. Safe to call more than once.
func (r *InterviewRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	switch r.machine.Phase() {
	case interview.PhaseIdle, interview.PhaseWaiting:
		closeCtx, cancel := context.WithTimeout(context.Background(), closeGrace)
		defer cancel()
		if _, err := r.machine.End(closeCtx); err != nil {
			slog.Warn("session close failed",
				"session_id", r.machine.SessionID(),
				"error", err.Error())
		}
		r.archiveTranscript()
	}
	return nil
}
