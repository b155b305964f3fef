// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package interview drives a diagnostic interview session.
//
// A session moves through four phases:
//
//	Welcome -> Idle <-> Waiting -> Complete
//
// Welcome is the pre-start state. Idle accepts a message; Waiting has
// one in flight and rejects further sends until the reply lands (or
// fails). Complete is terminal: reached when the service marks the
// interview finished or when the interviewee ends it early.
package interview

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/bidi"
	"github.com/SeamWorks/seamctl/pkg/datatypes"
)

// =============================================================================
// Phases
// =============================================================================

// Phase is the interview lifecycle state.
type Phase int

const (
	// PhaseWelcome is the pre-start state. Only Start is valid.
	PhaseWelcome Phase = iota
	// PhaseIdle means the interview is active and accepts a message.
	PhaseIdle
	// PhaseWaiting means a message is in flight. Sends are rejected.
	PhaseWaiting
	// PhaseComplete is terminal.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "welcome"
	case PhaseIdle:
		return "idle"
	case PhaseWaiting:
		return "waiting"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrSendPending is returned when a send is attempted while an
	// earlier message is still awaiting its reply. Callers treat it as
	// a no-op, not a failure.
	ErrSendPending = errors.New("a message is already awaiting a reply")

	// ErrNotActive is returned for operations that need an active
	// interview (before Start or after completion).
	ErrNotActive = errors.New("interview is not active")

	// ErrAlreadyStarted is returned by Start after the first
	// successful start.
	ErrAlreadyStarted = errors.New("interview already started")

	// ErrEmptyMessage is returned when the trimmed message is empty.
	ErrEmptyMessage = errors.New("message must not be empty")
)

// =============================================================================
// Machine
// =============================================================================

// Machine holds one interview session's client-side state.
//
// # Description
//
//	Machine owns the transcript, the phase, and the category progress
//	for a single session. All service calls go through the gateway;
//	the machine applies their results under its lock so a reply that
//	lands after the interview was ended cannot corrupt the final
//	state.
//
//	The transcript is optimistic: the interviewee's message is
//	appended before the service confirms it and stays even when the
//	send fails, matching what they saw themselves type.
//
// # Example
//
//	m := interview.NewMachine(gw)
//	greeting, err := m.Start(ctx, datatypes.StartInterviewRequest{Department: "production"})
//	if err != nil { ... }
//	resp, err := m.Send(ctx, "الوردية الليلية صعبة")
//
// # Thread Safety
//
//	Safe for concurrent use. The lock is not held across service
//	calls; guards on the phase keep concurrent operations coherent.
type Machine struct {
	mu sync.Mutex
	gw *api.Gateway

	phase           Phase
	starting        bool
	sessionID       string
	participantCode string
	department      string
	startedAt       time.Time
	transcript      []datatypes.Message
	tracker         *ProgressTracker
	stats           *datatypes.EndInterviewResponse
}

// NewMachine creates a machine in the Welcome phase.
func NewMachine(gw *api.Gateway) *Machine {
	return &Machine{
		gw:      gw,
		phase:   PhaseWelcome,
		tracker: NewProgressTracker(),
	}
}

// Start begins the interview.
//
// Description:
//
//	Registers the session with the service and stores the returned
//	session id. The greeting becomes the first transcript entry and
//	progress moves to the first category. On failure the machine
//	stays in Welcome with nothing recorded, so Start can be retried.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	req - Intake details. A blank participant code is filled with a
//	generated one before sending.
//
// Outputs:
//
//	string - The greeting to display.
//	error - ErrAlreadyStarted after a successful start; validation,
//	transport, or request errors otherwise.
func (m *Machine) Start(ctx context.Context, req datatypes.StartInterviewRequest) (string, error) {
	m.mu.Lock()
	if m.phase != PhaseWelcome || m.starting {
		m.mu.Unlock()
		return "", ErrAlreadyStarted
	}
	req.EnsureDefaults()
	if err := req.Validate(); err != nil {
		m.mu.Unlock()
		return "", err
	}
	m.starting = true
	m.mu.Unlock()

	var resp datatypes.StartInterviewResponse
	err := m.gw.PostJSON(ctx, "/interview/start", req, &resp, false)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.starting = false

	if err != nil {
		return "", err
	}

	m.sessionID = resp.SessionID
	m.participantCode = req.ParticipantCode
	m.department = req.Department
	m.startedAt = time.Now().UTC()
	m.transcript = append(m.transcript, datatypes.Message{
		Role:      datatypes.RoleAssistant,
		Content:   resp.Greeting,
		Language:  bidi.DetectLanguage(resp.Greeting),
		Timestamp: datatypes.Now(),
	})
	m.tracker.Begin()
	m.phase = PhaseIdle

	slog.Info("interview started",
		"session_id", m.sessionID,
		"participant_code", m.participantCode)

	return resp.Greeting, nil
}

// Send delivers one interviewee message and waits for the reply.
//
// Description:
//
//	The message is appended to the transcript immediately and the
//	machine enters Waiting. While Waiting, further sends return
//	ErrSendPending. When the reply arrives it is appended, the
//	category hint (if recognized) advances progress, and a completion
//	flag moves the interview to Complete. A failed send returns the
//	machine to Idle; the interviewee's message stays in the
//	transcript.
//
// Outputs:
//
//	*datatypes.MessageResponse - The service reply, also when it
//	arrived after the interview was ended locally.
//	error - ErrSendPending, ErrNotActive, ErrEmptyMessage, or a
//	gateway error.
func (m *Machine) Send(ctx context.Context, text string) (*datatypes.MessageResponse, error) {
	text = strings.TrimSpace(text)

	m.mu.Lock()
	switch m.phase {
	case PhaseWaiting:
		m.mu.Unlock()
		return nil, ErrSendPending
	case PhaseIdle:
		// proceed
	default:
		m.mu.Unlock()
		return nil, ErrNotActive
	}
	if text == "" {
		m.mu.Unlock()
		return nil, ErrEmptyMessage
	}

	req := datatypes.MessageRequest{SessionID: m.sessionID, Message: text}
	if err := req.Validate(); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	m.transcript = append(m.transcript, datatypes.Message{
		Role:      datatypes.RoleUser,
		Content:   text,
		Language:  bidi.DetectLanguage(text),
		Timestamp: datatypes.Now(),
	})
	m.phase = PhaseWaiting
	m.mu.Unlock()

	var resp datatypes.MessageResponse
	err := m.gw.PostJSON(ctx, "/interview/message", req, &resp, false)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseWaiting {
		// The interview was ended while this reply was in flight. The
		// final state stands; hand the reply back without recording it.
		slog.Debug("reply arrived after interview ended",
			"session_id", m.sessionID)
		if err != nil {
			return nil, err
		}
		return &resp, nil
	}

	if err != nil {
		m.phase = PhaseIdle
		return nil, err
	}

	m.transcript = append(m.transcript, datatypes.Message{
		Role:      datatypes.RoleAssistant,
		Content:   resp.Reply,
		Language:  bidi.DetectLanguage(resp.Reply),
		Timestamp: datatypes.Now(),
	})
	m.tracker.Observe(resp.CategoryHint)

	if resp.IsComplete {
		m.phase = PhaseComplete
		slog.Info("interview complete", "session_id", m.sessionID)
	} else {
		m.phase = PhaseIdle
	}

	return &resp, nil
}

// End finishes the interview.
//
// Description:
//
//	Moves the machine to Complete before asking the service to close
//	the session, so the local state is final no matter what the
//	service answers. Closing stats are stored when the service
//	returns them; a failed end call still leaves the interview
//	Complete, just without stats.
//
// Outputs:
//
//	*datatypes.EndInterviewResponse - Closing stats, or nil when the
//	end call failed.
//	error - Nil on success. The phase is Complete either way.
func (m *Machine) End(ctx context.Context) (*datatypes.EndInterviewResponse, error) {
	m.mu.Lock()
	if m.phase == PhaseWelcome {
		m.mu.Unlock()
		return nil, ErrNotActive
	}
	if m.phase == PhaseComplete && m.stats != nil {
		stats := m.stats
		m.mu.Unlock()
		return stats, nil
	}
	sessionID := m.sessionID
	m.phase = PhaseComplete
	m.mu.Unlock()

	var resp datatypes.EndInterviewResponse
	err := m.gw.PostJSON(ctx, "/interview/end",
		datatypes.EndInterviewRequest{SessionID: sessionID}, &resp, false)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		slog.Warn("end call failed, interview closed locally",
			"session_id", sessionID,
			"error", err.Error())
		return nil, err
	}

	m.stats = &resp
	return &resp, nil
}

// Status fetches the server-side view of this session.
func (m *Machine) Status(ctx context.Context) (*datatypes.InterviewStatusResponse, error) {
	m.mu.Lock()
	sessionID := m.sessionID
	m.mu.Unlock()
	if sessionID == "" {
		return nil, ErrNotActive
	}
	return FetchStatus(ctx, m.gw, sessionID)
}

// FetchStatus fetches the server-side status of any session by id.
func FetchStatus(ctx context.Context, gw *api.Gateway, sessionID string) (*datatypes.InterviewStatusResponse, error) {
	var resp datatypes.InterviewStatusResponse
	if err := gw.GetJSON(ctx, "/interview/"+sessionID+"/status", &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// SessionID returns the service-assigned session id, or empty before
// a successful Start.
func (m *Machine) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// ParticipantCode returns the code this session was started with.
func (m *Machine) ParticipantCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.participantCode
}

// Department returns the department this session was started with.
func (m *Machine) Department() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.department
}

// StartedAt returns when the session started, zero before Start.
func (m *Machine) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startedAt
}

// Transcript returns a copy of the conversation so far.
func (m *Machine) Transcript() []datatypes.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]datatypes.Message, len(m.transcript))
	copy(out, m.transcript)
	return out
}

// Stats returns the closing stats, or nil when the interview has not
// ended or the end call could not reach the service.
func (m *Machine) Stats() *datatypes.EndInterviewResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Stage returns the 1-based category position, zero before Start.
func (m *Machine) Stage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Stage()
}

// Percent returns the category progress as a percentage.
func (m *Machine) Percent() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Percent()
}

// CurrentCategory returns the category in play, or false before Start.
func (m *Machine) CurrentCategory() (Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Current()
}
