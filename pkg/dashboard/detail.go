// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/datatypes"
)

// ErrSummaryPending is returned when a summary generation for the
// same session is already in flight. Callers treat it as a no-op.
var ErrSummaryPending = errors.New("a summary is already being generated for this session")

// Loader fetches per-session views: detail, summary, conversation,
// and exports. Summary generation is guarded per session so a slow
// generation cannot be stacked by repeated requests.
//
// Safe for concurrent use.
type Loader struct {
	gw      *api.Gateway
	mu      sync.Mutex
	pending map[string]bool
}

// NewLoader creates a detail loader.
func NewLoader(gw *api.Gateway) *Loader {
	return &Loader{gw: gw, pending: make(map[string]bool)}
}

// Detail fetches a session with its field notes and summary. The
// summary is empty until one has been generated; that is a normal
// state, not an error.
func (l *Loader) Detail(ctx context.Context, sessionID string) (*datatypes.SessionDetail, error) {
	var detail datatypes.SessionDetail
	if err := l.gw.GetJSON(ctx, "/dashboard/session/"+sessionID, &detail, true); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Summary fetches the stored summary for a session without
// generating one.
func (l *Loader) Summary(ctx context.Context, sessionID string) (*datatypes.SummaryResponse, error) {
	var summary datatypes.SummaryResponse
	if err := l.gw.GetJSON(ctx, "/dashboard/summary/"+sessionID, &summary, true); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GenerateSummary asks the service to produce a summary for one
// session.
//
// Description:
//
//	Generation takes several seconds, so a second request for the
//	same session while one is in flight returns ErrSummaryPending
//	instead of stacking another. Different sessions generate
//	independently. Refreshing any list that shows summary state is
//	the caller's responsibility.
func (l *Loader) GenerateSummary(ctx context.Context, sessionID string) (*datatypes.SummaryResponse, error) {
	l.mu.Lock()
	if l.pending[sessionID] {
		l.mu.Unlock()
		return nil, ErrSummaryPending
	}
	l.pending[sessionID] = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.pending, sessionID)
		l.mu.Unlock()
	}()

	var summary datatypes.SummaryResponse
	if err := l.gw.PostJSON(ctx, "/dashboard/summary/"+sessionID, nil, &summary, true); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Conversation fetches the full message transcript for a session.
func (l *Loader) Conversation(ctx context.Context, sessionID string) (*datatypes.ConversationResponse, error) {
	var conv datatypes.ConversationResponse
	if err := l.gw.GetJSON(ctx, "/dashboard/conversation/"+sessionID, &conv, true); err != nil {
		return nil, err
	}
	return &conv, nil
}

// Export downloads a session's field notes as a file attachment.
//
// Description:
//
//	The service streams the export with a content-disposition header;
//	the returned payload carries the raw bytes and the server-chosen
//	filename. Writing it to disk is the caller's job.
//
// Inputs:
//
//	format - "json" or "csv".
func (l *Loader) Export(ctx context.Context, sessionID, format string) (*api.Payload, error) {
	if format != "json" && format != "csv" {
		return nil, fmt.Errorf("unsupported export format %q (use json or csv)", format)
	}
	payload, err := l.gw.Call(ctx, "GET", "/dashboard/export/"+sessionID+"?format="+format, nil, true)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
