// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides the wire types exchanged with the SEAM
// interview service.
//
// This file contains authentication and interview request/response
// types. For dashboard types, see dashboard.go.
package datatypes

import "fmt"

// =============================================================================
// Auth Types
// =============================================================================

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// Validate checks the request before it is sent.
func (r *LoginRequest) Validate() error {
	if err := wireValidate.Struct(r); err != nil {
		return fmt.Errorf("validate login request: %w", err)
	}
	return nil
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// =============================================================================
// Interview Request Types
// =============================================================================

// StartInterviewRequest is the body for POST /interview/start.
//
// # Description
//
// Carries the intake fields collected before the first turn. All fields
// are optional on the wire; EnsureDefaults fills the participant code
// and language preference the same way the server would, so the values
// shown to the participant match what the server records.
//
// # Fields
//
//   - ParticipantCode: Anonymous participant label ("P-XXXXXX").
//     Generated client-side when left blank.
//   - Department: Free-text department name. May be empty.
//   - RoleLevel: One of "operational", "managerial", "executive", or
//     empty. The interview engine adapts question depth to this.
//   - LanguagePref: "en", "ar", or "auto". Defaults to "auto", which
//     lets the service follow the participant's language turn by turn.
type StartInterviewRequest struct {
	ParticipantCode string `json:"participant_code" validate:"omitempty,max=50"`
	Department      string `json:"department" validate:"omitempty,max=100"`
	RoleLevel       string `json:"role_level" validate:"omitempty,oneof=operational managerial executive"`
	LanguagePref    string `json:"language_pref" validate:"omitempty,oneof=en ar auto"`
}

// EnsureDefaults fills the participant code and language preference if
// they were left blank.
func (r *StartInterviewRequest) EnsureDefaults() {
	if r.ParticipantCode == "" {
		r.ParticipantCode = NewParticipantCode()
	}
	if r.LanguagePref == "" {
		r.LanguagePref = LangAuto
	}
}

// Validate checks the request before it is sent.
func (r *StartInterviewRequest) Validate() error {
	if err := wireValidate.Struct(r); err != nil {
		return fmt.Errorf("validate start request: %w", err)
	}
	return nil
}

// MessageRequest is the body for POST /interview/message. The session
// id is whatever the service handed out at start; its shape is the
// service's business, so only presence is checked here.
type MessageRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required,maxbytes"`
}

// Validate checks the request before it is sent.
func (r *MessageRequest) Validate() error {
	if err := wireValidate.Struct(r); err != nil {
		return fmt.Errorf("validate message request: %w", err)
	}
	return nil
}

// EndInterviewRequest is the body for POST /interview/end.
type EndInterviewRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// Validate checks the request before it is sent.
func (r *EndInterviewRequest) Validate() error {
	if err := wireValidate.Struct(r); err != nil {
		return fmt.Errorf("validate end request: %w", err)
	}
	return nil
}

// =============================================================================
// Interview Response Types
// =============================================================================

// StartInterviewResponse is returned by POST /interview/start.
type StartInterviewResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

// MessageResponse is returned by POST /interview/message.
//
// CategoryHint names the dysfunction category the interview engine is
// currently exploring, or is empty once all categories are covered. It
// is advisory: an empty or unknown hint leaves the client's progress
// display unchanged.
type MessageResponse struct {
	Reply        string `json:"reply"`
	CategoryHint string `json:"category_hint"`
	IsComplete   bool   `json:"is_complete"`
}

// EndInterviewResponse is returned by POST /interview/end.
type EndInterviewResponse struct {
	SessionID       string `json:"session_id"`
	Status          string `json:"status"`
	TotalMessages   int    `json:"total_messages"`
	FieldNotesCount int    `json:"field_notes_count"`
}

// InterviewStatusResponse is returned by GET /interview/{id}/status.
type InterviewStatusResponse struct {
	SessionID            string `json:"session_id"`
	Status               string `json:"status"`
	CurrentCategoryIndex int    `json:"current_category_index"`
	CurrentCategory      string `json:"current_category"`
	Progress             int    `json:"progress"`
}

// =============================================================================
// Transcript Messages
// =============================================================================

// Message is one entry in a conversation transcript. Language and
// Timestamp are filled on server transcripts and locally archived ones;
// the in-memory interview transcript leaves them empty.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Language  string     `json:"language,omitempty"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`
}
