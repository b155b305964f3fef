// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides the wire types exchanged with the SEAM
// interview service.
//
// This file contains shared pieces: the lenient Timestamp type, request
// size limits, and the package validator instance. Interview types live
// in interview.go, dashboard types in dashboard.go.
package datatypes

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MaxMessageBytes is the maximum size of a single outgoing interview
	// message. Checked in bytes, not runes, before the request is built.
	MaxMessageBytes = 16 * 1024 // 16KB

	// participantCodeAlphabet matches the server's generator: uppercase
	// ASCII letters and digits.
	participantCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// participantCodeLength is the random suffix length after "P-".
	participantCodeLength = 6
)

// Session status values as reported by the service.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// Message roles in a conversation transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Language preference values accepted by the service.
const (
	LangEnglish = "en"
	LangArabic  = "ar"
	LangAuto    = "auto"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// wireValidate is the validator instance for wire datatypes.
// Initialized in init() with custom validators.
var wireValidate *validator.Validate

func init() {
	wireValidate = validator.New()

	// Byte-length cap on free-text fields (rune count is not enough,
	// Arabic text triples in bytes).
	_ = wireValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes checks that a string field does not exceed
// MaxMessageBytes. Byte length, not rune count.
func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxMessageBytes
}

// =============================================================================
// Timestamp
// =============================================================================

// Timestamp wraps time.Time with lenient JSON decoding.
//
// The service serializes datetimes in ISO-8601, sometimes with a UTC
// offset and sometimes naive (no zone, implicitly UTC). encoding/json's
// time.Time only accepts RFC 3339, so this type tries both shapes.
// Naive values are interpreted as UTC.
type Timestamp struct {
	time.Time
}

// timestampLayouts in the order tried during decoding.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON decodes an ISO-8601 string, with or without zone offset.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}

// MarshalJSON encodes as RFC 3339, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Now returns the current time as a Timestamp, in UTC.
func Now() *Timestamp {
	return &Timestamp{Time: time.Now().UTC()}
}

// =============================================================================
// Participant Codes
// =============================================================================

// NewParticipantCode generates a participant code in the server's own
// format: "P-" followed by six random uppercase alphanumerics. The
// client generates one when the intake form leaves the field blank so
// the code can be shown to the participant before the session starts.
func NewParticipantCode() string {
	buf := make([]byte, participantCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails on a broken platform; fall back to a
		// fixed marker rather than aborting the interview.
		return "P-000000"
	}
	for i, b := range buf {
		buf[i] = participantCodeAlphabet[int(b)%len(participantCodeAlphabet)]
	}
	return "P-" + string(buf)
}
