// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when an authenticated call is rejected
// by the service. The gateway has already discarded the stored
// credential by the time callers see this; the only recovery is a full
// re-login. Callers should treat it as fatal for the current view.
var ErrSessionExpired = errors.New("session expired")

// AuthError reports a rejected login. Unlike ErrSessionExpired it is
// not fatal: the caller re-prompts for the password.
type AuthError struct {
	// Message is the server's rejection text, e.g. "Invalid password".
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// RequestError reports a non-success response from the service. Message
// carries the server-supplied detail when one was present, otherwise a
// generic status description. The operation that produced it is
// user-retryable.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("service returned an error (status %d): %s", e.StatusCode, e.Message)
}

// NotFound reports whether the error is a 404 from the service.
func (e *RequestError) NotFound() bool {
	return e.StatusCode == 404
}

// TransportError reports that a call never produced a usable response:
// connection failures, request marshalling, body reads. Handled the
// same way as RequestError by callers (surface once, user may retry).
type TransportError struct {
	// Op is the short operation name, e.g. "http post", "read response".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is one of the surface-once,
// user-may-retry failures (RequestError or TransportError) rather than
// an auth condition that changes the flow.
func IsRetryable(err error) bool {
	var reqErr *RequestError
	var trErr *TransportError
	return errors.As(err, &reqErr) || errors.As(err, &trErr)
}
