// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package api is the single chokepoint for all calls to the SEAM
// interview service.
//
// Every remote operation in the client goes through Gateway.Call, which
// owns the cross-cutting policies: bearer credential attachment, the
// unauthorized-response handling that invalidates the stored credential,
// error normalization into the AuthError / ErrSessionExpired /
// RequestError / TransportError taxonomy, and the transparent
// binary-vs-structured response branch (export endpoints answer with a
// Content-Disposition attachment, everything else with JSON).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultBaseURL is the API root used when none is configured.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultRequestTimeout bounds a single request. Interview replies
	// come from an LLM backend and can take a while, so this is looser
	// than a typical REST timeout.
	DefaultRequestTimeout = 120 * time.Second

	contentTypeJSON = "application/json"
)

// =============================================================================
// Interfaces
// =============================================================================

// TokenSource supplies and invalidates the stored bearer credential.
// The auth package's CredentialStore implements it; the gateway only
// sees this narrow view so the dependency points one way.
type TokenSource interface {
	// Token returns the current credential and whether one is stored.
	Token() (string, bool)

	// Invalidate discards the stored credential. Called by the gateway
	// when the service answers 401.
	Invalidate()
}

// =============================================================================
// Configuration
// =============================================================================

// GatewayConfig configures a Gateway.
type GatewayConfig struct {
	// BaseURL is the API root. All paths are joined to it.
	// Default: DefaultBaseURL.
	BaseURL string

	// Timeout bounds each request.
	// Default: DefaultRequestTimeout.
	Timeout time.Duration

	// Tokens supplies the bearer credential for authenticated calls.
	// May be nil for a client that only uses interview endpoints.
	Tokens TokenSource
}

// =============================================================================
// Gateway
// =============================================================================

// Gateway performs all HTTP calls to the interview service.
//
// # Thread Safety
//
// Safe for concurrent use. The gateway itself is immutable after
// construction; the shared mutable credential lives behind TokenSource.
type Gateway struct {
	baseURL string
	client  HTTPClient
	tokens  TokenSource
}

// NewGateway creates a Gateway backed by the shared pooled HTTP client.
func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultRequestTimeout
	}
	client := NewHTTPClient(getSharedHTTPClientWithTimeout(cfg.Timeout))
	return NewGatewayWithClient(cfg, client)
}

// NewGatewayWithClient creates a Gateway with an injected HTTP client.
// Used by tests.
func NewGatewayWithClient(cfg GatewayConfig, client HTTPClient) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		tokens:  cfg.Tokens,
	}
}

// =============================================================================
// Payload
// =============================================================================

// Payload is the normalized result of a successful call.
//
// For ordinary endpoints Body holds the JSON bytes and Decode
// unmarshals them. For attachment responses (session exports)
// Attachment is true, Body holds the raw file bytes, and Filename
// carries the server-suggested name when one was sent.
type Payload struct {
	Status     int
	Body       []byte
	Attachment bool
	Filename   string
}

// Decode unmarshals a JSON payload into out.
func (p *Payload) Decode(out any) error {
	if p.Attachment {
		return errors.New("response is an attachment, not JSON")
	}
	if err := json.Unmarshal(p.Body, out); err != nil {
		return &TransportError{Op: "parse response", Err: err}
	}
	return nil
}

// =============================================================================
// Call
// =============================================================================

// Call performs one request against the service.
//
// # Description
//
// Call is the single entry point for remote operations. It joins path
// to the configured API root, marshals body (when non-nil) as JSON,
// attaches the bearer credential when requiresAuth is true and one is
// stored, executes the request, and normalizes the outcome:
//
//   - 401: the stored credential is invalidated. If the call required
//     auth the result is ErrSessionExpired; otherwise the 401 falls
//     through to the ordinary error path (unauthenticated endpoints are
//     not expected to answer 401, this branch is defensive).
//   - other non-2xx: *RequestError carrying the server's detail message
//     when the body had one, else the generic status text.
//   - connection, marshalling, or body-read failures: *TransportError.
//   - 2xx: a *Payload. A Content-Disposition attachment marks the
//     payload binary; everything else stays JSON for Decode.
//
// # Inputs
//
//   - ctx: Context for cancellation.
//   - method: http.MethodGet or http.MethodPost.
//   - path: Endpoint path relative to the API root, e.g. "/auth/login".
//   - body: Request body marshalled as JSON, or nil.
//   - requiresAuth: Whether to attach the bearer credential.
//
// # Outputs
//
//   - *Payload: Normalized success result.
//   - error: One of the taxonomy errors above.
//
// # Example
//
//	payload, err := gw.Call(ctx, http.MethodGet, "/dashboard/analytics", nil, true)
//	if err != nil {
//	    return err
//	}
//	var snap datatypes.AnalyticsSnapshot
//	if err := payload.Decode(&snap); err != nil {
//	    return err
//	}
//
// # Limitations
//
//   - No automatic retries: every failure surfaces once to the caller.
//   - No per-call timeout beyond the underlying client's.
func (g *Gateway) Call(ctx context.Context, method, path string, body any, requiresAuth bool) (*Payload, error) {
	requestID := uuid.New().String()
	slog.Debug("dispatching api request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"requires_auth", requiresAuth)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: "marshal request", Err: err}
		}
		reader = bytes.NewBuffer(encoded)
	}

	headers := map[string]string{}
	if requiresAuth && g.tokens != nil {
		if token, ok := g.tokens.Token(); ok {
			headers["Authorization"] = "Bearer " + token
		}
	}

	targetURL := g.baseURL + path

	var resp *http.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = g.client.GetWithHeaders(ctx, targetURL, headers)
		if err != nil {
			return nil, &TransportError{Op: "http get", Err: err}
		}
	case http.MethodPost:
		resp, err = g.client.PostWithHeaders(ctx, targetURL, contentTypeJSON, reader, headers)
		if err != nil {
			return nil, &TransportError{Op: "http post", Err: err}
		}
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Error("failed to close response body",
				"request_id", requestID,
				"error", closeErr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// The credential is dead either way; drop it so the next
		// isAuthenticated check tells the truth.
		if g.tokens != nil {
			g.tokens.Invalidate()
		}
		if requiresAuth {
			slog.Warn("authenticated request rejected",
				"request_id", requestID,
				"path", path)
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := extractServerMessage(data)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		slog.Debug("api request failed",
			"request_id", requestID,
			"status", resp.StatusCode,
			"message", message)
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: message}
	}

	payload := &Payload{Status: resp.StatusCode, Body: data}
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		kind, params, parseErr := mime.ParseMediaType(disposition)
		if parseErr == nil && kind == "attachment" {
			payload.Attachment = true
			payload.Filename = params["filename"]
		}
	}

	slog.Debug("api request completed",
		"request_id", requestID,
		"status", resp.StatusCode,
		"attachment", payload.Attachment,
		"bytes", len(data))
	return payload, nil
}

// GetJSON performs a GET and decodes the JSON response into out.
// Pass a nil out to discard the body.
func (g *Gateway) GetJSON(ctx context.Context, path string, out any, requiresAuth bool) error {
	payload, err := g.Call(ctx, http.MethodGet, path, nil, requiresAuth)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return payload.Decode(out)
}

// PostJSON performs a POST and decodes the JSON response into out.
// Pass a nil out to discard the body.
func (g *Gateway) PostJSON(ctx context.Context, path string, body, out any, requiresAuth bool) error {
	payload, err := g.Call(ctx, http.MethodPost, path, body, requiresAuth)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return payload.Decode(out)
}

// =============================================================================
// Internal Helpers
// =============================================================================

// serverErrorBody covers the two error shapes the service emits:
// {"detail": "..."} from the interview service and {"error": "..."}
// from proxies in front of it. Detail stays raw because validation
// failures arrive as an array instead of a string.
type serverErrorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

// extractServerMessage pulls a human-readable message out of an error
// response body, or returns "" when there is none worth showing.
func extractServerMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed serverErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if len(parsed.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(parsed.Detail, &detail); err == nil {
			return detail
		}
		// Structured validation detail; the status text reads better
		// than a dumped JSON array.
		return ""
	}
	return parsed.Error
}
