// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/awnumar/memguard"

	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/datatypes"
)

// Manager runs the login flow against the service and owns the
// credential lifecycle. There is no server-side logout; Logout simply
// discards the local credential.
type Manager struct {
	gw    *api.Gateway
	creds *CredentialStore
}

// NewManager creates a session manager. The credential store should be
// the same one wired into the gateway as its token source, or expired
// sessions will not clear correctly.
func NewManager(gw *api.Gateway, creds *CredentialStore) *Manager {
	return &Manager{gw: gw, creds: creds}
}

// Login exchanges the password for a bearer credential.
//
// Description:
//
//	Posts the password to the service. On success the credential is
//	stored and subsequent authenticated calls carry it. On a rejected
//	password the returned error is an *api.AuthError carrying the
//	server's message, and no credential is stored. Transport failures
//	pass through unchanged.
//
//	The password slice is wiped before Login returns, success or not.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	password - The shared access password. Consumed: wiped on return.
//
// Outputs:
//
//	error - Nil on success; *api.AuthError on rejection; transport or
//	request errors otherwise.
func (m *Manager) Login(ctx context.Context, password []byte) error {
	defer memguard.WipeBytes(password)

	req := datatypes.LoginRequest{Password: string(password)}
	if err := req.Validate(); err != nil {
		return &api.AuthError{Message: "password must not be empty"}
	}

	var tok datatypes.TokenResponse
	err := m.gw.PostJSON(ctx, "/auth/login", req, &tok, false)
	if err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
			return &api.AuthError{Message: reqErr.Message}
		}
		return err
	}

	if tok.AccessToken == "" {
		return &api.TransportError{Op: "parse response", Err: errors.New("login response missing access token")}
	}

	return m.creds.Store(tok.AccessToken)
}

// IsAuthenticated reports whether a credential is held. Presence only:
// the credential may still be rejected by the service, which surfaces
// as a session expiry on the call that finds out.
func (m *Manager) IsAuthenticated() bool {
	return m.creds.HasCredential()
}

// Logout discards the stored credential. Idempotent; logging out while
// logged out is a no-op.
func (m *Manager) Logout() {
	m.creds.Invalidate()
}
