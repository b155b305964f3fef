// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package auth manages the seamctl login session.
//
// The bearer credential is held in memguard-sealed memory while the
// process runs and optionally persisted to the local store with a TTL
// so other seamctl invocations can reuse it until it expires.
package auth

import (
	"log/slog"
	"sync"
	"time"

	"github.com/awnumar/memguard"

	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/store"
)

// DefaultCredentialTTL matches the service-side token lifetime, so the
// locally cached credential disappears around the time the server
// would start rejecting it anyway.
const DefaultCredentialTTL = 8 * time.Hour

// =============================================================================
// Credential Store
// =============================================================================

// CredentialStore holds the bearer credential.
//
// # Description
//
//	The credential lives in a memguard Enclave: encrypted at rest in
//	process memory, decrypted only for the moment a request needs it.
//	On systems where mlock limits are too low for locked memory the
//	store falls back to regular memory with a logged warning rather
//	than refusing to run.
//
//	When constructed with a local store, the credential is also
//	persisted with a TTL so separate seamctl invocations share one
//	login. Invalidate removes both copies.
//
// # Thread Safety
//
//	Safe for concurrent use.
type CredentialStore struct {
	mu      sync.Mutex
	sealed  *memguard.Enclave
	plain   []byte
	secure  bool
	persist *store.Store
	ttl     time.Duration
}

// Compile-time check: the credential store is the gateway's token source.
var _ api.TokenSource = (*CredentialStore)(nil)

// NewCredentialStore creates a credential store.
//
// Description:
//
//	Initializes secure memory and, when persist is non-nil, loads any
//	previously saved credential so an earlier login carries over.
//
// Inputs:
//
//	persist - Optional local store for cross-invocation persistence.
//	May be nil.
//	ttl - Lifetime for the persisted credential. Zero means
//	DefaultCredentialTTL.
func NewCredentialStore(persist *store.Store, ttl time.Duration) *CredentialStore {
	initSecureMemory()

	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}
	cs := &CredentialStore{
		secure:  mlockSufficient,
		persist: persist,
		ttl:     ttl,
	}

	if persist != nil {
		token, ok, err := persist.Credential()
		if err != nil {
			slog.Warn("could not load saved credential", "error", err)
		} else if ok {
			cs.seal([]byte(token))
		}
	}
	return cs
}

// Store seals the credential in memory and persists it when a local
// store is attached. The persisted copy carries the configured TTL.
func (c *CredentialStore) Store(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seal([]byte(token))

	if c.persist != nil {
		if err := c.persist.SaveCredential(token, c.ttl); err != nil {
			// The in-memory credential is live either way; losing the
			// cached copy only costs a re-login next invocation.
			slog.Warn("could not persist credential", "error", err)
		}
	}
	return nil
}

// Token returns the credential. The second return is false when no
// credential is held.
func (c *CredentialStore) Token() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.secure {
		if len(c.plain) == 0 {
			return "", false
		}
		return string(c.plain), true
	}

	if c.sealed == nil {
		return "", false
	}
	buf, err := c.sealed.Open()
	if err != nil {
		slog.Error("could not open sealed credential", "error", err)
		return "", false
	}
	defer buf.Destroy()
	// buf.String() aliases the locked pages, which Destroy unmaps;
	// copy the bytes so the returned string survives the buffer.
	return string(buf.Bytes()), true
}

// Invalidate discards the credential everywhere: the in-memory seal
// and the persisted copy. Idempotent.
func (c *CredentialStore) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sealed = nil
	if c.plain != nil {
		memguard.WipeBytes(c.plain)
		c.plain = nil
	}

	if c.persist != nil {
		if err := c.persist.DeleteCredential(); err != nil {
			slog.Warn("could not delete persisted credential", "error", err)
		}
	}
}

// HasCredential reports whether a credential is currently held. It
// says nothing about whether the service still accepts it.
func (c *CredentialStore) HasCredential() bool {
	_, ok := c.Token()
	return ok
}

// seal replaces the held credential. Caller holds c.mu. The input
// slice is consumed: memguard wipes it when sealing succeeds.
func (c *CredentialStore) seal(token []byte) {
	if c.secure {
		c.sealed = memguard.NewEnclave(token)
		return
	}
	if c.plain != nil {
		memguard.WipeBytes(c.plain)
	}
	c.plain = make([]byte, len(token))
	copy(c.plain, token)
	memguard.WipeBytes(token)
}
