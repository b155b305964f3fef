// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/SeamWorks/seamctl/pkg/datatypes"
)

// Key layout. Records never share prefixes so iteration stays cheap.
const (
	keyCredential    = "auth/credential"
	keySnapshot      = "dashboard/snapshot"
	transcriptPrefix = "transcript/"
)

// TranscriptArchive is a completed (or abandoned) interview kept
// locally for offline review.
type TranscriptArchive struct {
	SessionID       string              `json:"session_id"`
	ParticipantCode string              `json:"participant_code,omitempty"`
	Department      string              `json:"department,omitempty"`
	StartedAt       time.Time           `json:"started_at"`
	EndedAt         time.Time           `json:"ended_at,omitempty"`
	Status          string              `json:"status,omitempty"`
	Messages        []datatypes.Message `json:"messages"`
	TotalMessages   int                 `json:"total_messages,omitempty"`
	FieldNotesCount int                 `json:"field_notes_count,omitempty"`
}

// DashboardSnapshot is the last successfully loaded dashboard state,
// kept so the views can render something when the service is down.
type DashboardSnapshot struct {
	SavedAt   time.Time                    `json:"saved_at"`
	Analytics *datatypes.AnalyticsSnapshot `json:"analytics,omitempty"`
	Sessions  []datatypes.SessionRecord    `json:"sessions,omitempty"`
	Clusters  *datatypes.ClusterState      `json:"clusters,omitempty"`
}

// =============================================================================
// Credential
// =============================================================================

// SaveCredential stores the bearer token with the given TTL. Once the
// TTL elapses the entry is gone and IsAuthenticated-style checks see a
// logged-out state, which matches the token's server-side expiry.
func (s *Store) SaveCredential(token string, ttl time.Duration) error {
	if token == "" {
		return errors.New("token must not be empty")
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(keyCredential), []byte(token))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Credential returns the stored bearer token. The second return is
// false when no credential is stored or it has expired.
func (s *Store) Credential() (string, bool, error) {
	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyCredential))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	return token, true, nil
}

// DeleteCredential removes the stored bearer token. Deleting an
// absent credential is not an error.
func (s *Store) DeleteCredential() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyCredential))
	})
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// =============================================================================
// Transcripts
// =============================================================================

func transcriptKey(sessionID string) []byte {
	return []byte(transcriptPrefix + sessionID)
}

// SaveTranscript archives an interview transcript, replacing any
// previous archive for the same session.
func (s *Store) SaveTranscript(arc *TranscriptArchive) error {
	if arc == nil || arc.SessionID == "" {
		return errors.New("archive must have a session id")
	}
	data, err := json.Marshal(arc)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(transcriptKey(arc.SessionID), data)
	})
	if err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

// Transcript returns the archived transcript for a session, or
// (nil, nil) when none is stored.
func (s *Store) Transcript(sessionID string) (*TranscriptArchive, error) {
	var arc *TranscriptArchive
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(transcriptKey(sessionID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var decoded TranscriptArchive
			if err := json.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("decode transcript: %w", err)
			}
			arc = &decoded
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return arc, nil
}

// Transcripts lists all archived transcripts, newest first. Corrupt
// entries are skipped rather than failing the whole listing.
func (s *Store) Transcripts() ([]TranscriptArchive, error) {
	var archives []TranscriptArchive
	prefix := []byte(transcriptPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var arc TranscriptArchive
				if err := json.Unmarshal(val, &arc); err != nil {
					return nil // skip corrupt entry
				}
				archives = append(archives, arc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].StartedAt.After(archives[j].StartedAt)
	})
	return archives, nil
}

// DeleteTranscript removes an archived transcript. Deleting an absent
// archive is not an error.
func (s *Store) DeleteTranscript(sessionID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(transcriptKey(sessionID))
	})
	if err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return nil
}

// =============================================================================
// Dashboard Snapshot
// =============================================================================

// SaveSnapshot stores the last good dashboard state. The previous
// snapshot is replaced whole; partial snapshots are fine (a nil field
// means that resource was not loaded).
func (s *Store) SaveSnapshot(snap *DashboardSnapshot) error {
	if snap == nil {
		return errors.New("snapshot must not be nil")
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keySnapshot), data)
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the last stored dashboard state, or (nil, nil)
// when none exists yet.
func (s *Store) Snapshot() (*DashboardSnapshot, error) {
	var snap *DashboardSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keySnapshot))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var decoded DashboardSnapshot
			if err := json.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			snap = &decoded
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return snap, nil
}
