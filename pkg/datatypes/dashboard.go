// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides the wire types exchanged with the SEAM
// interview service.
//
// This file contains consultant dashboard types: session records, field
// notes, analytics, clusters, and summaries.
package datatypes

// SessionRecord is one row of the dashboard session list. The client
// holds it as an immutable snapshot; only the server mutates sessions.
type SessionRecord struct {
	ID              string     `json:"id"`
	ParticipantCode string     `json:"participant_code"`
	Department      string     `json:"department"`
	RoleLevel       string     `json:"role_level"`
	Status          string     `json:"status"`
	LanguagePref    string     `json:"language_pref"`
	CreatedAt       Timestamp  `json:"created_at"`
	CompletedAt     *Timestamp `json:"completed_at,omitempty"`
	MessageCount    int        `json:"message_count"`
	FieldNotesCount int        `json:"field_notes_count"`
	HasSummary      bool       `json:"has_summary"`
}

// Completed reports whether the server has finalized this session.
func (s *SessionRecord) Completed() bool {
	return s.Status == SessionStatusCompleted
}

// FieldNote is an anonymized, categorized excerpt produced server-side
// from interview content. Immutable once fetched.
type FieldNote struct {
	ID                string    `json:"id"`
	AnonymizedText    string    `json:"anonymized_text"`
	PrimaryCategory   string    `json:"primary_category,omitempty"`
	SecondaryCategory string    `json:"secondary_category,omitempty"`
	Tags              []string  `json:"tags"`
	Confidence        int       `json:"confidence"`
	ClusterID         *int      `json:"cluster_id,omitempty"`
	Language          string    `json:"language"`
	CreatedAt         Timestamp `json:"created_at"`
}

// SessionDetail is returned by GET /dashboard/session/{id}. Summary is
// empty when none has been generated yet.
type SessionDetail struct {
	Session    SessionRecord `json:"session"`
	FieldNotes []FieldNote   `json:"field_notes"`
	Summary    string        `json:"summary,omitempty"`
}

// CategoryStat is one bucket of the analytics category distribution.
type CategoryStat struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TagCount is one entry of the analytics top-tags list.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// AnalyticsSnapshot is returned by GET /dashboard/analytics. Replaced
// wholesale on each fetch; never updated incrementally.
type AnalyticsSnapshot struct {
	TotalSessions        int            `json:"total_sessions"`
	CompletedSessions    int            `json:"completed_sessions"`
	TotalFieldNotes      int            `json:"total_field_notes"`
	CategoryDistribution []CategoryStat `json:"category_distribution"`
	TopTags              []TagCount     `json:"top_tags"`
}

// Cluster is a server-computed group of semantically similar field
// notes. The first sample text is the representative.
type Cluster struct {
	ClusterID          int      `json:"cluster_id"`
	Size               int      `json:"size"`
	RepresentativeText string   `json:"representative_text"`
	Category           string   `json:"category,omitempty"`
	SampleTexts        []string `json:"sample_texts"`
}

// ClusterState is returned by GET /dashboard/clusters and by
// POST /dashboard/clusters/run. RanAt is absent until the first run.
// StaleReason accompanies IsStale when the server can name the cause;
// a stale flag without a reason is valid and renders no warning.
type ClusterState struct {
	RanAt       *Timestamp `json:"ran_at,omitempty"`
	IsStale     bool       `json:"is_stale"`
	StaleReason string     `json:"stale_reason,omitempty"`
	Clusters    []Cluster  `json:"clusters"`
}

// SummaryResponse is returned by GET and POST /dashboard/summary/{id}.
// Generated is true when this call produced a fresh summary rather than
// returning a stored one.
type SummaryResponse struct {
	SessionID       string `json:"session_id"`
	ParticipantCode string `json:"participant_code"`
	Summary         string `json:"summary"`
	Generated       bool   `json:"generated"`
}

// ConversationResponse is returned by GET /dashboard/conversation/{id}.
type ConversationResponse struct {
	SessionID       string    `json:"session_id"`
	ParticipantCode string    `json:"participant_code"`
	Messages        []Message `json:"messages"`
}
