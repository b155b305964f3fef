// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dashboard assembles the analyst views: the session list,
// aggregate analytics, theme clusters, and per-session detail.
//
// All dashboard endpoints require the bearer credential. Loads are
// fault-isolated per resource: one failed fetch never blanks the
// others, and when the service is unreachable entirely the last good
// snapshot from the local store is shown instead, marked as cached.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/datatypes"
	"github.com/SeamWorks/seamctl/pkg/store"
)

// Resource names used in per-resource error reporting.
const (
	ResourceAnalytics = "analytics"
	ResourceSessions  = "sessions"
	ResourceClusters  = "clusters"
)

// Filters narrow the session list.
type Filters struct {
	// Status filters by session status ("active" or "completed").
	// Empty means all.
	Status string
	// Department filters by department. Empty means all.
	Department string
}

// query renders the filters as a URL query suffix, empty when no
// filter is set.
func (f Filters) query() string {
	vals := url.Values{}
	if f.Status != "" {
		vals.Set("status", f.Status)
	}
	if f.Department != "" {
		vals.Set("department", f.Department)
	}
	if len(vals) == 0 {
		return ""
	}
	return "?" + vals.Encode()
}

// Aggregator loads and holds the top-level dashboard state.
//
// # Description
//
//	LoadAll fetches the three dashboard resources concurrently. Each
//	fetch fails on its own: a failed resource records its error and
//	renders empty while the others show fresh data. Only an expired
//	session aborts the load as a whole, since every remaining call
//	would fail the same way.
//
//	When a local store is attached, each load refreshes a snapshot of
//	whatever succeeded; if all three fetches fail, the snapshot is
//	served instead and FromCache reports when it was taken.
//
// # Thread Safety
//
//	Safe for concurrent use.
type Aggregator struct {
	mu    sync.Mutex
	gw    *api.Gateway
	cache *store.Store

	analytics *datatypes.AnalyticsSnapshot
	sessions  []datatypes.SessionRecord
	clusters  *datatypes.ClusterState
	errs      map[string]error
	filters   Filters
	loaded    bool
	fromCache bool
	cachedAt  time.Time
}

// NewAggregator creates an aggregator. The store is optional; without
// it there is no cached fallback.
func NewAggregator(gw *api.Gateway, cache *store.Store) *Aggregator {
	return &Aggregator{gw: gw, cache: cache, errs: make(map[string]error)}
}

// LoadAll fetches analytics, sessions, and clusters concurrently.
//
// Description:
//
//	The three fetches run in parallel and fail independently. The
//	returned error is non-nil only for an expired session; any other
//	failure is recorded per resource and readable via Err.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	filters - Session list filters, remembered for Refresh.
func (a *Aggregator) LoadAll(ctx context.Context, filters Filters) error {
	var (
		analytics *datatypes.AnalyticsSnapshot
		sessions  []datatypes.SessionRecord
		clusters  *datatypes.ClusterState
	)
	errs := make(map[string]error)
	var errsMu sync.Mutex
	record := func(resource string, err error) {
		errsMu.Lock()
		errs[resource] = err
		errsMu.Unlock()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := a.fetchAnalytics(gCtx)
		if err != nil {
			record(ResourceAnalytics, err)
			return nil // resource failures are isolated, never propagated
		}
		analytics = snap
		return nil
	})
	g.Go(func() error {
		list, err := a.fetchSessions(gCtx, filters)
		if err != nil {
			record(ResourceSessions, err)
			return nil
		}
		sessions = list
		return nil
	})
	g.Go(func() error {
		state, err := a.fetchClusters(gCtx)
		if err != nil {
			record(ResourceClusters, err)
			return nil
		}
		clusters = state
		return nil
	})
	_ = g.Wait()

	for _, err := range errs {
		if errors.Is(err, api.ErrSessionExpired) {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.filters = filters
	a.loaded = true
	a.fromCache = false
	a.errs = errs
	a.analytics = analytics
	a.sessions = sessions
	a.clusters = clusters

	if len(errs) == 3 {
		a.serveSnapshotLocked()
		return nil
	}

	a.saveSnapshotLocked()
	return nil
}

// Refresh reloads everything with the filters from the last LoadAll.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	filters := a.filters
	a.mu.Unlock()
	return a.LoadAll(ctx, filters)
}

// ReloadSessions refetches only the session list, keeping analytics
// and clusters as they are. Used after actions that change a single
// session, where a full reload would be wasteful.
func (a *Aggregator) ReloadSessions(ctx context.Context) error {
	a.mu.Lock()
	filters := a.filters
	a.mu.Unlock()

	list, err := a.fetchSessions(ctx, filters)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.errs[ResourceSessions] = err
		return err
	}
	delete(a.errs, ResourceSessions)
	a.sessions = list
	a.fromCache = false
	a.saveSnapshotLocked()
	return nil
}

// RunClusters asks the service to re-run theme clustering and stores
// the fresh result.
func (a *Aggregator) RunClusters(ctx context.Context) (*datatypes.ClusterState, error) {
	var state datatypes.ClusterState
	if err := a.gw.PostJSON(ctx, "/dashboard/clusters/run", nil, &state, true); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.errs, ResourceClusters)
	a.clusters = &state
	a.saveSnapshotLocked()
	return &state, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Analytics returns the loaded analytics, nil when that fetch failed.
func (a *Aggregator) Analytics() *datatypes.AnalyticsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analytics
}

// Sessions returns the loaded session list.
func (a *Aggregator) Sessions() []datatypes.SessionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions
}

// Clusters returns the loaded cluster state, nil when that fetch
// failed.
func (a *Aggregator) Clusters() *datatypes.ClusterState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clusters
}

// Err returns the recorded error for a resource, nil when it loaded.
func (a *Aggregator) Err(resource string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errs[resource]
}

// FailedResources lists resources whose last fetch failed.
func (a *Aggregator) FailedResources() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for _, r := range []string{ResourceAnalytics, ResourceSessions, ResourceClusters} {
		if a.errs[r] != nil {
			out = append(out, r)
		}
	}
	return out
}

// Filters returns the filters from the last LoadAll.
func (a *Aggregator) Filters() Filters {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filters
}

// FromCache reports whether the current data came from the local
// snapshot instead of the service, and when that snapshot was taken.
func (a *Aggregator) FromCache() (bool, time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fromCache, a.cachedAt
}

// =============================================================================
// Internal Helpers
// =============================================================================

func (a *Aggregator) fetchAnalytics(ctx context.Context) (*datatypes.AnalyticsSnapshot, error) {
	var snap datatypes.AnalyticsSnapshot
	if err := a.gw.GetJSON(ctx, "/dashboard/analytics", &snap, true); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (a *Aggregator) fetchSessions(ctx context.Context, filters Filters) ([]datatypes.SessionRecord, error) {
	var list []datatypes.SessionRecord
	if err := a.gw.GetJSON(ctx, "/dashboard/sessions"+filters.query(), &list, true); err != nil {
		return nil, err
	}
	return list, nil
}

func (a *Aggregator) fetchClusters(ctx context.Context) (*datatypes.ClusterState, error) {
	var state datatypes.ClusterState
	if err := a.gw.GetJSON(ctx, "/dashboard/clusters", &state, true); err != nil {
		return nil, err
	}
	return &state, nil
}

// serveSnapshotLocked replaces the (empty) live state with the last
// good snapshot, if one exists. Caller holds a.mu.
func (a *Aggregator) serveSnapshotLocked() {
	if a.cache == nil {
		return
	}
	snap, err := a.cache.Snapshot()
	if err != nil {
		slog.Warn("could not read dashboard snapshot", "error", err)
		return
	}
	if snap == nil {
		return
	}
	a.analytics = snap.Analytics
	a.sessions = snap.Sessions
	a.clusters = snap.Clusters
	a.fromCache = true
	a.cachedAt = snap.SavedAt
	slog.Info("dashboard served from local snapshot",
		"saved_at", snap.SavedAt.Format(time.RFC3339))
}

// saveSnapshotLocked merges freshly loaded resources into the stored
// snapshot. A resource that failed this time keeps its previous
// snapshot value. Caller holds a.mu.
func (a *Aggregator) saveSnapshotLocked() {
	if a.cache == nil || a.fromCache {
		return
	}
	snap, err := a.cache.Snapshot()
	if err != nil || snap == nil {
		snap = &store.DashboardSnapshot{}
	}
	if a.analytics != nil {
		snap.Analytics = a.analytics
	}
	if a.sessions != nil {
		snap.Sessions = a.sessions
	}
	if a.clusters != nil {
		snap.Clusters = a.clusters
	}
	snap.SavedAt = time.Now().UTC()
	if err := a.cache.SaveSnapshot(snap); err != nil {
		slog.Warn("could not save dashboard snapshot", "error", err)
	}
}
