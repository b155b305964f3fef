// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import "github.com/SeamWorks/seamctl/pkg/datatypes"

// LastRunLabel returns a display timestamp for the last clustering
// run. False when the service has never run clustering (or did not
// report when), in which case nothing should be rendered.
func LastRunLabel(state *datatypes.ClusterState) (string, bool) {
	if state == nil || state.RanAt == nil || state.RanAt.IsZero() {
		return "", false
	}
	return state.RanAt.UTC().Format("2006-01-02 15:04 UTC"), true
}

// StalenessWarning returns the warning to show when cluster results
// are out of date. A warning needs both the stale flag and a reason;
// a bare flag with no reason renders nothing rather than an empty
// banner.
func StalenessWarning(state *datatypes.ClusterState) (string, bool) {
	if state == nil || !state.IsStale || state.StaleReason == "" {
		return "", false
	}
	return state.StaleReason, true
}
