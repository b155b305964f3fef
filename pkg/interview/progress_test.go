// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package interview

import "testing"

func TestCategories_CanonicalOrder(t *testing.T) {
	want := []string{
		"strategic_implementation",
		"working_conditions",
		"work_organization",
		"time_management",
		"communication_coordination_cooperation",
		"integrated_training",
	}
	got := Categories()
	if len(got) != CategoryCount {
		t.Fatalf("expected %d categories, got %d", CategoryCount, len(got))
	}
	for i, key := range want {
		if got[i].Key != key {
			t.Errorf("position %d: %q, want %q", i+1, got[i].Key, key)
		}
		if got[i].Name == "" || got[i].Arabic == "" {
			t.Errorf("category %q missing display names", key)
		}
	}
}

func TestCategoryByKey(t *testing.T) {
	cat, ok := CategoryByKey("time_management")
	if !ok {
		t.Fatal("time_management should be known")
	}
	if cat.Name != "Time Management" || cat.Arabic != "إدارة الوقت" {
		t.Errorf("category %+v", cat)
	}

	if _, ok := CategoryByKey("quality_circles"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestProgressTracker_Lifecycle(t *testing.T) {
	tr := NewProgressTracker()

	if tr.Stage() != 0 {
		t.Errorf("new tracker stage %d", tr.Stage())
	}
	if _, ok := tr.Current(); ok {
		t.Error("no current category before Begin")
	}
	if tr.Percent() != 0 {
		t.Errorf("percent before Begin: %v", tr.Percent())
	}

	tr.Begin()
	if tr.Stage() != 1 {
		t.Errorf("stage after Begin: %d", tr.Stage())
	}

	// Begin again does not reset progress.
	tr.Observe("work_organization")
	tr.Begin()
	if tr.Stage() != 3 {
		t.Errorf("Begin after Observe regressed to %d", tr.Stage())
	}
}

func TestProgressTracker_Observe(t *testing.T) {
	tr := NewProgressTracker()
	tr.Begin()

	if !tr.Observe("working_conditions") {
		t.Error("known hint should be recognized")
	}
	if tr.Stage() != 2 {
		t.Errorf("stage %d after working_conditions", tr.Stage())
	}

	// A repeated or earlier hint never winds progress back.
	if !tr.Observe("strategic_implementation") {
		t.Error("earlier hint is still recognized")
	}
	if tr.Stage() != 2 {
		t.Errorf("earlier hint regressed stage to %d", tr.Stage())
	}

	// Unknown hints change nothing.
	if tr.Observe("") {
		t.Error("empty hint should not be recognized")
	}
	if tr.Observe("made_up_category") {
		t.Error("unknown hint should not be recognized")
	}
	if tr.Stage() != 2 {
		t.Errorf("unknown hint moved stage to %d", tr.Stage())
	}

	tr.Observe("integrated_training")
	if tr.Stage() != 6 {
		t.Errorf("final stage %d", tr.Stage())
	}
	if cat, _ := tr.Current(); cat.Key != "integrated_training" {
		t.Errorf("current %q", cat.Key)
	}
}

func TestProgressTracker_PercentExact(t *testing.T) {
	tr := NewProgressTracker()
	tr.Begin()
	tr.Observe("work_organization")

	// Stage 3 of 6 is exactly half.
	if tr.Percent() != 50 {
		t.Errorf("stage 3 percent %v, want exactly 50", tr.Percent())
	}

	tr.Observe("integrated_training")
	if tr.Percent() != 100 {
		t.Errorf("stage 6 percent %v, want exactly 100", tr.Percent())
	}
}
