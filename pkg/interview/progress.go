// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package interview

// Category is one of the six diagnostic themes an interview walks
// through, in canonical order.
type Category struct {
	// Key is the wire identifier, e.g. "time_management".
	Key string
	// Name is the English display name.
	Name string
	// Arabic is the Arabic display name.
	Arabic string
}

// categories holds the canonical order. Positions are 1-based in the
// tracker API.
var categories = [...]Category{
	{Key: "strategic_implementation", Name: "Strategic Implementation", Arabic: "التنفيذ الاستراتيجي"},
	{Key: "working_conditions", Name: "Working Conditions", Arabic: "ظروف العمل"},
	{Key: "work_organization", Name: "Work Organization", Arabic: "تنظيم العمل"},
	{Key: "time_management", Name: "Time Management", Arabic: "إدارة الوقت"},
	{Key: "communication_coordination_cooperation", Name: "Communication, Coordination & Cooperation (3Cs)", Arabic: "التواصل والتنسيق والتعاون (3Cs)"},
	{Key: "integrated_training", Name: "Integrated Training", Arabic: "التدريب المتكامل"},
}

// CategoryCount is the number of interview categories.
const CategoryCount = len(categories)

var categoryPosition = func() map[string]int {
	m := make(map[string]int, len(categories))
	for i, c := range categories {
		m[c.Key] = i + 1
	}
	return m
}()

// Categories returns the six categories in canonical order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// CategoryByKey looks up a category by its wire key.
func CategoryByKey(key string) (Category, bool) {
	pos, ok := categoryPosition[key]
	if !ok {
		return Category{}, false
	}
	return categories[pos-1], true
}

// ProgressTracker tracks the interviewee's position in the category
// sequence. Positions are 1-based; zero means the interview has not
// started. Progress only moves forward: the service's hints are
// advisory and a repeated or out-of-order hint never winds it back.
//
// Not safe for concurrent use on its own; the interview machine
// serializes access.
type ProgressTracker struct {
	stage int
}

// NewProgressTracker returns a tracker at stage zero.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{}
}

// Begin moves the tracker to the first category.
func (t *ProgressTracker) Begin() {
	if t.stage < 1 {
		t.stage = 1
	}
}

// Observe applies a category hint from the service. Returns true when
// the hint named a known category. Unknown hints (including the empty
// hint sent past the last category) leave the tracker untouched.
func (t *ProgressTracker) Observe(hint string) bool {
	pos, ok := categoryPosition[hint]
	if !ok {
		return false
	}
	if pos > t.stage {
		t.stage = pos
	}
	return true
}

// Stage returns the 1-based position, or zero before Begin.
func (t *ProgressTracker) Stage() int {
	return t.stage
}

// Percent returns stage/6 as a percentage. Stage 3 is exactly 50.
func (t *ProgressTracker) Percent() float64 {
	return float64(t.stage) / float64(CategoryCount) * 100
}

// Current returns the category in play, or false before Begin.
func (t *ProgressTracker) Current() (Category, bool) {
	if t.stage < 1 || t.stage > len(categories) {
		return Category{}, false
	}
	return categories[t.stage-1], true
}
