// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"testing"
)

// =============================================================================
// ParsePersonalityLevel Tests
// =============================================================================

func TestParsePersonalityLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected PersonalityLevel
	}{
		{"full", PersonalityFull},
		{"f", PersonalityFull},
		{"FULL", PersonalityFull},
		{"standard", PersonalityStandard},
		{"std", PersonalityStandard},
		{"s", PersonalityStandard},
		{"minimal", PersonalityMinimal},
		{"min", PersonalityMinimal},
		{"m", PersonalityMinimal},
		{"machine", PersonalityMachine},
		{"quiet", PersonalityMachine},
		{"q", PersonalityMachine},
		{"  machine  ", PersonalityMachine},
		{"unknown", PersonalityStandard},
		{"", PersonalityStandard},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParsePersonalityLevel(tt.input); got != tt.expected {
				t.Errorf("ParsePersonalityLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// =============================================================================
// Get/Set Tests
// =============================================================================

func TestSetPersonality(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonality(Personality{
		Level:     PersonalityMinimal,
		Bilingual: false,
		ShowHints: false,
	})

	p := GetPersonality()
	if p.Level != PersonalityMinimal {
		t.Errorf("expected minimal level, got %v", p.Level)
	}
	if p.Bilingual {
		t.Error("expected bilingual disabled")
	}
	if p.ShowHints {
		t.Error("expected hints disabled")
	}
}

func TestSetPersonalityLevel_PreservesOtherFields(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonality(Personality{
		Level:     PersonalityFull,
		Bilingual: true,
		ShowHints: true,
	})
	SetPersonalityLevel(PersonalityMachine)

	p := GetPersonality()
	if p.Level != PersonalityMachine {
		t.Errorf("expected machine level, got %v", p.Level)
	}
	if !p.Bilingual {
		t.Error("level change should not touch bilingual flag")
	}
	if !p.ShowHints {
		t.Error("level change should not touch hints flag")
	}
}

func TestDefaultPersonality(t *testing.T) {
	p := DefaultPersonality()
	if p.Level != PersonalityFull {
		t.Errorf("expected full level by default, got %v", p.Level)
	}
	if !p.Bilingual {
		t.Error("expected bilingual on by default")
	}
	if !p.ShowHints {
		t.Error("expected hints on by default")
	}
}

// =============================================================================
// InitPersonality Tests
// =============================================================================

func TestInitPersonality_EnvOverride(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	t.Setenv("SEAMCTL_PERSONALITY", "machine")
	InitPersonality()

	if got := GetPersonality().Level; got != PersonalityMachine {
		t.Errorf("expected machine level from env, got %v", got)
	}
}

func TestInitPersonality_EnvMinimal(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	t.Setenv("SEAMCTL_PERSONALITY", "min")
	InitPersonality()

	if got := GetPersonality().Level; got != PersonalityMinimal {
		t.Errorf("expected minimal level from env, got %v", got)
	}
}

func TestInitPersonality_NoTerminal(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	// Under go test stdout is a pipe, so without the env override the
	// non-terminal path must select machine format.
	t.Setenv("SEAMCTL_PERSONALITY", "")
	InitPersonality()

	if got := GetPersonality().Level; got != PersonalityMachine {
		t.Errorf("expected machine level for piped output, got %v", got)
	}
}

// =============================================================================
// Query Helper Tests
// =============================================================================

func TestIsInteractive(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)
	if IsInteractive() {
		t.Error("machine mode must not be interactive")
	}
}

func TestShouldShowProgress(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)
	if ShouldShowProgress() {
		t.Error("machine mode must not animate progress")
	}

	SetPersonalityLevel(PersonalityFull)
	if !ShouldShowProgress() {
		t.Error("full mode should show progress")
	}
}

func TestShouldShowColors(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)
	if ShouldShowColors() {
		t.Error("machine mode must not colorize")
	}

	SetPersonalityLevel(PersonalityStandard)
	if !ShouldShowColors() {
		t.Error("standard mode should colorize")
	}
}
