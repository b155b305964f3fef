// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// Helper to capture stdout
func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// Helper to capture stderr
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// =============================================================================
// Icon.Render Tests
// =============================================================================

func TestIcon_Render_Styled(t *testing.T) {
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconPending} {
		if icon.Render() == "" {
			t.Errorf("expected non-empty render for %q", icon)
		}
	}
}

func TestIcon_Render_Default(t *testing.T) {
	// Icons without specific styling render as themselves
	icons := []Icon{IconArrow, IconBullet, IconNote, IconCluster, IconClock}
	for _, icon := range icons {
		if got := icon.Render(); got != string(icon) {
			t.Errorf("expected %q for %q, got %q", string(icon), icon, got)
		}
	}
}

// =============================================================================
// Print Helper Tests
// =============================================================================

func TestTitle_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Title("Test Title")
	})

	if output != "" {
		t.Errorf("expected no output in machine mode, got %q", output)
	}
}

func TestTitle_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Title("Test Title")
	})

	if !strings.Contains(output, "Test Title") {
		t.Errorf("expected title text in output, got %q", output)
	}
}

func TestSuccess_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Success("logged in")
	})

	if output != "OK: logged in\n" {
		t.Errorf("expected machine-format success, got %q", output)
	}
}

func TestSuccess_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Success("logged in")
	})

	if !strings.Contains(output, "logged in") {
		t.Errorf("expected message in output, got %q", output)
	}
}

func TestWarning_MachineModeGoesToStderr(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	errOut := captureStderr(func() {
		Warning("token expired")
	})

	if errOut != "WARN: token expired\n" {
		t.Errorf("expected machine warning on stderr, got %q", errOut)
	}
}

func TestError_MachineModeGoesToStderr(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	errOut := captureStderr(func() {
		Error("request failed")
	})

	if errOut != "ERROR: request failed\n" {
		t.Errorf("expected machine error on stderr, got %q", errOut)
	}
}

func TestInfo(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)
	output := captureStdout(func() {
		Info("plain line")
	})
	if output != "plain line\n" {
		t.Errorf("expected plain line in machine mode, got %q", output)
	}

	SetPersonalityLevel(PersonalityFull)
	output = captureStdout(func() {
		Info("styled line")
	})
	if !strings.Contains(output, "styled line") {
		t.Errorf("expected message in full mode, got %q", output)
	}
}

func TestMuted_MachineModeSilent(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Muted("hint text")
	})

	if output != "" {
		t.Errorf("expected no muted output in machine mode, got %q", output)
	}
}

func TestKeyValue(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)
	output := captureStdout(func() {
		KeyValue("Session ID", "abc-123")
	})
	if output != "session_id=abc-123\n" {
		t.Errorf("expected machine key=value, got %q", output)
	}

	SetPersonalityLevel(PersonalityFull)
	output = captureStdout(func() {
		KeyValue("Session ID", "abc-123")
	})
	if !strings.Contains(output, "Session ID:") || !strings.Contains(output, "abc-123") {
		t.Errorf("expected aligned key/value, got %q", output)
	}
}

func TestBox_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Box("Status", "ready")
	})

	if output != "Status: ready\n" {
		t.Errorf("expected flat box output in machine mode, got %q", output)
	}
}

func TestBox_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Box("Status", "ready")
	})

	if !strings.Contains(output, "Status") || !strings.Contains(output, "ready") {
		t.Errorf("expected box content, got %q", output)
	}
}

func TestWarningBox_MachineModeGoesToStderr(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	errOut := captureStderr(func() {
		WarningBox("Stale", "clusters outdated")
	})

	if errOut != "WARN Stale: clusters outdated\n" {
		t.Errorf("expected machine warning box on stderr, got %q", errOut)
	}
}

// =============================================================================
// ProgressBar Tests
// =============================================================================

func TestProgressBar_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	if got := ProgressBar(3, 6, 18); got != "3/6" {
		t.Errorf("expected plain fraction in machine mode, got %q", got)
	}
}

func TestProgressBar_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	got := ProgressBar(3, 6, 18)
	if !strings.Contains(got, "50%") {
		t.Errorf("expected 50%% in bar, got %q", got)
	}
}

func TestRenderBar_Bounds(t *testing.T) {
	// Overfull and negative inputs must not panic or exceed the width.
	if got := renderBar(10, 6, 12); !strings.Contains(got, "%") {
		t.Errorf("expected a percentage, got %q", got)
	}
	if got := renderBar(-1, 6, 12); !strings.Contains(got, "%") {
		t.Errorf("expected a percentage, got %q", got)
	}
	if got := renderBar(0, 0, 12); !strings.Contains(got, "%") {
		t.Errorf("zero total should not panic, got %q", got)
	}
}
