// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewSpinner_Defaults(t *testing.T) {
	s := NewSpinner("loading")
	if s.message != "loading" {
		t.Errorf("expected message %q, got %q", "loading", s.message)
	}
	if s.spinType != SpinnerDots {
		t.Errorf("expected dots spinner by default, got %v", s.spinType)
	}
}

func TestSpinner_WithType(t *testing.T) {
	s := NewSpinner("loading").WithType(SpinnerClock)
	if s.spinType != SpinnerClock {
		t.Errorf("expected clock spinner, got %v", s.spinType)
	}
}

func TestSpinner_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	var buf bytes.Buffer
	s := NewSpinner("fetching sessions").WithWriter(&buf)

	s.Start()
	s.Stop()

	if buf.String() != "PROGRESS: fetching sessions\n" {
		t.Errorf("expected single progress line, got %q", buf.String())
	}
}

func TestSpinner_MachineMode_DoubleStart(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	var buf bytes.Buffer
	s := NewSpinner("working").WithWriter(&buf)

	s.Start()
	s.Start()

	if got := strings.Count(buf.String(), "PROGRESS:"); got != 1 {
		t.Errorf("expected one progress line after double start, got %d", got)
	}
}

func TestSpinner_StartStop(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityFull)

	var buf bytes.Buffer
	s := NewSpinner("loading dashboard").WithWriter(&buf)

	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "loading dashboard") {
		t.Errorf("expected spinner message in output, got %q", out)
	}
	if !strings.Contains(out, "\r\033[K") {
		t.Error("expected line clear after stop")
	}

	// Stopping again is a no-op.
	s.Stop()
}

func TestSpinner_UpdateMessage(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityFull)

	var buf bytes.Buffer
	s := NewSpinner("first").WithWriter(&buf)

	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.UpdateMessage("second")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "second") {
		t.Errorf("expected updated message in output, got %q", buf.String())
	}
}

func TestSpinner_StopWithSuccess(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	var buf bytes.Buffer
	s := NewSpinner("exporting").WithWriter(&buf)
	s.Start()

	output := captureStdout(func() {
		s.StopWithSuccess("export complete")
	})

	if output != "OK: export complete\n" {
		t.Errorf("expected success line, got %q", output)
	}
}

func TestWithSpinner_Success(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	called := false
	output := captureStdout(func() {
		if err := WithSpinner("running clusters", func() error {
			called = true
			return nil
		}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	if !called {
		t.Error("expected function to run")
	}
	if !strings.Contains(output, "PROGRESS: running clusters") {
		t.Errorf("expected progress line, got %q", output)
	}
	if !strings.Contains(output, "OK: running clusters") {
		t.Errorf("expected success line, got %q", output)
	}
}

func TestWithSpinner_Error(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	boom := errors.New("connection refused")

	var err error
	errOut := captureStderr(func() {
		err = WithSpinner("loading detail", func() error {
			return boom
		})
	})

	if !errors.Is(err, boom) {
		t.Errorf("expected original error back, got %v", err)
	}
	if !strings.Contains(errOut, "loading detail: connection refused") {
		t.Errorf("expected error line with cause, got %q", errOut)
	}
}
