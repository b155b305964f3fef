// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bidi

import "testing"

func TestChatDirection_CountBased(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"pure english", "the meetings run too long", LeftToRight},
		{"pure arabic", "الاجتماعات طويلة جدا", RightToLeft},
		{"arabic minority stays ltr", "we say يلا and move on", LeftToRight},
		{"three arabic five latin", "abcde يلا", LeftToRight},
		{"arabic majority flips", "قال lead المدير يتأخر دائما", RightToLeft},
		{"tie stays ltr", "abc نعم", LeftToRight},
		{"empty", "", LeftToRight},
		{"digits and punctuation only", "12:30 - 14:00!", LeftToRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChatDirection(tt.text); got != tt.want {
				t.Errorf("ChatDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNoteDirection_PresenceBased(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"single arabic char flips", "deadline slipped because of قسم delays", RightToLeft},
		{"arabic only", "غياب التقدير", RightToLeft},
		{"no arabic", "role ambiguity between teams", LeftToRight},
		{"empty", "", LeftToRight},
		{"presentation form block", "ﺍ", RightToLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoteDirection(tt.text); got != tt.want {
				t.Errorf("NoteDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// The two policies must disagree on mostly-Latin text containing a
// little Arabic: notes flip, chat does not.
func TestPolicyAsymmetry(t *testing.T) {
	text := "the توقيع process takes three weeks"
	if got := ChatDirection(text); got != LeftToRight {
		t.Errorf("ChatDirection = %v, want LeftToRight", got)
	}
	if got := NoteDirection(text); got != RightToLeft {
		t.Errorf("NoteDirection = %v, want RightToLeft", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "our onboarding is basically nonexistent", "en"},
		{"arabic", "لا يوجد تدريب للموظفين الجدد", "ar"},
		{"mixed", "المدير said نعم to the plan", "mixed"},
		{"empty defaults en", "", "en"},
		{"numbers only default en", "404", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsArabicRune(t *testing.T) {
	if !IsArabicRune('م') {
		t.Error("expected م to be Arabic")
	}
	if !IsArabicRune(rune(0x0750)) {
		t.Error("expected U+0750 to be Arabic")
	}
	if IsArabicRune('m') {
		t.Error("expected m to not be Arabic")
	}
	if IsArabicRune('7') {
		t.Error("expected 7 to not be Arabic")
	}
}

func TestDirectionString(t *testing.T) {
	if LeftToRight.String() != "ltr" || RightToLeft.String() != "rtl" {
		t.Errorf("unexpected Direction strings: %q, %q", LeftToRight, RightToLeft)
	}
}
