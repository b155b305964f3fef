// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package bidi classifies text directionality for bilingual
// (Arabic/English) rendering.
//
// Two policies coexist on purpose. Chat content flips to right-to-left
// only when Arabic characters outnumber Latin letters, so a mostly
// English sentence quoting a couple of Arabic words stays left-to-right.
// Field notes flip as soon as a single Arabic character appears, because
// anonymized excerpts are short and a lone Arabic fragment reads wrong
// when left-aligned. Direction affects presentation only, never data.
package bidi

import "unicode"

// Direction is the resolved rendering direction for a piece of text.
type Direction int

const (
	// LeftToRight renders with default (Latin) alignment.
	LeftToRight Direction = iota

	// RightToLeft renders with Arabic alignment.
	RightToLeft
)

// String returns "ltr" or "rtl".
func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// arabicRanges covers the Arabic script blocks the interview service
// emits: basic, supplement, extended-A, and both presentation-form
// blocks.
var arabicRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06FF, Stride: 1},
		{Lo: 0x0750, Hi: 0x077F, Stride: 1},
		{Lo: 0x08A0, Hi: 0x08FF, Stride: 1},
		{Lo: 0xFB50, Hi: 0xFDFF, Stride: 1},
		{Lo: 0xFE70, Hi: 0xFEFF, Stride: 1},
	},
}

// IsArabicRune reports whether r falls in an Arabic script block.
func IsArabicRune(r rune) bool {
	return unicode.Is(arabicRanges, r)
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func counts(s string) (arabic, latin int) {
	for _, r := range s {
		switch {
		case IsArabicRune(r):
			arabic++
		case isLatinLetter(r):
			latin++
		}
	}
	return arabic, latin
}

// ChatDirection resolves direction for free-form chat content and
// composed input. Right-to-left only when Arabic runes outnumber Latin
// letters; ties stay left-to-right.
func ChatDirection(s string) Direction {
	arabic, latin := counts(s)
	if arabic > latin {
		return RightToLeft
	}
	return LeftToRight
}

// NoteDirection resolves direction for field-note text. One Arabic rune
// is enough to flip right-to-left.
func NoteDirection(s string) Direction {
	for _, r := range s {
		if IsArabicRune(r) {
			return RightToLeft
		}
	}
	return LeftToRight
}

// DetectLanguage labels s "ar", "en", or "mixed" using the same
// character-ratio rule as the interview service, so locally archived
// transcripts carry the language tags the server would assign. Empty or
// symbol-only text defaults to "en".
func DetectLanguage(s string) string {
	arabic, latin := counts(s)
	total := arabic + latin
	if total == 0 {
		return "en"
	}
	ratio := float64(arabic) / float64(total)
	switch {
	case ratio > 0.6:
		return "ar"
	case ratio < 0.2:
		return "en"
	default:
		return "mixed"
	}
}
