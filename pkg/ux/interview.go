// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides user experience components for seamctl.
//
// This file contains the interview terminal UI. Interview content is
// bilingual: replies resolve their rendering direction through the
// bidi package, and right-to-left text is right-aligned so Arabic
// reads naturally in the terminal.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamWorks/seamctl/pkg/bidi"
	"github.com/SeamWorks/seamctl/pkg/datatypes"
)

// IntakeSummary carries the fields shown in the interview header.
//
// # Description
//
// IntakeSummary groups the intake values confirmed before the first
// turn. It mirrors what the service records so the participant sees
// exactly the identity the interview will run under.
//
// # Fields
//
//   - SessionID: Server-assigned session identifier.
//   - ParticipantCode: Anonymous participant label ("P-XXXXXX").
//   - Department: Free-text department name. May be empty.
//   - RoleLevel: "operational", "managerial", "executive", or empty.
//   - LanguagePref: "en", "ar", or "auto".
type IntakeSummary struct {
	SessionID       string
	ParticipantCode string
	Department      string
	RoleLevel       string
	LanguagePref    string
}

// InterviewUI abstracts interview display for personality-aware
// terminal output. Implementations own all formatting state; callers
// invoke methods in conversation order.
type InterviewUI interface {
	// Header displays the interview session header after intake.
	Header(intake IntakeSummary)

	// Greeting displays the opening message from the interviewer.
	Greeting(text string)

	// Prompt returns the styled input prompt string.
	Prompt() string

	// Reply displays an interviewer reply, right-aligned when Arabic.
	Reply(text string)

	// Progress displays category coverage after a reply advances it.
	Progress(stage, total int, name, arabic string)

	// Notice displays a transient advisory line (reply pending, etc).
	Notice(text string)

	// Error displays an interview error message.
	Error(err error)

	// Closing displays the end-of-interview panel. Stats may be nil
	// when the end call failed; the interview still reads as closed.
	Closing(stats *datatypes.EndInterviewResponse)

	// Status displays a session status snapshot.
	Status(st *datatypes.InterviewStatusResponse)
}

// terminalInterviewUI implements InterviewUI for terminal output
type terminalInterviewUI struct {
	writer      io.Writer
	personality PersonalityLevel
	bilingual   bool
	hints       bool
	width       int
}

// NewInterviewUI creates a terminal InterviewUI using the current
// personality settings.
func NewInterviewUI() InterviewUI {
	p := GetPersonality()
	return &terminalInterviewUI{
		writer:      os.Stdout,
		personality: p.Level,
		bilingual:   p.Bilingual,
		hints:       p.ShowHints,
		width:       72,
	}
}

// NewInterviewUIWithWriter creates an InterviewUI with a custom writer (for testing)
func NewInterviewUIWithWriter(w io.Writer, personality PersonalityLevel) InterviewUI {
	return &terminalInterviewUI{
		writer:      w,
		personality: personality,
		bilingual:   true,
		hints:       true,
		width:       72,
	}
}

// write is a helper that writes formatted output and handles errors.
// Errors are silently ignored as there's no meaningful recovery for terminal output.
func (u *terminalInterviewUI) write(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(u.writer, format, args...); err != nil {
		return
	}
}

// writeln is a helper that writes a line and handles errors.
func (u *terminalInterviewUI) writeln(args ...interface{}) {
	if _, err := fmt.Fprintln(u.writer, args...); err != nil {
		return
	}
}

// directional renders text with right alignment when its chat
// direction resolves right-to-left.
func (u *terminalInterviewUI) directional(text string) string {
	if bidi.ChatDirection(text) == bidi.RightToLeft {
		return lipgloss.NewStyle().Width(u.width).Align(lipgloss.Right).Render(text)
	}
	return text
}

// Header displays the interview session header.
func (u *terminalInterviewUI) Header(intake IntakeSummary) {
	if u.personality == PersonalityMachine {
		parts := []string{fmt.Sprintf("session=%s participant=%s", intake.SessionID, intake.ParticipantCode)}
		if intake.Department != "" {
			parts = append(parts, fmt.Sprintf("department=%q", intake.Department))
		}
		if intake.RoleLevel != "" {
			parts = append(parts, fmt.Sprintf("role=%s", intake.RoleLevel))
		}
		if intake.LanguagePref != "" {
			parts = append(parts, fmt.Sprintf("lang=%s", intake.LanguagePref))
		}
		u.write("INTERVIEW_START: %s\n", strings.Join(parts, " "))
		return
	}

	if u.personality == PersonalityMinimal {
		u.write("Interview started as %s\n", intake.ParticipantCode)
		if intake.Department != "" {
			u.write("Department: %s\n", intake.Department)
		}
		u.writeln("Type 'exit' to finish.")
		return
	}

	var content strings.Builder
	content.WriteString(Styles.Highlight.Render("SEAM Diagnostic Interview"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("Participant: %s", Styles.Success.Render(intake.ParticipantCode)))
	if intake.Department != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Department: %s", Styles.Success.Render(intake.Department)))
		if intake.RoleLevel != "" {
			content.WriteString(fmt.Sprintf(" | Role: %s", Styles.Success.Render(intake.RoleLevel)))
		}
	} else if intake.RoleLevel != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Role: %s", Styles.Success.Render(intake.RoleLevel)))
	}
	if intake.LanguagePref != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Language: %s", Styles.Success.Render(intake.LanguagePref)))
	}
	if intake.SessionID != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Session: %s", Styles.Muted.Render(intake.SessionID)))
	}

	boxStyle := Styles.Box.Width(60)
	u.writeln(boxStyle.Render(content.String()))
	if u.hints {
		u.writeln()
		u.writeln(Styles.Muted.Render("Answer in English or Arabic. Type 'exit' to finish."))
	}
	u.writeln()
}

// Greeting displays the opening message from the interviewer.
func (u *terminalInterviewUI) Greeting(text string) {
	if u.personality == PersonalityMachine {
		u.write("GREETING: %s\n", text)
		return
	}
	u.writeln(u.directional(text))
	u.writeln()
}

// Prompt returns the styled input prompt string
func (u *terminalInterviewUI) Prompt() string {
	if u.personality == PersonalityMachine {
		return "> "
	}
	return Styles.Highlight.Render("> ")
}

// Reply displays an interviewer reply.
func (u *terminalInterviewUI) Reply(text string) {
	if u.personality == PersonalityMachine {
		u.write("REPLY: %s\n", text)
		return
	}
	u.writeln()
	u.writeln(u.directional(text))
	u.writeln()
}

// Progress displays category coverage.
func (u *terminalInterviewUI) Progress(stage, total int, name, arabic string) {
	switch u.personality {
	case PersonalityMachine:
		u.write("PROGRESS: category=%d/%d name=%q\n", stage, total, name)
	case PersonalityMinimal:
		u.write("[%d/%d] %s\n", stage, total, name)
	default:
		label := Styles.Subtitle.Render(name)
		if u.bilingual && arabic != "" {
			label = fmt.Sprintf("%s %s", label, Styles.Arabic.Render(arabic))
		}
		u.write("%s %s\n", renderBar(stage, total, 18), label)
	}
}

// Notice displays a transient advisory line.
func (u *terminalInterviewUI) Notice(text string) {
	if u.personality == PersonalityMachine {
		u.write("NOTICE: %s\n", text)
		return
	}
	u.write("%s %s\n", IconClock.Render(), Styles.Muted.Render(text))
}

// Error displays an interview error message.
func (u *terminalInterviewUI) Error(err error) {
	if u.personality == PersonalityMachine {
		u.write("INTERVIEW_ERROR: %v\n", err)
		return
	}
	u.write("%s %s\n", IconError.Render(), Styles.Error.Render(fmt.Sprintf("%v", err)))
}

// Closing displays the end-of-interview panel.
//
// # Description
//
// Renders the closing panel. When stats is nil the end call did not
// return session totals; the interview is still presented as closed,
// just without the numbers.
//
// # Inputs
//
//   - stats: Totals from the end call. May be nil.
func (u *terminalInterviewUI) Closing(stats *datatypes.EndInterviewResponse) {
	if u.personality == PersonalityMachine {
		if stats == nil {
			u.writeln("INTERVIEW_END: stats=unavailable")
			return
		}
		u.write("INTERVIEW_END: session=%s status=%s messages=%d field_notes=%d\n",
			stats.SessionID, stats.Status, stats.TotalMessages, stats.FieldNotesCount)
		return
	}

	if stats == nil {
		u.writeln("Interview ended.")
		u.writeln(Styles.Muted.Render("Closing details were not available; the session is closed."))
		return
	}

	var content strings.Builder
	content.WriteString(fmt.Sprintf("Messages exchanged: %s", Styles.Bold.Render(fmt.Sprintf("%d", stats.TotalMessages))))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("Field notes captured: %s", Styles.Bold.Render(fmt.Sprintf("%d", stats.FieldNotesCount))))
	if stats.SessionID != "" {
		content.WriteString("\n")
		content.WriteString(Styles.Muted.Render(fmt.Sprintf("Session: %s", stats.SessionID)))
	}

	boxStyle := Styles.InfoBox.Width(60)
	titleLine := Styles.Title.Render("Interview complete")
	u.writeln(boxStyle.Render(titleLine + "\n" + content.String()))
	u.writeln(Styles.Muted.Render("Thank you for participating."))
}

// Status displays a session status snapshot.
func (u *terminalInterviewUI) Status(st *datatypes.InterviewStatusResponse) {
	if u.personality == PersonalityMachine {
		u.write("STATUS: session=%s status=%s category=%d name=%q progress=%d\n",
			st.SessionID, st.Status, st.CurrentCategoryIndex, st.CurrentCategory, st.Progress)
		return
	}

	u.write("%s %s\n", Styles.Muted.Render(fmt.Sprintf("%-10s", "Session:")), st.SessionID)
	u.write("%s %s\n", Styles.Muted.Render(fmt.Sprintf("%-10s", "Status:")), st.Status)
	if st.CurrentCategory != "" {
		u.write("%s %s\n", Styles.Muted.Render(fmt.Sprintf("%-10s", "Category:")), st.CurrentCategory)
	}
	u.write("%s %s\n", Styles.Muted.Render(fmt.Sprintf("%-10s", "Progress:")), renderBar(st.Progress, 100, 18))
}

// =============================================================================
// Compile-time Interface Check
// =============================================================================

var _ InterviewUI = (*terminalInterviewUI)(nil)
