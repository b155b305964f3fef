// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides user experience components for seamctl.
//
// This file contains the consultant dashboard views: session tables,
// analytics, clusters, session detail, and conversation transcripts.
// Field-note text follows the note direction policy (a single Arabic
// character flips alignment); conversation and summary prose follow
// the chat direction policy.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamWorks/seamctl/pkg/bidi"
	"github.com/SeamWorks/seamctl/pkg/datatypes"
	"github.com/SeamWorks/seamctl/pkg/interview"
)

// DashboardUI abstracts consultant dashboard display for
// personality-aware terminal output.
type DashboardUI interface {
	// SessionTable displays the session list.
	SessionTable(sessions []datatypes.SessionRecord)

	// Analytics displays aggregate counts, category distribution, and
	// top tags.
	Analytics(a *datatypes.AnalyticsSnapshot)

	// Clusters displays the cluster list. lastRun and staleWarning are
	// pre-resolved labels; either may be empty, in which case the
	// corresponding line is omitted.
	Clusters(state *datatypes.ClusterState, lastRun, staleWarning string)

	// Detail displays one session with its field notes and summary.
	Detail(d *datatypes.SessionDetail)

	// Summary displays a generated or stored session summary.
	Summary(s *datatypes.SummaryResponse)

	// Conversation displays a full transcript.
	Conversation(c *datatypes.ConversationResponse)

	// CachedNotice announces that views are served from the local
	// snapshot because the service is unreachable.
	CachedNotice(savedAt time.Time)

	// DegradedNotice announces that one resource failed to load while
	// the rest of the dashboard remains usable.
	DegradedNotice(resource string, err error)
}

// terminalDashboardUI implements DashboardUI for terminal output
type terminalDashboardUI struct {
	writer      io.Writer
	personality PersonalityLevel
	bilingual   bool
	width       int
}

// NewDashboardUI creates a terminal DashboardUI using the current
// personality settings.
func NewDashboardUI() DashboardUI {
	p := GetPersonality()
	return &terminalDashboardUI{
		writer:      os.Stdout,
		personality: p.Level,
		bilingual:   p.Bilingual,
		width:       72,
	}
}

// NewDashboardUIWithWriter creates a DashboardUI with a custom writer (for testing)
func NewDashboardUIWithWriter(w io.Writer, personality PersonalityLevel) DashboardUI {
	return &terminalDashboardUI{
		writer:      w,
		personality: personality,
		bilingual:   true,
		width:       72,
	}
}

func (u *terminalDashboardUI) write(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(u.writer, format, args...); err != nil {
		return
	}
}

func (u *terminalDashboardUI) writeln(args ...interface{}) {
	if _, err := fmt.Fprintln(u.writer, args...); err != nil {
		return
	}
}

// noteAligned renders field-note text with right alignment when a
// single Arabic character is present.
func (u *terminalDashboardUI) noteAligned(text string) string {
	if bidi.NoteDirection(text) == bidi.RightToLeft {
		return lipgloss.NewStyle().Width(u.width).Align(lipgloss.Right).Render(text)
	}
	return text
}

// chatAligned renders conversation prose with right alignment when
// Arabic outweighs Latin.
func (u *terminalDashboardUI) chatAligned(text string) string {
	if bidi.ChatDirection(text) == bidi.RightToLeft {
		return lipgloss.NewStyle().Width(u.width).Align(lipgloss.Right).Render(text)
	}
	return text
}

// categoryLabel resolves a category key to its display name, with the
// Arabic name appended in bilingual mode. Unknown keys pass through.
func (u *terminalDashboardUI) categoryLabel(key string) string {
	cat, ok := interview.CategoryByKey(key)
	if !ok {
		return key
	}
	if u.bilingual && u.personality != PersonalityMinimal {
		return fmt.Sprintf("%s %s", cat.Name, Styles.Arabic.Render(cat.Arabic))
	}
	return cat.Name
}

// =============================================================================
// Session List
// =============================================================================

// SessionTable displays the session list.
func (u *terminalDashboardUI) SessionTable(sessions []datatypes.SessionRecord) {
	if u.personality == PersonalityMachine {
		if len(sessions) == 0 {
			u.writeln("SESSIONS: none")
			return
		}
		for _, s := range sessions {
			u.write("SESSION: id=%s participant=%s department=%q status=%s messages=%d notes=%d summary=%t\n",
				s.ID, s.ParticipantCode, s.Department, s.Status, s.MessageCount, s.FieldNotesCount, s.HasSummary)
		}
		return
	}

	if len(sessions) == 0 {
		u.writeln(Styles.Muted.Render("No sessions found."))
		return
	}

	header := fmt.Sprintf("%s %s %s %s %s %s %s",
		pad("ID", 10), pad("PARTICIPANT", 12), pad("DEPARTMENT", 18),
		pad("STATUS", 12), pad("MSGS", 5), pad("NOTES", 6), "CREATED")
	if u.personality == PersonalityMinimal {
		u.writeln(header)
	} else {
		u.writeln(Styles.Subtitle.Render(header))
	}

	for _, s := range sessions {
		status := s.Status
		if u.personality != PersonalityMinimal {
			if s.Completed() {
				status = fmt.Sprintf("%s %s", IconSuccess.Render(), s.Status)
			} else {
				status = fmt.Sprintf("%s %s", IconPending.Render(), s.Status)
			}
		}
		created := s.CreatedAt.Time.Format("2006-01-02")
		notes := fmt.Sprintf("%d", s.FieldNotesCount)
		if s.HasSummary && u.personality != PersonalityMinimal {
			notes = fmt.Sprintf("%d %s", s.FieldNotesCount, string(IconNote))
		}
		u.write("%s %s %s %s %s %s %s\n",
			pad(shortID(s.ID), 10),
			pad(s.ParticipantCode, 12),
			pad(clip(s.Department, 17), 18),
			pad(status, 12),
			pad(fmt.Sprintf("%d", s.MessageCount), 5),
			pad(notes, 6),
			Styles.Muted.Render(created))
	}
	u.writeln()
	u.writeln(Styles.Muted.Render(fmt.Sprintf("%d session(s)", len(sessions))))
}

// =============================================================================
// Analytics
// =============================================================================

// Analytics displays aggregate counts, category distribution, and top tags.
func (u *terminalDashboardUI) Analytics(a *datatypes.AnalyticsSnapshot) {
	if u.personality == PersonalityMachine {
		u.write("ANALYTICS: sessions=%d completed=%d field_notes=%d\n",
			a.TotalSessions, a.CompletedSessions, a.TotalFieldNotes)
		for _, c := range a.CategoryDistribution {
			u.write("CATEGORY: key=%s count=%d pct=%.1f\n", c.Category, c.Count, c.Percentage)
		}
		for _, tg := range a.TopTags {
			u.write("TAG: name=%s count=%d\n", tg.Tag, tg.Count)
		}
		return
	}

	u.write("%s %s  %s %s  %s %s\n",
		Styles.Bold.Render(fmt.Sprintf("%d", a.TotalSessions)), Styles.Muted.Render("sessions"),
		Styles.Success.Render(fmt.Sprintf("%d", a.CompletedSessions)), Styles.Muted.Render("completed"),
		Styles.Bold.Render(fmt.Sprintf("%d", a.TotalFieldNotes)), Styles.Muted.Render("field notes"),
	)

	if len(a.CategoryDistribution) > 0 {
		u.writeln()
		u.writeln(Styles.Subtitle.Render("Category distribution"))
		for _, c := range a.CategoryDistribution {
			u.write("%s %s\n", renderBar(int(c.Percentage+0.5), 100, 18), u.categoryLabel(c.Category))
		}
	}

	if len(a.TopTags) > 0 {
		u.writeln()
		u.writeln(Styles.Subtitle.Render("Top tags"))
		for _, tg := range a.TopTags {
			u.write("  %s %s %s\n", IconBullet.Render(), tg.Tag, Styles.Muted.Render(fmt.Sprintf("×%d", tg.Count)))
		}
	}
}

// =============================================================================
// Clusters
// =============================================================================

// Clusters displays the cluster list with freshness context.
func (u *terminalDashboardUI) Clusters(state *datatypes.ClusterState, lastRun, staleWarning string) {
	if u.personality == PersonalityMachine {
		if state == nil || len(state.Clusters) == 0 {
			u.writeln("CLUSTERS: none")
			return
		}
		u.write("CLUSTERS: count=%d stale=%t\n", len(state.Clusters), state.IsStale)
		if staleWarning != "" {
			u.write("STALE: %s\n", staleWarning)
		}
		for _, c := range state.Clusters {
			u.write("CLUSTER: id=%d size=%d category=%q text=%q\n",
				c.ClusterID, c.Size, c.Category, c.RepresentativeText)
		}
		return
	}

	if state == nil || len(state.Clusters) == 0 {
		u.writeln(Styles.Muted.Render("No clusters computed yet. Run 'seamctl dashboard clusters --run'."))
		return
	}

	if staleWarning != "" {
		u.write("%s %s\n", IconWarning.Render(), Styles.Warning.Render(staleWarning))
	}
	if lastRun != "" {
		u.writeln(Styles.Muted.Render("Last run: " + lastRun))
	}
	u.writeln()

	for _, c := range state.Clusters {
		title := fmt.Sprintf("%s Cluster %d", string(IconCluster), c.ClusterID)
		size := Styles.Muted.Render(fmt.Sprintf("(%d notes)", c.Size))
		u.write("%s %s\n", Styles.Highlight.Render(title), size)
		if c.Category != "" {
			u.write("  %s\n", u.categoryLabel(c.Category))
		}
		if c.RepresentativeText != "" {
			u.write("  %s\n", u.noteAligned(c.RepresentativeText))
		}
		if n := len(c.SampleTexts); n > 1 {
			u.writeln(Styles.Muted.Render(fmt.Sprintf("  +%d similar note(s)", n-1)))
		}
		u.writeln()
	}
}

// =============================================================================
// Session Detail
// =============================================================================

// Detail displays one session with its field notes and summary.
func (u *terminalDashboardUI) Detail(d *datatypes.SessionDetail) {
	s := d.Session

	if u.personality == PersonalityMachine {
		u.write("SESSION: id=%s participant=%s department=%q role=%s status=%s messages=%d notes=%d\n",
			s.ID, s.ParticipantCode, s.Department, s.RoleLevel, s.Status, s.MessageCount, s.FieldNotesCount)
		for _, n := range d.FieldNotes {
			u.write("NOTE: id=%s category=%s confidence=%d lang=%s text=%q\n",
				n.ID, n.PrimaryCategory, n.Confidence, n.Language, n.AnonymizedText)
		}
		if d.Summary == "" {
			u.writeln("SUMMARY: none")
		} else {
			u.write("SUMMARY: %q\n", d.Summary)
		}
		return
	}

	var content strings.Builder
	content.WriteString(fmt.Sprintf("Participant: %s", Styles.Success.Render(s.ParticipantCode)))
	if s.Department != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Department: %s", s.Department))
		if s.RoleLevel != "" {
			content.WriteString(fmt.Sprintf(" | Role: %s", s.RoleLevel))
		}
	}
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("Status: %s", s.Status))
	content.WriteString("\n")
	content.WriteString(Styles.Muted.Render(fmt.Sprintf("Started %s", s.CreatedAt.Time.Format("2006-01-02 15:04"))))
	if s.CompletedAt != nil {
		content.WriteString(Styles.Muted.Render(fmt.Sprintf(", completed %s", s.CompletedAt.Time.Format("2006-01-02 15:04"))))
	}

	boxStyle := Styles.Box.Width(60)
	titleLine := Styles.Title.Render("Session " + shortID(s.ID))
	u.writeln(boxStyle.Render(titleLine + "\n" + content.String()))
	u.writeln()

	u.writeln(Styles.Subtitle.Render(fmt.Sprintf("Field Notes (%d)", len(d.FieldNotes))))
	if len(d.FieldNotes) == 0 {
		u.writeln(Styles.Muted.Render("  (none yet)"))
	}
	for _, n := range d.FieldNotes {
		label := u.categoryLabel(n.PrimaryCategory)
		meta := Styles.Muted.Render(fmt.Sprintf("(%d%%)", n.Confidence))
		u.write("%s %s %s\n", IconNote.Render(), label, meta)
		u.write("  %s\n", u.noteAligned(n.AnonymizedText))
		if len(n.Tags) > 0 {
			u.writeln(Styles.Muted.Render("  #" + strings.Join(n.Tags, " #")))
		}
	}

	u.writeln()
	u.writeln(Styles.Subtitle.Render("Summary"))
	if d.Summary == "" {
		u.writeln(Styles.Muted.Render("  No summary yet. Generate one with 'seamctl dashboard summary --generate'."))
	} else {
		u.writeln(u.chatAligned(d.Summary))
	}
}

// =============================================================================
// Summary
// =============================================================================

// Summary displays a generated or stored session summary.
func (u *terminalDashboardUI) Summary(s *datatypes.SummaryResponse) {
	if u.personality == PersonalityMachine {
		u.write("SUMMARY: session=%s participant=%s generated=%t text=%q\n",
			s.SessionID, s.ParticipantCode, s.Generated, s.Summary)
		return
	}

	titleLine := Styles.Title.Render("Summary — " + s.ParticipantCode)
	boxStyle := Styles.InfoBox.Width(u.width)
	u.writeln(boxStyle.Render(titleLine + "\n" + u.chatAligned(s.Summary)))
	if s.Generated {
		u.write("%s %s\n", IconSuccess.Render(), Styles.Muted.Render("Generated just now."))
	} else {
		u.writeln(Styles.Muted.Render("Previously generated."))
	}
}

// =============================================================================
// Conversation
// =============================================================================

// Conversation displays a full transcript.
func (u *terminalDashboardUI) Conversation(c *datatypes.ConversationResponse) {
	if u.personality == PersonalityMachine {
		u.write("CONVERSATION: session=%s participant=%s messages=%d\n",
			c.SessionID, c.ParticipantCode, len(c.Messages))
		for _, m := range c.Messages {
			u.write("MESSAGE: role=%s lang=%s text=%q\n", m.Role, m.Language, m.Content)
		}
		return
	}

	u.writeln(Styles.Title.Render(fmt.Sprintf("Conversation — %s", c.ParticipantCode)))
	u.writeln(Styles.Muted.Render(fmt.Sprintf("%d message(s)", len(c.Messages))))
	u.writeln()

	for _, m := range c.Messages {
		speaker := Styles.Subtitle.Render("Interviewer")
		if m.Role == datatypes.RoleUser {
			speaker = Styles.Success.Render("Participant")
		}
		stamp := ""
		if m.Timestamp != nil && !m.Timestamp.Time.IsZero() {
			stamp = Styles.Muted.Render("  " + m.Timestamp.Time.Format("15:04"))
		}
		u.write("%s%s\n", speaker, stamp)
		u.write("%s\n\n", u.chatAligned(m.Content))
	}
}

// =============================================================================
// Notices
// =============================================================================

// CachedNotice announces snapshot-backed views.
func (u *terminalDashboardUI) CachedNotice(savedAt time.Time) {
	if u.personality == PersonalityMachine {
		u.write("CACHED: saved_at=%s\n", savedAt.UTC().Format(time.RFC3339))
		return
	}
	age := relativeSince(savedAt)
	boxStyle := Styles.WarningBox.Width(60)
	titleLine := Styles.Warning.Bold(true).Render("Offline — showing saved data")
	body := fmt.Sprintf("The service is unreachable. This dashboard was saved %s.", age)
	u.writeln(boxStyle.Render(titleLine + "\n" + body))
	u.writeln()
}

// DegradedNotice announces one failed resource.
func (u *terminalDashboardUI) DegradedNotice(resource string, err error) {
	if u.personality == PersonalityMachine {
		u.write("DEGRADED: resource=%s error=%q\n", resource, fmt.Sprintf("%v", err))
		return
	}
	u.write("%s %s\n", IconWarning.Render(),
		Styles.Warning.Render(fmt.Sprintf("%s unavailable: %v", resource, err)))
}

// =============================================================================
// Helpers
// =============================================================================

// shortID returns the first eight characters of a session ID, matching
// the export filename convention.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// clip truncates s to at most n display cells, appending an ellipsis.
func clip(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > n-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// pad right-pads s with spaces to n display cells. Uses display width
// so Arabic department names keep the table columns aligned.
func pad(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// relativeSince formats the elapsed time since t in rough units.
func relativeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < 2*time.Minute:
		return "moments ago"
	case d < 2*time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}

// =============================================================================
// Compile-time Interface Check
// =============================================================================

var _ DashboardUI = (*terminalDashboardUI)(nil)
