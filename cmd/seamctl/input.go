// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// =============================================================================
// Interfaces
// =============================================================================

// InputReader abstracts reading participant answers so the interview
// loop can be driven by a terminal, a pipe, or a test.
type InputReader interface {
	// ReadLine blocks until a full line is available. Returns io.EOF
	// when the input source is exhausted or the participant cancelled.
	ReadLine() (string, error)
}

// PromptingInputReader is an InputReader that renders its own prompt.
// The interview loop prints the prompt itself for readers that don't.
type PromptingInputReader interface {
	InputReader
	SetPrompt(prompt string)
}

// =============================================================================
// StdinReader
// =============================================================================

// StdinReader reads answers line by line from standard input. Used for
// piped input and as the fallback when no TTY is attached.
type StdinReader struct {
	reader *bufio.Reader
}

// NewStdinReader creates a reader over os.Stdin.
func NewStdinReader() *StdinReader {
	return &StdinReader{reader: bufio.NewReader(os.Stdin)}
}

// ReadLine reads one line, trimming the trailing newline. A final
// unterminated line is still returned before io.EOF.
func (r *StdinReader) ReadLine() (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// =============================================================================
// InteractiveInputReader
// =============================================================================

// InteractiveInputReader provides line editing and per-session answer
// history on a real terminal. Arabic input renders right to left by
// the terminal itself; the reader only stores what was typed.
type InteractiveInputReader struct {
	prompt  string
	history []string
}

// NewInputReader returns the best reader for the environment: the
// interactive editor on a TTY, plain stdin otherwise.
func NewInputReader() InputReader {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return NewInteractiveInputReader()
	}
	return NewStdinReader()
}

// NewInteractiveInputReader creates an interactive reader with an
// empty history.
func NewInteractiveInputReader() *InteractiveInputReader {
	return &InteractiveInputReader{prompt: "> "}
}

// SetPrompt updates the prompt shown before each answer.
func (r *InteractiveInputReader) SetPrompt(prompt string) {
	r.prompt = prompt
}

// ReadLine runs a single-line editor and returns the entered text.
// Ctrl+C and Ctrl+D both surface as io.EOF so the interview closes
// through the same path as typing "exit".
func (r *InteractiveInputReader) ReadLine() (string, error) {
	model := newLineEditor(r.prompt, r.history)
	program := tea.NewProgram(model)

	result, err := program.Run()
	if err != nil {
		return "", err
	}

	final, ok := result.(lineEditor)
	if !ok || final.aborted {
		return "", io.EOF
	}

	line := final.input.Value()
	if strings.TrimSpace(line) != "" {
		r.history = append(r.history, line)
	}
	return line, nil
}

// lineEditor is the bubbletea model behind one ReadLine call.
type lineEditor struct {
	input     textinput.Model
	history   []string
	histIdx   int
	draft     string
	submitted bool
	aborted   bool
}

func newLineEditor(prompt string, history []string) lineEditor {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 2000
	input.Width = 76
	input.Focus()
	return lineEditor{
		input:   input,
		history: history,
		histIdx: len(history),
	}
}

func (m lineEditor) Init() tea.Cmd {
	return textinput.Blink
}

func (m lineEditor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyUp:
			if m.histIdx > 0 {
				if m.histIdx == len(m.history) {
					m.draft = m.input.Value()
				}
				m.histIdx--
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyDown:
			if m.histIdx < len(m.history) {
				m.histIdx++
				if m.histIdx == len(m.history) {
					m.input.SetValue(m.draft)
				} else {
					m.input.SetValue(m.history[m.histIdx])
				}
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m lineEditor) View() string {
	if m.submitted || m.aborted {
		// Leave the submitted line visible instead of clearing it.
		return m.input.Prompt + m.input.Value() + "\n"
	}
	return m.input.View()
}

// =============================================================================
// MockInputReader
// =============================================================================

// MockInputReader feeds scripted answers to tests, then io.EOF.
type MockInputReader struct {
	lines []string
	pos   int
}

// NewMockInputReader creates a reader that yields the given lines.
func NewMockInputReader(lines []string) *MockInputReader {
	return &MockInputReader{lines: lines}
}

// ReadLine returns the next scripted line or io.EOF when exhausted.
func (r *MockInputReader) ReadLine() (string, error) {
	if r.pos >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

// isExitCommand reports whether a typed line ends the interview.
func isExitCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return true
	}
	return false
}
