// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// State represents the current activity for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateEditing State = "editing"
	StateError   State = "error"
	StateInfo    State = "info"
)

// Bar displays review progress, the last message and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	status  domain.SessionStatus
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderProgress() + "  " + s.renderMessage()
	right := s.renderHints()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderProgress renders "Page 2/10 · 3 corrected · unsaved".
func (s *Bar) renderProgress() string {
	st := s.status
	if st.PageCount == 0 {
		return s.styles.Muted.Render("No pages")
	}

	parts := []string{
		fmt.Sprintf("Page %d/%d", st.CurrentPage+1, st.PageCount),
		fmt.Sprintf("%d corrected", st.CorrectedPages),
	}
	if st.AllPagesCorrected {
		parts[1] = "all corrected"
	}
	if st.Saved {
		parts = append(parts, "saved")
	} else {
		parts = append(parts, "unsaved")
	}
	return s.styles.Normal.Render(strings.Join(parts, " · "))
}

func (s *Bar) renderMessage() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading...")
	case StateEditing:
		return s.styles.Warning.Render("Editing")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateInfo:
		return s.styles.Success.Render(s.message)
	case StateReady:
	}
	return ""
}

// renderHints renders keybinding hints.
func (s *Bar) renderHints() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateEditing {
		bindings = s.keymap.EditorHelp()
	}

	return s.styles.Muted.Render(formatHints(bindings))
}

// formatHints joins the help text of the enabled bindings.
func formatHints(bindings []key.Binding) string {
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return strings.Join(hints, " | ")
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Info shows a transient informational message.
func (s *Bar) Info(message string) {
	s.state = StateInfo
	s.message = message
}

// Error shows an error message.
func (s *Bar) Error(err error) {
	s.state = StateError
	s.message = err.Error()
}

// SetStatus sets the session progress shown on the left.
func (s *Bar) SetStatus(status domain.SessionStatus) {
	s.status = status
}

// Status returns the session progress.
func (s *Bar) Status() domain.SessionStatus {
	return s.status
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
