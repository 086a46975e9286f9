// Package input provides text input components for the TUI.
package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// PageInput prompts for a one-based page number.
type PageInput struct {
	textinput textinput.Model
	styles    *styles.Styles
}

// NewPageInput creates a new page number prompt.
func NewPageInput(s *styles.Styles) *PageInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "page number"
	ti.CharLimit = 6
	ti.Width = 12

	return &PageInput{
		textinput: ti,
		styles:    s,
	}
}

// Init initialises the prompt.
func (s *PageInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *PageInput) Update(msg tea.Msg) (*PageInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the prompt.
func (s *PageInput) View() string {
	label := s.styles.Title.Render("Go to page: ")
	field := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// PageIndex parses the entered one-based number into a zero-based index.
func (s *PageInput) PageIndex() (int, error) {
	raw := strings.TrimSpace(s.textinput.Value())
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: page %q", domain.ErrInvalidInput, raw)
	}
	return n - 1, nil
}

// Value returns the current input value.
func (s *PageInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *PageInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (s *PageInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *PageInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *PageInput) Focused() bool {
	return s.textinput.Focused()
}

// Reset clears the input.
func (s *PageInput) Reset() {
	s.textinput.Reset()
}
