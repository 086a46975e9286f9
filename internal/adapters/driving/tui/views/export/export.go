// Package export provides the export format picker for the TUI.
package export

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// descriptions are shown beside known formats.
var descriptions = map[domain.ExportFormat]string{
	domain.ExportFormatJSON:     "reordered blocks as JSON",
	domain.ExportFormatMarkdown: "Markdown document",
	domain.ExportFormatHTML:     "standalone HTML page",
	domain.ExportFormatWikiJS:   "publish a page to Wiki.js",
}

// View lists the configured export formats.
type View struct {
	styles   *styles.Styles
	formats  []domain.ExportFormat
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new export view for formats.
func NewView(s *styles.Styles, formats []domain.ExportFormat) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:  s,
		formats: formats,
		width:   80,
		height:  24,
	}
}

// Init initialises the export view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the export view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.formats)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			if len(v.formats) == 0 {
				return v, nil
			}
			format := v.formats[v.selected]
			return v, func() tea.Msg {
				return messages.ExportRequested{Format: format}
			}

		case "esc", "q":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewReview}
			}
		}
	}

	return v, nil
}

// View renders the format list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Export"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Corrected pages use their frozen order; other visited pages use their current order."))
	b.WriteString("\n\n")

	if len(v.formats) == 0 {
		b.WriteString(v.styles.Warning.Render("No export formats are configured."))
		b.WriteString("\n")
	}

	for i, f := range v.formats {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)
		}

		line := cursor + style.Render(f.String())
		if desc, ok := descriptions[f]; ok {
			line += "  " + v.styles.Muted.Render(desc)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Export  [esc] Back"))

	return b.String()
}

// SetFormats replaces the listed formats.
func (v *View) SetFormats(formats []domain.ExportFormat) {
	v.formats = formats
	if v.selected >= len(formats) {
		v.selected = 0
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
