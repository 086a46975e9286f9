package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/views/export"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/views/review"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	keymap *keymap.KeyMap

	// reviewView is the page correction view.
	reviewView *review.View

	// exportView is the export format picker.
	exportView *export.View

	// changes delivers page indexes whose extraction output changed.
	changes <-chan int

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		reviewView:  review.NewView(s, km, ports.Review),
		exportView:  export.NewView(s, ports.Review.Formats()),
		currentView: messages.ViewReview,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.reviewView.WithContext(ctx)
	return a
}

// WithPageChanges subscribes the app to page change notifications.
func (a *App) WithPageChanges(changes <-chan int) *App {
	a.changes = changes
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("curator"),
		a.reviewView.Init(),
		a.waitForChange(),
	)
}

// waitForChange emits the next page change. It returns nil when the app
// is not subscribed.
func (a *App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	changes := a.changes
	return func() tea.Msg {
		index, ok := <-changes
		if !ok {
			return nil
		}
		return messages.PageChanged{PageIndex: index}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewExport:
			a.exportView, cmd = a.exportView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Back) || keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = messages.ViewReview
			}
			return a, nil

		case messages.ViewReview:
		}
		a.reviewView, cmd = a.reviewView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewExport {
			a.exportView.SetFormats(a.ports.Review.Formats())
		}
		return a, nil

	case messages.ExportRequested:
		a.currentView = messages.ViewReview
		a.reviewView, cmd = a.reviewView.Update(msg)
		return a, cmd

	case messages.PageChanged:
		a.reviewView, cmd = a.reviewView.Update(msg)
		return a, tea.Batch(cmd, a.waitForChange())

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.reviewView, cmd = a.reviewView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Page loads, rasters and export results go to the review view
	// whichever view is showing.
	a.reviewView, cmd = a.reviewView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewExport:
		return a.exportView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewReview:
	}
	return a.reviewView.View()
}

// viewHelp renders the key bindings.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, row := range a.keymap.FullHelp() {
		for _, binding := range row {
			b.WriteString(helpLine(binding))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("[esc] back to review"))
	return b.String()
}

func helpLine(binding key.Binding) string {
	h := binding.Help()
	return fmt.Sprintf("  %-14s %s\n", h.Key, h.Desc)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Review returns the review view.
func (a *App) Review() *review.View {
	return a.reviewView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.reviewView.SetDimensions(width, height)
	a.exportView.SetDimensions(width, height)
}
