package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui"
)

// errNoTerminal is returned when the review UI is started without a TTY.
var errNoTerminal = errors.New("review needs an interactive terminal; use 'curator mcp serve' or 'curator export' instead")

// isTerminal reports whether stdin and stdout are terminals.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var reviewRestart bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review and correct pages interactively",
	Long: `Launch the interactive terminal UI for correcting the current document.

The session is saved after every change and resumed on the next start.

Controls:
  ↑/k, ↓/j   - Select block
  K, J       - Move block up / down
  →/n, ←/p   - Next / previous page
  g          - Go to page
  e          - Edit content or caption
  d, y       - Delete / duplicate block
  c, u       - Mark corrected / edit again
  r          - Reload page
  x          - Export
  ?          - Help
  q          - Quit`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewRestart, "restart", false, "discard the saved session first")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) (err error) {
	if !isTerminal() {
		return errNoTerminal
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	review, err := openReview(cmd.Context())
	if err != nil {
		return err
	}
	if reviewRestart {
		if err := review.Discard(cmd.Context()); err != nil {
			return fmt.Errorf("discarding session: %w", err)
		}
	}

	ports := tui.NewPorts(review, settingsService)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())
	if pageChanges != nil {
		app.WithPageChanges(pageChanges)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
