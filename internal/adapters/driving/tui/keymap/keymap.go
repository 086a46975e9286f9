// Package keymap defines keybindings for the review TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view or cancels a prompt.
	Back key.Binding

	// Up and Down move the block selection.
	Up   key.Binding
	Down key.Binding

	// MoveUp and MoveDown reorder the selected block.
	MoveUp   key.Binding
	MoveDown key.Binding

	// NextPage and PrevPage navigate the document.
	NextPage key.Binding
	PrevPage key.Binding

	// GoTo prompts for a page number.
	GoTo key.Binding

	// Edit opens the block editor.
	Edit key.Binding

	// Delete removes the selected block.
	Delete key.Binding

	// Duplicate copies the selected block.
	Duplicate key.Binding

	// Correct freezes the page order and advances.
	Correct key.Binding

	// Uncorrect re-opens a corrected page.
	Uncorrect key.Binding

	// Refetch reloads the page from the source.
	Refetch key.Binding

	// Export opens the export view.
	Export key.Binding

	// Overlay toggles the page minimap.
	Overlay key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Save commits the editor contents.
	Save key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("J", "move down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "prev page"),
		),
		GoTo: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to page"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "duplicate"),
		),
		Correct: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "mark corrected"),
		),
		Uncorrect: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "edit again"),
		),
		Refetch: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload page"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		Overlay: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "overlay"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.Correct, k.Export, k.Help, k.Quit}
}

// EditorHelp returns keybindings shown while the editor is open.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Save, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.NextPage, k.PrevPage, k.GoTo, k.Refetch},
		{k.Edit, k.Delete, k.Duplicate, k.Save},
		{k.Correct, k.Uncorrect, k.Export, k.Overlay},
		{k.Help, k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
