// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// BlockList displays a page's blocks in reading order with a selection cursor.
type BlockList struct {
	blocks   []domain.Block
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewBlockList creates a new block list component.
func NewBlockList(s *styles.Styles) *BlockList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &BlockList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the block list.
func (r *BlockList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *BlockList) Update(msg tea.Msg) (*BlockList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the block list.
func (r *BlockList) View() string {
	if len(r.blocks) == 0 {
		return r.styles.Muted.Render("No blocks on this page")
	}

	lines := make([]string, 0, len(r.blocks)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Blocks (%d)", len(r.blocks))), "")

	visibleCount := r.height - 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.blocks) {
		end = len(r.blocks)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderBlock(i, &r.blocks[i]))
	}

	return strings.Join(lines, "\n")
}

// renderBlock formats one block as "> 3 [type] preview".
func (r *BlockList) renderBlock(index int, block *domain.Block) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	number := fmt.Sprintf("%2d ", index+1)
	label := fmt.Sprintf("[%s] ", block.Type.Label())

	maxPreview := r.width - len(indicator) - len(number) - len(label) - 2
	if maxPreview < 10 {
		maxPreview = 10
	}
	preview := Preview(block, maxPreview)

	if index == r.selected {
		return r.styles.Selected.Render(indicator + number + label + preview)
	}
	return r.styles.Normal.Render(indicator+number) +
		r.styles.BlockType.Render(label) +
		r.styles.Normal.Render(preview)
}

// Preview returns a single-line summary of a block at most width runes long.
func Preview(block *domain.Block, width int) string {
	text := block.Content
	switch {
	case block.IsInlineImage():
		text = "(inline image)"
		if caption := block.Caption(); caption != "" {
			text += " " + caption
		}
	case block.Type.Kind() == domain.BlockTypePicture && block.Caption() != "":
		text = block.Caption()
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		text = "(empty)"
	}

	runes := []rune(text)
	if width > 3 && len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return text
}

// SetBlocks replaces the listed blocks, keeping the selection in range.
func (r *BlockList) SetBlocks(blocks []domain.Block) {
	r.blocks = blocks
	r.clamp()
}

// Blocks returns the listed blocks.
func (r *BlockList) Blocks() []domain.Block {
	return r.blocks
}

// Selected returns the index of the selected block.
func (r *BlockList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *BlockList) SetSelected(index int) {
	if index >= 0 && index < len(r.blocks) {
		r.selected = index
	}
}

// SelectedBlock returns the currently selected block, or nil if none.
func (r *BlockList) SelectedBlock() *domain.Block {
	if len(r.blocks) == 0 || r.selected < 0 || r.selected >= len(r.blocks) {
		return nil
	}
	return &r.blocks[r.selected]
}

// MoveUp moves selection up.
func (r *BlockList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *BlockList) MoveDown() {
	if r.selected < len(r.blocks)-1 {
		r.selected++
	}
}

// Reset moves the selection to the first block.
func (r *BlockList) Reset() {
	r.selected = 0
}

func (r *BlockList) clamp() {
	if r.selected >= len(r.blocks) {
		r.selected = len(r.blocks) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}

// SetDimensions sets the component dimensions.
func (r *BlockList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *BlockList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *BlockList) Height() int {
	return r.height
}

// Count returns the number of blocks.
func (r *BlockList) Count() int {
	return len(r.blocks)
}

// IsEmpty returns whether the list is empty.
func (r *BlockList) IsEmpty() bool {
	return len(r.blocks) == 0
}
