// Package minimap draws a character-cell sketch of the page raster with the
// overlay markers placed where their blocks sit on the page.
package minimap

import (
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2.0

// Minimap renders markers on a grid sized to the page's aspect ratio.
type Minimap struct {
	styles   *styles.Styles
	raster   domain.Size
	markers  []domain.Marker
	selected string
	width    int
	maxRows  int
}

// New creates a minimap.
func New(s *styles.Styles) *Minimap {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Minimap{styles: s, width: 24, maxRows: 20}
}

// SetRaster records the raster size the grid is proportioned after.
func (m *Minimap) SetRaster(size domain.Size) {
	m.raster = size
}

// ClearRaster forgets the raster, e.g. after moving to another page.
func (m *Minimap) ClearRaster() {
	m.raster = domain.Size{}
	m.markers = nil
}

// HasRaster reports whether a usable raster size is known.
func (m *Minimap) HasRaster() bool {
	return m.raster.IsValid()
}

// SetMarkers replaces the drawn markers.
func (m *Minimap) SetMarkers(markers []domain.Marker) {
	m.markers = markers
}

// Markers returns the drawn markers.
func (m *Minimap) Markers() []domain.Marker {
	return m.markers
}

// SetSelected highlights the marker of blockID.
func (m *Minimap) SetSelected(blockID string) {
	m.selected = blockID
}

// SetDimensions bounds the grid.
func (m *Minimap) SetDimensions(width, maxRows int) {
	if width < 4 {
		width = 4
	}
	if maxRows < 2 {
		maxRows = 2
	}
	m.width = width
	m.maxRows = maxRows
}

// DisplaySize is the grid size in cells, used as the overlay display size.
// It is zero until a raster is known.
func (m *Minimap) DisplaySize() domain.Size {
	if !m.raster.IsValid() {
		return domain.Size{}
	}
	cols := float64(m.width)
	rows := math.Round(cols * (m.raster.Height / m.raster.Width) / cellAspect)
	if rows > float64(m.maxRows) {
		rows = float64(m.maxRows)
		cols = math.Round(rows * cellAspect * (m.raster.Width / m.raster.Height))
		if cols < 1 {
			cols = 1
		}
	}
	if rows < 1 {
		rows = 1
	}
	return domain.Size{Width: cols, Height: rows}
}

// View renders the grid.
func (m *Minimap) View() string {
	size := m.DisplaySize()
	if !size.IsValid() {
		return m.styles.Muted.Render("(no page image)")
	}

	cols, rows := int(size.Width), int(size.Height)
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = m.styles.Muted.Render("·")
		}
	}

	for _, mk := range m.markers {
		row := clampCell(mk.Position.Y, rows)
		col := clampCell(mk.Position.X, cols)
		label := strconv.Itoa(mk.Number)
		if col+len(label) > cols {
			col = cols - len(label)
			if col < 0 {
				col = 0
			}
		}
		style := m.styles.Marker
		if mk.BlockID == m.selected {
			style = m.styles.MarkerSelected
		}
		for i, ch := range label {
			if col+i < cols {
				grid[row][col+i] = style.Render(string(ch))
			}
		}
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return m.styles.Border.Render(strings.Join(lines, "\n"))
}

func clampCell(v float64, n int) int {
	i := int(math.Floor(v))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
