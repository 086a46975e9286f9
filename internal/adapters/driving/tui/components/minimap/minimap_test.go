package minimap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	m := New(nil)

	require.NotNil(t, m)
	assert.False(t, m.HasRaster())
	assert.Equal(t, domain.Size{}, m.DisplaySize())
}

func TestMinimap_DisplaySize_FollowsAspectRatio(t *testing.T) {
	m := New(nil)
	m.SetDimensions(24, 40)
	m.SetRaster(domain.Size{Width: 1275, Height: 1650})

	size := m.DisplaySize()

	// 24 * 1650/1275 / 2 = 15.5 -> 16
	assert.Equal(t, domain.Size{Width: 24, Height: 16}, size)
}

func TestMinimap_DisplaySize_BoundedByRows(t *testing.T) {
	m := New(nil)
	m.SetDimensions(40, 10)
	m.SetRaster(domain.Size{Width: 100, Height: 100})

	size := m.DisplaySize()

	assert.Equal(t, domain.Size{Width: 20, Height: 10}, size)
}

func TestMinimap_SetDimensions_Minimums(t *testing.T) {
	m := New(nil)
	m.SetDimensions(1, 0)
	m.SetRaster(domain.Size{Width: 100, Height: 100})

	size := m.DisplaySize()

	assert.Equal(t, 2.0, size.Height)
	assert.Equal(t, 4.0, size.Width)
}

func TestMinimap_View_NoRaster(t *testing.T) {
	m := New(nil)

	assert.Contains(t, m.View(), "(no page image)")
}

func TestMinimap_View_PlacesMarkers(t *testing.T) {
	m := New(nil)
	m.SetDimensions(10, 10)
	m.SetRaster(domain.Size{Width: 100, Height: 100})
	m.SetMarkers([]domain.Marker{
		{Number: 1, BlockID: "a", Position: domain.Point{X: 0, Y: 0}},
		{Number: 12, BlockID: "b", Position: domain.Point{X: 9.5, Y: 4.9}},
	})
	m.SetSelected("a")

	view := m.View()
	lines := strings.Split(view, "\n")

	// border + 5 rows + border
	require.Len(t, lines, 7)
	assert.Contains(t, lines[1], "1")
	assert.Contains(t, lines[5], "12", "two-digit label is pulled inside the grid")
}

func TestMinimap_ClearRaster(t *testing.T) {
	m := New(nil)
	m.SetRaster(domain.Size{Width: 10, Height: 10})
	m.SetMarkers([]domain.Marker{{Number: 1}})

	m.ClearRaster()

	assert.False(t, m.HasRaster())
	assert.Empty(t, m.Markers())
}

func TestClampCell(t *testing.T) {
	assert.Equal(t, 0, clampCell(-3, 5))
	assert.Equal(t, 2, clampCell(2.9, 5))
	assert.Equal(t, 4, clampCell(99, 5))
}
