package domain

import "math"

// Size is a width and height in pixels.
type Size struct {
	Width  float64
	Height float64
}

// IsValid returns true if both dimensions are positive finite numbers.
// Zero means "unknown", e.g. an image that has not finished loading.
func (s Size) IsValid() bool {
	return isPositiveFinite(s.Width) && isPositiveFinite(s.Height)
}

// Scale returns the size multiplied by k on both axes.
func (s Size) Scale(k float64) Size {
	return Size{Width: s.Width * k, Height: s.Height * k}
}

// Point is a pixel position, origin top-left.
type Point struct {
	X float64
	Y float64
}

// Raster describes the rendered page image used as the overlay backdrop.
// Only the pixel dimensions are interpreted; the bytes are opaque.
type Raster struct {
	// URI locates the image (file path or URL).
	URI string

	// Size is the natural, unscaled pixel size. Zero if not yet known.
	Size Size

	// Format is the decoded image format name, e.g. "png".
	Format string
}

// Marker is a reading-order number anchored to a block on the page image.
type Marker struct {
	// Number is the one-based reading order position.
	Number int

	// BlockID identifies the block the marker belongs to.
	BlockID string

	// Position is the marker's centre in display pixels.
	Position Point
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
