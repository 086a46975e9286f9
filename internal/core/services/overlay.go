package services

import (
	"math"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Transform maps source-space bounding boxes onto a displayed page raster.
//
// Source space has its origin at the bottom-left of the page and is measured
// in points. Raster space has its origin at the top-left and is measured in
// pixels of the rendered image. Display space is raster space scaled,
// possibly non-uniformly, to whatever size the raster is shown at.
type Transform struct {
	// Scale converts source units to raster pixels (render DPI / 72).
	Scale float64
}

// NewTransform returns a transform for a raster rendered at dpi.
func NewTransform(dpi float64) Transform {
	return Transform{Scale: domain.OverlaySettings{DPI: dpi}.Scale()}
}

// MarkerPosition returns the display-space anchor for box.
// The boolean is false when the position is not yet computable because
// the scale, raster size or display size is zero, negative or non-finite.
func (t Transform) MarkerPosition(box domain.BoundingBox, raster, display domain.Size) (domain.Point, bool) {
	if !isUsableScale(t.Scale) || !raster.IsValid() || !display.IsValid() {
		return domain.Point{}, false
	}

	rasterX := box.Left * t.Scale
	rasterY := raster.Height - box.Top*t.Scale

	p := domain.Point{
		X: rasterX * (display.Width / raster.Width),
		Y: rasterY * (display.Height / raster.Height),
	}
	if !isFinite(p.X) || !isFinite(p.Y) {
		return domain.Point{}, false
	}
	return p, true
}

// Markers numbers blocks 1..n in the given order and positions each one.
// Blocks without bounds keep their number but get no marker.
// Degenerate geometry yields no markers at all.
func (t Transform) Markers(blocks []domain.Block, raster, display domain.Size) []domain.Marker {
	if !isUsableScale(t.Scale) || !raster.IsValid() || !display.IsValid() {
		return nil
	}

	markers := make([]domain.Marker, 0, len(blocks))
	for i := range blocks {
		if blocks[i].BoundingBox == nil {
			continue
		}
		pos, ok := t.MarkerPosition(*blocks[i].BoundingBox, raster, display)
		if !ok {
			continue
		}
		markers = append(markers, domain.Marker{
			Number:   i + 1,
			BlockID:  blocks[i].ID,
			Position: pos,
		})
	}
	return markers
}

// Overlay holds the inputs of the marker computation for one page view and
// recomputes markers whenever any of them changes. Nothing is carried over
// from one display size to the next.
type Overlay struct {
	transform Transform
	raster    domain.Size
	display   domain.Size
	blocks    []domain.Block
	markers   []domain.Marker
}

// NewOverlay creates an overlay using transform.
func NewOverlay(transform Transform) *Overlay {
	return &Overlay{transform: transform}
}

// SetTransform replaces the transform, e.g. after a DPI change.
func (o *Overlay) SetTransform(t Transform) []domain.Marker {
	o.transform = t
	return o.recompute()
}

// SetRaster records the natural pixel size of the page raster.
// A zero size means the raster is not loaded yet.
func (o *Overlay) SetRaster(size domain.Size) []domain.Marker {
	o.raster = size
	return o.recompute()
}

// SetBlocks replaces the block order the markers are numbered by.
func (o *Overlay) SetBlocks(blocks []domain.Block) []domain.Marker {
	o.blocks = blocks
	return o.recompute()
}

// OnDisplaySizeChanged is the resize event: the raster is now shown at size.
func (o *Overlay) OnDisplaySizeChanged(size domain.Size) []domain.Marker {
	o.display = size
	return o.recompute()
}

// Markers returns the markers for the current inputs.
func (o *Overlay) Markers() []domain.Marker {
	return o.markers
}

// DisplaySize returns the last display size reported.
func (o *Overlay) DisplaySize() domain.Size {
	return o.display
}

// Transform returns the transform in use.
func (o *Overlay) Transform() Transform {
	return o.transform
}

func (o *Overlay) recompute() []domain.Marker {
	o.markers = o.transform.Markers(o.blocks, o.raster, o.display)
	return o.markers
}

func isUsableScale(v float64) bool {
	return v > 0 && isFinite(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
