// Package renderer draws simulation state onto 2D surfaces.
package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Surface is a 2D drawing target in pixel coordinates, origin top-left.
// Colours are non-premultiplied.
type Surface interface {
	// Clear resets the whole surface to its background.
	Clear()
	// FillCircle draws a filled disc.
	FillCircle(center r2.Vec, radius float64, c color.NRGBA)
	// StrokeLine draws a straight segment of the given width.
	StrokeLine(from, to r2.Vec, width float64, c color.NRGBA)
}

// Resizer is implemented by surfaces that own their backing store and must
// be reallocated when the viewport changes.
type Resizer interface {
	Resize(width, height int)
}
