package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// DrawOp identifies a recorded surface call.
type DrawOp uint8

const (
	OpClear DrawOp = iota
	OpCircle
	OpLine
)

// DrawCall is one recorded surface call.
type DrawCall struct {
	Op     DrawOp
	From   r2.Vec // circle centre or line start
	To     r2.Vec // line end
	Radius float64
	Width  float64
	Color  color.NRGBA
}

// Recorder is a Surface that records calls instead of drawing them.
// Useful for headless inspection and tests.
type Recorder struct {
	Calls         []DrawCall
	Width, Height int
}

// Clear implements Surface.
func (r *Recorder) Clear() {
	r.Calls = append(r.Calls, DrawCall{Op: OpClear})
}

// FillCircle implements Surface.
func (r *Recorder) FillCircle(center r2.Vec, radius float64, c color.NRGBA) {
	r.Calls = append(r.Calls, DrawCall{Op: OpCircle, From: center, Radius: radius, Color: c})
}

// StrokeLine implements Surface.
func (r *Recorder) StrokeLine(from, to r2.Vec, width float64, c color.NRGBA) {
	r.Calls = append(r.Calls, DrawCall{Op: OpLine, From: from, To: to, Width: width, Color: c})
}

// Resize implements Resizer.
func (r *Recorder) Resize(width, height int) {
	r.Width, r.Height = width, height
}

// Count returns the number of recorded calls of the given kind.
func (r *Recorder) Count(op DrawOp) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset discards recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}
