package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

// circleSegments is the polygon resolution used for discs.
// Particles are a few pixels wide, so this is well past visible faceting.
const circleSegments = 24

// RasterSurface is an offscreen anti-aliased surface backed by an image.RGBA.
type RasterSurface struct {
	img        *image.RGBA
	z          *vector.Rasterizer
	background *image.Uniform
	w, h       int
}

// NewRasterSurface allocates a width x height surface.
func NewRasterSurface(width, height int, background color.NRGBA) *RasterSurface {
	s := &RasterSurface{background: image.NewUniform(background)}
	s.Resize(width, height)
	return s
}

// Resize implements Resizer. Contents are discarded.
func (s *RasterSurface) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	s.w, s.h = width, height
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.z = vector.NewRasterizer(width, height)
}

// Size returns the surface dimensions in pixels.
func (s *RasterSurface) Size() (int, int) {
	return s.w, s.h
}

// Image returns the backing image. It is overwritten by subsequent draws.
func (s *RasterSurface) Image() *image.RGBA {
	return s.img
}

// Clear implements Surface.
func (s *RasterSurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), s.background, image.Point{}, draw.Src)
}

// FillCircle implements Surface.
func (s *RasterSurface) FillCircle(center r2.Vec, radius float64, c color.NRGBA) {
	if s.w == 0 || s.h == 0 || radius <= 0 || c.A == 0 {
		return
	}
	s.z.Reset(s.w, s.h)
	for k := 0; k < circleSegments; k++ {
		a := 2 * math.Pi * float64(k) / circleSegments
		p := r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
		if k == 0 {
			s.moveTo(p)
		} else {
			s.lineTo(p)
		}
	}
	s.z.ClosePath()
	s.fill(c)
}

// StrokeLine implements Surface. The segment is filled as a quad with butt caps.
func (s *RasterSurface) StrokeLine(from, to r2.Vec, width float64, c color.NRGBA) {
	if s.w == 0 || s.h == 0 || width <= 0 || c.A == 0 {
		return
	}
	d := r2.Sub(to, from)
	length := r2.Norm(d)
	if length == 0 {
		return
	}
	// Half-width offset perpendicular to the segment
	n := r2.Scale(width/(2*length), r2.Vec{X: -d.Y, Y: d.X})

	s.z.Reset(s.w, s.h)
	s.moveTo(r2.Add(from, n))
	s.lineTo(r2.Add(to, n))
	s.lineTo(r2.Sub(to, n))
	s.lineTo(r2.Sub(from, n))
	s.z.ClosePath()
	s.fill(c)
}

// WritePNG encodes the current image.
func (s *RasterSurface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func (s *RasterSurface) fill(c color.NRGBA) {
	s.z.DrawOp = draw.Over
	s.z.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{})
}

// The rasterizer accumulates coverage into a buffer of its own size, so
// path points are kept inside it. Discs straddling an edge get flattened
// there, which is what clipping would show anyway.
func (s *RasterSurface) clip(p r2.Vec) (float32, float32) {
	x := math.Max(0, math.Min(float64(s.w), p.X))
	y := math.Max(0, math.Min(float64(s.h), p.Y))
	return float32(x), float32(y)
}

func (s *RasterSurface) moveTo(p r2.Vec) {
	x, y := s.clip(p)
	s.z.MoveTo(x, y)
}

func (s *RasterSurface) lineTo(p r2.Vec) {
	x, y := s.clip(p)
	s.z.LineTo(x, y)
}
