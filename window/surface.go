package window

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// RaylibSurface is a renderer.Surface that draws into the current raylib frame.
// Calls must happen between rl.BeginDrawing and rl.EndDrawing.
type RaylibSurface struct {
	background rl.Color
}

// NewRaylibSurface creates a surface for the open raylib window.
func NewRaylibSurface(background color.NRGBA) *RaylibSurface {
	return &RaylibSurface{background: toRL(background)}
}

// Clear implements Surface.
func (s *RaylibSurface) Clear() {
	rl.ClearBackground(s.background)
}

// FillCircle implements Surface.
func (s *RaylibSurface) FillCircle(center r2.Vec, radius float64, c color.NRGBA) {
	rl.DrawCircleV(toVec2(center), float32(radius), toRL(c))
}

// StrokeLine implements Surface.
func (s *RaylibSurface) StrokeLine(from, to r2.Vec, width float64, c color.NRGBA) {
	rl.DrawLineEx(toVec2(from), toVec2(to), float32(width), toRL(c))
}

// raylib colours are straight alpha, so NRGBA maps field for field.
func toRL(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func toVec2(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
