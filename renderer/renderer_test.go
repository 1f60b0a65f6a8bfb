package renderer

import (
	"bytes"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/molecule/components"
	"github.com/pthm-cable/molecule/config"
	"github.com/pthm-cable/molecule/systems"
)

func testState(positions ...r2.Vec) *systems.State {
	st := &systems.State{Pointer: components.AbsentPointer, Width: 400, Height: 300}
	for _, p := range positions {
		st.Particles = append(st.Particles, components.Particle{Pos: p, Radius: 2, Opacity: 0.5})
	}
	return st
}

func TestRender_CallSequence(t *testing.T) {
	st := testState(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 175, Y: 100}, r2.Vec{X: 390, Y: 290})
	rec := &Recorder{}

	Render(rec, st, DefaultStyle())

	require.NotEmpty(t, rec.Calls)
	assert.Equal(t, OpClear, rec.Calls[0].Op, "first call must clear")
	assert.Equal(t, 1, rec.Count(OpClear))
	assert.Equal(t, 3, rec.Count(OpCircle))
	assert.Equal(t, 1, rec.Count(OpLine), "only the pair 75px apart links")

	for _, c := range rec.Calls {
		switch c.Op {
		case OpCircle:
			assert.Equal(t, 2.0, c.Radius)
			assert.Equal(t, uint8(128), c.Color.A)
		case OpLine:
			assert.Equal(t, r2.Vec{X: 100, Y: 100}, c.From)
			assert.Equal(t, r2.Vec{X: 175, Y: 100}, c.To)
			// (1 - 75/150) * 0.3 = 0.15
			assert.InDelta(t, 0.15*255, float64(c.Color.A), 1)
			assert.Equal(t, 1.0, c.Width)
		}
	}
}

func TestRender_NoLinkAtThreshold(t *testing.T) {
	st := testState(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 150, Y: 0})
	rec := &Recorder{}

	Render(rec, st, DefaultStyle())

	assert.Equal(t, 0, rec.Count(OpLine))
	assert.Equal(t, 2, rec.Count(OpCircle))
}

func TestRender_DoesNotMutateState(t *testing.T) {
	st := testState(r2.Vec{X: 10, Y: 10}, r2.Vec{X: 20, Y: 20}, r2.Vec{X: 30, Y: 30})
	st.Pointer = r2.Vec{X: 15, Y: 15}
	before := st.Clone()

	Render(&Recorder{}, st, DefaultStyle())

	assert.Equal(t, before, *st)
}

func TestRender_EmptyStateClearsOnly(t *testing.T) {
	rec := &Recorder{}
	Render(rec, testState(), DefaultStyle())
	assert.Equal(t, []DrawCall{{Op: OpClear}}, rec.Calls)
}

func TestHSLA(t *testing.T) {
	c := HSLA(200, 0.8, 0.6, 0.5)

	assert.InDelta(t, 71, float64(c.R), 1)
	assert.InDelta(t, 180, float64(c.G), 1)
	assert.InDelta(t, 235, float64(c.B), 1)
	assert.Equal(t, uint8(128), c.A)

	assert.Equal(t, uint8(0), HSLA(0, 0, 0, -1).A)
	assert.Equal(t, uint8(255), HSLA(0, 0, 0, 2).A)
}

func TestParseBackground(t *testing.T) {
	c, err := ParseBackground("#0a0f1a")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 15, B: 26, A: 255}, c)

	c, err = ParseBackground("")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{}, c)

	_, err = ParseBackground("not-a-colour")
	assert.Error(t, err)
}

func TestStyleFrom(t *testing.T) {
	cfg := config.Defaults()
	cfg.Particles.ConnectionDistance = 90

	s, err := StyleFrom(cfg)
	require.NoError(t, err)

	assert.Equal(t, 90.0, s.ConnectionDistance)
	assert.Equal(t, HSL{H: 200, S: 0.8, L: 0.6}, s.Particle)
	assert.Equal(t, 0.3, s.LineMaxAlpha)

	cfg.Style.Background = "#zz"
	_, err = StyleFrom(cfg)
	assert.Error(t, err)
}

func TestRasterSurface_Draws(t *testing.T) {
	bg := color.NRGBA{A: 255}
	s := NewRasterSurface(64, 48, bg)
	s.Clear()

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	s.FillCircle(r2.Vec{X: 16, Y: 16}, 4, white)
	s.StrokeLine(r2.Vec{X: 30, Y: 40}, r2.Vec{X: 60, Y: 40}, 2, white)

	img := s.Image()
	r, _, _, _ := img.At(16, 16).RGBA()
	assert.Greater(t, r, uint32(0xf000), "circle centre should be filled")

	r, _, _, _ = img.At(45, 39).RGBA()
	assert.Greater(t, r, uint32(0x8000), "line midpoint should be covered")

	r, _, _, _ = img.At(5, 40).RGBA()
	assert.Equal(t, uint32(0), r, "untouched pixel keeps background")

	// Shapes hanging over the edge must not panic
	s.FillCircle(r2.Vec{X: 0, Y: 0}, 10, white)
	s.StrokeLine(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 64, Y: 48}, 1, white)
}

func TestRasterSurface_ResizeAndPNG(t *testing.T) {
	s := NewRasterSurface(10, 10, color.NRGBA{})
	s.Resize(32, 20)

	w, h := s.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 20, h)

	st := testState(r2.Vec{X: 5, Y: 5}, r2.Vec{X: 20, Y: 10})
	Render(s, st, DefaultStyle())

	var buf bytes.Buffer
	require.NoError(t, s.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func BenchmarkRender(b *testing.B) {
	cfg := config.Defaults()
	st := systems.Initialize(1280, 800, cfg.Particles.Count, systems.InitParamsFrom(cfg.Particles), newBenchRand())
	s := NewRasterSurface(1280, 800, DefaultStyle().Background)
	style := DefaultStyle()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Render(s, &st, style)
	}
}

func newBenchRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
