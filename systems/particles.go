package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/molecule/components"
	"github.com/pthm-cable/molecule/config"
)

// InitParams holds the ranges particles are drawn from at creation.
type InitParams struct {
	MaxSpeed   float64 // velocity components drawn from [-MaxSpeed, MaxSpeed]
	MinRadius  float64
	MaxRadius  float64
	MinOpacity float64
	MaxOpacity float64
}

// DefaultInitParams returns the stock creation ranges.
func DefaultInitParams() InitParams {
	return InitParams{
		MaxSpeed:   0.25,
		MinRadius:  1.5,
		MaxRadius:  3.5,
		MinOpacity: 0.3,
		MaxOpacity: 0.8,
	}
}

// InitParamsFrom builds creation ranges from config.
func InitParamsFrom(c config.ParticlesConfig) InitParams {
	return InitParams{
		MaxSpeed:   c.MaxSpeed,
		MinRadius:  c.MinRadius,
		MaxRadius:  c.MaxRadius,
		MinOpacity: c.MinOpacity,
		MaxOpacity: c.MaxOpacity,
	}
}

// Initialize creates a fresh state of count particles spread uniformly over
// [0,width) x [0,height). A zero-area viewport or non-positive count yields
// an empty state. The pointer starts absent.
func Initialize(width, height float64, count int, p InitParams, rng *rand.Rand) State {
	st := State{
		Pointer: components.AbsentPointer,
		Width:   max(width, 0),
		Height:  max(height, 0),
	}
	if width <= 0 || height <= 0 || count <= 0 {
		return st
	}

	st.Particles = make([]components.Particle, count)
	for i := range st.Particles {
		st.Particles[i] = components.Particle{
			Pos: r2.Vec{
				X: rng.Float64() * width,
				Y: rng.Float64() * height,
			},
			Vel: r2.Vec{
				X: (rng.Float64()*2 - 1) * p.MaxSpeed,
				Y: (rng.Float64()*2 - 1) * p.MaxSpeed,
			},
			Radius:  uniform(rng, p.MinRadius, p.MaxRadius),
			Opacity: uniform(rng, p.MinOpacity, p.MaxOpacity),
		}
	}
	return st
}
