// Package systems contains the particle simulation: initialization, the
// per-tick physics step and the proximity graph used for rendering.
package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/molecule/components"
)

// State is the complete simulation state for one mounted surface.
// It is owned by a single controller and passed by reference into Step and Render.
type State struct {
	Particles []components.Particle
	Pointer   r2.Vec // canvas-local, or components.AbsentPointer
	Width     float64
	Height    float64
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Particles = append([]components.Particle(nil), s.Particles...)
	return out
}

// Len returns the number of particles.
func (s State) Len() int {
	return len(s.Particles)
}
