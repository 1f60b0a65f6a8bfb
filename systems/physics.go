package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/molecule/components"
	"github.com/pthm-cable/molecule/config"
)

// PhysicsParams holds the per-tick integration constants.
type PhysicsParams struct {
	InfluenceRadius float64 // pointer repulsion range in pixels
	Repulsion       float64 // velocity change per tick at full force
	Damping         float64 // velocity multiplier applied after integration
}

// DefaultPhysicsParams returns the stock physics constants.
func DefaultPhysicsParams() PhysicsParams {
	return PhysicsParams{
		InfluenceRadius: 100,
		Repulsion:       0.02,
		Damping:         0.99,
	}
}

// PhysicsParamsFrom builds physics constants from config.
func PhysicsParamsFrom(p config.ParticlesConfig, ph config.PhysicsConfig) PhysicsParams {
	return PhysicsParams{
		InfluenceRadius: p.InfluenceRadius,
		Repulsion:       ph.Repulsion,
		Damping:         ph.Damping,
	}
}

// Step advances every particle by one tick, in place.
//
// Per particle: pointer repulsion, explicit Euler integration with the
// pre-damping velocity, damping, then one reflection per axis followed by
// clamping into [0,Width] x [0,Height]. A particle that overshoots both
// edges of an axis in one tick is still reflected only once.
//
// Width and Height are not re-validated here; Initialize handles the degenerate cases.
func Step(st *State, p PhysicsParams) {
	w, h := st.Width, st.Height
	pointer := st.Pointer
	absent := components.PointerAbsent(pointer)

	for i := range st.Particles {
		pt := &st.Particles[i]

		if !absent {
			repel(pt, pointer, p)
		}

		pt.Pos = r2.Add(pt.Pos, pt.Vel)
		pt.Vel = r2.Scale(p.Damping, pt.Vel)

		if pt.Pos.X < 0 || pt.Pos.X > w {
			pt.Vel.X = -pt.Vel.X
		}
		if pt.Pos.Y < 0 || pt.Pos.Y > h {
			pt.Vel.Y = -pt.Vel.Y
		}
		pt.Pos.X = clampFloat(pt.Pos.X, 0, w)
		pt.Pos.Y = clampFloat(pt.Pos.Y, 0, h)
	}
}

// repel pushes pt directly away from the pointer with a force that grows
// linearly from 0 at the influence radius to 1 at the pointer.
// A particle exactly under the pointer has no defined direction and is left alone.
func repel(pt *components.Particle, pointer r2.Vec, p PhysicsParams) {
	if p.InfluenceRadius <= 0 {
		return
	}
	toPointer := r2.Sub(pointer, pt.Pos)
	d := r2.Norm(toPointer)
	if d == 0 || d >= p.InfluenceRadius {
		return
	}
	force := (p.InfluenceRadius - d) / p.InfluenceRadius
	pt.Vel = r2.Sub(pt.Vel, r2.Scale(force*p.Repulsion/d, toPointer))
}
