// Package components holds the data types shared by the simulation and rendering packages.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Particle is one simulated point.
type Particle struct {
	Pos     r2.Vec  // pixels, origin top-left
	Vel     r2.Vec  // pixels per tick
	Radius  float64 // drawn radius, fixed at creation
	Opacity float64 // fill alpha, fixed at creation
}
