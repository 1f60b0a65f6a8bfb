package systems

import (
	"math"

	"github.com/pthm-cable/molecule/components"
)

// ConnectionAlpha returns the stroke alpha of a link of length dist.
// It fades linearly from maxAlpha at zero length to 0 at connectionDistance.
func ConnectionAlpha(dist, connectionDistance, maxAlpha float64) float64 {
	if connectionDistance <= 0 || dist >= connectionDistance {
		return 0
	}
	return (1 - dist/connectionDistance) * maxAlpha
}

// ForEachConnection calls fn for every unordered pair i < j closer than
// connectionDistance, with the Euclidean distance between them.
//
// This is a full O(n^2) pass. It is fine at the tens of particles a
// background uses; bucketing particles into a grid of connectionDistance
// sized cells is the upgrade path if counts grow into the thousands.
func ForEachConnection(particles []components.Particle, connectionDistance float64, fn func(i, j int, dist float64)) {
	if connectionDistance <= 0 {
		return
	}
	limitSq := connectionDistance * connectionDistance

	for i := 0; i < len(particles); i++ {
		a := particles[i].Pos
		for j := i + 1; j < len(particles); j++ {
			b := particles[j].Pos
			dx := b.X - a.X
			dy := b.Y - a.Y
			// Compare squared distances to skip the sqrt for distant pairs
			distSq := dx*dx + dy*dy
			if distSq >= limitSq {
				continue
			}
			fn(i, j, math.Sqrt(distSq))
		}
	}
}

// CountConnections returns the number of links ForEachConnection would visit.
func CountConnections(particles []components.Particle, connectionDistance float64) int {
	n := 0
	ForEachConnection(particles, connectionDistance, func(int, int, float64) { n++ })
	return n
}
