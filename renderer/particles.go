package renderer

import (
	"github.com/pthm-cable/molecule/systems"
)

// Render clears the surface and draws every particle followed by the
// proximity links between them. It only reads st.
func Render(s Surface, st *systems.State, style Style) {
	s.Clear()

	particles := st.Particles
	if len(particles) == 0 {
		return
	}

	// Hue is fixed per style; only alpha varies per draw
	fill := style.Particle.NRGBA(1)
	for i := range particles {
		p := &particles[i]
		s.FillCircle(p.Pos, p.Radius, withAlpha(fill, p.Opacity))
	}

	stroke := style.Line.NRGBA(1)
	systems.ForEachConnection(particles, style.ConnectionDistance, func(i, j int, dist float64) {
		alpha := systems.ConnectionAlpha(dist, style.ConnectionDistance, style.LineMaxAlpha)
		if alpha <= 0 {
			return
		}
		s.StrokeLine(particles[i].Pos, particles[j].Pos, style.LineWidth, withAlpha(stroke, alpha))
	})
}
