package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/molecule/components"
)

func TestConnectionAlpha(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{"zero length", 0, 0.3},
		{"half distance", 75, 0.15},
		{"at threshold", 150, 0},
		{"beyond threshold", 200, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ConnectionAlpha(tc.dist, 150, 0.3)
			if !approxEqual(got, tc.want) {
				t.Errorf("ConnectionAlpha(%v) = %v, want %v", tc.dist, got, tc.want)
			}
		})
	}

	if got := ConnectionAlpha(10, 0, 0.3); got != 0 {
		t.Errorf("expected 0 alpha for zero connection distance, got %v", got)
	}
}

func TestForEachConnection_Threshold(t *testing.T) {
	particles := []components.Particle{
		{Pos: r2.Vec{X: 0, Y: 0}},
		{Pos: r2.Vec{X: 150, Y: 0}}, // exactly at threshold from 0
		{Pos: r2.Vec{X: 75, Y: 0}},  // half distance from both
	}

	type pair struct{ i, j int }
	got := map[pair]float64{}
	ForEachConnection(particles, 150, func(i, j int, dist float64) {
		if i >= j {
			t.Errorf("expected i < j, got (%d, %d)", i, j)
		}
		got[pair{i, j}] = dist
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 links, got %d: %v", len(got), got)
	}
	if _, ok := got[pair{0, 1}]; ok {
		t.Error("pair at exactly the connection distance must not link")
	}
	if d := got[pair{0, 2}]; !approxEqual(d, 75) {
		t.Errorf("expected distance 75 for (0,2), got %v", d)
	}
	if d := got[pair{1, 2}]; !approxEqual(d, 75) {
		t.Errorf("expected distance 75 for (1,2), got %v", d)
	}
}

func TestForEachConnection_EachPairOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	st := Initialize(50, 50, 12, DefaultInitParams(), rng)

	// Every pair fits inside a 50x50 box, so all n(n-1)/2 pairs link
	seen := map[[2]int]int{}
	ForEachConnection(st.Particles, 1000, func(i, j int, _ float64) {
		seen[[2]int{i, j}]++
	})

	if len(seen) != 12*11/2 {
		t.Errorf("expected %d pairs, got %d", 12*11/2, len(seen))
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("pair %v visited %d times", k, n)
		}
	}
	if n := CountConnections(st.Particles, 1000); n != 66 {
		t.Errorf("CountConnections = %d, want 66", n)
	}
}

func TestForEachConnection_Empty(t *testing.T) {
	called := false
	ForEachConnection(nil, 150, func(int, int, float64) { called = true })
	ForEachConnection([]components.Particle{{}}, 150, func(int, int, float64) { called = true })
	ForEachConnection([]components.Particle{{}, {}}, 0, func(int, int, float64) { called = true })
	if called {
		t.Error("expected no links")
	}
}

func BenchmarkForEachConnection(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	st := Initialize(1280, 800, 60, DefaultInitParams(), rng)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CountConnections(st.Particles, 150)
	}
}
