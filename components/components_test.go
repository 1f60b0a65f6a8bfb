package components

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestPointerAbsent(t *testing.T) {
	tests := []struct {
		name string
		p    r2.Vec
		want bool
	}{
		{"sentinel", AbsentPointer, true},
		{"origin", r2.Vec{}, false},
		{"inside canvas", r2.Vec{X: 320, Y: 200}, false},
		{"negative but not sentinel", r2.Vec{X: -1000, Y: 0}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PointerAbsent(tc.p); got != tc.want {
				t.Errorf("PointerAbsent(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}
