package components

import "gonum.org/v1/gonum/spatial/r2"

// AbsentPointer is the pointer position used when no pointer is over the surface.
// It sits far enough outside any canvas that no particle is within influence range.
var AbsentPointer = r2.Vec{X: -1000, Y: -1000}

// PointerAbsent reports whether p is the absent sentinel.
func PointerAbsent(p r2.Vec) bool {
	return p == AbsentPointer
}
