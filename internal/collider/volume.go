package collider

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Part is one convex piece of a decomposed mesh. Triangles index into Points.
type Part struct {
	Points    []mgl32.Vec3
	Triangles [][3]uint32
	Min       mgl32.Vec3
	Max       mgl32.Vec3
}

// Volume is a compound collision shape made of convex parts.
type Volume struct {
	Parts []Part
}

// Empty reports whether the volume has no parts.
func (v *Volume) Empty() bool {
	return v == nil || len(v.Parts) == 0
}

// TriangleCount returns the number of triangles across all parts.
func (v *Volume) TriangleCount() int {
	if v == nil {
		return 0
	}
	n := 0
	for i := range v.Parts {
		n += len(v.Parts[i].Triangles)
	}
	return n
}

// Bounds returns the axis-aligned box enclosing every part.
func (v *Volume) Bounds() (min, max mgl32.Vec3) {
	if v.Empty() {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	min, max = v.Parts[0].Min, v.Parts[0].Max
	for _, p := range v.Parts[1:] {
		for k := 0; k < 3; k++ {
			if p.Min[k] < min[k] {
				min[k] = p.Min[k]
			}
			if p.Max[k] > max[k] {
				max[k] = p.Max[k]
			}
		}
	}
	return min, max
}
