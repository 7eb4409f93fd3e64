package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node's local translation, rotation and scale.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity returns a transform that changes nothing.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// FromTranslation returns an identity transform moved to (x, y, z).
func FromTranslation(x, y, z float32) Transform {
	t := Identity()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// Matrix returns Translation * Rotation * Scale.
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	m = m.Mul4(t.Rotation.Normalize().Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Mul composes parent and child: the result applies child first, then t.
// Non-uniform scale combined with rotation is approximated componentwise.
func (t Transform) Mul(child Transform) Transform {
	scaled := mgl32.Vec3{
		child.Translation[0] * t.Scale[0],
		child.Translation[1] * t.Scale[1],
		child.Translation[2] * t.Scale[2],
	}
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(scaled)),
		Rotation:    t.Rotation.Mul(child.Rotation).Normalize(),
		Scale: mgl32.Vec3{
			t.Scale[0] * child.Scale[0],
			t.Scale[1] * child.Scale[1],
			t.Scale[2] * child.Scale[2],
		},
	}
}

// TransformPoint maps a local point through the transform.
func (t Transform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return t.Matrix().Mul4x1(p.Vec4(1)).Vec3()
}
