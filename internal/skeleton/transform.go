package skeleton

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid joint transform: a translation and a unit
// quaternion orientation. Z is up.
type Transform struct {
	Translation r3.Vec      `json:"translation"`
	Rotation    quat.Number `json:"rotation"`
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Rotation: quat.Number{Real: 1}}
}

// Rotate applies the quaternion q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Mul composes t with a child-local transform, giving the child's
// transform in t's parent space.
func (t Transform) Mul(child Transform) Transform {
	return Transform{
		Translation: r3.Add(t.Translation, Rotate(t.Rotation, child.Translation)),
		Rotation:    quat.Mul(t.Rotation, child.Rotation),
	}
}

// RelativeTo makes t root-relative: the root translation is subtracted
// and the rotation is pre-multiplied by the inverse root rotation.
func (t Transform) RelativeTo(root Transform) Transform {
	return Transform{
		Translation: r3.Sub(t.Translation, root.Translation),
		Rotation:    quat.Mul(quat.Inv(root.Rotation), t.Rotation),
	}
}

// Height is the vertical (z) component of the translation.
func (t Transform) Height() float64 {
	return t.Translation.Z
}

// Normalize scales q to unit length. A zero quaternion becomes identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// Slerp interpolates between unit quaternions a and b along the shortest arc.
func Slerp(a, b quat.Number, t float64) quat.Number {
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	if dot < 0 {
		b = quat.Scale(-1, b)
		dot = -dot
	}
	// nearly parallel: fall back to normalized lerp
	if dot > 0.9995 {
		return Normalize(quat.Add(quat.Scale(1-t, a), quat.Scale(t, b)))
	}
	theta := math.Acos(dot)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return quat.Add(quat.Scale(wa, a), quat.Scale(wb, b))
}

// Lerp interpolates between two transforms: linear translation, slerped
// rotation.
func Lerp(a, b Transform, t float64) Transform {
	return Transform{
		Translation: r3.Add(a.Translation, r3.Scale(t, r3.Sub(b.Translation, a.Translation))),
		Rotation:    Slerp(a.Rotation, b.Rotation, t),
	}
}

// Samples maps a joint id to its root-relative transform at every sampled
// frame, in frame order.
type Samples map[int][]Transform

// Heights returns the height curve of joint id, or nil and false when the
// joint was not sampled.
func (s Samples) Heights(id int) ([]float64, bool) {
	frames, ok := s[id]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Height()
	}
	return out, true
}

// FromHeights builds a frame sequence that only carries height, for
// canned test data and synthetic curves.
func FromHeights(heights ...float64) []Transform {
	out := make([]Transform, len(heights))
	for i, h := range heights {
		out[i] = Transform{
			Translation: r3.Vec{Z: h},
			Rotation:    quat.Number{Real: 1},
		}
	}
	return out
}
