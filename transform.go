package rigid

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid pose: a rotation about the origin followed by a translation.
type Transform struct {
	Position Vector
	Angle    float64

	rot mgl64.Mat2
}

func NewTransformIdentity() Transform {
	return NewTransformRigid(Vector{}, 0)
}

func NewTransformRigid(translate Vector, radians float64) Transform {
	return Transform{
		Position: translate,
		Angle:    radians,
		rot:      mgl64.Rotate2D(radians),
	}
}

// Point maps a local point to world space.
func (t Transform) Point(p Vector) Vector {
	return t.Vect(p).Add(t.Position)
}

// Vect rotates a local direction into world space without translating it.
func (t Transform) Vect(v Vector) Vector {
	r := t.rot.Mul2x1(mgl64.Vec2{v.X, v.Y})
	return Vector{r[0], r[1]}
}

// Unpoint maps a world point back to local space.
func (t Transform) Unpoint(p Vector) Vector {
	return t.Unvect(p.Sub(t.Position))
}

// Unvect applies the inverse rotation. The rotation is orthonormal so its transpose is its inverse.
func (t Transform) Unvect(v Vector) Vector {
	r := t.rot.Transpose().Mul2x1(mgl64.Vec2{v.X, v.Y})
	return Vector{r[0], r[1]}
}

// Lerp blends two poses, used by hosts rendering between two committed ticks.
func (t Transform) Lerp(other Transform, alpha float64) Transform {
	return NewTransformRigid(t.Position.Lerp(other.Position, alpha), Lerp(t.Angle, other.Angle, alpha))
}
