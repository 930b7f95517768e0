package rigid

import (
	"fmt"
	"math"
)

type Circle struct {
	r float64

	// world space center as of the last Update
	tc Vector
}

func NewCircle(radius float64) (*Circle, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	return &Circle{r: radius}, nil
}

func (*Circle) Type() ShapeType {
	return CircleShape
}

func (*Circle) sealed() {}

func (circle *Circle) Radius() float64 {
	return circle.r
}

// MomentOfInertia of a solid disc: r²/2 per unit mass.
func (circle *Circle) MomentOfInertia() float64 {
	return 0.5 * circle.r * circle.r
}

func (circle *Circle) Update(transform Transform) {
	circle.tc = transform.Position
}

func (circle *Circle) TransformC() Vector {
	return circle.tc
}

func (circle *Circle) Clone() Shape {
	c := *circle
	return &c
}
