package rigid

import (
	"fmt"
	"math"
)

const polygonAreaEpsilon = 1e-9

// Polygon is a convex polygon with counter-clockwise winding.
// World vertices are only valid as of the last Update.
type Polygon struct {
	local []Vector
	world []Vector

	i float64
}

// NewPolygon validates a convex vertex loop. Clockwise input is reversed, and the vertices
// are re-expressed relative to their centroid so the body position is the center of mass.
func NewPolygon(verts []Vector) (*Polygon, error) {
	count := len(verts)
	if count < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, count)
	}
	for _, v := range verts {
		if !v.IsFinite() {
			return nil, fmt.Errorf("%w: non-finite vertex %v", ErrDegeneratePolygon, v)
		}
	}

	local := make([]Vector, count)
	copy(local, verts)

	area := AreaForPoly(local)
	if math.Abs(area) < polygonAreaEpsilon {
		return nil, ErrDegeneratePolygon
	}
	if area < 0 {
		for i, j := 0, count-1; i < j; i, j = i+1, j-1 {
			local[i], local[j] = local[j], local[i]
		}
	}

	for i := 0; i < count; i++ {
		a := local[i]
		b := local[(i+1)%count]
		c := local[(i+2)%count]
		if b.Sub(a).Cross(c.Sub(b)) < -polygonAreaEpsilon {
			return nil, fmt.Errorf("%w: reflex vertex at index %d", ErrConcavePolygon, (i+1)%count)
		}
	}

	centroid := CentroidForPoly(local)
	for i := range local {
		local[i] = local[i].Sub(centroid)
	}

	poly := &Polygon{
		local: local,
		world: make([]Vector, count),
		i:     MomentForPoly(local),
	}
	poly.Update(NewTransformIdentity())
	return poly, nil
}

// NewBox builds a w by h rectangle centered on the origin.
func NewBox(w, h float64) (*Polygon, error) {
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, w, h)
	}
	hw := w / 2.0
	hh := h / 2.0
	poly := &Polygon{
		local: []Vector{
			{-hw, -hh},
			{hw, -hh},
			{hw, hh},
			{-hw, hh},
		},
		world: make([]Vector, 4),
		i:     (w*w + h*h) / 12.0,
	}
	poly.Update(NewTransformIdentity())
	return poly, nil
}

// NewRegularPolygon builds a polygon with sides vertices on a circle of the given radius.
func NewRegularPolygon(sides int, radius float64) (*Polygon, error) {
	if sides < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, sides)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	verts := make([]Vector, sides)
	for i := range verts {
		verts[i] = ForAngle(2 * math.Pi * float64(i) / float64(sides)).Mult(radius)
	}
	return NewPolygon(verts)
}

func (*Polygon) Type() ShapeType {
	return PolygonShape
}

func (*Polygon) sealed() {}

func (poly *Polygon) MomentOfInertia() float64 {
	return poly.i
}

func (poly *Polygon) Update(transform Transform) {
	for i, v := range poly.local {
		poly.world[i] = transform.Point(v)
	}
}

func (poly *Polygon) Clone() Shape {
	c := &Polygon{
		local: make([]Vector, len(poly.local)),
		world: make([]Vector, len(poly.world)),
		i:     poly.i,
	}
	copy(c.local, poly.local)
	copy(c.world, poly.world)
	return c
}

func (poly *Polygon) Count() int {
	return len(poly.local)
}

// LocalVertices returns the vertices relative to the body. Callers must not modify the slice.
func (poly *Polygon) LocalVertices() []Vector {
	return poly.local
}

// WorldVertices returns the vertices as of the last pose refresh. Callers must not modify the slice.
func (poly *Polygon) WorldVertices() []Vector {
	return poly.world
}

func (poly *Polygon) edge(i int) (Vector, Vector) {
	count := len(poly.world)
	return poly.world[i], poly.world[(i+1)%count]
}

// EdgeNormal returns the outward unit normal of the world space edge from vertex i to i+1.
func (poly *Polygon) EdgeNormal(i int) Vector {
	v0, v1 := poly.edge(i)
	return v1.Sub(v0).Normal()
}

// AreaForPoly returns the signed area, positive for counter-clockwise winding.
func AreaForPoly(verts []Vector) float64 {
	var area float64
	count := len(verts)
	for i := 0; i < count; i++ {
		area += verts[i].Cross(verts[(i+1)%count])
	}
	return area / 2
}

func CentroidForPoly(verts []Vector) Vector {
	var sum float64
	var vsum Vector
	count := len(verts)
	for i := 0; i < count; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%count]
		cross := v1.Cross(v2)

		sum += cross
		vsum = vsum.Add(v1.Add(v2).Mult(cross))
	}
	return vsum.Mult(1.0 / (3.0 * sum))
}

// MomentForPoly returns the moment of inertia per unit mass of a polygon about the origin.
func MomentForPoly(verts []Vector) float64 {
	var sum1, sum2 float64
	count := len(verts)
	for i := 0; i < count; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%count]

		a := v2.Cross(v1)
		b := v1.Dot(v1) + v1.Dot(v2) + v2.Dot(v2)

		sum1 += a * b
		sum2 += a
	}
	return sum1 / (6.0 * sum2)
}
