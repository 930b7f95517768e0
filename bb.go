package rigid

import "math"

// BB is an axis-aligned bounding box. +Y points down, so T is the smaller Y.
type BB struct {
	L float64 `json:"l"`
	T float64 `json:"t"`
	R float64 `json:"r"`
	B float64 `json:"b"`
}

func NewBBForExtents(c Vector, hw, hh float64) BB {
	return BB{
		L: c.X - hw,
		T: c.Y - hh,
		R: c.X + hw,
		B: c.Y + hh,
	}
}

func NewBBForCircle(p Vector, r float64) BB {
	return NewBBForExtents(p, r, r)
}

// NewBBForPoints returns the smallest box holding every point. verts must not be empty.
func NewBBForPoints(verts []Vector) BB {
	bb := BB{verts[0].X, verts[0].Y, verts[0].X, verts[0].Y}
	for _, v := range verts[1:] {
		bb = bb.Expand(v)
	}
	return bb
}

func (a BB) Intersects(b BB) bool {
	return a.L <= b.R && b.L <= a.R && a.T <= b.B && b.T <= a.B
}

func (bb BB) Contains(other BB) bool {
	return bb.L <= other.L && bb.R >= other.R && bb.T <= other.T && bb.B >= other.B
}

func (bb BB) ContainsVect(v Vector) bool {
	return bb.L <= v.X && bb.R >= v.X && bb.T <= v.Y && bb.B >= v.Y
}

func (a BB) Merge(b BB) BB {
	return BB{
		math.Min(a.L, b.L),
		math.Min(a.T, b.T),
		math.Max(a.R, b.R),
		math.Max(a.B, b.B),
	}
}

func (bb BB) Expand(v Vector) BB {
	return BB{
		math.Min(bb.L, v.X),
		math.Min(bb.T, v.Y),
		math.Max(bb.R, v.X),
		math.Max(bb.B, v.Y),
	}
}

func (bb BB) Center() Vector {
	return Vector{bb.L, bb.T}.Lerp(Vector{bb.R, bb.B}, 0.5)
}

func (bb BB) Area() float64 {
	return (bb.R - bb.L) * (bb.B - bb.T)
}

// BB bounds the body at its committed pose.
func (body *Body) BB() BB {
	switch shape := body.shape.(type) {
	case *Circle:
		return NewBBForCircle(shape.tc, shape.r)
	case *Polygon:
		return NewBBForPoints(shape.world)
	}
	panic("Unknown shape type")
}

// Bounds merges the boxes of every body. It reports false for an empty world.
func (w *World) Bounds() (BB, bool) {
	if len(w.bodies) == 0 {
		return BB{}, false
	}
	bb := w.bodies[0].BB()
	for i := 1; i < len(w.bodies); i++ {
		bb = bb.Merge(w.bodies[i].BB())
	}
	return bb, true
}

// QueryBB calls f with the index of every body whose box overlaps bb.
func (w *World) QueryBB(bb BB, f func(index int, body *Body)) {
	for i := range w.bodies {
		if w.bodies[i].BB().Intersects(bb) {
			f(i, &w.bodies[i])
		}
	}
}
