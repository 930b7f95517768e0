package rigid

import "math"

// Collide runs the narrow phase for the shape pair of a and b. The result normal always
// points from a to b. Contact indices are left for the caller to fill in.
func Collide(a, b *Body, info *CollisionInfo) bool {
	info.reset()

	switch sa := a.shape.(type) {
	case *Circle:
		switch sb := b.shape.(type) {
		case *Circle:
			CircleToCircle(a, b, sa, sb, info)
		case *Polygon:
			PolyToCircle(sb, sa, info)
			info.swap()
		}
	case *Polygon:
		switch sb := b.shape.(type) {
		case *Circle:
			PolyToCircle(sa, sb, info)
		case *Polygon:
			PolyToPoly(sa, sb, info)
		}
	}

	return info.Count > 0
}

func CircleToCircle(a, b *Body, ca, cb *Circle, info *CollisionInfo) {
	delta := b.p.Sub(a.p)
	rsum := ca.r + cb.r
	distSq := delta.LengthSq()
	if distSq > rsum*rsum {
		return
	}

	dist := math.Sqrt(distSq)
	var n Vector
	if dist > 0 {
		n = delta.Mult(1 / dist)
	} else {
		// concentric circles have no preferred direction
		n = Vector{0, 1}
	}

	start := b.p.Sub(n.Mult(cb.r))
	end := a.p.Add(n.Mult(ca.r))
	info.PushContact(start, end, n, rsum-dist)
}

// PolyToCircle classifies the circle center against the Voronoi regions of the polygon
// edge it is furthest outside of. A center inside the polygon becomes a face contact on the
// edge of least penetration.
func PolyToCircle(poly *Polygon, circle *Circle, info *CollisionInfo) {
	center := circle.tc
	r := circle.r

	sep := -math.MaxFloat64
	index := 0
	for i := range poly.world {
		s := center.Sub(poly.world[i]).Dot(poly.EdgeNormal(i))
		if s > r {
			return
		}
		if s > sep {
			sep = s
			index = i
		}
	}

	v0, v1 := poly.edge(index)

	if sep > 0 {
		if center.Sub(v0).Dot(v1.Sub(v0)) < 0 {
			circleToVertex(center, r, v0, info)
			return
		}
		if center.Sub(v1).Dot(v0.Sub(v1)) < 0 {
			circleToVertex(center, r, v1, info)
			return
		}
	}

	n := poly.EdgeNormal(index)
	start := center.Sub(n.Mult(r))
	end := center.Sub(n.Mult(sep))
	info.PushContact(start, end, n, r-sep)
}

func circleToVertex(center Vector, r float64, v Vector, info *CollisionInfo) {
	delta := center.Sub(v)
	distSq := delta.LengthSq()
	if distSq > r*r {
		return
	}
	dist := math.Sqrt(distSq)
	n := delta.Mult(1 / dist)
	info.PushContact(center.Sub(n.Mult(r)), v, n, r-dist)
}

// PolyToPoly is the separating axis test followed by clipping the incident edge against
// the side planes of the reference edge.
func PolyToPoly(a, b *Polygon, info *CollisionInfo) {
	sepA, edgeA := findMinSeparation(a, b)
	if sepA >= 0 {
		return
	}
	sepB, edgeB := findMinSeparation(b, a)
	if sepB >= 0 {
		return
	}

	ref, inc, refEdge, flip := a, b, edgeA, false
	if sepB > sepA+referenceTolerance {
		ref, inc, refEdge, flip = b, a, edgeB, true
	}

	v1, v2 := ref.edge(refEdge)
	refNormal := ref.EdgeNormal(refEdge)

	i1, i2 := inc.edge(findIncidentEdge(inc, refNormal))

	tangent := v2.Sub(v1).Normalize()
	clipped, count := clipSegmentToLine([2]Vector{i1, i2}, tangent.Neg(), -tangent.Dot(v1))
	if count < 2 {
		return
	}
	clipped, count = clipSegmentToLine(clipped, tangent, tangent.Dot(v2))
	if count < 2 {
		return
	}

	n := refNormal
	if flip {
		n = n.Neg()
	}

	for _, p := range clipped {
		s := p.Sub(v1).Dot(refNormal)
		if s >= 0 {
			continue
		}
		onRef := p.Sub(refNormal.Mult(s))
		if flip {
			// incident points belong to A
			info.PushContact(onRef, p, n, -s)
		} else {
			info.PushContact(p, onRef, n, -s)
		}
	}
}

// findMinSeparation returns, over the edges of a, the largest of the smallest signed
// distances of b's vertices along the edge normal, and the edge that produced it.
func findMinSeparation(a, b *Polygon) (float64, int) {
	sep := -math.MaxFloat64
	index := 0
	for i := range a.world {
		va := a.world[i]
		n := a.EdgeNormal(i)

		minSep := math.MaxFloat64
		for _, vb := range b.world {
			minSep = math.Min(minSep, vb.Sub(va).Dot(n))
		}

		if minSep > sep {
			sep = minSep
			index = i
		}
	}
	return sep, index
}

// findIncidentEdge returns the edge of inc whose normal is most anti-parallel to n.
func findIncidentEdge(inc *Polygon, n Vector) int {
	best := math.MaxFloat64
	index := 0
	for i := range inc.world {
		d := inc.EdgeNormal(i).Dot(n)
		if d < best {
			best = d
			index = i
		}
	}
	return index
}

// clipSegmentToLine keeps the part of the segment where n·p <= offset.
func clipSegmentToLine(in [2]Vector, n Vector, offset float64) ([2]Vector, int) {
	var out [2]Vector
	count := 0

	d0 := n.Dot(in[0]) - offset
	d1 := n.Dot(in[1]) - offset

	if d0 <= 0 {
		out[count] = in[0]
		count++
	}
	if d1 <= 0 {
		out[count] = in[1]
		count++
	}

	if d0*d1 < 0 {
		t := d0 / (d0 - d1)
		out[count] = in[0].Add(in[1].Sub(in[0]).Mult(t))
		count++
	}

	return out, count
}
