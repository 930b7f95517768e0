package rigid

import "math"

// PenetrationConstraint keeps one contact point from closing further along the contact normal
// and resists sliding along the tangent within the friction cone.
type PenetrationConstraint struct {
	a, b int

	// world space anchors captured when the contact was found
	pointA, pointB Vector
	n              Vector

	// offsets from each center of mass, recomputed every tick
	ra, rb Vector

	// effective mass along the normal and the tangent
	kNormal, kTangent float64

	bias     float64
	friction float64

	lambdaNormal, lambdaTangent float64

	skip bool
}

func newPenetrationConstraint(c *Contact) PenetrationConstraint {
	return PenetrationConstraint{
		a:      c.A,
		b:      c.B,
		pointA: c.End,
		pointB: c.Start,
		n:      c.Normal,
	}
}

func (con *PenetrationConstraint) PointA() Vector {
	return con.pointA
}

func (con *PenetrationConstraint) PointB() Vector {
	return con.pointB
}

func (con *PenetrationConstraint) Normal() Vector {
	return con.n
}

// Depth is how far B's anchor sits behind A's anchor along the normal.
func (con *PenetrationConstraint) Depth() float64 {
	return -con.pointB.Sub(con.pointA).Dot(con.n)
}

func (con *PenetrationConstraint) LambdaNormal() float64 {
	return con.lambdaNormal
}

func (con *PenetrationConstraint) LambdaTangent() float64 {
	return con.lambdaTangent
}

// PreSolve computes the effective masses and velocity bias for the current pose and, when warm
// starting, applies last tick's accumulated impulse. It reports false if the effective mass is
// unusable and the constraint sits out this tick.
func (con *PenetrationConstraint) PreSolve(bodies []Body, cfg *Config, dt float64) bool {
	a := &bodies[con.a]
	b := &bodies[con.b]
	n := con.n
	t := n.Perp()

	con.ra = con.pointA.Sub(a.p)
	con.rb = con.pointB.Sub(b.p)

	con.kNormal = k_scalar(a, b, con.ra, con.rb, n)
	con.kTangent = k_scalar(a, b, con.ra, con.rb, t)
	con.skip = !validMass(con.kNormal) || !validMass(con.kTangent)
	if con.skip {
		con.lambdaNormal = 0
		con.lambdaTangent = 0
		return false
	}

	e := a.e * b.e
	con.friction = a.u * b.u

	vrn := relative_velocity(a, b, con.ra, con.rb).Dot(n)

	// Calculate the target bias velocity.
	dist := con.pointB.Sub(con.pointA).Dot(n)
	c := math.Min(0, dist+cfg.PenetrationSlop)
	con.bias = cfg.Baumgarte / dt * c
	if vrn < -cfg.RestitutionThreshold {
		con.bias += e * vrn
	}

	if cfg.WarmStart {
		j := n.Mult(con.lambdaNormal).Add(t.Mult(con.lambdaTangent))
		apply_impulses(a, b, con.ra, con.rb, j)
	} else {
		con.lambdaNormal = 0
		con.lambdaTangent = 0
	}
	return true
}

// Solve runs one sequential impulse pass: a normal impulse clamped to stay non-negative, then a
// tangent impulse clamped to the friction cone of the updated normal impulse.
func (con *PenetrationConstraint) Solve(bodies []Body) {
	if con.skip {
		return
	}
	a := &bodies[con.a]
	b := &bodies[con.b]
	n := con.n
	t := n.Perp()

	vrn := relative_velocity(a, b, con.ra, con.rb).Dot(n)
	jn := -(vrn + con.bias) / con.kNormal
	jnOld := con.lambdaNormal
	con.lambdaNormal = math.Max(jnOld+jn, 0)
	apply_impulses(a, b, con.ra, con.rb, n.Mult(con.lambdaNormal-jnOld))

	vrt := relative_velocity(a, b, con.ra, con.rb).Dot(t)
	jtMax := con.friction * con.lambdaNormal
	jt := -vrt / con.kTangent
	jtOld := con.lambdaTangent
	con.lambdaTangent = Clamp(jtOld+jt, -jtMax, jtMax)
	apply_impulses(a, b, con.ra, con.rb, t.Mult(con.lambdaTangent-jtOld))
}

func k_scalar(a, b *Body, ra, rb, n Vector) float64 {
	rcna := ra.Cross(n)
	rcnb := rb.Cross(n)
	return a.m_inv + b.m_inv + a.i_inv*rcna*rcna + b.i_inv*rcnb*rcnb
}

func validMass(k float64) bool {
	return k > massEpsilon && !math.IsInf(k, 0)
}

func apply_impulses(a, b *Body, ra, rb, j Vector) {
	a.ApplyImpulseAtPoint(j.Neg(), ra)
	b.ApplyImpulseAtPoint(j, rb)
}

func relative_velocity(a, b *Body, ra, rb Vector) Vector {
	return b.VelocityAtPoint(rb).Sub(a.VelocityAtPoint(ra))
}
