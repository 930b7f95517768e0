package rigid

import "fmt"

// JointConstraint pins a point of body A to a point of body B. Anchors are stored in each
// body's local frame so the joint follows the bodies as they rotate.
//
// The point constraint is split into one row per world axis. Each row is a 1x6 Jacobian
// [-n, -(ra×n), n, rb×n] with a scalar effective mass, and Gauss-Seidel couples the two.
type JointConstraint struct {
	a, b int

	anchorA, anchorB Vector

	ra, rb Vector

	rows [2]jointRow

	skip bool
}

type jointRow struct {
	n      Vector
	nMass  float64
	bias   float64
	lambda float64
}

var jointAxes = [2]Vector{{1, 0}, {0, 1}}

func newJointConstraint(bodies []Body, a, b int, anchor Vector) JointConstraint {
	return JointConstraint{
		a:       a,
		b:       b,
		anchorA: bodies[a].WorldToLocal(anchor),
		anchorB: bodies[b].WorldToLocal(anchor),
	}
}

func validateJoint(bodies []Body, a, b int) error {
	if a < 0 || a >= len(bodies) || b < 0 || b >= len(bodies) {
		return fmt.Errorf("%w: bodies %d and %d of %d", ErrBodyNotFound, a, b, len(bodies))
	}
	if a == b {
		return fmt.Errorf("%w: body %d joined to itself", ErrInvalidJoint, a)
	}
	if bodies[a].IsStatic() && bodies[b].IsStatic() {
		return fmt.Errorf("%w: bodies %d and %d are both static", ErrInvalidJoint, a, b)
	}
	return nil
}

func (joint *JointConstraint) Bodies() (int, int) {
	return joint.a, joint.b
}

func (joint *JointConstraint) AnchorA() Vector {
	return joint.anchorA
}

func (joint *JointConstraint) AnchorB() Vector {
	return joint.anchorB
}

// WorldAnchors returns both anchors in world space for the bodies' current poses.
func (joint *JointConstraint) WorldAnchors(bodies []Body) (Vector, Vector) {
	return bodies[joint.a].LocalToWorld(joint.anchorA), bodies[joint.b].LocalToWorld(joint.anchorB)
}

// Lambda returns the accumulated impulse of the last tick as a world space vector.
func (joint *JointConstraint) Lambda() Vector {
	return Vector{joint.rows[0].lambda, joint.rows[1].lambda}
}

// PreSolve builds both rows for the current pose and warm starts them. It reports false when
// neither body can respond to an impulse at the anchors.
func (joint *JointConstraint) PreSolve(bodies []Body, cfg *Config, dt float64) bool {
	a := &bodies[joint.a]
	b := &bodies[joint.b]

	pa, pb := joint.WorldAnchors(bodies)
	joint.ra = pa.Sub(a.p)
	joint.rb = pb.Sub(b.p)
	delta := pb.Sub(pa)

	joint.skip = false
	for i := range joint.rows {
		row := &joint.rows[i]
		row.n = jointAxes[i]

		k := k_scalar(a, b, joint.ra, joint.rb, row.n)
		if !validMass(k) {
			joint.skip = true
			break
		}
		row.nMass = 1 / k
		row.bias = cfg.Baumgarte / dt * delta.Dot(row.n)
	}
	if joint.skip {
		joint.rows[0].lambda = 0
		joint.rows[1].lambda = 0
		return false
	}

	if cfg.WarmStart {
		apply_impulses(a, b, joint.ra, joint.rb, joint.Lambda())
	} else {
		joint.rows[0].lambda = 0
		joint.rows[1].lambda = 0
	}
	return true
}

// Solve applies the bilateral impulse of each row. It is not clamped: the joint both pushes and pulls.
func (joint *JointConstraint) Solve(bodies []Body) {
	if joint.skip {
		return
	}
	a := &bodies[joint.a]
	b := &bodies[joint.b]

	for i := range joint.rows {
		row := &joint.rows[i]
		vrn := relative_velocity(a, b, joint.ra, joint.rb).Dot(row.n)
		jn := -(vrn + row.bias) * row.nMass
		row.lambda += jn
		apply_impulses(a, b, joint.ra, joint.rb, row.n.Mult(jn))
	}
}
