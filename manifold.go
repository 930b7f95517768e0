package rigid

// Manifold is the persistent contact record for one colliding body pair. It lives in the
// world's Table for as long as the pair keeps colliding.
type Manifold struct {
	a, b int

	count       int
	constraints [MaxContacts]PenetrationConstraint

	// set at the start of every tick, cleared when the pair is found colliding again
	expired bool
}

func newManifold(a, b int) *Manifold {
	return &Manifold{a: a, b: b}
}

func (m *Manifold) Bodies() (int, int) {
	return m.a, m.b
}

func (m *Manifold) Count() int {
	return m.count
}

func (m *Manifold) Expired() bool {
	return m.expired
}

// Constraint returns the i'th active contact constraint.
func (m *Manifold) Constraint(i int) *PenetrationConstraint {
	assertTrue(i >= 0 && i < m.count, "Index error: the manifold has no constraint", i)
	return &m.constraints[i]
}

// Update replaces the constraints with the contacts of info. A new contact whose anchors on
// both bodies lie within tolerance of a cached one inherits its accumulated impulses.
// It returns the number of contacts that were carried over.
func (m *Manifold) Update(info *CollisionInfo, warm bool, tolerance float64) int {
	var next [MaxContacts]PenetrationConstraint
	tolSq := tolerance * tolerance
	persistent := 0

	for i := 0; i < info.Count; i++ {
		c := &info.Contacts[i]
		con := newPenetrationConstraint(c)

		for j := 0; warm && j < m.count; j++ {
			old := &m.constraints[j]
			if old.pointA.DistanceSq(c.End) <= tolSq && old.pointB.DistanceSq(c.Start) <= tolSq {
				// Copy the persistent contact information.
				con.lambdaNormal = old.lambdaNormal
				con.lambdaTangent = old.lambdaTangent
				persistent++
				break
			}
		}

		next[i] = con
	}

	m.constraints = next
	m.count = info.Count
	m.expired = false
	return persistent
}

// PreSolve prepares every constraint and returns how many had to be skipped.
func (m *Manifold) PreSolve(bodies []Body, cfg *Config, dt float64) int {
	skipped := 0
	for i := 0; i < m.count; i++ {
		if !m.constraints[i].PreSolve(bodies, cfg, dt) {
			skipped++
		}
	}
	return skipped
}

func (m *Manifold) Solve(bodies []Body) {
	for i := 0; i < m.count; i++ {
		m.constraints[i].Solve(bodies)
	}
}
