package rigid

// Contact is one point of contact between two bodies for a single tick.
// Start lies on B's surface, End lies on A's surface and Normal points from A to B.
type Contact struct {
	A, B int

	Start, End Vector
	Normal     Vector
	Depth      float64
}

// CollisionInfo collects the narrow phase result for one body pair.
type CollisionInfo struct {
	Count    int
	Contacts [MaxContacts]Contact
}

func (info *CollisionInfo) PushContact(start, end, n Vector, depth float64) {
	assertTrue(info.Count < MaxContacts, "Internal Error: Contact buffer overflow")
	info.Contacts[info.Count] = Contact{
		Start:  start,
		End:    end,
		Normal: n,
		Depth:  depth,
	}
	info.Count++
}

func (info *CollisionInfo) reset() {
	info.Count = 0
}

// swap turns a B-versus-A result into the A-versus-B result.
func (info *CollisionInfo) swap() {
	for i := 0; i < info.Count; i++ {
		c := &info.Contacts[i]
		c.A, c.B = c.B, c.A
		c.Start, c.End = c.End, c.Start
		c.Normal = c.Normal.Neg()
	}
}

func (info *CollisionInfo) setIndices(a, b int) {
	for i := 0; i < info.Count; i++ {
		info.Contacts[i].A = a
		info.Contacts[i].B = b
	}
}
