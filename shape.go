package rigid

// Shape is the geometry owned by a body. The variant set is closed: *Circle and *Polygon.
// A box is a four vertex Polygon built by NewBox.
type Shape interface {
	Type() ShapeType
	// MomentOfInertia returns the moment of inertia per unit mass about the shape's centroid.
	MomentOfInertia() float64
	// Update refreshes cached world-space geometry for the given pose.
	Update(transform Transform)
	// Clone returns a deep copy so every body exclusively owns its geometry.
	Clone() Shape

	sealed()
}
