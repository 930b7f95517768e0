package rigid

import "fmt"

// BodyState is a copy of a body's pose and geometry for renderers and other readers that
// must not hold pointers into the world.
type BodyState struct {
	Index         int       `json:"index"`
	Type          ShapeType `json:"type"`
	Radius        float64   `json:"radius,omitempty"`
	WorldVertices []Vector  `json:"vertices,omitempty"`
	Bounds        BB        `json:"bounds"`

	Position     Vector  `json:"position"`
	Rotation     float64 `json:"rotation"`
	PrevPosition Vector  `json:"prev_position"`
	PrevRotation float64 `json:"prev_rotation"`

	Velocity        Vector  `json:"velocity"`
	AngularVelocity float64 `json:"angular_velocity"`
	Static          bool    `json:"static"`
}

func (w *World) ReadBody(index int) (BodyState, error) {
	body := w.Body(index)
	if body == nil {
		return BodyState{}, fmt.Errorf("%w: index %d", ErrBodyNotFound, index)
	}

	state := BodyState{
		Index:           index,
		Type:            body.shape.Type(),
		Position:        body.p,
		Rotation:        body.a,
		PrevPosition:    body.prevP,
		PrevRotation:    body.prevA,
		Velocity:        body.v,
		AngularVelocity: body.w,
		Static:          body.IsStatic(),
		Bounds:          body.BB(),
	}

	switch shape := body.shape.(type) {
	case *Circle:
		state.Radius = shape.r
	case *Polygon:
		state.WorldVertices = make([]Vector, len(shape.world))
		copy(state.WorldVertices, shape.world)
	}
	return state, nil
}

// Interpolate blends the previous and current pose. alpha is the fraction of a fixed tick that
// has elapsed since the last committed tick. Static bodies are always drawn where they are.
func (state BodyState) Interpolate(alpha float64) (Vector, float64) {
	if state.Static {
		return state.Position, state.Rotation
	}
	alpha = Clamp01(alpha)
	return state.PrevPosition.Lerp(state.Position, alpha), Lerp(state.PrevRotation, state.Rotation, alpha)
}

// InterpolatedVertices returns the polygon outline at the interpolated pose.
func (state BodyState) InterpolatedVertices(alpha float64) []Vector {
	if len(state.WorldVertices) == 0 {
		return nil
	}
	position, rotation := state.Interpolate(alpha)
	current := NewTransformRigid(state.Position, state.Rotation)
	blended := NewTransformRigid(position, rotation)

	verts := make([]Vector, len(state.WorldVertices))
	for i, v := range state.WorldVertices {
		verts[i] = blended.Point(current.Unpoint(v))
	}
	return verts
}
