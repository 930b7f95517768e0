package rigid

import "errors"

var (
	ErrInvalidRadius     = errors.New("circle radius must be positive and finite")
	ErrInvalidDimensions = errors.New("box dimensions must be positive and finite")
	ErrTooFewVertices    = errors.New("polygon needs at least 3 vertices")
	ErrConcavePolygon    = errors.New("polygon is not convex")
	ErrDegeneratePolygon = errors.New("polygon has zero area")
	ErrInvalidMass       = errors.New("mass must be zero (static) or positive and finite")
	ErrNilShape          = errors.New("body requires a shape")
	ErrInvalidPosition   = errors.New("position must be finite")
	ErrBodyNotFound      = errors.New("body not found")
	ErrInvalidJoint      = errors.New("invalid joint")
	ErrInvalidTimestep   = errors.New("timestep must be positive and finite")
	ErrInvalidConfig     = errors.New("invalid world configuration")
)
