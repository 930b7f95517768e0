package rigid

import "fmt"

// MaxContacts is the most contact points the narrow phase reports for one body pair.
const MaxContacts = 2

// staticEpsilon is the inverse mass below which a body counts as static.
const staticEpsilon = 1e-8

// massEpsilon guards effective-mass divisions in the solver.
const massEpsilon = 1e-12

// referenceTolerance biases SAT reference-face selection toward polygon A so
// resting contacts keep the same reference face from one tick to the next.
const referenceTolerance = 0.0005

type ShapeType int

const (
	CircleShape ShapeType = iota
	PolygonShape
)

func (t ShapeType) String() string {
	switch t {
	case CircleShape:
		return "circle"
	case PolygonShape:
		return "polygon"
	}
	return "unknown"
}

func (t ShapeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ShapeType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "circle":
		*t = CircleShape
	case "polygon":
		*t = PolygonShape
	default:
		return fmt.Errorf("unknown shape type %q", text)
	}
	return nil
}
