package feed

import (
	"github.com/google/uuid"

	"github.com/jakecoffman/rigid"
)

type FrameBody struct {
	Index    int             `json:"index"`
	Type     rigid.ShapeType `json:"type"`
	Position rigid.Vector    `json:"position"`
	Rotation float64         `json:"rotation"`
	Radius   float64         `json:"radius,omitempty"`
	Vertices []rigid.Vector  `json:"vertices,omitempty"`
	Static   bool            `json:"static"`
}

// Frame is one rendered snapshot of a world. Body poses are interpolated by Alpha between the
// last two committed ticks; contacts and joints are as of the last tick.
type Frame struct {
	World    uuid.UUID         `json:"world"`
	Tick     uint64            `json:"tick"`
	Alpha    float64           `json:"alpha"`
	Bounds   rigid.BB          `json:"bounds"`
	Bodies   []FrameBody       `json:"bodies"`
	Contacts []rigid.Vector    `json:"contacts"`
	Joints   [][2]rigid.Vector `json:"joints"`
}

func BuildFrame(w *rigid.World, alpha float64) Frame {
	frame := Frame{
		World:  w.ID(),
		Tick:   w.Stats().Ticks,
		Alpha:  alpha,
		Bodies: make([]FrameBody, 0, w.BodyCount()),
	}
	// renderers fit their camera to this
	frame.Bounds, _ = w.Bounds()

	for i := 0; i < w.BodyCount(); i++ {
		state, err := w.ReadBody(i)
		if err != nil {
			continue
		}
		position, rotation := state.Interpolate(alpha)
		frame.Bodies = append(frame.Bodies, FrameBody{
			Index:    i,
			Type:     state.Type,
			Position: position,
			Rotation: rotation,
			Radius:   state.Radius,
			Vertices: state.InterpolatedVertices(alpha),
			Static:   state.Static,
		})
	}

	c := &collector{
		flags:    rigid.DrawJoints | rigid.DrawContacts,
		contacts: []rigid.Vector{},
		joints:   [][2]rigid.Vector{},
	}
	w.Draw(c)
	frame.Contacts = c.contacts
	frame.Joints = c.joints
	return frame
}

// collector turns the debug draw walk into frame data.
type collector struct {
	flags    int
	contacts []rigid.Vector
	joints   [][2]rigid.Vector
}

var (
	jointColor   = rigid.FColor{R: 0.5, G: 1, B: 0.5, A: 1}
	contactColor = rigid.FColor{R: 1, G: 0, B: 0, A: 1}
)

func (c *collector) DrawCircle(rigid.Vector, float64, float64, rigid.FColor, rigid.FColor) {}

func (c *collector) DrawPolygon([]rigid.Vector, rigid.FColor, rigid.FColor) {}

func (c *collector) DrawSegment(a, b rigid.Vector, _ rigid.FColor) {
	c.joints = append(c.joints, [2]rigid.Vector{a, b})
}

func (c *collector) DrawDot(_ float64, pos rigid.Vector, fill rigid.FColor) {
	if fill == contactColor {
		c.contacts = append(c.contacts, pos)
	}
}

func (c *collector) Flags() int {
	return c.flags
}

func (c *collector) OutlineColor() rigid.FColor {
	return rigid.FColor{}
}

func (c *collector) ShapeColor(int, *rigid.Body) rigid.FColor {
	return rigid.FColor{}
}

func (c *collector) JointColor() rigid.FColor {
	return jointColor
}

func (c *collector) ContactColor() rigid.FColor {
	return contactColor
}
