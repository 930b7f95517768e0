// Package scene describes worlds as data. Scenes can be read from YAML or taken from the
// built-in demo set, and turned into a ready to step *rigid.World.
package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jakecoffman/rigid"
)

var (
	ErrUnknownScene = errors.New("unknown scene")
	ErrUnknownShape = errors.New("unknown shape")
)

const (
	ShapeCircle  = "circle"
	ShapeBox     = "box"
	ShapePolygon = "polygon"
)

type Scene struct {
	Name   string       `json:"name" yaml:"name"`
	World  rigid.Config `json:"world" yaml:"world"`
	Bodies []Body       `json:"bodies" yaml:"bodies"`
	Joints []Joint      `json:"joints,omitempty" yaml:"joints,omitempty"`
	Ticks  int          `json:"ticks,omitempty" yaml:"ticks,omitempty"`
}

// Body describes one body. Shape selects which of the geometry fields are used: Radius for
// circles, Width and Height for boxes, and either Vertices or Sides with Radius for polygons.
// A zero mass makes the body static. Unset material keeps the world default.
type Body struct {
	Shape    string         `json:"shape" yaml:"shape"`
	Radius   float64        `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width    float64        `json:"width,omitempty" yaml:"width,omitempty"`
	Height   float64        `json:"height,omitempty" yaml:"height,omitempty"`
	Sides    int            `json:"sides,omitempty" yaml:"sides,omitempty"`
	Vertices []rigid.Vector `json:"vertices,omitempty" yaml:"vertices,omitempty"`

	Position rigid.Vector `json:"position" yaml:"position"`
	Rotation float64      `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Mass     float64      `json:"mass" yaml:"mass"`

	Restitution *float64 `json:"restitution,omitempty" yaml:"restitution,omitempty"`
	Friction    *float64 `json:"friction,omitempty" yaml:"friction,omitempty"`

	Velocity        rigid.Vector `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	AngularVelocity float64      `json:"angular_velocity,omitempty" yaml:"angular_velocity,omitempty"`
}

// Joint pins bodies A and B (indices into Bodies) together at the world point Anchor.
type Joint struct {
	A      int          `json:"a" yaml:"a"`
	B      int          `json:"b" yaml:"b"`
	Anchor rigid.Vector `json:"anchor" yaml:"anchor"`
}

// Load decodes a YAML scene. The world section is decoded on top of rigid.DefaultConfig.
func Load(r io.Reader) (*Scene, error) {
	s := &Scene{World: rigid.DefaultConfig()}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := s.World.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	return s, nil
}

func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (b *Body) shape() (rigid.Shape, error) {
	switch b.Shape {
	case ShapeCircle:
		return rigid.NewCircle(b.Radius)
	case ShapeBox:
		return rigid.NewBox(b.Width, b.Height)
	case ShapePolygon:
		if len(b.Vertices) == 0 && b.Sides > 0 {
			return rigid.NewRegularPolygon(b.Sides, b.Radius)
		}
		return rigid.NewPolygon(b.Vertices)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, b.Shape)
	}
}

// Build creates a world holding the scene's bodies and joints. Body i of the scene is body i
// of the world.
func (s *Scene) Build(opts ...rigid.Option) (*rigid.World, error) {
	w, err := rigid.NewWorld(s.World, opts...)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}

	for i := range s.Bodies {
		desc := &s.Bodies[i]
		shape, err := desc.shape()
		if err != nil {
			return nil, fmt.Errorf("scene %q body %d: %w", s.Name, i, err)
		}
		index, err := w.CreateBody(shape, desc.Position, desc.Mass)
		if err != nil {
			return nil, fmt.Errorf("scene %q body %d: %w", s.Name, i, err)
		}

		body := w.Body(index)
		if desc.Rotation != 0 {
			body.SetRotation(desc.Rotation)
		}
		body.SetVelocity(desc.Velocity)
		body.SetAngularVelocity(desc.AngularVelocity)

		if desc.Restitution != nil || desc.Friction != nil {
			e, u := body.Restitution(), body.Friction()
			if desc.Restitution != nil {
				e = *desc.Restitution
			}
			if desc.Friction != nil {
				u = *desc.Friction
			}
			if err := w.SetBodyMaterial(index, e, u); err != nil {
				return nil, fmt.Errorf("scene %q body %d: %w", s.Name, i, err)
			}
		}
	}

	for i, j := range s.Joints {
		if _, err := w.CreateJoint(j.A, j.B, j.Anchor); err != nil {
			return nil, fmt.Errorf("scene %q joint %d: %w", s.Name, i, err)
		}
	}

	return w, nil
}
