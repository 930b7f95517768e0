package scene

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"sort"

	"github.com/jakecoffman/rigid"
)

//go:embed builtin/*.yaml
var builtinFiles embed.FS

// Indices of the arena bodies every built-in scene starts with.
const (
	Floor = iota
	LeftWall
	RightWall
	Ceiling
)

// The arena is 16m by 10m. The floor's top surface sits at y=9.25 and the ceiling's bottom at y=0.75.
const (
	arenaCenter = 8.0
	groundLevel = 9.25
	ceilingLine = 0.75
)

var builtins = map[string]func() (*Scene, error){
	"walls":    walls,
	"incline":  incline,
	"stack":    stack,
	"pyramid":  pyramid,
	"plink":    plink,
	"chain":    chain,
	"pendulum": pendulum,
	"newton":   newton,
}

// Names lists the built-in scenes in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a fresh copy of the named demo scene.
func Builtin(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return build()
}

func loadEmbedded(name string) (*Scene, error) {
	data, err := builtinFiles.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data))
}

func walls() (*Scene, error) {
	return loadEmbedded("walls")
}

// arena starts a scene with the four walls.
func arena(name string, ticks int) (*Scene, error) {
	s, err := walls()
	if err != nil {
		return nil, err
	}
	s.Name = name
	s.Ticks = ticks
	return s, nil
}

func material(e, u float64) (*float64, *float64) {
	return &e, &u
}

func (s *Scene) add(b Body) int {
	s.Bodies = append(s.Bodies, b)
	return len(s.Bodies) - 1
}

func (s *Scene) addBox(w, h float64, pos rigid.Vector, mass, e, u float64) int {
	b := Body{Shape: ShapeBox, Width: w, Height: h, Position: pos, Mass: mass}
	b.Restitution, b.Friction = material(e, u)
	return s.add(b)
}

func (s *Scene) addCircle(r float64, pos rigid.Vector, mass, e, u float64) int {
	b := Body{Shape: ShapeCircle, Radius: r, Position: pos, Mass: mass}
	b.Restitution, b.Friction = material(e, u)
	return s.add(b)
}

func (s *Scene) join(a, b int, anchor rigid.Vector) {
	s.Joints = append(s.Joints, Joint{A: a, B: b, Anchor: anchor})
}

func incline() (*Scene, error) {
	s, err := arena("incline", 600)
	if err != nil {
		return nil, err
	}
	extra, err := loadEmbedded("incline")
	if err != nil {
		return nil, err
	}
	s.Bodies = append(s.Bodies, extra.Bodies...)
	return s, nil
}

func stack() (*Scene, error) {
	s, err := arena("stack", 600)
	if err != nil {
		return nil, err
	}
	const side = 1.0
	for i := 0; i < 6; i++ {
		y := groundLevel - side/2 - float64(i)*side
		s.addBox(side, side, rigid.Vector{X: arenaCenter, Y: y}, 1, 0, 0.4)
	}
	return s, nil
}

func pyramid() (*Scene, error) {
	s, err := arena("pyramid", 900)
	if err != nil {
		return nil, err
	}
	const (
		base    = 8
		side    = 1.0
		xOffset = side * 1.126
	)
	xStart := arenaCenter - base/2.0*side
	for i := 0; i < base; i++ {
		y := groundLevel - side/2 - float64(i)*side
		xRow := xStart + float64(i)*xOffset/2
		for j := i; j < base; j++ {
			x := xRow + float64(j-i)*xOffset
			s.addBox(side, side, rigid.Vector{X: x, Y: y}, 1, 0, 0.4)
		}
	}
	return s, nil
}

// plink drops pentagons through a staggered grid of static triangles.
func plink() (*Scene, error) {
	s, err := arena("plink", 900)
	if err != nil {
		return nil, err
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 6; col++ {
			x := 2.5 + float64(col)*2 + float64(row%2)
			y := 3 + float64(row)*1.5
			e, u := material(0, 0.4)
			s.add(Body{
				Shape:       ShapePolygon,
				Sides:       3,
				Radius:      0.4,
				Position:    rigid.Vector{X: x, Y: y},
				Rotation:    -math.Pi / 2,
				Restitution: e,
				Friction:    u,
			})
		}
	}
	for i := 0; i < 20; i++ {
		e, u := material(0.1, 0.4)
		s.add(Body{
			Shape:       ShapePolygon,
			Sides:       5,
			Radius:      0.25,
			Position:    rigid.Vector{X: 1.5 + float64(i)*0.65, Y: 1.5},
			Mass:        1,
			Restitution: e,
			Friction:    u,
		})
	}
	return s, nil
}

// chain hangs circular links from a static block, each pinned to the next halfway across the gap.
func chain() (*Scene, error) {
	s, err := arena("chain", 900)
	if err != nil {
		return nil, err
	}
	const (
		links  = 8
		radius = 0.2
		pitch  = 0.5
	)
	top := rigid.Vector{X: arenaCenter, Y: 1.5}
	prev := s.addBox(0.5, 0.5, top, 0, 0.2, 0.7)
	anchor := top.Add(rigid.Vector{Y: 0.25})

	for i := 0; i < links; i++ {
		pos := anchor.Add(rigid.Vector{Y: pitch / 2})
		link := s.addCircle(radius, pos, 0.5, 0, 0.7)
		s.join(prev, link, anchor)
		prev = link
		anchor = pos.Add(rigid.Vector{Y: pitch / 2})
	}
	s.Bodies[len(s.Bodies)-1].Velocity = rigid.Vector{X: 4}
	return s, nil
}

func pendulum() (*Scene, error) {
	s, err := arena("pendulum", 600)
	if err != nil {
		return nil, err
	}
	pivot := rigid.Vector{X: arenaCenter, Y: 2}
	block := s.addBox(0.5, 0.5, pivot, 0, 0.2, 0.7)
	bob := s.addCircle(0.4, pivot.Add(rigid.Vector{X: 3}), 2, 0.2, 0.7)
	s.join(block, bob, pivot)
	return s, nil
}

// newton is Newton's cradle: five elastic balls hanging from the ceiling, the first one
// swung out to the left.
func newton() (*Scene, error) {
	s, err := arena("newton", 600)
	if err != nil {
		return nil, err
	}
	const (
		balls  = 5
		radius = 0.5
		length = 4.0
		gap    = 0.001
	)
	x0 := arenaCenter - (balls-1)/2.0*(2*radius+gap)
	for i := 0; i < balls; i++ {
		x := x0 + float64(i)*(2*radius+gap)
		pivot := rigid.Vector{X: x, Y: 2}
		ball := s.addCircle(radius, pivot.Add(rigid.Vector{Y: length}), 1, 1, 0)
		s.join(Ceiling, ball, pivot)
	}
	s.Bodies[len(s.Bodies)-balls].Velocity = rigid.Vector{X: -3}
	return s, nil
}
