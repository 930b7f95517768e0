package rigid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	flags    int
	circles  int
	polygons int
	segments [][2]Vector
	dots     []Vector
	colors   []int
}

func (r *recorder) DrawCircle(pos Vector, angle, radius float64, outline, fill FColor) {
	r.circles++
}

func (r *recorder) DrawPolygon(verts []Vector, outline, fill FColor) {
	r.polygons++
}

func (r *recorder) DrawSegment(a, b Vector, fill FColor) {
	r.segments = append(r.segments, [2]Vector{a, b})
}

func (r *recorder) DrawDot(size float64, pos Vector, fill FColor) {
	r.dots = append(r.dots, pos)
}

func (r *recorder) Flags() int           { return r.flags }
func (r *recorder) OutlineColor() FColor { return FColor{} }
func (r *recorder) JointColor() FColor   { return FColor{R: 1} }
func (r *recorder) ContactColor() FColor { return FColor{G: 1} }
func (r *recorder) ShapeColor(index int, body *Body) FColor {
	r.colors = append(r.colors, index)
	return FColor{B: 1}
}

func TestWorldDraw(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = Vector{}
	world := newTestWorld(t, cfg)
	a := addCircle(t, world, 1, Vector{0, 0}, 1)
	b := addCircle(t, world, 1, Vector{1.5, 0}, 1)
	addBox(t, world, 1, 1, Vector{10, 0}, 0)
	_, err := world.CreateJoint(a, b, Vector{0.75, 0})
	require.NoError(t, err)
	require.NoError(t, world.Step(dt))

	shapes := &recorder{flags: DrawShapes}
	world.Draw(shapes)
	assert.Equal(t, 2, shapes.circles)
	assert.Equal(t, 1, shapes.polygons)
	assert.Equal(t, []int{0, 1, 2}, shapes.colors)
	assert.Empty(t, shapes.segments)
	assert.Empty(t, shapes.dots)

	joints := &recorder{flags: DrawJoints}
	world.Draw(joints)
	require.Len(t, joints.segments, 1)
	assert.Len(t, joints.dots, 2)
	assert.Zero(t, joints.circles)

	contacts := &recorder{flags: DrawContacts}
	world.Draw(contacts)
	// one circle-circle contact, drawn at both anchors
	assert.Len(t, contacts.dots, 2)

	all := &recorder{flags: DrawShapes | DrawJoints | DrawContacts}
	world.Draw(all)
	assert.Len(t, all.dots, 4)
}
