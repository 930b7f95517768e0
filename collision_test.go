package rigid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCircle(t *testing.T, r float64, pos Vector, mass float64) *Body {
	t.Helper()
	circle, err := NewCircle(r)
	require.NoError(t, err)
	body, err := NewBody(circle, pos, mass)
	require.NoError(t, err)
	return body
}

func newTestPolygon(t *testing.T, verts []Vector, pos Vector, angle, mass float64) *Body {
	t.Helper()
	poly, err := NewPolygon(verts)
	require.NoError(t, err)
	body, err := NewBody(poly, pos, mass)
	require.NoError(t, err)
	body.SetRotation(angle)
	return body
}

func unitBox(t *testing.T, pos Vector) *Body {
	t.Helper()
	box, err := NewBox(1, 1)
	require.NoError(t, err)
	body, err := NewBody(box, pos, 1)
	require.NoError(t, err)
	return body
}

func TestCollideBoxBox(t *testing.T) {
	a := unitBox(t, Vector{0, 0})
	b := unitBox(t, Vector{0.9, 0})

	var info CollisionInfo
	require.True(t, Collide(a, b, &info))
	require.Equal(t, 2, info.Count)

	for i := 0; i < info.Count; i++ {
		c := info.Contacts[i]
		assert.True(t, c.Normal.Near(Vector{1, 0}, 1e-9), "normal %v", c.Normal)
		assert.InDelta(t, 0.1, c.Depth, 1e-9)
		// start sits on B's left face, end on A's right face
		assert.InDelta(t, 0.4, c.Start.X, 1e-9)
		assert.InDelta(t, 0.5, c.End.X, 1e-9)
		assert.InDelta(t, c.Depth, c.End.Sub(c.Start).Dot(c.Normal), 1e-9)
	}
	ys := []float64{info.Contacts[0].Start.Y, info.Contacts[1].Start.Y}
	assert.ElementsMatch(t, []float64{-0.5, 0.5}, roundAll(ys))
}

func roundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Round(v*1e6) / 1e6
	}
	return out
}

func TestCollideBoxBoxSeparated(t *testing.T) {
	var info CollisionInfo
	assert.False(t, Collide(unitBox(t, Vector{0, 0}), unitBox(t, Vector{1.01, 0}), &info))
	assert.Zero(t, info.Count)

	// touching faces do not count as a collision
	assert.False(t, Collide(unitBox(t, Vector{0, 0}), unitBox(t, Vector{1, 0}), &info))

	// overlapping on one axis only
	assert.False(t, Collide(unitBox(t, Vector{0, 0}), unitBox(t, Vector{0.5, 1.2}), &info))
}

func TestCollideBoxRestingOnFloor(t *testing.T) {
	floor, err := NewBox(20, 1)
	require.NoError(t, err)
	a, err := NewBody(floor, Vector{0, 5}, 0)
	require.NoError(t, err)
	b := unitBox(t, Vector{0, 4.01})

	var info CollisionInfo
	require.True(t, Collide(b, a, &info))
	require.Equal(t, 2, info.Count)
	for i := 0; i < info.Count; i++ {
		c := info.Contacts[i]
		// +Y is down: the normal from the box to the floor points down
		assert.True(t, c.Normal.Near(Vector{0, 1}, 1e-9), "normal %v", c.Normal)
		assert.InDelta(t, 0.01, c.Depth, 1e-9)
	}
}

func TestCollideSymmetry(t *testing.T) {
	tri := []Vector{{0, 0}, {1, 0}, {0.5, 1}}
	pairs := []struct {
		name string
		a, b *Body
	}{
		{"box-box", unitBox(t, Vector{0, 0}), unitBox(t, Vector{0.7, 0.3})},
		{"rotated", newTestPolygon(t, tri, Vector{0, 0}, 0.3, 1), unitBox(t, Vector{0.4, 0.6})},
		{"circle-circle", newTestCircle(t, 1, Vector{0, 0}, 1), newTestCircle(t, 0.5, Vector{1.2, 0.3}, 1)},
		{"circle-box", newTestCircle(t, 0.5, Vector{0.9, 0.1}, 1), unitBox(t, Vector{0, 0})},
		{"box-circle corner", unitBox(t, Vector{0, 0}), newTestCircle(t, 0.5, Vector{0.8, 0.8}, 1)},
		{"separated", unitBox(t, Vector{0, 0}), newTestCircle(t, 0.5, Vector{3, 0}, 1)},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			var ab, ba CollisionInfo
			hitAB := Collide(p.a, p.b, &ab)
			hitBA := Collide(p.b, p.a, &ba)
			require.Equal(t, hitAB, hitBA)
			if !hitAB {
				return
			}
			require.Equal(t, ab.Count, ba.Count)
			assert.True(t, ab.Contacts[0].Normal.Near(ba.Contacts[0].Normal.Neg(), 1e-9),
				"%v vs %v", ab.Contacts[0].Normal, ba.Contacts[0].Normal)
			for i := 0; i < ab.Count; i++ {
				assert.InDelta(t, 1, ab.Contacts[i].Normal.Length(), 1e-9)
				assert.Greater(t, ab.Contacts[i].Depth, 0.0)
			}
		})
	}
}

func TestCollideCircleCircle(t *testing.T) {
	a := newTestCircle(t, 1, Vector{0, 0}, 1)
	b := newTestCircle(t, 1, Vector{1.5, 0}, 1)

	var info CollisionInfo
	require.True(t, Collide(a, b, &info))
	require.Equal(t, 1, info.Count)
	c := info.Contacts[0]
	assert.True(t, c.Normal.Near(Vector{1, 0}, 1e-12))
	assert.InDelta(t, 0.5, c.Depth, 1e-12)
	assert.True(t, c.Start.Near(Vector{0.5, 0}, 1e-12))
	assert.True(t, c.End.Near(Vector{1, 0}, 1e-12))

	b.SetPosition(Vector{2.01, 0})
	assert.False(t, Collide(a, b, &info))

	// concentric circles still produce a usable normal
	b.SetPosition(Vector{0, 0})
	require.True(t, Collide(a, b, &info))
	assert.InDelta(t, 1, info.Contacts[0].Normal.Length(), 1e-12)
	assert.InDelta(t, 2, info.Contacts[0].Depth, 1e-12)
}

func TestCollidePolygonCircleRegions(t *testing.T) {
	box := unitBox(t, Vector{0, 0})
	var info CollisionInfo

	t.Run("face", func(t *testing.T) {
		circle := newTestCircle(t, 0.5, Vector{0.9, 0.1}, 1)
		require.True(t, Collide(box, circle, &info))
		c := info.Contacts[0]
		assert.True(t, c.Normal.Near(Vector{1, 0}, 1e-12))
		assert.InDelta(t, 0.1, c.Depth, 1e-12)
		assert.True(t, c.Start.Near(Vector{0.4, 0.1}, 1e-12))
		assert.True(t, c.End.Near(Vector{0.5, 0.1}, 1e-12))
	})

	t.Run("vertex", func(t *testing.T) {
		circle := newTestCircle(t, 0.5, Vector{0.8, 0.8}, 1)
		require.True(t, Collide(box, circle, &info))
		c := info.Contacts[0]
		diag := Vector{1, 1}.Normalize()
		assert.True(t, c.Normal.Near(diag, 1e-12), "normal %v", c.Normal)
		assert.True(t, c.End.Near(Vector{0.5, 0.5}, 1e-12))
		assert.InDelta(t, 0.5-0.3*math.Sqrt2, c.Depth, 1e-12)
	})

	t.Run("vertex miss", func(t *testing.T) {
		// inside both face slabs' reach but outside the corner's radius
		circle := newTestCircle(t, 0.5, Vector{0.9, 0.9}, 1)
		assert.False(t, Collide(box, circle, &info))
	})

	t.Run("center inside", func(t *testing.T) {
		circle := newTestCircle(t, 0.2, Vector{0.4, 0}, 1)
		require.True(t, Collide(box, circle, &info))
		c := info.Contacts[0]
		assert.True(t, c.Normal.Near(Vector{1, 0}, 1e-12))
		assert.InDelta(t, 0.3, c.Depth, 1e-12)
	})

	t.Run("circle first", func(t *testing.T) {
		circle := newTestCircle(t, 0.5, Vector{0.9, 0.1}, 1)
		require.True(t, Collide(circle, box, &info))
		c := info.Contacts[0]
		assert.True(t, c.Normal.Near(Vector{-1, 0}, 1e-12))
		// start is on the box (B), end on the circle (A)
		assert.True(t, c.Start.Near(Vector{0.5, 0.1}, 1e-12))
		assert.True(t, c.End.Near(Vector{0.4, 0.1}, 1e-12))
	})
}

func TestClipSegmentToLine(t *testing.T) {
	in := [2]Vector{{0, 0}, {2, 0}}
	out, count := clipSegmentToLine(in, Vector{1, 0}, 1)
	require.Equal(t, 2, count)
	assert.Equal(t, Vector{0, 0}, out[0])
	assert.Equal(t, Vector{1, 0}, out[1])

	_, count = clipSegmentToLine(in, Vector{1, 0}, -1)
	assert.Zero(t, count)
}

func TestCollisionInfoSwap(t *testing.T) {
	var info CollisionInfo
	info.PushContact(Vector{1, 0}, Vector{2, 0}, Vector{1, 0}, 1)
	info.setIndices(3, 7)
	info.swap()

	c := info.Contacts[0]
	assert.Equal(t, 7, c.A)
	assert.Equal(t, 3, c.B)
	assert.Equal(t, Vector{2, 0}, c.Start)
	assert.Equal(t, Vector{1, 0}, c.End)
	assert.Equal(t, Vector{-1, 0}, c.Normal)

	assert.Panics(t, func() {
		info.PushContact(Vector{}, Vector{}, Vector{}, 0)
		info.PushContact(Vector{}, Vector{}, Vector{}, 0)
	})
}

func TestCollideReferenceFaceTolerance(t *testing.T) {
	// Rotating A tilts its right face, so B's left face separates slightly less than A's.
	// Reference stays on A until the gap passes the fixed tolerance.
	cases := []struct {
		angle  float64
		normal Vector
	}{
		// sepB - sepA ≈ 0.00018
		{angle: 0.02, normal: Vector{math.Cos(0.02), math.Sin(0.02)}},
		// sepB - sepA ≈ 0.0011
		{angle: 0.05, normal: Vector{1, 0}},
	}
	for _, c := range cases {
		a := unitBox(t, Vector{0, 0})
		a.SetRotation(c.angle)
		b := unitBox(t, Vector{0.9, 0})

		var info CollisionInfo
		require.True(t, Collide(a, b, &info), "angle %v", c.angle)
		for i := 0; i < info.Count; i++ {
			assert.True(t, info.Contacts[i].Normal.Near(c.normal, 1e-9), "angle %v normal %v", c.angle, info.Contacts[i].Normal)
		}
	}
}
