package scene

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/jakecoffman/rigid"
)

const ramp = `
name: ramp
ticks: 30
world:
  gravity: {x: 0, y: 5}
  iterations: 10
bodies:
  - shape: box
    width: 10
    height: 1
    position: {x: 0, y: 5}
    mass: 0
    restitution: 0
  - shape: circle
    radius: 0.5
    position: {x: 0, y: 3}
    mass: 2
    velocity: {x: 1, y: 0}
  - shape: polygon
    vertices: [{x: 0, y: 0}, {x: 1, y: 0}, {x: 0.5, y: 1}]
    position: {x: 3, y: 3}
    rotation: 0.5
    mass: 1
    friction: 0.1
  - shape: polygon
    sides: 6
    radius: 0.5
    position: {x: -3, y: 3}
    mass: 1
joints:
  - {a: 0, b: 3, anchor: {x: -3, y: 2.5}}
`

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader(ramp))
	require.NoError(t, err)

	assert.Equal(t, "ramp", s.Name)
	assert.Equal(t, 30, s.Ticks)
	assert.Equal(t, rigid.Vector{Y: 5}, s.World.Gravity)
	assert.Equal(t, 10, s.World.Iterations)
	// keys the file leaves out keep their defaults
	assert.Equal(t, rigid.DefaultConfig().FixedDT, s.World.FixedDT)

	require.Len(t, s.Bodies, 4)
	require.NotNil(t, s.Bodies[0].Restitution)
	assert.Equal(t, 0.0, *s.Bodies[0].Restitution)
	assert.Nil(t, s.Bodies[0].Friction)
	assert.Len(t, s.Bodies[2].Vertices, 3)
	assert.Equal(t, []Joint{{A: 0, B: 3, Anchor: rigid.Vector{X: -3, Y: 2.5}}}, s.Joints)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader("bodies: 3"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("world: {iterations: -1}"))
	assert.ErrorIs(t, err, rigid.ErrInvalidConfig)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ramp), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ramp", s.Name)
}

func TestBuild(t *testing.T) {
	s, err := Load(strings.NewReader(ramp))
	require.NoError(t, err)
	w, err := s.Build()
	require.NoError(t, err)

	assert.Equal(t, 4, w.BodyCount())
	assert.Equal(t, 1, w.JointCount())
	assert.Equal(t, 10, w.Config().Iterations)

	floor := w.Body(0)
	assert.True(t, floor.IsStatic())
	assert.Equal(t, 0.0, floor.Restitution())
	assert.Equal(t, rigid.DefaultFriction, floor.Friction())

	ball := w.Body(1)
	assert.Equal(t, rigid.CircleShape, ball.Shape().Type())
	assert.Equal(t, rigid.Vector{X: 1}, ball.Velocity())
	assert.Equal(t, rigid.DefaultRestitution, ball.Restitution())

	tri := w.Body(2)
	assert.Equal(t, 0.5, tri.Rotation())
	assert.Equal(t, 0.1, tri.Friction())

	hex, ok := w.Body(3).Shape().(*rigid.Polygon)
	require.True(t, ok)
	assert.Equal(t, 6, hex.Count())
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name  string
		scene Scene
		err   error
	}{
		{
			name:  "unknown shape",
			scene: Scene{Bodies: []Body{{Shape: "capsule", Mass: 1}}},
			err:   ErrUnknownShape,
		},
		{
			name:  "bad radius",
			scene: Scene{Bodies: []Body{{Shape: ShapeCircle, Mass: 1}}},
			err:   rigid.ErrInvalidRadius,
		},
		{
			name:  "negative mass",
			scene: Scene{Bodies: []Body{{Shape: ShapeBox, Width: 1, Height: 1, Mass: -1}}},
			err:   rigid.ErrInvalidMass,
		},
		{
			name: "joint to missing body",
			scene: Scene{
				Bodies: []Body{{Shape: ShapeBox, Width: 1, Height: 1, Mass: 1}},
				Joints: []Joint{{A: 0, B: 1}},
			},
			err: rigid.ErrBodyNotFound,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			c.scene.World = rigid.DefaultConfig()
			_, err := c.scene.Build()
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestBuiltins(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"chain", "incline", "newton", "pendulum", "plink", "pyramid", "stack", "walls"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := Builtin(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)
			assert.Greater(t, s.Ticks, 0)

			w, err := s.Build()
			require.NoError(t, err)
			for _, i := range []int{Floor, LeftWall, RightWall, Ceiling} {
				assert.True(t, w.Body(i).IsStatic(), "arena body %d", i)
			}
		})
	}

	_, err := Builtin("nope")
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestBuiltinIsFresh(t *testing.T) {
	a, err := Builtin("stack")
	require.NoError(t, err)
	a.Bodies = a.Bodies[:1]

	b, err := Builtin("stack")
	require.NoError(t, err)
	assert.Len(t, b.Bodies, 10)
}

func trace(t *testing.T, name string, ticks int) string {
	t.Helper()
	s, err := Builtin(name)
	require.NoError(t, err)
	w, err := s.Build()
	require.NoError(t, err)

	var sb strings.Builder
	for tick := 0; tick < ticks; tick++ {
		require.NoError(t, w.Step(w.Config().FixedDT))
		for i := 0; i < w.BodyCount(); i++ {
			body := w.Body(i)
			fmt.Fprintf(&sb, "%d %d %v %.12f\n", tick, i, body.Position(), body.Rotation())
		}
	}
	return sb.String()
}

func TestDeterminism(t *testing.T) {
	for _, name := range []string{"pyramid", "chain"} {
		t.Run(name, func(t *testing.T) {
			a := trace(t, name, 120)
			b := trace(t, name, 120)
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(a),
				B:        difflib.SplitLines(b),
				FromFile: "first",
				ToFile:   "second",
				Context:  1,
			})
			require.NoError(t, err)
			assert.Empty(t, diff)
		})
	}
}

func TestRun(t *testing.T) {
	s, err := Builtin("walls")
	require.NoError(t, err)

	report, err := Run(context.Background(), s, 10, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "walls", report.Scene)
	assert.Equal(t, 10, report.Ticks)
	assert.Equal(t, 4, report.Bodies)
	assert.Zero(t, report.MaxSpeed)
	assert.True(t, report.Settled)
	assert.Zero(t, report.Manifolds)

	// zero ticks falls back to the scene's own count
	s.Ticks = 3
	report, err = Run(context.Background(), s, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Ticks)
}

func TestRestingScenesSettle(t *testing.T) {
	for _, name := range []string{"stack", "pyramid", "plink", "incline"} {
		t.Run(name, func(t *testing.T) {
			s, err := Builtin(name)
			require.NoError(t, err)
			report, err := Run(context.Background(), s, 1200, nil)
			require.NoError(t, err)
			assert.True(t, report.Settled, "max speed %v", report.MaxSpeed)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	s, err := Builtin("pyramid")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, s, 100, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	var scenes []*Scene
	for _, name := range Names() {
		s, err := Builtin(name)
		require.NoError(t, err)
		scenes = append(scenes, s)
	}

	reports, err := RunAll(context.Background(), scenes, 120, zaptest.NewLogger(t, zaptest.Level(zapcore.InfoLevel)))
	require.NoError(t, err)
	require.Len(t, reports, len(scenes))
	for i, report := range reports {
		assert.Equal(t, scenes[i].Name, report.Scene)
		assert.Equal(t, 120, report.Ticks)
		assert.False(t, math.IsNaN(report.MaxSpeed), report.Scene)
		assert.False(t, math.IsInf(report.MaxSpeed, 0), report.Scene)
	}
	assert.NotEqual(t, reports[0].World, reports[1].World)
}

func TestRunAllStopsOnError(t *testing.T) {
	good, err := Builtin("walls")
	require.NoError(t, err)
	bad := &Scene{Name: "bad", World: rigid.DefaultConfig(), Bodies: []Body{{Shape: "capsule"}}}

	_, err = RunAll(context.Background(), []*Scene{good, bad}, 10, nil)
	assert.ErrorIs(t, err, ErrUnknownShape)
}
