package rigid

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ForceFunc is called for every non-static body during the force stage of each tick.
// It should only add forces or torques to the body.
type ForceFunc func(world *World, index int, body *Body)

type Stats struct {
	Ticks       uint64
	Manifolds   int
	Contacts    int
	WarmStarted int
	Created     int
	Evicted     int
	Skipped     int
	LastTick    time.Duration
}

// World owns every body, joint and manifold and advances them one fixed tick at a time.
// Bodies and joints are addressed by index; a *Body returned by the world is only valid
// until the next CreateBody call.
type World struct {
	id  uuid.UUID
	cfg Config
	log *zap.Logger

	bodies []Body
	joints []JointConstraint

	manifolds *Table
	// manifolds in table order, rebuilt every tick for the solver
	active []*Manifold

	forces     []Vector
	torques    []float64
	forceFuncs []ForceFunc

	stats Stats
}

type Option func(*World)

func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

func WithID(id uuid.UUID) Option {
	return func(w *World) {
		w.id = id
	}
}

func NewWorld(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		id:        uuid.New(),
		cfg:       cfg,
		log:       zap.NewNop(),
		manifolds: NewTable(cfg.TableCapacity, cfg.TableLoadFactor),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(zap.Stringer("world", w.id))
	return w, nil
}

func (w *World) ID() uuid.UUID {
	return w.id
}

func (w *World) Config() Config {
	return w.cfg
}

func (w *World) Stats() Stats {
	return w.stats
}

func (w *World) BodyCount() int {
	return len(w.bodies)
}

func (w *World) JointCount() int {
	return len(w.joints)
}

func (w *World) ManifoldCount() int {
	return w.manifolds.Count()
}

// CreateBody adds a body with the world's default material and returns its index.
// Growing the body array may move every body, so hold on to the index, not a pointer.
func (w *World) CreateBody(shape Shape, position Vector, mass float64) (int, error) {
	body, err := NewBody(shape, position, mass)
	if err != nil {
		return -1, err
	}
	body.SetMaterial(w.cfg.DefaultRestitution, w.cfg.DefaultFriction)
	w.bodies = append(w.bodies, *body)
	return len(w.bodies) - 1, nil
}

// Body returns the body at index, or nil. The pointer is invalidated by the next CreateBody.
func (w *World) Body(index int) *Body {
	if index < 0 || index >= len(w.bodies) {
		return nil
	}
	return &w.bodies[index]
}

func (w *World) SetBodyMaterial(index int, restitution, friction float64) error {
	body := w.Body(index)
	if body == nil {
		return fmt.Errorf("%w: index %d", ErrBodyNotFound, index)
	}
	if restitution < 0 || friction < 0 || math.IsNaN(restitution) || math.IsNaN(friction) {
		return fmt.Errorf("%w: restitution %v friction %v", ErrInvalidConfig, restitution, friction)
	}
	body.SetMaterial(restitution, friction)
	return nil
}

// CreateJoint pins bodies a and b together at the world space point anchor.
func (w *World) CreateJoint(a, b int, anchor Vector) (int, error) {
	if err := validateJoint(w.bodies, a, b); err != nil {
		return -1, err
	}
	if !anchor.IsFinite() {
		return -1, fmt.Errorf("%w: anchor %v", ErrInvalidJoint, anchor)
	}
	w.joints = append(w.joints, newJointConstraint(w.bodies, a, b, anchor))
	return len(w.joints) - 1, nil
}

func (w *World) Joint(index int) *JointConstraint {
	if index < 0 || index >= len(w.joints) {
		return nil
	}
	return &w.joints[index]
}

// Manifold returns the manifold for the unordered pair, or nil when the pair is not touching.
func (w *World) Manifold(a, b int) *Manifold {
	return w.manifolds.Find(a, b)
}

// EachManifold visits the manifolds that took part in the last tick.
func (w *World) EachManifold(f func(m *Manifold)) {
	for _, m := range w.active {
		f(m)
	}
}

// AddForce registers a force pushed on every non-static body each tick.
func (w *World) AddForce(force Vector) {
	w.forces = append(w.forces, force)
}

func (w *World) AddTorque(torque float64) {
	w.torques = append(w.torques, torque)
}

func (w *World) AddForceFunc(f ForceFunc) {
	w.forceFuncs = append(w.forceFuncs, f)
}

// ClearForces drops every world force, torque and force func.
func (w *World) ClearForces() {
	w.forces = w.forces[:0]
	w.torques = w.torques[:0]
	w.forceFuncs = w.forceFuncs[:0]
}

// Step advances the world by dt. The stages always run in the same order:
// forces, force integration, collision, pre-solve, solver iterations, velocity integration.
func (w *World) Step(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTimestep, dt)
	}
	start := time.Now()

	w.applyForces()

	for i := range w.bodies {
		w.bodies[i].IntegrateForces(dt)
	}

	w.detectCollisions()

	skipped := 0
	for i := range w.joints {
		if !w.joints[i].PreSolve(w.bodies, &w.cfg, dt) {
			skipped++
		}
	}
	for _, m := range w.active {
		skipped += m.PreSolve(w.bodies, &w.cfg, dt)
	}

	for it := 0; it < w.cfg.Iterations; it++ {
		for i := range w.joints {
			w.joints[i].Solve(w.bodies)
		}
		for _, m := range w.active {
			m.Solve(w.bodies)
		}
	}

	for i := range w.bodies {
		w.bodies[i].IntegrateVelocities(dt)
	}

	if skipped > 0 {
		w.log.Warn("skipped constraints with unusable effective mass",
			zap.Uint64("tick", w.stats.Ticks+1),
			zap.Int("count", skipped),
		)
	}

	w.stats.Ticks++
	w.stats.Skipped = skipped
	w.stats.LastTick = time.Since(start)
	return nil
}

func (w *World) applyForces() {
	for i := range w.bodies {
		body := &w.bodies[i]
		if body.IsStatic() {
			continue
		}

		// weight
		body.AddForce(w.cfg.Gravity.Mult(body.m))

		for _, f := range w.forces {
			body.AddForce(f)
		}
		for _, t := range w.torques {
			body.AddTorque(t)
		}
		for _, f := range w.forceFuncs {
			f(w, i, body)
		}
	}
}

// detectCollisions tests every pair, refreshes or creates their manifolds and evicts
// the manifolds of pairs that stopped touching.
func (w *World) detectCollisions() {
	w.manifolds.Each(func(_ Pair, m *Manifold) {
		m.expired = true
	})

	var info CollisionInfo
	created, contacts, warm := 0, 0, 0

	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a := &w.bodies[i]
			b := &w.bodies[j]
			if a.IsStatic() && b.IsStatic() {
				continue
			}
			if !Collide(a, b, &info) {
				continue
			}
			info.setIndices(i, j)

			m, isNew := w.manifolds.FindOrInsert(i, j, func() *Manifold {
				return newManifold(i, j)
			})
			if isNew {
				created++
				w.log.Debug("manifold created", zap.Int("a", i), zap.Int("b", j))
			}
			warm += m.Update(&info, w.cfg.WarmStart, w.cfg.ContactTolerance)
			contacts += info.Count
		}
	}

	evicted := w.manifolds.Filter(func(key Pair, m *Manifold) bool {
		if m.expired {
			w.log.Debug("manifold evicted", zap.Int("a", key.A), zap.Int("b", key.B))
			return false
		}
		return true
	})

	w.active = w.active[:0]
	w.manifolds.Each(func(_ Pair, m *Manifold) {
		w.active = append(w.active, m)
	})

	w.stats.Manifolds = len(w.active)
	w.stats.Contacts = contacts
	w.stats.WarmStarted = warm
	w.stats.Created = created
	w.stats.Evicted = evicted
}
