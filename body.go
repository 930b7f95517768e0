package rigid

import (
	"fmt"
	"math"
)

type Body struct {
	shape Shape

	// mass and it's inverse
	m     float64
	m_inv float64

	// moment of inertia and it's inverse
	i     float64
	i_inv float64

	// position, velocity, force
	p Vector
	v Vector
	f Vector

	// Angle, angular velocity, torque (radians)
	a float64
	w float64
	t float64

	// pose as of the previous committed tick, for render interpolation
	prevP Vector
	prevA float64

	transform Transform

	// restitution and friction
	e, u float64
}

// NewBody creates a body that exclusively owns a copy of shape. A mass of zero makes the body static.
func NewBody(shape Shape, position Vector, mass float64) (*Body, error) {
	if shape == nil {
		return nil, ErrNilShape
	}
	if !validBodyMass(shape, mass) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMass, mass)
	}
	if !position.IsFinite() {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPosition, position)
	}

	body := &Body{
		shape: shape.Clone(),
		p:     position,
		prevP: position,
		e:     DefaultRestitution,
		u:     DefaultFriction,
	}
	body.setMass(mass)
	body.refresh()
	return body, nil
}

// validBodyMass accepts zero, or a positive mass whose inverse and derived inertia are
// finite and non-zero. A subnormal mass would otherwise invert to +Inf.
func validBodyMass(shape Shape, mass float64) bool {
	if mass == 0 {
		return true
	}
	if !(mass > 0) || math.IsInf(mass, 0) || math.IsInf(1/mass, 0) {
		return false
	}
	i := shape.MomentOfInertia() * mass
	return i > 0 && !math.IsInf(i, 0) && !math.IsInf(1/i, 0)
}

func (body *Body) setMass(mass float64) {
	body.m = mass
	body.i = body.shape.MomentOfInertia() * mass
	if mass != 0 {
		body.m_inv = 1 / mass
	} else {
		body.m_inv = 0
	}
	if body.i != 0 {
		body.i_inv = 1 / body.i
	} else {
		body.i_inv = 0
	}
}

// IsStatic reports whether the body is immovable. An epsilon compare is used because
// the inverse mass is not guaranteed to be exactly zero after float accumulation.
func (body *Body) IsStatic() bool {
	return math.Abs(body.m_inv) < staticEpsilon
}

func (body *Body) Shape() Shape {
	return body.shape
}

func (body *Body) Mass() float64 {
	return body.m
}

func (body *Body) InvMass() float64 {
	return body.m_inv
}

func (body *Body) Inertia() float64 {
	return body.i
}

func (body *Body) InvInertia() float64 {
	return body.i_inv
}

func (body *Body) Position() Vector {
	return body.p
}

// SetPosition teleports the body. The previous pose is reset too so renderers don't smear.
func (body *Body) SetPosition(position Vector) {
	body.p = position
	body.prevP = position
	body.refresh()
}

func (body *Body) Rotation() float64 {
	return body.a
}

func (body *Body) SetRotation(angle float64) {
	body.a = angle
	body.prevA = angle
	body.refresh()
}

func (body *Body) PrevPosition() Vector {
	return body.prevP
}

func (body *Body) PrevRotation() float64 {
	return body.prevA
}

func (body *Body) Transform() Transform {
	return body.transform
}

func (body *Body) Velocity() Vector {
	return body.v
}

func (body *Body) SetVelocity(v Vector) {
	body.v = v
}

func (body *Body) AngularVelocity() float64 {
	return body.w
}

func (body *Body) SetAngularVelocity(w float64) {
	body.w = w
}

func (body *Body) Restitution() float64 {
	return body.e
}

func (body *Body) Friction() float64 {
	return body.u
}

func (body *Body) SetMaterial(restitution, friction float64) {
	body.e = restitution
	body.u = friction
}

func (body *Body) Force() Vector {
	return body.f
}

func (body *Body) Torque() float64 {
	return body.t
}

func (body *Body) AddForce(force Vector) {
	body.f = body.f.Add(force)
}

func (body *Body) AddTorque(torque float64) {
	body.t += torque
}

func (body *Body) ClearForces() {
	body.f = Vector{}
	body.t = 0
}

func (body *Body) KineticEnergy() float64 {
	// Need to do some fudging to avoid NaNs
	vsq := body.v.Dot(body.v)
	wsq := body.w * body.w
	var a, b float64
	if vsq != 0 {
		a = vsq * body.m
	}
	if wsq != 0 {
		b = wsq * body.i
	}
	return 0.5 * (a + b)
}

// IntegrateForces turns the accumulated force and torque into velocity, then clears them.
func (body *Body) IntegrateForces(dt float64) {
	if body.IsStatic() {
		body.ClearForces()
		return
	}

	accel := body.f.Mult(body.m_inv)
	body.v = body.v.Add(accel.Mult(dt))
	body.w += body.t * body.i_inv * dt

	body.ClearForces()
}

// IntegrateVelocities commits velocity into the pose and refreshes the shape's world geometry.
// It must run after every solver iteration of the tick.
func (body *Body) IntegrateVelocities(dt float64) {
	body.prevP = body.p
	body.prevA = body.a

	if !body.IsStatic() {
		body.p = body.p.Add(body.v.Mult(dt))
		body.a += body.w * dt
	}

	body.refresh()
}

func (body *Body) refresh() {
	body.transform = NewTransformRigid(body.p, body.a)
	body.shape.Update(body.transform)
}

func (body *Body) ApplyImpulseLinear(j Vector) {
	if body.IsStatic() {
		return
	}
	body.v = body.v.Add(j.Mult(body.m_inv))
}

// ApplyImpulseAngular applies the angular part of impulse j acting at offset r from the center of mass.
func (body *Body) ApplyImpulseAngular(j Vector, r Vector) {
	if body.IsStatic() {
		return
	}
	body.w += body.i_inv * r.Cross(j)
}

// ApplyImpulseAtPoint applies impulse j at offset r from the center of mass.
func (body *Body) ApplyImpulseAtPoint(j, r Vector) {
	if body.IsStatic() {
		return
	}
	body.v = body.v.Add(j.Mult(body.m_inv))
	body.w += body.i_inv * r.Cross(j)
}

func (body *Body) LocalToWorld(point Vector) Vector {
	return body.transform.Point(point)
}

func (body *Body) WorldToLocal(point Vector) Vector {
	return body.transform.Unpoint(point)
}

// VelocityAtPoint returns the velocity of the body's material at offset r from the center of mass.
func (body *Body) VelocityAtPoint(r Vector) Vector {
	return body.v.Add(r.Perp().Mult(body.w))
}
