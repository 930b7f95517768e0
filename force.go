package rigid

import "math"

// DragForce opposes the velocity with magnitude k|v|².
func DragForce(body *Body, k float64) Vector {
	magSq := body.v.LengthSq()
	if magSq <= 0 {
		return Vector{}
	}
	return body.v.Normalize().Mult(-k * magSq)
}

// FrictionForce opposes the velocity with constant magnitude k.
func FrictionForce(body *Body, k float64) Vector {
	if body.v.LengthSq() <= 0 {
		return Vector{}
	}
	return body.v.Normalize().Mult(-k)
}

// SpringAnchorForce pulls the body toward anchor when it is further than restLength away
// and pushes it out when closer.
func SpringAnchorForce(body *Body, anchor Vector, restLength, k float64) Vector {
	d := body.p.Sub(anchor)
	length := d.Length()
	if length == 0 {
		return Vector{}
	}
	displacement := length - restLength
	return d.Mult(1 / length).Mult(-k * displacement)
}

// SpringForce is the force on a from a spring connecting a and b. Apply the negation to b.
func SpringForce(a, b *Body, restLength, k float64) Vector {
	d := a.p.Sub(b.p)
	length := d.Length()
	if length == 0 {
		return Vector{}
	}
	displacement := length - restLength
	return d.Mult(1 / length).Mult(-k * displacement)
}

// GravitationalForce attracts a toward b. The squared distance is clamped to
// [minDist, maxDist] to keep close passes from exploding.
func GravitationalForce(a, b *Body, g, minDist, maxDist float64) Vector {
	if a.IsStatic() || b.IsStatic() {
		return Vector{}
	}
	d := b.p.Sub(a.p)
	distSq := Clamp(d.LengthSq(), minDist, maxDist)
	if distSq <= 0 || math.IsNaN(distSq) {
		return Vector{}
	}
	magnitude := g * a.m * b.m / distSq
	return d.Normalize().Mult(magnitude)
}
