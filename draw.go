package rigid

// Draw flags
const (
	DrawShapes = 1 << iota
	DrawJoints
	DrawContacts
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

// Drawer receives the world's geometry in world space. Vertex slices are only valid for the
// duration of the call.
type Drawer interface {
	DrawCircle(pos Vector, angle, radius float64, outline, fill FColor)
	DrawPolygon(verts []Vector, outline, fill FColor)
	DrawSegment(a, b Vector, fill FColor)
	DrawDot(size float64, pos Vector, fill FColor)

	Flags() int
	OutlineColor() FColor
	ShapeColor(index int, body *Body) FColor
	JointColor() FColor
	ContactColor() FColor
}

func DrawBody(index int, body *Body, options Drawer) {
	outline := options.OutlineColor()
	fill := options.ShapeColor(index, body)

	switch shape := body.shape.(type) {
	case *Circle:
		options.DrawCircle(shape.tc, body.a, shape.r, outline, fill)
	case *Polygon:
		options.DrawPolygon(shape.world, outline, fill)
	default:
		panic("Unknown shape type")
	}
}

func (w *World) Draw(options Drawer) {
	flags := options.Flags()

	if flags&DrawShapes != 0 {
		for i := range w.bodies {
			DrawBody(i, &w.bodies[i], options)
		}
	}

	if flags&DrawJoints != 0 {
		color := options.JointColor()
		for i := range w.joints {
			pa, pb := w.joints[i].WorldAnchors(w.bodies)
			options.DrawSegment(pa, pb, color)
			options.DrawDot(3, pa, color)
			options.DrawDot(3, pb, color)
		}
	}

	if flags&DrawContacts != 0 {
		color := options.ContactColor()
		for _, m := range w.active {
			for i := 0; i < m.count; i++ {
				con := &m.constraints[i]
				options.DrawDot(2, con.pointA, color)
				options.DrawDot(2, con.pointB, color)
			}
		}
	}
}
