package curve

import "github.com/Faultbox/bandage-wrap/pkg/math"

// controlPoints returns the four Bezier control points of segment i.
func (c *Curve) controlPoints(i int) (p0, p1, p2, p3 math.Vec3) {
	a, b := c.knots[i], c.knots[i+1]
	return a.Position,
		a.Position.Add(a.TangentOut),
		b.Position.Add(b.TangentIn),
		b.Position
}

func (c *Curve) segmentPosition(i int, u float32) math.Vec3 {
	p0, p1, p2, p3 := c.controlPoints(i)
	v := 1 - u
	return p0.Scale(v * v * v).
		Add(p1.Scale(3 * v * v * u)).
		Add(p2.Scale(3 * v * u * u)).
		Add(p3.Scale(u * u * u))
}

func (c *Curve) segmentTangent(i int, u float32) math.Vec3 {
	p0, p1, p2, p3 := c.controlPoints(i)
	v := 1 - u
	return p1.Sub(p0).Scale(3 * v * v).
		Add(p2.Sub(p1).Scale(6 * v * u)).
		Add(p3.Sub(p2).Scale(3 * u * u))
}
