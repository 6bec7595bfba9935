// Package debug generates line geometry for visual overlays: bounds boxes, the target
// cylinder and the curve centerline.
package debug

import (
	gomath "math"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges x 2).
const BBoxWireframeVertexCount = 24

// BBoxWireframe returns line-list vertices, [x, y, z] per vertex, for the edges of b grown by
// padding on every side.
func BBoxWireframe(b curve.Bounds, padding float32) []float32 {
	x0, y0, z0 := b.Min.X-padding, b.Min.Y-padding, b.Min.Z-padding
	x1, y1, z1 := b.Max.X+padding, b.Max.Y+padding, b.Max.Z+padding
	return []float32{
		// Bottom
		x0, y0, z0, x1, y0, z0,
		x1, y0, z0, x1, y0, z1,
		x1, y0, z1, x0, y0, z1,
		x0, y0, z1, x0, y0, z0,
		// Top
		x0, y1, z0, x1, y1, z0,
		x1, y1, z0, x1, y1, z1,
		x1, y1, z1, x0, y1, z1,
		x0, y1, z1, x0, y1, z0,
		// Verticals
		x0, y0, z0, x0, y1, z0,
		x1, y0, z0, x1, y1, z0,
		x1, y0, z1, x1, y1, z1,
		x0, y0, z1, x0, y1, z1,
	}
}

// CylinderWireframe returns line-list vertices for an upright elliptic cylinder standing on
// the origin plane: a ring at the bottom and top and `sides` vertical edges.
func CylinderWireframe(width, height, depth float32, sides int) []float32 {
	sides = max(sides, 3)
	rx, rz := width*0.5, depth*0.5

	ring := func(i int) (float32, float32) {
		a := 2 * gomath.Pi * float64(i%sides) / float64(sides)
		return rx * float32(gomath.Sin(a)), rz * float32(gomath.Cos(a))
	}

	out := make([]float32, 0, sides*3*2*3)
	for i := 0; i < sides; i++ {
		xa, za := ring(i)
		xb, zb := ring(i + 1)
		out = append(out,
			xa, 0, za, xb, 0, zb,
			xa, height, za, xb, height, zb,
			xa, 0, za, xa, height, za,
		)
	}
	return out
}

// CurveLineStrip samples c at count evenly spaced parameters for drawing as a line strip.
func CurveLineStrip(c *curve.Curve, count int) ([]float32, error) {
	pts, err := c.Sample(count)
	if err != nil {
		return nil, err
	}
	out := make([]float32, 0, len(pts)*3)
	for _, p := range pts {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out, nil
}

// FloorGrid returns line-list vertices for a square grid on the y = b.Min.Y plane covering the
// XZ footprint of b grown by padding. Lines are step apart and centered on the footprint.
func FloorGrid(b curve.Bounds, padding, step float32) []float32 {
	if step <= 0 {
		return nil
	}
	center := b.Center()
	half := max(b.Max.X-b.Min.X, b.Max.Z-b.Min.Z)*0.5 + padding
	n := int(gomath.Ceil(float64(half / step)))
	half = float32(n) * step
	y := b.Min.Y

	out := make([]float32, 0, (2*n+1)*2*2*3)
	for i := -n; i <= n; i++ {
		o := float32(i) * step
		out = append(out,
			center.X+o, y, center.Z-half, center.X+o, y, center.Z+half,
			center.X-half, y, center.Z+o, center.X+half, y, center.Z+o,
		)
	}
	return out
}
