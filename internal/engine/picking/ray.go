// Package picking maps the mouse pointer to points on the wrap.
package picking

import (
	gomath "math"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// Ray is a half line from Origin along the unit vector Direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Screen Y grows downward

	near := invViewProj.TransformVec3(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invViewProj.TransformVec3(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// ClosestT returns the ray distance of the point on the ray nearest to p, never negative.
func (r Ray) ClosestT(p math.Vec3) float32 {
	return max(p.Sub(r.Origin).Dot(r.Direction), 0)
}

// DistanceTo returns the distance from p to the ray.
func (r Ray) DistanceTo(p math.Vec3) float32 {
	return p.Distance(r.At(r.ClosestT(p)))
}

// IntersectBounds tests the ray against an axis-aligned box with the slab method.
// It returns the entry distance, or the exit distance when the ray starts inside.
func (r Ray) IntersectBounds(b curve.Bounds) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin, dir := r.Origin.Array(), r.Direction.Array()
	lo, hi := b.Min.Array(), b.Max.Array()
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Nearest returns the index of the point within maxDist of the ray, preferring points closer
// to the ray and, among equally close ones, nearer the origin. ok is false when none qualifies.
func Nearest(r Ray, points []math.Vec3, maxDist float32) (index int, ok bool) {
	const tie = 1e-4

	index = -1
	best, bestT := maxDist, float32(0)
	for i, p := range points {
		d := r.DistanceTo(p)
		if d > maxDist {
			continue
		}
		t := r.ClosestT(p)
		if index < 0 || d < best-tie || (d <= best+tie && t < bestT) {
			index, best, bestT = i, d, t
		}
	}
	return index, index >= 0
}
