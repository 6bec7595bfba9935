// Package ribbon extrudes material along a curve: a continuous quad-strip mesh, or discrete
// oriented segments placed at fixed arc-length intervals.
package ribbon

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// ErrInvalidRange is returned for negative or NaN lengths, widths and spacings.
var ErrInvalidRange = errors.New("invalid range")

// degenerateEpsilon is the shortest projection still treated as a usable direction.
const degenerateEpsilon = 1e-6

// Frame is the local coordinate frame of the curve at one arc-length offset.
type Frame struct {
	Distance float32   // Arc length from the curve start
	Param    float32   // Normalized curve parameter
	Position math.Vec3 // Point on the centerline
	Tangent  math.Vec3 // Unit direction of travel
	Normal   math.Vec3 // Unit cross-section direction, perpendicular to Tangent
}

// Binormal returns Tangent x Normal, the direction the ribbon's front face points.
func (f Frame) Binormal() math.Vec3 {
	return f.Tangent.Cross(f.Normal).Normalize()
}

// SampleFrame evaluates the curve at an arc-length distance. The distance is mapped to the
// normalized parameter distance/length and clamped to the curve.
func SampleFrame(c *curve.Curve, distance float32, up math.Vec3) (Frame, error) {
	var t float32
	if l := c.Length(); l > 0 {
		t = clamp01(distance / l)
	}

	pos, err := c.EvaluatePosition(t)
	if err != nil {
		return Frame{}, err
	}
	tan, err := c.EvaluateTangent(t)
	if err != nil {
		return Frame{}, err
	}

	tangent := tan.Normalize()
	if tan.Length() < degenerateEpsilon {
		tangent = math.Forward
	}

	return Frame{
		Distance: distance,
		Param:    t,
		Position: pos,
		Tangent:  tangent,
		Normal:   CrossNormal(tangent, up),
	}, nil
}

// CrossNormal returns the unit projection of up onto the plane perpendicular to tangent.
// When tangent is parallel to up the projection vanishes; +X and then +Z are projected
// instead, so the result is always a finite unit vector.
func CrossNormal(tangent, up math.Vec3) math.Vec3 {
	if up.Length() < degenerateEpsilon {
		up = math.Up
	}
	for _, ref := range [...]math.Vec3{up.Normalize(), math.Right, math.Forward} {
		n := ref.ProjectOnPlane(tangent)
		if n.Length() >= degenerateEpsilon {
			return n.Normalize()
		}
	}
	// Unreachable for a unit tangent: it cannot be parallel to both +X and +Z.
	return math.Up
}

func clamp01(t float32) float32 {
	if t != t || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func checkLength(name string, v float32) error {
	if gomath.IsNaN(float64(v)) || v < 0 {
		return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidRange, name, v)
	}
	return nil
}

func checkPositive(name string, v float32) error {
	if gomath.IsNaN(float64(v)) || gomath.IsInf(float64(v), 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidRange, name, v)
	}
	return nil
}

func checkCurve(c *curve.Curve) error {
	if c == nil || c.KnotCount() == 0 {
		return curve.ErrEmptyCurve
	}
	return nil
}
