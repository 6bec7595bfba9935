// Package curve provides a piecewise cubic Bezier curve built from knots with tangent handles.
//
// A Curve is immutable once constructed: arc length and the length lookup table are computed
// in New, and every derived curve (Transform, Extend) is a new value. This makes a Curve safe to
// share read-only between any number of extruders.
package curve

import (
	"errors"
	gomath "math"
	"sort"

	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// DefaultResolution is the number of chords sampled per Bezier segment when measuring length.
const DefaultResolution = 30

// ErrEmptyCurve is returned when a curve without knots is evaluated.
var ErrEmptyCurve = errors.New("curve has no knots")

// Knot is a control point with its in/out handles, both relative to Position.
type Knot struct {
	Position   math.Vec3
	TangentIn  math.Vec3
	TangentOut math.Vec3
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Size returns the box extent on each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Option configures curve construction.
type Option func(*Curve)

// WithResolution sets the chord count per segment used for arc length. Values below 1 are raised to 1.
func WithResolution(n int) Option {
	return func(c *Curve) {
		if n < 1 {
			n = 1
		}
		c.resolution = n
	}
}

// Curve is an immutable sequence of cubic Bezier segments through its knots.
type Curve struct {
	knots      []Knot
	resolution int

	length float32
	// lut[j] is the arc length at global sample j; sample j sits at segment j/resolution.
	lut    []float32
	bounds Bounds
}

// New builds a curve from knots. The slice is copied.
func New(knots []Knot, opts ...Option) *Curve {
	c := &Curve{
		knots:      append([]Knot(nil), knots...),
		resolution: DefaultResolution,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.measure()
	return c
}

// measure fills the length table and bounds by chord summation.
func (c *Curve) measure() {
	if len(c.knots) == 0 {
		return
	}

	first := c.knots[0].Position
	c.bounds = Bounds{Min: first, Max: first}

	segments := c.segmentCount()
	if segments == 0 {
		c.lut = []float32{0}
		return
	}

	samples := segments * c.resolution
	c.lut = make([]float32, samples+1)

	var total float64
	prev := first
	for j := 1; j <= samples; j++ {
		seg, u := c.sampleLocation(float64(j) / float64(c.resolution))
		p := c.segmentPosition(seg, u)
		total += float64(p.Distance(prev))
		c.lut[j] = float32(total)
		c.bounds.grow(p)
		prev = p
	}
	c.length = float32(total)
}

func (b *Bounds) grow(p math.Vec3) {
	b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
	b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
}

func (c *Curve) segmentCount() int {
	if len(c.knots) < 2 {
		return 0
	}
	return len(c.knots) - 1
}

// sampleLocation splits a global segment coordinate s in [0, segments] into a segment index and
// a local parameter in [0,1].
func (c *Curve) sampleLocation(s float64) (int, float32) {
	segments := c.segmentCount()
	seg := int(gomath.Floor(s))
	if seg >= segments {
		seg = segments - 1
	}
	if seg < 0 {
		seg = 0
	}
	return seg, float32(s - float64(seg))
}

// locate maps a normalized parameter to a segment and local parameter through the length table.
func (c *Curve) locate(t float32) (int, float32) {
	t = clamp01(t)
	segments := c.segmentCount()

	if c.length <= 0 {
		return c.sampleLocation(float64(t) * float64(segments))
	}

	target := t * c.length
	i := sort.Search(len(c.lut), func(i int) bool { return c.lut[i] >= target })
	if i == 0 {
		return 0, 0
	}
	if i >= len(c.lut) {
		return segments - 1, 1
	}

	lo, hi := c.lut[i-1], c.lut[i]
	var frac float64
	if hi > lo {
		frac = float64(target-lo) / float64(hi-lo)
	}
	return c.sampleLocation((float64(i-1) + frac) / float64(c.resolution))
}

// EvaluatePosition returns the point at normalized parameter t, clamped to [0,1].
// The parameter is distributed by arc length.
func (c *Curve) EvaluatePosition(t float32) (math.Vec3, error) {
	switch len(c.knots) {
	case 0:
		return math.Vec3{}, ErrEmptyCurve
	case 1:
		return c.knots[0].Position, nil
	}
	seg, u := c.locate(t)
	return c.segmentPosition(seg, u), nil
}

// EvaluateTangent returns the derivative of the segment at t. It is not normalized.
func (c *Curve) EvaluateTangent(t float32) (math.Vec3, error) {
	switch len(c.knots) {
	case 0:
		return math.Vec3{}, ErrEmptyCurve
	case 1:
		return c.knots[0].TangentOut, nil
	}
	seg, u := c.locate(t)
	return c.segmentTangent(seg, u), nil
}

// Length returns the approximate arc length.
func (c *Curve) Length() float32 {
	return c.length
}

// Resolution returns the per-segment chord count used for the length table.
func (c *Curve) Resolution() int {
	return c.resolution
}

// KnotCount returns the number of knots.
func (c *Curve) KnotCount() int {
	return len(c.knots)
}

// Knots returns a copy of the knots.
func (c *Curve) Knots() []Knot {
	return append([]Knot(nil), c.knots...)
}

// Bounds returns the box around the sampled curve.
func (c *Curve) Bounds() Bounds {
	return c.bounds
}

// Sample returns count points evenly spaced by arc length, endpoints included.
func (c *Curve) Sample(count int) ([]math.Vec3, error) {
	if len(c.knots) == 0 {
		return nil, ErrEmptyCurve
	}
	if count < 2 {
		count = 2
	}
	points := make([]math.Vec3, count)
	for i := range points {
		p, err := c.EvaluatePosition(float32(i) / float32(count-1))
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}

// Transform returns the curve mapped through m. Handles are transformed as directions.
func (c *Curve) Transform(m math.Mat4) *Curve {
	knots := make([]Knot, len(c.knots))
	for i, k := range c.knots {
		knots[i] = Knot{
			Position:   m.TransformVec3(k.Position),
			TangentIn:  m.TransformDirection(k.TangentIn),
			TangentOut: m.TransformDirection(k.TangentOut),
		}
	}
	return New(knots, WithResolution(c.resolution))
}

// Extend returns a new curve with knots appended.
func (c *Curve) Extend(knots ...Knot) *Curve {
	all := make([]Knot, 0, len(c.knots)+len(knots))
	all = append(all, c.knots...)
	all = append(all, knots...)
	return New(all, WithResolution(c.resolution))
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
