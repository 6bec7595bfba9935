// Package spiral builds helix curves wrapped around an implicit cylinder.
package spiral

import (
	"errors"
	"fmt"
	gomath "math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/bandage-wrap/internal/logger"
	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// HandleFraction is the share of the knot-to-knot arc used as Bezier handle length.
// Longer handles overshoot and fold the curve between knots.
const HandleFraction = 0.33

// ErrInvalidParameters is returned for spiral parameters that cannot produce a curve.
var ErrInvalidParameters = errors.New("invalid spiral parameters")

// Cylinder describes the bounding cylinder a spiral wraps, by its scale on each axis.
type Cylinder struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Depth  float32 `yaml:"depth"`
}

// Params controls spiral generation.
type Params struct {
	Radius        float32   `yaml:"radius"`
	Height        float32   `yaml:"height"`
	Turns         int       `yaml:"turns"`
	PointsPerTurn int       `yaml:"points_per_turn"`
	Gap           float32   `yaml:"gap"`             // Clearance added to the target radius
	Target        *Cylinder `yaml:"target_cylinder"` // Optional; overrides Radius and Height
}

// DefaultParams returns a five-turn spiral around a one-unit-wide, two-unit-tall cylinder.
func DefaultParams() Params {
	return Params{
		Radius:        0.5,
		Height:        2,
		Turns:         5,
		PointsPerTurn: 20,
		Gap:           0.02,
	}
}

// Resolve returns the parameters with the target cylinder override applied.
func (p Params) Resolve() Params {
	if p.Target == nil {
		return p
	}
	p.Height = p.Target.Height
	p.Radius = max(p.Target.Width, p.Target.Depth)*0.5 + p.Gap
	return p
}

// Validate checks the resolved parameters.
func (p Params) Validate() error {
	r := p.Resolve()
	switch {
	case r.Turns <= 0:
		return fmt.Errorf("%w: turns must be positive, got %d", ErrInvalidParameters, r.Turns)
	case r.PointsPerTurn <= 0:
		return fmt.Errorf("%w: points per turn must be positive, got %d", ErrInvalidParameters, r.PointsPerTurn)
	case !positive(r.Radius):
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidParameters, r.Radius)
	case !positive(r.Height):
		return fmt.Errorf("%w: height must be positive, got %v", ErrInvalidParameters, r.Height)
	case !finite(r.Gap):
		return fmt.Errorf("%w: gap must be finite, got %v", ErrInvalidParameters, r.Gap)
	}
	return nil
}

// KnotCount returns the number of knots Build produces.
func (p Params) KnotCount() int {
	return p.Turns*p.PointsPerTurn + 1
}

// HandleLength returns the Bezier handle length for the resolved parameters.
func (p Params) HandleLength() float32 {
	r := p.Resolve()
	return float32(2*gomath.Pi*float64(r.Radius)/float64(r.PointsPerTurn)) * HandleFraction
}

// Build generates the spiral curve. Knot i sits at angle t*turns*2pi and height t*height,
// t = i/(turns*pointsPerTurn), with handles along the analytic tangent.
func Build(p Params, opts ...curve.Option) (*curve.Curve, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.Resolve()

	totalPoints := p.Turns * p.PointsPerTurn
	radius := float64(p.Radius)
	height := float64(p.Height)
	dAngle := float64(p.Turns) * 2 * gomath.Pi
	handle := p.HandleLength()

	knots := make([]curve.Knot, 0, totalPoints+1)
	for i := 0; i <= totalPoints; i++ {
		t := float64(i) / float64(totalPoints)
		angle := t * dAngle
		sin, cos := gomath.Sincos(angle)

		pos := math.Vec3{
			X: float32(radius * sin),
			Y: float32(height * t),
			Z: float32(radius * cos),
		}
		tangent := math.Vec3{
			X: float32(radius * cos * dAngle),
			Y: float32(height),
			Z: float32(-radius * sin * dAngle),
		}.Normalize()

		knots = append(knots, curve.Knot{
			Position:   pos,
			TangentIn:  tangent.Scale(-handle),
			TangentOut: tangent.Scale(handle),
		})
	}

	return curve.New(knots, opts...), nil
}

// Builder owns the current spiral and replaces it whole on every rebuild.
// Readers never observe a partially built curve.
type Builder struct {
	current atomic.Pointer[curve.Curve]
	params  atomic.Pointer[Params]
	opts    []curve.Option
}

// NewBuilder creates a builder and generates the first curve.
func NewBuilder(p Params, opts ...curve.Option) (*Builder, error) {
	b := &Builder{opts: opts}
	if _, err := b.Rebuild(p); err != nil {
		return nil, err
	}
	return b, nil
}

// Rebuild generates a curve for p and swaps it in. On error the previous curve is kept.
func (b *Builder) Rebuild(p Params) (*curve.Curve, error) {
	c, err := Build(p, b.opts...)
	if err != nil {
		logger.Warn("spiral rebuild rejected", zap.Error(err))
		return nil, err
	}
	b.current.Store(c)
	b.params.Store(&p)

	logger.Debug("spiral rebuilt",
		zap.Int("knots", c.KnotCount()),
		zap.Float32("length", c.Length()),
		zap.Int("turns", p.Turns),
	)
	return c, nil
}

// Curve returns the current curve.
func (b *Builder) Curve() *curve.Curve {
	return b.current.Load()
}

// Params returns the parameters of the current curve.
func (b *Builder) Params() Params {
	if p := b.params.Load(); p != nil {
		return *p
	}
	return Params{}
}

func positive(f float32) bool {
	return finite(f) && f > 0
}

func finite(f float32) bool {
	return !gomath.IsNaN(float64(f)) && !gomath.IsInf(float64(f), 0)
}
