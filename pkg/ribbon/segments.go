package ribbon

import (
	gomath "math"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// PlacementOptions controls discrete segment placement.
type PlacementOptions struct {
	Spacing float32 // Arc length between placements

	// KeyPrecision is the parameter tolerance under which two placements count as the same
	// slot. Keys are round(param/KeyPrecision).
	KeyPrecision float32

	// Offset is applied after the look rotation to turn the segment asset's own forward axis
	// onto the curve.
	Offset math.Quat
	Scale  math.Vec3
	Up     math.Vec3
}

// DefaultPlacementOptions returns settings for a small bandage strip asset modelled lying
// along X, turned upright with a (90, 0, 90) degree offset.
func DefaultPlacementOptions() PlacementOptions {
	return PlacementOptions{
		Spacing:      0.05,
		KeyPrecision: 0.01,
		Offset:       math.QuatFromEulerDegrees(90, 0, 90),
		Scale:        math.Vec3{X: 0.05, Y: 0.05, Z: 0.05},
		Up:           math.Up,
	}
}

// Validate checks the options.
func (o PlacementOptions) Validate() error {
	if err := checkPositive("placement spacing", o.Spacing); err != nil {
		return err
	}
	return checkPositive("key precision", o.KeyPrecision)
}

// PlacedSegment is one oriented instance along the curve.
type PlacedSegment struct {
	Key      int64     `yaml:"key"`
	Param    float32   `yaml:"param"`
	Position math.Vec3 `yaml:"position,flow"`
	Rotation math.Quat `yaml:"rotation,flow"`
	Scale    math.Vec3 `yaml:"scale,flow"`
}

// Matrix returns the instance transform.
func (s PlacedSegment) Matrix() math.Mat4 {
	return math.TRS(s.Position, s.Rotation, s.Scale)
}

// Placer places segments as coverage grows and remembers every occupied key, so repeated calls
// never place twice in the same slot.
type Placer struct {
	opts PlacementOptions

	occupied map[int64]struct{}
	placed   []PlacedSegment

	// Walk position for the curve last seen; distances below next*Spacing are already done.
	curve *curve.Curve
	next  int
}

// NewPlacer creates a placer.
func NewPlacer(opts PlacementOptions) (*Placer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Placer{
		opts:     opts,
		occupied: make(map[int64]struct{}),
	}, nil
}

// Options returns the placement options.
func (p *Placer) Options() PlacementOptions {
	return p.opts
}

// Key returns the occupancy key for a curve parameter.
func (p *Placer) Key(param float32) int64 {
	return int64(gomath.Round(float64(param) / float64(p.opts.KeyPrecision)))
}

// Advance places segments at distances 0, Spacing, 2*Spacing, ... below coveredLength and
// returns only the ones not placed by earlier calls.
func (p *Placer) Advance(c *curve.Curve, coveredLength float32) ([]PlacedSegment, error) {
	if err := checkLength("covered length", coveredLength); err != nil {
		return nil, err
	}
	if err := checkCurve(c); err != nil {
		return nil, err
	}

	if c != p.curve {
		p.curve = c
		p.next = 0
	}

	covered := min(coveredLength, c.Length())

	var added []PlacedSegment
	for ; ; p.next++ {
		d := float32(p.next) * p.opts.Spacing
		if d >= covered {
			break
		}

		f, err := SampleFrame(c, d, p.opts.Up)
		if err != nil {
			return added, err
		}

		key := p.Key(f.Param)
		if _, ok := p.occupied[key]; ok {
			continue
		}
		p.occupied[key] = struct{}{}

		seg := PlacedSegment{
			Key:      key,
			Param:    f.Param,
			Position: f.Position,
			Rotation: math.QuatLookRotation(f.Tangent, p.opts.Up).Mul(p.opts.Offset),
			Scale:    p.opts.Scale,
		}
		p.placed = append(p.placed, seg)
		added = append(added, seg)
	}

	return added, nil
}

// Placed returns every segment placed so far, in placement order.
func (p *Placer) Placed() []PlacedSegment {
	return append([]PlacedSegment(nil), p.placed...)
}

// Count returns the number of placed segments.
func (p *Placer) Count() int {
	return len(p.placed)
}

// Reset forgets all placements.
func (p *Placer) Reset() {
	p.occupied = make(map[int64]struct{})
	p.placed = nil
	p.curve = nil
	p.next = 0
}
