package curve

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/bandage-wrap/pkg/math"
)

func near(a, b, eps float32) bool {
	return gomath.Abs(float64(a-b)) <= float64(eps)
}

func vecNear(a, b math.Vec3, eps float32) bool {
	return a.Distance(b) <= eps
}

// line returns a straight curve from the origin to (3,0,0) with deliberately uneven handles.
func line() *Curve {
	return New([]Knot{
		{Position: math.Vec3{}, TangentOut: math.Vec3{X: 2}},
		{Position: math.Vec3{X: 3}, TangentIn: math.Vec3{X: -0.1}},
	})
}

func TestEmptyCurve(t *testing.T) {
	c := New(nil)

	if _, err := c.EvaluatePosition(0.5); !errors.Is(err, ErrEmptyCurve) {
		t.Errorf("EvaluatePosition error = %v, want ErrEmptyCurve", err)
	}
	if _, err := c.EvaluateTangent(0.5); !errors.Is(err, ErrEmptyCurve) {
		t.Errorf("EvaluateTangent error = %v, want ErrEmptyCurve", err)
	}
	if _, err := c.Sample(4); !errors.Is(err, ErrEmptyCurve) {
		t.Errorf("Sample error = %v, want ErrEmptyCurve", err)
	}
	if c.Length() != 0 {
		t.Errorf("Length = %v, want 0", c.Length())
	}
}

func TestSingleKnot(t *testing.T) {
	k := Knot{Position: math.Vec3{X: 1, Y: 2, Z: 3}, TangentOut: math.Vec3{Y: 1}}
	c := New([]Knot{k})

	p, err := c.EvaluatePosition(0.7)
	if err != nil {
		t.Fatalf("EvaluatePosition: %v", err)
	}
	if p != k.Position {
		t.Errorf("position = %v, want %v", p, k.Position)
	}
	tan, _ := c.EvaluateTangent(0.7)
	if tan != k.TangentOut {
		t.Errorf("tangent = %v, want %v", tan, k.TangentOut)
	}
	if c.Length() != 0 {
		t.Errorf("Length = %v, want 0", c.Length())
	}
}

func TestLineLength(t *testing.T) {
	c := line()
	if !near(c.Length(), 3, 1e-4) {
		t.Errorf("Length = %v, want 3", c.Length())
	}
}

func TestEndpointsAndClamp(t *testing.T) {
	c := line()

	tests := []struct {
		t    float32
		want math.Vec3
	}{
		{0, math.Vec3{}},
		{1, math.Vec3{X: 3}},
		{-2, math.Vec3{}},
		{5, math.Vec3{X: 3}},
	}
	for _, tt := range tests {
		got, err := c.EvaluatePosition(tt.t)
		if err != nil {
			t.Fatalf("EvaluatePosition(%v): %v", tt.t, err)
		}
		if !vecNear(got, tt.want, 1e-5) {
			t.Errorf("EvaluatePosition(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestParameterFollowsArcLength(t *testing.T) {
	c := line()
	for _, tt := range []float32{0.1, 0.25, 0.5, 0.75, 0.9} {
		p, _ := c.EvaluatePosition(tt)
		if !near(p.X, tt*3, 0.02) {
			t.Errorf("EvaluatePosition(%v).X = %v, want ~%v", tt, p.X, tt*3)
		}
	}
}

func TestParameterMonotonic(t *testing.T) {
	c := line()
	prev := float32(-1)
	for i := 0; i <= 200; i++ {
		p, _ := c.EvaluatePosition(float32(i) / 200)
		if p.X < prev {
			t.Fatalf("position went backwards at sample %d: %v < %v", i, p.X, prev)
		}
		prev = p.X
	}
}

func TestTangentDirection(t *testing.T) {
	c := line()
	for _, tt := range []float32{0, 0.3, 1} {
		tan, err := c.EvaluateTangent(tt)
		if err != nil {
			t.Fatalf("EvaluateTangent: %v", err)
		}
		if !vecNear(tan.Normalize(), math.Vec3{X: 1}, 1e-5) {
			t.Errorf("tangent at %v = %v, want +X direction", tt, tan)
		}
	}
}

func TestTangentNotNormalized(t *testing.T) {
	c := line()
	tan, _ := c.EvaluateTangent(0)
	// Derivative at u=0 is 3*(P1-P0).
	if !near(tan.Length(), 6, 1e-4) {
		t.Errorf("tangent length at start = %v, want 6", tan.Length())
	}
}

func TestQuarterArcLength(t *testing.T) {
	const k = 0.5522847
	c := New([]Knot{
		{Position: math.Vec3{X: 1}, TangentOut: math.Vec3{Z: k}},
		{Position: math.Vec3{Z: 1}, TangentIn: math.Vec3{X: k}},
	})
	if !near(c.Length(), gomath.Pi/2, 0.005) {
		t.Errorf("quarter arc length = %v, want ~%v", c.Length(), gomath.Pi/2)
	}
}

func TestLengthGrowsWithExtension(t *testing.T) {
	c := line()
	longer := c.Extend(Knot{Position: math.Vec3{X: 3, Y: 2}})
	evenLonger := longer.Extend(Knot{Position: math.Vec3{X: 5, Y: 2}})

	if !(c.Length() < longer.Length() && longer.Length() < evenLonger.Length()) {
		t.Errorf("lengths not increasing: %v, %v, %v", c.Length(), longer.Length(), evenLonger.Length())
	}
	if c.KnotCount() != 2 {
		t.Errorf("Extend mutated the original curve: %d knots", c.KnotCount())
	}
}

func TestResolutionImprovesEstimate(t *testing.T) {
	knots := []Knot{
		{Position: math.Vec3{X: 1}, TangentOut: math.Vec3{Z: 0.55}},
		{Position: math.Vec3{Z: 1}, TangentIn: math.Vec3{X: 0.55}},
	}
	coarse := New(knots, WithResolution(2))
	fine := New(knots, WithResolution(64))
	// Chord sums never exceed the true length and approach it from below.
	if coarse.Length() > fine.Length() {
		t.Errorf("coarse length %v exceeds fine length %v", coarse.Length(), fine.Length())
	}
	if New(knots, WithResolution(0)).Resolution() != 1 {
		t.Error("resolution below 1 should be raised to 1")
	}
}

func TestKnotsAreCopied(t *testing.T) {
	knots := []Knot{{Position: math.Vec3{}}, {Position: math.Vec3{X: 1}}}
	c := New(knots)
	knots[1].Position = math.Vec3{X: 100}

	if got := c.Knots()[1].Position; got.X != 1 {
		t.Errorf("curve observed caller mutation: %v", got)
	}
	out := c.Knots()
	out[0].Position = math.Vec3{Y: 9}
	if c.Knots()[0].Position.Y != 0 {
		t.Error("Knots() exposed internal storage")
	}
}

func TestTransform(t *testing.T) {
	c := line()
	moved := c.Transform(math.Translate(0, 5, 0))

	if !near(moved.Length(), c.Length(), 1e-4) {
		t.Errorf("translated length = %v, want %v", moved.Length(), c.Length())
	}
	p, _ := moved.EvaluatePosition(1)
	if !vecNear(p, math.Vec3{X: 3, Y: 5}, 1e-5) {
		t.Errorf("translated end = %v, want (3,5,0)", p)
	}

	scaled := c.Transform(math.Scale(2, 2, 2))
	if !near(scaled.Length(), 2*c.Length(), 1e-3) {
		t.Errorf("scaled length = %v, want %v", scaled.Length(), 2*c.Length())
	}
}

func TestBoundsAndSample(t *testing.T) {
	c := line()
	b := c.Bounds()
	if !vecNear(b.Min, math.Vec3{}, 1e-5) || !vecNear(b.Max, math.Vec3{X: 3}, 1e-5) {
		t.Errorf("Bounds = %+v, want (0,0,0)-(3,0,0)", b)
	}
	if !vecNear(b.Center(), math.Vec3{X: 1.5}, 1e-5) {
		t.Errorf("Center = %v", b.Center())
	}

	pts, err := c.Sample(7)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(pts) != 7 {
		t.Fatalf("Sample returned %d points, want 7", len(pts))
	}
	if !vecNear(pts[6], math.Vec3{X: 3}, 1e-5) {
		t.Errorf("last sample = %v, want curve end", pts[6])
	}
}
