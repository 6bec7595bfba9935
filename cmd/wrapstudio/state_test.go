package main

import (
	"testing"

	"github.com/Faultbox/bandage-wrap/internal/config"
	"github.com/Faultbox/bandage-wrap/internal/session"
	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/spiral"
)

func TestParamStateRoundTrip(t *testing.T) {
	p := spiral.DefaultParams()

	var s paramState
	s.load(p)
	got := s.params(false)
	if got.Radius != p.Radius || got.Height != p.Height || got.Turns != p.Turns ||
		got.PointsPerTurn != p.PointsPerTurn || got.Gap != p.Gap || got.Target != nil {
		t.Errorf("params(false) = %+v, want %+v", got, p)
	}

	// The seeded target matches the free spiral's footprint.
	want := spiral.Cylinder{Width: 2 * p.Radius, Height: p.Height, Depth: 2 * p.Radius}
	if s.target != want {
		t.Errorf("seeded target = %+v, want %+v", s.target, want)
	}
}

func TestParamStateTarget(t *testing.T) {
	p := spiral.DefaultParams()
	p.Target = &spiral.Cylinder{Width: 1, Height: 3, Depth: 2}

	var s paramState
	s.load(p)
	got := s.params(true)
	if got.Target == nil || *got.Target != *p.Target {
		t.Fatalf("Target = %+v, want %+v", got.Target, p.Target)
	}

	// The returned params must not alias the widget state.
	got.Target.Width = 9
	if s.target.Width != 1 {
		t.Error("params shares its Target with the widget state")
	}
}

func TestWrapStateApply(t *testing.T) {
	w := config.Default().Wrap

	var s wrapState
	s.load(w)
	if s.segments {
		t.Fatal("default mode loaded as segments")
	}

	s.segments = true
	s.rate = 2
	s.width = 0.25
	s.apply(&w)

	if w.Mode != session.ModeSegments.String() {
		t.Errorf("Mode = %q", w.Mode)
	}
	if w.WrapRate != 2 || w.BandageWidth != 0.25 {
		t.Errorf("WrapRate, BandageWidth = %v, %v", w.WrapRate, w.BandageWidth)
	}
	if w.KeyPrecision != config.Default().Wrap.KeyPrecision {
		t.Error("apply changed a field the studio does not edit")
	}
}

func TestPadded(t *testing.T) {
	b := curve.Bounds{Min: math.Vec3{X: -1, Y: 0, Z: -1}, Max: math.Vec3{X: 1, Y: 2, Z: 1}}
	got := padded(b, 0.5)
	want := curve.Bounds{Min: math.Vec3{X: -1.5, Y: -0.5, Z: -1.5}, Max: math.Vec3{X: 1.5, Y: 2.5, Z: 1.5}}
	if got != want {
		t.Errorf("padded = %+v, want %+v", got, want)
	}
}
