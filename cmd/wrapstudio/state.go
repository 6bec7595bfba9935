package main

import (
	"github.com/Faultbox/bandage-wrap/internal/config"
	"github.com/Faultbox/bandage-wrap/internal/session"
	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/spiral"
)

// paramState mirrors spiral.Params for the widgets.
type paramState struct {
	radius, height, gap  float32
	turns, pointsPerTurn int32
	target               spiral.Cylinder
}

func (s *paramState) load(p spiral.Params) {
	s.radius, s.height, s.gap = p.Radius, p.Height, p.Gap
	s.turns, s.pointsPerTurn = int32(p.Turns), int32(p.PointsPerTurn)
	if p.Target != nil {
		s.target = *p.Target
		return
	}
	// Seed the target with the free spiral's size so enabling it changes little.
	s.target = spiral.Cylinder{Width: 2 * p.Radius, Height: p.Height, Depth: 2 * p.Radius}
}

func (s *paramState) params(useTarget bool) spiral.Params {
	p := spiral.Params{
		Radius:        s.radius,
		Height:        s.height,
		Turns:         int(s.turns),
		PointsPerTurn: int(s.pointsPerTurn),
		Gap:           s.gap,
	}
	if useTarget {
		t := s.target
		p.Target = &t
	}
	return p
}

// wrapState mirrors config.WrapConfig for the widgets.
type wrapState struct {
	segments         bool
	rate             float32
	width, tiling    float32
	spacing          float32
	placementSpacing float32
	scale            float32
}

func (s *wrapState) load(w config.WrapConfig) {
	m, err := session.ParseMode(w.Mode)
	s.segments = err == nil && m == session.ModeSegments
	s.rate = w.WrapRate
	s.width, s.tiling, s.spacing = w.BandageWidth, w.UVTiling, w.SegmentSpacing
	s.placementSpacing = w.PlacementSpacing
	s.scale = w.SegmentScale
}

// apply writes the widget values into w, keeping the fields the studio does not edit.
func (s *wrapState) apply(w *config.WrapConfig) {
	w.Mode = s.mode().String()
	w.WrapRate = s.rate
	w.BandageWidth, w.UVTiling, w.SegmentSpacing = s.width, s.tiling, s.spacing
	w.PlacementSpacing = s.placementSpacing
	w.SegmentScale = s.scale
}

func (s *wrapState) mode() session.Mode {
	if s.segments {
		return session.ModeSegments
	}
	return session.ModeMesh
}

// padded grows b by r on every axis.
func padded(b curve.Bounds, r float32) curve.Bounds {
	pad := math.Vec3{X: r, Y: r, Z: r}
	return curve.Bounds{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}
