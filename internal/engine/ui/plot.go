package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// Axis picks the two world axes a Plot shows.
type Axis int

const (
	// Side looks along -Z: world X to the right, world Y up.
	Side Axis = iota
	// Top looks down -Y: world X to the right, world Z down.
	Top
)

// Plot maps world points into a screen rectangle, keeping the aspect ratio of the world box.
type Plot struct {
	Axis   Axis
	Origin imgui.Vec2 // Top-left of the canvas in screen space
	Size   imgui.Vec2
	Margin float32

	center math.Vec2
	scale  float32
}

// Fit frames the world bounds b.
func (p *Plot) Fit(b curve.Bounds) {
	lo, hi := p.flatten(b.Min), p.flatten(b.Max)
	if lo.X > hi.X {
		lo.X, hi.X = hi.X, lo.X
	}
	if lo.Y > hi.Y {
		lo.Y, hi.Y = hi.Y, lo.Y
	}
	p.center = math.Vec2{X: (lo.X + hi.X) * 0.5, Y: (lo.Y + hi.Y) * 0.5}

	w := max(hi.X-lo.X, 1e-3)
	h := max(hi.Y-lo.Y, 1e-3)
	availW := max(p.Size.X-2*p.Margin, 1)
	availH := max(p.Size.Y-2*p.Margin, 1)
	p.scale = min(availW/w, availH/h)
}

// flatten drops the depth axis; the second coordinate grows upward on screen.
func (p *Plot) flatten(v math.Vec3) math.Vec2 {
	if p.Axis == Top {
		return math.Vec2{X: v.X, Y: -v.Z}
	}
	return math.Vec2{X: v.X, Y: v.Y}
}

// Depth returns the coordinate along the viewing axis, larger is nearer the viewer.
func (p *Plot) Depth(v math.Vec3) float32 {
	if p.Axis == Top {
		return v.Y
	}
	return v.Z
}

// Map converts a world point to screen space.
func (p *Plot) Map(v math.Vec3) imgui.Vec2 {
	f := p.flatten(v)
	return imgui.Vec2{
		X: p.Origin.X + p.Size.X*0.5 + (f.X-p.center.X)*p.scale,
		Y: p.Origin.Y + p.Size.Y*0.5 - (f.Y-p.center.Y)*p.scale,
	}
}

// Scale returns screen pixels per world unit.
func (p *Plot) Scale() float32 {
	return p.scale
}
