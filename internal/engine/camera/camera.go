// Package camera provides an orbit camera for inspecting the wrap.
package camera

import (
	gomath "math"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // Radians above the horizon
	Yaw      float32 // Radians around +Y, 0 looks from +Z

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32 // Radians per pixel
	ZoomSensitivity float32 // Distance fraction per wheel step
	AutoRotate      float32 // Radians per second, 0 disables

	FOV       float32 // Vertical field of view in radians
	Near, Far float32
}

// NewOrbitCamera creates an orbit camera scaled for objects a few units across.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        6,
		Pitch:           0.35,
		MinDistance:     0.5,
		MaxDistance:     100,
		MinPitch:        -1.4,
		MaxPitch:        1.4,
		DragSensitivity: 0.008,
		ZoomSensitivity: 0.1,
		FOV:             gomath.Pi / 4,
		Near:            0.05,
		Far:             500,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := gomath.Cos(float64(c.Pitch))
	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cp*gomath.Sin(float64(c.Yaw))),
		Y: c.Distance * float32(gomath.Sin(float64(c.Pitch))),
		Z: c.Distance * float32(cp*gomath.Cos(float64(c.Yaw))),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// ProjectionMatrix returns the perspective projection for a viewport aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation from a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance from a scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// Update applies auto rotation for dt seconds.
func (c *OrbitCamera) Update(dt float32) {
	if c.AutoRotate == 0 {
		return
	}
	c.Yaw = float32(gomath.Mod(float64(c.Yaw+c.AutoRotate*dt), 2*gomath.Pi))
}

// FitToBounds centers the camera on b and backs off until the whole box fits the view.
func (c *OrbitCamera) FitToBounds(b curve.Bounds) {
	c.Center = b.Center()

	radius := b.Size().Length() * 0.5
	if radius <= 0 {
		radius = 1
	}
	dist := radius / float32(gomath.Sin(float64(c.FOV)*0.5))
	c.Distance = clamp(dist*1.1, c.MinDistance, c.MaxDistance)
	c.Pitch = clamp(0.35, c.MinPitch, c.MaxPitch)
	c.Yaw = 0
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
