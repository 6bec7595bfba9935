// Package lighting describes the directional light that shades the ribbon.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// Sun is a directional light placed by angles in degrees.
type Sun struct {
	Azimuth   float32 // Rotation around +Y, 0 places the sun toward +Z
	Elevation float32 // Angle above the horizon, 0-90
	Ambient   float32 // Light reaching faces turned away, 0-1
}

// DefaultSun lights the wrap from above and in front, slightly to the right.
func DefaultSun() Sun {
	return Sun{Azimuth: 35, Elevation: 55, Ambient: 0.35}
}

// ToSun returns the unit vector pointing from the scene toward the sun.
func (s Sun) ToSun() math.Vec3 {
	lon := float64(s.Azimuth) * gomath.Pi / 180
	lat := float64(s.Elevation) * gomath.Pi / 180
	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// Direction returns the direction the light travels, as shaders take it.
func (s Sun) Direction() math.Vec3 {
	return s.ToSun().Negate()
}
