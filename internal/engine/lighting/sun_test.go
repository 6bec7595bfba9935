package lighting

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/bandage-wrap/pkg/math"
)

func TestToSun(t *testing.T) {
	tests := []struct {
		name string
		sun  Sun
		want math.Vec3
	}{
		{"zenith", Sun{Elevation: 90}, math.Vec3{Y: 1}},
		{"horizon front", Sun{}, math.Vec3{Z: 1}},
		{"horizon right", Sun{Azimuth: 90}, math.Vec3{X: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sun.ToSun()
			if got.Distance(tt.want) > 1e-5 {
				t.Errorf("ToSun() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDirectionIsUnitAndOpposite(t *testing.T) {
	s := DefaultSun()
	d := s.Direction()
	if gomath.Abs(float64(d.Length()-1)) > 1e-5 {
		t.Errorf("|Direction()| = %f, want 1", d.Length())
	}
	if d.Add(s.ToSun()).Length() > 1e-6 {
		t.Error("Direction() is not the negated ToSun()")
	}
	if d.Y >= 0 {
		t.Error("default sun should shine downward")
	}
}
