package debug

import (
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
)

// Outline of a unit strip lying along local X, in the local XY plane.
var stripOutline = [4]math.Vec3{
	{X: -1, Y: -0.5},
	{X: 1, Y: -0.5},
	{X: 1, Y: 0.5},
	{X: -1, Y: 0.5},
}

// SegmentOutlines returns line-list vertices drawing each placed segment as its transformed
// strip outline.
func SegmentOutlines(segs []ribbon.PlacedSegment) []float32 {
	out := make([]float32, 0, len(segs)*len(stripOutline)*2*3)
	for _, s := range segs {
		m := s.Matrix()
		var corners [4]math.Vec3
		for i, c := range stripOutline {
			corners[i] = m.TransformVec3(c)
		}
		for i := range corners {
			a, b := corners[i], corners[(i+1)%len(corners)]
			out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		}
	}
	return out
}
