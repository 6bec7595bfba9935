package ribbon

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// segmentTolerance absorbs float32 noise in coveredLength/spacing so an exact multiple does not
// round up to an extra segment.
const segmentTolerance = 1e-4

// Options controls ribbon mesh extrusion.
type Options struct {
	Width          float32   // Full bandage width across the curve
	UVTiling       float32   // Texture repeats per unit of length
	SegmentSpacing float32   // Target distance between cross-sections
	Up             math.Vec3 // Reference direction the cross-section leans toward
}

// DefaultOptions returns a half-unit wide bandage sampled every centimetre.
func DefaultOptions() Options {
	return Options{
		Width:          0.5,
		UVTiling:       5,
		SegmentSpacing: 0.01,
		Up:             math.Up,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if err := checkPositive("width", o.Width); err != nil {
		return err
	}
	if err := checkPositive("segment spacing", o.SegmentSpacing); err != nil {
		return err
	}
	if gomath.IsNaN(float64(o.UVTiling)) || gomath.IsInf(float64(o.UVTiling), 0) {
		return fmt.Errorf("%w: uv tiling must be finite, got %v", ErrInvalidRange, o.UVTiling)
	}
	return nil
}

// Mesh is an indexed triangle list with one UV channel.
type Mesh struct {
	Vertices  []math.Vec3
	UVs       []math.Vec2
	Normals   []math.Vec3
	Triangles []uint32

	CoveredLength float32 // Length the mesh was built for, after clamping
	Segments      int     // Quads along the strip
}

// SegmentCount returns how many quads cover length at the target spacing:
// ceil(length/spacing), at least one for any positive length, zero for zero length.
func SegmentCount(length, spacing float32) int {
	if length <= 0 || spacing <= 0 {
		return 0
	}
	n := int(gomath.Ceil(float64(length/spacing) - segmentTolerance))
	return max(n, 1)
}

// Rebuild extrudes the ribbon from the curve start up to coveredLength. The whole buffer set is
// rebuilt on every call; the result depends only on the arguments.
//
// Cross-section i sits at distance coveredLength*i/segments, with its left and right vertices
// offset by half the width along the cross normal. Triangles (b, b+2, b+1) and (b+1, b+2, b+3)
// join consecutive cross-sections so the front face points along Tangent x Normal.
func Rebuild(c *curve.Curve, coveredLength float32, opts Options) (*Mesh, error) {
	if err := checkLength("covered length", coveredLength); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkCurve(c); err != nil {
		return nil, err
	}

	covered := min(coveredLength, c.Length())
	segments := SegmentCount(covered, opts.SegmentSpacing)

	mesh := &Mesh{CoveredLength: covered, Segments: segments}
	if segments == 0 {
		return mesh, nil
	}

	count := 2 * (segments + 1)
	mesh.Vertices = make([]math.Vec3, 0, count)
	mesh.UVs = make([]math.Vec2, 0, count)
	mesh.Normals = make([]math.Vec3, 0, count)
	mesh.Triangles = make([]uint32, 0, 6*segments)

	half := opts.Width * 0.5
	for i := 0; i <= segments; i++ {
		dist := covered
		if i < segments {
			dist = float32(float64(covered) * float64(i) / float64(segments))
		}

		f, err := SampleFrame(c, dist, opts.Up)
		if err != nil {
			return nil, err
		}

		offset := f.Normal.Scale(half)
		face := f.Binormal()
		v := dist * opts.UVTiling

		mesh.Vertices = append(mesh.Vertices, f.Position.Sub(offset), f.Position.Add(offset))
		mesh.UVs = append(mesh.UVs, math.Vec2{X: 0, Y: v}, math.Vec2{X: 1, Y: v})
		mesh.Normals = append(mesh.Normals, face, face)

		if i < segments {
			b := uint32(i * 2)
			mesh.Triangles = append(mesh.Triangles,
				b, b+2, b+1,
				b+1, b+2, b+3,
			)
		}
	}

	return mesh, nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Empty reports whether the mesh has no geometry.
func (m *Mesh) Empty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the box around all vertices.
func (m *Mesh) Bounds() curve.Bounds {
	if len(m.Vertices) == 0 {
		return curve.Bounds{}
	}
	b := curve.Bounds{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min = math.Vec3{X: min(b.Min.X, v.X), Y: min(b.Min.Y, v.Y), Z: min(b.Min.Z, v.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, v.X), Y: max(b.Max.Y, v.Y), Z: max(b.Max.Z, v.Z)}
	}
	return b
}

// InterleavedStride is the float count per vertex in Interleave: position, normal, uv.
const InterleavedStride = 8

// Interleave packs the vertex attributes into one stream for GPU upload.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*InterleavedStride)
	for i, p := range m.Vertices {
		n := m.Normals[i]
		uv := m.UVs[i]
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z, uv.X, uv.Y)
	}
	return out
}
