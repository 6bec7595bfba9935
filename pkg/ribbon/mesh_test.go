package ribbon

import (
	"errors"
	gomath "math"
	"reflect"
	"testing"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/spiral"
)

func near(a, b, eps float32) bool {
	return gomath.Abs(float64(a-b)) <= float64(eps)
}

func testSpiral(t *testing.T) *curve.Curve {
	t.Helper()
	c, err := spiral.Build(spiral.DefaultParams())
	if err != nil {
		t.Fatalf("spiral.Build: %v", err)
	}
	return c
}

// verticalLine runs straight up +Y, the case where the tangent is parallel to the reference up.
func verticalLine() *curve.Curve {
	return curve.New([]curve.Knot{
		{Position: math.Vec3{}, TangentOut: math.Vec3{Y: 1}},
		{Position: math.Vec3{Y: 3}, TangentIn: math.Vec3{Y: -1}},
	})
}

func TestRebuildScenario(t *testing.T) {
	c := testSpiral(t)
	m, err := Rebuild(c, 1.0, Options{Width: 0.5, UVTiling: 5, SegmentSpacing: 0.01, Up: math.Up})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if m.Segments != 100 {
		t.Errorf("segments = %d, want 100", m.Segments)
	}
	if len(m.Vertices) != 202 {
		t.Errorf("vertices = %d, want 202", len(m.Vertices))
	}
	if len(m.Triangles) != 600 {
		t.Errorf("triangle indices = %d, want 600", len(m.Triangles))
	}
	if len(m.UVs) != len(m.Vertices) || len(m.Normals) != len(m.Vertices) {
		t.Errorf("attribute lengths differ: uvs %d normals %d vertices %d", len(m.UVs), len(m.Normals), len(m.Vertices))
	}
}

func TestRebuildCounts(t *testing.T) {
	c := testSpiral(t)
	opts := DefaultOptions()
	opts.SegmentSpacing = 0.25

	tests := []struct {
		covered  float32
		segments int
	}{
		{0, 0},
		{0.001, 1},
		{0.25, 1},
		{0.26, 2},
		{1, 4},
		{2.6, 11},
	}

	for _, tt := range tests {
		m, err := Rebuild(c, tt.covered, opts)
		if err != nil {
			t.Fatalf("Rebuild(%v): %v", tt.covered, err)
		}
		if m.Segments != tt.segments {
			t.Errorf("Rebuild(%v) segments = %d, want %d", tt.covered, m.Segments, tt.segments)
		}
		wantVerts := 0
		if tt.segments > 0 {
			wantVerts = 2 * (tt.segments + 1)
		}
		if len(m.Vertices) != wantVerts {
			t.Errorf("Rebuild(%v) vertices = %d, want %d", tt.covered, len(m.Vertices), wantVerts)
		}
		if len(m.Triangles) != 6*tt.segments {
			t.Errorf("Rebuild(%v) indices = %d, want %d", tt.covered, len(m.Triangles), 6*tt.segments)
		}
	}
}

func TestRebuildEmpty(t *testing.T) {
	m, err := Rebuild(testSpiral(t), 0, DefaultOptions())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !m.Empty() || m.TriangleCount() != 0 {
		t.Errorf("zero coverage produced geometry: %d vertices", m.VertexCount())
	}
}

func TestLastUVMatchesCoverage(t *testing.T) {
	c := testSpiral(t)
	opts := DefaultOptions()
	for _, covered := range []float32{0.37, 1, 3.3333, c.Length()} {
		m, err := Rebuild(c, covered, opts)
		if err != nil {
			t.Fatalf("Rebuild: %v", err)
		}
		last := m.UVs[len(m.UVs)-1]
		if last.Y != covered*opts.UVTiling {
			t.Errorf("covered %v: last v = %v, want %v", covered, last.Y, covered*opts.UVTiling)
		}
		if m.UVs[len(m.UVs)-2].X != 0 || last.X != 1 {
			t.Errorf("covered %v: u coordinates = %v, %v, want 0, 1", covered, m.UVs[len(m.UVs)-2].X, last.X)
		}
	}
}

func TestCoveredClampedToCurve(t *testing.T) {
	c := testSpiral(t)
	m, err := Rebuild(c, c.Length()*3, DefaultOptions())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if m.CoveredLength != c.Length() {
		t.Errorf("CoveredLength = %v, want curve length %v", m.CoveredLength, c.Length())
	}
}

func TestRebuildIsPure(t *testing.T) {
	c := testSpiral(t)
	a, err := Rebuild(c, 2.5, DefaultOptions())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	b, err := Rebuild(c, 2.5, DefaultOptions())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different meshes")
	}
}

func TestVertexCountMonotonic(t *testing.T) {
	c := testSpiral(t)
	prev := 0
	for covered := float32(0); covered <= c.Length(); covered += 0.137 {
		m, err := Rebuild(c, covered, DefaultOptions())
		if err != nil {
			t.Fatalf("Rebuild(%v): %v", covered, err)
		}
		if m.VertexCount() < prev {
			t.Fatalf("vertex count dropped from %d to %d at %v", prev, m.VertexCount(), covered)
		}
		prev = m.VertexCount()
	}
}

func TestCrossSectionGeometry(t *testing.T) {
	c := testSpiral(t)
	opts := DefaultOptions()
	m, err := Rebuild(c, 4, opts)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	for i := 0; i < len(m.Vertices); i += 2 {
		left, right := m.Vertices[i], m.Vertices[i+1]
		if w := left.Distance(right); !near(w, opts.Width, 1e-4) {
			t.Fatalf("cross-section %d width = %v, want %v", i/2, w, opts.Width)
		}
		// The normal leans toward up, so the right edge sits above the left.
		if right.Y <= left.Y {
			t.Fatalf("cross-section %d right edge not above left: %v vs %v", i/2, right, left)
		}
	}
}

func TestWindingFacesOutward(t *testing.T) {
	c := testSpiral(t)
	m, err := Rebuild(c, 5, DefaultOptions())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	for i := 0; i < len(m.Triangles); i += 3 {
		a := m.Vertices[m.Triangles[i]]
		b := m.Vertices[m.Triangles[i+1]]
		cc := m.Vertices[m.Triangles[i+2]]
		face := b.Sub(a).Cross(cc.Sub(a))

		center := a.Add(b).Add(cc).Scale(1.0 / 3)
		outward := math.Vec3{X: center.X, Z: center.Z}
		if face.Dot(outward) <= 0 {
			t.Fatalf("triangle %d faces the cylinder axis", i/3)
		}
		if face.Dot(m.Normals[m.Triangles[i]]) <= 0 {
			t.Fatalf("triangle %d winding disagrees with its vertex normal", i/3)
		}
	}
}

func TestVerticalTangentFallback(t *testing.T) {
	m, err := Rebuild(verticalLine(), 3, DefaultOptions())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	for i, v := range m.Vertices {
		if !v.IsFinite() {
			t.Fatalf("vertex %d is not finite: %v", i, v)
		}
	}
	for i, n := range m.Normals {
		if !n.IsFinite() || !near(n.Length(), 1, 1e-5) {
			t.Fatalf("normal %d is not a unit vector: %v", i, n)
		}
	}
	// Up is unusable, so the strip spreads along +X.
	if got := m.Vertices[1].Sub(m.Vertices[0]).Normalize(); got.Distance(math.Right) > 1e-5 {
		t.Errorf("fallback cross direction = %v, want +X", got)
	}
}

func TestCrossNormal(t *testing.T) {
	tests := []struct {
		name    string
		tangent math.Vec3
		up      math.Vec3
		want    math.Vec3
	}{
		{"horizontal", math.Right, math.Up, math.Up},
		{"parallel", math.Up, math.Up, math.Right},
		{"antiparallel", math.Vec3{Y: -1}, math.Up, math.Right},
		{"parallel to custom up and x", math.Right, math.Right, math.Forward},
		{"zero up", math.Forward, math.Vec3{}, math.Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CrossNormal(tt.tangent, tt.up)
			if got.Distance(tt.want) > 1e-6 {
				t.Errorf("CrossNormal(%v, %v) = %v, want %v", tt.tangent, tt.up, got, tt.want)
			}
		})
	}
}

func TestRebuildErrors(t *testing.T) {
	c := testSpiral(t)
	nan := float32(gomath.NaN())

	withOpts := func(f func(*Options)) Options {
		o := DefaultOptions()
		f(&o)
		return o
	}

	tests := []struct {
		name    string
		curve   *curve.Curve
		covered float32
		opts    Options
		want    error
	}{
		{"negative coverage", c, -0.1, DefaultOptions(), ErrInvalidRange},
		{"nan coverage", c, nan, DefaultOptions(), ErrInvalidRange},
		{"zero width", c, 1, withOpts(func(o *Options) { o.Width = 0 }), ErrInvalidRange},
		{"nan width", c, 1, withOpts(func(o *Options) { o.Width = nan }), ErrInvalidRange},
		{"zero spacing", c, 1, withOpts(func(o *Options) { o.SegmentSpacing = 0 }), ErrInvalidRange},
		{"negative spacing", c, 1, withOpts(func(o *Options) { o.SegmentSpacing = -1 }), ErrInvalidRange},
		{"nan tiling", c, 1, withOpts(func(o *Options) { o.UVTiling = nan }), ErrInvalidRange},
		{"empty curve", curve.New(nil), 1, DefaultOptions(), curve.ErrEmptyCurve},
		{"nil curve", nil, 1, DefaultOptions(), curve.ErrEmptyCurve},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Rebuild(tt.curve, tt.covered, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Rebuild error = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Error("Rebuild returned a mesh alongside an error")
			}
		})
	}
}

func TestInterleave(t *testing.T) {
	m, err := Rebuild(testSpiral(t), 0.05, DefaultOptions())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	data := m.Interleave()
	if len(data) != m.VertexCount()*InterleavedStride {
		t.Fatalf("interleaved length = %d, want %d", len(data), m.VertexCount()*InterleavedStride)
	}
	last := m.VertexCount() - 1
	off := last * InterleavedStride
	if data[off] != m.Vertices[last].X || data[off+7] != m.UVs[last].Y {
		t.Error("interleaved stream does not match vertex attributes")
	}
}

func TestMeshBounds(t *testing.T) {
	c := testSpiral(t)
	m, err := Rebuild(c, c.Length(), DefaultOptions())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	b := m.Bounds()
	// The strip leans up and down by up to half the width around the centerline.
	if b.Max.Y < 2 || b.Min.Y > 0 {
		t.Errorf("bounds %+v do not span the spiral height", b)
	}
	if (&Mesh{}).Bounds() != (curve.Bounds{}) {
		t.Error("empty mesh should have zero bounds")
	}
}
