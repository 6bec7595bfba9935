package debug

import (
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
)

func TestBBoxWireframe(t *testing.T) {
	b := curve.Bounds{Min: math.Vec3{X: -1, Y: 0, Z: -2}, Max: math.Vec3{X: 1, Y: 3, Z: 2}}
	v := BBoxWireframe(b, 0.5)
	if len(v) != BBoxWireframeVertexCount*3 {
		t.Fatalf("got %d floats, want %d", len(v), BBoxWireframeVertexCount*3)
	}
	if v[0] != -1.5 || v[1] != -0.5 || v[2] != -2.5 {
		t.Errorf("first corner = %v, want padded min", v[:3])
	}
}

func TestCylinderWireframe(t *testing.T) {
	v := CylinderWireframe(2, 4, 1, 16)
	if len(v) != 16*3*2*3 {
		t.Fatalf("got %d floats, want %d", len(v), 16*3*2*3)
	}
	for i := 0; i < len(v); i += 3 {
		x, y, z := v[i], v[i+1], v[i+2]
		// Every point lies on the ellipse x^2/1 + z^2/0.25 = 1 at y 0 or 4.
		if e := x*x + z*z/0.25; e < 0.999 || e > 1.001 {
			t.Fatalf("point (%v, %v, %v) is off the cylinder", x, y, z)
		}
		if y != 0 && y != 4 {
			t.Fatalf("point height %v, want 0 or 4", y)
		}
	}
	if got := len(CylinderWireframe(1, 1, 1, 1)); got != 3*3*2*3 {
		t.Errorf("sides below 3 not raised: %d floats", got)
	}
}

func TestCurveLineStrip(t *testing.T) {
	c := curve.New([]curve.Knot{
		{Position: math.Vec3{}},
		{Position: math.Vec3{X: 2}},
	})
	v, err := CurveLineStrip(c, 5)
	if err != nil {
		t.Fatalf("CurveLineStrip: %v", err)
	}
	if len(v) != 15 {
		t.Fatalf("got %d floats, want 15", len(v))
	}
	if v[12] != 2 {
		t.Errorf("last x = %v, want 2", v[12])
	}
	if _, err := CurveLineStrip(curve.New(nil), 5); err == nil {
		t.Error("expected error for empty curve")
	}
}

func TestFlipRGBA(t *testing.T) {
	// Two rows: bottom red, top blue, as OpenGL reads them.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FlipRGBA(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FlipRGBA: %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); b == 0 || r != 0 {
		t.Error("top row should be blue")
	}
	if _, err := FlipRGBA(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestSaveRGBA(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "wrap")
	s.now = func() time.Time { return time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC) }

	path, err := s.SaveRGBA(make([]byte, 4*4*4), 4, 4)
	if err != nil {
		t.Fatalf("SaveRGBA: %v", err)
	}
	if path != s.Filename() {
		t.Errorf("path = %s, want %s", path, s.Filename())
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("image size = %v", b)
	}
}

func TestSegmentOutlines(t *testing.T) {
	segs := []ribbon.PlacedSegment{
		{Position: math.Vec3{X: 5}, Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 2, Y: 2, Z: 2}},
		{Position: math.Vec3{Y: 1}, Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}},
	}
	v := SegmentOutlines(segs)
	if len(v) != 2*4*2*3 {
		t.Fatalf("got %d floats, want %d", len(v), 2*4*2*3)
	}
	// First corner of the first strip: (-1,-0.5,0)*2 + (5,0,0).
	if v[0] != 3 || v[1] != -1 || v[2] != 0 {
		t.Errorf("first corner = %v, want (3, -1, 0)", v[:3])
	}
	if len(SegmentOutlines(nil)) != 0 {
		t.Error("no segments should give no lines")
	}
}

func TestFloorGrid(t *testing.T) {
	b := curve.Bounds{Min: math.Vec3{X: -1, Y: 0.5, Z: -1}, Max: math.Vec3{X: 1, Y: 3, Z: 1}}
	v := FloorGrid(b, 0.5, 0.5)

	// Half extent 1.5 at step 0.5 gives 7 lines each way, 2 points per line.
	if want := 7 * 2 * 2 * 3; len(v) != want {
		t.Fatalf("got %d floats, want %d", len(v), want)
	}
	for i := 0; i < len(v); i += 3 {
		if v[i+1] != 0.5 {
			t.Fatalf("point %d at height %v, want the bounds floor 0.5", i/3, v[i+1])
		}
		if v[i] < -1.5001 || v[i] > 1.5001 || v[i+2] < -1.5001 || v[i+2] > 1.5001 {
			t.Fatalf("point %d (%v, %v) outside the padded footprint", i/3, v[i], v[i+2])
		}
	}

	if FloorGrid(b, 0, 0) != nil {
		t.Error("non-positive step should produce no grid")
	}
}
