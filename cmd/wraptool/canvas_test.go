package main

import (
	"testing"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

func unitCanvas() *canvas {
	c := newCanvas(42, 22)
	c.fit(curve.Bounds{
		Min: math.Vec3{X: -1, Y: -1, Z: -1},
		Max: math.Vec3{X: 1, Y: 1, Z: 1},
	})
	return c
}

func TestCanvasProject(t *testing.T) {
	c := unitCanvas()

	tests := []struct {
		name string
		p    math.Vec3
		x, y int
	}{
		{"center", math.Vec3{}, 21, 11},
		{"top right", math.Vec3{X: 1, Y: 1}, 41, 1},
		{"bottom left", math.Vec3{X: -1, Y: -1}, 1, 21},
		{"depth ignored", math.Vec3{Z: 5}, 21, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := c.project(tt.p)
			if x != tt.x || y != tt.y {
				t.Errorf("project(%v) = (%d, %d), want (%d, %d)", tt.p, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestCanvasPlotDepth(t *testing.T) {
	c := unitCanvas()
	back := math.Vec3{Z: -1}
	front := math.Vec3{Z: 1}

	c.plot(back, '.', layerCurve)
	if got := c.at(21, 11); got.r != '.' || got.front {
		t.Fatalf("after back plot: %+v", got)
	}

	c.plot(front, '#', layerCurve)
	if got := c.at(21, 11); got.r != '#' || !got.front {
		t.Fatalf("nearer point should win: %+v", got)
	}

	c.plot(back, '=', layerSegment)
	if got := c.at(21, 11); got.r != '#' {
		t.Errorf("farther point overwrote cell: %+v", got)
	}
}

func TestCanvasPlotLayers(t *testing.T) {
	c := unitCanvas()
	p := math.Vec3{Z: 0.5}

	c.plot(p, '#', layerRibbon)
	c.plot(p.Add(math.Vec3{Z: 0.01}), '.', layerCurve)
	if got := c.at(21, 11); got.r != '#' {
		t.Errorf("lower layer at same depth won: %+v", got)
	}

	c.plot(p, '=', layerSegment)
	if got := c.at(21, 11); got.r != '=' {
		t.Errorf("higher layer at same depth lost: %+v", got)
	}
}

func TestCanvasClipAndClear(t *testing.T) {
	c := unitCanvas()
	c.plot(math.Vec3{X: 10, Y: 10}, '#', layerRibbon)
	c.plot(math.Vec3{X: -10, Y: -10}, '#', layerRibbon)
	for i, cl := range c.cells {
		if cl.layer != layerEmpty {
			t.Fatalf("cell %d drawn by out of range point", i)
		}
	}

	c.line(math.Vec3{X: -1}, math.Vec3{X: 1}, '#', layerRibbon)
	if c.at(1, 11).layer != layerRibbon || c.at(41, 11).layer != layerRibbon {
		t.Error("line endpoints not drawn")
	}
	drawn := 0
	for i, cl := range c.cells {
		if cl.layer == layerEmpty {
			continue
		}
		drawn++
		if i/c.w != 11 {
			t.Errorf("line drew off its row at cell %d", i)
		}
	}
	if drawn < 38 {
		t.Errorf("line drew %d cells, want a continuous run", drawn)
	}

	c.clear()
	for _, cl := range c.cells {
		if cl.layer != layerEmpty {
			t.Fatal("clear left cells drawn")
		}
	}
}

func TestCanvasResizeMinimum(t *testing.T) {
	c := newCanvas(0, -3)
	if c.w != 1 || c.h != 1 || len(c.cells) != 1 {
		t.Errorf("newCanvas(0, -3) = %dx%d with %d cells", c.w, c.h, len(c.cells))
	}
}
