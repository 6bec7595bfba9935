package main

import (
	gomath "math"

	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

// layer orders what a cell shows when several things land on it.
type layer int

const (
	layerEmpty layer = iota
	layerCurve
	layerRibbon
	layerSegment
)

type cell struct {
	r     rune
	layer layer
	front bool
	depth float32
}

// canvas is a character raster of the side view: world X to the right, world Y up, viewer on
// +Z. Terminal cells are about twice as tall as wide, which the projection compensates.
type canvas struct {
	w, h  int
	cells []cell

	center math.Vec2
	scale  float32 // Rows per world unit
}

const (
	cellAspect = 2
	depthSlack = 0.05
)

func newCanvas(w, h int) *canvas {
	c := &canvas{}
	c.resize(w, h)
	return c
}

func (c *canvas) resize(w, h int) {
	c.w, c.h = max(w, 1), max(h, 1)
	c.cells = make([]cell, c.w*c.h)
}

func (c *canvas) clear() {
	clear(c.cells)
}

// fit frames b with a one-cell border.
func (c *canvas) fit(b curve.Bounds) {
	c.center = math.Vec2{X: (b.Min.X + b.Max.X) * 0.5, Y: (b.Min.Y + b.Max.Y) * 0.5}
	size := b.Size()
	rows := float32(max(c.h-2, 1))
	cols := float32(max(c.w-2, 1)) / cellAspect
	c.scale = min(rows/max(size.Y, 1e-3), cols/max(size.X, 1e-3))
}

// project returns the cell of a world point.
func (c *canvas) project(p math.Vec3) (int, int) {
	x := float32(c.w)*0.5 + (p.X-c.center.X)*c.scale*cellAspect
	y := float32(c.h)*0.5 - (p.Y-c.center.Y)*c.scale
	return int(gomath.Floor(float64(x))), int(gomath.Floor(float64(y)))
}

// plot draws r at p. The nearer point wins a cell; within depthSlack the higher layer wins.
func (c *canvas) plot(p math.Vec3, r rune, l layer) {
	x, y := c.project(p)
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	cur := &c.cells[y*c.w+x]
	if cur.layer != layerEmpty {
		if p.Z < cur.depth-depthSlack {
			return
		}
		if p.Z <= cur.depth+depthSlack && l < cur.layer {
			return
		}
	}
	*cur = cell{r: r, layer: l, front: p.Z >= 0, depth: p.Z}
}

// line plots points from a to b at about one per cell.
func (c *canvas) line(a, b math.Vec3, r rune, l layer) {
	ax, ay := c.project(a)
	bx, by := c.project(b)
	steps := max(abs(bx-ax), abs(by-ay), 1)
	for i := 0; i <= steps; i++ {
		c.plot(a.Lerp(b, float32(i)/float32(steps)), r, l)
	}
}

func (c *canvas) at(x, y int) cell {
	return c.cells[y*c.w+x]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
