package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Lines is a GPU buffer of [x, y, z] points drawn as a line list or strip.
type Lines struct {
	vao, vbo uint32
	count    int32
	mode     uint32
}

// NewLineList creates a buffer whose point pairs are separate segments.
func NewLineList() *Lines {
	return newLines(gl.LINES)
}

// NewLineStrip creates a buffer whose points form one connected polyline.
func NewLineStrip() *Lines {
	return newLines(gl.LINE_STRIP)
}

func newLines(mode uint32) *Lines {
	l := &Lines{mode: mode}
	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)
	gl.GenBuffers(1, &l.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return l
}

// Upload replaces the points.
func (l *Lines) Upload(points []float32) {
	l.count = int32(len(points) / 3)
	if l.count == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(points)*4, gl.Ptr(points), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Delete frees the GL objects.
func (l *Lines) Delete() {
	gl.DeleteVertexArrays(1, &l.vao)
	gl.DeleteBuffers(1, &l.vbo)
}
