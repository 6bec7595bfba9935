// Package renderer draws the wrap with OpenGL: the lit ribbon mesh and colored line overlays.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/bandage-wrap/internal/engine/lighting"
	"github.com/Faultbox/bandage-wrap/internal/engine/renderer/shaders"
	"github.com/Faultbox/bandage-wrap/internal/engine/shader"
	"github.com/Faultbox/bandage-wrap/internal/logger"
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// Palette used by the viewer.
var (
	ColorBackground = Color{0.09, 0.10, 0.13, 1}
	ColorBandage    = Color{0.93, 0.89, 0.80, 1}
	ColorCurve      = Color{0.95, 0.55, 0.20, 1}
	ColorCylinder   = Color{0.35, 0.45, 0.60, 1}
	ColorMarker     = Color{0.40, 0.85, 0.55, 1}
	ColorFloor      = Color{0.25, 0.27, 0.32, 1}
)

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	ribbonProg *shader.Program
	lineProg   *shader.Program

	ribbonVAO, ribbonVBO, ribbonEBO uint32
	ribbonIndices                   int32

	viewProj math.Mat4
	sun      lighting.Sun
}

// New creates a new renderer. It must be called after the OpenGL context is current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		viewProj: math.Identity(),
		sun:      lighting.DefaultSun(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := ColorBackground
	gl.ClearColor(c.R, c.G, c.B, c.A)

	var err error
	if r.ribbonProg, err = shader.New(shaders.RibbonVertexShader, shaders.RibbonFragmentShader); err != nil {
		return nil, fmt.Errorf("ribbon shader: %w", err)
	}
	if r.lineProg, err = shader.New(shaders.LineVertexShader, shaders.LineFragmentShader); err != nil {
		r.ribbonProg.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r.createRibbonBuffers()
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

func (r *Renderer) createRibbonBuffers() {
	gl.GenVertexArrays(1, &r.ribbonVAO)
	gl.BindVertexArray(r.ribbonVAO)

	gl.GenBuffers(1, &r.ribbonVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.ribbonVBO)
	gl.GenBuffers(1, &r.ribbonEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ribbonEBO)

	stride := int32(ribbon.InterleavedStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer")
	gl.DeleteVertexArrays(1, &r.ribbonVAO)
	gl.DeleteBuffers(1, &r.ribbonVBO)
	gl.DeleteBuffers(1, &r.ribbonEBO)
	r.ribbonProg.Delete()
	r.lineProg.Delete()
}

// Resize handles framebuffer resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetSun replaces the light that shades the ribbon.
func (r *Renderer) SetSun(s lighting.Sun) {
	r.sun = s
}

// Begin clears the frame and sets the camera transform used by the draw calls.
func (r *Renderer) Begin(view, proj math.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.viewProj = proj.Mul(view)
}

// UploadRibbon replaces the ribbon geometry. An empty mesh draws nothing.
func (r *Renderer) UploadRibbon(m *ribbon.Mesh) {
	r.ribbonIndices = 0
	if m == nil || m.Empty() {
		return
	}

	data := m.Interleave()
	gl.BindBuffer(gl.ARRAY_BUFFER, r.ribbonVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ribbonEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Triangles)*4, gl.Ptr(m.Triangles), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.ribbonIndices = int32(len(m.Triangles))
}

// DrawRibbon draws the uploaded ribbon. Both faces are drawn since a bandage is seen from
// inside near the ends.
func (r *Renderer) DrawRibbon(c Color) {
	if r.ribbonIndices == 0 {
		return
	}
	r.ribbonProg.Use()
	r.ribbonProg.SetMat4("uViewProj", r.viewProj)
	r.ribbonProg.SetVec4("uColor", c.R, c.G, c.B, c.A)
	r.ribbonProg.SetVec3("uLightDir", r.sun.Direction())
	r.ribbonProg.SetFloat("uAmbient", r.sun.Ambient)

	gl.Disable(gl.CULL_FACE)
	gl.BindVertexArray(r.ribbonVAO)
	gl.DrawElements(gl.TRIANGLES, r.ribbonIndices, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawLines draws a line buffer in a flat color.
func (r *Renderer) DrawLines(l *Lines, c Color) {
	if l == nil || l.count == 0 {
		return
	}
	r.lineProg.Use()
	r.lineProg.SetMat4("uViewProj", r.viewProj)
	r.lineProg.SetVec4("uColor", c.R, c.G, c.B, c.A)

	gl.BindVertexArray(l.vao)
	gl.DrawArrays(l.mode, 0, l.count)
	gl.BindVertexArray(0)
}

// ReadPixels reads the back buffer as bottom-up RGBA.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
