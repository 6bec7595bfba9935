// Package viewer implements the interactive 3D wrap viewer loop.
package viewer

import (
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/bandage-wrap/internal/config"
	"github.com/Faultbox/bandage-wrap/internal/engine/audio"
	"github.com/Faultbox/bandage-wrap/internal/engine/camera"
	"github.com/Faultbox/bandage-wrap/internal/engine/debug"
	"github.com/Faultbox/bandage-wrap/internal/engine/input"
	"github.com/Faultbox/bandage-wrap/internal/engine/lighting"
	"github.com/Faultbox/bandage-wrap/internal/engine/picking"
	"github.com/Faultbox/bandage-wrap/internal/engine/renderer"
	"github.com/Faultbox/bandage-wrap/internal/engine/window"
	"github.com/Faultbox/bandage-wrap/internal/logger"
	"github.com/Faultbox/bandage-wrap/internal/session"
	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/spiral"
)

const (
	curveLineSamples = 512
	cylinderSides    = 48
	maxFrameTime     = 100 * time.Millisecond
	pickRadius       = 0.15
	floorPadding     = 1
	floorStep        = 0.25
)

// Viewer shows a session growing along its spiral while Space is held.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	audio    *audio.Manager
	shots    *debug.Screenshots
	sun      lighting.Sun

	session  *session.Session
	curvePts []math.Vec3 // Pick targets, evenly spaced in arc length

	curveLines    *renderer.Lines
	cylinderLines *renderer.Lines
	markerLines   *renderer.Lines
	floorLines    *renderer.Lines
	boundsLines   *renderer.Lines
	showBounds    bool

	title string
}

// New opens the window and builds the session described by cfg.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		log:    logger.Named("viewer"),
		camera: camera.NewOrbitCamera(),
		input:  input.New(),
		shots:  debug.NewScreenshots("screenshots", "wrap"),
		sun:    lighting.DefaultSun(),
	}

	sessCfg, err := cfg.Session()
	if err != nil {
		return nil, err
	}
	c, err := spiral.Build(cfg.Spiral)
	if err != nil {
		return nil, err
	}
	if v.session, err = session.New(c, sessCfg); err != nil {
		return nil, err
	}

	// Window first, the renderer needs its GL context.
	v.window, err = window.New(window.Config{
		Title:      "Bandage Wrap",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.curveLines = renderer.NewLineStrip()
	v.cylinderLines = renderer.NewLineList()
	v.markerLines = renderer.NewLineList()
	v.floorLines = renderer.NewLineList()
	v.boundsLines = renderer.NewLineList()
	if err := v.showCurve(c); err != nil {
		v.Close()
		return nil, err
	}

	v.audio = audio.New()
	v.initAudio()

	v.log.Info("viewer initialized",
		zap.Stringer("mode", sessCfg.Mode),
		zap.Int("knots", c.KnotCount()),
		zap.Float32("length", c.Length()))
	return v, nil
}

// initAudio sets up the click sound. The viewer runs silent when audio is unavailable.
func (v *Viewer) initAudio() {
	if err := v.audio.Init(); err != nil {
		v.log.Warn("audio unavailable", zap.Error(err))
		return
	}
	v.audio.SetSFXVolume(float64(v.cfg.Audio.SFXVolume))
	v.audio.SetMuted(v.cfg.Audio.Muted)

	if v.cfg.Audio.ClickFile == "" {
		return
	}
	data, err := os.ReadFile(v.cfg.Audio.ClickFile)
	if err == nil {
		err = v.audio.LoadClick(data)
	}
	if err != nil {
		v.log.Warn("using synthesized click",
			zap.String("file", v.cfg.Audio.ClickFile), zap.Error(err))
	}
}

// showCurve uploads the guide lines of c and frames the camera on it.
func (v *Viewer) showCurve(c *curve.Curve) error {
	strip, err := debug.CurveLineStrip(c, curveLineSamples)
	if err != nil {
		return err
	}
	v.curveLines.Upload(strip)
	if v.curvePts, err = c.Sample(curveLineSamples); err != nil {
		return err
	}

	if t := v.cfg.Spiral.Target; t != nil {
		v.cylinderLines.Upload(debug.CylinderWireframe(t.Width, t.Height, t.Depth, cylinderSides))
	} else {
		v.cylinderLines.Upload(nil)
	}

	b := c.Bounds()
	v.floorLines.Upload(debug.FloorGrid(b, floorPadding, floorStep))
	v.boundsLines.Upload(debug.BBoxWireframe(b, v.cfg.Wrap.BandageWidth*0.5))

	v.renderer.UploadRibbon(nil)
	v.markerLines.Upload(nil)
	v.camera.FitToBounds(b)
	return nil
}

// Run starts the frame loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := min(now.Sub(lastTime), maxFrameTime)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		capture := v.handleEvents()

		if err := v.update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}
		v.render()

		if capture {
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents applies this frame's discrete events. It reports whether a screenshot was requested.
func (v *Viewer) handleEvents() bool {
	capture := false
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_R:
				v.session.Reset()
				v.renderer.UploadRibbon(nil)
				v.markerLines.Upload(nil)
			case sdl.SCANCODE_M:
				v.toggleMode()
			case sdl.SCANCODE_A:
				v.toggleAutoRotate()
			case sdl.SCANCODE_B:
				v.showBounds = !v.showBounds
			case sdl.SCANCODE_L:
				v.sun.Azimuth = float32(int(v.sun.Azimuth+30) % 360)
				v.renderer.SetSun(v.sun)
			case sdl.SCANCODE_F12:
				capture = true
			}
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_RIGHT {
				v.seekTo(event.MouseX, event.MouseY)
			}
		}
	}

	if v.input.IsButtonHeld(sdl.BUTTON_LEFT) {
		dx, dy := v.input.MouseDelta()
		v.camera.HandleDrag(float32(dx), float32(dy))
	}
	if wheel := v.input.Wheel(); wheel != 0 {
		v.camera.HandleZoom(wheel)
	}
	return capture
}

// seekTo moves the coverage to the curve point under the pointer.
func (v *Viewer) seekTo(x, y int) {
	proj := v.camera.ProjectionMatrix(v.renderer.Aspect())
	inv, ok := proj.Mul(v.camera.ViewMatrix()).Inverse()
	if !ok {
		return
	}
	w, h := v.window.Size()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)

	c := v.session.Curve()
	if _, hit := ray.IntersectBounds(padded(c.Bounds(), pickRadius)); !hit {
		return
	}
	i, ok := picking.Nearest(ray, v.curvePts, pickRadius)
	if !ok {
		return
	}

	covered := c.Length() * float32(i) / float32(len(v.curvePts)-1)
	upd, err := v.session.Seek(covered)
	if err != nil {
		v.log.Warn("seek failed", zap.Error(err))
		return
	}
	v.applyUpdate(upd)
	v.log.Debug("seek", zap.Float32("covered", covered))
}

func (v *Viewer) toggleMode() {
	cfg := v.session.Config()
	if cfg.Mode == session.ModeMesh {
		cfg.Mode = session.ModeSegments
	} else {
		cfg.Mode = session.ModeMesh
	}
	if err := v.session.Reconfigure(cfg); err != nil {
		v.log.Warn("mode switch rejected", zap.Error(err))
		return
	}
	v.renderer.UploadRibbon(nil)
	v.markerLines.Upload(nil)
	v.log.Info("wrap mode", zap.Stringer("mode", cfg.Mode))
}

func (v *Viewer) toggleAutoRotate() {
	if v.camera.AutoRotate != 0 {
		v.camera.AutoRotate = 0
		return
	}
	v.camera.AutoRotate = 0.4
}

// update advances the wrap while Space is held.
func (v *Viewer) update(dt time.Duration) error {
	v.camera.Update(float32(dt.Seconds()))

	active := v.input.IsKeyHeld(sdl.SCANCODE_SPACE)
	upd, err := v.session.Tick(dt, active)
	if err != nil {
		return err
	}
	v.applyUpdate(upd)
	v.updateTitle()
	return nil
}

func (v *Viewer) applyUpdate(upd session.Update) {
	if !upd.Changed {
		return
	}
	if upd.Mesh != nil {
		v.renderer.UploadRibbon(upd.Mesh)
	}
	// A backward seek replays placements from scratch, so always upload the full set.
	if len(upd.Placed) > 0 || v.session.Config().Mode == session.ModeSegments {
		v.markerLines.Upload(debug.SegmentOutlines(v.session.Segments()))
	}
	if len(upd.Placed) > 0 {
		v.click()
	}
}

// padded grows b by r on every axis.
func padded(b curve.Bounds, r float32) curve.Bounds {
	pad := math.Vec3{X: r, Y: r, Z: r}
	return curve.Bounds{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

func (v *Viewer) click() {
	if !v.audio.IsInitialized() {
		return
	}
	if err := v.audio.PlayClick(float64(v.session.Progress())); err != nil {
		v.log.Debug("click failed", zap.Error(err))
	}
}

func (v *Viewer) updateTitle() {
	title := fmt.Sprintf("Bandage Wrap - %s %.0f%%", v.session.Config().Mode, 100*v.session.Progress())
	if v.session.Done() {
		title += " (done)"
	}
	if title != v.title {
		v.window.SetTitle(title)
		v.title = title
	}
}

func (v *Viewer) render() {
	view := v.camera.ViewMatrix()
	proj := v.camera.ProjectionMatrix(v.renderer.Aspect())
	v.renderer.Begin(view, proj)

	v.renderer.DrawLines(v.floorLines, renderer.ColorFloor)
	v.renderer.DrawLines(v.cylinderLines, renderer.ColorCylinder)
	if v.showBounds {
		v.renderer.DrawLines(v.boundsLines, renderer.ColorCylinder)
	}
	v.renderer.DrawLines(v.curveLines, renderer.ColorCurve)
	v.renderer.DrawRibbon(renderer.ColorBandage)
	v.renderer.DrawLines(v.markerLines, renderer.ColorMarker)
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SaveRGBA(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.audio != nil {
		v.audio.Close()
	}
	for _, l := range []*renderer.Lines{v.curveLines, v.cylinderLines, v.markerLines, v.floorLines, v.boundsLines} {
		if l != nil {
			l.Delete()
		}
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
