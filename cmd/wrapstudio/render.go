package main

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/bandage-wrap/internal/engine/ui"
)

const (
	panelWidth      = float32(320)
	statusBarHeight = float32(30)
	statusDuration  = 4 * time.Second
)

func (app *App) render() {
	app.drainExports()

	now := time.Now()
	dt := now.Sub(app.lastFrame)
	app.lastFrame = now

	if ui.IsKeyPressed(imgui.KeyR) && !imgui.IsAnyItemActive() {
		app.session.Reset()
	}
	active := app.playing || (ui.IsKeyDown(imgui.KeySpace) && !imgui.IsAnyItemActive())
	app.tick(dt, active)

	workPos, workSize := ui.Viewport()
	contentHeight := workSize.Y - statusBarHeight
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, contentHeight))
	if imgui.BeginV("Parameters", nil, flags) {
		app.renderSpiralPanel()
		app.renderWrapPanel()
		app.renderActions()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+panelWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X-panelWidth, contentHeight))
	if imgui.BeginV("Preview", nil, flags) {
		app.renderPreview()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	if imgui.BeginV("Status", nil, flags|imgui.WindowFlagsNoTitleBar) {
		app.renderStatusBar()
	}
	imgui.End()
}

// tick advances the session and clicks for every batch of new segments.
func (app *App) tick(dt time.Duration, active bool) {
	upd, err := app.session.Tick(dt, active)
	if err != nil {
		app.log.Error("tick failed", zap.Error(err))
		return
	}
	if len(upd.Placed) > 0 && app.audio.IsInitialized() {
		if err := app.audio.PlayClick(float64(app.session.Progress())); err != nil {
			app.log.Debug("click failed", zap.Error(err))
		}
	}
	if app.session.Done() {
		app.playing = false
	}
}

func (app *App) renderSpiralPanel() {
	imgui.SeparatorText("Spiral")

	s := &app.params
	changed := false
	changed = imgui.SliderIntV("Turns", &s.turns, 1, 40, "%d", imgui.SliderFlagsNone) || changed
	changed = imgui.SliderIntV("Points/turn", &s.pointsPerTurn, 3, 64, "%d", imgui.SliderFlagsNone) || changed
	changed = imgui.Checkbox("Fit target cylinder", &app.useTarget) || changed

	if app.useTarget {
		changed = imgui.SliderFloatV("Width", &s.target.Width, 0.05, 5, "%.2f", imgui.SliderFlagsNone) || changed
		changed = imgui.SliderFloatV("Depth", &s.target.Depth, 0.05, 5, "%.2f", imgui.SliderFlagsNone) || changed
		changed = imgui.SliderFloatV("Height", &s.target.Height, 0.05, 10, "%.2f", imgui.SliderFlagsNone) || changed
		changed = imgui.SliderFloatV("Gap", &s.gap, 0, 0.5, "%.3f", imgui.SliderFlagsNone) || changed
	} else {
		changed = imgui.SliderFloatV("Radius", &s.radius, 0.05, 5, "%.2f", imgui.SliderFlagsNone) || changed
		changed = imgui.SliderFloatV("Height", &s.height, 0.05, 10, "%.2f", imgui.SliderFlagsNone) || changed
	}

	if changed {
		app.rebuildSpiral()
	}

	c := app.session.Curve()
	imgui.Text(fmt.Sprintf("%d knots, length %.3f", c.KnotCount(), c.Length()))
}

// rebuildSpiral swaps in a new curve. Invalid parameters keep the previous one.
func (app *App) rebuildSpiral() {
	p := app.params.params(app.useTarget)
	c, err := app.builder.Rebuild(p)
	if err != nil {
		app.notify("Spiral: %v", err)
		return
	}
	if err := app.session.SwapCurve(c); err != nil {
		app.notify("Spiral: %v", err)
		return
	}
	app.cfg.Spiral = p
	if err := app.sampleCurve(); err != nil {
		app.log.Error("sampling curve", zap.Error(err))
	}
}

func (app *App) renderWrapPanel() {
	imgui.SeparatorText("Wrap")

	s := &app.wrap
	changed := false
	changed = imgui.Checkbox("Discrete segments", &s.segments) || changed
	changed = imgui.SliderFloatV("Rate", &s.rate, 0.05, 5, "%.2f/s", imgui.SliderFlagsLogarithmic) || changed

	if s.segments {
		changed = imgui.SliderFloatV("Spacing", &s.placementSpacing, 0.005, 0.5, "%.3f", imgui.SliderFlagsLogarithmic) || changed
		changed = imgui.SliderFloatV("Scale", &s.scale, 0.005, 0.5, "%.3f", imgui.SliderFlagsLogarithmic) || changed
	} else {
		changed = imgui.SliderFloatV("Width", &s.width, 0.01, 2, "%.2f", imgui.SliderFlagsNone) || changed
		changed = imgui.SliderFloatV("UV tiling", &s.tiling, 0, 20, "%.1f", imgui.SliderFlagsNone) || changed
		changed = imgui.SliderFloatV("Spacing", &s.spacing, 0.002, 0.5, "%.3f", imgui.SliderFlagsLogarithmic) || changed
	}

	if changed {
		app.reconfigure()
	}
}

// reconfigure applies the wrap widgets and restores the coverage reached so far.
func (app *App) reconfigure() {
	wc := app.cfg.Wrap
	app.wrap.apply(&wc)

	prev := app.cfg.Wrap
	app.cfg.Wrap = wc
	sc, err := app.cfg.Session()
	if err == nil {
		covered := app.session.Covered()
		if err = app.session.Reconfigure(sc); err == nil {
			_, err = app.session.Seek(covered)
		}
	}
	if err != nil {
		app.cfg.Wrap = prev
		app.notify("Wrap: %v", err)
	}
}

func (app *App) renderActions() {
	imgui.SeparatorText("Progress")

	imgui.ProgressBarV(app.session.Progress(), imgui.NewVec2(-1, 0),
		fmt.Sprintf("%.3f / %.3f", app.session.Covered(), app.session.Curve().Length()))

	label := "Play"
	if app.playing {
		label = "Pause"
	}
	if imgui.Button(label) {
		app.playing = !app.playing
	}
	imgui.SameLine()
	if imgui.Button("Reset") {
		app.session.Reset()
		app.playing = false
	}
	imgui.SameLine()
	if imgui.Button("Finish") {
		if _, err := app.session.Seek(app.session.Curve().Length()); err != nil {
			app.notify("Finish: %v", err)
		}
	}
	imgui.TextColored(imgui.NewVec4(0.7, 0.7, 0.7, 1), "Hold Space to wrap, R to reset")

	imgui.SeparatorText("Output")
	if imgui.Button("Export OBJ...") {
		app.openExportDialog(exportOBJ)
	}
	imgui.SameLine()
	if imgui.Button("Export placements...") {
		app.openExportDialog(exportPlacements)
	}
	if imgui.Button("Save settings") {
		if err := app.cfg.Save(); err != nil {
			app.notify("Save failed: %v", err)
		} else {
			app.notify("Settings saved")
		}
	}
}

func (app *App) renderStatusBar() {
	cfg := app.session.Config()
	text := fmt.Sprintf("%s | %.0f%% | %d segments placed", cfg.Mode, 100*app.session.Progress(), len(app.session.Segments()))
	if app.status != "" && time.Since(app.statusTime) < statusDuration {
		text += " | " + app.status
	}
	imgui.Text(text)
}
