package main

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/bandage-wrap/internal/engine/ui"
	"github.com/Faultbox/bandage-wrap/internal/session"
)

var (
	colorPlotBg   = imgui.NewVec4(0.06, 0.07, 0.09, 1)
	colorBack     = imgui.NewVec4(0.45, 0.30, 0.15, 0.6)
	colorFront    = imgui.NewVec4(0.95, 0.55, 0.20, 1)
	colorBandage  = imgui.NewVec4(0.93, 0.89, 0.80, 0.85)
	colorSegment  = imgui.NewVec4(0.40, 0.85, 0.55, 1)
	colorPlotText = imgui.NewVec4(0.7, 0.7, 0.7, 1)
)

// renderPreview draws the side and top projections next to each other.
func (app *App) renderPreview() {
	origin := imgui.CursorScreenPos()
	avail := imgui.ContentRegionAvail()
	gap := float32(8)
	w := max((avail.X-gap)*0.5, 1)

	side := ui.Plot{Axis: ui.Side, Origin: origin, Size: imgui.NewVec2(w, avail.Y), Margin: 16}
	top := ui.Plot{Axis: ui.Top, Origin: imgui.NewVec2(origin.X+w+gap, origin.Y), Size: imgui.NewVec2(w, avail.Y), Margin: 16}

	app.drawPlot(&side, "Side")
	app.drawPlot(&top, "Top")

	imgui.Dummy(avail)
}

func (app *App) drawPlot(p *ui.Plot, label string) {
	dl := imgui.WindowDrawList()
	maxPt := imgui.NewVec2(p.Origin.X+p.Size.X, p.Origin.Y+p.Size.Y)
	dl.AddRectFilled(p.Origin, maxPt, imgui.ColorU32Vec4(colorPlotBg))
	dl.AddTextVec2(imgui.NewVec2(p.Origin.X+6, p.Origin.Y+4), imgui.ColorU32Vec4(colorPlotText), label)

	cfg := app.session.Config()
	halfWidth := cfg.Ribbon.Width * 0.5
	p.Fit(padded(app.session.Curve().Bounds(), halfWidth))
	mid := p.Depth(app.session.Curve().Bounds().Center())

	// Curve, dimmer on the far side of the axis.
	back, front := imgui.ColorU32Vec4(colorBack), imgui.ColorU32Vec4(colorFront)
	for i := 1; i < len(app.curvePts); i++ {
		a, b := app.curvePts[i-1], app.curvePts[i]
		col := back
		if p.Depth(a) >= mid {
			col = front
		}
		dl.AddLineV(p.Map(a), p.Map(b), col, 1.5)
	}

	switch cfg.Mode {
	case session.ModeSegments:
		r := max(cfg.Placement.Scale.X*p.Scale(), 2)
		col := imgui.ColorU32Vec4(colorSegment)
		for _, s := range app.session.Segments() {
			dl.AddCircleFilled(p.Map(s.Position), r, col)
		}
	default:
		app.drawRibbon(p, dl)
	}
}

// drawRibbon draws the cross-section rungs and both edges of the covered ribbon.
func (app *App) drawRibbon(p *ui.Plot, dl *imgui.DrawList) {
	m := app.session.Mesh()
	if m == nil || m.Empty() {
		return
	}
	col := imgui.ColorU32Vec4(colorBandage)
	v := m.Vertices
	for i := 0; i+1 < len(v); i += 2 {
		dl.AddLineV(p.Map(v[i]), p.Map(v[i+1]), col, 1)
		if i+3 < len(v) {
			dl.AddLineV(p.Map(v[i]), p.Map(v[i+2]), col, 1)
			dl.AddLineV(p.Map(v[i+1]), p.Map(v[i+3]), col, 1)
		}
	}
}
