package main

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/bandage-wrap/internal/export"
	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
)

type exportKind int

const (
	exportOBJ exportKind = iota
	exportPlacements
)

type exportRequest struct {
	kind exportKind
	path string
}

// openExportDialog shows a native save dialog without blocking the frame loop.
// The chosen path is handled in render, on the main thread.
func (app *App) openExportDialog(kind exportKind) {
	go func() {
		b := dialog.File()
		switch kind {
		case exportOBJ:
			b = b.Filter("Wavefront OBJ", "obj").SetStartFile("bandage.obj").Title("Export Ribbon Mesh")
		default:
			b = b.Filter("YAML", "yaml", "yml").SetStartFile("placements.yaml").Title("Export Placements")
		}

		path, err := b.Filter("All Files", "*").Save()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				app.log.Warn("file dialog error", zap.Error(err))
			}
			return
		}
		app.exports <- exportRequest{kind: kind, path: path}
	}()
}

func (app *App) drainExports() {
	for {
		select {
		case req := <-app.exports:
			app.export(req)
		default:
			return
		}
	}
}

// export writes the wrap at its current coverage. Either format can be written in either
// mode, the missing representation is built on demand.
func (app *App) export(req exportRequest) {
	c := app.session.Curve()
	covered := app.session.Covered()
	cfg := app.session.Config()

	var err error
	switch req.kind {
	case exportOBJ:
		var m *ribbon.Mesh
		if m, err = ribbon.Rebuild(c, covered, cfg.Ribbon); err == nil {
			err = export.SaveOBJ(req.path, m, "bandage")
		}
	default:
		var p *ribbon.Placer
		if p, err = ribbon.NewPlacer(cfg.Placement); err == nil {
			var segs []ribbon.PlacedSegment
			if segs, err = p.Advance(c, covered); err == nil {
				err = export.SavePlacements(req.path, segs)
			}
		}
	}

	if err != nil {
		app.log.Error("export failed", zap.String("path", req.path), zap.Error(err))
		app.notify("Export failed: %v", err)
		return
	}
	app.log.Info("exported", zap.String("path", req.path), zap.Float32("covered", covered))
	app.notify("Exported %s", req.path)
}
