// wraptool is a CLI utility for generating and inspecting bandage wraps.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/bandage-wrap/internal/config"
	"github.com/Faultbox/bandage-wrap/internal/export"
	"github.com/Faultbox/bandage-wrap/internal/logger"
	"github.com/Faultbox/bandage-wrap/internal/session"
	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
	"github.com/Faultbox/bandage-wrap/pkg/spiral"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "mesh":
		err = cmdMesh(args)
	case "segments", "seg":
		err = cmdSegments(args)
	case "export", "x":
		err = cmdExport(args)
	case "preview":
		err = cmdPreview(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`wraptool - spiral bandage wrap utility

Usage:
  wraptool <command> [options]

Commands:
  info                 Show the spiral curve and full-coverage statistics
  mesh                 Build the ribbon mesh and print its statistics
  segments             Place discrete segments and list them
  export -o <file>     Write the ribbon (.obj) or placements (.yaml)
  preview              Animate the wrap in the terminal

Common options:
  -config <file>       Config file (default ./wrap.yaml or the user config dir)
  -turns <n>           Spiral turns
  -radius <r>          Spiral radius
  -mode mesh|segments  Wrap mode
  -covered <length>    Covered arc length (default: whole curve)
  -progress <0..1>     Covered fraction, overrides -covered
  -debug               Debug logging

Examples:
  wraptool info -turns 8
  wraptool mesh -progress 0.5
  wraptool segments -config arm.yaml -covered 2.5
  wraptool export -o wrap.obj
  wraptool export -mode segments -o wrap.yaml`)
}

// options are the flags shared by every command.
type options struct {
	configPath string
	overrides  config.Overrides
	covered    float64
	progress   float64
}

func newFlagSet(name string) (*flag.FlagSet, *options) {
	o := &options{}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&o.configPath, "config", "", "Path to config file")
	fs.BoolVar(&o.overrides.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&o.overrides.Turns, "turns", 0, "Spiral turns")
	fs.Float64Var(&o.overrides.Radius, "radius", 0, "Spiral radius")
	fs.StringVar(&o.overrides.Mode, "mode", "", "Wrap mode: mesh or segments")
	fs.Float64Var(&o.overrides.Rate, "rate", -1, "Wrap rate in arc length per second")
	fs.Float64Var(&o.covered, "covered", -1, "Covered arc length, negative for the whole curve")
	fs.Float64Var(&o.progress, "progress", -1, "Covered fraction of the curve in [0,1]")
	return fs, o
}

// env is everything a command needs once flags are parsed.
type env struct {
	cfg     *config.Config
	session session.Config
	curve   *curve.Curve
}

func (o *options) load() (*env, error) {
	cfg, err := config.LoadFrom(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := o.overrides.Apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Console logging stays quiet unless asked for, so command output remains parseable.
	level := "warn"
	if o.overrides.Debug {
		level = "debug"
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}

	sc, err := cfg.Session()
	if err != nil {
		return nil, err
	}
	c, err := spiral.Build(cfg.Spiral)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, session: sc, curve: c}, nil
}

// coveredLength resolves -covered and -progress against the curve length.
func (o *options) coveredLength(c *curve.Curve) float32 {
	l := c.Length()
	switch {
	case o.progress >= 0:
		return l * float32(min(o.progress, 1))
	case o.covered >= 0:
		return min(float32(o.covered), l)
	default:
		return l
	}
}

func cmdInfo(args []string) error {
	fs, o := newFlagSet("info")
	fs.Parse(args)

	e, err := o.load()
	if err != nil {
		return err
	}

	p := e.cfg.Spiral.Resolve()
	b := e.curve.Bounds()
	ro := e.session.Ribbon
	po := e.session.Placement

	fmt.Printf("Spiral:     radius %.4g, height %.4g, %d turns x %d points\n", p.Radius, p.Height, p.Turns, p.PointsPerTurn)
	if p.Target != nil {
		fmt.Printf("Target:     cylinder %.4g x %.4g x %.4g, gap %.4g\n", p.Target.Width, p.Target.Height, p.Target.Depth, p.Gap)
	}
	fmt.Printf("Knots:      %d (handle length %.4g)\n", e.curve.KnotCount(), p.HandleLength())
	fmt.Printf("Length:     %.4f\n", e.curve.Length())
	fmt.Printf("Bounds:     (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Println()

	segs := ribbon.SegmentCount(e.curve.Length(), ro.SegmentSpacing)
	fmt.Printf("Mode:       %s, %.3g per second (%.1fs to cover)\n", e.session.Mode, e.session.WrapRate, duration(e))
	fmt.Printf("Mesh:       %d quads, %d vertices, %d triangles at spacing %.4g\n", segs, 2*(segs+1), 2*segs, ro.SegmentSpacing)

	placer, err := ribbon.NewPlacer(po)
	if err != nil {
		return err
	}
	placed, err := placer.Advance(e.curve, e.curve.Length())
	if err != nil {
		return err
	}
	fmt.Printf("Segments:   %d placed at spacing %.4g, key precision %.4g\n", len(placed), po.Spacing, po.KeyPrecision)
	return nil
}

func duration(e *env) float32 {
	if e.session.WrapRate <= 0 {
		return 0
	}
	return e.curve.Length() / e.session.WrapRate
}

func cmdMesh(args []string) error {
	fs, o := newFlagSet("mesh")
	fs.Parse(args)

	e, err := o.load()
	if err != nil {
		return err
	}

	m, err := ribbon.Rebuild(e.curve, o.coveredLength(e.curve), e.session.Ribbon)
	if err != nil {
		return err
	}

	b := m.Bounds()
	fmt.Printf("Covered:    %.4f of %.4f (%.1f%%)\n", m.CoveredLength, e.curve.Length(), percent(m.CoveredLength, e.curve.Length()))
	fmt.Printf("Quads:      %d\n", m.Segments)
	fmt.Printf("Vertices:   %d\n", m.VertexCount())
	fmt.Printf("Triangles:  %d\n", m.TriangleCount())
	if !m.Empty() {
		fmt.Printf("Bounds:     (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
		last := m.UVs[len(m.UVs)-1]
		fmt.Printf("UV v max:   %.4f\n", last.Y)
	}
	return nil
}

func cmdSegments(args []string) error {
	fs, o := newFlagSet("segments")
	limit := fs.Int("n", 0, "Limit output to N segments (0 = all)")
	fs.Parse(args)

	e, err := o.load()
	if err != nil {
		return err
	}

	placer, err := ribbon.NewPlacer(e.session.Placement)
	if err != nil {
		return err
	}
	segs, err := placer.Advance(e.curve, o.coveredLength(e.curve))
	if err != nil {
		return err
	}

	fmt.Printf("%6s  %8s  %26s  %34s\n", "key", "param", "position", "rotation (x y z w)")
	for i, s := range segs {
		if *limit > 0 && i >= *limit {
			fmt.Printf("... and %d more\n", len(segs)-i)
			break
		}
		fmt.Printf("%6d  %8.4f  (%7.3f %7.3f %7.3f)  (%7.4f %7.4f %7.4f %7.4f)\n",
			s.Key, s.Param, s.Position.X, s.Position.Y, s.Position.Z,
			s.Rotation.X, s.Rotation.Y, s.Rotation.Z, s.Rotation.W)
	}
	fmt.Printf("\n%d segments\n", len(segs))
	return nil
}

func cmdExport(args []string) error {
	fs, o := newFlagSet("export")
	out := fs.String("o", "", "Output file (.obj for the ribbon, .yaml for placements)")
	name := fs.String("name", "bandage", "OBJ object name")
	fs.Parse(args)

	if *out == "" {
		return fmt.Errorf("usage: wraptool export -o <file.obj|file.yaml>")
	}

	// The output extension picks the mode when -mode is not given.
	if o.overrides.Mode == "" {
		o.overrides.Mode = modeForPath(*out)
	}

	e, err := o.load()
	if err != nil {
		return err
	}
	covered := o.coveredLength(e.curve)

	switch e.session.Mode {
	case session.ModeSegments:
		placer, err := ribbon.NewPlacer(e.session.Placement)
		if err != nil {
			return err
		}
		segs, err := placer.Advance(e.curve, covered)
		if err != nil {
			return err
		}
		if err := export.SavePlacements(*out, segs); err != nil {
			return err
		}
		fmt.Printf("Wrote %d segments to %s\n", len(segs), *out)
	default:
		m, err := ribbon.Rebuild(e.curve, covered, e.session.Ribbon)
		if err != nil {
			return err
		}
		if err := export.SaveOBJ(*out, m, *name); err != nil {
			return err
		}
		fmt.Printf("Wrote %d vertices, %d triangles to %s\n", m.VertexCount(), m.TriangleCount(), *out)
	}
	return nil
}

func modeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return session.ModeSegments.String()
	default:
		return session.ModeMesh.String()
	}
}

func percent(part, whole float32) float32 {
	if whole <= 0 {
		return 100
	}
	return 100 * part / whole
}
