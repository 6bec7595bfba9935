// Wrap Studio - a parameter editor for spiral bandage wraps.
//
// Sliders rebuild the spiral live; hold Space (or press Play) to wrap. Side and top projections
// show the curve and the covered part. Results export to OBJ or placement YAML.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/bandage-wrap/internal/config"
	"github.com/Faultbox/bandage-wrap/internal/engine/audio"
	"github.com/Faultbox/bandage-wrap/internal/engine/ui"
	"github.com/Faultbox/bandage-wrap/internal/logger"
	"github.com/Faultbox/bandage-wrap/internal/session"
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/spiral"
)

const plotSamples = 400

func main() {
	runtime.LockOSThread()

	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewApp(cfg)
	if err != nil {
		logger.Error("failed to start studio", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}

// App is the studio state. Everything except the dialog goroutines runs on the main thread.
type App struct {
	ui    *ui.Backend
	cfg   *config.Config
	log   *zap.Logger
	audio *audio.Manager

	builder *spiral.Builder
	session *session.Session

	// Editable copies of the config, in the types the widgets take
	params    paramState
	wrap      wrapState
	useTarget bool

	playing   bool
	lastFrame time.Time
	curvePts  []math.Vec3

	// Export paths chosen in a native dialog, handled on the main thread
	exports chan exportRequest

	status     string
	statusTime time.Time
}

// NewApp builds the initial spiral and opens the studio window.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:     cfg,
		log:     logger.Named("studio"),
		audio:   audio.New(),
		exports: make(chan exportRequest, 4),
	}
	app.params.load(cfg.Spiral)
	app.wrap.load(cfg.Wrap)
	app.useTarget = cfg.Spiral.Target != nil

	var err error
	if app.builder, err = spiral.NewBuilder(cfg.Spiral); err != nil {
		return nil, err
	}
	sc, err := cfg.Session()
	if err != nil {
		return nil, err
	}
	if app.session, err = session.New(app.builder.Curve(), sc); err != nil {
		return nil, err
	}
	if err := app.sampleCurve(); err != nil {
		return nil, err
	}

	if app.ui, err = ui.NewBackend("Wrap Studio", cfg.Graphics.Width, cfg.Graphics.Height); err != nil {
		return nil, err
	}

	if err := app.audio.Init(); err != nil {
		app.log.Warn("audio unavailable", zap.Error(err))
	} else {
		app.audio.SetSFXVolume(float64(cfg.Audio.SFXVolume))
		app.audio.SetMuted(cfg.Audio.Muted)
	}

	app.lastFrame = time.Now()
	return app, nil
}

// Run starts the main loop.
func (app *App) Run() {
	app.ui.Run(app.render)
}

// Close releases resources.
func (app *App) Close() {
	app.audio.Close()
}

func (app *App) sampleCurve() error {
	pts, err := app.session.Curve().Sample(plotSamples)
	if err != nil {
		return err
	}
	app.curvePts = pts
	return nil
}

func (app *App) notify(format string, args ...any) {
	app.status = fmt.Sprintf(format, args...)
	app.statusTime = time.Now()
}
