// Package session drives a wrap over time: it owns the coverage counter and turns elapsed
// frame time into ribbon meshes or segment placements.
package session

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/bandage-wrap/internal/logger"
	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
)

// ErrUnknownMode is returned when parsing an unsupported mode name.
var ErrUnknownMode = errors.New("unknown wrap mode")

// Mode selects what the session produces.
type Mode int

const (
	// ModeMesh rebuilds a continuous ribbon mesh every time coverage changes.
	ModeMesh Mode = iota
	// ModeSegments places discrete oriented segments along the covered part.
	ModeSegments
)

// String returns the mode name used in config files and flags.
func (m Mode) String() string {
	switch m {
	case ModeMesh:
		return "mesh"
	case ModeSegments:
		return "segments"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "mesh" or "segments".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mesh":
		return ModeMesh, nil
	case "segments", "segment":
		return ModeSegments, nil
	default:
		return ModeMesh, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Config holds session settings.
type Config struct {
	Mode      Mode
	WrapRate  float32 // Arc length covered per second while active
	Ribbon    ribbon.Options
	Placement ribbon.PlacementOptions
}

// DefaultConfig returns a mesh-mode session wrapping half a unit per second.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeMesh,
		WrapRate:  0.5,
		Ribbon:    ribbon.DefaultOptions(),
		Placement: ribbon.DefaultPlacementOptions(),
	}
}

// Validate checks the settings for the selected mode.
func (c Config) Validate() error {
	if r := float64(c.WrapRate); gomath.IsNaN(r) || gomath.IsInf(r, 0) || r < 0 {
		return fmt.Errorf("%w: wrap rate must be a non-negative number, got %v", ribbon.ErrInvalidRange, c.WrapRate)
	}
	switch c.Mode {
	case ModeMesh:
		return c.Ribbon.Validate()
	case ModeSegments:
		return c.Placement.Validate()
	default:
		return fmt.Errorf("%w: %v", ErrUnknownMode, c.Mode)
	}
}

// Update reports the result of one Tick.
type Update struct {
	Covered float32
	Changed bool

	// Mesh is the rebuilt ribbon in mesh mode when Changed is set.
	Mesh *ribbon.Mesh
	// Placed holds the segments added by this tick in segment mode.
	Placed []ribbon.PlacedSegment
}

// Session is safe for concurrent use; a UI thread may swap curves while the frame loop ticks.
type Session struct {
	mu sync.Mutex

	cfg     Config
	curve   *curve.Curve
	covered float32
	mesh    *ribbon.Mesh
	placer  *ribbon.Placer

	// Next quarter of progress to report.
	milestone int
	log       *zap.Logger
}

// New creates a session over c with zero coverage.
func New(c *curve.Curve, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c == nil || c.KnotCount() == 0 {
		return nil, curve.ErrEmptyCurve
	}
	placer, err := newPlacer(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:    cfg,
		curve:  c,
		placer: placer,
		log:    logger.Named("session"),
	}
	s.mesh = &ribbon.Mesh{}
	s.milestone = 1

	s.log.Debug("session created",
		zap.Stringer("mode", cfg.Mode),
		zap.Float32("length", c.Length()),
		zap.Float32("rate", cfg.WrapRate))
	return s, nil
}

// The placer is always built so a later Reconfigure can switch modes; its options are only
// validated in segment mode.
func newPlacer(cfg Config) (*ribbon.Placer, error) {
	opts := cfg.Placement
	if cfg.Mode != ModeSegments && opts.Validate() != nil {
		opts = ribbon.DefaultPlacementOptions()
	}
	return ribbon.NewPlacer(opts)
}

// Tick advances coverage by WrapRate*elapsed when active is set. Inactive ticks and ticks after
// the curve is fully covered report the current state with Changed unset.
func (s *Session) Tick(elapsed time.Duration, active bool) (Update, error) {
	if elapsed < 0 {
		return Update{}, fmt.Errorf("%w: negative elapsed time %v", ribbon.ErrInvalidRange, elapsed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !active || elapsed == 0 || s.done() {
		return Update{Covered: s.covered}, nil
	}

	step := s.cfg.WrapRate * float32(elapsed.Seconds())
	return s.advanceTo(s.covered + step)
}

// Seek sets coverage to an absolute arc length, clamped to the curve. Seeking backwards in
// segment mode clears placements beyond the new coverage by replaying the walk.
func (s *Session) Seek(covered float32) (Update, error) {
	if gomath.IsNaN(float64(covered)) || covered < 0 {
		return Update{}, fmt.Errorf("%w: covered length must be a non-negative number, got %v", ribbon.ErrInvalidRange, covered)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if covered < s.covered {
		s.placer.Reset()
		s.milestone = 1
	}
	return s.advanceTo(covered)
}

func (s *Session) advanceTo(covered float32) (Update, error) {
	length := s.curve.Length()
	covered = max(0, min(covered, length))

	up := Update{Covered: covered, Changed: covered != s.covered}
	s.covered = covered

	switch s.cfg.Mode {
	case ModeMesh:
		m, err := ribbon.Rebuild(s.curve, covered, s.cfg.Ribbon)
		if err != nil {
			return Update{Covered: covered}, err
		}
		s.mesh = m
		up.Mesh = m
	case ModeSegments:
		placed, err := s.placer.Advance(s.curve, covered)
		if err != nil {
			return Update{Covered: covered}, err
		}
		up.Placed = placed
		if len(placed) > 0 {
			up.Changed = true
		}
	}

	s.reportProgress()
	return up, nil
}

func (s *Session) reportProgress() {
	p := s.progress()
	for s.milestone <= 4 && p >= float32(s.milestone)*0.25 {
		if s.milestone == 4 {
			s.log.Info("wrap complete",
				zap.Float32("covered", s.covered),
				zap.Int("segments", s.placer.Count()),
				zap.Int("vertices", s.mesh.VertexCount()))
		} else {
			s.log.Debug("wrap progress", zap.Int("percent", s.milestone*25))
		}
		s.milestone++
	}
}

// SwapCurve replaces the curve, for example after the spiral parameters changed, and restarts
// the wrap from zero coverage.
func (s *Session) SwapCurve(c *curve.Curve) error {
	if c == nil || c.KnotCount() == 0 {
		return curve.ErrEmptyCurve
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.curve = c
	s.restart()
	s.log.Debug("curve swapped", zap.Float32("length", c.Length()), zap.Int("knots", c.KnotCount()))
	return nil
}

// Reconfigure applies new settings and restarts the wrap.
func (s *Session) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	placer, err := newPlacer(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	s.placer = placer
	s.restart()
	return nil
}

// Reset restarts the wrap on the current curve.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restart()
}

func (s *Session) restart() {
	s.covered = 0
	s.mesh = &ribbon.Mesh{}
	s.placer.Reset()
	s.milestone = 1
}

// Curve returns the current curve.
func (s *Session) Curve() *curve.Curve {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve
}

// Config returns the current settings.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Covered returns the covered arc length.
func (s *Session) Covered() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.covered
}

// Progress returns covered/length in [0,1].
func (s *Session) Progress() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress()
}

func (s *Session) progress() float32 {
	l := s.curve.Length()
	if l <= 0 {
		return 1
	}
	return min(s.covered/l, 1)
}

// Done reports whether the whole curve is covered.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done()
}

func (s *Session) done() bool {
	return s.covered >= s.curve.Length()
}

// Mesh returns the latest ribbon mesh. It is empty in segment mode.
func (s *Session) Mesh() *ribbon.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mesh
}

// Segments returns every segment placed so far.
func (s *Session) Segments() []ribbon.PlacedSegment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placer.Placed()
}
