package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/bandage-wrap/internal/session"
)

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagTurns  = flag.Int("turns", 0, "Spiral turns")
	flagRadius = flag.Float64("radius", 0, "Spiral radius")
	flagMode   = flag.String("mode", "", "Wrap mode: mesh or segments")
	flagRate   = flag.Float64("rate", -1, "Wrap rate in arc length per second")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Overrides are command-line style settings applied on top of a loaded config.
// Zero values, and a negative Rate, leave the config unchanged.
type Overrides struct {
	Debug  bool
	Turns  int
	Radius float64
	Mode   string
	Rate   float64
}

// Apply writes the set overrides into cfg.
func (o Overrides) Apply(cfg *Config) error {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Turns > 0 {
		cfg.Spiral.Turns = o.Turns
	}
	if o.Radius > 0 {
		cfg.Spiral.Radius = float32(o.Radius)
		// An explicit radius wins over the target cylinder.
		cfg.Spiral.Target = nil
	}
	if o.Mode != "" {
		mode, err := session.ParseMode(o.Mode)
		if err != nil {
			return fmt.Errorf("-mode: %w", err)
		}
		cfg.Wrap.Mode = mode.String()
	}
	if o.Rate >= 0 {
		cfg.Wrap.WrapRate = float32(o.Rate)
	}
	return nil
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	return Overrides{
		Debug:  *flagDebug,
		Turns:  *flagTurns,
		Radius: *flagRadius,
		Mode:   *flagMode,
		Rate:   *flagRate,
	}.Apply(cfg)
}
