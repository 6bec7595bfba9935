package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/bandage-wrap/internal/logger"
	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Spiral.Resolve().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spiral: %w", err))
	}

	sc, err := c.Session()
	if err != nil {
		errs = append(errs, fmt.Errorf("wrap: %w", err))
	} else if err := sc.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("wrap: %w", err))
	}
	// Both option sets are checked so switching modes at runtime cannot fail.
	if err := c.Wrap.RibbonOptions().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("wrap: %w", err))
	}
	if err := c.Wrap.PlacementOptions().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("wrap: %w", err))
	}
	if !(c.Wrap.SegmentScale > 0) {
		errs = append(errs, fmt.Errorf("wrap: %w: segment scale must be positive, got %v", ribbon.ErrInvalidRange, c.Wrap.SegmentScale))
	}

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if !(c.Audio.SFXVolume >= 0 && c.Audio.SFXVolume <= 1) {
		errs = append(errs, fmt.Errorf("audio: sfx volume %v outside [0,1]", c.Audio.SFXVolume))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
