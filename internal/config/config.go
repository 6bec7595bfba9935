// Package config handles wrap configuration loading and management.
package config

import (
	"github.com/Faultbox/bandage-wrap/internal/session"
	"github.com/Faultbox/bandage-wrap/pkg/math"
	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
	"github.com/Faultbox/bandage-wrap/pkg/spiral"
)

// Config holds all settings.
type Config struct {
	Spiral   spiral.Params  `yaml:"spiral"`
	Wrap     WrapConfig     `yaml:"wrap"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WrapConfig holds ribbon and placement settings.
type WrapConfig struct {
	Mode             string     `yaml:"mode"`      // mesh or segments
	WrapRate         float32    `yaml:"wrap_rate"` // Arc length per second while wrapping
	BandageWidth     float32    `yaml:"bandage_width"`
	UVTiling         float32    `yaml:"uv_tiling"`
	SegmentSpacing   float32    `yaml:"segment_spacing"`
	PlacementSpacing float32    `yaml:"placement_spacing"`
	KeyPrecision     float32    `yaml:"key_precision"`
	SegmentScale     float32    `yaml:"segment_scale"`
	SegmentOffsetDeg [3]float32 `yaml:"segment_offset_deg,flow"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	SFXVolume float32 `yaml:"sfx_volume"`
	Muted     bool    `yaml:"muted"`
	ClickFile string  `yaml:"click_file"` // Optional WAV replacing the synthesized click
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	ro := ribbon.DefaultOptions()
	po := ribbon.DefaultPlacementOptions()
	return &Config{
		Spiral: spiral.DefaultParams(),
		Wrap: WrapConfig{
			Mode:             session.ModeMesh.String(),
			WrapRate:         0.5,
			BandageWidth:     ro.Width,
			UVTiling:         ro.UVTiling,
			SegmentSpacing:   ro.SegmentSpacing,
			PlacementSpacing: po.Spacing,
			KeyPrecision:     po.KeyPrecision,
			SegmentScale:     po.Scale.X,
			SegmentOffsetDeg: [3]float32{90, 0, 90},
		},
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Audio: AudioConfig{
			SFXVolume: 0.6,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// RibbonOptions returns the mesh extrusion settings.
func (w WrapConfig) RibbonOptions() ribbon.Options {
	o := ribbon.DefaultOptions()
	o.Width = w.BandageWidth
	o.UVTiling = w.UVTiling
	o.SegmentSpacing = w.SegmentSpacing
	return o
}

// PlacementOptions returns the discrete placement settings.
func (w WrapConfig) PlacementOptions() ribbon.PlacementOptions {
	o := ribbon.DefaultPlacementOptions()
	o.Spacing = w.PlacementSpacing
	o.KeyPrecision = w.KeyPrecision
	o.Scale = math.Vec3{X: w.SegmentScale, Y: w.SegmentScale, Z: w.SegmentScale}
	o.Offset = math.QuatFromEulerDegrees(w.SegmentOffsetDeg[0], w.SegmentOffsetDeg[1], w.SegmentOffsetDeg[2])
	return o
}

// Session returns the session settings. The mode must already be valid; see Validate.
func (c *Config) Session() (session.Config, error) {
	mode, err := session.ParseMode(c.Wrap.Mode)
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Mode:      mode,
		WrapRate:  c.Wrap.WrapRate,
		Ribbon:    c.Wrap.RibbonOptions(),
		Placement: c.Wrap.PlacementOptions(),
	}, nil
}
