// Package main is the entry point for the interactive wrap viewer.
//
// Hold Space to wrap, drag to orbit, scroll to zoom. R restarts, M switches between the
// ribbon mesh and discrete segments, A toggles auto rotation, F12 saves a screenshot.
// B shows the bounds, L swings the light around. Right-click a point on the curve to jump the wrap there.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/bandage-wrap/internal/config"
	"github.com/Faultbox/bandage-wrap/internal/logger"
	"github.com/Faultbox/bandage-wrap/internal/viewer"
)

func main() {
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

	logger.Info("=== Bandage Wrap Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
