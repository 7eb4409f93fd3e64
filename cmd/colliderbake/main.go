// Package main is the entry point for the collider baking session runner.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-collider/internal/assets"
	"github.com/Faultbox/midgard-collider/internal/config"
	"github.com/Faultbox/midgard-collider/internal/game"
	"github.com/Faultbox/midgard-collider/internal/logger"
)

func main() {
	// Parse CLI flags first
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

	logger.Info("=== Midgard Collider ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		}
	}

	manifest, err := assets.LoadManifest(cfg.Scene.Manifest)
	if err != nil {
		logger.Error("failed to load manifest", zap.String("path", cfg.Scene.Manifest), zap.Error(err))
		exit(1)
	}

	session, err := game.New(cfg, manifest)
	if err != nil {
		logger.Error("failed to create session", zap.Error(err))
		exit(1)
	}

	if err := session.Run(); err != nil {
		logger.Error("session error", zap.Error(err))
		exit(1)
	}

	if path := config.ReportPath(); path != "" {
		if err := session.WriteReport(path); err != nil {
			logger.Error("failed to write report", zap.String("path", path), zap.Error(err))
			exit(1)
		}
		logger.Info("report written", zap.String("path", path))
	}

	logger.Info("session closed normally")
}

// exit flushes the logger before leaving, since deferred calls are skipped.
func exit(code int) {
	logger.Sync()
	os.Exit(code)
}
