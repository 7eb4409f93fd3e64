package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagManifest = flag.String("manifest", "", "Path to scene manifest")
	flagFrames   = flag.Int("frames", 0, "Number of ticks to run")
	flagTickRate = flag.Int("tick-rate", -1, "Ticks per second (0 = unthrottled)")
	flagReport   = flag.String("report", "", "Write a YAML collider report to this path")
	flagSave     = flag.Bool("save-config", false, "Save the effective config to the user config directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ReportPath returns the report output path, empty when not requested.
func ReportPath() string {
	return *flagReport
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagManifest != "" {
		cfg.Scene.Manifest = *flagManifest
	}
	if *flagFrames > 0 {
		cfg.Session.MaxFrames = *flagFrames
	}
	if *flagTickRate >= 0 {
		cfg.Session.TickRate = *flagTickRate
	}
}
