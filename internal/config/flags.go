package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagOut      = flag.String("out", "", "Output directory for frames")
	flagWidth    = flag.Int("width", 0, "Frame width in pixels")
	flagHeight   = flag.Int("height", 0, "Frame height in pixels")
	flagFPS      = flag.Int("fps", 0, "Capture framerate")
	flagFrames   = flag.Int("frames", 0, "Number of frames to capture")
	flagRig      = flag.String("rig", "", "Rig document to play instead of the built-in demo")
	flagTextures = flag.String("textures", "", "Texture search directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagWidth > 0 {
		cfg.Output.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Output.Height = *flagHeight
	}
	if *flagFPS > 0 {
		cfg.Capture.FPS = *flagFPS
	}
	if *flagFrames > 0 {
		cfg.Capture.Frames = *flagFrames
	}
	if *flagRig != "" {
		cfg.Scene.Rig = *flagRig
	}
	if *flagTextures != "" {
		cfg.Scene.TextureDirs = append(cfg.Scene.TextureDirs, *flagTextures)
	}
}
