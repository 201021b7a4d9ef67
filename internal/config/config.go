// Package config handles pose export configuration loading and management.
package config

// Config holds all pose export settings.
type Config struct {
	Scene   SceneConfig   `yaml:"scene"`
	Output  OutputConfig  `yaml:"output"`
	Capture CaptureConfig `yaml:"capture"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// SceneConfig selects what gets played. An empty Rig uses the built-in
// demo skeleton.
type SceneConfig struct {
	Rig         string   `yaml:"rig"`          // rig document path
	TextureDirs []string `yaml:"texture_dirs"` // texture search directories
}

// OutputConfig holds image output settings.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Lossless bool   `yaml:"lossless"`
}

// CaptureConfig holds frame capture settings.
type CaptureConfig struct {
	FPS    int     `yaml:"fps"`
	Frames int     `yaml:"frames"`
	Mix    float32 `yaml:"mix"` // default crossfade duration in seconds

	// Playlist is the animation sequence: the first entry loops until
	// the second crossfades in, and the last entry loops forever.
	Playlist []string `yaml:"playlist"`
}

// RenderConfig holds geometry emission settings.
type RenderConfig struct {
	PremultipliedAlpha bool    `yaml:"premultiplied_alpha"`
	CullDirection      string  `yaml:"cull_direction"` // cw or ccw
	Scale              float32 `yaml:"scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:      "out",
			Width:    512,
			Height:   512,
			Lossless: true,
		},
		Capture: CaptureConfig{
			FPS:      30,
			Frames:   120,
			Mix:      0.2,
			Playlist: []string{"walk", "wave", "walk"},
		},
		Render: RenderConfig{
			PremultipliedAlpha: false,
			CullDirection:      "cw",
			Scale:              1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
