// Package main is the entry point for posedump, a headless batch tool
// that plays animations on a built-in demo skeleton and writes each
// frame as a WebP image. It exists to exercise the full runtime
// pipeline (mixer, pose, world transforms, clipping, batching) without
// a GPU.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/marrowkit/marrow/internal/assets"
	"github.com/marrowkit/marrow/internal/config"
	"github.com/marrowkit/marrow/internal/logger"
	"github.com/marrowkit/marrow/pkg/animation"
	"github.com/marrowkit/marrow/pkg/controller"
	"github.com/marrowkit/marrow/pkg/formats"
	"github.com/marrowkit/marrow/pkg/render"
	"github.com/marrowkit/marrow/pkg/skeleton"
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

	logger.Info("=== posedump ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("dump failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	data, stateData, err := loadScene(cfg)
	if err != nil {
		return err
	}

	ctl := controller.New(data, stateData)
	ctl.Settings.PremultipliedAlpha = cfg.Render.PremultipliedAlpha
	if cfg.Render.CullDirection == "ccw" {
		ctl.Settings.CullDirection = render.CullCounterClockwise
	}

	// Log every animation event the mixer emits.
	ctl.State.Listener = func(typ animation.EventType, entry *animation.TrackEntry, event *animation.Event) {
		fields := []zap.Field{
			zap.String("type", typ.String()),
			zap.Int("track", entry.TrackIndex),
			zap.String("animation", entry.Animation.Name),
		}
		if event != nil {
			fields = append(fields,
				zap.String("event", event.Data.Name),
				zap.Float32("time", event.Time),
			)
		}
		logger.Debug("animation event", fields...)
	}

	// The playlist loops its first entry, crossfades through the
	// middle ones and loops the last forever.
	playlist := cfg.Capture.Playlist
	if len(playlist) == 0 {
		return fmt.Errorf("empty playlist")
	}
	if _, err := ctl.State.SetAnimationByName(0, playlist[0], true); err != nil {
		return err
	}
	for i, name := range playlist[1:] {
		var delay float32
		if i == 0 {
			delay = 2
		}
		last := i == len(playlist)-2
		if _, err := ctl.State.AddAnimationByName(0, name, last, delay); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	dumper := newDumper(cfg)
	delta := float32(1) / float32(cfg.Capture.FPS)
	start := time.Now()
	batches := 0

	for frame := 0; frame < cfg.Capture.Frames; frame++ {
		ctl.Update(delta)
		renderables := ctl.Renderables()
		batches += len(renderables)

		path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("frame_%04d.webp", frame))
		if err := dumper.writeFrame(path, renderables); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}

	logger.Info("dump complete",
		zap.Int("frames", cfg.Capture.Frames),
		zap.Int("batches", batches),
		zap.String("dir", cfg.Output.Dir),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// loadScene returns the definition tables to play: a rig document when
// one is configured, the built-in demo skeleton otherwise.
func loadScene(cfg *config.Config) (*skeleton.Data, *animation.StateData, error) {
	if cfg.Scene.Rig == "" {
		data, library := buildRig()
		if err := data.Validate(); err != nil {
			return nil, nil, fmt.Errorf("rig validation: %w", err)
		}
		stateData := animation.NewStateData(library)
		stateData.DefaultMix = cfg.Capture.Mix
		return data, stateData, nil
	}

	rig, err := formats.LoadRig(cfg.Scene.Rig)
	if err != nil {
		return nil, nil, err
	}
	if rig.StateData.DefaultMix == 0 {
		rig.StateData.DefaultMix = cfg.Capture.Mix
	}
	resolveTextures(cfg, rig.Data)
	logger.Info("rig loaded",
		zap.String("path", cfg.Scene.Rig),
		zap.Int("bones", len(rig.Data.Bones)),
		zap.Int("slots", len(rig.Data.Slots)),
		zap.Int("animations", rig.Animations.Len()),
	)
	return rig.Data, rig.StateData, nil
}

// resolveTextures replaces string texture handles on rig attachments
// with decoded images. Unresolvable textures are logged and left nil,
// which renders as flat tint.
func resolveTextures(cfg *config.Config, data *skeleton.Data) {
	manager := assets.NewManager()
	manager.AddDir(filepath.Dir(cfg.Scene.Rig))
	for _, dir := range cfg.Scene.TextureDirs {
		manager.AddDir(dir)
	}

	resolve := func(handle *any, name string) {
		path, ok := (*handle).(string)
		if !ok || path == "" {
			return
		}
		img, err := manager.LoadTexture(path)
		if err != nil {
			logger.Warn("texture unresolved",
				zap.String("attachment", name), zap.Error(err))
			*handle = nil
			return
		}
		*handle = img
	}

	for _, skin := range data.Skins {
		skin.Range(func(_ int, name string, a skeleton.Attachment) {
			switch t := a.(type) {
			case *skeleton.RegionAttachment:
				resolve(&t.Texture, name)
			case *skeleton.MeshAttachment:
				resolve(&t.Texture, name)
			}
		})
	}
}
