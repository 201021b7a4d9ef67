package main

import (
	"image"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"github.com/marrowkit/marrow/internal/config"
	"github.com/marrowkit/marrow/internal/raster"
	"github.com/marrowkit/marrow/pkg/render"
	"github.com/marrowkit/marrow/pkg/skeleton"
)

// dumper converts renderable batches to pixels and writes them out.
// The framebuffer is reused across frames.
type dumper struct {
	fb    *raster.FrameBuffer
	scale float64
	cx    float64
	cy    float64
}

func newDumper(cfg *config.Config) *dumper {
	w, h := cfg.Output.Width, cfg.Output.Height
	// Fit roughly 200 world units of height into the frame, origin at
	// the bottom center. World Y points up, screen Y points down.
	scale := float64(h) / 200 * float64(cfg.Render.Scale)
	return &dumper{
		fb:    raster.NewFrameBuffer(w, h),
		scale: scale,
		cx:    float64(w) / 2,
		cy:    float64(h) - float64(h)/8,
	}
}

func (d *dumper) writeFrame(path string, renderables []render.Renderable) error {
	d.fb.Clear(24, 24, 32, 255)

	for i := range renderables {
		d.drawRenderable(&renderables[i])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return nativewebp.Encode(f, d.fb.Image(), nil)
}

func (d *dumper) drawRenderable(r *render.Renderable) {
	tex, _ := r.Texture.(*image.NRGBA)
	blend := blendFor(r.BlendMode)

	var px, py, us, vs [3]float64
	for i := 0; i+2 < len(r.Indices); i += 3 {
		for k := 0; k < 3; k++ {
			v := r.Vertices[r.Indices[i+k]]
			uv := r.UVs[r.Indices[i+k]]
			px[k] = d.cx + float64(v.X)*d.scale
			py[k] = d.cy - float64(v.Y)*d.scale
			us[k] = float64(uv.X)
			vs[k] = float64(uv.Y)
		}
		raster.FillTriangle(d.fb, px, py, us, vs, tex,
			float64(r.Color.R), float64(r.Color.G), float64(r.Color.B), float64(r.Color.A),
			blend)
	}
}

func blendFor(mode skeleton.BlendMode) raster.Blend {
	switch mode {
	case skeleton.BlendAdditive:
		return raster.BlendAdditive
	case skeleton.BlendMultiply:
		return raster.BlendMultiply
	case skeleton.BlendScreen:
		return raster.BlendScreen
	default:
		return raster.BlendNormal
	}
}
