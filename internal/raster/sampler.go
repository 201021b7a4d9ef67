package raster

import "image"

// texel reads one pixel as 0..1 channel values. The slice expression
// pins the bounds check to a single spot.
func texel(tex *image.NRGBA, x, y int) [4]float64 {
	i := y*tex.Stride + x*4
	p := tex.Pix[i : i+4 : i+4]
	return [4]float64{
		float64(p[0]) / 255,
		float64(p[1]) / 255,
		float64(p[2]) / 255,
		float64(p[3]) / 255,
	}
}

// wrapUnit maps a texture coordinate into [0,1) with repeat wrapping.
func wrapUnit(t float64) float64 {
	t -= float64(int(t))
	if t < 0 {
		t++
	}
	return t
}

// bilinear samples the texture at (u, v) with bilinear filtering and
// repeat wrapping, returning 0..1 channel values ready for tinting.
func bilinear(tex *image.NRGBA, u, v float64) (r, g, b, a float64) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	fx := wrapUnit(u) * float64(w-1)
	fy := wrapUnit(v) * float64(h-1)
	x := int(fx)
	y := int(fy)
	tx := fx - float64(x)
	ty := fy - float64(y)

	p00 := texel(tex, x, y)
	p10 := texel(tex, (x+1)%w, y)
	p01 := texel(tex, x, (y+1)%h)
	p11 := texel(tex, (x+1)%w, (y+1)%h)

	var out [4]float64
	for c := 0; c < 4; c++ {
		top := p00[c] + (p10[c]-p00[c])*tx
		bot := p01[c] + (p11[c]-p01[c])*tx
		out[c] = top + (bot-top)*ty
	}
	return out[0], out[1], out[2], out[3]
}
