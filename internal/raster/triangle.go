package raster

import (
	"image"
	"math"
)

// Blend selects how a triangle's pixels combine with the framebuffer.
type Blend int

// Blend modes, matching the slot blend semantics of the runtime.
const (
	BlendNormal Blend = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

// FillTriangle rasterizes one screen-space triangle.
//
// This is the HOT PATH — designed for zero allocation in the inner loop.
// px/py hold the three corner positions, us/vs the matching texture
// coordinates. tex may be nil, in which case the tint color is used
// directly. Tint components are 0..1 and multiply the sampled texel.
func FillTriangle(
	fb *FrameBuffer,
	px, py [3]float64,
	us, vs [3]float64,
	tex *image.NRGBA,
	tintR, tintG, tintB, tintA float64,
	blend Blend,
) {
	x0, y0 := px[0], py[0]
	x1, y1 := px[1], py[1]
	x2, y2 := px[2], py[2]

	// Bounding box
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Pixel loop — zero allocations
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			var sr, sg, sb, sa float64
			if tex != nil {
				u := w0*us[0] + w1*us[1] + w2*us[2]
				v := w0*vs[0] + w1*vs[1] + w2*vs[2]
				cr, cg, cb, ca := bilinear(tex, u, v)
				sr = cr * tintR
				sg = cg * tintG
				sb = cb * tintB
				sa = ca * tintA
			} else {
				sr, sg, sb, sa = tintR, tintG, tintB, tintA
			}

			if sa < 1.0/255 {
				continue
			}

			i := (rowOff + sx) * 4
			dr := float64(fb.Color[i]) / 255
			dg := float64(fb.Color[i+1]) / 255
			db := float64(fb.Color[i+2]) / 255
			da := float64(fb.Color[i+3]) / 255

			var or, og, ob, oa float64
			switch blend {
			case BlendAdditive:
				or = dr + sr*sa
				og = dg + sg*sa
				ob = db + sb*sa
				oa = da + sa
			case BlendMultiply:
				or = lerp(dr, dr*sr, sa)
				og = lerp(dg, dg*sg, sa)
				ob = lerp(db, db*sb, sa)
				oa = sa + da*(1-sa)
			case BlendScreen:
				or = lerp(dr, 1-(1-dr)*(1-sr), sa)
				og = lerp(dg, 1-(1-dg)*(1-sg), sa)
				ob = lerp(db, 1-(1-db)*(1-sb), sa)
				oa = sa + da*(1-sa)
			default: // src-over
				or = sr*sa + dr*(1-sa)
				og = sg*sa + dg*(1-sa)
				ob = sb*sa + db*(1-sa)
				oa = sa + da*(1-sa)
			}

			fb.Color[i] = clamp255(or * 255)
			fb.Color[i+1] = clamp255(og * 255)
			fb.Color[i+2] = clamp255(ob * 255)
			fb.Color[i+3] = clamp255(oa * 255)
		}
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
