package animation

import "github.com/marrowkit/marrow/pkg/math"

// Interpolation curves are stored per keyframe as a small precomputed
// table: linear and stepped are tags, Bezier curves are flattened into
// bezierSegments line segments at authoring time so evaluation is a
// short scan instead of an iterative solve.
const (
	curveLinear  = 0
	curveStepped = 1
	curveBezier  = 2

	bezierSegments = 10
	// bezierSize is one type tag plus (bezierSegments - 1) x,y pairs.
	bezierSize = bezierSegments*2 - 1
)

// curve holds the interpolation table for a timeline's keyframes.
type curve struct {
	data []float32
}

func newCurve(frameCount int) curve {
	return curve{data: make([]float32, frameCount*bezierSize)}
}

// SetLinear marks a frame as linearly interpolated.
func (c *curve) SetLinear(frame int) {
	c.data[frame*bezierSize] = curveLinear
}

// SetStepped marks a frame as stepped: the value holds until the next
// frame.
func (c *curve) SetStepped(frame int) {
	c.data[frame*bezierSize] = curveStepped
}

// SetBezier flattens a cubic Bezier with control points (cx1,cy1) and
// (cx2,cy2), both in [0,1], into the frame's segment table.
func (c *curve) SetBezier(frame int, cx1, cy1, cx2, cy2 float32) {
	subdiv1 := float32(1.0) / bezierSegments
	subdiv2 := subdiv1 * subdiv1
	subdiv3 := subdiv2 * subdiv1
	pre1 := 3 * subdiv1
	pre2 := 3 * subdiv2
	pre4 := 6 * subdiv2
	pre5 := 6 * subdiv3
	tmp1x := -cx1*2 + cx2
	tmp1y := -cy1*2 + cy2
	tmp2x := (cx1-cx2)*3 + 1
	tmp2y := (cy1-cy2)*3 + 1
	dfx := cx1*pre1 + tmp1x*pre2 + tmp2x*subdiv3
	dfy := cy1*pre1 + tmp1y*pre2 + tmp2y*subdiv3
	ddfx := tmp1x*pre4 + tmp2x*pre5
	ddfy := tmp1y*pre4 + tmp2y*pre5
	dddfx := tmp2x * pre5
	dddfy := tmp2y * pre5

	i := frame * bezierSize
	c.data[i] = curveBezier
	i++
	x, y := dfx, dfy
	for n := i + bezierSize - 1; i < n; i += 2 {
		c.data[i] = x
		c.data[i+1] = y
		dfx += ddfx
		dfy += ddfy
		ddfx += dddfx
		ddfy += dddfy
		x += dfx
		y += dfy
	}
}

// Percent maps a linear 0..1 position between two keyframes through the
// frame's curve.
func (c *curve) Percent(frame int, percent float32) float32 {
	percent = math.Clamp(percent, 0, 1)
	i := frame * bezierSize
	switch c.data[i] {
	case curveLinear:
		return percent
	case curveStepped:
		return 0
	}
	i++
	var x float32
	for start, n := i, i+bezierSize-1; i < n; i += 2 {
		x = c.data[i]
		if x >= percent {
			if i == start {
				return c.data[i+1] * percent / x
			}
			prevX, prevY := c.data[i-2], c.data[i-1]
			return prevY + (c.data[i+1]-prevY)*(percent-prevX)/(x-prevX)
		}
	}
	y := c.data[i-1]
	return y + (1-y)*(percent-x)/(1-x)
}
