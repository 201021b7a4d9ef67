// Package render turns a posed skeleton into flat renderable batches:
// world-space vertices, UVs, triangle indices and colors, clipped
// against any active clipping polygon, ready for rasterization by the
// host.
package render

import "github.com/marrowkit/marrow/pkg/skeleton"

// Clipper clips drawable triangles against the polygon of the active
// clipping attachment. It is a two-state machine driven in draw order:
// idle until a clipping attachment starts it, clipping until the end
// slot (or an end marker) stops it. Clipping never nests; a new clip
// polygon replaces the active one.
//
// All buffers are reused between slots and frames.
type Clipper struct {
	attachment *skeleton.ClippingAttachment
	polygon    []float32

	// Clipped output for the last ClipTriangles call.
	ClippedVertices  []float32
	ClippedUVs       []float32
	ClippedTriangles []uint16

	subject []float32
	output  []float32
}

// IsClipping reports whether a clip polygon is active.
func (c *Clipper) IsClipping() bool { return c.attachment != nil }

// ClipStart activates the clipping attachment on the given slot,
// computing its polygon's current world-space vertices. An attachment
// with no vertices is an end marker and stops clipping instead.
func (c *Clipper) ClipStart(skel *skeleton.Skeleton, slot *skeleton.Slot, clip *skeleton.ClippingAttachment) {
	if clip.WorldVerticesLength < 6 {
		c.ClipEnd()
		return
	}
	c.attachment = clip
	n := clip.WorldVerticesLength
	if cap(c.polygon) < n {
		c.polygon = make([]float32, n)
	}
	c.polygon = c.polygon[:n]
	clip.ComputeWorldVertices(skel, slot, 0, n, c.polygon, 0, 2)
	makeCounterClockwise(c.polygon)
}

// ClipEndWithSlot stops clipping after the active attachment's end slot
// has been drawn.
func (c *Clipper) ClipEndWithSlot(slot *skeleton.Slot) {
	if c.attachment != nil && c.attachment.EndSlot == slot.Data {
		c.ClipEnd()
	}
}

// ClipEnd deactivates clipping.
func (c *Clipper) ClipEnd() {
	c.attachment = nil
	c.polygon = c.polygon[:0]
}

// makeCounterClockwise reverses the polygon's vertex order in place if
// its signed area is negative, so the edge-side test in clipTriangle
// has a fixed orientation.
func makeCounterClockwise(poly []float32) {
	var area float32
	n := len(poly)
	for i := 0; i < n; i += 2 {
		x1, y1 := poly[i], poly[i+1]
		x2, y2 := poly[(i+2)%n], poly[(i+3)%n]
		area += x1*y2 - x2*y1
	}
	if area >= 0 {
		return
	}
	for i, j := 0, n-2; i < j; i, j = i+2, j-2 {
		poly[i], poly[j] = poly[j], poly[i]
		poly[i+1], poly[j+1] = poly[j+1], poly[i+1]
	}
}

// ClipTriangles clips each input triangle against the active polygon,
// fan-triangulating partially-clipped loops, and leaves the result in
// ClippedVertices, ClippedUVs and ClippedTriangles. Triangles fully
// inside pass through unchanged; triangles fully outside are dropped.
func (c *Clipper) ClipTriangles(vertices []float32, triangles []uint16, uvs []float32) {
	c.ClippedVertices = c.ClippedVertices[:0]
	c.ClippedUVs = c.ClippedUVs[:0]
	c.ClippedTriangles = c.ClippedTriangles[:0]

	index := uint16(0)
	for i := 0; i+2 < len(triangles); i += 3 {
		v1 := int(triangles[i]) << 1
		v2 := int(triangles[i+1]) << 1
		v3 := int(triangles[i+2]) << 1
		x1, y1 := vertices[v1], vertices[v1+1]
		x2, y2 := vertices[v2], vertices[v2+1]
		x3, y3 := vertices[v3], vertices[v3+1]

		clipped, inside := c.clipTriangle(x1, y1, x2, y2, x3, y3)
		if inside {
			c.ClippedVertices = append(c.ClippedVertices, x1, y1, x2, y2, x3, y3)
			c.ClippedUVs = append(c.ClippedUVs,
				uvs[v1], uvs[v1+1], uvs[v2], uvs[v2+1], uvs[v3], uvs[v3+1])
			c.ClippedTriangles = append(c.ClippedTriangles, index, index+1, index+2)
			index += 3
			continue
		}
		points := len(clipped) >> 1
		if points < 3 {
			continue
		}

		// Barycentric factors of the original triangle, for UV
		// interpolation at the clipped vertices.
		d0 := y2 - y3
		d1 := x3 - x2
		d2 := x1 - x3
		d4 := y3 - y1
		d := 1 / (d0*d2 + d1*(y1-y3))
		u1, v1f := uvs[v1], uvs[v1+1]
		u2, v2f := uvs[v2], uvs[v2+1]
		u3, v3f := uvs[v3], uvs[v3+1]

		start := index
		for j := 0; j < points; j++ {
			x, y := clipped[j*2], clipped[j*2+1]
			c.ClippedVertices = append(c.ClippedVertices, x, y)
			c0 := x - x3
			c1 := y - y3
			a := (d0*c0 + d1*c1) * d
			b := (d4*c0 + d2*c1) * d
			cc := 1 - a - b
			c.ClippedUVs = append(c.ClippedUVs, u1*a+u2*b+u3*cc, v1f*a+v2f*b+v3f*cc)
		}
		for j := 1; j < points-1; j++ {
			c.ClippedTriangles = append(c.ClippedTriangles,
				start, start+uint16(j), start+uint16(j)+1)
		}
		index += uint16(points)
	}
}

// clipTriangle runs Sutherland-Hodgman clipping of one triangle against
// the active polygon. It returns the clipped vertex loop, or
// inside=true when no polygon edge cut the triangle.
func (c *Clipper) clipTriangle(x1, y1, x2, y2, x3, y3 float32) ([]float32, bool) {
	subject := append(c.subject[:0], x1, y1, x2, y2, x3, y3)
	output := c.output[:0]
	poly := c.polygon
	n := len(poly)
	clipped := false

	for i := 0; i < n; i += 2 {
		ex1, ey1 := poly[i], poly[i+1]
		ex2, ey2 := poly[(i+2)%n], poly[(i+3)%n]
		edgeX, edgeY := ex2-ex1, ey2-ey1

		output = output[:0]
		m := len(subject)
		for j := 0; j < m; j += 2 {
			px, py := subject[j], subject[j+1]
			qx, qy := subject[(j+2)%m], subject[(j+3)%m]
			pSide := edgeX*(py-ey1) - edgeY*(px-ex1)
			qSide := edgeX*(qy-ey1) - edgeY*(qx-ex1)
			if pSide >= 0 {
				output = append(output, px, py)
				if qSide >= 0 {
					continue
				}
			} else if qSide < 0 {
				continue
			}
			// The edge from p to q crosses the clip line.
			clipped = true
			t := pSide / (pSide - qSide)
			output = append(output, px+(qx-px)*t, py+(qy-py)*t)
		}
		subject, output = append(subject[:0], output...), subject[:0]
		if len(subject) == 0 {
			break
		}
	}

	c.subject = subject
	c.output = output
	if !clipped && len(subject) >= 6 {
		return nil, true
	}
	return subject, false
}
