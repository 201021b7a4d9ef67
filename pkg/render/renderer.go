package render

import (
	"github.com/marrowkit/marrow/pkg/math"
	"github.com/marrowkit/marrow/pkg/skeleton"
)

// CullDirection is the front-face winding of emitted triangles.
type CullDirection int

// Winding directions.
const (
	CullClockwise CullDirection = iota
	CullCounterClockwise
)

// Renderable is one slot's flattened geometry: everything the host
// needs to rasterize it. Texture is an opaque handle the core never
// dereferences; DarkColor passes through unmodified for two-color tint
// blending by the consumer.
type Renderable struct {
	SlotIndex int
	Vertices  []math.Vec2
	UVs       []math.Vec2
	Indices   []uint16
	Color     skeleton.Color
	DarkColor skeleton.Color
	BlendMode skeleton.BlendMode
	Texture   any
}

// quadIndices triangulates the region quad corner order.
var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

// Renderer walks a skeleton's slots in draw order and emits one
// renderable batch per drawable slot, consulting the clipper for the
// active clip polygon. PremultipliedAlpha and CullDirection apply
// uniformly to every emitted color and triangle winding.
type Renderer struct {
	PremultipliedAlpha bool
	CullDirection      CullDirection

	world []float32 // scratch world-vertex buffer
}

// Render emits the renderable batches for the skeleton's current pose.
// World transforms must be up to date.
func (r *Renderer) Render(skel *skeleton.Skeleton, clipper *Clipper) []Renderable {
	renderables := make([]Renderable, 0, len(skel.DrawOrder))

	for _, slotIndex := range skel.DrawOrder {
		slot := &skel.Slots[slotIndex]
		attachment := slot.Attachment()
		if attachment == nil {
			clipper.ClipEndWithSlot(slot)
			continue
		}

		var (
			vertices  []float32
			uvs       []float32
			triangles []uint16
			attColor  skeleton.Color
			texture   any
		)
		switch a := attachment.(type) {
		case *skeleton.ClippingAttachment:
			clipper.ClipStart(skel, slot, a)
			continue
		case *skeleton.RegionAttachment:
			r.world = ensure(r.world, 8)
			a.ComputeWorldVertices(&skel.Bones[slot.Data.Bone], r.world, 0, 2)
			vertices = r.world[:8]
			uvs = a.UVs[:]
			triangles = quadIndices
			attColor = a.Color
			texture = a.Texture
		case *skeleton.MeshAttachment:
			n := a.WorldVerticesLength
			r.world = ensure(r.world, n)
			a.ComputeWorldVertices(skel, slot, 0, n, r.world, 0, 2)
			vertices = r.world[:n]
			uvs = a.UVs
			triangles = a.Triangles
			attColor = a.Color
			texture = a.Texture
		case *skeleton.LinkedMeshAttachment:
			src := a.Source
			if src == nil {
				clipper.ClipEndWithSlot(slot)
				continue
			}
			n := src.WorldVerticesLength
			r.world = ensure(r.world, n)
			src.ComputeWorldVertices(skel, slot, 0, n, r.world, 0, 2)
			vertices = r.world[:n]
			uvs = src.UVs
			triangles = src.Triangles
			attColor = src.Color
			texture = src.Texture
		default:
			// BoundingBox, Path and Point are consumed by other
			// systems, never rendered.
			clipper.ClipEndWithSlot(slot)
			continue
		}

		color := skel.Color.Mul(slot.Color).Mul(attColor)
		if color.A == 0 {
			clipper.ClipEndWithSlot(slot)
			continue
		}

		if clipper.IsClipping() {
			clipper.ClipTriangles(vertices, triangles, uvs)
			vertices = clipper.ClippedVertices
			uvs = clipper.ClippedUVs
			triangles = clipper.ClippedTriangles
			if len(triangles) == 0 {
				clipper.ClipEndWithSlot(slot)
				continue
			}
		}

		if r.PremultipliedAlpha {
			color = color.Premultiplied()
		}
		dark := skeleton.Color{A: 1}
		if slot.Dark != nil {
			dark = *slot.Dark
		}

		renderables = append(renderables, Renderable{
			SlotIndex: slotIndex,
			Vertices:  packVec2(vertices),
			UVs:       packVec2(uvs),
			Indices:   r.windIndices(triangles),
			Color:     color,
			DarkColor: dark,
			BlendMode: slot.Data.Blend,
			Texture:   texture,
		})
		clipper.ClipEndWithSlot(slot)
	}

	clipper.ClipEnd()
	return renderables
}

// windIndices copies the triangle list, reversing each triangle's
// winding for counterclockwise front faces.
func (r *Renderer) windIndices(triangles []uint16) []uint16 {
	out := make([]uint16, len(triangles))
	if r.CullDirection == CullClockwise {
		copy(out, triangles)
		return out
	}
	for i := 0; i+2 < len(triangles); i += 3 {
		out[i] = triangles[i]
		out[i+1] = triangles[i+2]
		out[i+2] = triangles[i+1]
	}
	return out
}

func packVec2(flat []float32) []math.Vec2 {
	out := make([]math.Vec2, len(flat)/2)
	for i := range out {
		out[i] = math.Vec2{X: flat[i*2], Y: flat[i*2+1]}
	}
	return out
}

func ensure(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}
