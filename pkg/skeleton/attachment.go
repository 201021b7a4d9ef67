package skeleton

import "github.com/marrowkit/marrow/pkg/math"

// AttachmentKind identifies an attachment variant. The set is closed:
// it is fixed by the definition format and will not grow.
type AttachmentKind int

// Attachment variants.
const (
	AttachmentRegion AttachmentKind = iota
	AttachmentBoundingBox
	AttachmentMesh
	AttachmentLinkedMesh
	AttachmentPath
	AttachmentPoint
	AttachmentClipping
)

// String returns the variant name.
func (k AttachmentKind) String() string {
	switch k {
	case AttachmentRegion:
		return "region"
	case AttachmentBoundingBox:
		return "boundingbox"
	case AttachmentMesh:
		return "mesh"
	case AttachmentLinkedMesh:
		return "linkedmesh"
	case AttachmentPath:
		return "path"
	case AttachmentPoint:
		return "point"
	case AttachmentClipping:
		return "clipping"
	}
	return "unknown"
}

// Attachment is shared immutable geometry referenced by slots. A live
// slot holds the shared value, never a copy; attachments from the same
// Data may be referenced by many skeleton instances concurrently.
type Attachment interface {
	Kind() AttachmentKind
	AttachName() string
}

// VertexAttachment is the common vertex source for mesh, bounding box,
// path and clipping attachments. Vertices are either rigid (x,y pairs in
// the slot bone's coordinate space, Bones nil) or weighted (Bones holds
// per-vertex counts and bone indices, Vertices holds x,y,weight triples
// in each influencing bone's space).
type VertexAttachment struct {
	Name                string
	Bones               []int32
	Vertices            []float32
	WorldVerticesLength int
}

// AttachName returns the attachment name.
func (v *VertexAttachment) AttachName() string { return v.Name }

// ComputeWorldVertices writes count world-space floats for vertices
// starting at start (both counted in floats, so x,y pairs are 2 each)
// into out at offset with the given stride. The slot's deform buffer,
// when non-empty, replaces or offsets the authored vertices.
//
// This is the per-vertex skinning kernel; it runs for every vertex of
// every deformed attachment every frame.
func (v *VertexAttachment) ComputeWorldVertices(skel *Skeleton, slot *Slot, start, count int, out []float32, offset, stride int) {
	count = offset + (count>>1)*stride
	deform := slot.Deform

	if v.Bones == nil {
		vertices := v.Vertices
		if len(deform) > 0 {
			vertices = deform
		}
		bone := &skel.Bones[slot.Data.Bone]
		w := bone.World
		for vv, o := start, offset; o < count; vv, o = vv+2, o+stride {
			vx, vy := vertices[vv], vertices[vv+1]
			out[o] = w.A*vx + w.B*vy + w.X
			out[o+1] = w.C*vx + w.D*vy + w.Y
		}
		return
	}

	bones := v.Bones
	vertices := v.Vertices

	// Skip whole vertices to reach start.
	vi, bi := 0, 0
	for i := 0; i < start; i += 2 {
		n := int(bones[bi])
		bi += n + 1
		vi += n * 3
	}

	if len(deform) == 0 {
		for o := offset; o < count; o += stride {
			wx, wy := float32(0), float32(0)
			n := int(bones[bi])
			bi++
			for j := 0; j < n; j++ {
				w := &skel.Bones[bones[bi]].World
				vx, vy, weight := vertices[vi], vertices[vi+1], vertices[vi+2]
				wx += (w.A*vx + w.B*vy + w.X) * weight
				wy += (w.C*vx + w.D*vy + w.Y) * weight
				bi++
				vi += 3
			}
			out[o] = wx
			out[o+1] = wy
		}
		return
	}

	// Deform entries are x,y offsets per weighted influence, matching the
	// layout of Vertices without the weight component.
	df := (vi / 3) * 2
	for o := offset; o < count; o += stride {
		wx, wy := float32(0), float32(0)
		n := int(bones[bi])
		bi++
		for j := 0; j < n; j++ {
			w := &skel.Bones[bones[bi]].World
			vx := vertices[vi] + deform[df]
			vy := vertices[vi+1] + deform[df+1]
			weight := vertices[vi+2]
			wx += (w.A*vx + w.B*vy + w.X) * weight
			wy += (w.C*vx + w.D*vy + w.Y) * weight
			bi++
			vi += 3
			df += 2
		}
		out[o] = wx
		out[o+1] = wy
	}
}

// RegionAttachment is a textured quad positioned relative to its slot's
// bone. The quad's four local corners are precomputed by UpdateOffset.
type RegionAttachment struct {
	Name     string
	Path     string
	X, Y     float32
	Rotation float32
	ScaleX   float32
	ScaleY   float32
	Width    float32
	Height   float32
	Color    Color

	// Offset holds the four local corners (x,y each) produced by
	// UpdateOffset; UVs holds the matching texture coordinates.
	Offset [8]float32
	UVs    [8]float32

	// Texture is an opaque handle resolved by the host renderer.
	Texture any
}

// Quad corner order used by Offset, UVs and the emitted quad indices.
const (
	QuadBLX = iota
	QuadBLY
	QuadULX
	QuadULY
	QuadURX
	QuadURY
	QuadBRX
	QuadBRY
)

// NewRegionAttachment returns a region attachment with neutral scale
// and color.
func NewRegionAttachment(name string) *RegionAttachment {
	return &RegionAttachment{Name: name, ScaleX: 1, ScaleY: 1, Color: White}
}

// Kind returns AttachmentRegion.
func (r *RegionAttachment) Kind() AttachmentKind { return AttachmentRegion }

// AttachName returns the attachment name.
func (r *RegionAttachment) AttachName() string { return r.Name }

// SetUVs fills the UV corners from an axis-aligned texture sub-rect.
// rotate flags a region stored rotated 90 degrees in the atlas.
func (r *RegionAttachment) SetUVs(u, v, u2, v2 float32, rotate bool) {
	if rotate {
		r.UVs = [8]float32{u2, v2, u, v2, u, v, u2, v}
		return
	}
	r.UVs = [8]float32{u, v2, u, v, u2, v, u2, v2}
}

// UpdateOffset recomputes the local quad corners from the attachment's
// transform. Call after changing position, rotation, scale or size.
func (r *RegionAttachment) UpdateOffset() {
	localX := -r.Width / 2 * r.ScaleX
	localY := -r.Height / 2 * r.ScaleY
	localX2 := -localX
	localY2 := -localY
	rad := r.Rotation * math.DegRad
	cos, sin := math.Cos(rad), math.Sin(rad)

	localXCos := localX*cos + r.X
	localXSin := localX * sin
	localYCos := localY*cos + r.Y
	localYSin := localY * sin
	localX2Cos := localX2*cos + r.X
	localX2Sin := localX2 * sin
	localY2Cos := localY2*cos + r.Y
	localY2Sin := localY2 * sin

	r.Offset[QuadBLX] = localXCos - localYSin
	r.Offset[QuadBLY] = localYCos + localXSin
	r.Offset[QuadULX] = localXCos - localY2Sin
	r.Offset[QuadULY] = localY2Cos + localXSin
	r.Offset[QuadURX] = localX2Cos - localY2Sin
	r.Offset[QuadURY] = localY2Cos + localX2Sin
	r.Offset[QuadBRX] = localX2Cos - localYSin
	r.Offset[QuadBRY] = localYCos + localX2Sin
}

// ComputeWorldVertices writes the four world-space quad corners into out
// (8 floats) by transforming Offset through the bone's world transform.
func (r *RegionAttachment) ComputeWorldVertices(bone *Bone, out []float32, offset, stride int) {
	w := bone.World
	for i, o := 0, offset; i < 8; i, o = i+2, o+stride {
		x, y := r.Offset[i], r.Offset[i+1]
		out[o] = w.A*x + w.B*y + w.X
		out[o+1] = w.C*x + w.D*y + w.Y
	}
}

// MeshAttachment is an authored triangle mesh, rigid or bone-weighted.
type MeshAttachment struct {
	VertexAttachment
	Path       string
	UVs        []float32
	Triangles  []uint16
	Color      Color
	HullLength int

	// Texture is an opaque handle resolved by the host renderer.
	Texture any
}

// NewMeshAttachment returns a mesh attachment with a white color.
func NewMeshAttachment(name string) *MeshAttachment {
	m := &MeshAttachment{Color: White}
	m.Name = name
	return m
}

// Kind returns AttachmentMesh.
func (m *MeshAttachment) Kind() AttachmentKind { return AttachmentMesh }

// LinkedMeshAttachment reuses another mesh's geometry under a different
// name, typically across skins. It owns no vertex data of its own.
type LinkedMeshAttachment struct {
	Name   string
	Source *MeshAttachment
}

// Kind returns AttachmentLinkedMesh.
func (l *LinkedMeshAttachment) Kind() AttachmentKind { return AttachmentLinkedMesh }

// AttachName returns the attachment name.
func (l *LinkedMeshAttachment) AttachName() string { return l.Name }

// BoundingBoxAttachment is a polygon consumed by hit-testing systems.
// It is never rendered.
type BoundingBoxAttachment struct {
	VertexAttachment
}

// Kind returns AttachmentBoundingBox.
func (b *BoundingBoxAttachment) Kind() AttachmentKind { return AttachmentBoundingBox }

// PathAttachment is a spline consumed by path constraints. It is never
// rendered.
type PathAttachment struct {
	VertexAttachment
	Lengths       []float32
	Closed        bool
	ConstantSpeed bool
}

// Kind returns AttachmentPath.
func (p *PathAttachment) Kind() AttachmentKind { return AttachmentPath }

// PointAttachment marks a single oriented point, used by hosts to spawn
// effects or query positions. It is never rendered.
type PointAttachment struct {
	Name     string
	X, Y     float32
	Rotation float32
}

// Kind returns AttachmentPoint.
func (p *PointAttachment) Kind() AttachmentKind { return AttachmentPoint }

// AttachName returns the attachment name.
func (p *PointAttachment) AttachName() string { return p.Name }

// ComputeWorldPosition returns the point transformed by the bone's world
// transform.
func (p *PointAttachment) ComputeWorldPosition(bone *Bone) math.Vec2 {
	return bone.World.Apply(math.Vec2{X: p.X, Y: p.Y})
}

// ClippingAttachment is a polygon that starts clipping in draw order.
// Clipping runs until EndSlot (or an empty polygon marker) is reached.
type ClippingAttachment struct {
	VertexAttachment
	EndSlot *SlotData
}

// Kind returns AttachmentClipping.
func (c *ClippingAttachment) Kind() AttachmentKind { return AttachmentClipping }
