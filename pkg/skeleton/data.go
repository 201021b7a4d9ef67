// Package skeleton holds the immutable skeleton definition tables and the
// mutable per-instance pose state: bones, slots, skins and attachments.
//
// A Data value is produced once by an external loader, validated, and then
// shared read-only between any number of Skeleton instances. All hot-path
// cross-references are stable integer indices into the Data arrays; name
// lookups exist only at the API edge and report failure instead of
// panicking, since names are usually driven by external data.
package skeleton

import (
	"errors"
	"fmt"
)

// Definition errors.
var (
	// ErrNotFound is returned by name lookups for bones, slots, skins,
	// animations and attachments.
	ErrNotFound = errors.New("not found")

	// ErrMalformedGeometry is returned by Data.Validate when attachment
	// geometry references out-of-range vertices or bones. It is a
	// load-time error; the runtime trusts validated Data.
	ErrMalformedGeometry = errors.New("malformed geometry")
)

// BlendMode controls how a slot's triangles are composited.
type BlendMode int

// Slot blend modes.
const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendAdditive:
		return "additive"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	}
	return fmt.Sprintf("blend(%d)", int(m))
}

// BoneData is the immutable definition of one bone: its place in the
// hierarchy and its setup-pose local transform.
type BoneData struct {
	Index  int
	Name   string
	Parent int // index into Data.Bones, -1 for the root
	Length float32

	// Setup-pose local transform.
	X, Y           float32
	Rotation       float32 // degrees
	ScaleX, ScaleY float32
	ShearX, ShearY float32

	InheritRotation bool
	InheritScale    bool
}

// SlotData is the immutable definition of one slot. The position of a
// SlotData in Data.Slots is the setup draw order.
type SlotData struct {
	Index          int
	Name           string
	Bone           int // index into Data.Bones
	AttachmentName string
	Color          Color
	Dark           *Color // nil unless the slot uses two-color tint
	Blend          BlendMode
}

// EventData is the immutable definition of a user event keyed in an
// animation's event timeline.
type EventData struct {
	Name        string
	IntValue    int32
	FloatValue  float32
	StringValue string
	AudioPath   string
	Volume      float32
	Balance     float32
}

// Data is the immutable skeleton definition shared by all Skeleton
// instances built from it. Bones are ordered so that every parent
// precedes its children (a topological sort of the parent relation),
// which makes world-transform propagation a single forward walk.
type Data struct {
	Hash    string
	Version string

	X, Y          float32
	Width, Height float32

	Bones       []*BoneData
	Slots       []*SlotData
	Skins       []*Skin
	DefaultSkin *Skin
	Events      []*EventData
	IK          []*IKConstraintData
}

// NewBoneData returns a BoneData with neutral setup transform defaults.
func NewBoneData(index int, name string, parent int) *BoneData {
	return &BoneData{
		Index:           index,
		Name:            name,
		Parent:          parent,
		ScaleX:          1,
		ScaleY:          1,
		InheritRotation: true,
		InheritScale:    true,
	}
}

// NewSlotData returns a SlotData with a white setup color.
func NewSlotData(index int, name string, bone int) *SlotData {
	return &SlotData{Index: index, Name: name, Bone: bone, Color: White}
}

// FindBone returns the bone definition with the given name.
func (d *Data) FindBone(name string) (*BoneData, bool) {
	for _, b := range d.Bones {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// FindSlot returns the slot definition with the given name.
func (d *Data) FindSlot(name string) (*SlotData, bool) {
	for _, s := range d.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// FindSkin returns the skin with the given name.
func (d *Data) FindSkin(name string) (*Skin, bool) {
	for _, s := range d.Skins {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// FindEvent returns the event definition with the given name.
func (d *Data) FindEvent(name string) (*EventData, bool) {
	for _, e := range d.Events {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Validate checks attachment geometry against the definition tables:
// mesh triangle indices must address authored vertices and weighted
// vertices must reference declared bones. Loaders call this once after
// building a Data; the runtime never re-checks.
func (d *Data) Validate() error {
	skins := d.Skins
	if d.DefaultSkin != nil {
		found := false
		for _, s := range skins {
			if s == d.DefaultSkin {
				found = true
				break
			}
		}
		if !found {
			skins = append(append([]*Skin(nil), skins...), d.DefaultSkin)
		}
	}
	for _, skin := range skins {
		for key, att := range skin.attachments {
			if key.slot < 0 || key.slot >= len(d.Slots) {
				return fmt.Errorf("skin %q: attachment %q on slot %d: %w: slot out of range",
					skin.Name, key.name, key.slot, ErrMalformedGeometry)
			}
			if err := d.validateAttachment(att); err != nil {
				return fmt.Errorf("skin %q: attachment %q: %w", skin.Name, key.name, err)
			}
		}
	}
	return nil
}

func (d *Data) validateAttachment(att Attachment) error {
	switch a := att.(type) {
	case *MeshAttachment:
		vertexCount := a.WorldVerticesLength / 2
		for _, idx := range a.Triangles {
			if int(idx) >= vertexCount {
				return fmt.Errorf("%w: triangle index %d exceeds %d vertices",
					ErrMalformedGeometry, idx, vertexCount)
			}
		}
		return d.validateVertices(&a.VertexAttachment)
	case *LinkedMeshAttachment:
		if a.Source == nil {
			return fmt.Errorf("%w: linked mesh without source", ErrMalformedGeometry)
		}
		return d.validateAttachment(a.Source)
	case *ClippingAttachment:
		return d.validateVertices(&a.VertexAttachment)
	case *BoundingBoxAttachment:
		return d.validateVertices(&a.VertexAttachment)
	case *PathAttachment:
		return d.validateVertices(&a.VertexAttachment)
	}
	return nil
}

func (d *Data) validateVertices(v *VertexAttachment) error {
	if v.Bones == nil {
		if len(v.Vertices) < v.WorldVerticesLength {
			return fmt.Errorf("%w: %d vertex floats, need %d",
				ErrMalformedGeometry, len(v.Vertices), v.WorldVerticesLength)
		}
		return nil
	}
	for i := 0; i < len(v.Bones); {
		n := int(v.Bones[i])
		i++
		for j := 0; j < n; j++ {
			if i >= len(v.Bones) {
				return fmt.Errorf("%w: truncated bone list", ErrMalformedGeometry)
			}
			bone := int(v.Bones[i])
			if bone < 0 || bone >= len(d.Bones) {
				return fmt.Errorf("%w: vertex bone %d out of range", ErrMalformedGeometry, bone)
			}
			i++
		}
	}
	return nil
}
