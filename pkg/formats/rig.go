// Package formats parses external rig documents into the runtime's
// definition tables. A rig document is a versioned YAML file carrying
// the full skeleton definition (bones, slots, events, constraints,
// skins) plus its animations and mixing configuration; ParseRig turns
// one into shareable skeleton.Data and an animation library in a single
// validated pass.
package formats

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marrowkit/marrow/pkg/animation"
	"github.com/marrowkit/marrow/pkg/skeleton"
)

// Rig document errors.
var (
	ErrUnsupportedRigVersion = errors.New("unsupported rig document version")
	ErrMalformedRig          = errors.New("malformed rig document")
)

// RigVersion is the document version this parser accepts.
const RigVersion = 1

// Rig is a fully resolved rig document: the definition tables plus the
// mixing configuration authored alongside them.
type Rig struct {
	Data       *skeleton.Data
	Animations *animation.Library
	StateData  *animation.StateData
}

// LoadRig reads and parses a rig document from disk.
func LoadRig(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rig document: %w", err)
	}
	rig, err := ParseRig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rig, nil
}

// ParseRig parses a rig document from raw bytes. The returned Data has
// passed Validate; geometry errors surface as ErrMalformedGeometry.
func ParseRig(raw []byte) (*Rig, error) {
	var doc rigDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRig, err)
	}
	if doc.Version != RigVersion {
		return nil, fmt.Errorf("%w: got %d, want %d",
			ErrUnsupportedRigVersion, doc.Version, RigVersion)
	}

	b := &rigBuilder{
		doc:    &doc,
		bones:  make(map[string]int, len(doc.Bones)),
		slots:  make(map[string]int, len(doc.Slots)),
		events: make(map[string]*skeleton.EventData, len(doc.Events)),
	}
	data, err := b.buildData()
	if err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	library, err := b.buildAnimations(data)
	if err != nil {
		return nil, err
	}

	stateData := animation.NewStateData(library)
	stateData.DefaultMix = doc.Mixes.Default
	for _, m := range doc.Mixes.Pairs {
		if err := stateData.SetMixByName(m.From, m.To, m.Duration); err != nil {
			return nil, fmt.Errorf("%w: mix pair: %v", ErrMalformedRig, err)
		}
	}
	return &Rig{Data: data, Animations: library, StateData: stateData}, nil
}

// Document schema. Field defaults that differ from the zero value
// (scale 1, inherit flags, white colors) use pointers so an omitted key
// is distinguishable from an explicit zero.

type rigDoc struct {
	Version     int            `yaml:"version"`
	Name        string         `yaml:"name"`
	Bones       []boneDoc      `yaml:"bones"`
	Slots       []slotDoc      `yaml:"slots"`
	Events      []eventDoc     `yaml:"events"`
	IK          []ikDoc        `yaml:"ik"`
	Skins       []skinDoc      `yaml:"skins"`
	DefaultSkin string         `yaml:"defaultSkin"`
	Animations  []animationDoc `yaml:"animations"`
	Mixes       mixesDoc       `yaml:"mixes"`
}

type boneDoc struct {
	Name            string   `yaml:"name"`
	Parent          string   `yaml:"parent"`
	Length          float32  `yaml:"length"`
	X               float32  `yaml:"x"`
	Y               float32  `yaml:"y"`
	Rotation        float32  `yaml:"rotation"`
	ScaleX          *float32 `yaml:"scaleX"`
	ScaleY          *float32 `yaml:"scaleY"`
	ShearX          float32  `yaml:"shearX"`
	ShearY          float32  `yaml:"shearY"`
	InheritRotation *bool    `yaml:"inheritRotation"`
	InheritScale    *bool    `yaml:"inheritScale"`
}

type slotDoc struct {
	Name       string    `yaml:"name"`
	Bone       string    `yaml:"bone"`
	Attachment string    `yaml:"attachment"`
	Color      []float32 `yaml:"color"`
	Dark       []float32 `yaml:"dark"`
	Blend      string    `yaml:"blend"`
}

type eventDoc struct {
	Name    string  `yaml:"name"`
	Int     int32   `yaml:"int"`
	Float   float32 `yaml:"float"`
	String  string  `yaml:"string"`
	Audio   string  `yaml:"audio"`
	Volume  float32 `yaml:"volume"`
	Balance float32 `yaml:"balance"`
}

type ikDoc struct {
	Name   string  `yaml:"name"`
	Bone   string  `yaml:"bone"`
	Target string  `yaml:"target"`
	Mix    float32 `yaml:"mix"`
}

type skinDoc struct {
	Name        string          `yaml:"name"`
	Attachments []attachmentDoc `yaml:"attachments"`
}

type attachmentDoc struct {
	Slot string `yaml:"slot"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Region fields.
	X        float32   `yaml:"x"`
	Y        float32   `yaml:"y"`
	Rotation float32   `yaml:"rotation"`
	ScaleX   *float32  `yaml:"scaleX"`
	ScaleY   *float32  `yaml:"scaleY"`
	Width    float32   `yaml:"width"`
	Height   float32   `yaml:"height"`
	UV       []float32 `yaml:"uv"` // u, v, u2, v2
	Rotated  bool      `yaml:"rotated"`

	// Mesh and other vertex-attachment fields. Weighted meshes carry
	// the packed bones/vertices arrays the runtime stores.
	Vertices  []float32 `yaml:"vertices"`
	Bones     []int32   `yaml:"bones"`
	UVs       []float32 `yaml:"uvs"`
	Triangles []uint16  `yaml:"triangles"`
	Hull      int       `yaml:"hull"`
	Source    string    `yaml:"source"` // linked mesh source attachment

	// Clipping.
	End string `yaml:"end"` // end slot name

	// Path spline.
	Lengths       []float32 `yaml:"lengths"`
	Closed        bool      `yaml:"closed"`
	ConstantSpeed bool      `yaml:"constantSpeed"`

	Color   []float32 `yaml:"color"`
	Path    string    `yaml:"path"`
	Texture string    `yaml:"texture"`
}

type animationDoc struct {
	Name      string        `yaml:"name"`
	Timelines []timelineDoc `yaml:"timelines"`
}

type timelineDoc struct {
	Type       string     `yaml:"type"`
	Bone       string     `yaml:"bone"`
	Slot       string     `yaml:"slot"`
	IK         string     `yaml:"ik"`
	Attachment string     `yaml:"attachment"` // deform target
	Frames     []frameDoc `yaml:"frames"`
}

type frameDoc struct {
	Time  float32    `yaml:"time"`
	Value float32    `yaml:"value"` // rotate degrees, ik mix
	X     float32    `yaml:"x"`
	Y     float32    `yaml:"y"`
	Color []float32  `yaml:"color"`
	Dark  []float32  `yaml:"dark"`
	Name  string     `yaml:"name"`  // attachment name, empty clears
	Order []string   `yaml:"order"` // draw order slot names, empty = setup
	Event string     `yaml:"event"`
	Verts []float32  `yaml:"vertices"` // deform
	Curve *curveSpec `yaml:"curve"`
}

type mixesDoc struct {
	Default float32  `yaml:"default"`
	Pairs   []mixDoc `yaml:"pairs"`
}

type mixDoc struct {
	From     string  `yaml:"from"`
	To       string  `yaml:"to"`
	Duration float32 `yaml:"duration"`
}

// curveSpec is either the scalar "stepped" or a four-value bezier
// control sequence [cx1, cy1, cx2, cy2].
type curveSpec struct {
	stepped bool
	bezier  []float32
}

func (c *curveSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Value == "stepped" {
			c.stepped = true
			return nil
		}
		return fmt.Errorf("%w: unknown curve %q", ErrMalformedRig, node.Value)
	}
	var vals []float32
	if err := node.Decode(&vals); err != nil {
		return fmt.Errorf("%w: curve: %v", ErrMalformedRig, err)
	}
	if len(vals) != 4 {
		return fmt.Errorf("%w: bezier curve needs 4 control values, got %d",
			ErrMalformedRig, len(vals))
	}
	c.bezier = vals
	return nil
}

// curveTimeline is satisfied by every interpolating timeline.
type curveTimeline interface {
	SetStepped(frame int)
	SetBezier(frame int, cx1, cy1, cx2, cy2 float32)
}

func applyCurve(t curveTimeline, frame int, spec *curveSpec) {
	if spec == nil {
		return
	}
	if spec.stepped {
		t.SetStepped(frame)
		return
	}
	t.SetBezier(frame, spec.bezier[0], spec.bezier[1], spec.bezier[2], spec.bezier[3])
}

type rigBuilder struct {
	doc    *rigDoc
	bones  map[string]int
	slots  map[string]int
	events map[string]*skeleton.EventData
	skins  []*skeleton.Skin
}

func (b *rigBuilder) boneIndex(name string) (int, error) {
	if i, ok := b.bones[name]; ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: unknown bone %q", ErrMalformedRig, name)
}

func (b *rigBuilder) slotIndex(name string) (int, error) {
	if i, ok := b.slots[name]; ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: unknown slot %q", ErrMalformedRig, name)
}

func (b *rigBuilder) buildData() (*skeleton.Data, error) {
	doc := b.doc
	if len(doc.Bones) == 0 {
		return nil, fmt.Errorf("%w: no bones", ErrMalformedRig)
	}

	data := &skeleton.Data{Version: fmt.Sprintf("%d", doc.Version)}

	for i, bd := range doc.Bones {
		if bd.Name == "" {
			return nil, fmt.Errorf("%w: bone %d has no name", ErrMalformedRig, i)
		}
		if _, dup := b.bones[bd.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate bone %q", ErrMalformedRig, bd.Name)
		}
		parent := -1
		if bd.Parent != "" {
			// Parents must precede children, which also rules out cycles.
			p, err := b.boneIndex(bd.Parent)
			if err != nil {
				return nil, fmt.Errorf("bone %q: %w", bd.Name, err)
			}
			parent = p
		} else if i != 0 {
			return nil, fmt.Errorf("%w: bone %q has no parent", ErrMalformedRig, bd.Name)
		}
		bone := skeleton.NewBoneData(i, bd.Name, parent)
		bone.Length = bd.Length
		bone.X, bone.Y = bd.X, bd.Y
		bone.Rotation = bd.Rotation
		bone.ShearX, bone.ShearY = bd.ShearX, bd.ShearY
		if bd.ScaleX != nil {
			bone.ScaleX = *bd.ScaleX
		}
		if bd.ScaleY != nil {
			bone.ScaleY = *bd.ScaleY
		}
		if bd.InheritRotation != nil {
			bone.InheritRotation = *bd.InheritRotation
		}
		if bd.InheritScale != nil {
			bone.InheritScale = *bd.InheritScale
		}
		b.bones[bd.Name] = i
		data.Bones = append(data.Bones, bone)
	}

	for i, sd := range doc.Slots {
		if _, dup := b.slots[sd.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate slot %q", ErrMalformedRig, sd.Name)
		}
		boneIdx, err := b.boneIndex(sd.Bone)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", sd.Name, err)
		}
		slot := skeleton.NewSlotData(i, sd.Name, boneIdx)
		slot.AttachmentName = sd.Attachment
		if slot.Color, err = colorFrom(sd.Color, skeleton.White); err != nil {
			return nil, fmt.Errorf("slot %q: %w", sd.Name, err)
		}
		if len(sd.Dark) > 0 {
			dark, err := colorFrom(sd.Dark, skeleton.Color{})
			if err != nil {
				return nil, fmt.Errorf("slot %q: %w", sd.Name, err)
			}
			slot.Dark = &dark
		}
		if slot.Blend, err = blendFrom(sd.Blend); err != nil {
			return nil, fmt.Errorf("slot %q: %w", sd.Name, err)
		}
		b.slots[sd.Name] = i
		data.Slots = append(data.Slots, slot)
	}

	for _, ed := range doc.Events {
		event := &skeleton.EventData{
			Name:        ed.Name,
			IntValue:    ed.Int,
			FloatValue:  ed.Float,
			StringValue: ed.String,
			AudioPath:   ed.Audio,
			Volume:      ed.Volume,
			Balance:     ed.Balance,
		}
		b.events[ed.Name] = event
		data.Events = append(data.Events, event)
	}

	for order, id := range doc.IK {
		boneIdx, err := b.boneIndex(id.Bone)
		if err != nil {
			return nil, fmt.Errorf("ik %q: %w", id.Name, err)
		}
		targetIdx, err := b.boneIndex(id.Target)
		if err != nil {
			return nil, fmt.Errorf("ik %q: %w", id.Name, err)
		}
		data.IK = append(data.IK, &skeleton.IKConstraintData{
			Name:       id.Name,
			OrderIndex: order,
			Bone:       boneIdx,
			Target:     targetIdx,
			Mix:        id.Mix,
		})
	}

	for _, sk := range doc.Skins {
		skin, err := b.buildSkin(data, &sk)
		if err != nil {
			return nil, err
		}
		b.skins = append(b.skins, skin)
		data.Skins = append(data.Skins, skin)
	}
	defaultName := doc.DefaultSkin
	if defaultName == "" {
		defaultName = "default"
	}
	if skin, ok := data.FindSkin(defaultName); ok {
		data.DefaultSkin = skin
	} else if len(data.Skins) > 0 {
		return nil, fmt.Errorf("%w: default skin %q not defined", ErrMalformedRig, defaultName)
	}

	return data, nil
}

func (b *rigBuilder) buildSkin(data *skeleton.Data, doc *skinDoc) (*skeleton.Skin, error) {
	skin := skeleton.NewSkin(doc.Name)
	// Linked meshes resolve against earlier entries, so order matters
	// within a skin: sources first.
	for _, ad := range doc.Attachments {
		slotIdx, err := b.slotIndex(ad.Slot)
		if err != nil {
			return nil, fmt.Errorf("skin %q: %w", doc.Name, err)
		}
		attachment, err := b.buildAttachment(data, skin, slotIdx, &ad)
		if err != nil {
			return nil, fmt.Errorf("skin %q: %w", doc.Name, err)
		}
		skin.Set(slotIdx, ad.Name, attachment)
	}
	return skin, nil
}

func (b *rigBuilder) buildAttachment(data *skeleton.Data, skin *skeleton.Skin, slotIdx int, doc *attachmentDoc) (skeleton.Attachment, error) {
	switch doc.Type {
	case "region", "":
		r := skeleton.NewRegionAttachment(doc.Name)
		r.Path = doc.Path
		r.X, r.Y = doc.X, doc.Y
		r.Rotation = doc.Rotation
		if doc.ScaleX != nil {
			r.ScaleX = *doc.ScaleX
		}
		if doc.ScaleY != nil {
			r.ScaleY = *doc.ScaleY
		}
		r.Width, r.Height = doc.Width, doc.Height
		var err error
		if r.Color, err = colorFrom(doc.Color, skeleton.White); err != nil {
			return nil, fmt.Errorf("attachment %q: %w", doc.Name, err)
		}
		if doc.Texture != "" {
			r.Texture = doc.Texture
		}
		switch len(doc.UV) {
		case 0:
			r.SetUVs(0, 0, 1, 1, doc.Rotated)
		case 4:
			r.SetUVs(doc.UV[0], doc.UV[1], doc.UV[2], doc.UV[3], doc.Rotated)
		default:
			return nil, fmt.Errorf("%w: attachment %q: uv needs 4 values, got %d",
				ErrMalformedRig, doc.Name, len(doc.UV))
		}
		r.UpdateOffset()
		return r, nil

	case "mesh":
		m := skeleton.NewMeshAttachment(doc.Name)
		m.Path = doc.Path
		m.Vertices = doc.Vertices
		m.Bones = doc.Bones
		m.WorldVerticesLength = meshWorldLength(doc)
		m.UVs = doc.UVs
		m.Triangles = doc.Triangles
		m.HullLength = doc.Hull
		var err error
		if m.Color, err = colorFrom(doc.Color, skeleton.White); err != nil {
			return nil, fmt.Errorf("attachment %q: %w", doc.Name, err)
		}
		if doc.Texture != "" {
			m.Texture = doc.Texture
		}
		return m, nil

	case "linkedmesh":
		source, ok := skin.Get(slotIdx, doc.Source)
		if !ok {
			return nil, fmt.Errorf("%w: attachment %q: unknown source mesh %q",
				ErrMalformedRig, doc.Name, doc.Source)
		}
		mesh, ok := source.(*skeleton.MeshAttachment)
		if !ok {
			return nil, fmt.Errorf("%w: attachment %q: source %q is not a mesh",
				ErrMalformedRig, doc.Name, doc.Source)
		}
		l := &skeleton.LinkedMeshAttachment{Source: mesh}
		l.Name = doc.Name
		return l, nil

	case "boundingbox":
		a := &skeleton.BoundingBoxAttachment{}
		a.Name = doc.Name
		a.Vertices = doc.Vertices
		a.Bones = doc.Bones
		a.WorldVerticesLength = meshWorldLength(doc)
		return a, nil

	case "point":
		p := &skeleton.PointAttachment{Name: doc.Name, X: doc.X, Y: doc.Y, Rotation: doc.Rotation}
		return p, nil

	case "path":
		a := &skeleton.PathAttachment{
			Lengths:       doc.Lengths,
			Closed:        doc.Closed,
			ConstantSpeed: doc.ConstantSpeed,
		}
		a.Name = doc.Name
		a.Vertices = doc.Vertices
		a.Bones = doc.Bones
		a.WorldVerticesLength = meshWorldLength(doc)
		return a, nil

	case "clipping":
		endIdx, err := b.slotIndex(doc.End)
		if err != nil {
			return nil, fmt.Errorf("attachment %q end slot: %w", doc.Name, err)
		}
		c := &skeleton.ClippingAttachment{EndSlot: data.Slots[endIdx]}
		c.Name = doc.Name
		c.Vertices = doc.Vertices
		c.Bones = doc.Bones
		c.WorldVerticesLength = meshWorldLength(doc)
		return c, nil
	}
	return nil, fmt.Errorf("%w: attachment %q: unknown type %q",
		ErrMalformedRig, doc.Name, doc.Type)
}

// meshWorldLength derives the world-vertex float count: for rigid
// attachments it equals the authored vertex count, for weighted ones
// each packed vertex contributes one x,y pair.
func meshWorldLength(doc *attachmentDoc) int {
	if doc.Bones == nil {
		return len(doc.Vertices)
	}
	n := 0
	for i := 0; i < len(doc.Bones); {
		count := int(doc.Bones[i])
		i += 1 + count
		n += 2
	}
	return n
}

func (b *rigBuilder) buildAnimations(data *skeleton.Data) (*animation.Library, error) {
	library := animation.NewLibrary()
	for _, ad := range b.doc.Animations {
		timelines := make([]animation.Timeline, 0, len(ad.Timelines))
		for i := range ad.Timelines {
			tl, err := b.buildTimeline(data, &ad.Timelines[i])
			if err != nil {
				return nil, fmt.Errorf("animation %q: %w", ad.Name, err)
			}
			timelines = append(timelines, tl)
		}
		library.Register(animation.New(ad.Name, timelines))
	}
	return library, nil
}

func (b *rigBuilder) buildTimeline(data *skeleton.Data, doc *timelineDoc) (animation.Timeline, error) {
	n := len(doc.Frames)
	if n == 0 {
		return nil, fmt.Errorf("%w: %s timeline with no frames", ErrMalformedRig, doc.Type)
	}

	switch doc.Type {
	case "rotate":
		boneIdx, err := b.boneIndex(doc.Bone)
		if err != nil {
			return nil, err
		}
		tl := animation.NewRotateTimeline(boneIdx, n)
		for i, f := range doc.Frames {
			tl.SetFrame(i, f.Time, f.Value)
			applyCurve(tl, i, f.Curve)
		}
		return tl, nil

	case "translate", "scale", "shear":
		boneIdx, err := b.boneIndex(doc.Bone)
		if err != nil {
			return nil, err
		}
		var tl animation.Timeline
		var set func(int, float32, float32, float32)
		var ct curveTimeline
		switch doc.Type {
		case "translate":
			t := animation.NewTranslateTimeline(boneIdx, n)
			tl, set, ct = t, t.SetFrame, t
		case "scale":
			t := animation.NewScaleTimeline(boneIdx, n)
			tl, set, ct = t, t.SetFrame, t
		default:
			t := animation.NewShearTimeline(boneIdx, n)
			tl, set, ct = t, t.SetFrame, t
		}
		for i, f := range doc.Frames {
			set(i, f.Time, f.X, f.Y)
			applyCurve(ct, i, f.Curve)
		}
		return tl, nil

	case "color":
		slotIdx, err := b.slotIndex(doc.Slot)
		if err != nil {
			return nil, err
		}
		tl := animation.NewColorTimeline(slotIdx, n)
		for i, f := range doc.Frames {
			c, err := colorFrom(f.Color, skeleton.White)
			if err != nil {
				return nil, err
			}
			tl.SetFrame(i, f.Time, c)
			applyCurve(tl, i, f.Curve)
		}
		return tl, nil

	case "twocolor":
		slotIdx, err := b.slotIndex(doc.Slot)
		if err != nil {
			return nil, err
		}
		tl := animation.NewTwoColorTimeline(slotIdx, n)
		for i, f := range doc.Frames {
			light, err := colorFrom(f.Color, skeleton.White)
			if err != nil {
				return nil, err
			}
			dark, err := colorFrom(f.Dark, skeleton.Color{A: 1})
			if err != nil {
				return nil, err
			}
			tl.SetFrame(i, f.Time, light, dark)
			applyCurve(tl, i, f.Curve)
		}
		return tl, nil

	case "attachment":
		slotIdx, err := b.slotIndex(doc.Slot)
		if err != nil {
			return nil, err
		}
		tl := animation.NewAttachmentTimeline(slotIdx, n)
		for i, f := range doc.Frames {
			tl.SetFrame(i, f.Time, f.Name)
		}
		return tl, nil

	case "deform":
		slotIdx, err := b.slotIndex(doc.Slot)
		if err != nil {
			return nil, err
		}
		target, err := b.vertexTarget(data, slotIdx, doc.Attachment)
		if err != nil {
			return nil, err
		}
		tl := animation.NewDeformTimeline(slotIdx, target, n)
		for i, f := range doc.Frames {
			tl.SetFrame(i, f.Time, f.Verts)
			applyCurve(tl, i, f.Curve)
		}
		return tl, nil

	case "draworder":
		tl := animation.NewDrawOrderTimeline(n)
		for i, f := range doc.Frames {
			var order []int
			if len(f.Order) > 0 {
				if len(f.Order) != len(data.Slots) {
					return nil, fmt.Errorf("%w: draw order has %d slots, want %d",
						ErrMalformedRig, len(f.Order), len(data.Slots))
				}
				order = make([]int, len(f.Order))
				for j, name := range f.Order {
					slotIdx, err := b.slotIndex(name)
					if err != nil {
						return nil, err
					}
					order[j] = slotIdx
				}
			}
			tl.SetFrame(i, f.Time, order)
		}
		return tl, nil

	case "ik":
		ikIdx := -1
		for j, ik := range data.IK {
			if ik.Name == doc.IK {
				ikIdx = j
				break
			}
		}
		if ikIdx < 0 {
			return nil, fmt.Errorf("%w: unknown ik constraint %q", ErrMalformedRig, doc.IK)
		}
		tl := animation.NewIKConstraintTimeline(ikIdx, n)
		for i, f := range doc.Frames {
			tl.SetFrame(i, f.Time, f.Value)
			applyCurve(tl, i, f.Curve)
		}
		return tl, nil

	case "event":
		tl := animation.NewEventTimeline(n)
		for i, f := range doc.Frames {
			ed, ok := b.events[f.Event]
			if !ok {
				return nil, fmt.Errorf("%w: unknown event %q", ErrMalformedRig, f.Event)
			}
			tl.SetFrame(i, animation.NewEvent(ed, f.Time))
		}
		return tl, nil
	}
	return nil, fmt.Errorf("%w: unknown timeline type %q", ErrMalformedRig, doc.Type)
}

// vertexTarget finds the vertex source a deform timeline was authored
// against, searching every skin for the slot's named attachment.
func (b *rigBuilder) vertexTarget(data *skeleton.Data, slotIdx int, name string) (*skeleton.VertexAttachment, error) {
	for _, skin := range data.Skins {
		a, ok := skin.Get(slotIdx, name)
		if !ok {
			continue
		}
		switch v := a.(type) {
		case *skeleton.MeshAttachment:
			return &v.VertexAttachment, nil
		case *skeleton.BoundingBoxAttachment:
			return &v.VertexAttachment, nil
		case *skeleton.ClippingAttachment:
			return &v.VertexAttachment, nil
		case *skeleton.PathAttachment:
			return &v.VertexAttachment, nil
		}
		return nil, fmt.Errorf("%w: deform target %q has no vertices", ErrMalformedRig, name)
	}
	return nil, fmt.Errorf("%w: unknown deform target %q", ErrMalformedRig, name)
}

func colorFrom(vals []float32, fallback skeleton.Color) (skeleton.Color, error) {
	switch len(vals) {
	case 0:
		return fallback, nil
	case 4:
		return skeleton.Color{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
	}
	return skeleton.Color{}, fmt.Errorf("%w: color needs 4 components, got %d",
		ErrMalformedRig, len(vals))
}

func blendFrom(name string) (skeleton.BlendMode, error) {
	switch name {
	case "", "normal":
		return skeleton.BlendNormal, nil
	case "additive":
		return skeleton.BlendAdditive, nil
	case "multiply":
		return skeleton.BlendMultiply, nil
	case "screen":
		return skeleton.BlendScreen, nil
	}
	return 0, fmt.Errorf("%w: unknown blend mode %q", ErrMalformedRig, name)
}
