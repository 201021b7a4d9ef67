package animation

import "github.com/marrowkit/marrow/pkg/skeleton"

// ColorTimeline keys a slot's tint. Frames are (time, r, g, b, a) with
// absolute color values.
type ColorTimeline struct {
	SlotIndex int
	Frames    []float32
	curve
}

const colorEntries = 5

// NewColorTimeline allocates a timeline with frameCount keys.
func NewColorTimeline(slotIndex, frameCount int) *ColorTimeline {
	return &ColorTimeline{
		SlotIndex: slotIndex,
		Frames:    make([]float32, frameCount*colorEntries),
		curve:     newCurve(frameCount),
	}
}

// SetFrame sets the time and color of one key.
func (t *ColorTimeline) SetFrame(frame int, time float32, c skeleton.Color) {
	i := frame * colorEntries
	t.Frames[i] = time
	t.Frames[i+1] = c.R
	t.Frames[i+2] = c.G
	t.Frames[i+3] = c.B
	t.Frames[i+4] = c.A
}

// Duration implements Timeline.
func (t *ColorTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-colorEntries]
}

func (t *ColorTimeline) interpolate(time float32) skeleton.Color {
	frames := t.Frames
	if time >= frames[len(frames)-colorEntries] {
		i := len(frames) - colorEntries
		return skeleton.Color{R: frames[i+1], G: frames[i+2], B: frames[i+3], A: frames[i+4]}
	}
	frame := binarySearch(frames, time, colorEntries)
	prevTime := frames[frame-colorEntries]
	prev := skeleton.Color{
		R: frames[frame-4], G: frames[frame-3], B: frames[frame-2], A: frames[frame-1],
	}
	frameTime := frames[frame]
	percent := t.Percent(frame/colorEntries-1, 1-(time-frameTime)/(prevTime-frameTime))
	next := skeleton.Color{
		R: frames[frame+1], G: frames[frame+2], B: frames[frame+3], A: frames[frame+4],
	}
	return prev.Lerp(next, percent)
}

// Apply implements Timeline.
func (t *ColorTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := &skel.Slots[t.SlotIndex]
	setup := slot.Data

	if time < t.Frames[0] {
		switch blend {
		case BlendSetup:
			slot.Color = setup.Color
		case BlendFirst:
			slot.Color = slot.Color.Lerp(setup.Color, alpha)
		}
		return
	}

	c := t.interpolate(time)
	if alpha == 1 {
		slot.Color = c
		return
	}
	if blend == BlendSetup {
		slot.Color = setup.Color
	}
	slot.Color = slot.Color.Lerp(c, alpha)
}

// TwoColorTimeline keys a slot's tint and dark color for two-color
// blending. Frames are (time, r, g, b, a, r2, g2, b2).
type TwoColorTimeline struct {
	SlotIndex int
	Frames    []float32
	curve
}

const twoColorEntries = 8

// NewTwoColorTimeline allocates a timeline with frameCount keys.
func NewTwoColorTimeline(slotIndex, frameCount int) *TwoColorTimeline {
	return &TwoColorTimeline{
		SlotIndex: slotIndex,
		Frames:    make([]float32, frameCount*twoColorEntries),
		curve:     newCurve(frameCount),
	}
}

// SetFrame sets the time, light color and dark RGB of one key.
func (t *TwoColorTimeline) SetFrame(frame int, time float32, light skeleton.Color, dark skeleton.Color) {
	i := frame * twoColorEntries
	t.Frames[i] = time
	t.Frames[i+1] = light.R
	t.Frames[i+2] = light.G
	t.Frames[i+3] = light.B
	t.Frames[i+4] = light.A
	t.Frames[i+5] = dark.R
	t.Frames[i+6] = dark.G
	t.Frames[i+7] = dark.B
}

// Duration implements Timeline.
func (t *TwoColorTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-twoColorEntries]
}

func (t *TwoColorTimeline) interpolate(time float32) (skeleton.Color, skeleton.Color) {
	frames := t.Frames
	if time >= frames[len(frames)-twoColorEntries] {
		i := len(frames) - twoColorEntries
		light := skeleton.Color{R: frames[i+1], G: frames[i+2], B: frames[i+3], A: frames[i+4]}
		dark := skeleton.Color{R: frames[i+5], G: frames[i+6], B: frames[i+7], A: 1}
		return light, dark
	}
	frame := binarySearch(frames, time, twoColorEntries)
	prevTime := frames[frame-twoColorEntries]
	prevLight := skeleton.Color{
		R: frames[frame-7], G: frames[frame-6], B: frames[frame-5], A: frames[frame-4],
	}
	prevDark := skeleton.Color{R: frames[frame-3], G: frames[frame-2], B: frames[frame-1], A: 1}
	frameTime := frames[frame]
	percent := t.Percent(frame/twoColorEntries-1, 1-(time-frameTime)/(prevTime-frameTime))
	nextLight := skeleton.Color{
		R: frames[frame+1], G: frames[frame+2], B: frames[frame+3], A: frames[frame+4],
	}
	nextDark := skeleton.Color{R: frames[frame+5], G: frames[frame+6], B: frames[frame+7], A: 1}
	return prevLight.Lerp(nextLight, percent), prevDark.Lerp(nextDark, percent)
}

// Apply implements Timeline.
func (t *TwoColorTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := &skel.Slots[t.SlotIndex]
	setup := slot.Data

	if time < t.Frames[0] {
		switch blend {
		case BlendSetup:
			slot.Color = setup.Color
			if setup.Dark != nil {
				dark := *setup.Dark
				slot.Dark = &dark
			}
		case BlendFirst:
			slot.Color = slot.Color.Lerp(setup.Color, alpha)
			if setup.Dark != nil && slot.Dark != nil {
				*slot.Dark = slot.Dark.Lerp(*setup.Dark, alpha)
			}
		}
		return
	}

	light, dark := t.interpolate(time)
	if slot.Dark == nil {
		slot.Dark = &skeleton.Color{A: 1}
	}
	if alpha == 1 {
		slot.Color = light
		*slot.Dark = dark
		return
	}
	if blend == BlendSetup {
		slot.Color = setup.Color
		if setup.Dark != nil {
			*slot.Dark = *setup.Dark
		}
	}
	slot.Color = slot.Color.Lerp(light, alpha)
	*slot.Dark = slot.Dark.Lerp(dark, alpha)
}

// AttachmentTimeline keys which attachment a slot shows. Values are
// stepped, never interpolated; an empty name clears the slot.
type AttachmentTimeline struct {
	SlotIndex int
	Frames    []float32
	Names     []string
}

// NewAttachmentTimeline allocates a timeline with frameCount keys.
func NewAttachmentTimeline(slotIndex, frameCount int) *AttachmentTimeline {
	return &AttachmentTimeline{
		SlotIndex: slotIndex,
		Frames:    make([]float32, frameCount),
		Names:     make([]string, frameCount),
	}
}

// SetFrame sets the time and attachment name of one key.
func (t *AttachmentTimeline) SetFrame(frame int, time float32, name string) {
	t.Frames[frame] = time
	t.Names[frame] = name
}

// Duration implements Timeline.
func (t *AttachmentTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-1]
}

func (t *AttachmentTimeline) setAttachment(skel *skeleton.Skeleton, slot *skeleton.Slot, name string) {
	if name == "" {
		slot.SetAttachment(nil)
		return
	}
	if a, ok := skel.Attachment(t.SlotIndex, name); ok {
		slot.SetAttachment(a)
	}
}

// Apply implements Timeline.
func (t *AttachmentTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, _ float32, blend MixBlend, direction MixDirection) {
	slot := &skel.Slots[t.SlotIndex]

	if direction == MixOut && blend == BlendSetup {
		t.setAttachment(skel, slot, slot.Data.AttachmentName)
		return
	}

	if time < t.Frames[0] {
		if blend == BlendSetup || blend == BlendFirst {
			t.setAttachment(skel, slot, slot.Data.AttachmentName)
		}
		return
	}

	frame := linearSearch(t.Frames, time, 1)
	t.setAttachment(skel, slot, t.Names[frame])
}

// DeformTimeline keys vertex offsets for one vertex attachment on one
// slot. Each frame holds a full vertex array; the timeline only applies
// while the slot shows the attachment it was authored against.
type DeformTimeline struct {
	SlotIndex  int
	Attachment *skeleton.VertexAttachment
	Frames     []float32
	Vertices   [][]float32
	curve
}

// NewDeformTimeline allocates a timeline with frameCount keys.
func NewDeformTimeline(slotIndex int, attachment *skeleton.VertexAttachment, frameCount int) *DeformTimeline {
	return &DeformTimeline{
		SlotIndex:  slotIndex,
		Attachment: attachment,
		Frames:     make([]float32, frameCount),
		Vertices:   make([][]float32, frameCount),
		curve:      newCurve(frameCount),
	}
}

// SetFrame sets the time and vertex array of one key. The array length
// must match across frames.
func (t *DeformTimeline) SetFrame(frame int, time float32, vertices []float32) {
	t.Frames[frame] = time
	t.Vertices[frame] = vertices
}

// Duration implements Timeline.
func (t *DeformTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-1]
}

// targets reports whether the slot's current attachment uses the vertex
// source this timeline was authored against.
func (t *DeformTimeline) targets(slot *skeleton.Slot) bool {
	switch a := slot.Attachment().(type) {
	case *skeleton.MeshAttachment:
		return &a.VertexAttachment == t.Attachment
	case *skeleton.LinkedMeshAttachment:
		return a.Source != nil && &a.Source.VertexAttachment == t.Attachment
	case *skeleton.BoundingBoxAttachment:
		return &a.VertexAttachment == t.Attachment
	case *skeleton.ClippingAttachment:
		return &a.VertexAttachment == t.Attachment
	case *skeleton.PathAttachment:
		return &a.VertexAttachment == t.Attachment
	}
	return false
}

// setupVertex returns the authored baseline for deform blending: the
// authored positions for rigid attachments, zero offsets for weighted.
func (t *DeformTimeline) setupVertex(i int) float32 {
	if t.Attachment.Bones == nil {
		return t.Attachment.Vertices[i]
	}
	return 0
}

// Apply implements Timeline.
func (t *DeformTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := &skel.Slots[t.SlotIndex]
	if !t.targets(slot) {
		return
	}

	vertexCount := len(t.Vertices[0])

	if time < t.Frames[0] {
		switch blend {
		case BlendSetup:
			slot.Deform = slot.Deform[:0]
		case BlendFirst:
			if len(slot.Deform) != vertexCount {
				return
			}
			deform := slot.Deform
			for i := range deform {
				deform[i] += (t.setupVertex(i) - deform[i]) * alpha
			}
		}
		return
	}

	if len(slot.Deform) != vertexCount {
		if cap(slot.Deform) < vertexCount {
			slot.Deform = make([]float32, vertexCount)
		} else {
			slot.Deform = slot.Deform[:vertexCount]
		}
		// A fresh buffer blends from the setup baseline.
		for i := range slot.Deform {
			slot.Deform[i] = t.setupVertex(i)
		}
	}
	deform := slot.Deform

	frames := t.Frames
	var prev, next []float32
	var percent float32
	if time >= frames[len(frames)-1] {
		prev = t.Vertices[len(t.Vertices)-1]
		next = prev
	} else {
		frame := linearSearch(frames, time, 1)
		prev = t.Vertices[frame]
		next = t.Vertices[frame+1]
		frameTime := frames[frame+1]
		percent = t.Percent(frame, 1-(time-frameTime)/(frames[frame]-frameTime))
	}

	if alpha == 1 {
		for i := 0; i < vertexCount; i++ {
			p := prev[i]
			deform[i] = p + (next[i]-p)*percent
		}
		return
	}

	switch blend {
	case BlendSetup:
		for i := 0; i < vertexCount; i++ {
			p := prev[i]
			value := p + (next[i]-p)*percent
			setup := t.setupVertex(i)
			deform[i] = setup + (value-setup)*alpha
		}
	case BlendAdd:
		for i := 0; i < vertexCount; i++ {
			p := prev[i]
			value := p + (next[i]-p)*percent
			deform[i] += (value - t.setupVertex(i)) * alpha
		}
	default:
		for i := 0; i < vertexCount; i++ {
			p := prev[i]
			value := p + (next[i]-p)*percent
			deform[i] += (value - deform[i]) * alpha
		}
	}
}
