package animation

import (
	"github.com/marrowkit/marrow/pkg/math"
	"github.com/marrowkit/marrow/pkg/skeleton"
)

// Bone timelines key values relative to the setup pose: a rotate frame
// of 0 means "the setup rotation", translation frames are offsets from
// the setup position, scale frames are multiples of the setup scale.

// RotateTimeline keys a bone's rotation. Frames are (time, degrees)
// pairs; degrees are relative to the setup rotation.
type RotateTimeline struct {
	BoneIndex int
	Frames    []float32
	curve
}

const rotateEntries = 2

// NewRotateTimeline allocates a timeline with frameCount keys.
func NewRotateTimeline(boneIndex, frameCount int) *RotateTimeline {
	return &RotateTimeline{
		BoneIndex: boneIndex,
		Frames:    make([]float32, frameCount*rotateEntries),
		curve:     newCurve(frameCount),
	}
}

// SetFrame sets the time and setup-relative angle of one key.
func (t *RotateTimeline) SetFrame(frame int, time, degrees float32) {
	t.Frames[frame*rotateEntries] = time
	t.Frames[frame*rotateEntries+1] = degrees
}

// Duration implements Timeline.
func (t *RotateTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-rotateEntries]
}

// Apply implements Timeline.
func (t *RotateTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	bone := &skel.Bones[t.BoneIndex]
	setup := bone.Data
	frames := t.Frames

	if time < frames[0] {
		switch blend {
		case BlendSetup:
			bone.Rotation = setup.Rotation
		case BlendFirst:
			bone.Rotation += math.WrapDeg(setup.Rotation-bone.Rotation) * alpha
		}
		return
	}

	var r float32
	if time >= frames[len(frames)-rotateEntries] {
		r = frames[len(frames)-1]
	} else {
		frame := binarySearch(frames, time, rotateEntries)
		prevTime := frames[frame-rotateEntries]
		prevRotation := frames[frame-1]
		frameTime := frames[frame]
		percent := t.Percent(frame/rotateEntries-1, 1-(time-frameTime)/(prevTime-frameTime))
		r = prevRotation + math.WrapDeg(frames[frame+1]-prevRotation)*percent
	}

	switch blend {
	case BlendSetup:
		bone.Rotation = setup.Rotation + r*alpha
	case BlendFirst, BlendReplace:
		r += setup.Rotation - bone.Rotation
		bone.Rotation += math.WrapDeg(r) * alpha
	case BlendAdd:
		bone.Rotation += r * alpha
	}
}

// TranslateTimeline keys a bone's position. Frames are (time, x, y);
// x and y are offsets from the setup position.
type TranslateTimeline struct {
	BoneIndex int
	Frames    []float32
	curve
}

const translateEntries = 3

// NewTranslateTimeline allocates a timeline with frameCount keys.
func NewTranslateTimeline(boneIndex, frameCount int) *TranslateTimeline {
	return &TranslateTimeline{
		BoneIndex: boneIndex,
		Frames:    make([]float32, frameCount*translateEntries),
		curve:     newCurve(frameCount),
	}
}

// SetFrame sets the time and setup-relative offset of one key.
func (t *TranslateTimeline) SetFrame(frame int, time, x, y float32) {
	i := frame * translateEntries
	t.Frames[i] = time
	t.Frames[i+1] = x
	t.Frames[i+2] = y
}

// Duration implements Timeline.
func (t *TranslateTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-translateEntries]
}

// interpolate returns the keyed (x, y) at time. The caller has checked
// time >= frames[0].
func (t *TranslateTimeline) interpolate(time float32) (float32, float32) {
	frames := t.Frames
	if time >= frames[len(frames)-translateEntries] {
		return frames[len(frames)-2], frames[len(frames)-1]
	}
	frame := binarySearch(frames, time, translateEntries)
	prevTime := frames[frame-translateEntries]
	prevX := frames[frame-2]
	prevY := frames[frame-1]
	frameTime := frames[frame]
	percent := t.Percent(frame/translateEntries-1, 1-(time-frameTime)/(prevTime-frameTime))
	return prevX + (frames[frame+1]-prevX)*percent, prevY + (frames[frame+2]-prevY)*percent
}

// Apply implements Timeline.
func (t *TranslateTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	bone := &skel.Bones[t.BoneIndex]
	setup := bone.Data

	if time < t.Frames[0] {
		switch blend {
		case BlendSetup:
			bone.X, bone.Y = setup.X, setup.Y
		case BlendFirst:
			bone.X += (setup.X - bone.X) * alpha
			bone.Y += (setup.Y - bone.Y) * alpha
		}
		return
	}

	x, y := t.interpolate(time)
	switch blend {
	case BlendSetup:
		bone.X = setup.X + x*alpha
		bone.Y = setup.Y + y*alpha
	case BlendFirst, BlendReplace:
		bone.X += (setup.X + x - bone.X) * alpha
		bone.Y += (setup.Y + y - bone.Y) * alpha
	case BlendAdd:
		bone.X += x * alpha
		bone.Y += y * alpha
	}
}

// ScaleTimeline keys a bone's scale. Frames are (time, x, y) where x
// and y multiply the setup scale.
type ScaleTimeline struct {
	TranslateTimeline
}

// NewScaleTimeline allocates a timeline with frameCount keys.
func NewScaleTimeline(boneIndex, frameCount int) *ScaleTimeline {
	t := &ScaleTimeline{}
	t.BoneIndex = boneIndex
	t.Frames = make([]float32, frameCount*translateEntries)
	t.curve = newCurve(frameCount)
	return t
}

// Apply implements Timeline.
func (t *ScaleTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	bone := &skel.Bones[t.BoneIndex]
	setup := bone.Data

	if time < t.Frames[0] {
		switch blend {
		case BlendSetup:
			bone.ScaleX, bone.ScaleY = setup.ScaleX, setup.ScaleY
		case BlendFirst:
			bone.ScaleX += (setup.ScaleX - bone.ScaleX) * alpha
			bone.ScaleY += (setup.ScaleY - bone.ScaleY) * alpha
		}
		return
	}

	kx, ky := t.interpolate(time)
	x := kx * setup.ScaleX
	y := ky * setup.ScaleY
	switch blend {
	case BlendSetup:
		bone.ScaleX = setup.ScaleX + (x-setup.ScaleX)*alpha
		bone.ScaleY = setup.ScaleY + (y-setup.ScaleY)*alpha
	case BlendFirst, BlendReplace:
		bone.ScaleX += (x - bone.ScaleX) * alpha
		bone.ScaleY += (y - bone.ScaleY) * alpha
	case BlendAdd:
		bone.ScaleX += (x - setup.ScaleX) * alpha
		bone.ScaleY += (y - setup.ScaleY) * alpha
	}
}

// ShearTimeline keys a bone's shear. Frames are (time, x, y); x and y
// are offsets from the setup shear in degrees.
type ShearTimeline struct {
	TranslateTimeline
}

// NewShearTimeline allocates a timeline with frameCount keys.
func NewShearTimeline(boneIndex, frameCount int) *ShearTimeline {
	t := &ShearTimeline{}
	t.BoneIndex = boneIndex
	t.Frames = make([]float32, frameCount*translateEntries)
	t.curve = newCurve(frameCount)
	return t
}

// Apply implements Timeline.
func (t *ShearTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	bone := &skel.Bones[t.BoneIndex]
	setup := bone.Data

	if time < t.Frames[0] {
		switch blend {
		case BlendSetup:
			bone.ShearX, bone.ShearY = setup.ShearX, setup.ShearY
		case BlendFirst:
			bone.ShearX += (setup.ShearX - bone.ShearX) * alpha
			bone.ShearY += (setup.ShearY - bone.ShearY) * alpha
		}
		return
	}

	x, y := t.interpolate(time)
	switch blend {
	case BlendSetup:
		bone.ShearX = setup.ShearX + x*alpha
		bone.ShearY = setup.ShearY + y*alpha
	case BlendFirst, BlendReplace:
		bone.ShearX += (setup.ShearX + x - bone.ShearX) * alpha
		bone.ShearY += (setup.ShearY + y - bone.ShearY) * alpha
	case BlendAdd:
		bone.ShearX += x * alpha
		bone.ShearY += y * alpha
	}
}

// IKConstraintTimeline keys an IK constraint's mix. Frames are
// (time, mix) pairs with absolute mix values.
type IKConstraintTimeline struct {
	// ConstraintIndex addresses Skeleton.Constraints.
	ConstraintIndex int
	Frames          []float32
	curve
}

const ikEntries = 2

// NewIKConstraintTimeline allocates a timeline with frameCount keys.
func NewIKConstraintTimeline(constraintIndex, frameCount int) *IKConstraintTimeline {
	return &IKConstraintTimeline{
		ConstraintIndex: constraintIndex,
		Frames:          make([]float32, frameCount*ikEntries),
		curve:           newCurve(frameCount),
	}
}

// SetFrame sets the time and mix of one key.
func (t *IKConstraintTimeline) SetFrame(frame int, time, mix float32) {
	t.Frames[frame*ikEntries] = time
	t.Frames[frame*ikEntries+1] = mix
}

// Duration implements Timeline.
func (t *IKConstraintTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-ikEntries]
}

// Apply implements Timeline.
func (t *IKConstraintTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	ik, ok := skel.Constraints[t.ConstraintIndex].(*skeleton.IKConstraint)
	if !ok {
		return
	}
	frames := t.Frames

	if time < frames[0] {
		switch blend {
		case BlendSetup:
			ik.Mix = ik.Data.Mix
		case BlendFirst:
			ik.Mix += (ik.Data.Mix - ik.Mix) * alpha
		}
		return
	}

	var mix float32
	if time >= frames[len(frames)-ikEntries] {
		mix = frames[len(frames)-1]
	} else {
		frame := binarySearch(frames, time, ikEntries)
		prevTime := frames[frame-ikEntries]
		prevMix := frames[frame-1]
		frameTime := frames[frame]
		percent := t.Percent(frame/ikEntries-1, 1-(time-frameTime)/(prevTime-frameTime))
		mix = prevMix + (frames[frame+1]-prevMix)*percent
	}

	if blend == BlendSetup {
		ik.Mix = ik.Data.Mix + (mix-ik.Data.Mix)*alpha
	} else {
		ik.Mix += (mix - ik.Mix) * alpha
	}
}
