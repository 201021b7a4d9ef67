package animation

import (
	"testing"

	"github.com/marrowkit/marrow/pkg/skeleton"
)

// meshSkeleton builds a one-bone skeleton with a slot showing a rigid
// two-triangle mesh, for attachment and deform timeline tests.
func meshSkeleton() (*skeleton.Skeleton, *skeleton.MeshAttachment) {
	root := skeleton.NewBoneData(0, "root", -1)
	slot := skeleton.NewSlotData(0, "body", 0)
	slot.AttachmentName = "quad"

	mesh := skeleton.NewMeshAttachment("quad")
	mesh.Vertices = []float32{0, 0, 10, 0, 10, 10, 0, 10}
	mesh.WorldVerticesLength = 8
	mesh.UVs = []float32{0, 0, 1, 0, 1, 1, 0, 1}
	mesh.Triangles = []uint16{0, 1, 2, 2, 3, 0}

	plate := skeleton.NewRegionAttachment("plate")
	plate.Width = 10
	plate.Height = 10
	plate.UpdateOffset()

	skin := skeleton.NewSkin("default")
	skin.Set(0, "quad", mesh)
	skin.Set(0, "plate", plate)

	data := &skeleton.Data{
		Bones:       []*skeleton.BoneData{root},
		Slots:       []*skeleton.SlotData{slot},
		Skins:       []*skeleton.Skin{skin},
		DefaultSkin: skin,
	}
	return skeleton.New(data), mesh
}

func TestRotateTimelineInterpolates(t *testing.T) {
	skel := testSkeleton()
	tl := NewRotateTimeline(1, 2)
	tl.SetFrame(0, 0, 0)
	tl.SetFrame(1, 1, 90)

	tl.Apply(skel, -1, 0.5, nil, 1, BlendFirst, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 45) {
		t.Errorf("rotation at 0.5 = %v, want 45", got)
	}

	tl.Apply(skel, -1, 2, nil, 1, BlendFirst, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 90) {
		t.Errorf("rotation past the last frame = %v, want 90", got)
	}
}

func TestRotateTimelineShortestArc(t *testing.T) {
	skel := testSkeleton()
	tl := NewRotateTimeline(1, 2)
	tl.SetFrame(0, 0, 10)
	tl.SetFrame(1, 1, 350)

	// 10 -> 350 interpolates through 0, not through 180.
	tl.Apply(skel, -1, 0.5, nil, 1, BlendFirst, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 0) {
		t.Errorf("rotation at 0.5 = %v, want 0 (shortest arc)", got)
	}
}

func TestRotateTimelineAlpha(t *testing.T) {
	skel := testSkeleton()
	tl := NewRotateTimeline(1, 2)
	tl.SetFrame(0, 0, 80)
	tl.SetFrame(1, 1, 80)

	tl.Apply(skel, -1, 0.5, nil, 0.5, BlendFirst, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 40) {
		t.Errorf("rotation at alpha 0.5 = %v, want 40", got)
	}
}

func TestRotateTimelineBlendAdd(t *testing.T) {
	skel := testSkeleton()
	skel.Bones[1].Rotation = 30
	tl := NewRotateTimeline(1, 2)
	tl.SetFrame(0, 0, 20)
	tl.SetFrame(1, 1, 20)

	tl.Apply(skel, -1, 0.5, nil, 1, BlendAdd, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 50) {
		t.Errorf("additive rotation = %v, want 50", got)
	}

	// Additive contributions stack without clamping.
	tl.Apply(skel, -1, 0.5, nil, 1, BlendAdd, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 70) {
		t.Errorf("stacked additive rotation = %v, want 70", got)
	}
}

func TestRotateTimelineBeforeFirstFrame(t *testing.T) {
	skel := testSkeleton()
	skel.Bones[1].Rotation = 55
	tl := NewRotateTimeline(1, 2)
	tl.SetFrame(0, 0.5, 90)
	tl.SetFrame(1, 1, 90)

	// BlendReplace leaves the pose alone before the first frame.
	tl.Apply(skel, -1, 0.1, nil, 1, BlendReplace, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 55) {
		t.Errorf("rotation before first frame = %v, want 55 (untouched)", got)
	}

	// BlendSetup resets to the setup value.
	tl.Apply(skel, -1, 0.1, nil, 1, BlendSetup, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 0) {
		t.Errorf("rotation before first frame = %v, want setup 0", got)
	}
}

func TestTranslateTimeline(t *testing.T) {
	skel := testSkeleton()
	tl := NewTranslateTimeline(1, 2)
	tl.SetFrame(0, 0, 0, 0)
	tl.SetFrame(1, 1, 10, -4)

	tl.Apply(skel, -1, 0.5, nil, 1, BlendFirst, MixIn)
	b := &skel.Bones[1]
	if !approx(b.X, 5) || !approx(b.Y, -2) {
		t.Errorf("position at 0.5 = (%v, %v), want (5, -2)", b.X, b.Y)
	}
}

func TestScaleTimelineMultipliesSetup(t *testing.T) {
	skel := testSkeleton()
	skel.Bones[1].Data.ScaleX = 2
	skel.SetBonesToSetupPose()

	tl := NewScaleTimeline(1, 2)
	tl.SetFrame(0, 0, 1.5, 1)
	tl.SetFrame(1, 1, 1.5, 1)

	tl.Apply(skel, -1, 0.5, nil, 1, BlendFirst, MixIn)
	b := &skel.Bones[1]
	if !approx(b.ScaleX, 3) {
		t.Errorf("scale X = %v, want 3 (keyed 1.5 x setup 2)", b.ScaleX)
	}
	if !approx(b.ScaleY, 1) {
		t.Errorf("scale Y = %v, want 1", b.ScaleY)
	}
}

func TestShearTimeline(t *testing.T) {
	skel := testSkeleton()
	tl := NewShearTimeline(1, 2)
	tl.SetFrame(0, 0, 0, 0)
	tl.SetFrame(1, 1, 30, 10)

	tl.Apply(skel, -1, 1, nil, 1, BlendFirst, MixIn)
	b := &skel.Bones[1]
	if !approx(b.ShearX, 30) || !approx(b.ShearY, 10) {
		t.Errorf("shear = (%v, %v), want (30, 10)", b.ShearX, b.ShearY)
	}
}

func TestSteppedCurveHolds(t *testing.T) {
	skel := testSkeleton()
	tl := NewRotateTimeline(1, 2)
	tl.SetFrame(0, 0, 10)
	tl.SetFrame(1, 1, 90)
	tl.SetStepped(0)

	tl.Apply(skel, -1, 0.99, nil, 1, BlendFirst, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 10) {
		t.Errorf("stepped rotation at 0.99 = %v, want 10 (held)", got)
	}

	tl.Apply(skel, -1, 1, nil, 1, BlendFirst, MixIn)
	if got := skel.Bones[1].Rotation; !approx(got, 90) {
		t.Errorf("stepped rotation at 1 = %v, want 90", got)
	}
}

func TestBezierCurveMonotonicEndpoints(t *testing.T) {
	c := newCurve(1)
	c.SetBezier(0, 0.25, 0, 0.75, 1)

	prev := float32(-1)
	for i := 0; i <= 20; i++ {
		p := float32(i) / 20
		got := c.Percent(0, p)
		if got < prev {
			t.Fatalf("bezier not monotonic: Percent(%v) = %v after %v", p, got, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("bezier out of range: Percent(%v) = %v", p, got)
		}
		prev = got
	}

	if got := c.Percent(0, 0); !approx(got, 0) {
		t.Errorf("Percent(0) = %v, want 0", got)
	}
	if got := c.Percent(0, 1); !approx(got, 1) {
		t.Errorf("Percent(1) = %v, want 1", got)
	}
}

func TestColorTimeline(t *testing.T) {
	skel := testSkeleton()
	tl := NewColorTimeline(0, 2)
	tl.SetFrame(0, 0, skeleton.Color{R: 1, G: 1, B: 1, A: 1})
	tl.SetFrame(1, 1, skeleton.Color{R: 0, G: 1, B: 1, A: 0.5})

	tl.Apply(skel, -1, 0.5, nil, 1, BlendFirst, MixIn)
	c := skel.Slots[0].Color
	if !approx(c.R, 0.5) || !approx(c.A, 0.75) {
		t.Errorf("color at 0.5 = %+v, want R=0.5 A=0.75", c)
	}
}

func TestTwoColorTimelineAllocatesDark(t *testing.T) {
	skel := testSkeleton()
	if skel.Slots[0].Dark != nil {
		t.Fatal("slot unexpectedly starts with a dark color")
	}

	tl := NewTwoColorTimeline(0, 2)
	tl.SetFrame(0, 0, skeleton.White, skeleton.Color{R: 1})
	tl.SetFrame(1, 1, skeleton.White, skeleton.Color{B: 1})

	tl.Apply(skel, -1, 0.5, nil, 1, BlendFirst, MixIn)
	dark := skel.Slots[0].Dark
	if dark == nil {
		t.Fatal("dark color not allocated")
	}
	if !approx(dark.R, 0.5) || !approx(dark.B, 0.5) {
		t.Errorf("dark at 0.5 = %+v, want R=0.5 B=0.5", *dark)
	}
}

func TestAttachmentTimelineStepped(t *testing.T) {
	skel, _ := meshSkeleton()
	tl := NewAttachmentTimeline(0, 3)
	tl.SetFrame(0, 0, "quad")
	tl.SetFrame(1, 0.5, "plate")
	tl.SetFrame(2, 1, "")

	tl.Apply(skel, -1, 0.49, nil, 1, BlendReplace, MixIn)
	if got := skel.Slots[0].Attachment().AttachName(); got != "quad" {
		t.Errorf("attachment at 0.49 = %q, want quad", got)
	}

	tl.Apply(skel, -1, 0.5, nil, 1, BlendReplace, MixIn)
	if got := skel.Slots[0].Attachment().AttachName(); got != "plate" {
		t.Errorf("attachment at 0.5 = %q, want plate", got)
	}

	tl.Apply(skel, -1, 1, nil, 1, BlendReplace, MixIn)
	if skel.Slots[0].Attachment() != nil {
		t.Error("empty name did not clear the attachment")
	}
}

func TestAttachmentTimelineMixOutResets(t *testing.T) {
	skel, _ := meshSkeleton()
	tl := NewAttachmentTimeline(0, 1)
	tl.SetFrame(0, 0, "plate")

	tl.Apply(skel, -1, 0.5, nil, 1, BlendReplace, MixIn)
	if got := skel.Slots[0].Attachment().AttachName(); got != "plate" {
		t.Fatalf("attachment = %q, want plate", got)
	}

	tl.Apply(skel, -1, 0.5, nil, 0.3, BlendSetup, MixOut)
	if got := skel.Slots[0].Attachment().AttachName(); got != "quad" {
		t.Errorf("attachment after mix-out = %q, want setup quad", got)
	}
}

func TestDrawOrderTimeline(t *testing.T) {
	root := skeleton.NewBoneData(0, "root", -1)
	data := &skeleton.Data{
		Bones: []*skeleton.BoneData{root},
		Slots: []*skeleton.SlotData{
			skeleton.NewSlotData(0, "a", 0),
			skeleton.NewSlotData(1, "b", 0),
			skeleton.NewSlotData(2, "c", 0),
		},
	}
	skel := skeleton.New(data)

	tl := NewDrawOrderTimeline(2)
	tl.SetFrame(0, 0, []int{2, 0, 1})
	tl.SetFrame(1, 0.5, nil)

	tl.Apply(skel, -1, 0.2, nil, 1, BlendReplace, MixIn)
	want := []int{2, 0, 1}
	for i := range want {
		if skel.DrawOrder[i] != want[i] {
			t.Fatalf("draw order = %v, want %v", skel.DrawOrder, want)
		}
	}

	// A nil order key restores the setup order.
	tl.Apply(skel, -1, 0.7, nil, 1, BlendReplace, MixIn)
	for i := range skel.DrawOrder {
		if skel.DrawOrder[i] != i {
			t.Fatalf("draw order = %v, want setup order", skel.DrawOrder)
		}
	}

	// Mixing out against the setup pose also restores it.
	tl.Apply(skel, -1, 0.2, nil, 1, BlendReplace, MixIn)
	tl.Apply(skel, -1, 0.2, nil, 1, BlendSetup, MixOut)
	for i := range skel.DrawOrder {
		if skel.DrawOrder[i] != i {
			t.Fatalf("draw order after mix-out = %v, want setup order", skel.DrawOrder)
		}
	}
}

func TestDeformTimelineRigid(t *testing.T) {
	skel, mesh := meshSkeleton()

	from := []float32{0, 0, 10, 0, 10, 10, 0, 10}
	to := []float32{0, 0, 10, 0, 10, 14, 0, 14}
	tl := NewDeformTimeline(0, &mesh.VertexAttachment, 2)
	tl.SetFrame(0, 0, from)
	tl.SetFrame(1, 1, to)

	tl.Apply(skel, -1, 0.5, nil, 1, BlendFirst, MixIn)
	deform := skel.Slots[0].Deform
	if len(deform) != 8 {
		t.Fatalf("deform length = %d, want 8", len(deform))
	}
	if !approx(deform[5], 12) {
		t.Errorf("deform[5] = %v, want 12 (halfway 10 -> 14)", deform[5])
	}
}

func TestDeformTimelineIgnoresOtherAttachment(t *testing.T) {
	skel, mesh := meshSkeleton()
	if err := skel.SetAttachment("body", "plate"); err != nil {
		t.Fatalf("SetAttachment: %v", err)
	}

	tl := NewDeformTimeline(0, &mesh.VertexAttachment, 1)
	tl.SetFrame(0, 0, []float32{1, 1, 1, 1, 1, 1, 1, 1})

	tl.Apply(skel, -1, 0.5, nil, 1, BlendFirst, MixIn)
	if len(skel.Slots[0].Deform) != 0 {
		t.Error("deform applied to an attachment it does not target")
	}
}

func TestIKConstraintTimeline(t *testing.T) {
	root := skeleton.NewBoneData(0, "root", -1)
	aim := skeleton.NewBoneData(1, "aim", 0)
	target := skeleton.NewBoneData(2, "target", 0)
	target.Y = 10
	data := &skeleton.Data{
		Bones: []*skeleton.BoneData{root, aim, target},
		IK:    []*skeleton.IKConstraintData{{Name: "look", Bone: 1, Target: 2, Mix: 0.5}},
	}
	skel := skeleton.New(data)

	tl := NewIKConstraintTimeline(0, 2)
	tl.SetFrame(0, 0, 0)
	tl.SetFrame(1, 1, 1)

	tl.Apply(skel, -1, 1, nil, 1, BlendFirst, MixIn)
	ik, _ := skel.FindIKConstraint("look")
	if !approx(ik.Mix, 1) {
		t.Errorf("ik mix = %v, want 1", ik.Mix)
	}

	// Before the first frame, BlendSetup restores the definition mix.
	tl.Apply(skel, -1, -0.5, nil, 1, BlendSetup, MixIn)
	if !approx(ik.Mix, 0.5) {
		t.Errorf("ik mix after setup reset = %v, want 0.5", ik.Mix)
	}
}

func TestEventTimelineNoBackwardFire(t *testing.T) {
	skel := testSkeleton()
	footstep, _ := skel.Data.FindEvent("footstep")

	tl := NewEventTimeline(1)
	tl.SetFrame(0, NewEvent(footstep, 0.5))

	var fired []*Event
	tl.Apply(skel, 0, 0.6, &fired, 1, BlendReplace, MixIn)
	if len(fired) != 1 {
		t.Fatalf("fired = %d events, want 1", len(fired))
	}

	// Re-applying at an earlier time without a wrap fires nothing.
	fired = fired[:0]
	tl.Apply(skel, 0.6, 0.6, &fired, 1, BlendReplace, MixIn)
	if len(fired) != 0 {
		t.Errorf("re-fire without forward progress: %d events", len(fired))
	}
}

func TestAnimationDurationFromTimelines(t *testing.T) {
	short := NewRotateTimeline(1, 2)
	short.SetFrame(0, 0, 0)
	short.SetFrame(1, 0.4, 10)
	long := NewTranslateTimeline(1, 2)
	long.SetFrame(0, 0, 0, 0)
	long.SetFrame(1, 1.3, 5, 5)

	a := New("mixed", []Timeline{short, long})
	if !approx(a.Duration, 1.3) {
		t.Errorf("duration = %v, want 1.3 (longest timeline)", a.Duration)
	}
}
