package skeleton

import (
	"errors"
	"testing"

	"github.com/marrowkit/marrow/pkg/math"
)

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

// testData builds a three-bone chain (root -> arm -> hand) with one
// slot on the arm and a region attachment in the default skin.
func testData() *Data {
	root := NewBoneData(0, "root", -1)
	arm := NewBoneData(1, "arm", 0)
	arm.X = 10
	arm.Rotation = 90
	hand := NewBoneData(2, "hand", 1)
	hand.X = 5

	slot := NewSlotData(0, "arm", 1)
	slot.AttachmentName = "sleeve"

	skin := NewSkin("default")
	region := NewRegionAttachment("sleeve")
	region.Width = 4
	region.Height = 2
	region.UpdateOffset()
	skin.Set(0, "sleeve", region)

	return &Data{
		Bones:       []*BoneData{root, arm, hand},
		Slots:       []*SlotData{slot},
		Skins:       []*Skin{skin},
		DefaultSkin: skin,
	}
}

func TestNewResolvesSetupAttachment(t *testing.T) {
	s := New(testData())
	a := s.Slots[0].Attachment()
	if a == nil {
		t.Fatal("setup attachment not resolved from default skin")
	}
	if a.AttachName() != "sleeve" {
		t.Errorf("attachment name = %q, want %q", a.AttachName(), "sleeve")
	}
}

func TestWorldTransformChain(t *testing.T) {
	s := New(testData())
	s.UpdateWorldTransform()

	// arm sits at (10, 0) rotated 90 degrees; hand extends 5 along the
	// arm's X axis, so it lands at (10, 5) in world space.
	hand := s.Bones[2]
	if !approx(hand.World.X, 10) || !approx(hand.World.Y, 5) {
		t.Errorf("hand world position = (%v, %v), want (10, 5)", hand.World.X, hand.World.Y)
	}
	if got := hand.WorldRotation(); !approx(got, 90) {
		t.Errorf("hand world rotation = %v, want 90", got)
	}
}

func TestWorldTransformDeterministic(t *testing.T) {
	data := testData()
	a := New(data)
	b := New(data)
	a.Bones[1].Rotation = 37.5
	b.Bones[1].Rotation = 37.5

	a.UpdateWorldTransform()
	a.UpdateWorldTransform() // second pass must not drift
	b.UpdateWorldTransform()

	for i := range a.Bones {
		if a.Bones[i].World != b.Bones[i].World {
			t.Errorf("bone %d world transforms differ: %+v vs %+v",
				i, a.Bones[i].World, b.Bones[i].World)
		}
	}
}

func TestSkeletonFlip(t *testing.T) {
	s := New(testData())
	s.ScaleX = -1
	s.UpdateWorldTransform()

	arm := s.Bones[1]
	if !approx(arm.World.X, -10) {
		t.Errorf("flipped arm world X = %v, want -10", arm.World.X)
	}
}

func TestInheritRotationDisabled(t *testing.T) {
	data := testData()
	data.Bones[2].InheritRotation = false
	s := New(data)
	s.UpdateWorldTransform()

	// The hand still moves with the rotated arm, but its own axes stay
	// world-aligned.
	hand := s.Bones[2]
	if !approx(hand.World.X, 10) || !approx(hand.World.Y, 5) {
		t.Errorf("hand world position = (%v, %v), want (10, 5)", hand.World.X, hand.World.Y)
	}
	if got := hand.WorldRotation(); !approx(got, 0) {
		t.Errorf("hand world rotation = %v, want 0", got)
	}
}

func TestInheritScaleDisabled(t *testing.T) {
	data := testData()
	data.Bones[1].Rotation = 0
	data.Bones[1].ScaleX = 3
	data.Bones[2].InheritScale = false
	s := New(data)
	s.UpdateWorldTransform()

	hand := s.Bones[2]
	// Position inherits the parent scale (5 * 3 = 15 along X)...
	if !approx(hand.World.X, 25) {
		t.Errorf("hand world X = %v, want 25", hand.World.X)
	}
	// ...but the hand's own axes do not stretch.
	if got := hand.World.ScaleX(); !approx(got, 1) {
		t.Errorf("hand world scale X = %v, want 1", got)
	}
}

func TestTranslationOnlyInherit(t *testing.T) {
	data := testData()
	data.Bones[1].ScaleX = 2
	data.Bones[2].InheritRotation = false
	data.Bones[2].InheritScale = false
	s := New(data)
	s.UpdateWorldTransform()

	hand := s.Bones[2]
	if got := hand.WorldRotation(); !approx(got, 0) {
		t.Errorf("hand world rotation = %v, want 0", got)
	}
	if got := hand.World.ScaleX(); !approx(got, 1) {
		t.Errorf("hand world scale X = %v, want 1", got)
	}
}

func TestSetBonesToSetupPose(t *testing.T) {
	s := New(testData())
	s.Bones[1].Rotation = 45
	s.Bones[1].X = -99
	s.SetBonesToSetupPose()

	if s.Bones[1].Rotation != 90 || s.Bones[1].X != 10 {
		t.Errorf("setup pose not restored: rotation=%v x=%v", s.Bones[1].Rotation, s.Bones[1].X)
	}
}

func TestWorldToLocalRoundTrip(t *testing.T) {
	s := New(testData())
	s.Bones[1].Rotation = 33
	s.UpdateWorldTransform()

	arm := &s.Bones[1]
	world := math.Vec2{X: 7, Y: -3}
	back := arm.LocalToWorld(arm.WorldToLocal(world))
	if !approx(back.X, world.X) || !approx(back.Y, world.Y) {
		t.Errorf("round trip = %v, want %v", back, world)
	}
}

func TestSetSkinByNameNotFound(t *testing.T) {
	s := New(testData())
	err := s.SetSkinByName("winter")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("SetSkinByName error = %v, want ErrNotFound", err)
	}
}

func TestSetAttachment(t *testing.T) {
	s := New(testData())

	if err := s.SetAttachment("arm", ""); err != nil {
		t.Fatalf("clearing attachment: %v", err)
	}
	if s.Slots[0].Attachment() != nil {
		t.Error("attachment not cleared")
	}

	if err := s.SetAttachment("arm", "sleeve"); err != nil {
		t.Fatalf("restoring attachment: %v", err)
	}
	if s.Slots[0].Attachment() == nil {
		t.Error("attachment not restored")
	}

	if err := s.SetAttachment("arm", "gauntlet"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown attachment error = %v, want ErrNotFound", err)
	}
	if err := s.SetAttachment("leg", "sleeve"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown slot error = %v, want ErrNotFound", err)
	}
}

func TestSkinFallbackToDefault(t *testing.T) {
	data := testData()
	extra := NewSkin("armored")
	data.Skins = append(data.Skins, extra)
	s := New(data)

	if err := s.SetSkinByName("armored"); err != nil {
		t.Fatalf("SetSkinByName: %v", err)
	}
	// "sleeve" only exists in the default skin; resolution must fall
	// through.
	if _, ok := s.Attachment(0, "sleeve"); !ok {
		t.Error("attachment not resolved through default-skin fallback")
	}
}

func TestIKConstraintAims(t *testing.T) {
	root := NewBoneData(0, "root", -1)
	aim := NewBoneData(1, "aim", 0)
	target := NewBoneData(2, "target", 0)
	target.X = 0
	target.Y = 10

	data := &Data{
		Bones: []*BoneData{root, aim, target},
		IK:    []*IKConstraintData{{Name: "look", Bone: 1, Target: 2, Mix: 1}},
	}
	s := New(data)
	s.UpdateWorldTransform()

	got := s.Bones[1].WorldRotation()
	if !approx(got, 90) {
		t.Errorf("constrained bone rotation = %v, want 90", got)
	}
}

func TestIKConstraintMixZero(t *testing.T) {
	root := NewBoneData(0, "root", -1)
	aim := NewBoneData(1, "aim", 0)
	target := NewBoneData(2, "target", 0)
	target.Y = 10

	data := &Data{
		Bones: []*BoneData{root, aim, target},
		IK:    []*IKConstraintData{{Name: "look", Bone: 1, Target: 2, Mix: 0}},
	}
	s := New(data)
	s.UpdateWorldTransform()

	if got := s.Bones[1].WorldRotation(); !approx(got, 0) {
		t.Errorf("unmixed constraint moved the bone: rotation = %v, want 0", got)
	}
}

func TestValidateBadTriangleIndex(t *testing.T) {
	data := testData()
	mesh := NewMeshAttachment("patch")
	mesh.Vertices = []float32{0, 0, 1, 0, 0, 1}
	mesh.WorldVerticesLength = 6
	mesh.UVs = []float32{0, 0, 1, 0, 0, 1}
	mesh.Triangles = []uint16{0, 1, 7}
	data.DefaultSkin.Set(0, "patch", mesh)

	if err := data.Validate(); !errors.Is(err, ErrMalformedGeometry) {
		t.Errorf("Validate() = %v, want ErrMalformedGeometry", err)
	}
}

func TestValidateBadVertexBone(t *testing.T) {
	data := testData()
	mesh := NewMeshAttachment("patch")
	mesh.Bones = []int32{1, 9}
	mesh.Vertices = []float32{0, 0, 1}
	mesh.WorldVerticesLength = 2
	mesh.UVs = []float32{0, 0}
	mesh.Triangles = nil
	data.DefaultSkin.Set(0, "patch", mesh)

	if err := data.Validate(); !errors.Is(err, ErrMalformedGeometry) {
		t.Errorf("Validate() = %v, want ErrMalformedGeometry", err)
	}
}

func TestValidateOK(t *testing.T) {
	if err := testData().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
