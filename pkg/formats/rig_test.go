package formats

import (
	"errors"
	"testing"

	"github.com/marrowkit/marrow/pkg/skeleton"
)

const sampleRig = `
version: 1
name: sample
bones:
  - name: root
  - {name: arm, parent: root, x: 10, rotation: 90, length: 40}
  - {name: hand, parent: arm, x: 5, scaleX: 2, inheritRotation: false}
slots:
  - {name: body, bone: root, attachment: torso}
  - {name: arm, bone: arm, attachment: sleeve, blend: additive, color: [1, 0.5, 0.5, 1]}
events:
  - {name: footstep, int: 3, string: grass}
ik:
  - {name: aim, bone: hand, target: root, mix: 0.5}
skins:
  - name: default
    attachments:
      - {slot: body, name: torso, type: region, width: 20, height: 30, texture: torso.png}
      - slot: arm
        name: sleeve
        type: mesh
        vertices: [0, 0, 10, 0, 10, 10, 0, 10]
        uvs: [0, 0, 1, 0, 1, 1, 0, 1]
        triangles: [0, 1, 2, 2, 3, 0]
        hull: 8
animations:
  - name: wave
    timelines:
      - type: rotate
        bone: arm
        frames:
          - {time: 0, value: 0}
          - {time: 0.5, value: 45, curve: stepped}
          - {time: 1, value: 90, curve: [0.25, 0, 0.75, 1]}
      - type: color
        slot: arm
        frames:
          - {time: 0, color: [1, 1, 1, 1]}
          - {time: 1, color: [1, 1, 1, 0]}
      - type: event
        frames:
          - {time: 0.25, event: footstep}
  - name: idle
    timelines:
      - type: translate
        bone: root
        frames:
          - {time: 0, x: 0, y: 0}
          - {time: 2, x: 0, y: 4}
mixes:
  default: 0.2
  pairs:
    - {from: wave, to: idle, duration: 0.4}
`

func TestParseRig(t *testing.T) {
	rig, err := ParseRig([]byte(sampleRig))
	if err != nil {
		t.Fatalf("ParseRig: %v", err)
	}
	data := rig.Data

	if len(data.Bones) != 3 {
		t.Fatalf("bones = %d, want 3", len(data.Bones))
	}
	arm := data.Bones[1]
	if arm.Parent != 0 || arm.X != 10 || arm.Rotation != 90 || arm.Length != 40 {
		t.Errorf("arm = %+v, want parent 0 x 10 rotation 90 length 40", arm)
	}
	hand := data.Bones[2]
	if hand.ScaleX != 2 || hand.ScaleY != 1 {
		t.Errorf("hand scale = (%v, %v), want (2, 1)", hand.ScaleX, hand.ScaleY)
	}
	if hand.InheritRotation || !hand.InheritScale {
		t.Errorf("hand inherit flags = (%v, %v), want (false, true)",
			hand.InheritRotation, hand.InheritScale)
	}

	armSlot := data.Slots[1]
	if armSlot.Blend != skeleton.BlendAdditive {
		t.Errorf("arm slot blend = %v, want additive", armSlot.Blend)
	}
	if armSlot.Color.G != 0.5 {
		t.Errorf("arm slot color G = %v, want 0.5", armSlot.Color.G)
	}

	if len(data.Events) != 1 || data.Events[0].IntValue != 3 || data.Events[0].StringValue != "grass" {
		t.Errorf("event payload = %+v, want int 3 string grass", data.Events[0])
	}
	if len(data.IK) != 1 || data.IK[0].Bone != 2 || data.IK[0].Target != 0 {
		t.Errorf("ik = %+v, want bone 2 target 0", data.IK[0])
	}

	if data.DefaultSkin == nil {
		t.Fatal("default skin not resolved")
	}
	a, ok := data.DefaultSkin.Get(0, "torso")
	if !ok {
		t.Fatal("torso attachment missing from the default skin")
	}
	region, ok := a.(*skeleton.RegionAttachment)
	if !ok {
		t.Fatalf("torso is %T, want region", a)
	}
	if region.Width != 20 || region.Height != 30 || region.Texture != "torso.png" {
		t.Errorf("region = %+v, want 20x30 with torso.png", region)
	}

	m, _ := data.DefaultSkin.Get(1, "sleeve")
	mesh, ok := m.(*skeleton.MeshAttachment)
	if !ok {
		t.Fatalf("sleeve is %T, want mesh", m)
	}
	if mesh.WorldVerticesLength != 8 || len(mesh.Triangles) != 6 {
		t.Errorf("mesh has %d world floats and %d indices, want 8 and 6",
			mesh.WorldVerticesLength, len(mesh.Triangles))
	}
}

func TestParseRigAnimations(t *testing.T) {
	rig, err := ParseRig([]byte(sampleRig))
	if err != nil {
		t.Fatalf("ParseRig: %v", err)
	}

	if rig.Animations.Len() != 2 {
		t.Fatalf("animations = %d, want 2", rig.Animations.Len())
	}
	wave, err := rig.Animations.Get("wave")
	if err != nil {
		t.Fatalf("Get wave: %v", err)
	}
	if wave.Duration != 1 {
		t.Errorf("wave duration = %v, want 1", wave.Duration)
	}
	if len(wave.Timelines) != 3 {
		t.Errorf("wave timelines = %d, want 3", len(wave.Timelines))
	}
	idle, _ := rig.Animations.Get("idle")
	if idle.Duration != 2 {
		t.Errorf("idle duration = %v, want 2", idle.Duration)
	}

	if rig.StateData.DefaultMix != 0.2 {
		t.Errorf("default mix = %v, want 0.2", rig.StateData.DefaultMix)
	}
	if got := rig.StateData.Mix(wave, idle); got != 0.4 {
		t.Errorf("wave->idle mix = %v, want 0.4", got)
	}
	if got := rig.StateData.Mix(idle, wave); got != 0.2 {
		t.Errorf("idle->wave mix = %v, want default 0.2", got)
	}
}

func TestParseRigWrongVersion(t *testing.T) {
	_, err := ParseRig([]byte("version: 99\nbones:\n  - name: root\n"))
	if !errors.Is(err, ErrUnsupportedRigVersion) {
		t.Errorf("err = %v, want ErrUnsupportedRigVersion", err)
	}
}

func TestParseRigInvalidYAML(t *testing.T) {
	_, err := ParseRig([]byte("version: [1"))
	if !errors.Is(err, ErrMalformedRig) {
		t.Errorf("err = %v, want ErrMalformedRig", err)
	}
}

func TestParseRigUnknownBoneReference(t *testing.T) {
	doc := `
version: 1
bones:
  - name: root
slots:
  - {name: body, bone: torso}
`
	_, err := ParseRig([]byte(doc))
	if !errors.Is(err, ErrMalformedRig) {
		t.Errorf("err = %v, want ErrMalformedRig", err)
	}
}

func TestParseRigChildBeforeParent(t *testing.T) {
	doc := `
version: 1
bones:
  - {name: hand, parent: arm}
  - {name: arm, parent: hand}
`
	_, err := ParseRig([]byte(doc))
	if !errors.Is(err, ErrMalformedRig) {
		t.Errorf("err = %v, want ErrMalformedRig", err)
	}
}

func TestParseRigBadGeometry(t *testing.T) {
	doc := `
version: 1
bones:
  - name: root
slots:
  - {name: body, bone: root}
skins:
  - name: default
    attachments:
      - slot: body
        name: patch
        type: mesh
        vertices: [0, 0, 10, 0, 0, 10]
        uvs: [0, 0, 1, 0, 0, 1]
        triangles: [0, 1, 9]
`
	_, err := ParseRig([]byte(doc))
	if !errors.Is(err, skeleton.ErrMalformedGeometry) {
		t.Errorf("err = %v, want skeleton.ErrMalformedGeometry", err)
	}
}

func TestParseRigUnknownTimelineTarget(t *testing.T) {
	doc := `
version: 1
bones:
  - name: root
animations:
  - name: wave
    timelines:
      - type: rotate
        bone: wing
        frames:
          - {time: 0, value: 0}
`
	_, err := ParseRig([]byte(doc))
	if !errors.Is(err, ErrMalformedRig) {
		t.Errorf("err = %v, want ErrMalformedRig", err)
	}
}

func TestParseRigBadCurve(t *testing.T) {
	doc := `
version: 1
bones:
  - name: root
animations:
  - name: wave
    timelines:
      - type: rotate
        bone: root
        frames:
          - {time: 0, value: 0, curve: wobbly}
`
	_, err := ParseRig([]byte(doc))
	if !errors.Is(err, ErrMalformedRig) {
		t.Errorf("err = %v, want ErrMalformedRig", err)
	}
}
