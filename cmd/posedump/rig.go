package main

import (
	"image"
	"image/color"

	"github.com/marrowkit/marrow/pkg/animation"
	"github.com/marrowkit/marrow/pkg/skeleton"
)

// Bone and slot indices of the built-in demo rig.
const (
	boneRoot = iota
	boneHip
	boneTorso
	boneArm
	boneHead
	boneGaze
)

const (
	slotMask = iota
	slotTorso
	slotArm
	slotHead
)

// buildRig assembles a small humanoid rig entirely in code: a hip/torso
// chain with one arm and a head, a clip mask over the body, an IK gaze
// constraint on the head, and two animations ("walk" and "wave") with
// user events on both.
func buildRig() (*skeleton.Data, *animation.Library) {
	data := &skeleton.Data{
		Hash:    "posedump-demo",
		Version: "1.0",
		Width:   120,
		Height:  180,
	}

	root := skeleton.NewBoneData(boneRoot, "root", -1)
	hip := skeleton.NewBoneData(boneHip, "hip", boneRoot)
	hip.Y = 60
	torso := skeleton.NewBoneData(boneTorso, "torso", boneHip)
	torso.Length = 50
	torso.Rotation = 90
	arm := skeleton.NewBoneData(boneArm, "arm", boneTorso)
	arm.Length = 40
	arm.X = 45
	arm.Rotation = -90
	head := skeleton.NewBoneData(boneHead, "head", boneTorso)
	head.X = 55
	gaze := skeleton.NewBoneData(boneGaze, "gaze", boneRoot)
	gaze.X = 60
	gaze.Y = 130
	data.Bones = []*skeleton.BoneData{root, hip, torso, arm, head, gaze}

	maskSlot := skeleton.NewSlotData(slotMask, "mask", boneHip)
	torsoSlot := skeleton.NewSlotData(slotTorso, "torso", boneTorso)
	torsoSlot.AttachmentName = "torso"
	armSlot := skeleton.NewSlotData(slotArm, "arm", boneArm)
	armSlot.AttachmentName = "arm"
	armSlot.Blend = skeleton.BlendNormal
	headSlot := skeleton.NewSlotData(slotHead, "head", boneHead)
	headSlot.AttachmentName = "head"
	data.Slots = []*skeleton.SlotData{maskSlot, torsoSlot, armSlot, headSlot}

	data.Events = []*skeleton.EventData{
		{Name: "footstep", Volume: 1},
		{Name: "wave-peak", IntValue: 1, Volume: 1},
	}

	data.IK = []*skeleton.IKConstraintData{
		{Name: "gaze", Bone: boneHead, Target: boneGaze, Mix: 0.4},
	}

	data.DefaultSkin = buildDefaultSkin(headSlot)
	data.Skins = []*skeleton.Skin{data.DefaultSkin}

	library := animation.NewLibrary(buildWalk(data), buildWave(data))
	return data, library
}

func buildDefaultSkin(headSlot *skeleton.SlotData) *skeleton.Skin {
	skin := skeleton.NewSkin("default")

	torso := skeleton.NewRegionAttachment("torso")
	torso.Width = 40
	torso.Height = 56
	torso.X = 25
	torso.Rotation = -90
	torso.UpdateOffset()
	torso.SetUVs(0, 0, 1, 1, false)
	torso.Texture = checkerTexture(color.NRGBA{R: 90, G: 140, B: 220, A: 255})
	skin.Set(slotTorso, "torso", torso)

	arm := skeleton.NewRegionAttachment("arm")
	arm.Width = 14
	arm.Height = 42
	arm.X = 20
	arm.Rotation = -90
	arm.UpdateOffset()
	arm.SetUVs(0, 0, 1, 1, false)
	arm.Texture = checkerTexture(color.NRGBA{R: 220, G: 170, B: 120, A: 255})
	skin.Set(slotArm, "arm", arm)

	// The head is a diamond mesh so the mesh path gets exercised too.
	headMesh := skeleton.NewMeshAttachment("head")
	headMesh.Vertices = []float32{0, -16, 14, 0, 0, 16, -14, 0}
	headMesh.WorldVerticesLength = 8
	headMesh.UVs = []float32{0.5, 1, 1, 0.5, 0.5, 0, 0, 0.5}
	headMesh.Triangles = []uint16{0, 1, 2, 2, 3, 0}
	headMesh.HullLength = 8
	headMesh.Texture = checkerTexture(color.NRGBA{R: 230, G: 200, B: 160, A: 255})
	skin.Set(slotHead, "head", headMesh)

	// A broad clip quad over the body; everything up to the head slot
	// is clipped against it.
	mask := &skeleton.ClippingAttachment{EndSlot: headSlot}
	mask.Name = "mask"
	mask.Vertices = []float32{-60, -70, 60, -70, 60, 90, -60, 90}
	mask.WorldVerticesLength = 8
	skin.Set(slotMask, "mask", mask)

	return skin
}

// buildWalk is a one second looping walk cycle: the arm swings, the hip
// bobs and a footstep event fires at each ground contact.
func buildWalk(data *skeleton.Data) *animation.Animation {
	armSwing := animation.NewRotateTimeline(boneArm, 3)
	armSwing.SetFrame(0, 0, 25)
	armSwing.SetFrame(1, 0.5, -25)
	armSwing.SetFrame(2, 1, 25)

	hipBob := animation.NewTranslateTimeline(boneHip, 5)
	hipBob.SetFrame(0, 0, 0, 0)
	hipBob.SetFrame(1, 0.25, 0, 3)
	hipBob.SetFrame(2, 0.5, 0, 0)
	hipBob.SetFrame(3, 0.75, 0, 3)
	hipBob.SetFrame(4, 1, 0, 0)

	footstep, _ := data.FindEvent("footstep")
	steps := animation.NewEventTimeline(2)
	steps.SetFrame(0, animation.NewEvent(footstep, 0.25))
	steps.SetFrame(1, animation.NewEvent(footstep, 0.75))

	return animation.New("walk", []animation.Timeline{armSwing, hipBob, steps})
}

// buildWave raises the arm, holds it at the top twice and tints the
// head while the arm is up.
func buildWave(data *skeleton.Data) *animation.Animation {
	armWave := animation.NewRotateTimeline(boneArm, 5)
	armWave.SetFrame(0, 0, 0)
	armWave.SetFrame(1, 0.3, 150)
	armWave.SetFrame(2, 0.6, 110)
	armWave.SetFrame(3, 0.9, 150)
	armWave.SetFrame(4, 1.2, 0)

	headTint := animation.NewColorTimeline(slotHead, 3)
	headTint.SetFrame(0, 0, skeleton.White)
	headTint.SetFrame(1, 0.6, skeleton.Color{R: 1, G: 0.85, B: 0.85, A: 1})
	headTint.SetFrame(2, 1.2, skeleton.White)

	wavePeak, _ := data.FindEvent("wave-peak")
	peak := animation.NewEventTimeline(1)
	peak.SetFrame(0, animation.NewEvent(wavePeak, 0.6))

	return animation.New("wave", []animation.Timeline{armWave, headTint, peak})
}

// checkerTexture builds an 8x8 two-tone checker so UV interpolation is
// visible in the output.
func checkerTexture(base color.NRGBA) *image.NRGBA {
	const size = 8
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	dim := color.NRGBA{
		R: base.R - base.R/4,
		G: base.G - base.G/4,
		B: base.B - base.B/4,
		A: base.A,
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/2+y/2)%2 == 0 {
				img.SetNRGBA(x, y, base)
			} else {
				img.SetNRGBA(x, y, dim)
			}
		}
	}
	return img
}
