package render

import (
	"testing"

	"github.com/marrowkit/marrow/pkg/skeleton"
)

// rigFixture builds a two-slot skeleton: slot 0 shows a 10x10 region
// quad tagged with a texture handle, slot 1 is empty. World transforms
// are current on return.
func rigFixture() *skeleton.Skeleton {
	root := skeleton.NewBoneData(0, "root", -1)
	body := skeleton.NewSlotData(0, "body", 0)
	body.AttachmentName = "quad"
	extra := skeleton.NewSlotData(1, "extra", 0)

	region := skeleton.NewRegionAttachment("quad")
	region.Width = 10
	region.Height = 10
	region.Texture = "atlas-page-0"
	region.UpdateOffset()

	skin := skeleton.NewSkin("default")
	skin.Set(0, "quad", region)

	data := &skeleton.Data{
		Bones:       []*skeleton.BoneData{root},
		Slots:       []*skeleton.SlotData{body, extra},
		Skins:       []*skeleton.Skin{skin},
		DefaultSkin: skin,
	}
	skel := skeleton.New(data)
	skel.UpdateWorldTransform()
	return skel
}

func TestRenderRegionQuad(t *testing.T) {
	skel := rigFixture()
	r := &Renderer{}
	var clipper Clipper

	out := r.Render(skel, &clipper)
	if len(out) != 1 {
		t.Fatalf("renderables = %d, want 1", len(out))
	}
	b := out[0]
	if b.SlotIndex != 0 {
		t.Errorf("slot index = %d, want 0", b.SlotIndex)
	}
	if len(b.Vertices) != 4 || len(b.UVs) != 4 {
		t.Fatalf("quad emitted %d vertices and %d uvs, want 4 each", len(b.Vertices), len(b.UVs))
	}
	want := []uint16{0, 1, 2, 2, 3, 0}
	for i, idx := range b.Indices {
		if idx != want[i] {
			t.Fatalf("indices = %v, want %v", b.Indices, want)
		}
	}
	if b.Texture != "atlas-page-0" {
		t.Errorf("texture handle = %v, want atlas-page-0", b.Texture)
	}

	// A centered 10x10 quad around the origin.
	for _, v := range b.Vertices {
		if v.X < -5.001 || v.X > 5.001 || v.Y < -5.001 || v.Y > 5.001 {
			t.Errorf("vertex %v outside the expected quad bounds", v)
		}
	}
}

func TestRenderColorModulation(t *testing.T) {
	skel := rigFixture()
	skel.Color = skeleton.Color{R: 1, G: 0.5, B: 1, A: 1}
	skel.Slots[0].Color = skeleton.Color{R: 0.5, G: 1, B: 1, A: 0.5}
	r := &Renderer{}
	var clipper Clipper

	out := r.Render(skel, &clipper)
	if len(out) != 1 {
		t.Fatalf("renderables = %d, want 1", len(out))
	}
	c := out[0].Color
	if !approx(c.R, 0.5) || !approx(c.G, 0.5) || !approx(c.B, 1) || !approx(c.A, 0.5) {
		t.Errorf("color = %+v, want R=0.5 G=0.5 B=1 A=0.5", c)
	}
}

func TestRenderSkipsInvisibleSlot(t *testing.T) {
	skel := rigFixture()
	skel.Slots[0].Color.A = 0
	r := &Renderer{}
	var clipper Clipper

	if out := r.Render(skel, &clipper); len(out) != 0 {
		t.Errorf("fully transparent slot emitted %d renderables", len(out))
	}
}

func TestRenderPremultipliedAlpha(t *testing.T) {
	skel := rigFixture()
	skel.Slots[0].Color = skeleton.Color{R: 1, G: 0.5, B: 0, A: 0.5}
	r := &Renderer{PremultipliedAlpha: true}
	var clipper Clipper

	out := r.Render(skel, &clipper)
	c := out[0].Color
	if !approx(c.R, 0.5) || !approx(c.G, 0.25) || !approx(c.B, 0) || !approx(c.A, 0.5) {
		t.Errorf("premultiplied color = %+v, want R=0.5 G=0.25 B=0 A=0.5", c)
	}
}

func TestRenderCullWinding(t *testing.T) {
	skel := rigFixture()
	r := &Renderer{CullDirection: CullCounterClockwise}
	var clipper Clipper

	out := r.Render(skel, &clipper)
	want := []uint16{0, 2, 1, 2, 0, 3}
	for i, idx := range out[0].Indices {
		if idx != want[i] {
			t.Fatalf("reversed indices = %v, want %v", out[0].Indices, want)
		}
	}
}

func TestRenderDarkColorDefault(t *testing.T) {
	skel := rigFixture()
	r := &Renderer{}
	var clipper Clipper

	out := r.Render(skel, &clipper)
	if d := out[0].DarkColor; d.R != 0 || d.G != 0 || d.B != 0 || d.A != 1 {
		t.Errorf("dark color = %+v, want black with A=1", d)
	}

	skel.Slots[0].Dark = &skeleton.Color{R: 0.25, A: 1}
	out = r.Render(skel, &clipper)
	if d := out[0].DarkColor; !approx(d.R, 0.25) {
		t.Errorf("dark color = %+v, want R=0.25", d)
	}
}

func TestRenderClippingLifecycle(t *testing.T) {
	// Slot order: mask (clip start), body (clipped), tail (end slot).
	root := skeleton.NewBoneData(0, "root", -1)
	maskSlot := skeleton.NewSlotData(0, "mask", 0)
	maskSlot.AttachmentName = "mask"
	bodySlot := skeleton.NewSlotData(1, "body", 0)
	bodySlot.AttachmentName = "quad"
	tailSlot := skeleton.NewSlotData(2, "tail", 0)

	region := skeleton.NewRegionAttachment("quad")
	region.Width = 10
	region.Height = 10
	region.UpdateOffset()

	// The clip square covers only x, y in [0, 5]; the quad spans
	// [-5, 5] on both axes, so it must come back clipped.
	mask := &skeleton.ClippingAttachment{EndSlot: tailSlot}
	mask.Name = "mask"
	mask.Vertices = []float32{0, 0, 5, 0, 5, 5, 0, 5}
	mask.WorldVerticesLength = 8

	skin := skeleton.NewSkin("default")
	skin.Set(0, "mask", mask)
	skin.Set(1, "quad", region)

	data := &skeleton.Data{
		Bones:       []*skeleton.BoneData{root},
		Slots:       []*skeleton.SlotData{maskSlot, bodySlot, tailSlot},
		Skins:       []*skeleton.Skin{skin},
		DefaultSkin: skin,
	}
	skel := skeleton.New(data)
	skel.UpdateWorldTransform()

	r := &Renderer{}
	var clipper Clipper
	out := r.Render(skel, &clipper)

	// The mask slot itself emits nothing.
	if len(out) != 1 {
		t.Fatalf("renderables = %d, want 1", len(out))
	}
	for _, v := range out[0].Vertices {
		if v.X < -1e-3 || v.X > 5.001 || v.Y < -1e-3 || v.Y > 5.001 {
			t.Errorf("clipped vertex %v outside the clip square", v)
		}
	}
	if clipper.IsClipping() {
		t.Error("clipper still active after the frame")
	}
}
