package skeleton

import "github.com/marrowkit/marrow/pkg/math"

// Bone is the live instance of a BoneData: a mutable local transform
// written by the animation mixer each frame, and a world transform
// computed by top-down propagation. The world transform is valid only
// after a full Skeleton.UpdateWorldTransform pass since the last local
// mutation; never read it mid-propagation.
type Bone struct {
	Data *BoneData

	// Local transform, reset to the setup pose at the start of each
	// pose application.
	X, Y           float32
	Rotation       float32 // degrees
	ScaleX, ScaleY float32
	ShearX, ShearY float32

	// World is the bone's transform in skeleton root space.
	World math.Affine
}

// SetToSetupPose resets the local transform to the BoneData defaults.
func (b *Bone) SetToSetupPose() {
	d := b.Data
	b.X, b.Y = d.X, d.Y
	b.Rotation = d.Rotation
	b.ScaleX, b.ScaleY = d.ScaleX, d.ScaleY
	b.ShearX, b.ShearY = d.ShearX, d.ShearY
}

// localLinear returns the 2x2 linear part of the local transform,
// composing rotation, shear and scale.
func (b *Bone) localLinear() (la, lb, lc, ld float32) {
	rotX := (b.Rotation + b.ShearX) * math.DegRad
	rotY := (b.Rotation + 90 + b.ShearY) * math.DegRad
	la = math.Cos(rotX) * b.ScaleX
	lb = math.Cos(rotY) * b.ScaleY
	lc = math.Sin(rotX) * b.ScaleX
	ld = math.Sin(rotY) * b.ScaleY
	return
}

// updateWorldTransform composes the local transform onto the parent's
// world transform. parent is nil for the root, in which case the
// skeleton-level position, scale and flip apply directly.
//
// Position always inherits the full parent transform; the linear part
// honors the InheritRotation and InheritScale flags.
func (b *Bone) updateWorldTransform(skel *Skeleton, parent *Bone) {
	la, lb, lc, ld := b.localLinear()

	if parent == nil {
		sx, sy := skel.ScaleX, skel.ScaleY
		b.World = math.Affine{
			A: sx * la, B: sx * lb, X: skel.X + b.X*sx,
			C: sy * lc, D: sy * ld, Y: skel.Y + b.Y*sy,
		}
		return
	}

	p := parent.World
	wx := p.A*b.X + p.B*b.Y + p.X
	wy := p.C*b.X + p.D*b.Y + p.Y

	pa, pb, pc, pd := p.A, p.B, p.C, p.D
	d := b.Data
	switch {
	case d.InheritRotation && d.InheritScale:
		// Full inheritance, nothing to strip.
	case !d.InheritRotation && !d.InheritScale:
		// Translation only: the linear part sees just the skeleton flip.
		pa, pb, pc, pd = skel.ScaleX, 0, 0, skel.ScaleY
	case !d.InheritRotation:
		// Strip the parent's rotation, keep its scale: rotate the
		// parent linear part back by its world rotation.
		rad := -p.Rotation() * math.DegRad
		cos, sin := math.Cos(rad), math.Sin(rad)
		pa, pb, pc, pd =
			cos*p.A-sin*p.C, cos*p.B-sin*p.D,
			sin*p.A+cos*p.C, sin*p.B+cos*p.D
	default:
		// Strip the parent's scale, keep rotation and reflection:
		// normalize the columns, preserving the determinant sign.
		sx, sy := p.ScaleX(), p.ScaleY()
		if sx != 0 {
			pa, pc = p.A/sx, p.C/sx
		}
		if sy != 0 {
			pb, pd = p.B/sy, p.D/sy
		}
	}

	b.World = math.Affine{
		A: pa*la + pb*lc, B: pa*lb + pb*ld, X: wx,
		C: pc*la + pd*lc, D: pc*lb + pd*ld, Y: wy,
	}
}

// WorldRotation returns the world rotation of the bone's X axis in
// degrees.
func (b *Bone) WorldRotation() float32 {
	return b.World.Rotation()
}

// WorldToLocal converts a world-space point into this bone's local
// coordinate space.
func (b *Bone) WorldToLocal(world math.Vec2) math.Vec2 {
	return b.World.Invert().Apply(world)
}

// LocalToWorld converts a local point into skeleton root space.
func (b *Bone) LocalToWorld(local math.Vec2) math.Vec2 {
	return b.World.Apply(local)
}
