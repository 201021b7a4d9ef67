package skeleton

import "github.com/marrowkit/marrow/pkg/math"

// Constraint is an opaque pose modifier applied during world-transform
// propagation. Constraints run in ascending Order, each anchored after a
// specific bone in the update walk so it reads already-updated ancestor
// transforms and writes adjusted transforms before descendants are
// processed. Each Update must be idempotent for a fixed input pose.
type Constraint interface {
	// Order is the position in the constraint list declared by the
	// definition; ties are broken by declaration order.
	Order() int
	// AnchorBone is the index of the last bone that must have an
	// updated world transform before the constraint runs.
	AnchorBone() int
	// Update reads and adjusts bone transforms.
	Update(*Skeleton)
}

// IKConstraintData is the immutable definition of a single-bone aim
// constraint: the bone rotates toward the target bone's world position,
// blended by Mix.
type IKConstraintData struct {
	Name       string
	OrderIndex int
	Bone       int // constrained bone index
	Target     int // target bone index
	Mix        float32
}

// IKConstraint is the live instance of an IKConstraintData. Mix is
// mutable so constraint timelines can animate it.
type IKConstraint struct {
	Data *IKConstraintData
	Mix  float32
}

// NewIKConstraint returns a live constraint at the setup mix.
func NewIKConstraint(data *IKConstraintData) *IKConstraint {
	return &IKConstraint{Data: data, Mix: data.Mix}
}

// Order implements Constraint.
func (c *IKConstraint) Order() int { return c.Data.OrderIndex }

// AnchorBone implements Constraint: the constraint needs both its bone
// and its target updated.
func (c *IKConstraint) AnchorBone() int {
	if c.Data.Target > c.Data.Bone {
		return c.Data.Target
	}
	return c.Data.Bone
}

// SetToSetupPose resets the mix to the definition value.
func (c *IKConstraint) SetToSetupPose() {
	c.Mix = c.Data.Mix
}

// Update rotates the constrained bone toward the target's world
// position, then recomputes the bone's world transform in place so
// descendants (updated later in the walk) see the adjusted pose.
func (c *IKConstraint) Update(s *Skeleton) {
	if c.Mix == 0 {
		return
	}
	bone := &s.Bones[c.Data.Bone]
	target := &s.Bones[c.Data.Target]

	current := bone.WorldRotation()
	want := math.Atan2(target.World.Y-bone.World.Y, target.World.X-bone.World.X) * math.RadDeg
	delta := math.WrapDeg(want - current)

	bone.Rotation += delta * c.Mix
	s.updateBoneWorld(c.Data.Bone)
}
