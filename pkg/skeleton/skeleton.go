package skeleton

import (
	"fmt"
	"sort"
)

// Skeleton is one live instance of a Data: an arena of bones in
// topological order, slots in setup order plus a mutable draw order,
// live constraints and the active skin.
//
// A Skeleton is driven by exactly one logical thread of control per
// frame; the shared Data may be read by many instances concurrently.
type Skeleton struct {
	Data *Data

	Bones       []Bone
	Slots       []Slot
	DrawOrder   []int // slot indices, paint order
	Constraints []Constraint

	Skin  *Skin
	Color Color

	// Skeleton-level transform applied to the root bones: position,
	// scale and axis flip (negative scale).
	X, Y           float32
	ScaleX, ScaleY float32

	// updateCache interleaves bone and constraint updates: a step with
	// constraint == nil updates Bones[bone]; otherwise it runs the
	// constraint.
	updateCache []updateStep
}

type updateStep struct {
	bone       int
	constraint Constraint
}

// New builds a live skeleton from an immutable definition and resets it
// to the setup pose. World transforms are not yet computed; call
// UpdateWorldTransform before reading them.
func New(data *Data) *Skeleton {
	s := &Skeleton{
		Data:   data,
		Bones:  make([]Bone, len(data.Bones)),
		Slots:  make([]Slot, len(data.Slots)),
		Color:  White,
		ScaleX: 1,
		ScaleY: 1,
		Skin:   data.DefaultSkin,
	}
	for i, bd := range data.Bones {
		s.Bones[i].Data = bd
	}
	s.DrawOrder = make([]int, len(data.Slots))
	for i, sd := range data.Slots {
		s.Slots[i].Data = sd
		s.DrawOrder[i] = i
	}
	s.Constraints = make([]Constraint, 0, len(data.IK))
	for _, ik := range data.IK {
		s.Constraints = append(s.Constraints, NewIKConstraint(ik))
	}
	s.buildUpdateCache()
	s.SetToSetupPose()
	return s
}

// buildUpdateCache merges bones (in declaration order, parents first)
// with constraints at their anchor positions.
func (s *Skeleton) buildUpdateCache() {
	constraints := append([]Constraint(nil), s.Constraints...)
	sort.SliceStable(constraints, func(i, j int) bool {
		return constraints[i].Order() < constraints[j].Order()
	})
	s.updateCache = s.updateCache[:0]
	for i := range s.Bones {
		s.updateCache = append(s.updateCache, updateStep{bone: i})
		for _, c := range constraints {
			if c.AnchorBone() == i {
				s.updateCache = append(s.updateCache, updateStep{constraint: c})
			}
		}
	}
}

// SetToSetupPose resets bones, slots, draw order and constraints to the
// authored defaults.
func (s *Skeleton) SetToSetupPose() {
	s.SetBonesToSetupPose()
	s.SetSlotsToSetupPose()
}

// SetBonesToSetupPose resets bone local transforms and constraint
// parameters.
func (s *Skeleton) SetBonesToSetupPose() {
	for i := range s.Bones {
		s.Bones[i].SetToSetupPose()
	}
	for _, c := range s.Constraints {
		if ik, ok := c.(*IKConstraint); ok {
			ik.SetToSetupPose()
		}
	}
}

// SetSlotsToSetupPose resets slot colors, attachments and draw order.
func (s *Skeleton) SetSlotsToSetupPose() {
	for i := range s.Slots {
		slot := &s.Slots[i]
		slot.setToSetupPose()
		slot.SetAttachment(nil)
		if name := slot.Data.AttachmentName; name != "" {
			if a, ok := s.Attachment(i, name); ok {
				slot.SetAttachment(a)
			}
		}
		s.DrawOrder[i] = i
	}
}

// UpdateWorldTransform performs the single top-down propagation pass:
// parents strictly before children, constraints interleaved at their
// anchor positions. After it returns, every bone's World is valid for
// the current local pose.
func (s *Skeleton) UpdateWorldTransform() {
	for _, step := range s.updateCache {
		if step.constraint != nil {
			step.constraint.Update(s)
			continue
		}
		s.updateBoneWorld(step.bone)
	}
}

// updateBoneWorld recomputes one bone's world transform from its parent,
// which must already be up to date.
func (s *Skeleton) updateBoneWorld(index int) {
	bone := &s.Bones[index]
	var parent *Bone
	if p := bone.Data.Parent; p >= 0 {
		parent = &s.Bones[p]
	}
	bone.updateWorldTransform(s, parent)
}

// FindBone returns the live bone with the given name.
func (s *Skeleton) FindBone(name string) (*Bone, bool) {
	if bd, ok := s.Data.FindBone(name); ok {
		return &s.Bones[bd.Index], true
	}
	return nil, false
}

// FindSlot returns the live slot with the given name.
func (s *Skeleton) FindSlot(name string) (*Slot, bool) {
	if sd, ok := s.Data.FindSlot(name); ok {
		return &s.Slots[sd.Index], true
	}
	return nil, false
}

// FindIKConstraint returns the live IK constraint with the given name.
func (s *Skeleton) FindIKConstraint(name string) (*IKConstraint, bool) {
	for _, c := range s.Constraints {
		if ik, ok := c.(*IKConstraint); ok && ik.Data.Name == name {
			return ik, true
		}
	}
	return nil, false
}

// Attachment resolves an attachment by slot index and name through the
// active skin, falling back to the default skin.
func (s *Skeleton) Attachment(slotIndex int, name string) (Attachment, bool) {
	if s.Skin != nil {
		if a, ok := s.Skin.Get(slotIndex, name); ok {
			return a, true
		}
	}
	if s.Data.DefaultSkin != nil && s.Skin != s.Data.DefaultSkin {
		if a, ok := s.Data.DefaultSkin.Get(slotIndex, name); ok {
			return a, true
		}
	}
	return nil, false
}

// SetSkin activates a skin. Slots whose current attachment came from
// the previous skin are re-resolved under the new skin; passing nil
// reverts to the default skin only.
func (s *Skeleton) SetSkin(skin *Skin) {
	s.Skin = skin
	if skin == nil {
		return
	}
	for i := range s.Slots {
		slot := &s.Slots[i]
		name := slot.Data.AttachmentName
		if name == "" {
			continue
		}
		if a, ok := skin.Get(i, name); ok {
			slot.SetAttachment(a)
		}
	}
}

// SetSkinByName activates the named skin, or reports ErrNotFound.
func (s *Skeleton) SetSkinByName(name string) error {
	skin, ok := s.Data.FindSkin(name)
	if !ok {
		return fmt.Errorf("skin %q: %w", name, ErrNotFound)
	}
	s.SetSkin(skin)
	return nil
}

// SetAttachment sets a slot's attachment by name, or clears it when
// attachmentName is empty. Unknown slots or attachments report
// ErrNotFound without mutating state.
func (s *Skeleton) SetAttachment(slotName, attachmentName string) error {
	slot, ok := s.FindSlot(slotName)
	if !ok {
		return fmt.Errorf("slot %q: %w", slotName, ErrNotFound)
	}
	if attachmentName == "" {
		slot.SetAttachment(nil)
		return nil
	}
	a, ok := s.Attachment(slot.Data.Index, attachmentName)
	if !ok {
		return fmt.Errorf("attachment %q on slot %q: %w", attachmentName, slotName, ErrNotFound)
	}
	slot.SetAttachment(a)
	return nil
}
