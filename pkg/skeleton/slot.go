package skeleton

// Slot is the live instance of a SlotData: the current attachment, tint
// colors and the deform buffer written by deform timelines.
type Slot struct {
	Data *SlotData

	Color Color
	Dark  *Color // nil unless the slot uses two-color tint

	attachment Attachment

	// Deform holds animated vertex offsets (or replacement positions
	// for rigid attachments). It is cleared whenever the attachment
	// changes, since deform data is only meaningful for the vertex
	// source it was authored against.
	Deform []float32
}

// Attachment returns the current attachment, which may be nil.
func (s *Slot) Attachment() Attachment { return s.attachment }

// SetAttachment replaces the current attachment. Changing attachments
// resets the deform buffer.
func (s *Slot) SetAttachment(a Attachment) {
	if s.attachment == a {
		return
	}
	s.attachment = a
	s.Deform = s.Deform[:0]
}

// SetToSetupPose resets color, dark color and attachment to the
// SlotData defaults. The setup attachment is resolved through the
// skeleton's active skin, so the skeleton performs that part.
func (s *Slot) setToSetupPose() {
	s.Color = s.Data.Color
	if s.Data.Dark != nil {
		dark := *s.Data.Dark
		s.Dark = &dark
	} else {
		s.Dark = nil
	}
}
