package skeleton

// Skin is a named remapping of which attachment is active per slot. It
// swaps outfits or variants without touching bone structure. Lookups
// that miss fall back to the skeleton's default skin.
type Skin struct {
	Name        string
	attachments map[skinKey]Attachment
}

type skinKey struct {
	slot int
	name string
}

// NewSkin returns an empty skin.
func NewSkin(name string) *Skin {
	return &Skin{Name: name, attachments: make(map[skinKey]Attachment)}
}

// Set registers an attachment under the given slot index and name.
func (s *Skin) Set(slotIndex int, name string, attachment Attachment) {
	s.attachments[skinKey{slotIndex, name}] = attachment
}

// Get returns the attachment registered for the slot index and name.
func (s *Skin) Get(slotIndex int, name string) (Attachment, bool) {
	a, ok := s.attachments[skinKey{slotIndex, name}]
	return a, ok
}

// AddAll copies every attachment from other into s. Existing entries are
// kept, matching the convention that a custom skin overrides the base.
func (s *Skin) AddAll(other *Skin) {
	for key, a := range other.attachments {
		if _, exists := s.attachments[key]; !exists {
			s.attachments[key] = a
		}
	}
}

// Len returns the number of registered attachments.
func (s *Skin) Len() int { return len(s.attachments) }

// Range calls fn for every registered attachment. Iteration order is
// unspecified.
func (s *Skin) Range(fn func(slotIndex int, name string, attachment Attachment)) {
	for key, a := range s.attachments {
		fn(key.slot, key.name, a)
	}
}
