package animation

import "fmt"

// StateData holds the mixing configuration shared by animation states
// built from the same skeleton definition: the animation library, a
// default crossfade duration and per-pair overrides.
type StateData struct {
	Animations *Library

	// DefaultMix is the crossfade duration in seconds used when no
	// pair-specific duration is set.
	DefaultMix float32

	mixTimes map[mixPair]float32
}

type mixPair struct {
	from, to *Animation
}

// NewStateData returns a StateData for the given animation library.
func NewStateData(animations *Library) *StateData {
	return &StateData{
		Animations: animations,
		mixTimes:   make(map[mixPair]float32),
	}
}

// SetMix sets the crossfade duration for transitioning from one
// animation to another.
func (d *StateData) SetMix(from, to *Animation, duration float32) {
	d.mixTimes[mixPair{from, to}] = duration
}

// SetMixByName sets a crossfade duration by animation names.
func (d *StateData) SetMixByName(from, to string, duration float32) error {
	fromAnim, err := d.Animations.Get(from)
	if err != nil {
		return fmt.Errorf("mix from: %w", err)
	}
	toAnim, err := d.Animations.Get(to)
	if err != nil {
		return fmt.Errorf("mix to: %w", err)
	}
	d.SetMix(fromAnim, toAnim, duration)
	return nil
}

// Mix returns the crossfade duration for a transition, falling back to
// DefaultMix.
func (d *StateData) Mix(from, to *Animation) float32 {
	if from == nil || to == nil {
		return d.DefaultMix
	}
	if duration, ok := d.mixTimes[mixPair{from, to}]; ok {
		return duration
	}
	return d.DefaultMix
}
