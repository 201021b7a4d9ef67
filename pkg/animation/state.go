package animation

import (
	"fmt"

	"github.com/marrowkit/marrow/pkg/math"
	"github.com/marrowkit/marrow/pkg/skeleton"
)

// infiniteTrackEnd marks entries that never auto-clear: a non-looping
// entry holds its final pose until replaced or cleared.
const infiniteTrackEnd = float32(maxFloat)

// emptyAnimation is the no-op pose a track crossfades to when released
// via SetEmptyAnimation.
var emptyAnimation = &Animation{Name: "<empty>"}

// TrackEntry is the mutable playback state of one animation on one
// track. Fields may be adjusted after SetAnimation/AddAnimation return;
// the mixer reads them on the next Update.
type TrackEntry struct {
	Animation  *Animation
	TrackIndex int
	Loop       bool

	// Delay is, for an entry waiting on an empty track, seconds before
	// playback starts; for a queued entry, the predecessor track time
	// at which the handoff begins (computed by AddAnimation).
	Delay float32

	// TrackTime is the accumulated playback time. Looping entries wrap
	// it at the animation duration; non-looping entries clamp it there.
	TrackTime float32

	// TrackEnd is the track time at which the entry auto-clears.
	// Normal entries never do; entries from SetEmptyAnimation clear
	// once their release fade has finished.
	TrackEnd float32

	TimeScale float32
	Alpha     float32
	MixBlend  MixBlend

	// MixTime and MixDuration drive the crossfade from mixingFrom:
	// weight = clamp(MixTime/MixDuration, 0, 1).
	MixTime     float32
	MixDuration float32

	// Next is the entry queued to take over this track.
	Next *TrackEntry

	mixingFrom        *TrackEntry
	animationLast     float32
	nextAnimationLast float32
	trackLast         float32
	nextTrackLast     float32
	pendingComplete   int
}

// AnimationTime returns the entry's position within its animation:
// TrackTime wrapped for looping entries, clamped at the duration
// otherwise.
func (e *TrackEntry) AnimationTime() float32 {
	d := e.Animation.Duration
	if !e.Loop && e.TrackTime > d {
		return d
	}
	return e.TrackTime
}

// isComplete reports whether a non-looping entry has reached its
// animation's duration. Looping entries never complete; replacing one
// always counts as an interruption.
func (e *TrackEntry) isComplete() bool {
	return !e.Loop && e.TrackTime >= e.Animation.Duration
}

// MixWeight returns the current crossfade weight in [0, 1]: 0 at the
// start of a mix, 1 once the incoming entry fully owns the track.
func (e *TrackEntry) MixWeight() float32 {
	if e.mixingFrom == nil {
		return 1
	}
	if e.MixDuration == 0 {
		return 1
	}
	return math.Clamp(e.MixTime/e.MixDuration, 0, 1)
}

// MixingFrom returns the outgoing entry this entry is crossfading from,
// or nil.
func (e *TrackEntry) MixingFrom() *TrackEntry { return e.mixingFrom }

type queueItem struct {
	typ   EventType
	entry *TrackEntry
	event *Event
}

// State owns the sparse ordered track array, advances time, resolves
// crossfades and applies timeline values onto a skeleton. One State
// drives one skeleton instance from one logical thread of control.
type State struct {
	Data *StateData

	// TimeScale scales every Update delta.
	TimeScale float32

	// Listener receives buffered notifications; see Listener docs for
	// the reentrancy contract.
	Listener Listener

	tracks   []*TrackEntry
	events   []*Event
	queue    []queueItem
	draining bool
	pending  []func()
}

// NewState returns a State for the given mixing configuration.
func NewState(data *StateData) *State {
	return &State{Data: data, TimeScale: 1}
}

// TrackCount returns the length of the track array, including empty
// slots.
func (s *State) TrackCount() int { return len(s.tracks) }

// GetCurrent returns the current entry on a track, or nil.
func (s *State) GetCurrent(trackIndex int) *TrackEntry {
	if trackIndex < 0 || trackIndex >= len(s.tracks) {
		return nil
	}
	return s.tracks[trackIndex]
}

func (s *State) ensureTrack(trackIndex int) {
	if trackIndex < 0 {
		panic(fmt.Sprintf("animation: track index %d out of range", trackIndex))
	}
	for len(s.tracks) <= trackIndex {
		s.tracks = append(s.tracks, nil)
	}
}

func (s *State) newTrackEntry(trackIndex int, anim *Animation, loop bool) *TrackEntry {
	return &TrackEntry{
		Animation:         anim,
		TrackIndex:        trackIndex,
		Loop:              loop,
		TrackEnd:          infiniteTrackEnd,
		TimeScale:         1,
		Alpha:             1,
		MixBlend:          BlendReplace,
		animationLast:     -1,
		nextAnimationLast: -1,
	}
}

// command runs fn now, or defers it when the listener queue is being
// drained, so callbacks never mutate the track array mid-flush.
func (s *State) command(fn func()) {
	if s.draining {
		s.pending = append(s.pending, fn)
		return
	}
	fn()
}

// SetAnimation replaces the track's current entry immediately, with no
// crossfade, and returns the new entry. Use AddAnimation or
// SetEmptyAnimation for smooth transitions.
func (s *State) SetAnimation(trackIndex int, anim *Animation, loop bool) *TrackEntry {
	if anim == nil {
		panic("animation: SetAnimation with nil animation")
	}
	entry := s.newTrackEntry(trackIndex, anim, loop)
	s.command(func() { s.setAnimationEntry(trackIndex, entry) })
	return entry
}

// SetAnimationByName resolves the animation through the state data's
// library; unknown names report a wrapped skeleton.ErrNotFound without
// mutating any track.
func (s *State) SetAnimationByName(trackIndex int, name string, loop bool) (*TrackEntry, error) {
	anim, err := s.Data.Animations.Get(name)
	if err != nil {
		return nil, err
	}
	return s.SetAnimation(trackIndex, anim, loop), nil
}

func (s *State) setAnimationEntry(trackIndex int, entry *TrackEntry) {
	s.ensureTrack(trackIndex)
	current := s.tracks[trackIndex]
	s.tracks[trackIndex] = entry
	if current == nil {
		s.push(EventStart, entry)
		s.drain()
		return
	}
	if !current.isComplete() {
		s.push(EventInterrupt, current)
	}
	s.push(EventEnd, current)
	if from := current.mixingFrom; from != nil {
		// Snap-finish the in-progress fade.
		s.push(EventEnd, from)
		s.push(EventDispose, from)
		current.mixingFrom = nil
	}
	for queued := current.Next; queued != nil; queued = queued.Next {
		s.push(EventDispose, queued)
	}
	current.Next = nil
	s.push(EventStart, entry)
	s.push(EventDispose, current)
	s.drain()
}

// AddAnimation queues an animation to begin after the track's last
// queued entry finishes its remaining duration plus delay seconds. The
// handoff crossfades over the mix duration configured in StateData for
// the animation pair.
func (s *State) AddAnimation(trackIndex int, anim *Animation, loop bool, delay float32) *TrackEntry {
	if anim == nil {
		panic("animation: AddAnimation with nil animation")
	}
	entry := s.newTrackEntry(trackIndex, anim, loop)
	s.command(func() { s.addAnimationEntry(trackIndex, entry, delay) })
	return entry
}

// AddAnimationByName is AddAnimation with a library lookup.
func (s *State) AddAnimationByName(trackIndex int, name string, loop bool, delay float32) (*TrackEntry, error) {
	anim, err := s.Data.Animations.Get(name)
	if err != nil {
		return nil, err
	}
	return s.AddAnimation(trackIndex, anim, loop, delay), nil
}

func (s *State) addAnimationEntry(trackIndex int, entry *TrackEntry, delay float32) {
	s.ensureTrack(trackIndex)
	last := s.tracks[trackIndex]
	if last == nil {
		if delay < 0 {
			delay = 0
		}
		entry.Delay = delay
		s.tracks[trackIndex] = entry
		s.push(EventStart, entry)
		s.drain()
		return
	}
	for last.Next != nil {
		last = last.Next
	}
	last.Next = entry
	entry.MixDuration = s.Data.Mix(last.Animation, entry.Animation)

	// The handoff threshold is an absolute time on the predecessor's
	// track: its remaining duration plus the requested delay, pulled
	// earlier by the mix duration so the fade completes as the
	// predecessor ends.
	duration := last.Animation.Duration
	threshold := duration + delay - entry.MixDuration
	if !last.Loop && last.TrackTime >= duration {
		threshold = last.TrackTime + delay
	}
	if threshold < 0 {
		threshold = 0
	}
	entry.Delay = threshold
}

// SetEmptyAnimation crossfades the track to the no-op pose over
// mixDuration seconds, releasing the track's influence smoothly. The
// track clears itself once the fade finishes.
func (s *State) SetEmptyAnimation(trackIndex int, mixDuration float32) *TrackEntry {
	entry := s.newTrackEntry(trackIndex, emptyAnimation, false)
	entry.MixDuration = mixDuration
	entry.TrackEnd = mixDuration
	s.command(func() { s.setEmptyEntry(trackIndex, entry) })
	return entry
}

func (s *State) setEmptyEntry(trackIndex int, entry *TrackEntry) {
	s.ensureTrack(trackIndex)
	current := s.tracks[trackIndex]
	if current == nil || entry.MixDuration == 0 {
		s.setAnimationEntry(trackIndex, entry)
		return
	}
	s.tracks[trackIndex] = entry
	if from := current.mixingFrom; from != nil {
		// No mix chains: snap-finish the older fade.
		s.push(EventEnd, from)
		s.push(EventDispose, from)
		current.mixingFrom = nil
	}
	entry.mixingFrom = current
	entry.MixTime = 0
	if !current.isComplete() {
		s.push(EventInterrupt, current)
	}
	s.push(EventStart, entry)
	s.drain()
}

// ClearTrack removes the track's current entry. A queued next entry is
// promoted immediately; otherwise the track becomes empty. Events fire
// in the order Interrupt (only if the entry had not completed), End,
// Start (for a promoted entry), Dispose.
func (s *State) ClearTrack(trackIndex int) {
	s.command(func() { s.clearTrackNow(trackIndex) })
}

func (s *State) clearTrackNow(trackIndex int) {
	if trackIndex < 0 || trackIndex >= len(s.tracks) {
		return
	}
	current := s.tracks[trackIndex]
	if current == nil {
		return
	}
	if !current.isComplete() {
		s.push(EventInterrupt, current)
	}
	s.push(EventEnd, current)
	if from := current.mixingFrom; from != nil {
		s.push(EventEnd, from)
		s.push(EventDispose, from)
		current.mixingFrom = nil
	}
	if next := current.Next; next != nil {
		next.Delay = 0
		s.tracks[trackIndex] = next
		s.push(EventStart, next)
	} else {
		s.tracks[trackIndex] = nil
	}
	s.push(EventDispose, current)
	s.drain()
}

// ClearTracks removes every entry from every track.
func (s *State) ClearTracks() {
	s.command(func() {
		for i := range s.tracks {
			s.clearTrackNow(i)
		}
	})
}

// Update advances track times by delta seconds, promotes queued entries
// whose handoff threshold has been reached and advances crossfades.
// Events raised here are buffered; they reach the listener when Apply
// completes the mixing pass.
func (s *State) Update(delta float32) {
	delta *= s.TimeScale
	for i := 0; i < len(s.tracks); i++ {
		current := s.tracks[i]
		if current == nil {
			continue
		}
		current.trackLast = current.nextTrackLast
		current.animationLast = current.nextAnimationLast

		d := delta * current.TimeScale
		if current.Delay > 0 {
			current.Delay -= d
			if current.Delay > 0 {
				continue
			}
			d = -current.Delay
			current.Delay = 0
		}

		if from := current.mixingFrom; from != nil {
			s.advanceEntryTime(from, delta*from.TimeScale)
			from.pendingComplete = 0 // faded-out entries stay silent
			current.MixTime += delta
			if current.MixTime >= current.MixDuration {
				s.push(EventEnd, from)
				s.push(EventDispose, from)
				current.mixingFrom = nil
			}
		}

		if next := current.Next; next != nil {
			threshold := next.Delay
			if current.TrackTime+d >= threshold {
				overshoot := current.TrackTime + d - threshold
				s.advanceEntryTime(current, d)
				s.promote(i, current, next, overshoot)
				continue
			}
		}

		s.advanceEntryTime(current, d)

		if current.TrackTime >= current.TrackEnd && current.mixingFrom == nil && current.Next == nil {
			// A released track has fully faded out.
			s.flushCompletes(current)
			s.push(EventEnd, current)
			s.push(EventDispose, current)
			s.tracks[i] = nil
		}
	}
}

// advanceEntryTime adds d to the entry's track time, wrapping looping
// entries (counting a Complete per wrap) and clamping non-looping ones
// at the duration (counting a single Complete at the crossing).
func (s *State) advanceEntryTime(entry *TrackEntry, d float32) {
	duration := entry.Animation.Duration
	newTime := entry.TrackTime + d
	if entry.Loop && duration > 0 {
		for newTime >= duration {
			newTime -= duration
			entry.pendingComplete++
		}
		entry.TrackTime = newTime
		return
	}
	if duration > 0 && entry.TrackTime < duration && newTime >= duration {
		entry.pendingComplete++
	}
	if entry.TrackEnd == infiniteTrackEnd && newTime > duration {
		newTime = duration
	}
	entry.TrackTime = newTime
}

// promote hands the track over from outgoing to incoming. With a mix
// duration the incoming entry crossfades from the outgoing one; without
// one the replacement is immediate and the outgoing entry ends now.
func (s *State) promote(trackIndex int, outgoing, incoming *TrackEntry, overshoot float32) {
	outgoing.Next = nil
	incoming.Delay = 0
	incoming.TrackTime = overshoot * incoming.TimeScale
	s.tracks[trackIndex] = incoming

	s.flushCompletes(outgoing)
	if !outgoing.isComplete() {
		s.push(EventInterrupt, outgoing)
	}

	if incoming.MixDuration > 0 {
		incoming.mixingFrom = outgoing
		incoming.MixTime = 0
		if from := outgoing.mixingFrom; from != nil {
			// No mix chains: snap-finish the older fade.
			s.push(EventEnd, from)
			s.push(EventDispose, from)
			outgoing.mixingFrom = nil
		}
		s.push(EventStart, incoming)
		return
	}

	s.push(EventEnd, outgoing)
	if from := outgoing.mixingFrom; from != nil {
		s.push(EventEnd, from)
		s.push(EventDispose, from)
		outgoing.mixingFrom = nil
	}
	s.push(EventStart, incoming)
	s.push(EventDispose, outgoing)
}

// flushCompletes queues any Complete notifications counted while
// advancing an entry that will not reach Apply's event pass.
func (s *State) flushCompletes(entry *TrackEntry) {
	for ; entry.pendingComplete > 0; entry.pendingComplete-- {
		s.push(EventComplete, entry)
	}
}

// Apply poses the skeleton from all tracks in ascending index order and
// then flushes buffered events to the listener. It returns whether any
// track applied.
//
// Track 0 blends against the setup pose; higher tracks blend against
// the pose the lower tracks produced, each at its own alpha. During a
// crossfade the outgoing entry applies at weight 1-w and the incoming
// at w.
func (s *State) Apply(skel *skeleton.Skeleton) bool {
	applied := false
	for i, current := range s.tracks {
		if current == nil || current.Delay > 0 {
			continue
		}
		applied = true

		blend := current.MixBlend
		if i == 0 && blend != BlendAdd {
			blend = BlendFirst
		}

		alpha := current.Alpha
		if from := current.mixingFrom; from != nil {
			w := current.MixWeight()
			fromTime := from.AnimationTime()
			from.Animation.Apply(skel, from.animationLast, fromTime, from.Loop, nil,
				from.Alpha*(1-w), blend, MixOut)
			from.animationLast = fromTime
			alpha *= w
		}

		animTime := current.AnimationTime()
		s.events = s.events[:0]
		current.Animation.Apply(skel, current.animationLast, animTime, current.Loop,
			&s.events, alpha, blend, MixIn)
		s.queueEvents(current)
		current.nextAnimationLast = animTime
		current.nextTrackLast = current.TrackTime
	}
	s.drain()
	return applied
}

// queueEvents merges the user events collected by the entry's timelines
// with its pending Complete notifications, keeping keyframe order
// within the track: keys up to the loop boundary, then Complete per
// wrap, then keys after the boundary.
func (s *State) queueEvents(entry *TrackEntry) {
	boundary := entry.animationLast
	i := 0
	for ; i < len(s.events); i++ {
		e := s.events[i]
		if boundary >= 0 && e.Time < boundary {
			break
		}
		s.pushUser(entry, e)
	}
	s.flushCompletes(entry)
	for ; i < len(s.events); i++ {
		s.pushUser(entry, s.events[i])
	}
	s.events = s.events[:0]
}

func (s *State) push(typ EventType, entry *TrackEntry) {
	s.queue = append(s.queue, queueItem{typ: typ, entry: entry})
}

func (s *State) pushUser(entry *TrackEntry, event *Event) {
	s.queue = append(s.queue, queueItem{typ: EventUser, entry: entry, event: event})
}

// drain delivers buffered notifications to the listener in generation
// order, then applies commands the listener deferred.
func (s *State) drain() {
	if s.draining {
		return
	}
	s.draining = true
	for i := 0; i < len(s.queue); i++ {
		item := s.queue[i]
		if s.Listener != nil {
			s.Listener(item.typ, item.entry, item.event)
		}
	}
	s.queue = s.queue[:0]
	s.draining = false

	for len(s.pending) > 0 {
		cmd := s.pending[0]
		s.pending = s.pending[1:]
		cmd()
	}
}
