package animation

import "github.com/marrowkit/marrow/pkg/skeleton"

// EventType classifies a track notification delivered to the listener.
type EventType int

// Track notification types.
const (
	// EventStart fires when an entry becomes current on a track.
	EventStart EventType = iota
	// EventInterrupt fires when an entry is cut short by a replacement
	// or clear before it completed.
	EventInterrupt
	// EventEnd fires when an entry stops affecting the pose. It
	// precedes Start of an immediate replacement and follows the mix
	// for a crossfaded one.
	EventEnd
	// EventComplete fires each time an entry's time reaches its
	// animation's duration: once for non-looping entries, once per
	// wrap for looping ones.
	EventComplete
	// EventDispose is the final notification for an entry.
	EventDispose
	// EventUser carries a keyed user event payload.
	EventUser
)

// String returns the notification name.
func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventInterrupt:
		return "interrupt"
	case EventEnd:
		return "end"
	case EventComplete:
		return "complete"
	case EventDispose:
		return "dispose"
	case EventUser:
		return "event"
	}
	return "unknown"
}

// Event is a fired user event: the keyed payload plus the key time.
// Payload fields default to the EventData values and may be overridden
// per key.
type Event struct {
	Data *skeleton.EventData
	Time float32

	IntValue    int32
	FloatValue  float32
	StringValue string
	Volume      float32
	Balance     float32
}

// NewEvent returns an event at the given time with the payload defaults
// copied from data.
func NewEvent(data *skeleton.EventData, time float32) *Event {
	return &Event{
		Data:        data,
		Time:        time,
		IntValue:    data.IntValue,
		FloatValue:  data.FloatValue,
		StringValue: data.StringValue,
		Volume:      data.Volume,
		Balance:     data.Balance,
	}
}

// Listener receives buffered track notifications after each mixing pass.
// event is non-nil only for EventUser. Callbacks run against read-only
// track state: track-mutating State calls made inside a callback are
// deferred and applied after the flush completes.
type Listener func(typ EventType, entry *TrackEntry, event *Event)

// EventTimeline fires user events as track time crosses their key
// timestamps going forward, including across a loop wrap, but never
// retroactively after a backward time jump.
type EventTimeline struct {
	Frames []float32
	Events []*Event
}

// NewEventTimeline allocates a timeline with frameCount keys.
func NewEventTimeline(frameCount int) *EventTimeline {
	return &EventTimeline{
		Frames: make([]float32, frameCount),
		Events: make([]*Event, frameCount),
	}
}

// SetFrame sets one keyed event; the frame time is taken from the
// event's Time.
func (t *EventTimeline) SetFrame(frame int, event *Event) {
	t.Frames[frame] = event.Time
	t.Events[frame] = event
}

// Duration implements Timeline.
func (t *EventTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-1]
}

// Apply implements Timeline. Events with lastTime < key time <= time
// are appended to fired in keyframe order. A lastTime greater than time
// signals a loop wrap: keys after lastTime fire first, then keys from
// the loop start up to time.
func (t *EventTimeline) Apply(skel *skeleton.Skeleton, lastTime, time float32, fired *[]*Event, alpha float32, blend MixBlend, direction MixDirection) {
	if fired == nil {
		return
	}
	frames := t.Frames
	frameCount := len(frames)

	if lastTime > time {
		// Wrapped: fire the tail of the previous loop first.
		t.Apply(skel, lastTime, float32(maxFloat), fired, alpha, blend, direction)
		lastTime = -1
	} else if lastTime >= frames[frameCount-1] {
		return
	}
	if time < frames[0] {
		return
	}

	frame := 0
	if lastTime >= frames[0] {
		frame = binarySearch(frames, lastTime, 1)
	}
	for ; frame < frameCount && time >= frames[frame]; frame++ {
		*fired = append(*fired, t.Events[frame])
	}
}

const maxFloat = 3.4028234e38
