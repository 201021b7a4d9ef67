package animation

import "github.com/marrowkit/marrow/pkg/skeleton"

// DrawOrderTimeline keys the slot paint order. Values are stepped; a
// nil order means the setup draw order.
type DrawOrderTimeline struct {
	Frames []float32
	// Orders holds, per frame, the slot index drawn at each position,
	// or nil for the setup order.
	Orders [][]int
}

// NewDrawOrderTimeline allocates a timeline with frameCount keys.
func NewDrawOrderTimeline(frameCount int) *DrawOrderTimeline {
	return &DrawOrderTimeline{
		Frames: make([]float32, frameCount),
		Orders: make([][]int, frameCount),
	}
}

// SetFrame sets the time and draw order of one key. order may be nil
// for the setup order.
func (t *DrawOrderTimeline) SetFrame(frame int, time float32, order []int) {
	t.Frames[frame] = time
	t.Orders[frame] = order
}

// Duration implements Timeline.
func (t *DrawOrderTimeline) Duration() float32 {
	return t.Frames[len(t.Frames)-1]
}

func setupDrawOrder(skel *skeleton.Skeleton) {
	for i := range skel.DrawOrder {
		skel.DrawOrder[i] = i
	}
}

// Apply implements Timeline.
func (t *DrawOrderTimeline) Apply(skel *skeleton.Skeleton, _, time float32, _ *[]*Event, _ float32, blend MixBlend, direction MixDirection) {
	if direction == MixOut && blend == BlendSetup {
		setupDrawOrder(skel)
		return
	}

	if time < t.Frames[0] {
		if blend == BlendSetup || blend == BlendFirst {
			setupDrawOrder(skel)
		}
		return
	}

	frame := linearSearch(t.Frames, time, 1)
	order := t.Orders[frame]
	if order == nil {
		setupDrawOrder(skel)
		return
	}
	copy(skel.DrawOrder, order)
}
