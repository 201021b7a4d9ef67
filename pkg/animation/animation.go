// Package animation evaluates keyframed animations and mixes any number
// of concurrently-playing, cross-fading tracks onto a skeleton pose.
//
// Applying an animation at a time T is a pure function of the skeleton
// definition and T composed with prior mix state; wall-clock time never
// enters except through State.Update's delta argument.
package animation

import (
	"github.com/marrowkit/marrow/pkg/math"
	"github.com/marrowkit/marrow/pkg/skeleton"
)

// MixBlend is the policy for combining a timeline's value with the pose
// already established by earlier tracks.
type MixBlend int

// Mix blend modes.
const (
	// BlendSetup overwrites with values blended against the setup pose.
	BlendSetup MixBlend = iota
	// BlendFirst is BlendSetup for the lowest track: unkeyed mixing
	// pulls toward the setup pose instead of the previous frame.
	BlendFirst
	// BlendReplace blends against whatever the lower tracks produced.
	BlendReplace
	// BlendAdd accumulates the keyed delta relative to the setup pose.
	// Accumulation is unclamped; see AddClampPolicy.
	BlendAdd
)

// AddClampPolicy documents the policy for BlendAdd when combined alpha
// across tracks exceeds 1: contributions accumulate unclamped. Hosts
// that need clamping apply it to the final pose.
const AddClampPolicy = "unclamped"

// MixDirection reports whether a timeline is being mixed in or out.
// Attachment and draw-order timelines reset to setup when mixed out.
type MixDirection int

// Mix directions.
const (
	MixIn MixDirection = iota
	MixOut
)

// Timeline binds one property path to a keyframe sequence and applies
// the interpolated value onto the skeleton.
type Timeline interface {
	// Apply writes the timeline's value at time onto the skeleton.
	// lastTime is the previously applied time, used by event timelines
	// to fire keys crossed going forward. alpha weights the value,
	// blend picks the combination policy.
	Apply(skel *skeleton.Skeleton, lastTime, time float32, fired *[]*Event, alpha float32, blend MixBlend, direction MixDirection)

	// Duration returns the time of the last keyframe.
	Duration() float32
}

// Animation is an ordered set of timelines.
type Animation struct {
	Name      string
	Timelines []Timeline
	Duration  float32
}

// New computes the duration from the timelines.
func New(name string, timelines []Timeline) *Animation {
	var duration float32
	for _, t := range timelines {
		if d := t.Duration(); d > duration {
			duration = d
		}
	}
	return &Animation{Name: name, Timelines: timelines, Duration: duration}
}

// Apply poses the skeleton at the given time. A looping animation wraps
// both time and lastTime by the duration.
func (a *Animation) Apply(skel *skeleton.Skeleton, lastTime, time float32, loop bool, fired *[]*Event, alpha float32, blend MixBlend, direction MixDirection) {
	if loop && a.Duration != 0 {
		time = math.Mod(time, a.Duration)
		if lastTime > 0 {
			lastTime = math.Mod(lastTime, a.Duration)
		}
	}
	for _, t := range a.Timelines {
		t.Apply(skel, lastTime, time, fired, alpha, blend, direction)
	}
}

// binarySearch returns the start index (in array units of step) of the
// first frame whose time is after target. Callers ensure
// frames[0] <= target < frames[len-step].
func binarySearch(frames []float32, target float32, step int) int {
	low := 0
	high := len(frames)/step - 2
	if high == 0 {
		return step
	}
	current := high >> 1
	for {
		if frames[(current+1)*step] <= target {
			low = current + 1
		} else {
			high = current
		}
		if low == high {
			return (low + 1) * step
		}
		current = (low + high) >> 1
	}
}

// linearSearch returns the index of the last frame at or before target,
// stepping by step, or -1 when target precedes the first frame.
func linearSearch(frames []float32, target float32, step int) int {
	last := -1
	for i := 0; i < len(frames); i += step {
		if frames[i] > target {
			break
		}
		last = i
	}
	return last
}
