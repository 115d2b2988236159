// Package playback implements the time-stepped playback state machine for
// keyframe clips and the player that drives it. The core is pure
// arithmetic over caller-supplied delta times: no I/O, no goroutines, no
// errors on the per-tick path.
package playback

import (
	"fmt"
	"math"

	"github.com/example/flipbook/internal/clip"
)

type repeatMode uint8

const (
	repeatNever repeatMode = iota
	repeatForever
	repeatCount
)

// Repeat governs how many full traversals of a clip are allowed before
// playback counts as finished. It is a closed set of three behaviors:
// never repeat, repeat forever, or repeat a fixed number of times.
// The zero value is RepeatNever. Comparable with ==.
type Repeat struct {
	mode  repeatMode
	count uint32
}

// RepeatNever plays the clip once.
func RepeatNever() Repeat { return Repeat{} }

// RepeatForever loops the clip without ever finishing.
func RepeatForever() Repeat { return Repeat{mode: repeatForever} }

// RepeatCount plays the clip n times. n must be positive.
func RepeatCount(n uint32) Repeat { return Repeat{mode: repeatCount, count: n} }

// finished reports whether the given completion count satisfies the policy.
func (r Repeat) finished(completions uint32) bool {
	switch r.mode {
	case repeatForever:
		return false
	case repeatCount:
		return completions >= r.count
	case repeatNever:
		return completions >= 1
	}
	return completions >= 1
}

func (r Repeat) String() string {
	switch r.mode {
	case repeatForever:
		return "forever"
	case repeatCount:
		return fmt.Sprintf("count(%d)", r.count)
	}
	return "never"
}

// Animation is the mutable playback cursor over a single bound clip.
// Exactly one Player owns each Animation; it is advanced once per tick.
type Animation struct {
	repeat       Repeat
	reverse      bool
	clipFinished bool
	speed        float32
	elapsed      float32
	seekTime     float32
	clip         clip.Handle
	completions  uint32
}

// newAnimation returns a fresh cursor bound to h, at speed 1, not
// reversed, repeat-never.
func newAnimation(h clip.Handle) Animation {
	return Animation{speed: 1, clip: h}
}

// IsFinished reports whether playback is over under the repeat policy.
// An animation repeating forever never finishes.
func (a *Animation) IsFinished() bool {
	return a.repeat.finished(a.completions)
}

// update advances the cursor by delta seconds of wall-clock time.
// clipDuration must be > 0 (caller contract, not checked here).
//
// The cursor wraps modulo clipDuration, so one call absorbs a delta
// spanning several loops, but completions increments at most once per
// call no matter how many loops were absorbed. Callers relying on exact
// completion counts must tick with deltas below the clip duration.
func (a *Animation) update(delta, clipDuration float32) {
	if a.IsFinished() {
		return
	}

	direction := float32(1)
	if a.reverse {
		direction = -1
	}
	a.elapsed += delta
	a.seekTime += delta * a.speed * direction

	// A forward traversal completes the moment the unwrapped cursor
	// reaches the end; the wrap below then places it back in range. A
	// reversed traversal completes only when the wrapped cursor lands
	// exactly on the start, so undershooting wraps without completing.
	completed := false
	if a.seekTime >= clipDuration {
		completed = !a.reverse
		a.seekTime = float32(math.Mod(float64(a.seekTime), float64(clipDuration)))
	} else if a.seekTime < 0 {
		a.seekTime += clipDuration
	}
	if a.reverse && a.seekTime <= 0 {
		completed = true
		a.seekTime = clipDuration
	}

	if completed {
		a.completions++
		a.clipFinished = true
	}
}

// replay resets the cursor as if no time has elapsed. The repeat policy,
// direction, speed and bound clip are untouched.
func (a *Animation) replay() {
	a.completions = 0
	a.elapsed = 0
	a.seekTime = 0
}
