package playback

import (
	"sync"

	"github.com/example/flipbook/internal/clip"
)

// Player is the public control surface for one animated entity. It owns
// exactly one Animation: there is no layering or cross-clip blending.
// Control methods return the player so calls chain, e.g.
// p.Play(run).Repeat().
//
// A Player is not safe for concurrent use; wrap it in a SafePlayer when
// two goroutines drive it.
type Player struct {
	paused    bool
	animation Animation
}

// NewPlayer returns a player in its default stopped state: nothing bound,
// not paused, speed 1.
func NewPlayer() *Player {
	return &Player{animation: newAnimation(clip.Handle{})}
}

// Start plays the clip from scratch, discarding all prior playback state
// (cursor, direction, speed, repeat policy). The paused flag is left as
// is; a paused player stays paused until Resume.
func (p *Player) Start(h clip.Handle) *Player {
	p.animation = newAnimation(h)
	return p
}

// Play behaves as Start unless the same clip is already bound and the
// player is not paused, in which case it is a no-op. Repeated Play calls
// with the same handle never restart a running animation.
func (p *Player) Play(h clip.Handle) *Player {
	if p.animation.clip != h || p.paused {
		p.Start(h)
	}
	return p
}

// Tick is the external per-frame entry point: the caller resolves the
// bound handle and passes the clip's duration (> 0). Paused players do
// not advance.
func (p *Player) Tick(delta, clipDuration float32) {
	if p.paused {
		return
	}
	p.animation.update(delta, clipDuration)
}

// AnimationClip returns the handle of the bound clip, zero if none.
func (p *Player) AnimationClip() clip.Handle { return p.animation.clip }

// IsPlayingClip reports whether h is the bound clip.
func (p *Player) IsPlayingClip(h clip.Handle) bool { return p.animation.clip == h }

// IsFinished reports whether playback is over under the repeat policy.
func (p *Player) IsFinished() bool { return p.animation.IsFinished() }

// IsClipFinished reports whether the cursor has ever reached the clip
// boundary, regardless of the repeat policy. Unlike IsFinished it stays
// true while a looping animation keeps playing.
func (p *Player) IsClipFinished() bool { return p.animation.clipFinished }

// Reverse plays the animation backwards from the current cursor. The
// cursor and completion count are kept.
func (p *Player) Reverse() *Player {
	p.animation.reverse = true
	return p
}

// StopReverse restores forward playback.
func (p *Player) StopReverse() *Player {
	p.animation.reverse = false
	return p
}

// IsReverse reports the reverse flag.
func (p *Player) IsReverse() bool { return p.animation.reverse }

// IsPlaybackReversed reports whether the speed multiplier is negative.
// This is independent of the reverse flag: the two compose, effective
// velocity = speed * (reverse ? -1 : 1).
func (p *Player) IsPlaybackReversed() bool { return p.animation.speed < 0 }

// Repeat sets the policy to RepeatForever. See SetRepeat for the
// general form.
func (p *Player) Repeat() *Player {
	p.animation.repeat = RepeatForever()
	return p
}

// SetRepeat sets the repetition behavior.
func (p *Player) SetRepeat(r Repeat) *Player {
	p.animation.repeat = r
	return p
}

// RepeatMode returns the active repeat policy.
func (p *Player) RepeatMode() Repeat { return p.animation.repeat }

// Completions returns how many full traversals the animation has made.
func (p *Player) Completions() uint32 { return p.animation.completions }

// Pause stops the player from advancing on Tick. Playback state is kept.
func (p *Player) Pause() { p.paused = true }

// Resume lets the player advance again.
func (p *Player) Resume() { p.paused = false }

// IsPaused reports the paused flag.
func (p *Player) IsPaused() bool { return p.paused }

// Speed returns the playback speed multiplier.
func (p *Player) Speed() float32 { return p.animation.speed }

// SetSpeed sets the playback speed multiplier. Negative values move the
// cursor backwards without touching the reverse flag.
func (p *Player) SetSpeed(speed float32) *Player {
	p.animation.speed = speed
	return p
}

// Elapsed returns the total time fed into the animation since it was
// started or replayed, unaffected by speed, direction or looping.
func (p *Player) Elapsed() float32 { return p.animation.elapsed }

// SeekTime returns the clip-local cursor, within [0, clip duration].
func (p *Player) SeekTime() float32 { return p.animation.seekTime }

// SeekTo moves the cursor. The value is not clamped here; the next Tick
// wraps it into range.
func (p *Player) SeekTo(seekTime float32) *Player {
	p.animation.seekTime = seekTime
	return p
}

// Replay rewinds the animation as if no time has elapsed, keeping the
// repeat policy, direction, speed and bound clip.
func (p *Player) Replay() { p.animation.replay() }

// SafePlayer serializes access to a Player that is driven from more than
// one goroutine, such as a tick loop plus a control socket.
type SafePlayer struct {
	mu sync.Mutex
	p  *Player
}

// NewSafePlayer wraps a fresh player.
func NewSafePlayer() *SafePlayer {
	return &SafePlayer{p: NewPlayer()}
}

// With runs f with exclusive access to the player.
func (s *SafePlayer) With(f func(p *Player)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.p)
}
