// Package stage connects players to render targets. It is the
// per-tick driver the host engine loop calls: resolve each player's
// clip, advance the player, sample the keyframe under the cursor and
// hand the payload to the target.
package stage

import (
	"github.com/example/flipbook/internal/clip"
	"github.com/example/flipbook/internal/playback"
)

// Target is the visual a player animates. Apply receives the resolved
// keyframe payload whenever the shown keyframe may have changed.
type Target interface {
	Apply(f clip.Frame)
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(f clip.Frame)

// Apply calls fn(f).
func (fn TargetFunc) Apply(f clip.Frame) { fn(f) }

type actor struct {
	player *playback.Player
	target Target
}

// Stage owns the (player, target) pairs and the clip library they read.
// Single goroutine use; the host loop calls Tick once per frame.
type Stage struct {
	lib    *clip.Library
	actors []actor
}

// New returns a stage reading clips from lib.
func New(lib *clip.Library) *Stage {
	return &Stage{lib: lib}
}

// Add registers a player driving a target and returns the player for
// chaining control calls.
func (s *Stage) Add(p *playback.Player, t Target) *playback.Player {
	s.actors = append(s.actors, actor{player: p, target: t})
	return p
}

// Tick advances every player by dt seconds and applies the sampled
// keyframes. Players whose handle does not resolve are skipped, so a
// player may be pointed at a clip before it is loaded.
func (s *Stage) Tick(dt float32) {
	for _, a := range s.actors {
		c, ok := s.lib.Get(a.player.AnimationClip())
		if !ok {
			continue
		}
		a.player.Tick(dt, c.Duration())
		if a.target != nil {
			i := c.FrameIndexAt(a.player.SeekTime())
			a.target.Apply(c.Keyframes().Frame(i))
		}
	}
}
