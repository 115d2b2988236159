// Package clip holds the immutable animation clip data model: keyframe
// sets, clips, named clip sets and the library that owns loaded clips.
//
// Everything in this package is read-only after construction. Invariants
// (timestamps non-decreasing and starting at zero, keyframe count matching
// timestamp count, duration covering the last timestamp) are upheld by the
// producer (the manifest loader); accessors do not re-validate them.
package clip

import "sort"

// AtlasID references a shared tile-atlas resource. Opaque to playback.
type AtlasID string

// ImageID references a standalone image resource. Opaque to playback.
type ImageID string

// Source discriminates the two keyframe payload shapes.
type Source int

const (
	// SourceImages is one standalone image per keyframe.
	SourceImages Source = iota
	// SourceAtlas is a shared atlas plus one tile index per keyframe.
	SourceAtlas
)

// Keyframes is the ordered description of what to show: either an atlas
// reference with tile indices, or a list of discrete images. The zero
// value is the empty discrete-image form.
type Keyframes struct {
	source  Source
	atlas   AtlasID
	indices []int
	images  []ImageID
}

// AtlasKeyframes builds the atlas-indexed variant.
func AtlasKeyframes(atlas AtlasID, indices []int) Keyframes {
	return Keyframes{source: SourceAtlas, atlas: atlas, indices: indices}
}

// ImageKeyframes builds the discrete-image variant.
func ImageKeyframes(images []ImageID) Keyframes {
	return Keyframes{source: SourceImages, images: images}
}

// Source reports which variant this keyframe set holds.
func (k Keyframes) Source() Source { return k.source }

// Len is the number of keyframes.
func (k Keyframes) Len() int {
	if k.source == SourceAtlas {
		return len(k.indices)
	}
	return len(k.images)
}

// Atlas returns the atlas reference. Empty for the image variant.
func (k Keyframes) Atlas() AtlasID { return k.atlas }

// Indices returns the ordered tile indices of the atlas variant.
func (k Keyframes) Indices() []int { return k.indices }

// Images returns the ordered image references of the image variant.
func (k Keyframes) Images() []ImageID { return k.images }

// Frame is one resolved keyframe payload, ready to hand to a render target.
// Exactly one of (Atlas, Index) or Image is meaningful, per Source.
type Frame struct {
	Source Source
	Atlas  AtlasID
	Index  int
	Image  ImageID
}

// Frame resolves the payload of keyframe i. i must be in [0, Len()).
func (k Keyframes) Frame(i int) Frame {
	if k.source == SourceAtlas {
		return Frame{Source: SourceAtlas, Atlas: k.atlas, Index: k.indices[i]}
	}
	return Frame{Source: SourceImages, Image: k.images[i]}
}

// Clip is an immutable keyframe animation: per-keyframe timestamps
// (seconds from clip start), the keyframe set, and the total duration.
// Many players may share one clip; no playback state lives here.
type Clip struct {
	timestamps []float32
	keyframes  Keyframes
	duration   float32
}

// New builds a clip. Preconditions (not checked here, see package doc):
// len(timestamps) == keyframes.Len(), timestamps[0] == 0, timestamps
// non-decreasing, duration >= timestamps[len-1], duration > 0.
func New(timestamps []float32, keyframes Keyframes, duration float32) *Clip {
	return &Clip{timestamps: timestamps, keyframes: keyframes, duration: duration}
}

// Timestamps returns the keyframe timestamps in seconds.
func (c *Clip) Timestamps() []float32 { return c.timestamps }

// Keyframes returns the keyframe set.
func (c *Clip) Keyframes() Keyframes { return c.keyframes }

// Duration returns the total clip length in seconds.
func (c *Clip) Duration() float32 { return c.duration }

// FrameIndexAt maps a cursor time in [0, duration] to the keyframe shown
// at that instant: the last keyframe whose timestamp is <= t.
func (c *Clip) FrameIndexAt(t float32) int {
	i := sort.Search(len(c.timestamps), func(i int) bool {
		return c.timestamps[i] > t
	}) - 1
	if i < 0 {
		i = 0
	}
	return i
}

// Set is a named group of clips, keyed by animation name.
type Set struct {
	name       string
	animations map[string]Handle
}

// NewSet builds a clip set. name may be empty. The map is owned by the
// set after the call.
func NewSet(name string, animations map[string]Handle) *Set {
	return &Set{name: name, animations: animations}
}

// Name returns the optional display name, "" if unset.
func (s *Set) Name() string { return s.name }

// Clip looks up an animation handle by name.
func (s *Set) Clip(name string) (Handle, bool) {
	h, ok := s.animations[name]
	return h, ok
}

// Names lists the animation names in the set, sorted.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.animations))
	for n := range s.animations {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
