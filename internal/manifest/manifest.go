// Package manifest loads human-authored YAML animation manifests and
// turns them into clips registered in a clip.Library. All clip
// invariants the playback core relies on are enforced here, at load
// time, so the hot tick path never re-validates.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/flipbook/internal/clip"
)

// Manifest is the on-disk shape of an animation set.
//
//	name: gabe
//	animations:
//	  idle:
//	    keyframe_timestamps: [0.0]
//	    keyframes:
//	      atlas: gabe-idle-run.atlas
//	      indices: [0]
//	    duration: 0.1
//	  run:
//	    keyframes:
//	      atlas: gabe-idle-run.atlas
//	      range: {start: 1, end: 7}
//	    duration: 0.6
type Manifest struct {
	Name       string               `yaml:"name,omitempty"`
	Animations map[string]Animation `yaml:"animations"`
}

// Animation describes one named clip. KeyframeTimestamps may be omitted
// to space the keyframes evenly across the duration.
type Animation struct {
	KeyframeTimestamps []float32 `yaml:"keyframe_timestamps,omitempty"`
	Keyframes          Keyframes `yaml:"keyframes"`
	Duration           float32   `yaml:"duration"`
}

// Keyframes holds either the atlas form (atlas + indices or range) or the
// image form (images). Exactly one form must be present.
type Keyframes struct {
	Atlas   string      `yaml:"atlas,omitempty"`
	Indices []int       `yaml:"indices,omitempty"`
	Range   *IndexRange `yaml:"range,omitempty"`
	Images  []string    `yaml:"images,omitempty"`
}

// IndexRange is shorthand for consecutive atlas indices [Start, End).
type IndexRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Load reads a manifest file, registers its clips in lib and returns the
// resulting set.
func Load(path string, lib *clip.Library) (*clip.Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := Parse(b, lib)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes manifest bytes, registers the clips in lib and returns
// the set. On error nothing useful is in lib.
func Parse(b []byte, lib *clip.Library) (*clip.Set, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if len(m.Animations) == 0 {
		return nil, fmt.Errorf("manifest has no animations")
	}

	handles := make(map[string]clip.Handle, len(m.Animations))
	for name, anim := range m.Animations {
		c, err := buildClip(anim)
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", name, err)
		}
		handles[name] = lib.Add(c)
	}
	return clip.NewSet(m.Name, handles), nil
}

func buildClip(a Animation) (*clip.Clip, error) {
	if a.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %v", a.Duration)
	}

	frames, err := buildKeyframes(a.Keyframes)
	if err != nil {
		return nil, err
	}
	n := frames.Len()
	if n == 0 {
		return nil, fmt.Errorf("no keyframes")
	}

	ts := a.KeyframeTimestamps
	if ts == nil {
		ts = evenTimestamps(n, a.Duration)
	} else if err := checkTimestamps(ts, n, a.Duration); err != nil {
		return nil, err
	}
	return clip.New(ts, frames, a.Duration), nil
}

func buildKeyframes(k Keyframes) (clip.Keyframes, error) {
	atlasForm := k.Atlas != "" || k.Indices != nil || k.Range != nil
	imageForm := len(k.Images) > 0
	switch {
	case atlasForm && imageForm:
		return clip.Keyframes{}, fmt.Errorf("keyframes mix atlas and image forms")
	case imageForm:
		images := make([]clip.ImageID, len(k.Images))
		for i, s := range k.Images {
			images[i] = clip.ImageID(s)
		}
		return clip.ImageKeyframes(images), nil
	case atlasForm:
		if k.Atlas == "" {
			return clip.Keyframes{}, fmt.Errorf("atlas keyframes need an atlas reference")
		}
		if k.Indices != nil && k.Range != nil {
			return clip.Keyframes{}, fmt.Errorf("keyframes give both indices and range")
		}
		indices := k.Indices
		if k.Range != nil {
			if k.Range.End <= k.Range.Start {
				return clip.Keyframes{}, fmt.Errorf("empty index range [%d, %d)", k.Range.Start, k.Range.End)
			}
			indices = make([]int, 0, k.Range.End-k.Range.Start)
			for i := k.Range.Start; i < k.Range.End; i++ {
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 {
			return clip.Keyframes{}, fmt.Errorf("atlas keyframes need indices or a range")
		}
		return clip.AtlasKeyframes(clip.AtlasID(k.Atlas), indices), nil
	}
	return clip.Keyframes{}, fmt.Errorf("keyframes missing")
}

// evenTimestamps spaces n keyframes evenly: frame i starts at i*duration/n.
func evenTimestamps(n int, duration float32) []float32 {
	ts := make([]float32, n)
	step := duration / float32(n)
	for i := range ts {
		ts[i] = float32(i) * step
	}
	return ts
}

func checkTimestamps(ts []float32, n int, duration float32) error {
	if len(ts) != n {
		return fmt.Errorf("%d timestamps for %d keyframes", len(ts), n)
	}
	if ts[0] != 0 {
		return fmt.Errorf("first timestamp must be 0, got %v", ts[0])
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] < ts[i-1] {
			return fmt.Errorf("timestamps decrease at index %d", i)
		}
	}
	if last := ts[len(ts)-1]; duration < last {
		return fmt.Errorf("duration %v is before the last timestamp %v", duration, last)
	}
	return nil
}
