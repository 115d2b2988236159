package manifest_test

import (
	"testing"

	"github.com/example/flipbook/internal/clip"
	"github.com/example/flipbook/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gabe = `
name: gabe
animations:
  idle:
    keyframe_timestamps: [0.0]
    keyframes:
      atlas: gabe-idle-run.atlas
      indices: [0]
    duration: 0.1
  run:
    keyframes:
      atlas: gabe-idle-run.atlas
      range: {start: 1, end: 7}
    duration: 0.6
  blink:
    keyframes:
      images: [blink0.png, blink1.png]
    duration: 0.2
`

func TestParseSet(t *testing.T) {
	lib := clip.NewLibrary()
	set, err := manifest.Parse([]byte(gabe), lib)
	require.NoError(t, err)

	assert.Equal(t, "gabe", set.Name())
	assert.Equal(t, []string{"blink", "idle", "run"}, set.Names())
	assert.Equal(t, 3, lib.Len())

	h, ok := set.Clip("run")
	require.True(t, ok)
	run, ok := lib.Get(h)
	require.True(t, ok)

	// Range shorthand expands to consecutive indices.
	assert.Equal(t, clip.SourceAtlas, run.Keyframes().Source())
	assert.Equal(t, clip.AtlasID("gabe-idle-run.atlas"), run.Keyframes().Atlas())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, run.Keyframes().Indices())

	// Omitted timestamps are spaced evenly across the duration.
	assert.InDeltaSlice(t,
		[]float32{0, 0.1, 0.2, 0.3, 0.4, 0.5},
		run.Timestamps(), 1e-6)
	assert.Equal(t, float32(0.6), run.Duration())

	h, ok = set.Clip("blink")
	require.True(t, ok)
	blink, ok := lib.Get(h)
	require.True(t, ok)
	assert.Equal(t, clip.SourceImages, blink.Keyframes().Source())
	assert.Equal(t, []clip.ImageID{"blink0.png", "blink1.png"}, blink.Keyframes().Images())
}

func TestParseRejectsBadManifests(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", `name: x`},
		{"zero duration", `
animations:
  a:
    keyframes: {images: [a.png]}
    duration: 0
`},
		{"no keyframes", `
animations:
  a:
    keyframes: {}
    duration: 1
`},
		{"mixed forms", `
animations:
  a:
    keyframes: {atlas: t.atlas, indices: [0], images: [a.png]}
    duration: 1
`},
		{"indices and range", `
animations:
  a:
    keyframes: {atlas: t.atlas, indices: [0], range: {start: 0, end: 2}}
    duration: 1
`},
		{"empty range", `
animations:
  a:
    keyframes: {atlas: t.atlas, range: {start: 3, end: 3}}
    duration: 1
`},
		{"timestamp count mismatch", `
animations:
  a:
    keyframe_timestamps: [0.0, 0.1]
    keyframes: {images: [a.png]}
    duration: 1
`},
		{"first timestamp nonzero", `
animations:
  a:
    keyframe_timestamps: [0.1, 0.2]
    keyframes: {images: [a.png, b.png]}
    duration: 1
`},
		{"decreasing timestamps", `
animations:
  a:
    keyframe_timestamps: [0.0, 0.5, 0.25]
    keyframes: {images: [a.png, b.png, c.png]}
    duration: 1
`},
		{"duration before last timestamp", `
animations:
  a:
    keyframe_timestamps: [0.0, 0.9]
    keyframes: {images: [a.png, b.png]}
    duration: 0.5
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tc.in), clip.NewLibrary())
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := manifest.Load("does-not-exist.yaml", clip.NewLibrary())
	assert.Error(t, err)
}
