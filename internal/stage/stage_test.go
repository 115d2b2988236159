package stage

import (
	"testing"

	"github.com/example/flipbook/internal/clip"
	"github.com/example/flipbook/internal/playback"
)

func TestTickAppliesSampledFrames(t *testing.T) {
	lib := clip.NewLibrary()
	h := lib.Add(clip.New(
		[]float32{0, 0.1, 0.2},
		clip.AtlasKeyframes("walk.atlas", []int{4, 5, 6}),
		0.3,
	))

	var applied []int
	s := New(lib)
	s.Add(playback.NewPlayer(), TargetFunc(func(f clip.Frame) {
		applied = append(applied, f.Index)
	})).Play(h).Repeat()

	for i := 0; i < 6; i++ {
		s.Tick(0.05)
	}
	want := []int{4, 5, 5, 6, 6, 4}
	if len(applied) != len(want) {
		t.Fatalf("applied %d frames, want %d", len(applied), len(want))
	}
	for i := range want {
		if applied[i] != want[i] {
			t.Fatalf("applied = %v, want %v", applied, want)
		}
	}
}

func TestUnresolvedPlayersAreSkipped(t *testing.T) {
	lib := clip.NewLibrary()
	called := false
	s := New(lib)
	p := s.Add(playback.NewPlayer(), TargetFunc(func(clip.Frame) { called = true }))

	// Nothing bound yet: the zero handle never resolves.
	s.Tick(0.1)
	if called || p.Elapsed() != 0 {
		t.Fatal("unbound player was ticked")
	}

	// Once the clip loads, the same player starts advancing.
	h := lib.Add(clip.New([]float32{0}, clip.ImageKeyframes([]clip.ImageID{"a"}), 1))
	p.Play(h)
	s.Tick(0.1)
	if !called || p.Elapsed() == 0 {
		t.Fatal("player did not advance after its clip loaded")
	}
}
