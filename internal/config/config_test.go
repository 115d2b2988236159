package config

import (
	"path/filepath"
	"testing"

	"github.com/example/flipbook/internal/playback"
)

func TestParseRepeat(t *testing.T) {
	cases := []struct {
		in   string
		want playback.Repeat
	}{
		{"", playback.RepeatNever()},
		{"never", playback.RepeatNever()},
		{"forever", playback.RepeatForever()},
		{"1", playback.RepeatCount(1)},
		{"12", playback.RepeatCount(12)},
	}
	for _, tc := range cases {
		got, err := ParseRepeat(tc.in)
		if err != nil {
			t.Fatalf("ParseRepeat(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRepeat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"0", "-2", "twice", "1.5"} {
		if _, err := ParseRepeat(bad); err == nil {
			t.Fatalf("ParseRepeat(%q) accepted", bad)
		}
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Config{
		Manifest:  "gabe.yaml",
		Animation: "run",
		FPS:       30,
		Addr:      ":9090",
		Speed:     1.5,
		Repeat:    "forever",
		Reverse:   true,
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *out != *in {
		t.Fatalf("round trip changed config: %+v != %+v", out, in)
	}
}
