package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/example/flipbook/internal/playback"
)

type Config struct {
	Manifest  string  `yaml:"manifest"`  // path to the animation manifest
	Animation string  `yaml:"animation"` // name of the animation to play
	FPS       int     `yaml:"fps"`
	Addr      string  `yaml:"addr,omitempty"` // preview server listen address
	Speed     float64 `yaml:"speed,omitempty"`
	Repeat    string  `yaml:"repeat,omitempty"` // "never" | "forever" | a count
	Reverse   bool    `yaml:"reverse,omitempty"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ParseRepeat maps the config/flag spelling of a repeat policy to the
// playback type: "never", "forever", or a positive count like "3".
// The empty string means never.
func ParseRepeat(s string) (playback.Repeat, error) {
	switch s {
	case "", "never":
		return playback.RepeatNever(), nil
	case "forever":
		return playback.RepeatForever(), nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return playback.Repeat{}, fmt.Errorf("repeat must be never, forever or a positive count, got %q", s)
	}
	return playback.RepeatCount(uint32(n)), nil
}
