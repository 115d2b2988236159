package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/flipbook/internal/clip"
	"github.com/example/flipbook/internal/config"
	"github.com/example/flipbook/internal/manifest"
	"github.com/example/flipbook/internal/playback"
	"github.com/example/flipbook/internal/stage"
)

func main() {
	var (
		manifestPath string
		animation    string
		fps          int
		speed        float64
		repeat       string
		reverse      bool
		maxS         float64
	)
	flag.StringVar(&manifestPath, "manifest", "", "Path to animation manifest YAML")
	flag.StringVar(&animation, "animation", "", "Animation name to play")
	flag.IntVar(&fps, "fps", 60, "Simulation frames per second")
	flag.Float64Var(&speed, "speed", 1, "Playback speed multiplier")
	flag.StringVar(&repeat, "repeat", "never", "Repeat policy: never | forever | count")
	flag.BoolVar(&reverse, "reverse", false, "Play in reverse")
	flag.Float64Var(&maxS, "max-s", 0, "Stop after this many seconds (0 = until finished)")
	flag.Parse()

	if manifestPath == "" {
		log.Fatal("Provide -manifest path to an animation manifest")
	}

	lib := clip.NewLibrary()
	set, err := manifest.Load(manifestPath, lib)
	if err != nil {
		log.Fatalf("manifest: %v", err)
	}
	if animation == "" && len(set.Names()) > 0 {
		animation = set.Names()[0]
	}
	h, ok := set.Clip(animation)
	if !ok {
		log.Fatalf("unknown animation %q, manifest has %v", animation, set.Names())
	}
	rep, err := config.ParseRepeat(repeat)
	if err != nil {
		log.Fatalf("repeat: %v", err)
	}

	var last clip.Frame
	shown := false
	st := stage.New(lib)
	player := st.Add(playback.NewPlayer(), stage.TargetFunc(func(f clip.Frame) {
		if shown && f == last {
			return
		}
		last, shown = f, true
		switch f.Source {
		case clip.SourceAtlas:
			fmt.Printf("[Frame] %s[%d]\n", f.Atlas, f.Index)
		case clip.SourceImages:
			fmt.Printf("[Frame] %s\n", f.Image)
		}
	}))
	player.Play(h).SetRepeat(rep).SetSpeed(float32(speed))
	if reverse {
		player.Reverse()
	}

	c, _ := lib.Get(h)
	fmt.Printf("Playing %q: %d keyframes over %.3fs, repeat=%s\n",
		animation, c.Keyframes().Len(), c.Duration(), rep)

	dt := time.Second / time.Duration(fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	start := time.Now()
	for range ticker.C {
		st.Tick(float32(dt.Seconds()))

		if player.IsFinished() {
			fmt.Printf("Finished after %d completions at t=%.3fs\n",
				player.Completions(), time.Since(start).Seconds())
			os.Exit(0)
		}
		if maxS > 0 && time.Since(start).Seconds() >= maxS {
			fmt.Printf("Stopped at t=%.3fs with %d completions\n",
				time.Since(start).Seconds(), player.Completions())
			os.Exit(0)
		}
	}
}
