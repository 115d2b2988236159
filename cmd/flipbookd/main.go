package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/flipbook/internal/clip"
	"github.com/example/flipbook/internal/config"
	"github.com/example/flipbook/internal/manifest"
	"github.com/example/flipbook/internal/ws"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		manifestPath = flag.String("manifest", "", "path to the animation manifest YAML")
		animation    = flag.String("animation", "", "animation to play on startup")
		fps          = flag.Int("fps", 60, "playback ticks per second")
		addr         = flag.String("addr", ":8080", "HTTP listen address")
		repeat       = flag.String("repeat", "forever", "repeat policy: never | forever | count")
		speed        = flag.Float64("speed", 1, "playback speed multiplier")
		reverse      = flag.Bool("reverse", false, "play in reverse")
		configPath   = flag.String("config", "config.yaml", "path to config.yaml")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	var cfg *config.Config
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = c
	}

	// ---- Effective params (config overrides flags where available) ----
	eManifest, eAnimation := *manifestPath, *animation
	eFPS, eAddr := *fps, *addr
	eRepeat, eSpeed, eReverse := *repeat, *speed, *reverse
	if cfg != nil {
		if cfg.Manifest != "" {
			eManifest = cfg.Manifest
		}
		if cfg.Animation != "" {
			eAnimation = cfg.Animation
		}
		if cfg.FPS > 0 {
			eFPS = cfg.FPS
		}
		if cfg.Addr != "" {
			eAddr = cfg.Addr
		}
		if cfg.Repeat != "" {
			eRepeat = cfg.Repeat
		}
		if cfg.Speed != 0 {
			eSpeed = cfg.Speed
		}
		if cfg.Reverse {
			eReverse = true
		}
	}
	if eManifest == "" {
		log.Fatal().Msg("no manifest given; use -manifest or config.yaml")
	}

	// ---- Load animations ----
	lib := clip.NewLibrary()
	set, err := manifest.Load(eManifest, lib)
	if err != nil {
		log.Fatal().Err(err).Str("path", eManifest).Msg("manifest load failed")
	}
	log.Info().Str("set", set.Name()).Strs("animations", set.Names()).Msg("manifest loaded")

	// ---- State ----
	state := ws.NewState(lib, set, eFPS)
	if eAnimation == "" && len(set.Names()) > 0 {
		eAnimation = set.Names()[0]
	}
	if !state.Play(eAnimation) {
		log.Fatal().Str("animation", eAnimation).Msg("unknown animation")
	}

	rep, err := config.ParseRepeat(eRepeat)
	if err != nil {
		log.Fatal().Err(err).Msg("bad repeat policy")
	}
	state.SetPlayback(rep, float32(eSpeed), eReverse)

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", state.HandleFramesWS)
	mux.HandleFunc("/control", state.HandleControlWS)
	mux.HandleFunc("/health", state.HandleHealth)

	srv := &http.Server{
		Addr:         eAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run playback loop & server ----
	go state.RunPlaybackLoop()
	go func() {
		log.Info().Str("addr", eAddr).Int("fps", eFPS).Str("animation", eAnimation).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")
	_ = srv.Close()
}
