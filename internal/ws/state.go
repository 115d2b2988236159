package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/example/flipbook/internal/clip"
	"github.com/example/flipbook/internal/config"
	"github.com/example/flipbook/internal/playback"
	"github.com/example/flipbook/internal/stage"
)

// State is the preview server: it owns one player on a stage, ticks it at
// a fixed rate and streams the sampled keyframes to websocket clients.
// A second websocket accepts control messages (play/pause/seek/...).
type State struct {
	mu  sync.Mutex
	Lib *clip.Library
	Set *clip.Set
	FPS int

	stage     *stage.Stage
	player    *playback.Player
	animation string
	last      clip.Frame
	lastIndex int

	frameID   uint64
	startTime time.Time
	clients   map[*websocket.Conn]bool
}

func NewState(lib *clip.Library, set *clip.Set, fps int) *State {
	s := &State{
		Lib:       lib,
		Set:       set,
		FPS:       fps,
		stage:     stage.New(lib),
		startTime: time.Now(),
		clients:   map[*websocket.Conn]bool{},
	}
	s.player = s.stage.Add(playback.NewPlayer(), stage.TargetFunc(func(f clip.Frame) {
		s.last = f
	}))
	return s
}

// Play binds the named animation from the set. Repeated calls with the
// same running animation are no-ops, per Player.Play.
func (s *State) Play(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.Set.Clip(name)
	if !ok {
		return false
	}
	s.player.Play(h)
	s.animation = name
	return true
}

// SetPlayback applies a repeat policy, speed and direction to the bound
// animation, typically right after the startup Play.
func (s *State) SetPlayback(rep playback.Repeat, speed float32, reverse bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.SetRepeat(rep).SetSpeed(speed)
	if reverse {
		s.player.Reverse()
	} else {
		s.player.StopReverse()
	}
}

// frameUpdate is one streamed playback sample.
type frameUpdate struct {
	T            int64         `json:"t"`
	FrameID      uint64        `json:"frame_id"`
	Animation    string        `json:"animation"`
	FrameIndex   int           `json:"frame_index"`
	Atlas        clip.AtlasID  `json:"atlas,omitempty"`
	AtlasIndex   int           `json:"atlas_index,omitempty"`
	Image        clip.ImageID  `json:"image,omitempty"`
	SeekTime     float32       `json:"seek_time"`
	Completions  uint32        `json:"completions"`
	Finished     bool          `json:"finished"`
	ClipFinished bool          `json:"clip_finished"`
	Paused       bool          `json:"paused"`
}

// RunPlaybackLoop ticks the stage at FPS and broadcasts each sample.
// Runs until the process exits; start it in a goroutine.
func (s *State) RunPlaybackLoop() {
	fps := s.FPS
	if fps < 1 {
		fps = 1
	}
	dt := 1.0 / float32(fps)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		c, ok := s.Lib.Get(s.player.AnimationClip())
		if !ok {
			s.mu.Unlock()
			continue
		}
		s.stage.Tick(dt)
		s.lastIndex = c.FrameIndexAt(s.player.SeekTime())
		s.frameID++
		u := frameUpdate{
			T:            time.Now().UnixNano(),
			FrameID:      s.frameID,
			Animation:    s.animation,
			FrameIndex:   s.lastIndex,
			SeekTime:     s.player.SeekTime(),
			Completions:  s.player.Completions(),
			Finished:     s.player.IsFinished(),
			ClipFinished: s.player.IsClipFinished(),
			Paused:       s.player.IsPaused(),
		}
		switch s.last.Source {
		case clip.SourceAtlas:
			u.Atlas, u.AtlasIndex = s.last.Atlas, s.last.Index
		case clip.SourceImages:
			u.Image = s.last.Image
		}
		s.mu.Unlock()

		s.broadcast(u)
	}
}

func (s *State) broadcast(u frameUpdate) {
	b, _ := json.Marshal(u)
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// HandleFramesWS streams frame updates to a client.
func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleControlWS accepts playback control messages, e.g.
//
//	{"play": "run"}
//	{"pause": true} {"resume": true} {"replay": true}
//	{"seek": 0.25} {"speed": -2} {"reverse": true}
//	{"repeat": "forever"} {"repeat": "3"}
func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.applyControl(msg)
	}
}

func (s *State) applyControl(msg map[string]any) {
	if v, ok := msg["play"].(string); ok {
		if !s.Play(v) {
			log.Warn().Str("animation", v).Msg("unknown animation")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := msg["pause"].(bool); ok {
		if v {
			s.player.Pause()
		} else {
			s.player.Resume()
		}
	}
	if v, ok := msg["resume"].(bool); ok && v {
		s.player.Resume()
	}
	if v, ok := msg["replay"].(bool); ok && v {
		s.player.Replay()
	}
	if v, ok := msg["seek"].(float64); ok {
		s.player.SeekTo(float32(v))
	}
	if v, ok := msg["speed"].(float64); ok {
		s.player.SetSpeed(float32(v))
	}
	if v, ok := msg["reverse"].(bool); ok {
		if v {
			s.player.Reverse()
		} else {
			s.player.StopReverse()
		}
	}
	if v, ok := msg["repeat"].(string); ok {
		rep, err := config.ParseRepeat(v)
		if err != nil {
			log.Warn().Err(err).Msg("bad repeat")
		} else {
			s.player.SetRepeat(rep)
		}
	}
}

// HandleHealth reports playback status as JSON.
func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := map[string]any{
		"uptime_s":    time.Since(s.startTime).Seconds(),
		"fps":         s.FPS,
		"frame_id":    s.frameID,
		"set":         s.Set.Name(),
		"animations":  s.Set.Names(),
		"animation":   s.animation,
		"paused":      s.player.IsPaused(),
		"finished":    s.player.IsFinished(),
		"completions": s.player.Completions(),
		"clients":     len(s.clients),
	}
	_ = json.NewEncoder(w).Encode(resp)
}
