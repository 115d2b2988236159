package clip

// Handle is a cheap, comparable, non-owning reference to a clip in a
// Library. The zero Handle refers to nothing and never resolves.
type Handle struct {
	id uint32
}

// IsZero reports whether the handle refers to nothing.
func (h Handle) IsZero() bool { return h.id == 0 }

// Library is the arena that owns loaded clips. Players hold Handles into
// it rather than clip pointers, so reloading the library does not couple
// clip lifetime to player lifetime. Read-mostly: clips are added during
// loading and never mutated or removed afterwards.
type Library struct {
	clips []*Clip
}

// NewLibrary returns an empty library.
func NewLibrary() *Library { return &Library{} }

// Add stores a clip and returns its handle.
func (l *Library) Add(c *Clip) Handle {
	l.clips = append(l.clips, c)
	return Handle{id: uint32(len(l.clips))}
}

// Get resolves a handle. ok is false for the zero handle or a handle
// from another library generation; callers skip ticking such players.
func (l *Library) Get(h Handle) (*Clip, bool) {
	if h.id == 0 || int(h.id) > len(l.clips) {
		return nil, false
	}
	return l.clips[h.id-1], true
}

// Len is the number of clips in the library.
func (l *Library) Len() int { return len(l.clips) }
