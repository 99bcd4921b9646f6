package settings

import (
	"sync"
	"sync/atomic"
)

// Store publishes settings from writer goroutines (HTTP, config reload) to
// the display tick. The tick reads a snapshot without blocking.
type Store struct {
	current atomic.Pointer[Settings]

	mu      sync.Mutex
	word    string
	pending bool
}

// NewStore seeds the store. A non-empty find word is queued for puzzle mode.
func NewStore(initial Settings) *Store {
	s := &Store{}
	s.current.Store(&initial)
	if initial.FindWord != "" {
		s.word, s.pending = initial.FindWord, true
	}
	return s
}

// Snapshot returns the latest settings.
func (s *Store) Snapshot() Settings {
	return *s.current.Load()
}

// Set replaces the settings. A changed, non-empty find word is queued.
func (s *Store) Set(next Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(next)
}

// Update applies fn to a copy of the current settings and stores the result.
// Writers are serialized, so fn always sees the previous writer's result.
func (s *Store) Update(fn func(*Settings)) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.current.Load()
	fn(&next)
	s.setLocked(next)
	return next
}

// TryUpdate is Update for changes that can fail. Nothing is stored when fn
// returns an error.
func (s *Store) TryUpdate(fn func(*Settings) error) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.current.Load()
	if err := fn(&next); err != nil {
		return *s.current.Load(), err
	}
	s.setLocked(next)
	return next, nil
}

func (s *Store) setLocked(next Settings) {
	prev := s.current.Load()
	s.current.Store(&next)
	if next.FindWord != "" && next.FindWord != prev.FindWord {
		s.word, s.pending = next.FindWord, true
	}
}

// SetWord queues a word for puzzle mode, replacing any unconsumed one.
func (s *Store) SetWord(word string) {
	s.mu.Lock()
	s.word, s.pending = word, true
	s.mu.Unlock()
}

// TakeWord returns the queued word once.
func (s *Store) TakeWord() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return "", false
	}
	s.pending = false
	return s.word, true
}
