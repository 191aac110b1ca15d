package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Transcripts live only as long as the
// process and are not shared between instances.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	window   Window
	idleTTL  time.Duration
	onExpire func(id string)
	now      func() time.Time
}

type entry struct {
	transcript string
	touchedAt  time.Time
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithWindow bounds every transcript with w after each update.
func WithWindow(w Window) Option {
	return func(s *MemoryStore) {
		if w != nil {
			s.window = w
		}
	}
}

// WithIdleTTL lets the janitor drop sessions untouched for longer than ttl.
// Zero disables expiry.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		window:  Unbounded(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetExpireHook registers a callback invoked, outside the lock, for each
// session removed by the janitor.
func (s *MemoryStore) SetExpireHook(hook func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = hook
}

// Context returns the transcript for id. Reading a known session counts as
// activity for idle expiry.
func (s *MemoryStore) Context(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return "", nil
	}
	e.touchedAt = s.now()
	return e.transcript, nil
}

// Update reads, extends and rewrites the transcript under one lock so that
// concurrent turns on the same session are never lost. It reports whether id
// was unknown before the call.
func (s *MemoryStore) Update(_ context.Context, id, userMessage, reply string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	e.transcript = s.window.Apply(AppendTurn(e.transcript, userMessage, reply))
	e.touchedAt = s.now()
	return !ok, nil
}

func (s *MemoryStore) Reset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartJanitor periodically expires idle sessions until ctx is cancelled.
// It is a no-op when the store has no idle TTL.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 {
		return
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.expireIdle()
			}
		}
	}()
}

func (s *MemoryStore) expireIdle() {
	now := s.now()
	var expired []string

	s.mu.Lock()
	for id, e := range s.entries {
		if now.Sub(e.touchedAt) < s.idleTTL {
			continue
		}
		delete(s.entries, id)
		expired = append(expired, id)
	}
	hook := s.onExpire
	s.mu.Unlock()

	if hook != nil {
		for _, id := range expired {
			hook(id)
		}
	}
}
