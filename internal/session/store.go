// Package session keeps one live widget instance per browser session.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"plzform/internal/widget"
)

// DefaultTTL is how long an idle session survives before eviction.
const DefaultTTL = 30 * time.Minute

type entry struct {
	validator *widget.Validator
	lastSeen  time.Time
}

// Store maps session IDs to live validators. Idle sessions are evicted by a
// background sweep so abandoned forms do not leak timers.
type Store struct {
	factory func() *widget.Validator
	ttl     time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	done    chan struct{}
	once    sync.Once
}

// Config contains configuration for a session store.
type Config struct {
	// Factory builds a fresh validator for a new session.
	Factory func() *widget.Validator

	TTL    time.Duration // Optional: defaults to DefaultTTL
	Logger *slog.Logger  // Optional: defaults to slog.Default()
}

// NewStore creates a store and starts its eviction sweep.
func NewStore(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		factory: cfg.Factory,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Get returns the validator for an existing session, or nil if the session
// is unknown or expired.
func (s *Store) Get(id string) *widget.Validator {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	e.lastSeen = time.Now()
	return e.validator
}

// GetOrCreate returns the session's validator, creating a new session when
// the ID is unknown. The returned ID equals the input for existing sessions.
func (s *Store) GetOrCreate(id string) (string, *widget.Validator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.lastSeen = time.Now()
		return id, e.validator
	}

	newID := uuid.New().String()
	v := s.factory()
	s.entries[newID] = &entry{validator: v, lastSeen: time.Now()}
	s.logger.Debug("session created", "session_id", newID)
	return newID, v
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the sweep and closes every live validator.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		e.validator.Close()
		delete(s.entries, id)
	}
}

func (s *Store) sweep() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			e.validator.Close()
			delete(s.entries, id)
			s.logger.Debug("session evicted", "session_id", id)
		}
	}
}
