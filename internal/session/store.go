// Package session keeps live cart sessions in memory, one per POS terminal
// tab. Sessions are ephemeral by design: a cart that has not been touched for
// the TTL is swept, matching the original single-terminal behaviour where a
// closed tab simply loses its cart.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deltabyte/ristora/internal/domain/cart"
)

type entry struct {
	sess     *cart.Session
	lastSeen time.Time
}

// Store is a TTL-bounded map of cart sessions.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	factory func() *cart.Session
	now     func() time.Time
}

// NewStore creates a Store that builds new sessions with factory and expires
// them after ttl of inactivity.
func NewStore(ttl time.Duration, factory func() *cart.Session) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		factory: factory,
		now:     time.Now,
	}
}

// Create makes a new cart session and returns its id.
func (s *Store) Create() (string, *cart.Session) {
	id := uuid.New().String()
	sess := s.factory()

	s.mu.Lock()
	s.entries[id] = &entry{sess: sess, lastSeen: s.now()}
	s.mu.Unlock()

	return id, sess
}

// Get returns the session for id and refreshes its activity timestamp.
func (s *Store) Get(id string) (*cart.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.sess, true
}

// Delete removes the session for id, if present.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartCleanup launches a background sweeper that drops sessions idle longer
// than the TTL. It stops when ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
