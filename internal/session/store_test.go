package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltabyte/ristora/internal/domain/cart"
)

func newTestStore(ttl time.Duration) *Store {
	return NewStore(ttl, func() *cart.Session {
		return cart.NewSession(nil, nil)
	})
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newTestStore(time.Hour)

	id, sess := s.Create()
	require.NotEmpty(t, id)
	require.NotNil(t, sess)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_GetUnknown(t *testing.T) {
	s := newTestStore(time.Hour)

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(time.Hour)
	id, _ := s.Create()

	s.Delete(id)

	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_SweepDropsIdleSessions(t *testing.T) {
	s := newTestStore(time.Hour)

	current := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	idleID, _ := s.Create()
	activeID, _ := s.Create()

	// The active session is touched 50 minutes in; the idle one is not.
	current = current.Add(50 * time.Minute)
	_, ok := s.Get(activeID)
	require.True(t, ok)

	// 70 minutes after creation the idle session is past the TTL.
	current = current.Add(20 * time.Minute)
	s.sweep()

	_, ok = s.Get(idleID)
	assert.False(t, ok)
	_, ok = s.Get(activeID)
	assert.True(t, ok)
}

func TestStore_GetRefreshesActivity(t *testing.T) {
	s := newTestStore(time.Hour)

	current := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	id, _ := s.Create()

	// Touch the session every 40 minutes; it must survive indefinitely.
	for range 3 {
		current = current.Add(40 * time.Minute)
		_, ok := s.Get(id)
		require.True(t, ok)
		s.sweep()
	}

	_, ok := s.Get(id)
	assert.True(t, ok)
}
