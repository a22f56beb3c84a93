package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/catalog"
	"bookshelf/internal/metrics"
	"bookshelf/internal/theme"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Store keeps sessions in memory, keyed by a random UUID.
type Store struct {
	cat *catalog.Catalog
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(cat *catalog.Catalog, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cat:      cat,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with the given theme.
func (st *Store) Create(t theme.Theme) *Session {
	s := New(uuid.NewString(), st.cat, t)
	s.touch(st.now())

	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	return s
}

// Get returns a live session and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := st.now()
	if s.idleSince(now) > st.ttl {
		st.remove(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were removed.
func (st *Store) Sweep() int {
	now := st.now()
	st.mu.Lock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	return removed
}

// Run sweeps on every interval until ctx is done. A non-positive interval
// means one minute.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep()
		}
	}
}

func (st *Store) remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))
}
