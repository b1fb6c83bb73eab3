package editor

import (
	"sync"
	"time"

	"github.com/flamoure/flamoure-backend/pkg/errors"
)

// Store keeps live sessions in process memory. The composition is a
// single-writer state machine scoped to one visitor, so it never leaves the
// serving process; the store's only jobs are lookup, per-session
// serialization, and TTL-based eviction of abandoned sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    func() time.Time
}

// NewStore builds an empty store. Sessions idle longer than ttl are evicted
// lazily on access and by Purge.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Put registers a session, replacing any previous session with the same id.
func (st *Store) Put(sess *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.ID] = sess
}

// With runs fn against the named session while holding the store lock, so
// concurrent requests for the same session never interleave mid-operation.
func (st *Store) With(id string, fn func(*Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok || st.expired(sess) {
		delete(st.sessions, id)
		return errors.New(errors.CodeNotFound, "editor session not found")
	}
	return fn(sess)
}

// Delete removes a session. Unknown ids are ignored.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Purge evicts every expired session and returns how many were removed.
func (st *Store) Purge() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if st.expired(sess) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions, expired ones included until purge.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) expired(sess *Session) bool {
	return st.clock().Sub(sess.UpdatedAt) > st.ttl
}
