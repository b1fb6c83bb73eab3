package editor

import (
	"testing"
	"time"

	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
)

func TestStore_PutAndWith(t *testing.T) {
	t.Parallel()

	st := NewStore(time.Hour)
	sess := newTestSession(t)
	st.Put(sess)

	err := st.With("sess-1", func(s *Session) error {
		s.AssignImage(0, "img-a")
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	err = st.With("sess-1", func(s *Session) error {
		if !s.Slots()[0].Occupied() {
			t.Fatal("mutation did not persist across With calls")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestStore_UnknownSessionNotFound(t *testing.T) {
	t.Parallel()

	st := NewStore(time.Hour)
	err := st.With("missing", func(*Session) error { return nil })
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStore_ExpiredSessionEvictedOnAccess(t *testing.T) {
	t.Parallel()

	st := NewStore(time.Hour)
	now := time.Now().UTC()
	st.clock = func() time.Time { return now }

	sess := newTestSession(t)
	st.Put(sess)

	now = now.Add(2 * time.Hour)
	err := st.With("sess-1", func(*Session) error { return nil })
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for expired session, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("expired session not evicted, len = %d", st.Len())
	}
}

func TestStore_PurgeRemovesOnlyExpired(t *testing.T) {
	t.Parallel()

	st := NewStore(time.Hour)
	now := time.Now().UTC()
	st.clock = func() time.Time { return now }

	stale := newTestSession(t)
	stale.UpdatedAt = now.Add(-3 * time.Hour)
	st.Put(stale)

	fresh, err := NewSession("sess-2", "basic-01", 3, 20)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	fresh.UpdatedAt = now
	st.Put(fresh)

	if removed := st.Purge(); removed != 1 {
		t.Fatalf("Purge() = %d, want 1", removed)
	}
	if st.Len() != 1 {
		t.Fatalf("len = %d after purge, want 1", st.Len())
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	st := NewStore(time.Hour)
	st.Put(newTestSession(t))
	st.Delete("sess-1")
	st.Delete("sess-1")
	if st.Len() != 0 {
		t.Fatalf("len = %d after delete, want 0", st.Len())
	}
}
