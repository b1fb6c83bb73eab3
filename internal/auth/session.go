package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AdminSessionKey(accessID string) string
}

// SessionManager tracks which access token ids are still live in Redis so a
// logout can revoke a JWT before it expires.
type SessionManager struct {
	store sessionStore
	ttl   time.Duration
}

func NewSessionManager(store sessionStore, ttl time.Duration) (*SessionManager, error) {
	if store == nil {
		return nil, fmt.Errorf("session manager requires a store")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session manager requires a positive ttl")
	}
	return &SessionManager{store: store, ttl: ttl}, nil
}

// NewAccessID mints the JTI embedded in a freshly issued token.
func NewAccessID() string {
	return uuid.NewString()
}

func (m *SessionManager) Start(ctx context.Context, accessID string) error {
	if accessID == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Set(ctx, m.store.AdminSessionKey(accessID), "1", m.ttl)
}

// Alive reports whether the access id has been started and not revoked.
func (m *SessionManager) Alive(ctx context.Context, accessID string) (bool, error) {
	if accessID == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.store.AdminSessionKey(accessID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *SessionManager) Revoke(ctx context.Context, accessID string) error {
	if accessID == "" {
		return nil
	}
	return m.store.Del(ctx, m.store.AdminSessionKey(accessID))
}
