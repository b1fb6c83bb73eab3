// Package settings is a small key-value layer for storefront and session
// preferences. The original client kept these in ambient browser storage;
// here they live in Redis behind an injectable store so handlers and jobs
// share one source of truth.
package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
)

// Known setting names.
const (
	KeyTheme     = "theme"
	KeyLastOrder = "last_order"
)

var validThemes = map[string]struct{}{
	"light": {},
	"dark":  {},
}

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SettingsKey(name string) string
}

// Service reads and writes storefront settings.
type Service interface {
	Theme(ctx context.Context, sessionID string) (string, error)
	SetTheme(ctx context.Context, sessionID, theme string) error
	LastOrderCode(ctx context.Context, sessionID string) (string, error)
	SetLastOrderCode(ctx context.Context, sessionID, orderCode string) error
}

type service struct {
	store kvStore
	ttl   time.Duration
}

// NewService builds the settings service. Entries share the cart's idle TTL
// so a visitor's preferences outlive their cart, not the other way around.
func NewService(store kvStore, ttl time.Duration) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("settings ttl must be positive")
	}
	return &service{store: store, ttl: ttl}, nil
}

// Theme returns the session's theme, defaulting to dark like the storefront.
func (s *service) Theme(ctx context.Context, sessionID string) (string, error) {
	value, err := s.get(ctx, sessionID, KeyTheme)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "dark", nil
	}
	return value, nil
}

func (s *service) SetTheme(ctx context.Context, sessionID, theme string) error {
	if _, ok := validThemes[theme]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "theme must be light or dark")
	}
	return s.set(ctx, sessionID, KeyTheme, theme)
}

// LastOrderCode returns the session's most recent order code, empty when the
// visitor has not checked out.
func (s *service) LastOrderCode(ctx context.Context, sessionID string) (string, error) {
	return s.get(ctx, sessionID, KeyLastOrder)
}

func (s *service) SetLastOrderCode(ctx context.Context, sessionID, orderCode string) error {
	if orderCode == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order code is required")
	}
	return s.set(ctx, sessionID, KeyLastOrder, orderCode)
}

func (s *service) get(ctx context.Context, sessionID, name string) (string, error) {
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	value, err := s.store.Get(ctx, s.store.SettingsKey(sessionID+":"+name))
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return value, nil
}

func (s *service) set(ctx context.Context, sessionID, name, value string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.store.Set(ctx, s.store.SettingsKey(sessionID+":"+name), value, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
	}
	return nil
}
