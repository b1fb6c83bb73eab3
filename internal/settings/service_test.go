package settings

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
)

type memoryKV struct {
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func (m *memoryKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryKV) SettingsKey(name string) string {
	return "flam:settings:" + name
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(newMemoryKV(), time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestTheme_DefaultsToDark(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	theme, err := svc.Theme(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("default theme = %q, want dark", theme)
	}
}

func TestSetTheme_RoundTripAndValidation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SetTheme(ctx, "sess-1", "light"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	theme, err := svc.Theme(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if theme != "light" {
		t.Fatalf("theme = %q, want light", theme)
	}

	err = svc.SetTheme(ctx, "sess-1", "neon")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLastOrderCode(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	code, err := svc.LastOrderCode(ctx, "sess-1")
	if err != nil {
		t.Fatalf("LastOrderCode: %v", err)
	}
	if code != "" {
		t.Fatalf("expected empty code before checkout, got %q", code)
	}

	if err := svc.SetLastOrderCode(ctx, "sess-1", "FLAM-A1B2C3"); err != nil {
		t.Fatalf("SetLastOrderCode: %v", err)
	}
	code, err = svc.LastOrderCode(ctx, "sess-1")
	if err != nil {
		t.Fatalf("LastOrderCode: %v", err)
	}
	if code != "FLAM-A1B2C3" {
		t.Fatalf("code = %q, want FLAM-A1B2C3", code)
	}

	// Settings are per session.
	other, err := svc.LastOrderCode(ctx, "sess-2")
	if err != nil {
		t.Fatalf("LastOrderCode: %v", err)
	}
	if other != "" {
		t.Fatalf("setting leaked across sessions: %q", other)
	}
}

func TestSessionIDRequired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	if _, err := svc.Theme(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
	if err := svc.SetLastOrderCode(context.Background(), "", "FLAM-A1B2C3"); err == nil {
		t.Fatal("expected error for empty session id")
	}
}
