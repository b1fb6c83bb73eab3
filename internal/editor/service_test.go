package editor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/flamoure/flamoure-backend/pkg/config"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/logger"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(
		NewStore(time.Hour),
		config.EditorConfig{SlotCount: 3, HistoryDepth: 20, SessionTTL: time.Hour},
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	if _, err := NewService(nil, config.EditorConfig{}, logg); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewService(NewStore(time.Hour), config.EditorConfig{}, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestService_CreateAppliesConfigDefaults(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	view, err := svc.Create(context.Background(), "basic-01", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(view.Slots) != 3 {
		t.Fatalf("slot count = %d, want config default 3", len(view.Slots))
	}
	if view.ID == "" {
		t.Fatal("expected generated session id")
	}

	four, err := svc.Create(context.Background(), "basic-01", 4)
	if err != nil {
		t.Fatalf("Create with explicit count: %v", err)
	}
	if len(four.Slots) != 4 {
		t.Fatalf("slot count = %d, want 4", len(four.Slots))
	}

	if _, err := svc.Create(context.Background(), "basic-01", 7); err == nil {
		t.Fatal("expected error for slot count out of range")
	}
}

func TestService_ApplyFullFlow(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "cupid-01", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := view.ID

	view, err = svc.Apply(ctx, id, Operation{Type: OpAssignImage, Slot: 0, Image: "img-a"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if view.Slots[0].Image != "img-a" || !view.CanUndo {
		t.Fatalf("unexpected view after assign: %+v", view)
	}

	for _, op := range []Operation{
		{Type: OpGestureBegin, Slot: 0},
		{Type: OpGesturePan, DX: 4, DY: 4},
		{Type: OpGestureEnd},
		{Type: OpKey, Key: &KeyEvent{Key: "]"}},
		{Type: OpUndo},
	} {
		if view, err = svc.Apply(ctx, id, op); err != nil {
			t.Fatalf("apply %s: %v", op.Type, err)
		}
	}
	if view.Slots[0].Transform.Rotation != 0 {
		t.Fatalf("undo did not revert rotation: %+v", view.Slots[0].Transform)
	}
	if !view.CanRedo {
		t.Fatal("expected redo available after undo")
	}

	result, err := svc.Finalize(ctx, id)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.Template != "cupid-01" || result.Occupied != 1 {
		t.Fatalf("unexpected finalize result: %+v", result)
	}
}

func TestService_ApplyStyleAndSliderOperations(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "basic-01", 3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := view.ID

	if _, err := svc.Apply(ctx, id, Operation{Type: OpAssignImage, Slot: 0, Image: "img-a"}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	view, err = svc.Apply(ctx, id, Operation{Type: OpUpdateTransform, Slot: 0, Field: FieldScale, Value: 2.5})
	if err != nil {
		t.Fatalf("update_transform: %v", err)
	}
	if got := view.Slots[0].Transform.Scale; got != 2.5 {
		t.Fatalf("scale = %v, want 2.5", got)
	}

	view, err = svc.Apply(ctx, id, Operation{Type: OpWheel, Delta: 1})
	if err != nil {
		t.Fatalf("wheel: %v", err)
	}
	if got := view.Slots[0].Transform.Scale; got >= 2.5 {
		t.Fatalf("scale = %v, wheel notch must zoom out", got)
	}

	view, err = svc.Apply(ctx, id, Operation{Type: OpLoadTemplate, Template: "retro-02"})
	if err != nil {
		t.Fatalf("load_template: %v", err)
	}
	if view.Template != "retro-02" {
		t.Fatalf("template = %q, want retro-02", view.Template)
	}
	if got := view.Slots[0].Image; got != "img-a" {
		t.Fatalf("slot 0 image = %q, style switch must keep content", got)
	}
	if !view.Slots[0].Transform.IsIdentity() {
		t.Fatalf("transform survived the switch: %+v", view.Slots[0].Transform)
	}
}

func TestService_ApplyRejectsUnknownOperation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "basic-01", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Apply(ctx, view.ID, Operation{Type: "teleport"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Apply(ctx, view.ID, Operation{Type: OpKey})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing key event, got %v", err)
	}
}

func TestService_UnknownSessionNotFound(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Apply(context.Background(), "nope", Operation{Type: OpUndo})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_DiscardRemovesSession(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "basic-01", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	svc.Discard(ctx, view.ID)

	if _, err := svc.Get(ctx, view.ID); err == nil {
		t.Fatal("expected error after discard")
	}
}
