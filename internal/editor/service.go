package editor

import (
	"context"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/pkg/config"
	"github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/logger"
)

// Operation types accepted by Apply.
const (
	OpLoadTemplate    = "load_template"
	OpAssignImage     = "assign_image"
	OpRemoveImage     = "remove_image"
	OpTapSlot         = "tap_slot"
	OpSelectSlot      = "select_slot"
	OpGestureBegin    = "gesture_begin"
	OpGesturePan      = "gesture_pan"
	OpGestureScale    = "gesture_scale"
	OpGestureRotate   = "gesture_rotate"
	OpGestureEnd      = "gesture_end"
	OpWheel           = "wheel"
	OpUpdateTransform = "update_transform"
	OpUndo            = "undo"
	OpRedo            = "redo"
	OpKey             = "key"
)

// Operation is one edit forwarded from the client. Fields beyond Type are
// read only where the type needs them.
type Operation struct {
	Type     string    `json:"type"`
	Slot     int       `json:"slot"`
	Image    string    `json:"image"`
	Template string    `json:"template"`
	Field    string    `json:"field"`
	Value    float64   `json:"value"`
	DX       float64   `json:"dx"`
	DY       float64   `json:"dy"`
	Delta    float64   `json:"delta"`
	Degrees  float64   `json:"degrees"`
	Key      *KeyEvent `json:"key,omitempty"`
}

// View is the session state returned after every operation so the client can
// render without tracking deltas.
type View struct {
	ID       string `json:"id"`
	Template string `json:"template"`
	Slots    []Slot `json:"slots"`
	Selected int    `json:"selected"`
	SwapMode bool   `json:"swapMode"`
	CanUndo  bool   `json:"canUndo"`
	CanRedo  bool   `json:"canRedo"`
}

// Service owns editor session lifecycle and edit dispatch.
type Service interface {
	Create(ctx context.Context, template string, slotCount int) (View, error)
	Get(ctx context.Context, sessionID string) (View, error)
	Apply(ctx context.Context, sessionID string, op Operation) (View, error)
	Finalize(ctx context.Context, sessionID string) (FinalizeResult, error)
	Discard(ctx context.Context, sessionID string)
}

type service struct {
	store *Store
	cfg   config.EditorConfig
	logg  *logger.Logger
}

// NewService wires the editor service.
func NewService(store *Store, cfg config.EditorConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, errors.New(errors.CodeInternal, "editor store is required")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "logger is required")
	}
	return &service{store: store, cfg: cfg, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, template string, slotCount int) (View, error) {
	if slotCount == 0 {
		slotCount = s.cfg.SlotCount
	}
	sess, err := NewSession(uuid.NewString(), template, slotCount, s.cfg.HistoryDepth)
	if err != nil {
		return View{}, err
	}
	s.store.Put(sess)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"session_id": sess.ID,
		"template":   template,
		"slot_count": slotCount,
	})
	s.logg.Info(logCtx, "editor session created")
	return viewOf(sess), nil
}

func (s *service) Get(ctx context.Context, sessionID string) (View, error) {
	var view View
	err := s.store.With(sessionID, func(sess *Session) error {
		view = viewOf(sess)
		return nil
	})
	return view, err
}

func (s *service) Apply(ctx context.Context, sessionID string, op Operation) (View, error) {
	var view View
	err := s.store.With(sessionID, func(sess *Session) error {
		if err := dispatch(sess, op); err != nil {
			return err
		}
		view = viewOf(sess)
		return nil
	})
	return view, err
}

func (s *service) Finalize(ctx context.Context, sessionID string) (FinalizeResult, error) {
	var result FinalizeResult
	err := s.store.With(sessionID, func(sess *Session) error {
		result = sess.Finalize()
		return nil
	})
	if err != nil {
		return FinalizeResult{}, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"session_id": sessionID,
		"occupied":   result.Occupied,
	})
	s.logg.Info(logCtx, "editor session finalized")
	return result, nil
}

func (s *service) Discard(ctx context.Context, sessionID string) {
	s.store.Delete(sessionID)
}

// dispatch routes one operation onto the session. Unknown types are rejected
// so client bugs surface instead of silently dropping edits.
func dispatch(sess *Session, op Operation) error {
	switch op.Type {
	case OpLoadTemplate:
		sess.LoadTemplate(op.Template)
	case OpAssignImage:
		sess.AssignImage(op.Slot, op.Image)
	case OpRemoveImage:
		sess.RemoveImage(op.Slot)
	case OpTapSlot:
		sess.TapSlot(op.Slot)
	case OpSelectSlot:
		sess.SelectSlot(op.Slot)
	case OpGestureBegin:
		sess.BeginGesture(op.Slot)
	case OpGesturePan:
		sess.GesturePan(op.DX, op.DY)
	case OpGestureScale:
		sess.GestureScale(op.Delta)
	case OpGestureRotate:
		sess.GestureRotate(op.Degrees)
	case OpGestureEnd:
		sess.EndGesture()
	case OpWheel:
		sess.Wheel(op.Delta)
	case OpUpdateTransform:
		sess.UpdateTransform(op.Slot, op.Field, op.Value)
	case OpUndo:
		sess.Undo()
	case OpRedo:
		sess.Redo()
	case OpKey:
		if op.Key == nil {
			return errors.New(errors.CodeValidation, "key operation requires a key event")
		}
		sess.HandleKey(*op.Key)
	default:
		return errors.New(errors.CodeValidation, "unknown editor operation: "+op.Type)
	}
	return nil
}

func viewOf(sess *Session) View {
	return View{
		ID:       sess.ID,
		Template: sess.Template,
		Slots:    sess.Slots(),
		Selected: sess.SelectedSlot(),
		SwapMode: sess.InSwapMode(),
		CanUndo:  sess.CanUndo(),
		CanRedo:  sess.CanRedo(),
	}
}
