// Package editor holds the photostrip composition state machine. A session
// owns a fixed set of slots, an undo/redo history, and the gesture and swap
// interaction modes. Every operation either applies cleanly, clamps, or is a
// silent no-op; none of them fail once the session exists.
package editor

import (
	"time"

	"github.com/flamoure/flamoure-backend/pkg/errors"
)

const (
	// DefaultSlotCount matches the standard three-frame strip.
	DefaultSlotCount = 3
	// DefaultHistoryDepth bounds both the undo and redo stacks.
	DefaultHistoryDepth = 20

	minSlotCount = 2
	maxSlotCount = 4

	// wheelStep is the scale change of one wheel notch.
	wheelStep = 0.02

	noSlot = -1
)

// Slot is one frame of the strip. An empty Image means the slot is vacant.
type Slot struct {
	Image     string    `json:"image"`
	Transform Transform `json:"transform"`
}

// Occupied reports whether an image is assigned to the slot.
func (s Slot) Occupied() bool {
	return s.Image != ""
}

// Session is the in-progress composition for one visitor. It is not safe for
// concurrent use; the store serializes access per session.
type Session struct {
	ID        string
	Template  string
	CreatedAt time.Time
	UpdatedAt time.Time

	slots    []Slot
	selected int

	history      []snapshot
	future       []snapshot
	historyDepth int

	swapFrom int

	gestureSlot      int
	gestureSnapshots bool
	wheelBurst       bool
}

// NewSession builds an empty composition. slotCount outside 2..4 and
// historyDepth below 1 are rejected rather than clamped so misconfiguration
// surfaces at creation, never mid-edit.
func NewSession(id, template string, slotCount, historyDepth int) (*Session, error) {
	if id == "" {
		return nil, errors.New(errors.CodeValidation, "session id is required")
	}
	if slotCount < minSlotCount || slotCount > maxSlotCount {
		return nil, errors.New(errors.CodeValidation, "slot count must be between 2 and 4")
	}
	if historyDepth < 1 {
		return nil, errors.New(errors.CodeValidation, "history depth must be at least 1")
	}

	slots := make([]Slot, slotCount)
	for i := range slots {
		slots[i].Transform = IdentityTransform()
	}

	now := time.Now().UTC()
	return &Session{
		ID:           id,
		Template:     template,
		CreatedAt:    now,
		UpdatedAt:    now,
		slots:        slots,
		selected:     0,
		historyDepth: historyDepth,
		swapFrom:     noSlot,
		gestureSlot:  noSlot,
	}, nil
}

// SlotCount returns the fixed number of frames in this session.
func (s *Session) SlotCount() int {
	return len(s.slots)
}

// Slots returns a copy of the current frame states in strip order.
func (s *Session) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// SelectedSlot is the frame keyboard operations act on.
func (s *Session) SelectedSlot() int {
	return s.selected
}

// SelectSlot moves the keyboard focus. Out-of-range indexes are ignored.
func (s *Session) SelectSlot(i int) {
	if i < 0 || i >= len(s.slots) {
		return
	}
	s.selected = i
	s.wheelBurst = false
}

// InSwapMode reports whether a source slot is armed for a swap.
func (s *Session) InSwapMode() bool {
	return s.swapFrom != noSlot
}

// AssignImage places an image into the strip. The target slot is used when it
// is vacant; otherwise the first vacant slot takes the image. A full strip
// ignores the call.
func (s *Session) AssignImage(target int, image string) {
	if image == "" {
		return
	}
	slot := noSlot
	if target >= 0 && target < len(s.slots) && !s.slots[target].Occupied() {
		slot = target
	} else {
		for i := range s.slots {
			if !s.slots[i].Occupied() {
				slot = i
				break
			}
		}
	}
	if slot == noSlot {
		return
	}

	s.pushHistory()
	s.slots[slot] = Slot{Image: image, Transform: IdentityTransform()}
	s.touch()
}

// RemoveImage vacates one slot and resets its transform. Other slots keep
// their position in the strip; there is no compaction.
func (s *Session) RemoveImage(i int) {
	if i < 0 || i >= len(s.slots) || !s.slots[i].Occupied() {
		return
	}
	s.pushHistory()
	s.slots[i] = Slot{Transform: IdentityTransform()}
	s.cancelSwap()
	s.touch()
}

// TapSlot drives swap mode. The first tap on an occupied slot arms it as the
// swap source, tapping the same slot again disarms, and tapping a different
// slot exchanges both image and transform as a single history entry.
func (s *Session) TapSlot(i int) {
	if i < 0 || i >= len(s.slots) {
		return
	}
	s.selected = i
	s.wheelBurst = false

	if s.swapFrom == noSlot {
		if s.slots[i].Occupied() {
			s.swapFrom = i
		}
		return
	}
	if s.swapFrom == i {
		s.swapFrom = noSlot
		return
	}

	from := s.swapFrom
	s.swapFrom = noSlot
	s.pushHistory()
	s.slots[from], s.slots[i] = s.slots[i], s.slots[from]
	s.touch()
}

// BeginGesture starts a drag or pinch on a slot. The history snapshot is
// deferred until the first mutation so an abandoned gesture leaves no entry.
func (s *Session) BeginGesture(i int) {
	if i < 0 || i >= len(s.slots) || !s.slots[i].Occupied() {
		return
	}
	s.gestureSlot = i
	s.gestureSnapshots = false
	s.selected = i
	s.wheelBurst = false
}

// GesturePan translates the active slot's image. No-op without BeginGesture.
func (s *Session) GesturePan(dx, dy float64) {
	s.gestureMutate(func(t *Transform) {
		t.X += dx
		t.Y += dy
	})
}

// GestureScale adjusts the active slot's scale, clamped to the allowed range.
func (s *Session) GestureScale(delta float64) {
	s.gestureMutate(func(t *Transform) {
		t.Scale = clampScale(t.Scale + delta)
	})
}

// GestureRotate rotates the active slot's image by degrees.
func (s *Session) GestureRotate(degrees float64) {
	s.gestureMutate(func(t *Transform) {
		t.Rotation += degrees
	})
}

// EndGesture closes the active gesture. An orphan end is a no-op.
func (s *Session) EndGesture() {
	s.gestureSlot = noSlot
	s.gestureSnapshots = false
	s.wheelBurst = false
}

// Wheel zooms the focused slot by one notch. Positive deltas (scroll down)
// zoom out, matching the browser's deltaY sign. Consecutive notches share
// one history entry; the burst closes on the next non-wheel edit.
func (s *Session) Wheel(delta float64) {
	if delta == 0 {
		return
	}
	if s.selected < 0 || s.selected >= len(s.slots) || !s.slots[s.selected].Occupied() {
		return
	}
	if !s.wheelBurst {
		s.pushHistory()
		s.wheelBurst = true
	}
	step := wheelStep
	if delta > 0 {
		step = -wheelStep
	}
	t := &s.slots[s.selected].Transform
	t.Scale = clampScale(t.Scale + step)
	s.touch()
}

// UpdateTransform sets one transform field to an absolute value, for slider
// and numeric controls. Scale clamps to the allowed range; unknown fields
// and vacant slots are ignored.
func (s *Session) UpdateTransform(i int, field string, value float64) {
	if i < 0 || i >= len(s.slots) || !s.slots[i].Occupied() {
		return
	}
	t := &s.slots[i].Transform
	switch field {
	case FieldScale:
		s.pushHistory()
		t.Scale = clampScale(value)
	case FieldX:
		s.pushHistory()
		t.X = value
	case FieldY:
		s.pushHistory()
		t.Y = value
	case FieldRotation:
		s.pushHistory()
		t.Rotation = value
	default:
		return
	}
	s.touch()
}

// LoadTemplate switches the strip to another style. Assigned images survive
// the switch but every transform resets to identity, since placement is
// tuned per style. Reloading the current template is a no-op.
func (s *Session) LoadTemplate(template string) {
	if template == "" || template == s.Template {
		return
	}
	s.pushHistory()
	s.Template = template
	for i := range s.slots {
		s.slots[i].Transform = IdentityTransform()
	}
	s.cancelSwap()
	s.touch()
}

func (s *Session) gestureMutate(apply func(*Transform)) {
	if s.gestureSlot == noSlot {
		return
	}
	if !s.gestureSnapshots {
		s.pushHistory()
		s.gestureSnapshots = true
	}
	apply(&s.slots[s.gestureSlot].Transform)
	s.touch()
}

// Undo reverts the latest history entry. Empty history is a silent no-op.
func (s *Session) Undo() {
	if len(s.history) == 0 {
		return
	}
	s.future = pushBounded(s.future, s.capture(), s.historyDepth)
	s.restore(s.history[len(s.history)-1])
	s.history = s.history[:len(s.history)-1]
	s.cancelSwap()
	s.wheelBurst = false
	s.touch()
}

// Redo reapplies the latest undone entry. Empty future is a silent no-op.
func (s *Session) Redo() {
	if len(s.future) == 0 {
		return
	}
	s.history = pushBounded(s.history, s.capture(), s.historyDepth)
	s.restore(s.future[len(s.future)-1])
	s.future = s.future[:len(s.future)-1]
	s.cancelSwap()
	s.wheelBurst = false
	s.touch()
}

// CanUndo reports whether an undo would change the session.
func (s *Session) CanUndo() bool {
	return len(s.history) > 0
}

// CanRedo reports whether a redo would change the session.
func (s *Session) CanRedo() bool {
	return len(s.future) > 0
}

// FinalizeResult describes the composition handed to the cart. Images are in
// strip order, vacant slots skipped. The editor reports occupancy; minimum
// image requirements are enforced downstream.
type FinalizeResult struct {
	Template string   `json:"template"`
	Images   []string `json:"images"`
	Occupied int      `json:"occupied"`
}

// Finalize reads the composition without mutating it.
func (s *Session) Finalize() FinalizeResult {
	images := make([]string, 0, len(s.slots))
	for _, slot := range s.slots {
		if slot.Occupied() {
			images = append(images, slot.Image)
		}
	}
	return FinalizeResult{
		Template: s.Template,
		Images:   images,
		Occupied: len(images),
	}
}

// snapshot is one undoable board state: the template plus every slot's image
// and transform.
type snapshot struct {
	template string
	slots    []Slot
}

func (s *Session) capture() snapshot {
	slots := make([]Slot, len(s.slots))
	copy(slots, s.slots)
	return snapshot{template: s.Template, slots: slots}
}

func (s *Session) restore(snap snapshot) {
	s.Template = snap.template
	s.slots = snap.slots
}

// pushHistory records the pre-mutation state and invalidates the redo stack.
// Any snapshot also closes an open wheel burst.
func (s *Session) pushHistory() {
	s.history = pushBounded(s.history, s.capture(), s.historyDepth)
	s.future = nil
	s.wheelBurst = false
}

func (s *Session) cancelSwap() {
	s.swapFrom = noSlot
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

func pushBounded(stack []snapshot, snap snapshot, depth int) []snapshot {
	stack = append(stack, snap)
	if len(stack) > depth {
		stack = stack[len(stack)-depth:]
	}
	return stack
}
