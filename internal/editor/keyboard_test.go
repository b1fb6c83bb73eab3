package editor

import "testing"

func newKeyboardSession(t *testing.T) *Session {
	t.Helper()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")
	sess.AssignImage(1, "img-b")
	sess.SelectSlot(0)
	return sess
}

func TestHandleKey_ArrowPan(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)

	sess.HandleKey(KeyEvent{Key: "ArrowRight"})
	sess.HandleKey(KeyEvent{Key: "ArrowDown"})
	tr := sess.Slots()[0].Transform
	if tr.X != 5 || tr.Y != 5 {
		t.Fatalf("pan = (%v, %v), want (5, 5)", tr.X, tr.Y)
	}

	sess.HandleKey(KeyEvent{Key: "ArrowLeft", Shift: true})
	if got := sess.Slots()[0].Transform.X; got != -15 {
		t.Fatalf("X after shift pan = %v, want -15", got)
	}
	sess.HandleKey(KeyEvent{Key: "ArrowUp", Shift: true})
	if got := sess.Slots()[0].Transform.Y; got != -15 {
		t.Fatalf("Y after shift pan = %v, want -15", got)
	}
}

func TestHandleKey_ScaleSteps(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)

	sess.HandleKey(KeyEvent{Key: "+"})
	if got := sess.Slots()[0].Transform.Scale; got != 1.05 {
		t.Fatalf("scale = %v, want 1.05", got)
	}
	sess.HandleKey(KeyEvent{Key: "-"})
	sess.HandleKey(KeyEvent{Key: "-"})
	// Clamped at the floor, not pushed below it.
	if got := sess.Slots()[0].Transform.Scale; got != MinScale {
		t.Fatalf("scale = %v, want clamp to %v", got, MinScale)
	}
}

func TestHandleKey_RotateSteps(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)

	sess.HandleKey(KeyEvent{Key: "]"})
	sess.HandleKey(KeyEvent{Key: "]"})
	sess.HandleKey(KeyEvent{Key: "["})
	if got := sess.Slots()[0].Transform.Rotation; got != 5 {
		t.Fatalf("rotation = %v, want 5", got)
	}
}

func TestHandleKey_DigitSelectsSlot(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)

	sess.HandleKey(KeyEvent{Key: "2"})
	if got := sess.SelectedSlot(); got != 1 {
		t.Fatalf("selected = %d, want 1", got)
	}

	// Digit beyond the slot count is ignored on a three-slot strip.
	sess.HandleKey(KeyEvent{Key: "4"})
	if got := sess.SelectedSlot(); got != 1 {
		t.Fatalf("selected = %d after out-of-range digit, want 1", got)
	}
}

func TestHandleKey_UndoRedoShortcuts(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)

	sess.HandleKey(KeyEvent{Key: "ArrowRight"})
	sess.HandleKey(KeyEvent{Key: "z", Ctrl: true})
	if got := sess.Slots()[0].Transform.X; got != 0 {
		t.Fatalf("X after ctrl+z = %v, want 0", got)
	}
	sess.HandleKey(KeyEvent{Key: "y", Meta: true})
	if got := sess.Slots()[0].Transform.X; got != 5 {
		t.Fatalf("X after cmd+y = %v, want 5", got)
	}
}

func TestHandleKey_DeleteClearsSelected(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)

	sess.HandleKey(KeyEvent{Key: "Delete"})
	if sess.Slots()[0].Occupied() {
		t.Fatal("Delete did not clear the focused slot")
	}

	sess.SelectSlot(1)
	sess.HandleKey(KeyEvent{Key: "Backspace"})
	if sess.Slots()[1].Occupied() {
		t.Fatal("Backspace did not clear the focused slot")
	}
}

func TestHandleKey_SuppressedWhileTyping(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)

	sess.HandleKey(KeyEvent{Key: "ArrowRight", TextInputFocused: true})
	sess.HandleKey(KeyEvent{Key: "Delete", TextInputFocused: true})
	sess.HandleKey(KeyEvent{Key: "z", Ctrl: true, TextInputFocused: true})

	slots := sess.Slots()
	if slots[0].Transform.X != 0 || !slots[0].Occupied() {
		t.Fatal("keyboard events leaked through a focused text input")
	}
}

func TestHandleKey_VacantSlotIgnoresNudges(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)
	sess.SelectSlot(2)

	sess.HandleKey(KeyEvent{Key: "ArrowRight"})
	sess.HandleKey(KeyEvent{Key: "+"})
	if tr := sess.Slots()[2].Transform; !tr.IsIdentity() {
		t.Fatalf("nudge mutated vacant slot: %+v", tr)
	}
}

func TestHandleKey_UnknownKeyIgnored(t *testing.T) {
	t.Parallel()
	sess := newKeyboardSession(t)

	sess.HandleKey(KeyEvent{Key: "q"})
	sess.HandleKey(KeyEvent{Key: "Escape"})
	if got := sess.Slots()[0].Transform; !got.IsIdentity() {
		t.Fatalf("unknown key mutated state: %+v", got)
	}
}
