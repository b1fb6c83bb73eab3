package editor

import (
	"fmt"
	"testing"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess, err := NewSession("sess-1", "basic-01", DefaultSlotCount, DefaultHistoryDepth)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return sess
}

func TestNewSession_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewSession("", "basic-01", 3, 20); err == nil {
		t.Fatal("expected error for empty id")
	}
	if _, err := NewSession("s", "basic-01", 1, 20); err == nil {
		t.Fatal("expected error for slot count below 2")
	}
	if _, err := NewSession("s", "basic-01", 5, 20); err == nil {
		t.Fatal("expected error for slot count above 4")
	}
	if _, err := NewSession("s", "basic-01", 3, 0); err == nil {
		t.Fatal("expected error for zero history depth")
	}

	sess, err := NewSession("s", "basic-01", 2, 20)
	if err != nil {
		t.Fatalf("two-slot session: %v", err)
	}
	if sess.SlotCount() != 2 {
		t.Fatalf("SlotCount() = %d, want 2", sess.SlotCount())
	}
	for i, slot := range sess.Slots() {
		if slot.Occupied() {
			t.Fatalf("slot %d occupied on fresh session", i)
		}
		if !slot.Transform.IsIdentity() {
			t.Fatalf("slot %d not at identity: %+v", i, slot.Transform)
		}
	}
}

func TestAssignImage_TargetThenFirstEmpty(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	sess.AssignImage(1, "img-a")
	if got := sess.Slots()[1].Image; got != "img-a" {
		t.Fatalf("slot 1 = %q, want img-a", got)
	}

	// Target occupied, falls to first vacancy.
	sess.AssignImage(1, "img-b")
	if got := sess.Slots()[0].Image; got != "img-b" {
		t.Fatalf("slot 0 = %q, want img-b", got)
	}

	sess.AssignImage(0, "img-c")
	if got := sess.Slots()[2].Image; got != "img-c" {
		t.Fatalf("slot 2 = %q, want img-c", got)
	}

	// Full strip ignores further assigns and records no history entry.
	undoDepth := len(sess.history)
	sess.AssignImage(0, "img-d")
	for i, slot := range sess.Slots() {
		if slot.Image == "img-d" {
			t.Fatalf("slot %d took image on full strip", i)
		}
	}
	if len(sess.history) != undoDepth {
		t.Fatal("full-strip assign pushed a history entry")
	}
}

func TestRemoveImage_ResetsOnlyThatSlot(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")
	sess.AssignImage(1, "img-b")

	sess.BeginGesture(1)
	sess.GesturePan(7, -3)
	sess.GestureRotate(45)
	sess.EndGesture()

	sess.RemoveImage(1)
	slots := sess.Slots()
	if slots[1].Occupied() {
		t.Fatal("slot 1 still occupied after remove")
	}
	if !slots[1].Transform.IsIdentity() {
		t.Fatalf("slot 1 transform not reset: %+v", slots[1].Transform)
	}
	if slots[0].Image != "img-a" {
		t.Fatal("remove disturbed a neighboring slot")
	}

	// Removing a vacant slot is a no-op.
	depth := len(sess.history)
	sess.RemoveImage(1)
	if len(sess.history) != depth {
		t.Fatal("vacant remove pushed a history entry")
	}
}

func TestUndoRedo_RoundTrip(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	sess.AssignImage(0, "img-a")
	sess.AssignImage(1, "img-b")
	sess.BeginGesture(0)
	sess.GesturePan(10, 20)
	sess.EndGesture()
	edited := sess.Slots()

	for i := 0; i < 3; i++ {
		sess.Undo()
	}
	for i, slot := range sess.Slots() {
		if slot.Occupied() || !slot.Transform.IsIdentity() {
			t.Fatalf("slot %d not pristine after full undo: %+v", i, slot)
		}
	}

	for i := 0; i < 3; i++ {
		sess.Redo()
	}
	got := sess.Slots()
	for i := range edited {
		if got[i] != edited[i] {
			t.Fatalf("slot %d after redo = %+v, want %+v", i, got[i], edited[i])
		}
	}
}

func TestUndoRedo_EmptyStacksNoOp(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	sess.Undo()
	sess.Redo()
	if sess.CanUndo() || sess.CanRedo() {
		t.Fatal("stacks should stay empty")
	}

	sess.AssignImage(0, "img-a")
	sess.Undo()
	sess.Undo() // second undo past the bottom
	if sess.Slots()[0].Occupied() {
		t.Fatal("extra undo changed state")
	}
}

func TestHistory_CappedAtDepth(t *testing.T) {
	t.Parallel()
	sess, err := NewSession("sess-1", "basic-01", 3, 5)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sess.AssignImage(0, "img-a")

	for i := 0; i < 30; i++ {
		sess.BeginGesture(0)
		sess.GesturePan(1, 0)
		sess.EndGesture()
	}
	if len(sess.history) != 5 {
		t.Fatalf("history depth = %d, want 5", len(sess.history))
	}

	// Oldest entries are discarded, so undo bottoms out mid-edit.
	for sess.CanUndo() {
		sess.Undo()
	}
	if got := sess.Slots()[0].Transform.X; got != 25 {
		t.Fatalf("X after exhausting capped history = %v, want 25", got)
	}
}

func TestMutation_ClearsRedoStack(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")
	sess.AssignImage(1, "img-b")
	sess.Undo()
	if !sess.CanRedo() {
		t.Fatal("expected redo available after undo")
	}

	sess.AssignImage(2, "img-c")
	if sess.CanRedo() {
		t.Fatal("new edit should invalidate the redo stack")
	}
}

func TestGesture_OneHistoryEntryPerGesture(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")

	sess.BeginGesture(0)
	sess.GesturePan(1, 1)
	sess.GesturePan(2, 2)
	sess.GestureScale(0.5)
	sess.GestureRotate(15)
	sess.EndGesture()

	sess.Undo()
	slot := sess.Slots()[0]
	if !slot.Transform.IsIdentity() {
		t.Fatalf("single undo should revert the whole gesture, got %+v", slot.Transform)
	}
	if slot.Image != "img-a" {
		t.Fatal("undo of gesture removed the image")
	}
}

func TestGesture_OrphanEventsNoOp(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")

	sess.GesturePan(10, 10)
	sess.GestureScale(1)
	sess.GestureRotate(90)
	sess.EndGesture()

	if tr := sess.Slots()[0].Transform; !tr.IsIdentity() {
		t.Fatalf("orphan gesture events mutated slot: %+v", tr)
	}
	if sess.CanUndo() {
		t.Fatal("orphan gesture events pushed history")
	}
}

func TestGesture_OnVacantSlotNoOp(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	sess.BeginGesture(1)
	sess.GesturePan(10, 10)
	sess.EndGesture()

	if sess.CanUndo() {
		t.Fatal("gesture on vacant slot pushed history")
	}
}

func TestGestureScale_Clamped(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")

	sess.BeginGesture(0)
	sess.GestureScale(10)
	sess.EndGesture()
	if got := sess.Slots()[0].Transform.Scale; got != MaxScale {
		t.Fatalf("scale = %v, want clamp to %v", got, MaxScale)
	}

	sess.BeginGesture(0)
	sess.GestureScale(-10)
	sess.EndGesture()
	if got := sess.Slots()[0].Transform.Scale; got != MinScale {
		t.Fatalf("scale = %v, want clamp to %v", got, MinScale)
	}
}

func TestGestureRotate_Unbounded(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")

	sess.BeginGesture(0)
	sess.GestureRotate(400)
	sess.EndGesture()
	if got := sess.Slots()[0].Transform.Rotation; got != 400 {
		t.Fatalf("rotation = %v, want 400", got)
	}
}

func TestWheel_ZoomsFocusedSlotWithoutDrag(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")
	sess.SelectSlot(0)

	// No BeginGesture: a wheel notch acts on the focused slot directly.
	base := sess.Slots()[0].Transform.Scale
	sess.Wheel(-1)
	want := base + wheelStep
	if got := sess.Slots()[0].Transform.Scale; got != want {
		t.Fatalf("scale after zoom in = %v, want %v", got, want)
	}

	// Positive delta (scroll down) zooms back out, clamped at the floor.
	sess.Wheel(1)
	sess.Wheel(1)
	if got := sess.Slots()[0].Transform.Scale; got != MinScale {
		t.Fatalf("scale after zoom out = %v, want clamp to %v", got, MinScale)
	}
}

func TestWheel_BurstIsOneHistoryEntry(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")
	sess.SelectSlot(0)

	depth := len(sess.history)
	sess.Wheel(-1)
	sess.Wheel(-1)
	sess.Wheel(-1)
	if len(sess.history) != depth+1 {
		t.Fatalf("history grew by %d entries for one burst", len(sess.history)-depth)
	}

	// One undo restores the pre-burst scale.
	sess.Undo()
	if got := sess.Slots()[0].Transform.Scale; got != MinScale {
		t.Fatalf("scale after undo = %v, want %v", got, MinScale)
	}

	// A non-wheel edit in between closes the burst; the next notch opens a
	// fresh entry.
	sess.Redo()
	sess.BeginGesture(0)
	sess.GesturePan(1, 0)
	sess.EndGesture()
	depth = len(sess.history)
	sess.Wheel(-1)
	if len(sess.history) != depth+1 {
		t.Fatal("wheel after a drag did not open a new history entry")
	}
}

func TestWheel_VacantSlotAndZeroDeltaNoOp(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.SelectSlot(0)

	depth := len(sess.history)
	sess.Wheel(-1)
	if len(sess.history) != depth || sess.Slots()[0].Transform.Scale != MinScale {
		t.Fatal("wheel on a vacant slot must not mutate")
	}

	sess.AssignImage(0, "img-a")
	depth = len(sess.history)
	sess.Wheel(0)
	if len(sess.history) != depth {
		t.Fatal("zero-delta wheel must not snapshot")
	}
}

func TestUpdateTransform_AbsoluteSets(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")

	sess.UpdateTransform(0, FieldScale, 9)
	if got := sess.Slots()[0].Transform.Scale; got != MaxScale {
		t.Fatalf("scale = %v, want clamp to %v", got, MaxScale)
	}
	sess.UpdateTransform(0, FieldX, -37.5)
	sess.UpdateTransform(0, FieldY, 12)
	sess.UpdateTransform(0, FieldRotation, 370)
	got := sess.Slots()[0].Transform
	if got.X != -37.5 || got.Y != 12 || got.Rotation != 370 {
		t.Fatalf("transform = %+v", got)
	}

	// Unknown fields and vacant slots leave the session untouched.
	depth := len(sess.history)
	sess.UpdateTransform(0, "skew", 1)
	sess.UpdateTransform(1, FieldScale, 2)
	if len(sess.history) != depth {
		t.Fatal("no-op update pushed a history entry")
	}
	if !sess.Slots()[1].Transform.IsIdentity() {
		t.Fatalf("vacant slot mutated: %+v", sess.Slots()[1].Transform)
	}
}

func TestLoadTemplate_KeepsImagesResetsTransforms(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")
	sess.AssignImage(1, "img-b")
	sess.UpdateTransform(0, FieldX, 25)

	sess.LoadTemplate("retro-02")
	if sess.Template != "retro-02" {
		t.Fatalf("template = %q, want retro-02", sess.Template)
	}
	if got := sess.Slots()[0].Image; got != "img-a" {
		t.Fatalf("slot 0 image = %q, style switch must keep content", got)
	}
	for i, slot := range sess.Slots() {
		if !slot.Transform.IsIdentity() {
			t.Fatalf("slot %d transform survived the switch: %+v", i, slot.Transform)
		}
	}

	// Undo restores both the previous style and its placements.
	sess.Undo()
	if sess.Template != "basic-01" {
		t.Fatalf("template after undo = %q, want basic-01", sess.Template)
	}
	if got := sess.Slots()[0].Transform.X; got != 25 {
		t.Fatalf("x after undo = %v, want 25", got)
	}

	// Reloading the current template is a no-op.
	depth := len(sess.history)
	sess.LoadTemplate("basic-01")
	sess.LoadTemplate("")
	if len(sess.history) != depth {
		t.Fatal("no-op template load pushed a history entry")
	}
}

func TestSwap_AtomicSingleHistoryEntry(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")
	sess.AssignImage(1, "img-b")
	sess.BeginGesture(0)
	sess.GesturePan(5, 5)
	sess.EndGesture()

	before := sess.Slots()
	sess.TapSlot(0)
	if !sess.InSwapMode() {
		t.Fatal("expected swap mode after tapping occupied slot")
	}
	sess.TapSlot(1)
	if sess.InSwapMode() {
		t.Fatal("swap mode should clear after completing a swap")
	}

	after := sess.Slots()
	if after[0] != before[1] || after[1] != before[0] {
		t.Fatalf("swap did not exchange image and transform together: %+v", after)
	}

	sess.Undo()
	got := sess.Slots()
	if got[0] != before[0] || got[1] != before[1] {
		t.Fatal("single undo should revert the whole swap")
	}
}

func TestSwap_SameSlotCancels(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")

	sess.TapSlot(0)
	sess.TapSlot(0)
	if sess.InSwapMode() {
		t.Fatal("tapping the armed slot should cancel swap mode")
	}
	if sess.CanUndo() {
		// AssignImage pushed one entry; a canceled swap must not add another.
		sess.Undo()
		if sess.CanUndo() {
			t.Fatal("canceled swap pushed a history entry")
		}
	}
}

func TestSwap_DoubleSwapRestores(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")
	sess.AssignImage(1, "img-b")
	before := sess.Slots()

	sess.TapSlot(0)
	sess.TapSlot(1)
	sess.TapSlot(1)
	sess.TapSlot(0)

	got := sess.Slots()
	for i := range before {
		if got[i] != before[i] {
			t.Fatalf("double swap drifted at slot %d: %+v", i, got[i])
		}
	}
}

func TestSwap_IntoVacantSlot(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(0, "img-a")

	sess.TapSlot(0)
	sess.TapSlot(2)

	slots := sess.Slots()
	if slots[0].Occupied() {
		t.Fatal("source slot should be vacant after swap into empty slot")
	}
	if slots[2].Image != "img-a" {
		t.Fatalf("slot 2 = %q, want img-a", slots[2].Image)
	}
}

func TestFinalize_OrderedOccupiedImages(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	sess.AssignImage(2, "img-c")
	sess.AssignImage(0, "img-a")

	result := sess.Finalize()
	if result.Template != "basic-01" {
		t.Fatalf("Template = %q, want basic-01", result.Template)
	}
	if result.Occupied != 2 {
		t.Fatalf("Occupied = %d, want 2", result.Occupied)
	}
	want := []string{"img-a", "img-c"}
	if fmt.Sprint(result.Images) != fmt.Sprint(want) {
		t.Fatalf("Images = %v, want %v", result.Images, want)
	}

	// Finalize is a read; the session must be reusable afterward.
	sess.AssignImage(1, "img-b")
	if sess.Finalize().Occupied != 3 {
		t.Fatal("session not editable after finalize")
	}
}

func TestFinalize_EmptySession(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	result := sess.Finalize()
	if result.Occupied != 0 || len(result.Images) != 0 {
		t.Fatalf("empty session finalize = %+v", result)
	}
}
