package editor

// Keyboard nudge increments.
const (
	panStep      = 5.0
	panStepLarge = 20.0
	scaleStep    = 0.05
	rotateStep   = 5.0
)

// KeyEvent is a normalized keyboard event forwarded by the client. Key uses
// the DOM KeyboardEvent.Key values ("ArrowLeft", "z", "Delete", ...).
type KeyEvent struct {
	Key              string `json:"key"`
	Shift            bool   `json:"shift"`
	Ctrl             bool   `json:"ctrl"`
	Meta             bool   `json:"meta"`
	TextInputFocused bool   `json:"textInputFocused"`
}

func (ev KeyEvent) modifier() bool {
	return ev.Ctrl || ev.Meta
}

// HandleKey applies one keyboard shortcut to the session. Events arriving
// while a text input has focus are dropped so typing never edits the strip.
// Unrecognized keys are ignored.
func (s *Session) HandleKey(ev KeyEvent) {
	if ev.TextInputFocused {
		return
	}

	if ev.modifier() {
		switch ev.Key {
		case "z", "Z":
			s.Undo()
		case "y", "Y":
			s.Redo()
		}
		return
	}

	step := panStep
	if ev.Shift {
		step = panStepLarge
	}

	switch ev.Key {
	case "ArrowLeft":
		s.nudgeSelected(func(t *Transform) { t.X -= step })
	case "ArrowRight":
		s.nudgeSelected(func(t *Transform) { t.X += step })
	case "ArrowUp":
		s.nudgeSelected(func(t *Transform) { t.Y -= step })
	case "ArrowDown":
		s.nudgeSelected(func(t *Transform) { t.Y += step })
	case "+", "=":
		s.nudgeSelected(func(t *Transform) { t.Scale = clampScale(t.Scale + scaleStep) })
	case "-", "_":
		s.nudgeSelected(func(t *Transform) { t.Scale = clampScale(t.Scale - scaleStep) })
	case "[":
		s.nudgeSelected(func(t *Transform) { t.Rotation -= rotateStep })
	case "]":
		s.nudgeSelected(func(t *Transform) { t.Rotation += rotateStep })
	case "1", "2", "3", "4":
		s.SelectSlot(int(ev.Key[0] - '1'))
	case "Delete", "Backspace":
		s.RemoveImage(s.selected)
	}
}

// nudgeSelected applies one discrete edit to the focused slot. Each keypress
// is its own history entry; vacant slots ignore nudges.
func (s *Session) nudgeSelected(apply func(*Transform)) {
	if s.selected < 0 || s.selected >= len(s.slots) || !s.slots[s.selected].Occupied() {
		return
	}
	s.pushHistory()
	apply(&s.slots[s.selected].Transform)
	s.touch()
}
