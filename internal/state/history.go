package state

import "log"

// UndoManager is the host-side history that tap gestures are bridged to.
type UndoManager interface {
	Undo()
	Redo()
}

// Canvas is the part of the session the history rewrites.
type Canvas interface {
	Drawing() Drawing
	Replace(d Drawing)
}

// History is a drawing-level undo manager. Every recorded change keeps the
// drawing that preceded it.
type History struct {
	canvas Canvas
	undo   []Drawing
	redo   []Drawing
}

func NewHistory(c Canvas) *History {
	return &History{canvas: c}
}

// Record remembers prev as the state before a change and drops the redo
// stack.
func (h *History) Record(prev Drawing) {
	h.undo = append(h.undo, prev)
	h.redo = nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) Undo() {
	if len(h.undo) == 0 {
		return
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, h.canvas.Drawing())
	h.canvas.Replace(prev)
	log.Printf("[HISTORY] Undo (%d left)", len(h.undo))
}

func (h *History) Redo() {
	if len(h.redo) == 0 {
		return
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, h.canvas.Drawing())
	h.canvas.Replace(next)
	log.Printf("[HISTORY] Redo (%d left)", len(h.redo))
}

// Clearer empties the canvas.
type Clearer interface {
	Clear()
}

// HistoryBridge maps multi-finger taps onto history actions: two fingers
// undo, three redo, four clear the canvas.
type HistoryBridge struct {
	History UndoManager
	Canvas  Clearer
}

func (b HistoryBridge) Tap(fingers int) {
	switch fingers {
	case 2:
		if b.History != nil {
			b.History.Undo()
		}
	case 3:
		if b.History != nil {
			b.History.Redo()
		}
	case 4:
		b.Canvas.Clear()
	}
}
