package template

// history is a bounded linear stack of serialized document snapshots with a
// cursor. Pushing after an undo discards everything past the cursor; pushing
// a snapshot identical to the current one is a no-op so that cosmetic
// re-application of the same state never burns an undo step.
type history struct {
	snaps  []string
	cursor int
	limit  int
}

const defaultHistoryLimit = 100

func newHistory(limit int) *history {
	if limit < 2 {
		limit = defaultHistoryLimit
	}
	return &history{snaps: nil, cursor: -1, limit: limit}
}

// push records a snapshot as the new top of the stack. Returns false when
// the snapshot was deduplicated against the current cursor position.
func (h *history) push(snap string) bool {
	if h.cursor >= 0 && h.snaps[h.cursor] == snap {
		return false
	}
	h.snaps = append(h.snaps[:h.cursor+1], snap)
	h.cursor = len(h.snaps) - 1
	if len(h.snaps) > h.limit {
		drop := len(h.snaps) - h.limit
		h.snaps = append([]string(nil), h.snaps[drop:]...)
		h.cursor -= drop
	}
	return true
}

// undo moves the cursor one step back. At the bottom it is a no-op.
func (h *history) undo() (string, bool) {
	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.snaps[h.cursor], true
}

// redo moves the cursor one step forward. At the top it is a no-op.
func (h *history) redo() (string, bool) {
	if h.cursor < 0 || h.cursor >= len(h.snaps)-1 {
		return "", false
	}
	h.cursor++
	return h.snaps[h.cursor], true
}

func (h *history) canUndo() bool { return h.cursor > 0 }
func (h *history) canRedo() bool { return h.cursor >= 0 && h.cursor < len(h.snaps)-1 }
