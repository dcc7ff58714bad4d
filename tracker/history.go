package tracker

import "github.com/vuengine/vsutrack"

const maxUndo = 64

// Undo restores the song before the latest edit.
func (m *Model) Undo() bool {
	if len(m.undoStack) == 0 {
		return false
	}
	m.redoStack = pushHistory(m.redoStack, m.song)
	m.song = m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.changedSinceSave = true
	m.publish()
	return true
}

func (m *Model) Redo() bool {
	if len(m.redoStack) == 0 {
		return false
	}
	m.undoStack = pushHistory(m.undoStack, m.song)
	m.song = m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.changedSinceSave = true
	m.publish()
	return true
}

func pushHistory(stack []vsutrack.Song, song vsutrack.Song) []vsutrack.Song {
	stack = append(stack, song)
	if len(stack) > maxUndo {
		stack = stack[len(stack)-maxUndo:]
	}
	return stack
}

// edit replaces the song with an edited version, saving the previous one to
// the undo history.
func (m *Model) edit(song vsutrack.Song) {
	m.undoStack = pushHistory(m.undoStack, m.song)
	m.redoStack = nil
	m.song = song
	m.changedSinceSave = true
	m.publish()
}

func (m *Model) clearHistory() {
	m.undoStack = nil
	m.redoStack = nil
}
