package tracker

import (
	"fmt"
	"io"
	"os"

	"github.com/vuengine/vsutrack"
)

// FilePath is the file the song was loaded from or saved to, empty if none.
func (m *Model) FilePath() string { return m.filePath }

// ChangedSinceSave tells if the song has been edited after it was loaded or
// saved.
func (m *Model) ChangedSinceSave() bool { return m.changedSinceSave }

// ReadSong loads a song and replaces the current one with it. Errors are
// reported as alerts and leave the current song untouched.
func (m *Model) ReadSong(r io.ReadCloser) bool {
	b, err := io.ReadAll(r)
	if err != nil {
		m.Alert(Alert{Name: "ReadSong", Priority: Error, Message: fmt.Sprintf("Error reading a song file: %v", err)})
		return false
	}
	if err := r.Close(); err != nil {
		m.Alert(Alert{Name: "ReadSong", Priority: Error, Message: fmt.Sprintf("Error closing a song file: %v", err)})
		return false
	}
	song, err := vsutrack.ReadSong(b)
	if err != nil {
		m.Alert(Alert{Name: "ReadSong", Priority: Error, Message: fmt.Sprintf("Error unmarshaling a song file: %v", err)})
		return false
	}
	m.SetSong(song)
	m.filePath = ""
	if f, ok := r.(*os.File); ok {
		m.filePath = f.Name()
	}
	m.changedSinceSave = false
	return true
}

// WriteSong saves the song as .yml.
func (m *Model) WriteSong(w io.WriteCloser) bool {
	contents, err := vsutrack.MarshalSong(&m.song)
	if err != nil {
		m.Alert(Alert{Name: "WriteSong", Priority: Error, Message: fmt.Sprintf("Error marshaling a song file: %v", err)})
		return false
	}
	if _, err := w.Write(contents); err != nil {
		w.Close()
		m.Alert(Alert{Name: "WriteSong", Priority: Error, Message: fmt.Sprintf("Error writing to file: %v", err)})
		return false
	}
	if err := w.Close(); err != nil {
		m.Alert(Alert{Name: "WriteSong", Priority: Error, Message: fmt.Sprintf("Error closing file: %v", err)})
		return false
	}
	if f, ok := w.(*os.File); ok {
		m.filePath = f.Name()
	}
	m.changedSinceSave = false
	return true
}
