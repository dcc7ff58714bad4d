package tracker_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/tracker"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestModelWriteAndReadSong(t *testing.T) {
	broker := tracker.NewBroker()
	model := tracker.NewModel(broker, twoChannelSong())
	model.SetLoop(true, 8)
	if !model.ChangedSinceSave() {
		t.Fatal("an edit should mark the song changed")
	}
	var buf bufferCloser
	if !model.WriteSong(&buf) || !buf.closed {
		t.Fatal("WriteSong should succeed and close the writer")
	}
	if model.ChangedSinceSave() {
		t.Fatal("the song should not be changed after saving")
	}
	want := model.Song()
	other := tracker.NewModel(tracker.NewBroker(), vsutrack.Song{})
	if !other.ReadSong(io.NopCloser(&buf.Buffer)) {
		t.Fatalf("ReadSong failed: %+v", other.TakeAlerts())
	}
	if got := other.Song(); !reflect.DeepEqual(got, want) {
		t.Fatalf("read song differs:\ngot  %+v\nwant %+v", got, want)
	}
	if other.Undo() {
		t.Fatal("reading a song should clear the history")
	}
}

func TestModelReadSongRemembersPath(t *testing.T) {
	song := twoChannelSong()
	contents, err := vsutrack.MarshalSong(&song)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "song.yml")
	if err := os.WriteFile(path, contents, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	model := tracker.NewModel(tracker.NewBroker(), tracker.DefaultSong)
	if !model.ReadSong(f) {
		t.Fatalf("ReadSong failed: %+v", model.TakeAlerts())
	}
	if model.FilePath() != path {
		t.Fatalf("file path: got %q, expected %q", model.FilePath(), path)
	}
}

func TestModelReadInvalidSong(t *testing.T) {
	model := tracker.NewModel(tracker.NewBroker(), twoChannelSong())
	if model.ReadSong(io.NopCloser(bytes.NewBufferString("speed: [oops"))) {
		t.Fatal("ReadSong should fail")
	}
	if alerts := model.TakeAlerts(); len(alerts) != 1 || alerts[0].Priority != tracker.Error {
		t.Fatalf("expected an error alert, got %+v", alerts)
	}
	if model.Revision() != 1 {
		t.Fatal("a failed read should keep the current song")
	}
}

func TestDefaultSongIsValid(t *testing.T) {
	song := tracker.DefaultSong
	if err := song.Validate(); err != nil {
		t.Fatal(err)
	}
	if song.Length() != 4*4*vsutrack.SubStepsPerStep {
		t.Fatalf("length: got %v", song.Length())
	}
}
