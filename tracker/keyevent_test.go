package tracker_test

import (
	"testing"

	"github.com/vuengine/vsutrack/tracker"
)

func TestKeyName(t *testing.T) {
	for input, want := range map[string]string{
		" ":      "Space",
		"\x1b":   "Escape",
		"\x7f":   "Backspace",
		"\r":     "Enter",
		"z":      "z",
		"\x1b[A": "",
	} {
		if got := tracker.KeyName([]byte(input)); got != want {
			t.Errorf("KeyName(%q): got %q, expected %q", input, got, want)
		}
	}
}

func TestKeyMapOverride(t *testing.T) {
	keys := tracker.NewKeyMap([]tracker.KeyBinding{
		{Key: "z", Action: "Note0"},
		{Key: "q", Action: "Quit"},
		{Key: "z", Action: "Note12"},
		{Key: "q"},
	})
	if got := keys["z"]; got != "Note12" {
		t.Fatalf("later binding should win, got %q", got)
	}
	if _, ok := keys["q"]; ok {
		t.Fatal("empty action should unbind the key")
	}
	if n, ok := keys["z"].Semitone(); !ok || n != 12 {
		t.Fatalf("Semitone: got %v, %v", n, ok)
	}
	if _, ok := tracker.KeyAction("NoteOff").Semitone(); ok {
		t.Fatal("NoteOff is not a note")
	}
}

func TestDefaultKeyMap(t *testing.T) {
	keys := tracker.MakeKeyMap()
	for _, action := range []tracker.KeyAction{"TogglePlay", "Stop", "Quit", "NoteOff", "Save", "Undo", "Redo"} {
		found := false
		for _, a := range keys {
			found = found || a == action
		}
		if !found {
			t.Errorf("action %v is not bound to any key", action)
		}
	}
}

func TestDefaultPreferences(t *testing.T) {
	p := tracker.MakePreferences()
	if p.TickInterval() <= 0 {
		t.Fatalf("tick interval should be positive, got %v", p.TickInterval())
	}
	if p.MIDI.Velocity < 0 || p.MIDI.Velocity > 127 {
		t.Fatalf("velocity out of range: %v", p.MIDI.Velocity)
	}
}
