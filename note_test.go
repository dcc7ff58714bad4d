package vsutrack_test

import (
	"testing"

	"github.com/vuengine/vsutrack"
)

func TestNoteFrequencies(t *testing.T) {
	cases := []struct {
		label string
		want  uint16
	}{
		{"C4", 1451},
		{"A4", 1693},
		{"B7", 2008},
	}
	for _, c := range cases {
		n, err := vsutrack.ParseNote(c.label)
		if err != nil {
			t.Fatalf("ParseNote(%q) failed: %v", c.label, err)
		}
		if got := n.Frequency(); got != c.want {
			t.Errorf("%v: got frequency %v, expected %v", c.label, got, c.want)
		}
		if n.String() != c.label {
			t.Errorf("%v: String() returned %v", c.label, n.String())
		}
	}
}

func TestParseNote(t *testing.T) {
	cases := []struct {
		label string
		want  vsutrack.Note
	}{
		{"C3", 0},
		{"c#3", 1},
		{"Db3", 1},
		{"Bb4", 22},
		{"C1", 0},                     // below the table
		{"C9", vsutrack.NumNotes - 1}, // above the table
	}
	for _, c := range cases {
		got, err := vsutrack.ParseNote(c.label)
		if err != nil {
			t.Fatalf("ParseNote(%q) failed: %v", c.label, err)
		}
		if got != c.want {
			t.Errorf("ParseNote(%q): got %v, expected %v", c.label, int(got), int(c.want))
		}
	}
	for _, bad := range []string{"", "4", "H4", "C#"} {
		if _, err := vsutrack.ParseNote(bad); err == nil {
			t.Errorf("ParseNote(%q) should have failed", bad)
		}
	}
}

func TestOutOfTableNotesClamp(t *testing.T) {
	if got, want := vsutrack.Note(-5).Frequency(), vsutrack.Note(0).Frequency(); got != want {
		t.Errorf("negative note: got %v, expected %v", got, want)
	}
	if got, want := vsutrack.Note(500).Frequency(), vsutrack.Note(vsutrack.NumNotes-1).Frequency(); got != want {
		t.Errorf("too high note: got %v, expected %v", got, want)
	}
}

func TestFrequencyTableIsIncreasing(t *testing.T) {
	prev := uint16(0)
	for n := vsutrack.Note(0); n < vsutrack.NumNotes; n++ {
		f := n.Frequency()
		if f <= prev || f > vsutrack.MaxFrequency {
			t.Fatalf("note %v has frequency %v after %v", n, f, prev)
		}
		prev = f
		if got := vsutrack.NearestNote(f); got != n {
			t.Fatalf("NearestNote(%v) = %v, expected %v", f, got, n)
		}
	}
}
