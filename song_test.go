package vsutrack_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vuengine/vsutrack"
)

func testSong() vsutrack.Song {
	return vsutrack.Song{
		Name:  "test",
		Speed: 100,
		Channels: []vsutrack.Channel{
			{Kind: vsutrack.WaveChannel, Instrument: "lead", Sequence: map[int]vsutrack.PatternID{0: "a", 1: "b"}},
		},
		Patterns: map[vsutrack.PatternID]vsutrack.Pattern{
			"a": {Size: 4, Events: map[int]vsutrack.Event{0: vsutrack.NoteEvent(12)}},
			"b": {Size: 2},
		},
		Instruments: map[vsutrack.InstrumentID]vsutrack.Instrument{
			"lead": {Waveform: "square", Volume: vsutrack.StereoLevels{Left: 15, Right: 15}},
		},
		Waveforms: map[vsutrack.WaveformID]vsutrack.Waveform{"square": {}},
	}
}

func TestSongLength(t *testing.T) {
	song := testSong()
	if got, want := song.Length(), 6*vsutrack.SubStepsPerStep; got != want {
		t.Fatalf("song length: got %v, expected %v", got, want)
	}
	song = song.WithChannel(1, vsutrack.Channel{Sequence: map[int]vsutrack.PatternID{3: "b"}})
	if got, want := song.ChannelLength(1), 2*vsutrack.SubStepsPerStep; got != want {
		t.Fatalf("channel length: got %v, expected %v", got, want)
	}
	if got, want := song.Length(), 6*vsutrack.SubStepsPerStep; got != want {
		t.Fatalf("song length with two channels: got %v, expected %v", got, want)
	}
}

func TestMissingPatternHasNoLength(t *testing.T) {
	song := testSong()
	song.Channels[0] = song.Channels[0].WithSlot(5, "nope")
	if got, want := song.Length(), 6*vsutrack.SubStepsPerStep; got != want {
		t.Fatalf("song length: got %v, expected %v", got, want)
	}
	var missing []int
	for slot := range song.Slots(0) {
		if slot.Missing {
			missing = append(missing, slot.Slot)
		}
	}
	if !reflect.DeepEqual(missing, []int{5}) {
		t.Fatalf("missing slots: got %v, expected [5]", missing)
	}
}

func TestSlotsWalkInOrder(t *testing.T) {
	song := testSong()
	song.Channels[0].Sequence = map[int]vsutrack.PatternID{7: "b", 2: "a", 4: "b"}
	var offsets, slots []int
	for s := range song.Slots(0) {
		slots = append(slots, s.Slot)
		offsets = append(offsets, s.Offset)
	}
	if !reflect.DeepEqual(slots, []int{2, 4, 7}) {
		t.Fatalf("slot order: got %v", slots)
	}
	if want := []int{0, 64, 96}; !reflect.DeepEqual(offsets, want) {
		t.Fatalf("slot offsets: got %v, expected %v", offsets, want)
	}
}

func TestWithPatternSharesOtherEntries(t *testing.T) {
	song := testSong()
	edited := song.WithPattern("a", song.Patterns["a"].WithEvent(16, vsutrack.NoteEvent(3)))
	if _, ok := song.Patterns["a"].Events[16]; ok {
		t.Fatalf("editing a revision modified the previous revision")
	}
	if _, ok := edited.Patterns["a"].Events[16]; !ok {
		t.Fatalf("edited revision is missing the new event")
	}
	if !reflect.DeepEqual(song.Patterns["b"], edited.Patterns["b"]) {
		t.Fatalf("untouched pattern changed")
	}
	removed := edited.Patterns["a"].WithoutEvent(16)
	if _, ok := edited.Patterns["a"].Events[16]; !ok {
		t.Fatalf("WithoutEvent modified the receiver")
	}
	if _, ok := removed.Events[16]; ok {
		t.Fatalf("WithoutEvent did not remove the event")
	}
}

func TestCopyIsDeep(t *testing.T) {
	song := testSong()
	cp := song.Copy()
	*cp.Patterns["a"].Events[0].Note = 40
	cp.Channels[0].Sequence[0] = "b"
	if *song.Patterns["a"].Events[0].Note != 12 {
		t.Fatalf("copy shares notes with the original")
	}
	if song.Channels[0].Sequence[0] != "a" {
		t.Fatalf("copy shares sequences with the original")
	}
}

func TestValidate(t *testing.T) {
	song := testSong()
	if err := song.Validate(); err != nil {
		t.Fatalf("valid song reported errors: %v", err)
	}
	song.Speed = 0
	song.LoopPoint = 1000
	song.Channels[0] = song.Channels[0].WithSlot(3, "missing")
	song = song.WithPattern("b", song.Patterns["b"].WithEvent(99, vsutrack.Event{Instrument: "ghost"}))
	err := song.Validate()
	if err == nil {
		t.Fatalf("invalid song passed validation")
	}
	for _, want := range []string{"speed", "loop point", `missing pattern "missing"`, "sub-step 99", `missing instrument "ghost"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error %q does not mention %q", err, want)
		}
	}
}

func TestClampSpeed(t *testing.T) {
	for _, c := range []struct{ in, want int }{{0, vsutrack.MinSpeed}, {100, 100}, {100000, vsutrack.MaxSpeed}} {
		if got := vsutrack.ClampSpeed(c.in); got != c.want {
			t.Errorf("ClampSpeed(%v): got %v, expected %v", c.in, got, c.want)
		}
	}
}

const yamlSong = `
name: demo
speed: 100
channels:
  - kind: wave
    instrument: lead
    sequence: {0: intro}
  - kind: noise
    sequence: {0: intro}
    muted: true
patterns:
  intro:
    size: 1
    events:
      0: {note: C4}
      8: {note: 14, duration: 4, volume: {left: 3, right: 9}}
instruments:
  lead: {waveform: saw, volume: {left: 15, right: 15}}
`

func TestReadSongYAML(t *testing.T) {
	song, err := vsutrack.ReadSong([]byte(yamlSong))
	if err != nil {
		t.Fatalf("ReadSong failed: %v", err)
	}
	if song.Channels[1].Kind != vsutrack.NoiseChannelKind || !song.Channels[1].Muted {
		t.Fatalf("second channel decoded wrong: %+v", song.Channels[1])
	}
	ev := song.Patterns["intro"].Events[0]
	if ev.Note == nil || ev.Note.String() != "C4" {
		t.Fatalf("note label was not decoded: %+v", ev)
	}
	ev = song.Patterns["intro"].Events[8]
	if *ev.Note != 14 || ev.Duration != 4 || *ev.Volume != (vsutrack.StereoLevels{Left: 3, Right: 9}) {
		t.Fatalf("event decoded wrong: %+v", ev)
	}
	contents, err := vsutrack.MarshalSong(&song)
	if err != nil {
		t.Fatalf("MarshalSong failed: %v", err)
	}
	again, err := vsutrack.ReadSong(contents)
	if err != nil {
		t.Fatalf("ReadSong of marshaled song failed: %v", err)
	}
	if !reflect.DeepEqual(song, again) {
		t.Fatalf("song changed when written and read back:\n%+v\n%+v", song, again)
	}
}

func TestReadSongJSON(t *testing.T) {
	song, err := vsutrack.ReadSong([]byte(`{"Name":"j","Speed":50,"Channels":[{"Kind":"sweepmod","Sequence":{"0":"p"}}],"Patterns":{"p":{"Size":1,"Events":{"4":{"Note":"A4"}}}}}`))
	if err != nil {
		t.Fatalf("ReadSong failed: %v", err)
	}
	if song.Channels[0].Kind != vsutrack.SweepModulationChannel {
		t.Fatalf("channel kind: got %v", song.Channels[0].Kind)
	}
	if n := song.Patterns["p"].Events[4].Note; n == nil || n.Frequency() != 1693 {
		t.Fatalf("A4 decoded wrong: %v", n)
	}
}
