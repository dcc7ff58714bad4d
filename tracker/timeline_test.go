package tracker_test

import (
	"reflect"
	"testing"

	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/tracker"
)

func note(label string) *vsutrack.Note {
	n, err := vsutrack.ParseNote(label)
	if err != nil {
		panic(err)
	}
	return &n
}

// twoChannelSong has a one step pattern with C4 on channel 0 and a two step
// pattern with an event at sub-step 2 on channel 1.
func twoChannelSong() vsutrack.Song {
	return vsutrack.Song{
		Speed: 100,
		Channels: []vsutrack.Channel{
			{Instrument: "lead", Sequence: map[int]vsutrack.PatternID{0: "a"}},
			{Instrument: "lead", Sequence: map[int]vsutrack.PatternID{0: "b"}},
		},
		Patterns: map[vsutrack.PatternID]vsutrack.Pattern{
			"a": {Size: 1, Events: map[int]vsutrack.Event{0: {Note: note("C4")}}},
			"b": {Size: 2, Events: map[int]vsutrack.Event{2: {Note: note("E4")}}},
		},
		Instruments: map[vsutrack.InstrumentID]vsutrack.Instrument{
			"lead": {Waveform: "saw", Volume: vsutrack.StereoLevels{Left: 15, Right: 12}},
		},
		Waveforms: map[vsutrack.WaveformID]vsutrack.Waveform{"saw": {0, 2, 4, 6}},
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	song := twoChannelSong()
	a, b := tracker.Flatten(&song), tracker.Flatten(&song)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("flattening twice gave different timelines:\n%+v\n%+v", a, b)
	}
}

func TestFlattenLength(t *testing.T) {
	song := twoChannelSong()
	song.Channels[0] = song.Channels[0].WithSlot(1, "b")
	timeline := tracker.Flatten(&song)
	if got, want := timeline.Channels[0].Length, 3*vsutrack.SubStepsPerStep; got != want {
		t.Errorf("channel 0 length: got %v, expected %v", got, want)
	}
	if got, want := timeline.Channels[1].Length, 2*vsutrack.SubStepsPerStep; got != want {
		t.Errorf("channel 1 length: got %v, expected %v", got, want)
	}
	if got, want := timeline.Length, 3*vsutrack.SubStepsPerStep; got != want {
		t.Errorf("timeline length: got %v, expected %v", got, want)
	}
	if _, ok := timeline.Event(0, 16+2); !ok {
		t.Error("event of the second slot should be offset by the length of the first slot")
	}
}

func TestFlattenDropsEventsOutsidePattern(t *testing.T) {
	song := twoChannelSong()
	song = song.WithPattern("a", song.Patterns["a"].WithEvent(16, vsutrack.NoteEvent(0)))
	timeline := tracker.Flatten(&song)
	if _, ok := timeline.Event(0, 16); ok {
		t.Fatal("event past the end of the pattern should be dropped")
	}
}

func TestMuteSoloPrecedence(t *testing.T) {
	for _, tc := range []struct {
		name          string
		muted, soloed [2]bool
		audible       [2]bool
	}{
		{"none", [2]bool{}, [2]bool{}, [2]bool{true, true}},
		{"muted", [2]bool{true, false}, [2]bool{}, [2]bool{false, true}},
		{"soloed", [2]bool{}, [2]bool{true, false}, [2]bool{true, false}},
		{"muted and soloed", [2]bool{true, false}, [2]bool{true, false}, [2]bool{false, false}},
		{"both soloed", [2]bool{}, [2]bool{true, true}, [2]bool{true, true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			song := twoChannelSong()
			for i := range song.Channels {
				song.Channels[i].Muted = tc.muted[i]
				song.Channels[i].Solo = tc.soloed[i]
			}
			timeline := tracker.Flatten(&song)
			for i := range 2 {
				if got := timeline.Audible(i); got != tc.audible[i] {
					t.Errorf("channel %v audible: got %v, expected %v", i, got, tc.audible[i])
				}
			}
		})
	}
}

func TestEmptyChannelIsNeverAudible(t *testing.T) {
	song := twoChannelSong()
	song = song.WithChannel(2, vsutrack.Channel{Instrument: "lead"})
	timeline := tracker.Flatten(&song)
	if timeline.Audible(2) || !timeline.Channels[2].Empty {
		t.Fatal("channel without sequence should be empty and inaudible")
	}
}

func TestSoloedChannelSilencesOthers(t *testing.T) {
	song := twoChannelSong()
	song.Channels[0].Solo = true
	timeline := tracker.Flatten(&song)
	if _, ok := timeline.Event(1, 2); !ok {
		t.Fatal("event of the inaudible channel should still be in the timeline")
	}
	if timeline.Audible(1) {
		t.Fatal("channel 1 should be inaudible")
	}
	var cs tracker.ChannelStates
	for step := range 3 {
		for _, d := range cs.ProcessStep(step, timeline, &song) {
			if d.Channel == 1 {
				t.Fatalf("unexpected diff for the inaudible channel at step %v: %+v", step, d)
			}
		}
	}
}

func TestTimelineCache(t *testing.T) {
	song := twoChannelSong()
	var cache tracker.TimelineCache
	a := cache.Get(1, &song)
	if b := cache.Get(1, &song); a != b {
		t.Fatal("same revision should return the cached timeline")
	}
	song = song.WithPattern("a", vsutrack.Pattern{Size: 4})
	c := cache.Get(2, &song)
	if c == a || c.Length != 4*vsutrack.SubStepsPerStep {
		t.Fatal("new revision should flatten the song again")
	}
	cache.Invalidate()
	if d := cache.Get(2, &song); d == c {
		t.Fatal("Invalidate should force flattening")
	}
}
