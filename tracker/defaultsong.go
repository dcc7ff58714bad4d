package tracker

import "github.com/vuengine/vsutrack"

// DefaultSong is the song played when no song file is given: a short looping
// phrase with a lead, a bass and a hi-hat.
var DefaultSong = vsutrack.Song{
	Name:      "default",
	Speed:     20,
	Loop:      true,
	LoopPoint: 0,
	Channels: []vsutrack.Channel{
		{Instrument: "lead", Sequence: map[int]vsutrack.PatternID{0: "melody", 1: "melody", 2: "melody", 3: "ending"}},
		{Instrument: "bass", Sequence: map[int]vsutrack.PatternID{0: "bass", 1: "bass", 2: "bass", 3: "bass"}},
		{},
		{},
		{Kind: vsutrack.SweepModulationChannel},
		{Kind: vsutrack.NoiseChannelKind, Instrument: "hihat", Sequence: map[int]vsutrack.PatternID{0: "hihat", 1: "hihat", 2: "hihat", 3: "hihat"}},
	},
	Patterns: map[vsutrack.PatternID]vsutrack.Pattern{
		"melody": {Size: 4, Events: map[int]vsutrack.Event{
			0:  {Note: notePtr(12), Duration: 8},
			8:  {Note: notePtr(16), Duration: 8},
			16: {Note: notePtr(19), Duration: 8},
			24: {Note: notePtr(24), Duration: 16},
			40: {Note: notePtr(19), Duration: 8},
			48: {Note: notePtr(16), Duration: 16, NoteSlide: -20},
		}},
		"ending": {Size: 4, Events: map[int]vsutrack.Event{
			0:  {Note: notePtr(12), Duration: 32},
			32: {Note: notePtr(24), Duration: 32, Volume: &vsutrack.StereoLevels{Left: 8, Right: 8}},
		}},
		"bass": {Size: 4, Events: map[int]vsutrack.Event{
			0:  {Note: notePtr(0), Duration: 24},
			32: {Note: notePtr(7), Duration: 24},
		}},
		"hihat": {Size: 4, Events: map[int]vsutrack.Event{
			0:  {Note: notePtr(48), Duration: 2},
			16: {Note: notePtr(48), Duration: 2},
			32: {Note: notePtr(48), Duration: 2},
			48: {Note: notePtr(48), Duration: 2},
		}},
	},
	Instruments: map[vsutrack.InstrumentID]vsutrack.Instrument{
		"lead": {
			Waveform: "square",
			Volume:   vsutrack.StereoLevels{Left: 12, Right: 10},
			Envelope: vsutrack.Envelope{Enabled: true, Initial: 15, StepTime: 3},
		},
		"bass": {
			Waveform: "triangle",
			Volume:   vsutrack.StereoLevels{Left: 15, Right: 15},
		},
		"hihat": {
			Volume:   vsutrack.StereoLevels{Left: 6, Right: 8},
			Envelope: vsutrack.Envelope{Enabled: true, Initial: 10, StepTime: 1},
			Tap:      5,
		},
	},
	Waveforms: map[vsutrack.WaveformID]vsutrack.Waveform{
		"square": {
			63, 63, 63, 63, 63, 63, 63, 63, 63, 63, 63, 63, 63, 63, 63, 63,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		},
		"triangle": {
			0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 60,
			63, 59, 55, 51, 47, 43, 39, 35, 31, 27, 23, 19, 15, 11, 7, 3,
		},
	},
}

func notePtr(n vsutrack.Note) *vsutrack.Note { return &n }
