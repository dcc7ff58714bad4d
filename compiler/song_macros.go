package compiler

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/tracker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	SongMacros struct {
		Song        *vsutrack.Song
		Ident       string // C identifier prefix of the song, e.g. MySong
		Length      int
		Channels    []ChannelMacros
		Instruments []InstrumentMacros
		Waveforms   []WaveformMacros
	}

	ChannelMacros struct {
		Index  int
		Kind   vsutrack.ChannelKind
		Events []EventMacros
	}

	// EventMacros is an event of the flattened timeline with the instrument
	// resolved to an index into SongMacros.Instruments.
	EventMacros struct {
		Step       int
		Flags      []string
		Frequency  uint16
		Duration   int
		Volume     uint8 // left in the high nibble, right in the low nibble
		Instrument int
		Slide      int
	}

	InstrumentMacros struct {
		Ident    string
		Waveform int // index into SongMacros.Waveforms, -1 if none
		Volume   uint8
		Envelope uint8
		EnvCtrl  uint8
		Interval uint8
		Sweep    uint8
		SweepOn  bool
		Tap      uint8
		ModData  []int
	}

	WaveformMacros struct {
		Name    string
		Samples []int
	}
)

var caser = cases.Title(language.English, cases.NoLower)

// Identifier turns a free-form name into a CamelCase C identifier, e.g.
// "lead synth #2" becomes "LeadSynth2".
func Identifier(name string) string {
	title := caser.String(name)
	var b strings.Builder
	for _, r := range title {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	ret := b.String()
	if ret == "" || unicode.IsDigit(rune(ret[0])) {
		ret = "_" + ret
	}
	return ret
}

// SongIdent is the C identifier of the song; the compiled files should be
// named after it, as the source file includes the header by this name.
func SongIdent(song *vsutrack.Song) string {
	if song.Name == "" {
		return "Song"
	}
	return Identifier(song.Name)
}

func NewSongMacros(song *vsutrack.Song) (*SongMacros, error) {
	ret := SongMacros{Song: song, Ident: SongIdent(song)}
	waveIndex := map[vsutrack.WaveformID]int{}
	for i, id := range slices.Sorted(maps.Keys(song.Waveforms)) {
		waveIndex[id] = i
		w := song.Waveforms[id]
		samples := make([]int, len(w))
		for j, s := range w {
			samples[j] = int(s & 63)
		}
		ret.Waveforms = append(ret.Waveforms, WaveformMacros{Name: string(id), Samples: samples})
	}
	instrIndex := map[vsutrack.InstrumentID]int{}
	for i, id := range slices.Sorted(maps.Keys(song.Instruments)) {
		instrIndex[id] = i
		instr := song.Instruments[id]
		m, err := newInstrumentMacros(ret.Ident+"Instrument"+Identifier(string(id)), &instr, waveIndex)
		if err != nil {
			return nil, fmt.Errorf("instrument %q: %w", id, err)
		}
		ret.Instruments = append(ret.Instruments, m)
	}
	timeline := tracker.Flatten(song)
	ret.Length = timeline.Length
	for i, ct := range timeline.Channels {
		if i >= vsutrack.NumChannels {
			return nil, fmt.Errorf("song has %d channels, the maximum is %d", len(song.Channels), vsutrack.NumChannels)
		}
		c := ChannelMacros{Index: i, Kind: vsutrack.KindForChannel(i)}
		if ct.Audible {
			events, err := channelEvents(song.Channels[i].Instrument, &ct, instrIndex)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", i, err)
			}
			c.Events = events
		}
		ret.Channels = append(ret.Channels, c)
	}
	return &ret, nil
}

func channelEvents(instrument vsutrack.InstrumentID, ct *tracker.ChannelTimeline, instrIndex map[vsutrack.InstrumentID]int) ([]EventMacros, error) {
	var ret []EventMacros
	for _, step := range slices.Sorted(maps.Keys(ct.Steps)) {
		ev := ct.Steps[step]
		m := EventMacros{Step: step, Instrument: -1}
		if ev.Instrument != "" {
			instrument = ev.Instrument
			m.Flags = append(m.Flags, "VSU_EVENT_INSTRUMENT")
		}
		if ev.Note != nil {
			m.Flags = append(m.Flags, "VSU_EVENT_NOTE")
			m.Frequency = ev.Note.Frequency()
			m.Duration = ev.NoteDuration()
			m.Slide = ev.NoteSlide
		}
		if ev.Volume != nil {
			m.Flags = append(m.Flags, "VSU_EVENT_VOLUME")
			m.Volume = stereoByte(*ev.Volume)
		}
		if len(m.Flags) == 0 {
			continue
		}
		if ev.Note != nil || ev.Instrument != "" {
			index, ok := instrIndex[instrument]
			if !ok {
				return nil, fmt.Errorf("step %d: instrument %q does not exist", step, instrument)
			}
			m.Instrument = index
		}
		ret = append(ret, m)
	}
	return ret, nil
}

func newInstrumentMacros(ident string, instr *vsutrack.Instrument, waveIndex map[vsutrack.WaveformID]int) (InstrumentMacros, error) {
	ret := InstrumentMacros{Ident: ident, Waveform: -1, Volume: stereoByte(instr.Volume), Tap: min(instr.Tap, 7)}
	if instr.Waveform != "" {
		index, ok := waveIndex[instr.Waveform]
		if !ok {
			return ret, fmt.Errorf("waveform %q does not exist", instr.Waveform)
		}
		ret.Waveform = index
	}
	env := instr.Envelope
	ret.Envelope = min(env.Initial, 15)<<4 | boolBit(env.Grow)<<3 | min(env.StepTime, 7)
	ret.EnvCtrl = boolBit(env.Repeat)<<1 | boolBit(env.Enabled)
	ret.Interval = boolBit(instr.Interval.Enabled)<<5 | min(instr.Interval.Value, 31)
	sm := instr.SweepMod
	ret.SweepOn = sm.Enabled
	ret.Sweep = min(sm.Frequency, 1)<<7 | min(sm.Interval, 7)<<4 | boolBit(sm.Up)<<3 | min(sm.Shift, 7)
	for _, d := range instr.ModulationData {
		ret.ModData = append(ret.ModData, int(d))
	}
	return ret, nil
}

func stereoByte(l vsutrack.StereoLevels) uint8 {
	l = l.Clamp()
	return l.Left<<4 | l.Right
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
