package vsutrack

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"time"
)

const (
	// NumChannels is the number of sound channels of the sound unit: five
	// wave channels (the fifth one capable of sweep/modulation) and one noise
	// channel.
	NumChannels = 6

	// NumWaveSlots is the number of waveform slots; wave channel i always
	// plays waveform slot i.
	NumWaveSlots = 5

	// SweepModChannel and NoiseChannel are the hardware indices of the two
	// special channels.
	SweepModChannel = 4
	NoiseChannel    = 5

	// SubStepsPerStep is the step resolution: a pattern of Size 1 spans
	// SubStepsPerStep timeline steps. Sub-steps exist for effects that need a
	// finer time grid than one step, like note slides.
	SubStepsPerStep = 16

	// DefaultNoteDuration is the length of a note, in sub-steps, when the
	// event does not define a duration.
	DefaultNoteDuration = SubStepsPerStep

	// MinSpeed and MaxSpeed bound the song speed, in milliseconds per
	// timeline step.
	MinSpeed = 10
	MaxSpeed = 2000
)

type (
	// Song is one revision of a song. Patterns, instruments and waveforms are
	// kept in arenas keyed by their ids; channels only refer to them by id, so
	// an edit replaces one arena entry instead of copying the whole tree.
	//
	// Speed is the duration of one timeline step (one sub-step), in
	// milliseconds. LoopPoint is the timeline step where playback continues
	// when the song loops.
	Song struct {
		Name        string
		Speed       int
		Loop        bool `yaml:",omitempty"`
		LoopPoint   int  `yaml:",omitempty"`
		Channels    []Channel
		Patterns    map[PatternID]Pattern       `yaml:",omitempty"`
		Instruments map[InstrumentID]Instrument `yaml:",omitempty"`
		Waveforms   map[WaveformID]Waveform     `yaml:",omitempty"`
	}

	// SequenceSlot is a resolved slot of a channel sequence: the pattern it
	// refers to and the timeline step where that pattern starts. Missing is
	// true when the pattern id could not be found in the song; the slot then
	// behaves as an empty pattern of size 0.
	SequenceSlot struct {
		Slot      int
		Offset    int
		PatternID PatternID
		Pattern   Pattern
		Missing   bool
	}
)

// StepDuration returns the song speed as a time.Duration.
func (s *Song) StepDuration() time.Duration {
	return time.Duration(s.Speed) * time.Millisecond
}

// ClampSpeed clamps a speed given in milliseconds per step to [MinSpeed,
// MaxSpeed].
func ClampSpeed(speed int) int {
	return min(max(speed, MinSpeed), MaxSpeed)
}

// Slots iterates the sequence of the given channel in slot order, resolving
// the patterns and computing the timeline offset of each slot.
func (s *Song) Slots(channel int) iter.Seq[SequenceSlot] {
	return func(yield func(SequenceSlot) bool) {
		if channel < 0 || channel >= len(s.Channels) {
			return
		}
		offset := 0
		for _, slot := range s.Channels[channel].SlotIndices() {
			id := s.Channels[channel].Sequence[slot]
			pat, ok := s.Patterns[id]
			ret := SequenceSlot{Slot: slot, Offset: offset, PatternID: id, Pattern: pat, Missing: !ok}
			if !ok {
				ret.Pattern = Pattern{}
			}
			if !yield(ret) {
				return
			}
			offset += ret.Pattern.Length()
		}
	}
}

// ChannelLength returns the length of the channel in timeline steps: the sum
// of the lengths of the patterns in its sequence.
func (s *Song) ChannelLength(channel int) int {
	ret := 0
	for slot := range s.Slots(channel) {
		ret = slot.Offset + slot.Pattern.Length()
	}
	return ret
}

// Length returns the length of the song in timeline steps, i.e. the length of
// the longest channel.
func (s *Song) Length() int {
	ret := 0
	for i := range s.Channels {
		ret = max(ret, s.ChannelLength(i))
	}
	return ret
}

// Copy makes a deep copy of a Song.
func (s *Song) Copy() Song {
	ret := *s
	ret.Channels = make([]Channel, len(s.Channels))
	for i, c := range s.Channels {
		ret.Channels[i] = c.Copy()
	}
	if s.Patterns != nil {
		ret.Patterns = make(map[PatternID]Pattern, len(s.Patterns))
		for id, p := range s.Patterns {
			ret.Patterns[id] = p.Copy()
		}
	}
	if s.Instruments != nil {
		ret.Instruments = make(map[InstrumentID]Instrument, len(s.Instruments))
		for id, instr := range s.Instruments {
			ret.Instruments[id] = instr.Copy()
		}
	}
	ret.Waveforms = maps.Clone(s.Waveforms)
	return ret
}

// WithPattern returns a new revision of the song where the pattern with the
// given id is replaced. The other arena entries are shared with s.
func (s Song) WithPattern(id PatternID, p Pattern) Song {
	patterns := make(map[PatternID]Pattern, len(s.Patterns)+1)
	maps.Copy(patterns, s.Patterns)
	patterns[id] = p
	s.Patterns = patterns
	return s
}

// WithInstrument returns a new revision of the song where the instrument with
// the given id is replaced.
func (s Song) WithInstrument(id InstrumentID, instr Instrument) Song {
	instruments := make(map[InstrumentID]Instrument, len(s.Instruments)+1)
	maps.Copy(instruments, s.Instruments)
	instruments[id] = instr
	s.Instruments = instruments
	return s
}

// WithWaveform returns a new revision of the song where the waveform with the
// given id is replaced.
func (s Song) WithWaveform(id WaveformID, w Waveform) Song {
	waveforms := make(map[WaveformID]Waveform, len(s.Waveforms)+1)
	maps.Copy(waveforms, s.Waveforms)
	waveforms[id] = w
	s.Waveforms = waveforms
	return s
}

// WithChannel returns a new revision of the song where the channel at index is
// replaced. Channels are appended if index is past the end of the channel
// list.
func (s Song) WithChannel(index int, c Channel) Song {
	if index < 0 {
		return s
	}
	channels := make([]Channel, max(len(s.Channels), index+1))
	copy(channels, s.Channels)
	channels[index] = c
	s.Channels = channels
	return s
}

// Validate checks the song invariants and returns all violations joined
// together. The player never requires a valid song; this is meant for
// surfacing warnings to the user.
func (s *Song) Validate() error {
	var errs []error
	if s.Speed < MinSpeed || s.Speed > MaxSpeed {
		errs = append(errs, fmt.Errorf("speed %d ms should be between %d and %d ms", s.Speed, MinSpeed, MaxSpeed))
	}
	if len(s.Channels) > NumChannels {
		errs = append(errs, fmt.Errorf("song has %d channels, at most %d are supported", len(s.Channels), NumChannels))
	}
	for i, c := range s.Channels {
		if want := KindForChannel(i); i < NumChannels && c.Kind != want {
			errs = append(errs, fmt.Errorf("channel %d is of kind %v, hardware channel is %v", i, c.Kind, want))
		}
		if _, ok := s.Instruments[c.Instrument]; c.Instrument != "" && !ok {
			errs = append(errs, fmt.Errorf("channel %d refers to missing instrument %q", i, c.Instrument))
		}
		for slot := range s.Slots(i) {
			if slot.Missing {
				errs = append(errs, fmt.Errorf("channel %d, slot %d refers to missing pattern %q", i, slot.Slot, slot.PatternID))
			}
		}
	}
	for id, p := range s.Patterns {
		for subStep, ev := range p.Events {
			if subStep < 0 || subStep >= p.Length() {
				errs = append(errs, fmt.Errorf("pattern %q has an event at sub-step %d, outside [0, %d)", id, subStep, p.Length()))
			}
			if _, ok := s.Instruments[ev.Instrument]; ev.Instrument != "" && !ok {
				errs = append(errs, fmt.Errorf("pattern %q, sub-step %d refers to missing instrument %q", id, subStep, ev.Instrument))
			}
		}
	}
	for id, instr := range s.Instruments {
		if _, ok := s.Waveforms[instr.Waveform]; instr.Waveform != "" && !ok {
			errs = append(errs, fmt.Errorf("instrument %q refers to missing waveform %q", id, instr.Waveform))
		}
	}
	if l := s.Length(); s.LoopPoint < 0 || s.LoopPoint > l {
		errs = append(errs, fmt.Errorf("loop point %d is outside the song (length %d)", s.LoopPoint, l))
	}
	return errors.Join(errs...)
}
