package tracker

import (
	"fmt"

	"github.com/vuengine/vsutrack"
)

type (
	// ChannelStates tracks what every hardware channel is currently doing
	// and turns timeline steps into minimal channel diffs. Channels not
	// mentioned in the diffs of a step keep their previous configuration.
	//
	// Warn, if not nil, is called when a step refers to something that does
	// not exist; the step is then resolved to a fallback instead of failing.
	ChannelStates struct {
		channels [vsutrack.NumChannels]channelState
		warned   map[string]bool
		Warn     func(name, message string)
	}

	// ChannelDiff is a change in the configuration of one channel. Only the
	// parts flagged in Fields are meaningful.
	ChannelDiff struct {
		Channel   int
		Fields    DiffField
		Enabled   bool
		Frequency uint16
		Stereo    vsutrack.StereoLevels
		Block     InstrumentBlock
	}

	// InstrumentBlock is an instrument with its waveform resolved, i.e.
	// everything that is applied to a channel on note-on.
	InstrumentBlock struct {
		Instrument vsutrack.Instrument
		Waveform   vsutrack.Waveform
	}

	DiffField uint8

	channelState struct {
		enabled    bool
		remaining  int                   // sub-steps left before the note ends
		override   vsutrack.InstrumentID // instrument set by an event, "" if none
		frequency  uint16
		slideFrom  uint16
		slideDelta int
		slideLen   int
		slidePos   int
	}
)

const (
	DiffEnabled DiffField = 1 << iota
	DiffFrequency
	DiffStereo
	DiffInstrument
)

// Reset forgets all channel state, including instrument overrides. It does
// not produce diffs; use ReleaseAll first to silence sounding channels.
func (cs *ChannelStates) Reset() {
	cs.channels = [vsutrack.NumChannels]channelState{}
	cs.warned = nil
}

// Enabled tells if the channel is currently sounding.
func (cs *ChannelStates) Enabled(channel int) bool {
	return channel >= 0 && channel < vsutrack.NumChannels && cs.channels[channel].enabled
}

// ProcessStep resolves the events of a timeline step into channel diffs.
// Every step must be processed in order, including steps without events, as
// note durations and slides are counted in steps.
func (cs *ChannelStates) ProcessStep(step int, timeline *Timeline, song *vsutrack.Song) []ChannelDiff {
	var diffs []ChannelDiff
	for i := range cs.channels {
		if i >= len(timeline.Channels) {
			// the channel was removed from the song while sounding
			if cs.channels[i].enabled {
				diffs = append(diffs, cs.release(i))
			}
			continue
		}
		if d, ok := cs.processChannel(i, step, &timeline.Channels[i], song); ok {
			diffs = append(diffs, d)
		}
	}
	return diffs
}

func (cs *ChannelStates) processChannel(i, step int, ct *ChannelTimeline, song *vsutrack.Song) (ChannelDiff, bool) {
	st := &cs.channels[i]
	d := ChannelDiff{Channel: i}
	if !ct.Audible {
		if st.enabled {
			return cs.release(i), true
		}
		return d, false
	}
	ev, ok := ct.Steps[step]
	if ok && ev.Instrument != "" {
		st.override = ev.Instrument
	}
	if ok && ev.Note != nil {
		return cs.noteOn(i, ev, song)
	}
	if ok && ev.Volume != nil {
		d.Fields |= DiffStereo
		d.Stereo = ev.Volume.Clamp()
	}
	if st.enabled {
		st.remaining--
		if st.remaining <= 0 {
			r := cs.release(i)
			r.Fields |= d.Fields
			r.Stereo = d.Stereo
			return r, true
		}
		if st.slideLen > 0 && st.slidePos < st.slideLen {
			st.slidePos++
			f := slideFrequency(st.slideFrom, st.slideDelta, st.slidePos, st.slideLen)
			if f != st.frequency {
				st.frequency = f
				d.Fields |= DiffFrequency
				d.Frequency = f
			}
		}
	}
	return d, d.Fields != 0
}

func (cs *ChannelStates) noteOn(i int, ev vsutrack.Event, song *vsutrack.Song) (ChannelDiff, bool) {
	st := &cs.channels[i]
	id := st.override
	if id == "" && i < len(song.Channels) {
		id = song.Channels[i].Instrument
	}
	block, ok := cs.resolve(id, song)
	if !ok {
		if st.enabled {
			return cs.release(i), true
		}
		return ChannelDiff{}, false
	}
	freq := ev.Note.Frequency()
	*st = channelState{
		enabled:    true,
		remaining:  ev.NoteDuration(),
		override:   st.override,
		frequency:  freq,
		slideFrom:  freq,
		slideDelta: ev.NoteSlide,
	}
	if ev.NoteSlide != 0 {
		st.slideLen = ev.NoteDuration()
	}
	stereo := block.Instrument.Volume
	if ev.Volume != nil {
		stereo = *ev.Volume
	}
	return ChannelDiff{
		Channel:   i,
		Fields:    DiffEnabled | DiffFrequency | DiffStereo | DiffInstrument,
		Enabled:   true,
		Frequency: freq,
		Stereo:    stereo.Clamp(),
		Block:     block,
	}, true
}

// Trigger starts a note on a channel outside of sequence playback; the note
// holds until Release.
func (cs *ChannelStates) Trigger(channel int, note vsutrack.Note, block InstrumentBlock) ChannelDiff {
	freq := note.Frequency()
	cs.channels[channel] = channelState{enabled: true, frequency: freq}
	return ChannelDiff{
		Channel:   channel,
		Fields:    DiffEnabled | DiffFrequency | DiffStereo | DiffInstrument,
		Enabled:   true,
		Frequency: freq,
		Stereo:    block.Instrument.Volume.Clamp(),
		Block:     block,
	}
}

// Release stops the channel.
func (cs *ChannelStates) Release(channel int) ChannelDiff {
	return cs.release(channel)
}

func (cs *ChannelStates) release(channel int) ChannelDiff {
	st := &cs.channels[channel]
	*st = channelState{override: st.override}
	return ChannelDiff{Channel: channel, Fields: DiffEnabled, Enabled: false}
}

// ReleaseAll stops every sounding channel.
func (cs *ChannelStates) ReleaseAll() []ChannelDiff {
	var diffs []ChannelDiff
	for i := range cs.channels {
		if cs.channels[i].enabled {
			diffs = append(diffs, cs.release(i))
		}
	}
	return diffs
}

// Resolve looks up an instrument and its waveform.
func (cs *ChannelStates) Resolve(id vsutrack.InstrumentID, song *vsutrack.Song) (InstrumentBlock, bool) {
	return cs.resolve(id, song)
}

func (cs *ChannelStates) resolve(id vsutrack.InstrumentID, song *vsutrack.Song) (InstrumentBlock, bool) {
	instr, ok := song.Instruments[id]
	if !ok {
		cs.warn("MissingInstrument", fmt.Sprintf("instrument %q does not exist, note skipped", id))
		return InstrumentBlock{}, false
	}
	wave, ok := song.Waveforms[instr.Waveform]
	if !ok && instr.Waveform != "" {
		cs.warn("MissingWaveform", fmt.Sprintf("waveform %q of instrument %q does not exist", instr.Waveform, id))
	}
	return InstrumentBlock{Instrument: instr, Waveform: wave}, true
}

func (cs *ChannelStates) warn(name, message string) {
	if cs.Warn == nil || cs.warned[message] {
		return
	}
	if cs.warned == nil {
		cs.warned = map[string]bool{}
	}
	cs.warned[message] = true
	cs.Warn(name, message)
}

func slideFrequency(from uint16, delta, pos, length int) uint16 {
	f := int(from) + delta*pos/length
	return uint16(min(max(f, 0), vsutrack.MaxFrequency))
}

// Apply folds diffs into a full snapshot of the channels.
func Apply(diffs []ChannelDiff, msg *vsutrack.SynthMessage) {
	for _, d := range diffs {
		if d.Channel < 0 || d.Channel >= vsutrack.NumChannels {
			continue
		}
		c := &msg.Channels[d.Channel]
		if d.Fields&DiffInstrument != 0 {
			applyBlock(d.Channel, d.Block, msg)
		}
		if d.Fields&DiffEnabled != 0 {
			c.Enabled = d.Enabled
		}
		if d.Fields&DiffFrequency != 0 {
			c.Frequency = min(d.Frequency, vsutrack.MaxFrequency)
		}
		if d.Fields&DiffStereo != 0 {
			c.Stereo = d.Stereo.Clamp()
		}
	}
}

func applyBlock(channel int, b InstrumentBlock, msg *vsutrack.SynthMessage) {
	c := &msg.Channels[channel]
	instr := &b.Instrument
	c.Envelope = instr.Envelope
	c.Envelope.Initial = min(c.Envelope.Initial, 15)
	c.Envelope.StepTime = min(c.Envelope.StepTime, 7)
	c.Interval = instr.Interval
	c.Interval.Value = min(c.Interval.Value, 31)
	if channel == vsutrack.NoiseChannel {
		c.Waveform = min(instr.Tap, 7)
		return
	}
	c.Waveform = uint8(channel)
	for i, s := range b.Waveform {
		msg.Waveforms[channel][i] = min(s, 63)
	}
	if channel == vsutrack.SweepModChannel {
		c.SweepMod = instr.SweepMod
		c.SweepMod.Frequency = min(c.SweepMod.Frequency, 1)
		c.SweepMod.Interval = min(c.SweepMod.Interval, 7)
		c.SweepMod.Shift = min(c.SweepMod.Shift, 7)
		msg.ModulationData = [32]uint8{}
		copy(msg.ModulationData[:], instr.ModulationData)
	}
}
