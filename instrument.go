package vsutrack

import "slices"

type (
	InstrumentID string
	WaveformID   string

	// Waveform is one period of a wave channel waveform: 32 samples of 6 bits
	// each.
	Waveform [32]uint8

	// StereoLevels are the left and right volumes of a channel, 0..15 each.
	StereoLevels struct {
		Left  uint8
		Right uint8
	}

	// Envelope controls the hardware volume envelope of a channel.
	// Initial is 0..15 and StepTime 0..7.
	Envelope struct {
		Enabled  bool  `yaml:",omitempty"`
		Repeat   bool  `yaml:",omitempty"`
		Grow     bool  `yaml:",omitempty"`
		Initial  uint8 `yaml:",omitempty"`
		StepTime uint8 `yaml:",omitempty"`
	}

	// Interval automatically stops the channel after Value (0..31) interval
	// units.
	Interval struct {
		Enabled bool  `yaml:",omitempty"`
		Value   uint8 `yaml:",omitempty"`
	}

	// SweepMod configures the sweep/modulation unit of the fifth channel.
	// Modulation selects frequency modulation using the modulation data
	// instead of a frequency sweep. Frequency is the clock (0 or 1), Interval
	// and Shift are 0..7.
	SweepMod struct {
		Enabled    bool  `yaml:",omitempty"`
		Repeat     bool  `yaml:",omitempty"`
		Modulation bool  `yaml:",omitempty"`
		Frequency  uint8 `yaml:",omitempty"`
		Interval   uint8 `yaml:",omitempty"`
		Up         bool  `yaml:",omitempty"`
		Shift      uint8 `yaml:",omitempty"`
	}

	// Instrument is the parameter block applied to a channel when a note is
	// triggered on it. Tap selects the noise generator tap (0..7) and is only
	// used by the noise channel; SweepMod and ModulationData are only used by
	// the sweep/modulation channel. ModulationData holds at most 32 entries,
	// each encoded as value-1 like in SynthMessage.
	Instrument struct {
		Name           string       `yaml:",omitempty"`
		Waveform       WaveformID   `yaml:",omitempty"`
		Volume         StereoLevels `yaml:",flow"`
		Interval       Interval     `yaml:",omitempty"`
		Envelope       Envelope     `yaml:",omitempty"`
		SweepMod       SweepMod     `yaml:",omitempty"`
		Tap            uint8        `yaml:",omitempty"`
		ModulationData []uint8      `yaml:",flow,omitempty"`
	}
)

// Clamp limits the levels to 0..15.
func (l StereoLevels) Clamp() StereoLevels {
	return StereoLevels{Left: min(l.Left, 15), Right: min(l.Right, 15)}
}

// Copy makes a deep copy of an Instrument.
func (instr *Instrument) Copy() Instrument {
	ret := *instr
	ret.ModulationData = slices.Clone(instr.ModulationData)
	return ret
}
