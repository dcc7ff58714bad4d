package vsutrack

type (
	// ChannelConfig is the full configuration of one hardware channel as seen
	// by the synthesizer. Waveform is the waveform slot (0..4) for the wave
	// channels and the noise tap (0..7) for the noise channel. SweepMod is
	// only meaningful on the sweep/modulation channel.
	ChannelConfig struct {
		Enabled   bool
		Frequency uint16
		Waveform  uint8
		Stereo    StereoLevels
		Envelope  Envelope
		Interval  Interval
		SweepMod  SweepMod
	}

	// SynthMessage is one update sent over the Synthesizer Bridge: a snapshot
	// of all six channels together with the waveform slots and the
	// modulation data shared by the sweep/modulation channel. Modulation data
	// entries are 1..256 stored as value-1, the way the hardware register
	// holds them, so the byte 0 means 1 and 255 means 256.
	SynthMessage struct {
		Channels       [NumChannels]ChannelConfig
		Waveforms      [NumWaveSlots]Waveform
		ModulationData [32]uint8
	}

	// Synth is the receiving end of the Synthesizer Bridge: it turns channel
	// configurations into sound. Update is called with every new snapshot, in
	// order.
	Synth interface {
		Update(msg SynthMessage) error
		Close() error
	}
)
