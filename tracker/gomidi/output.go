package gomidi

import (
	"errors"
	"math"

	"github.com/vuengine/vsutrack"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Output is a vsutrack.Synth that plays the channel snapshots on a MIDI
	// device: hardware channel i is sent on MIDI channel BaseChannel+i. The
	// frequency code is played as the nearest MIDI key, with the remaining
	// detune (e.g. during a note slide) sent as pitch bend; stereo levels are
	// sent as channel volume and pan.
	Output struct {
		send        func(midi.Message) error
		baseChannel uint8
		velocity    uint8
		prev        [vsutrack.NumChannels]voice
		closer      func() error
	}

	voice struct {
		on     bool
		key    uint8
		bend   int16
		volume uint8
		pan    uint8
	}
)

const (
	ccVolume = 7
	ccPan    = 10

	// pitch bend range of the receiving device, in semitones
	bendRange = 2
	// detune below this, in semitones, is not sent
	bendThreshold = 0.1
)

// NewOutput returns an Output that sends the MIDI messages with send.
func NewOutput(send func(midi.Message) error, baseChannel, velocity int) *Output {
	return &Output{
		send:        send,
		baseChannel: uint8(min(max(baseChannel, 0), 15)),
		velocity:    uint8(min(max(velocity, 1), 127)),
	}
}

func (o *Output) Update(msg vsutrack.SynthMessage) error {
	var errs []error
	for i := range msg.Channels {
		errs = append(errs, o.updateChannel(i, &msg.Channels[i]))
	}
	return errors.Join(errs...)
}

func (o *Output) updateChannel(i int, c *vsutrack.ChannelConfig) error {
	ch := (o.baseChannel + uint8(i)) % 16
	prev := o.prev[i]
	next := voice{on: c.Enabled}
	if next.on {
		next.key = vsutrack.NearestNote(c.Frequency).MIDI()
		next.bend = pitchBend(c.Frequency, next.key)
		next.volume = uint8(int(max(c.Stereo.Left, c.Stereo.Right)) * 127 / 15)
		next.pan = uint8((int(c.Stereo.Right) - int(c.Stereo.Left) + 15) * 127 / 30)
	} else {
		next.bend, next.volume, next.pan = prev.bend, prev.volume, prev.pan
	}
	var msgs []midi.Message
	retrigger := prev.on && next.on && prev.key != next.key
	if prev.on && (!next.on || retrigger) {
		msgs = append(msgs, midi.NoteOff(ch, prev.key))
	}
	if next.on {
		if next.volume != prev.volume {
			msgs = append(msgs, midi.ControlChange(ch, ccVolume, next.volume))
		}
		if next.pan != prev.pan {
			msgs = append(msgs, midi.ControlChange(ch, ccPan, next.pan))
		}
		if next.bend != prev.bend {
			msgs = append(msgs, midi.Pitchbend(ch, next.bend))
		}
		if !prev.on || retrigger {
			msgs = append(msgs, midi.NoteOn(ch, next.key, o.velocity))
		}
	}
	o.prev[i] = next
	for _, m := range msgs {
		if err := o.send(m); err != nil {
			return err
		}
	}
	return nil
}

// pitchBend returns the bend from the MIDI key to the frequency code.
func pitchBend(code uint16, key uint8) int16 {
	hz := 5e6 / (32 * float64(2048-int(min(code, vsutrack.MaxFrequency))))
	keyHz := 440 * math.Pow(2, float64(int(key)-69)/12)
	semitones := 12 * math.Log2(hz/keyHz)
	if math.Abs(semitones) < bendThreshold {
		return 0
	}
	return int16(min(max(math.Round(semitones/bendRange*8192), -8192), 8191))
}

// Close releases all sounding notes and closes the device, if the Output was
// opened with Open.
func (o *Output) Close() error {
	var errs []error
	for i := range o.prev {
		errs = append(errs, o.updateChannel(i, &vsutrack.ChannelConfig{}))
	}
	if o.closer != nil {
		errs = append(errs, o.closer())
	}
	return errors.Join(errs...)
}
