package vsutrack

import (
	"fmt"
	"maps"
	"slices"
)

type (
	// ChannelKind tells what kind of hardware channel a song channel drives.
	ChannelKind int

	// Channel holds the sequence of one sound channel. Sequence maps sequence
	// slot indices to pattern ids; the slots are played in increasing order
	// and gaps between slot indices take no time.
	//
	// A muted channel, or a channel that is not soloed while some other
	// channel is, keeps all its data but does not trigger notes.
	Channel struct {
		Kind       ChannelKind
		Instrument InstrumentID      `yaml:",omitempty"`
		Sequence   map[int]PatternID `yaml:",flow"`
		Muted      bool              `yaml:",omitempty"`
		Solo       bool              `yaml:",omitempty"`
		AllowSkip  bool              `yaml:",omitempty"`
	}
)

const (
	WaveChannel ChannelKind = iota
	SweepModulationChannel
	NoiseChannelKind
)

var channelKindNames = [...]string{"wave", "sweepmod", "noise"}

func (k ChannelKind) String() string {
	if k < 0 || int(k) >= len(channelKindNames) {
		return fmt.Sprintf("ChannelKind(%d)", int(k))
	}
	return channelKindNames[k]
}

func (k ChannelKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ChannelKind) UnmarshalText(text []byte) error {
	for i, name := range channelKindNames {
		if name == string(text) {
			*k = ChannelKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown channel kind %q", text)
}

// KindForChannel returns the kind of the hardware channel at index.
func KindForChannel(index int) ChannelKind {
	switch index {
	case SweepModChannel:
		return SweepModulationChannel
	case NoiseChannel:
		return NoiseChannelKind
	}
	return WaveChannel
}

// SlotIndices returns the used sequence slot indices in increasing order.
func (c *Channel) SlotIndices() []int {
	return slices.Sorted(maps.Keys(c.Sequence))
}

// Copy makes a deep copy of a Channel.
func (c *Channel) Copy() Channel {
	ret := *c
	ret.Sequence = maps.Clone(c.Sequence)
	return ret
}

// WithSlot returns a copy of the channel with the given slot set to the
// pattern id. An empty id removes the slot.
func (c Channel) WithSlot(slot int, id PatternID) Channel {
	seq := make(map[int]PatternID, len(c.Sequence)+1)
	maps.Copy(seq, c.Sequence)
	if id == "" {
		delete(seq, slot)
	} else {
		seq[slot] = id
	}
	c.Sequence = seq
	return c
}
