//go:build cgo

package cmd

import (
	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/tracker"
	"github.com/vuengine/vsutrack/tracker/gomidi"
)

func init() {
	Synths["midi"] = func(_ SynthOptions, p tracker.Preferences) (vsutrack.Synth, error) {
		out, err := gomidi.Open(p.MIDI.Output, p.MIDI.BaseChannel, p.MIDI.Velocity)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
