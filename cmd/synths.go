package cmd

import (
	"fmt"
	"sort"

	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/rpc"
	"github.com/vuengine/vsutrack/tracker"
)

// SynthOptions holds the command line options that select and configure the
// synth at the receiving end of the bridge.
type SynthOptions struct {
	Kind    string // one of SynthKinds
	Address string // receiver address for the "rpc" synth
}

// Synths maps the synth kinds to their constructors. The "midi" synth is
// only available when built with cgo.
var Synths = map[string]func(SynthOptions, tracker.Preferences) (vsutrack.Synth, error){
	"print": func(SynthOptions, tracker.Preferences) (vsutrack.Synth, error) {
		return NewPrintSynth(Stdout), nil
	},
	"rpc": func(o SynthOptions, _ tracker.Preferences) (vsutrack.Synth, error) {
		s, err := rpc.Dial(o.Address)
		if err != nil {
			return nil, err
		}
		return s, nil
	},
}

// SynthKinds lists the available synth kinds in alphabetical order.
func SynthKinds() []string {
	ret := make([]string, 0, len(Synths))
	for k := range Synths {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func NewSynth(o SynthOptions, p tracker.Preferences) (vsutrack.Synth, error) {
	f, ok := Synths[o.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown synth %q, available synths: %v", o.Kind, SynthKinds())
	}
	return f(o, p)
}
