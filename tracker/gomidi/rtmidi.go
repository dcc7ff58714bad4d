//go:build cgo

package gomidi

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// OutputPorts lists the names of the MIDI output ports.
func OutputPorts() []string {
	var ret []string
	for _, out := range midi.GetOutPorts() {
		ret = append(ret, out.String())
	}
	return ret
}

// Open opens the first MIDI output port whose name starts with namePrefix,
// or the first port if namePrefix is empty.
func Open(namePrefix string, baseChannel, velocity int) (*Output, error) {
	var port drivers.Out
	for _, out := range midi.GetOutPorts() {
		if strings.HasPrefix(out.String(), namePrefix) {
			port = out
			break
		}
	}
	if port == nil {
		return nil, fmt.Errorf("could not find a MIDI output starting with %q", namePrefix)
	}
	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("opening MIDI output failed: %w", err)
	}
	o := NewOutput(send, baseChannel, velocity)
	o.closer = func() error {
		midi.CloseDriver()
		return nil
	}
	return o, nil
}
