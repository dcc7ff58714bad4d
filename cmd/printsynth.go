package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/vuengine/vsutrack"
)

// Stdout is where the commands print; color.Output handles the terminal
// quirks of Windows.
var Stdout io.Writer = color.Output

// PrintSynth is a vsutrack.Synth that prints one line for every snapshot: the
// note and the stereo levels of each enabled channel, "---" for disabled
// ones.
type PrintSynth struct {
	w    io.Writer
	prev string
}

func NewPrintSynth(w io.Writer) *PrintSynth {
	return &PrintSynth{w: w}
}

func (s *PrintSynth) Update(msg vsutrack.SynthMessage) error {
	line := FormatChannels(&msg)
	if line == s.prev {
		return nil
	}
	s.prev = line
	_, err := fmt.Fprint(s.w, line, "\r\n") // the terminal may be in raw mode
	return err
}

func (s *PrintSynth) Close() error {
	if f, ok := s.w.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		return f.Close()
	}
	return nil
}

// FormatChannels formats a snapshot as a single line, one column per
// channel.
func FormatChannels(msg *vsutrack.SynthMessage) string {
	cols := make([]string, len(msg.Channels))
	for i, c := range msg.Channels {
		if !c.Enabled {
			cols[i] = fmt.Sprintf("%-9s", "---")
			continue
		}
		cols[i] = fmt.Sprintf("%-3s %2d:%-2d", vsutrack.NearestNote(c.Frequency), c.Stereo.Left, c.Stereo.Right)
	}
	return strings.Join(cols, " | ")
}
