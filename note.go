package vsutrack

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Note is an index into the frequency table. Note 0 is C3 and the table spans
// five octaves, up to B7.
type Note int

const (
	NumNotes     = 60
	MaxFrequency = 2047

	lowestOctave = 3
	lowestMIDI   = 48      // C3
	clockRate    = 5000000 // sound unit master clock, Hz
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flats = map[string]string{"DB": "C#", "EB": "D#", "GB": "F#", "AB": "G#", "BB": "A#"}

// frequencyTable maps every note to the 11-bit frequency code of the sound
// unit: the channel plays clockRate / (32 * (2048 - code)) Hz.
var frequencyTable = func() (ret [NumNotes]uint16) {
	for i := range ret {
		hz := 440 * math.Pow(2, float64(lowestMIDI+i-69)/12)
		code := math.Round(2048 - clockRate/(32*hz))
		ret[i] = uint16(min(max(code, 0), MaxFrequency))
	}
	return
}()

// Clamp returns the nearest note that is in the frequency table.
func (n Note) Clamp() Note {
	return min(max(n, 0), NumNotes-1)
}

// Frequency returns the frequency code of the note; notes outside the table
// are clamped first.
func (n Note) Frequency() uint16 {
	return frequencyTable[n.Clamp()]
}

// MIDI returns the MIDI key number of the (clamped) note.
func (n Note) MIDI() uint8 {
	return uint8(lowestMIDI + n.Clamp())
}

func (n Note) String() string {
	c := n.Clamp()
	return fmt.Sprintf("%s%d", noteNames[c%12], lowestOctave+int(c)/12)
}

// ParseNote parses labels like "C4", "C#4" or "Db4". Notes outside the table
// are clamped.
func ParseNote(label string) (Note, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	i := strings.IndexAny(s, "-0123456789")
	if i < 1 {
		return 0, fmt.Errorf("invalid note label %q", label)
	}
	name, octaveStr := s[:i], s[i:]
	if sharp, ok := flats[name]; ok {
		name = sharp
	}
	octave, err := strconv.Atoi(octaveStr)
	if err != nil {
		return 0, fmt.Errorf("invalid octave in note label %q: %w", label, err)
	}
	for semitone, n := range noteNames {
		if n == name {
			return Note((octave-lowestOctave)*12 + semitone).Clamp(), nil
		}
	}
	return 0, fmt.Errorf("invalid note name in note label %q", label)
}

// NearestNote returns the note whose frequency code is closest to code.
func NearestNote(code uint16) Note {
	best, bestDist := Note(0), math.MaxInt
	for i, f := range frequencyTable {
		d := int(f) - int(code)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = Note(i), d
		}
	}
	return best
}

// UnmarshalYAML accepts both table indices and note labels.
func (n *Note) UnmarshalYAML(value *yaml.Node) error {
	if i, err := strconv.Atoi(value.Value); err == nil {
		*n = Note(i).Clamp()
		return nil
	}
	note, err := ParseNote(value.Value)
	if err != nil {
		return err
	}
	*n = note
	return nil
}

func (n Note) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}

// UnmarshalJSON accepts both table indices and note labels.
func (n *Note) UnmarshalJSON(b []byte) error {
	var i int
	if err := json.Unmarshal(b, &i); err == nil {
		*n = Note(i).Clamp()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("note should be an integer or a label: %w", err)
	}
	note, err := ParseNote(s)
	if err != nil {
		return err
	}
	*n = note
	return nil
}
