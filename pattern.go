package vsutrack

import "maps"

type (
	PatternID string

	// Pattern is a reusable block of events. Size is given in whole steps;
	// Events is a sparse map from sub-step index (0 <= index <
	// Size*SubStepsPerStep) to the event at that sub-step.
	Pattern struct {
		Name   string        `yaml:",omitempty"`
		Size   int
		Events map[int]Event `yaml:",omitempty"`
	}

	// Event is everything that happens on one channel at one sub-step. Every
	// field is optional: Note nil means no note, Duration 0 means
	// DefaultNoteDuration, Instrument "" keeps the current instrument, Volume
	// nil keeps the current stereo levels and NoteSlide 0 means no slide.
	// NoteSlide is given in frequency code units, reached linearly at the end
	// of the note.
	Event struct {
		Note       *Note         `yaml:",omitempty" json:",omitempty"`
		Duration   int           `yaml:",omitempty" json:",omitempty"`
		Instrument InstrumentID  `yaml:",omitempty" json:",omitempty"`
		Volume     *StereoLevels `yaml:",omitempty" json:",omitempty"`
		NoteSlide  int           `yaml:",omitempty" json:",omitempty"`
	}
)

// Length returns the length of the pattern in timeline steps.
func (p *Pattern) Length() int {
	if p.Size <= 0 {
		return 0
	}
	return p.Size * SubStepsPerStep
}

// Copy makes a deep copy of a Pattern.
func (p *Pattern) Copy() Pattern {
	ret := Pattern{Name: p.Name, Size: p.Size}
	if p.Events != nil {
		ret.Events = make(map[int]Event, len(p.Events))
		for k, ev := range p.Events {
			ret.Events[k] = ev.Copy()
		}
	}
	return ret
}

// WithEvent returns a copy of the pattern with the event at subStep replaced.
func (p Pattern) WithEvent(subStep int, ev Event) Pattern {
	events := make(map[int]Event, len(p.Events)+1)
	maps.Copy(events, p.Events)
	events[subStep] = ev
	p.Events = events
	return p
}

// WithoutEvent returns a copy of the pattern with the event at subStep
// removed.
func (p Pattern) WithoutEvent(subStep int) Pattern {
	if _, ok := p.Events[subStep]; !ok {
		return p
	}
	events := maps.Clone(p.Events)
	delete(events, subStep)
	p.Events = events
	return p
}

// Copy makes a deep copy of an Event.
func (e *Event) Copy() Event {
	ret := *e
	if e.Note != nil {
		n := *e.Note
		ret.Note = &n
	}
	if e.Volume != nil {
		v := *e.Volume
		ret.Volume = &v
	}
	return ret
}

// NoteDuration returns the duration of the note in sub-steps.
func (e *Event) NoteDuration() int {
	if e.Duration <= 0 {
		return DefaultNoteDuration
	}
	return e.Duration
}

// NoteEvent is a convenience constructor for an event playing just a note.
func NoteEvent(n Note) Event {
	return Event{Note: &n}
}
