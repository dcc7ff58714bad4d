package tracker

import "github.com/vuengine/vsutrack"

type (
	// Timeline is the flattened view of a song: for every channel, the events
	// at absolute timeline steps, with sequences and mute/solo resolved.
	// Length is the length of the longest channel. A Timeline is never
	// modified after Flatten returns it.
	Timeline struct {
		Channels []ChannelTimeline
		Length   int
	}

	// ChannelTimeline holds the events of one channel keyed by absolute
	// timeline step. Inaudible channels (muted, or not soloed while another
	// channel is) keep their events, so toggling mute does not need a
	// reflatten to find them, but they must not trigger notes. Empty is true
	// for channels without any sequence; they are never audible.
	ChannelTimeline struct {
		Audible bool
		Empty   bool
		Length  int
		Steps   map[int]vsutrack.Event
	}

	// TimelineCache memoizes the timeline of the latest song revision. The
	// timeline is recomputed lazily on the first Get after the revision
	// changes or after Invalidate.
	TimelineCache struct {
		revision int
		timeline *Timeline
	}
)

// Flatten computes the timeline of a song. It is a pure function of the
// song: flattening equal songs gives equal timelines.
func Flatten(song *vsutrack.Song) *Timeline {
	soloed := false
	for _, c := range song.Channels {
		if c.Solo {
			soloed = true
			break
		}
	}
	ret := &Timeline{Channels: make([]ChannelTimeline, len(song.Channels))}
	for i, c := range song.Channels {
		ct := ChannelTimeline{Steps: map[int]vsutrack.Event{}, Empty: len(c.Sequence) == 0}
		ct.Audible = !ct.Empty && !c.Muted && (!soloed || c.Solo)
		for slot := range song.Slots(i) {
			length := slot.Pattern.Length()
			for subStep, ev := range slot.Pattern.Events {
				if subStep < 0 || subStep >= length {
					continue // would overlap a neighbouring slot
				}
				ct.Steps[slot.Offset+subStep] = ev
			}
			ct.Length = slot.Offset + length
		}
		ret.Length = max(ret.Length, ct.Length)
		ret.Channels[i] = ct
	}
	return ret
}

// Event returns the event of a channel at a timeline step.
func (t *Timeline) Event(channel, step int) (ev vsutrack.Event, ok bool) {
	if channel < 0 || channel >= len(t.Channels) {
		return vsutrack.Event{}, false
	}
	ev, ok = t.Channels[channel].Steps[step]
	return
}

// Audible tells if the channel may trigger notes.
func (t *Timeline) Audible(channel int) bool {
	return channel >= 0 && channel < len(t.Channels) && t.Channels[channel].Audible
}

// Get returns the timeline of the given song revision, flattening the song if
// the cached timeline is for another revision.
func (c *TimelineCache) Get(revision int, song *vsutrack.Song) *Timeline {
	if c.timeline == nil || c.revision != revision {
		c.timeline = Flatten(song)
		c.revision = revision
	}
	return c.timeline
}

// Invalidate forces the next Get to flatten the song again.
func (c *TimelineCache) Invalidate() {
	c.timeline = nil
}
