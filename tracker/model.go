package tracker

import (
	"time"

	"github.com/vuengine/vsutrack"
)

// Model is the editing side of the tracker. It owns the song being edited and
// is owned by the UI goroutine, while the player is owned by the playback
// goroutine; they only talk through the broker.
//
// Every edit produces a new song value that shares unchanged parts with the
// previous one, bumps the revision and publishes the song to the player, so
// the player never sees a half-edited song.
type Model struct {
	song     vsutrack.Song
	revision int

	undoStack []vsutrack.Song
	redoStack []vsutrack.Song

	filePath         string
	changedSinceSave bool

	status    PlayerStatus
	alerts    []Alert
	timelines TimelineCache

	broker *Broker
}

func NewModel(broker *Broker, song vsutrack.Song) *Model {
	m := &Model{broker: broker}
	m.song = song
	m.publish()
	return m
}

func (m *Model) Song() vsutrack.Song { return m.song }
func (m *Model) Revision() int       { return m.revision }

// Status returns the latest status received from the player.
func (m *Model) Status() PlayerStatus { return m.status }

// Playing tells if the player was running at the latest status update.
func (m *Model) Playing() bool { return m.status.State == ClockRunning }

// Timeline returns the flattened timeline of the current song revision.
func (m *Model) Timeline() *Timeline {
	return m.timelines.Get(m.revision, &m.song)
}

// Update processes all the pending messages from the player. It should be
// called regularly from the UI loop.
func (m *Model) Update() {
	for {
		select {
		case msg := <-m.broker.ToModel:
			m.handle(msg)
		default:
			return
		}
	}
}

func (m *Model) handle(msg MsgToModel) {
	if msg.HasStatus {
		m.status = msg.Status
	}
	switch d := msg.Data.(type) {
	case Alert:
		m.addAlert(d)
	}
}

// Alert queues an alert to be shown to the user. An alert with the same name
// as a queued one replaces it.
func (m *Model) Alert(a Alert) {
	if a.Duration == 0 {
		a.Duration = defaultAlertDuration
	}
	m.addAlert(a)
}

func (m *Model) addAlert(a Alert) {
	if a.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == a.Name {
				m.alerts[i] = a
				return
			}
		}
	}
	m.alerts = append(m.alerts, a)
}

// TakeAlerts returns the queued alerts and empties the queue.
func (m *Model) TakeAlerts() []Alert {
	ret := m.alerts
	m.alerts = nil
	return ret
}

// SetSong replaces the whole song, e.g. after loading a file. The undo
// history is cleared.
func (m *Model) SetSong(song vsutrack.Song) {
	m.clearHistory()
	m.song = song
	m.publish()
}

// SetEvent places an event at the given sub-step of a pattern. The pattern is
// created with a single step if it does not exist.
func (m *Model) SetEvent(id vsutrack.PatternID, subStep int, ev vsutrack.Event) {
	p, ok := m.song.Patterns[id]
	if !ok {
		p = vsutrack.Pattern{Size: 1}
	}
	if subStep < 0 || subStep >= p.Length() {
		m.Alert(Alert{Name: "EventOutOfRange", Priority: Warning, Message: "the event does not fit in the pattern"})
		return
	}
	m.edit(m.song.WithPattern(id, p.WithEvent(subStep, ev)))
}

func (m *Model) ClearEvent(id vsutrack.PatternID, subStep int) {
	p, ok := m.song.Patterns[id]
	if !ok {
		return
	}
	if _, ok := p.Events[subStep]; !ok {
		return
	}
	m.edit(m.song.WithPattern(id, p.WithoutEvent(subStep)))
}

// SetSlot places a pattern in a sequence slot of a channel; an empty id
// clears the slot.
func (m *Model) SetSlot(channel, slot int, id vsutrack.PatternID) {
	if channel < 0 || channel >= len(m.song.Channels) || slot < 0 {
		return
	}
	c := m.song.Channels[channel]
	m.edit(m.song.WithChannel(channel, c.WithSlot(slot, id)))
}

func (m *Model) SetMuted(channel int, muted bool) {
	if channel < 0 || channel >= len(m.song.Channels) || m.song.Channels[channel].Muted == muted {
		return
	}
	c := m.song.Channels[channel].Copy()
	c.Muted = muted
	m.edit(m.song.WithChannel(channel, c))
}

func (m *Model) SetSolo(channel int, solo bool) {
	if channel < 0 || channel >= len(m.song.Channels) || m.song.Channels[channel].Solo == solo {
		return
	}
	c := m.song.Channels[channel].Copy()
	c.Solo = solo
	m.edit(m.song.WithChannel(channel, c))
}

// SetSpeed sets the duration of a timeline step in milliseconds, clamped to
// the supported range.
func (m *Model) SetSpeed(ms int) {
	ms = vsutrack.ClampSpeed(ms)
	if ms == m.song.Speed {
		return
	}
	song := m.song
	song.Speed = ms
	m.edit(song)
}

func (m *Model) SetLoop(loop bool, loopPoint int) {
	loopPoint = min(max(loopPoint, 0), m.Timeline().Length)
	if loop == m.song.Loop && loopPoint == m.song.LoopPoint {
		return
	}
	song := m.song
	song.Loop = loop
	song.LoopPoint = loopPoint
	m.edit(song)
}

func (m *Model) publish() {
	m.revision++
	TrySend(m.broker.ToPlayer, any(SongMsg{Song: m.song, Revision: m.revision}))
}

// Play starts playback from the position where it was paused.
func (m *Model) Play() { TrySend(m.broker.ToPlayer, any(StartPlayMsg{Step: -1})) }

// PlayFrom starts playback from the given timeline step.
func (m *Model) PlayFrom(step int) { TrySend(m.broker.ToPlayer, any(StartPlayMsg{Step: step})) }

func (m *Model) Pause() { TrySend(m.broker.ToPlayer, any(StopPlayMsg{Pause: true})) }
func (m *Model) Stop()  { TrySend(m.broker.ToPlayer, any(StopPlayMsg{})) }

func (m *Model) Seek(step int) { TrySend(m.broker.ToPlayer, any(SeekMsg{Step: step})) }

// SetPlayRange limits playback to the steps start..end; -1 leaves a side
// unlimited.
func (m *Model) SetPlayRange(start, end int) {
	TrySend(m.broker.ToPlayer, any(PlayRangeMsg{PlayRange{Start: start, End: end}}))
}

// TestNote auditions a note on a channel with the instrument of the channel.
// A zero duration holds the note until StopTestNote.
func (m *Model) TestNote(channel int, note vsutrack.Note, duration time.Duration) {
	TrySend(m.broker.ToPlayer, any(NoteOnMsg{Channel: channel, Note: note, Duration: duration}))
}

func (m *Model) StopTestNote() { TrySend(m.broker.ToPlayer, any(NoteOffMsg{})) }
