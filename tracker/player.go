package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/vuengine/vsutrack"
)

type (
	// Player plays the song. It owns the clock, the channel states and the
	// snapshot of the synthesizer channels, and is driven by calling Tick
	// from a host timer (see Run). Everything else talks to it through the
	// broker: the model sends song revisions and commands to ToPlayer, the
	// player sends snapshots to ToSynth and its status to ToModel. All the
	// sends are non-blocking.
	Player struct {
		song      vsutrack.Song
		revision  int
		timelines TimelineCache
		clock     Clock
		channels  ChannelStates
		snapshot  vsutrack.SynthMessage
		playRange PlayRange
		test      testNote
		broker    *Broker
		status    PlayerStatus
	}

	// PlayerStatus is sent to the model whenever the state or the position
	// of the player changes.
	PlayerStatus struct {
		State    ClockState
		Step     int
		Revision int
	}

	testNote struct {
		channel     int
		deadline    time.Time
		hasDeadline bool
	}
)

type (
	// SongMsg publishes a new revision of the song to the player.
	SongMsg struct {
		Song     vsutrack.Song
		Revision int
	}

	// StartPlayMsg starts playback from Step; a negative Step resumes from
	// the position where playback was paused (or from the start of the play
	// range).
	StartPlayMsg struct {
		Step int
	}

	// StopPlayMsg stops playback; the next StartPlayMsg with a negative Step
	// resumes from the current position if Pause is true, or from the start
	// otherwise.
	StopPlayMsg struct {
		Pause bool
	}

	SeekMsg struct {
		Step int
	}

	PlayRangeMsg struct {
		PlayRange
	}

	// NoteOnMsg auditions a note on a channel. The note is held for Duration,
	// or until NoteOffMsg if Duration is zero. Instrument "" uses the
	// instrument of the channel.
	NoteOnMsg struct {
		Channel    int
		Note       vsutrack.Note
		Instrument vsutrack.InstrumentID
		Duration   time.Duration
	}

	NoteOffMsg struct{}
)

func NewPlayer(broker *Broker) *Player {
	p := &Player{broker: broker, playRange: FullRange}
	p.channels.Warn = func(name, message string) { p.SendAlert(name, message, Warning) }
	return p
}

// Run drives the player with a ticker until the context is cancelled, then
// silences all channels and cancels any pending note.
func (p *Player) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.Close()
			return ctx.Err()
		case <-ticker.C:
			p.Tick(time.Now())
		}
	}
}

// Tick processes the pending messages from the model and then advances the
// clock to now. Ticks must not run concurrently.
func (p *Player) Tick(now time.Time) {
	p.processMessages(now)
	switch p.clock.State() {
	case ClockRunning:
		timeline := p.timeline()
		var diffs []ChannelDiff
		running, err := p.clock.Tick(p.clockInput(now, timeline), func(step int) {
			diffs = append(diffs, p.channels.ProcessStep(step, timeline, &p.song)...)
		})
		if err != nil {
			p.SendAlert("PlaybackStopped", fmt.Sprintf("playback stopped: %v", err), Error)
		}
		if !running {
			diffs = append(diffs, p.channels.ReleaseAll()...)
			if err == nil {
				p.clock.Seek(0, now)
			}
		}
		p.push(diffs)
	case ClockTesting:
		if p.test.hasDeadline && !now.Before(p.test.deadline) {
			p.stopTest()
		}
	}
	p.sendStatus()
}

// Close silences all channels and stops the clock. It is called when the
// editor closes, so no timer is left behind.
func (p *Player) Close() {
	p.clock.Stop()
	p.test = testNote{}
	p.push(p.channels.ReleaseAll())
	p.sendStatus()
}

func (p *Player) processMessages(now time.Time) {
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			p.handle(msg, now)
		default:
			return
		}
	}
}

func (p *Player) handle(msg any, now time.Time) {
	switch m := msg.(type) {
	case SongMsg:
		speedChanged := m.Song.Speed != p.song.Speed
		p.song = m.Song
		p.revision = m.Revision
		p.timelines.Invalidate()
		if speedChanged && p.clock.State() == ClockRunning {
			// steps are counted from the baseline, so a new speed must not
			// apply to the time already elapsed
			p.clock.Seek(p.clock.Step(), now)
		}
	case StartPlayMsg:
		p.play(now, m.Step)
	case StopPlayMsg:
		if p.clock.State() == ClockRunning {
			p.clock.Stop()
			p.push(p.channels.ReleaseAll())
			if !m.Pause {
				p.clock.Seek(0, now)
			}
		}
	case SeekMsg:
		p.seek(now, m.Step)
	case PlayRangeMsg:
		p.playRange = m.PlayRange
		if p.clock.State() == ClockRunning {
			start, end := p.playRange.Resolve(p.timeline().Length)
			if s := p.clock.Step(); s < start || s > end {
				p.seek(now, start)
			}
		}
	case NoteOnMsg:
		p.startTest(now, m)
	case NoteOffMsg:
		if p.clock.State() == ClockTesting {
			p.stopTest()
		}
	default:
		// ignore unknown messages
	}
}

func (p *Player) play(now time.Time, from int) {
	if p.clock.State() == ClockTesting {
		p.stopTest()
	}
	timeline := p.timeline()
	if timeline.Length == 0 {
		p.SendAlert("EmptySong", "nothing to play: the song is empty", Warning)
		return
	}
	in := p.clockInput(now, timeline)
	start, end := in.Range.Resolve(timeline.Length)
	if from < 0 {
		from = p.clock.Step()
	}
	if from < start || from > end {
		from = start
	}
	diffs := p.channels.ReleaseAll()
	p.channels.Reset()
	if err := p.clock.Play(in, from); err != nil {
		p.push(diffs)
		p.SendAlert("PlaybackStopped", fmt.Sprintf("cannot play: %v", err), Error)
		return
	}
	diffs = append(diffs, p.channels.ProcessStep(from, timeline, &p.song)...)
	p.push(diffs)
}

func (p *Player) seek(now time.Time, step int) {
	timeline := p.timeline()
	step = min(max(step, 0), max(timeline.Length-1, 0))
	p.clock.Seek(step, now)
	if p.clock.State() == ClockRunning {
		diffs := p.channels.ReleaseAll()
		diffs = append(diffs, p.channels.ProcessStep(step, timeline, &p.song)...)
		p.push(diffs)
	}
}

func (p *Player) startTest(now time.Time, m NoteOnMsg) {
	if m.Channel < 0 || m.Channel >= vsutrack.NumChannels {
		return
	}
	if p.clock.State() == ClockTesting {
		p.push([]ChannelDiff{p.channels.Release(p.test.channel)})
	}
	if !p.clock.StartTesting() {
		p.SendAlert("TestWhilePlaying", "cannot audition notes while the song is playing", Info)
		return
	}
	id := m.Instrument
	if id == "" && m.Channel < len(p.song.Channels) {
		id = p.song.Channels[m.Channel].Instrument
	}
	block, ok := p.channels.Resolve(id, &p.song)
	if !ok {
		p.clock.Stop()
		return
	}
	p.test = testNote{channel: m.Channel}
	if m.Duration > 0 {
		p.test.deadline = now.Add(m.Duration)
		p.test.hasDeadline = true
	}
	p.push([]ChannelDiff{p.channels.Trigger(m.Channel, m.Note, block)})
}

func (p *Player) stopTest() {
	p.clock.Stop()
	p.push([]ChannelDiff{p.channels.Release(p.test.channel)})
	p.test = testNote{}
}

func (p *Player) timeline() *Timeline {
	return p.timelines.Get(p.revision, &p.song)
}

func (p *Player) clockInput(now time.Time, timeline *Timeline) ClockInput {
	return ClockInput{
		Now:       now,
		Speed:     p.song.StepDuration(),
		Length:    timeline.Length,
		Loop:      p.song.Loop,
		LoopPoint: p.song.LoopPoint,
		Range:     p.playRange,
	}
}

// push folds the diffs into the snapshot and sends the snapshot to the synth.
func (p *Player) push(diffs []ChannelDiff) {
	if len(diffs) == 0 {
		return
	}
	Apply(diffs, &p.snapshot)
	TrySend(p.broker.ToSynth, p.snapshot)
}

func (p *Player) sendStatus() {
	status := PlayerStatus{State: p.clock.State(), Step: p.clock.Step(), Revision: p.revision}
	if status == p.status {
		return
	}
	p.status = status
	TrySend(p.broker.ToModel, MsgToModel{HasStatus: true, Status: status})
}

func (p *Player) SendAlert(name, message string, priority AlertPriority) {
	TrySend(p.broker.ToModel, MsgToModel{Data: Alert{
		Name:     name,
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	}})
}
