package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/cmd"
	"github.com/vuengine/vsutrack/tracker"
)

type session struct {
	model    *tracker.Model
	keys     tracker.KeyMap
	octave   int
	channel  int
	testNote time.Duration
	state    tracker.ClockState
	started  bool
}

const numOctaves = vsutrack.NumNotes / 12

// run is the UI loop. It returns when the user quits or the context is
// cancelled. If exitWhenStopped is set, it also returns when the song has
// played to the end or playback failed.
func (s *session) run(ctx context.Context, keys <-chan []byte, exitWhenStopped bool) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if !s.key(tracker.KeyName(input)) {
				return
			}
		case <-ticker.C:
		}
		s.model.Update()
		alerts := s.model.TakeAlerts()
		cmd.PrintAlerts(cmd.Stdout, alerts)
		for _, a := range alerts {
			if exitWhenStopped && a.Priority == tracker.Error {
				return
			}
		}
		status := s.model.Status()
		if status.State != s.state {
			s.state = status.State
			fmt.Fprintf(cmd.Stdout, "[%s at step %d]\r\n", status.State, status.Step)
		}
		if status.State == tracker.ClockRunning {
			s.started = true
		}
		if exitWhenStopped && s.started && status.State == tracker.ClockStopped {
			return
		}
	}
}

// key handles a key press and returns false if the user wants to quit.
func (s *session) key(name string) bool {
	action, ok := s.keys[name]
	if !ok {
		return true
	}
	if n, ok := action.Semitone(); ok {
		note := vsutrack.Note(s.octave*12 + n)
		s.model.TestNote(s.channel, note, s.testNote)
		fmt.Fprintf(cmd.Stdout, "[%s on channel %d]\r\n", note.Clamp(), s.channel)
		return true
	}
	switch action {
	case "TogglePlay":
		if s.model.Playing() {
			s.model.Pause()
		} else {
			s.model.Play()
		}
	case "Stop":
		s.model.Stop()
	case "Rewind":
		s.model.Seek(0)
	case "Quit":
		return false
	case "OctaveUp":
		s.octave = min(s.octave+1, numOctaves-1)
	case "OctaveDown":
		s.octave = max(s.octave-1, 0)
	case "NextChannel":
		s.channel = (s.channel + 1) % vsutrack.NumChannels
	case "PrevChannel":
		s.channel = (s.channel + vsutrack.NumChannels - 1) % vsutrack.NumChannels
	case "NoteOff":
		s.model.StopTestNote()
	case "Undo":
		s.model.Undo()
	case "Redo":
		s.model.Redo()
	case "Save":
		s.save()
	}
	return true
}

func (s *session) save() {
	path := s.model.FilePath()
	if path == "" {
		s.model.Alert(tracker.Alert{Name: "Save", Priority: tracker.Warning, Message: "the song was not loaded from a file"})
		return
	}
	f, err := os.Create(path)
	if err != nil {
		s.model.Alert(tracker.Alert{Name: "Save", Priority: tracker.Error, Message: err.Error()})
		return
	}
	if s.model.WriteSong(f) {
		s.model.Alert(tracker.Alert{Name: "Save", Priority: tracker.Info, Message: "saved " + path})
	}
}
