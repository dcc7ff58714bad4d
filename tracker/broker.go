package tracker

import (
	"fmt"
	"time"

	"github.com/vuengine/vsutrack"
)

type (
	// Broker is the centralized message broker for the tracker. It is used to
	// communicate between the model, the player and the synthesizer bridge.
	// All communication is one-way: every recipient has its own channel and
	// senders never wait for replies. The player only ever uses TrySend, so a
	// slow synthesizer cannot block the clock; when a channel is full, the
	// message is dropped.
	//
	// The synth goroutine started with RunSynth is closed by sending to
	// CloseSynth (capacity 1, so sending never blocks) and has finished when
	// FinishedSynth is closed:
	//    select {
	//      case <-FinishedSynth:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToModel  chan MsgToModel
		ToPlayer chan any
		ToSynth  chan vsutrack.SynthMessage

		CloseSynth    chan struct{}
		FinishedSynth chan struct{}
	}

	// MsgToModel is a message sent to the model. The frequently sent player
	// status is not boxed; all the infrequent messages go into Data.
	MsgToModel struct {
		HasStatus bool
		Status    PlayerStatus

		Data any
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:       make(chan MsgToModel, 1024),
		ToPlayer:      make(chan any, 1024),
		ToSynth:       make(chan vsutrack.SynthMessage, 1024),
		CloseSynth:    make(chan struct{}, 1),
		FinishedSynth: make(chan struct{}),
	}
}

// RunSynth drains ToSynth into the synth until CloseSynth is signalled, then
// closes the synth. Errors from the synth are sent to the model as alerts.
// Meant to be run in its own goroutine.
func (b *Broker) RunSynth(synth vsutrack.Synth) {
	defer close(b.FinishedSynth)
	for {
		select {
		case msg := <-b.ToSynth:
			if err := synth.Update(msg); err != nil {
				TrySend(b.ToModel, MsgToModel{Data: Alert{Name: "SynthUpdate", Message: fmt.Sprintf("synth.Update: %v", err), Priority: Error}})
			}
		case <-b.CloseSynth:
			if err := synth.Close(); err != nil {
				TrySend(b.ToModel, MsgToModel{Data: Alert{Name: "SynthClose", Message: fmt.Sprintf("synth.Close: %v", err), Priority: Error}})
			}
			return
		}
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
