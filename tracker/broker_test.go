package tracker_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/tracker"
)

type recordingSynth struct {
	frequencies []uint16
	fail        bool
	closed      bool
}

func (s *recordingSynth) Update(msg vsutrack.SynthMessage) error {
	if s.fail {
		return errors.New("device unplugged")
	}
	s.frequencies = append(s.frequencies, msg.Channels[0].Frequency)
	return nil
}

func (s *recordingSynth) Close() error {
	s.closed = true
	return nil
}

func runSynth(t *testing.T, synth *recordingSynth, frequencies ...uint16) *tracker.Broker {
	t.Helper()
	broker := tracker.NewBroker()
	for _, f := range frequencies {
		var msg vsutrack.SynthMessage
		msg.Channels[0].Frequency = f
		broker.ToSynth <- msg
	}
	go broker.RunSynth(synth)
	// wait until the synth has drained all the messages before closing it
	for len(broker.ToSynth) > 0 {
		time.Sleep(time.Millisecond)
	}
	broker.CloseSynth <- struct{}{}
	if _, ok := tracker.TimeoutReceive(broker.FinishedSynth, 3*time.Second); ok {
		t.Fatal("FinishedSynth should be closed, not sent to")
	}
	return broker
}

func TestRunSynthKeepsOrder(t *testing.T) {
	synth := &recordingSynth{}
	runSynth(t, synth, 1, 2, 3)
	if !reflect.DeepEqual(synth.frequencies, []uint16{1, 2, 3}) {
		t.Fatalf("synth got %v, expected [1 2 3]", synth.frequencies)
	}
	if !synth.closed {
		t.Fatal("synth should be closed")
	}
}

func TestRunSynthReportsErrors(t *testing.T) {
	broker := runSynth(t, &recordingSynth{fail: true}, 1)
	msg := <-broker.ToModel
	if a, ok := msg.Data.(tracker.Alert); !ok || a.Priority != tracker.Error {
		t.Fatalf("expected an error alert, got %+v", msg)
	}
}

func TestTrySendDoesNotBlock(t *testing.T) {
	c := make(chan int, 1)
	if !tracker.TrySend(c, 1) {
		t.Fatal("first send should succeed")
	}
	if tracker.TrySend(c, 2) {
		t.Fatal("send to a full channel should fail")
	}
}
