// Package rpc carries synthesizer snapshots to a synth running in another
// process, e.g. an emulator, over net/rpc.
package rpc

import (
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"sync"

	"github.com/vuengine/vsutrack"
)

// DefaultAddress is the address the receiver listens on by default.
const DefaultAddress = ":31337"

type SyncServer struct {
	channel chan vsutrack.SynthMessage
	done    <-chan struct{}
}

// Sync hands a snapshot to the receiver. If the receiver is lagging behind,
// the snapshot is dropped; the next one carries the full channel state
// anyway.
func (s *SyncServer) Sync(msg vsutrack.SynthMessage, reply *int) error {
	select {
	case <-s.done:
		return ErrReceiverClosed
	case s.channel <- msg:
	default:
	}
	return nil
}

// Receiver is the listening end of the bridge. Snapshots arrive in C, in the
// order they were sent. C is never closed.
type Receiver struct {
	C        <-chan vsutrack.SynthMessage
	listener net.Listener
	done     chan struct{}
	once     sync.Once
}

var ErrReceiverClosed = errors.New("rpc: receiver closed")

// Listen starts a receiver on the given address, e.g. ":31337" or
// "127.0.0.1:0" for any free port.
func Listen(address string) (*Receiver, error) {
	c := make(chan vsutrack.SynthMessage, 256)
	done := make(chan struct{})
	server := rpc.NewServer()
	if err := server.Register(&SyncServer{channel: c, done: done}); err != nil {
		return nil, fmt.Errorf("rpc.Register failed: %w", err)
	}
	l, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("net.Listen failed: %w", err)
	}
	go server.Accept(l)
	return &Receiver{C: c, listener: l, done: done}, nil
}

func (r *Receiver) Addr() net.Addr {
	return r.listener.Addr()
}

// Close stops accepting connections. Senders still connected get an error
// on their next snapshot.
func (r *Receiver) Close() error {
	r.once.Do(func() { close(r.done) })
	return r.listener.Close()
}

// Sender is a vsutrack.Synth that forwards every snapshot to a Receiver.
// Update never blocks: snapshots are queued and sent in order by a
// background goroutine.
type Sender struct {
	client *rpc.Client
	queue  chan vsutrack.SynthMessage
	done   chan struct{}
	mu     sync.Mutex
	err    error
	closed bool
}

var ErrQueueFull = errors.New("rpc: send queue is full, snapshot dropped")

// Dial connects to a Receiver listening on the given address.
func Dial(address string) (*Sender, error) {
	client, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("rpc.Dial failed: %w", err)
	}
	s := &Sender{
		client: client,
		queue:  make(chan vsutrack.SynthMessage, 256),
		done:   make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func (s *Sender) run() {
	defer close(s.done)
	for msg := range s.queue {
		var reply int
		if err := s.client.Call("SyncServer.Sync", msg, &reply); err != nil {
			s.mu.Lock()
			s.err = fmt.Errorf("SyncServer.Sync failed: %w", err)
			s.mu.Unlock()
		}
	}
}

// Update queues the snapshot. It returns the error of an earlier failed send,
// if any, so the caller learns that the receiver went away.
func (s *Sender) Update(msg vsutrack.SynthMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return net.ErrClosed
	}
	if err := s.err; err != nil {
		s.err = nil
		return err
	}
	select {
	case s.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close sends the queued snapshots and closes the connection.
func (s *Sender) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	<-s.done
	return s.client.Close()
}
