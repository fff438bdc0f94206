package hub

import (
	"sync"
	"sync/atomic"

	"tower-wars/server/internal/net/proto"
)

// Subscriber is one connection's outbound queue. The hub enqueues encoded
// frames without blocking; the transport drains Frames until Done closes.
type Subscriber struct {
	id    string
	codec proto.Codec

	mu     sync.Mutex
	send   chan []byte
	done   chan struct{}
	closed bool

	dropped atomic.Uint64
}

func newSubscriber(id string, codec proto.Codec, queue int) *Subscriber {
	return &Subscriber{
		id:    id,
		codec: codec,
		send:  make(chan []byte, queue),
		done:  make(chan struct{}),
	}
}

func (s *Subscriber) ID() string { return s.id }

func (s *Subscriber) Codec() proto.Codec { return s.codec }

// Frames yields encoded frames in enqueue order.
func (s *Subscriber) Frames() <-chan []byte { return s.send }

// Done closes when the hub drops the subscriber.
func (s *Subscriber) Done() <-chan struct{} { return s.done }

// Dropped reports how many frames were discarded because the queue was full.
func (s *Subscriber) Dropped() uint64 { return s.dropped.Load() }

// enqueue reports false when the frame was dropped.
func (s *Subscriber) enqueue(frame []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- frame:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}
