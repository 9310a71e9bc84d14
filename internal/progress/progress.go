// Package progress carries scan-lifecycle events from concurrent scan
// tasks to a single display consumer.
package progress

import "git-where/internal/repo"

// Event is a scan-lifecycle message. Produced by scan tasks (Done by the
// top-level driver) and consumed exactly once, in arrival order, by the
// tracker.
type Event interface {
	isEvent()
}

// Scanning reports that a directory visit has started.
type Scanning struct {
	Path string
}

// Found reports a confirmed match.
type Found struct {
	Match repo.Match
}

// Warn reports a soft failure local to one directory.
type Warn struct {
	Message string
}

// Done terminates the tracker's consume loop.
type Done struct{}

func (Scanning) isEvent() {}
func (Found) isEvent()    {}
func (Warn) isEvent()     {}
func (Done) isEvent()     {}

// Stream is an unbounded multi-producer, single-consumer event queue.
// Producers never wait on the consumer: a pump goroutine moves events
// into an in-memory queue and feeds them to Events in FIFO order, so
// every event sent is delivered exactly once. Memory stays bounded by
// the number of directories visited.
type Stream struct {
	in  chan Event
	out chan Event
}

// NewStream starts the pump goroutine. Call Close once all producers
// have finished to release it and end the consumer's range loop.
func NewStream() *Stream {
	s := &Stream{
		in:  make(chan Event, 64),
		out: make(chan Event),
	}
	go s.pump()
	return s
}

// Send enqueues ev. Safe for concurrent use; a nil stream discards the
// event, which is the no-tracker mode.
func (s *Stream) Send(ev Event) {
	if s == nil {
		return
	}
	s.in <- ev
}

// Events is the consumer side of the stream. It is closed after Close
// once every pending event has been delivered.
func (s *Stream) Events() <-chan Event {
	return s.out
}

// Close stops the pump after draining pending events. No Send may
// follow.
func (s *Stream) Close() {
	close(s.in)
}

func (s *Stream) pump() {
	var queue []Event
	for {
		// Only offer the head of the queue once there is one.
		var out chan Event
		var head Event
		if len(queue) > 0 {
			out = s.out
			head = queue[0]
		}

		select {
		case ev, ok := <-s.in:
			if !ok {
				for _, ev := range queue {
					s.out <- ev
				}
				close(s.out)
				return
			}
			queue = append(queue, ev)
		case out <- head:
			queue = queue[1:]
		}
	}
}
