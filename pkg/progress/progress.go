package progress

import (
	"sync"
	"time"
)

// Aborted is the percent reported when a run stops before completion.
const Aborted = -1.0

type Event struct {
	Percent   float64   `json:"percent"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink receives progress notifications. Implementations must not block.
type Sink interface {
	Report(percent float64, message string)
}

// Func adapts a plain function to a Sink.
type Func func(percent float64, message string)

func (f Func) Report(percent float64, message string) {
	f(percent, message)
}

type nop struct{}

func (nop) Report(float64, string) {}

// Nop discards every event.
var Nop Sink = nop{}

type safe struct {
	sink Sink
}

// Safe wraps sink so a panicking implementation never propagates into the caller.
// A nil sink becomes Nop.
func Safe(sink Sink) Sink {
	if sink == nil {
		return Nop
	}
	if s, ok := sink.(safe); ok {
		return s
	}
	return safe{sink: sink}
}

func (s safe) Report(percent float64, message string) {
	defer func() {
		_ = recover()
	}()
	s.sink.Report(percent, message)
}

// Channel delivers events over a buffered channel. Sends never block: when the
// buffer is full the event is dropped and counted.
type Channel struct {
	mu      sync.Mutex
	events  chan Event
	closed  bool
	dropped int
}

func NewChannel(buffer int) *Channel {
	if buffer < 1 {
		buffer = 1
	}
	return &Channel{events: make(chan Event, buffer)}
}

func (c *Channel) Report(percent float64, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- Event{Percent: percent, Message: message, Timestamp: time.Now()}:
	default:
		c.dropped++
	}
}

func (c *Channel) Events() <-chan Event {
	return c.events
}

func (c *Channel) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Close ends the stream. Reports after Close are ignored.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}
