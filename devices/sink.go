// Package devices provides the OS-facing event sinks that synthetic
// middle-button events are written to, and the registry that
// force-releases them on shutdown.
package devices

import (
	"sync"

	"github.com/lakitu/middledrag/types"
	"github.com/lakitu/middledrag/utils"
)

// LogSink writes every synthetic event to the log. It is the default
// sink on platforms without an injection backend and doubles as a
// dry-run mode.
type LogSink struct{}

func (LogSink) MiddleDown(p types.Point) {
	utils.Info("middle down at (%.1f, %.1f)", p.X, p.Y)
}

func (LogSink) MiddleMove(p types.Point) {
	utils.Verbose("middle move to (%.1f, %.1f)", p.X, p.Y)
}

func (LogSink) MiddleUp(p types.Point) {
	utils.Info("middle up at (%.1f, %.1f)", p.X, p.Y)
}

func (LogSink) Close() error { return nil }

// CollectSink records every emission in order. It exists for tests
// and for the doctor command's self-check.
type CollectSink struct {
	mu     sync.Mutex
	events []CollectedEvent
}

// CollectedEvent is one recorded emission.
type CollectedEvent struct {
	Kind  string // "down", "move" or "up"
	Point types.Point
}

func (c *CollectSink) MiddleDown(p types.Point) { c.record("down", p) }
func (c *CollectSink) MiddleMove(p types.Point) { c.record("move", p) }
func (c *CollectSink) MiddleUp(p types.Point)   { c.record("up", p) }

func (c *CollectSink) record(kind string, p types.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, CollectedEvent{Kind: kind, Point: p})
}

// Events returns a copy of everything recorded so far.
func (c *CollectSink) Events() []CollectedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CollectedEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Count returns how many events of the given kind were recorded.
func (c *CollectSink) Count(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent event of the given kind.
func (c *CollectSink) Last(kind string) (CollectedEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Kind == kind {
			return c.events[i], true
		}
	}
	return CollectedEvent{}, false
}

// FixedLocator reports a constant pointer position. Real backends
// replace it with a cursor query; tests set it directly.
type FixedLocator struct {
	mu sync.Mutex
	p  types.Point
}

func NewFixedLocator(p types.Point) *FixedLocator {
	return &FixedLocator{p: p}
}

func (l *FixedLocator) Location() types.Point {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p
}

func (l *FixedLocator) Set(p types.Point) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p = p
}
