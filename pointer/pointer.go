// Package pointer turns semantic drag/click requests into synthetic
// middle-button events: smoothed, threshold-gated, clamped to the
// display, and protected by a stuck-session watchdog.
package pointer

import (
	"math"
	"time"

	"github.com/lakitu/middledrag/types"
)

// EventSink receives the synthetic middle-button events. Emission is
// fire-and-forget: implementations must not block and must not call
// back into the synthesizer.
type EventSink interface {
	MiddleDown(p types.Point)
	MiddleMove(p types.Point)
	MiddleUp(p types.Point)
}

// PointerLocator reports the current on-screen pointer position, used
// to place standalone clicks.
type PointerLocator interface {
	Location() types.Point
}

// Config holds the synthesizer tunables. Values are expected to be
// pre-clamped by the config layer.
type Config struct {
	// SmoothingFactor is the exponential smoothing coefficient in
	// [0,1]: 1 applies deltas immediately, 0 fully damps movement.
	SmoothingFactor float64

	// MinMovement is the pointer travel, in pixels, the smoothed
	// position must accumulate before a move event is emitted.
	MinMovement float64

	// StuckDragTimeout force-releases a session with no activity for
	// this long.
	StuckDragTimeout time.Duration

	// ClickDedupWindow collapses click requests arriving within this
	// window of the previous click.
	ClickDedupWindow time.Duration

	// ClickHoldDelay separates a click's button-down from its
	// button-up.
	ClickHoldDelay time.Duration
}

// DefaultConfig returns the synthesizer defaults.
func DefaultConfig() Config {
	return Config{
		SmoothingFactor:  0.65,
		MinMovement:      2.0,
		StuckDragTimeout: 10 * time.Second,
		ClickDedupWindow: 150 * time.Millisecond,
		ClickHoldDelay:   50 * time.Millisecond,
	}
}

// RoundHalfAway rounds to the nearest integer with halves away from
// zero, so sustained sub-pixel motion is never truncated to nothing.
func RoundHalfAway(v float64) int {
	if v >= 0 {
		return int(math.Floor(v + 0.5))
	}
	return int(math.Ceil(v - 0.5))
}
