// Package gesture classifies raw multi-contact touch frames into
// semantic three-finger gesture events: tap, drag begin/update/end,
// and the cancellation variants. It holds no screen-space knowledge;
// positions stay in normalized surface coordinates throughout.
package gesture

import (
	"time"

	"github.com/lakitu/middledrag/types"
)

// State is the recognizer's position in its gesture lifecycle.
type State int

const (
	// StateIdle means no gesture is in progress.
	StateIdle State = iota
	// StatePossibleTap means three fingers are down but have not moved
	// far enough to commit to a drag.
	StatePossibleTap
	// StateDragging means the gesture has been promoted to a drag.
	StateDragging
	// StateWaitingForRelease holds after a forced cancellation until
	// the fingers clear the surface.
	StateWaitingForRelease
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePossibleTap:
		return "possibleTap"
	case StateDragging:
		return "dragging"
	case StateWaitingForRelease:
		return "waitingForRelease"
	default:
		return "unknown"
	}
}

// Config is the per-frame snapshot of recognizer tunables. The owner
// may swap it between frames; the recognizer never mutates it.
type Config struct {
	// MoveThreshold is the frame-to-frame centroid displacement, in
	// normalized units, that promotes a possible tap into a drag.
	MoveThreshold float64

	// TapThreshold is the longest gesture that still counts as a tap.
	TapThreshold time.Duration

	// MaxTapHold is the safety ceiling past which release never taps.
	MaxTapHold time.Duration

	// RejectZone drops contacts whose Y falls below ZoneHeight,
	// a band along the bottom edge of the surface.
	RejectZone bool
	ZoneHeight float64

	// RejectSize drops contacts larger than MaxContactSize.
	RejectSize     bool
	MaxContactSize float64

	// RequiredModifier, when nonzero, must be held for any frame to be
	// processed; losing it cancels the active gesture.
	RequiredModifier types.ModifierMask

	// AllowRelift keeps a drag alive on two-finger frames, so one
	// finger can lift and re-land mid-drag.
	AllowRelift bool
}

// Listener receives the semantic gesture events. All callbacks fire
// synchronously from ProcessFrame and must not block.
type Listener interface {
	// GestureStarted fires when three fingers land; centroid is in
	// normalized surface coordinates.
	GestureStarted(centroid types.Point)
	// GestureTapped fires on a quick release with no drag promotion.
	GestureTapped()
	// DraggingBegan fires when the centroid crosses the move threshold.
	DraggingBegan()
	// DraggingUpdated fires once per valid frame while dragging.
	DraggingUpdated(frame types.DragFrame)
	// DraggingEnded fires on a normal finger lift while dragging.
	DraggingEnded()
	// GestureCancelled fires when a pre-drag gesture is aborted.
	GestureCancelled()
	// DraggingCancelled fires when a drag is aborted; the listener
	// must release the pointer button without treating it as a lift.
	DraggingCancelled()
}

const (
	// outlierThreshold is the largest believable frame-to-frame
	// centroid jump; larger jumps are artifacts of a finger being
	// added or removed and emit no movement.
	outlierThreshold = 0.03

	// moveEpsilon is the smallest centroid delta worth reporting.
	moveEpsilon = 1e-5

	// stabilityFrames is how many consecutive invalid frames must be
	// seen before a gesture ends, absorbing single-frame flicker.
	stabilityFrames = 2
)
