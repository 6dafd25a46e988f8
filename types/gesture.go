package types

import "time"

// DragFrame carries the per-frame centroid movement of an active drag
// gesture. The listener derives a screen-space delta from the centroid
// pair; FingerCount is the number of contacts that survived filtering.
type DragFrame struct {
	Centroid    Point `json:"centroid"`
	Previous    Point `json:"previous"`
	FingerCount int   `json:"fingerCount"`
}

// Gesture event type names, as broadcast to WebSocket subscribers.
const (
	GestureStarted           = "started"
	GestureTap               = "tap"
	GestureBeginDragging     = "beginDragging"
	GestureUpdateDragging    = "updateDragging"
	GestureEndDragging       = "endDragging"
	GestureCancelled         = "cancelled"
	GestureCancelledDragging = "cancelledDragging"
)

// GestureEvent is the wire form of a recognizer event, tagged with the
// frame source that produced it.
type GestureEvent struct {
	Type      string     `json:"type"`
	SourceID  string     `json:"sourceId"`
	Timestamp time.Time  `json:"timestamp"`
	Centroid  *Point     `json:"centroid,omitempty"`
	Frame     *DragFrame `json:"frame,omitempty"`
}
