package types

import "time"

// Lifecycle represents the tracking phase of a single contact point,
// as reported by the touch surface driver.
type Lifecycle string

const (
	LifecycleNotTracking Lifecycle = "notTracking"
	LifecycleStarting    Lifecycle = "starting"
	LifecycleHovering    Lifecycle = "hovering"
	LifecycleTouching    Lifecycle = "touching"
	LifecycleActive      Lifecycle = "active"
	LifecycleLifting     Lifecycle = "lifting"
	LifecycleLingering   Lifecycle = "lingering"
	LifecycleOutOfRange  Lifecycle = "outOfRange"
)

// Pressing reports whether a contact in this phase counts as present
// on the surface. Only touching and active contacts do; hovering,
// lifting and lingering contacts are ignored by gesture processing.
func (l Lifecycle) Pressing() bool {
	return l == LifecycleTouching || l == LifecycleActive
}

// TouchSample is one contact point within a touch frame. Position is
// normalized to [0,1]x[0,1] relative to the surface, with (0,0) at the
// bottom-left corner. Size is the driver-reported contact area, used
// for palm rejection.
type TouchSample struct {
	ID    int       `json:"id"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Size  float64   `json:"size"`
	State Lifecycle `json:"state"`
}

// TouchFrame is one timestamped snapshot of all tracked contacts on a
// surface, plus the modifier keys held when the frame was captured.
type TouchFrame struct {
	Timestamp time.Time     `json:"timestamp"`
	Samples   []TouchSample `json:"samples"`
	Modifiers ModifierMask  `json:"modifiers"`
}

// ModifierMask is a bitmask of keyboard modifier keys.
type ModifierMask uint32

const (
	ModifierShift ModifierMask = 1 << iota
	ModifierControl
	ModifierOption
	ModifierCommand
	ModifierFn
)

// Has reports whether all modifiers in m are held.
func (mask ModifierMask) Has(m ModifierMask) bool {
	return mask&m == m
}

// Point is a position in either normalized surface coordinates or
// screen pixels, depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Centroid returns the arithmetic mean position of the given samples.
// Returns the zero point for an empty slice.
func Centroid(samples []TouchSample) Point {
	if len(samples) == 0 {
		return Point{}
	}
	var p Point
	for _, s := range samples {
		p.X += s.X
		p.Y += s.Y
	}
	p.X /= float64(len(samples))
	p.Y /= float64(len(samples))
	return p
}
