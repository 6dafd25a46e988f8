package config

// Config is the flat set of user-facing tunables. Timing windows are
// expressed in seconds, spatial thresholds in normalized surface units
// unless noted. Values loaded from disk or received over RPC pass
// through Clamp before reaching the recognizer or synthesizer; the
// core packages assume sane bounds and do not re-validate.
type Config struct {
	// Sensitivity scales normalized centroid deltas into screen pixels.
	Sensitivity float64 `json:"sensitivity" ini:"sensitivity" plist:"Sensitivity"`

	// SmoothingFactor is the exponential smoothing coefficient in [0,1].
	// 1 disables smoothing, 0 fully damps movement.
	SmoothingFactor float64 `json:"smoothingFactor" ini:"smoothing_factor" plist:"SmoothingFactor"`

	// MoveThreshold is the centroid displacement that promotes a
	// possible tap into a drag.
	MoveThreshold float64 `json:"moveThreshold" ini:"move_threshold" plist:"MoveThreshold"`

	// TapThreshold is the maximum gesture duration, in seconds, for a
	// release to count as a tap.
	TapThreshold float64 `json:"tapThreshold" ini:"tap_threshold" plist:"TapThreshold"`

	// MaxTapHold is the safety ceiling, in seconds, past which a held
	// gesture can no longer produce a tap on release.
	MaxTapHold float64 `json:"maxTapHold" ini:"max_tap_hold" plist:"MaxTapHold"`

	// MinMovement is the minimum pointer travel, in screen pixels,
	// required before a synthetic move event is emitted.
	MinMovement float64 `json:"minMovement" ini:"min_movement" plist:"MinMovement"`

	// PalmRejectionZone enables dropping contacts in a band at the
	// bottom of the surface; ZoneHeight is the band height.
	PalmRejectionZone bool    `json:"palmRejectionZone" ini:"palm_rejection_zone" plist:"PalmRejectionZone"`
	ZoneHeight        float64 `json:"zoneHeight" ini:"zone_height" plist:"ZoneHeight"`

	// PalmRejectionSize enables dropping contacts larger than
	// MaxContactSize.
	PalmRejectionSize bool    `json:"palmRejectionSize" ini:"palm_rejection_size" plist:"PalmRejectionSize"`
	MaxContactSize    float64 `json:"maxContactSize" ini:"max_contact_size" plist:"MaxContactSize"`

	// RequiredModifier names a modifier key that must be held for
	// gestures to register: one of "shift", "control", "option",
	// "command", "fn", or empty for none.
	RequiredModifier string `json:"requiredModifier" ini:"required_modifier" plist:"RequiredModifier"`

	// AllowRelift keeps a drag alive when one of the three fingers
	// briefly lifts, leaving two on the surface.
	AllowRelift bool `json:"allowRelift" ini:"allow_relift" plist:"AllowRelift"`

	// StuckDragTimeout is the watchdog interval in seconds: a drag
	// session with no activity for this long is force-released.
	StuckDragTimeout float64 `json:"stuckDragTimeout" ini:"stuck_drag_timeout" plist:"StuckDragTimeout"`

	// ClickDedupWindow collapses click requests arriving within this
	// many seconds of the previous click into no-ops.
	ClickDedupWindow float64 `json:"clickDedupWindow" ini:"click_dedup_window" plist:"ClickDedupWindow"`
}

// DefaultConfig returns the shipped defaults.
func DefaultConfig() Config {
	return Config{
		Sensitivity:       2.0,
		SmoothingFactor:   0.65,
		MoveThreshold:     0.01,
		TapThreshold:      0.25,
		MaxTapHold:        0.75,
		MinMovement:       2.0,
		PalmRejectionZone: true,
		ZoneHeight:        0.1,
		PalmRejectionSize: true,
		MaxContactSize:    2.5,
		RequiredModifier:  "",
		AllowRelift:       true,
		StuckDragTimeout:  10.0,
		ClickDedupWindow:  0.15,
	}
}

// clampFloat constrains v to [min, max].
func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp constrains every field to its sane range, replacing
// nonsensical values (negative timeouts, out-of-range factors) rather
// than rejecting them.
func (c Config) Clamp() Config {
	c.Sensitivity = clampFloat(c.Sensitivity, 0.1, 20)
	c.SmoothingFactor = clampFloat(c.SmoothingFactor, 0, 1)
	c.MoveThreshold = clampFloat(c.MoveThreshold, 0.001, 0.5)
	c.TapThreshold = clampFloat(c.TapThreshold, 0.05, 2)
	c.MaxTapHold = clampFloat(c.MaxTapHold, c.TapThreshold, 5)
	c.MinMovement = clampFloat(c.MinMovement, 0, 50)
	c.ZoneHeight = clampFloat(c.ZoneHeight, 0, 0.5)
	c.MaxContactSize = clampFloat(c.MaxContactSize, 0.1, 10)
	c.StuckDragTimeout = clampFloat(c.StuckDragTimeout, 0.1, 300)
	c.ClickDedupWindow = clampFloat(c.ClickDedupWindow, 0, 5)
	if _, ok := modifierNames[c.RequiredModifier]; !ok {
		c.RequiredModifier = ""
	}
	return c
}
