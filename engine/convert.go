package engine

import (
	"time"

	"github.com/lakitu/middledrag/config"
	"github.com/lakitu/middledrag/gesture"
	"github.com/lakitu/middledrag/pointer"
)

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// gestureConfig projects the user config onto the recognizer's
// snapshot type.
func gestureConfig(c config.Config) gesture.Config {
	return gesture.Config{
		MoveThreshold:    c.MoveThreshold,
		TapThreshold:     seconds(c.TapThreshold),
		MaxTapHold:       seconds(c.MaxTapHold),
		RejectZone:       c.PalmRejectionZone,
		ZoneHeight:       c.ZoneHeight,
		RejectSize:       c.PalmRejectionSize,
		MaxContactSize:   c.MaxContactSize,
		RequiredModifier: c.ModifierMask(),
		AllowRelift:      c.AllowRelift,
	}
}

// pointerConfig projects the user config onto the synthesizer's
// snapshot type.
func pointerConfig(c config.Config) pointer.Config {
	pc := pointer.DefaultConfig()
	pc.SmoothingFactor = c.SmoothingFactor
	pc.MinMovement = c.MinMovement
	pc.StuckDragTimeout = seconds(c.StuckDragTimeout)
	pc.ClickDedupWindow = seconds(c.ClickDedupWindow)
	return pc
}
