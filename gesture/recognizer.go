package gesture

import (
	"math"
	"time"

	"github.com/lakitu/middledrag/types"
)

// Recognizer consumes touch frames and drives the gesture state
// machine. It is not safe for concurrent use; the coordinator feeds it
// from a single goroutine in frame-arrival order.
type Recognizer struct {
	cfg      Config
	listener Listener

	state        State
	startTime    time.Time
	lastCentroid types.Point
	haveCentroid bool

	// invalidFrames counts consecutive frames that could not sustain
	// the gesture; the gesture ends once it reaches stabilityFrames.
	invalidFrames int

	// cooldown blocks gesture restart after a four-finger cancel until
	// the fingers clear, so a 4-to-3 re-lift cannot re-trigger.
	cooldown bool
}

// NewRecognizer returns an idle recognizer reporting to listener.
func NewRecognizer(cfg Config, listener Listener) *Recognizer {
	return &Recognizer{cfg: cfg, listener: listener}
}

// State reports the current gesture state.
func (r *Recognizer) State() State {
	return r.state
}

// SetConfig swaps the tunable snapshot used for subsequent frames.
func (r *Recognizer) SetConfig(cfg Config) {
	r.cfg = cfg
}

// Reset returns the recognizer to idle, clearing all timing and
// position state, the stability counter and the cancellation cooldown.
// Any active gesture is cancelled first so the listener can release a
// held button.
func (r *Recognizer) Reset() {
	r.cancelActive()
	r.reset()
}

// ProcessFrame runs one touch frame through the filter pipeline and
// the state machine. It tolerates being called at the sensor's native
// rate and never blocks.
func (r *Recognizer) ProcessFrame(frame types.TouchFrame) {
	if r.cfg.RequiredModifier != 0 && !frame.Modifiers.Has(r.cfg.RequiredModifier) {
		r.cancelActive()
		r.reset()
		return
	}

	filtered := r.filterSamples(frame.Samples)
	n := len(filtered)

	if n >= 4 {
		r.cancelForHostGesture()
		return
	}

	if r.cooldown {
		switch {
		case n <= 2:
			r.reset()
		case n == 3 && r.state == StateIdle:
			// No gesture was interrupted, so three fingers may start
			// one right away.
			r.cooldown = false
		default:
			return
		}
	}

	if r.state == StateWaitingForRelease {
		return
	}

	valid := n == 3 || (n == 2 && r.cfg.AllowRelift && r.state == StateDragging)
	if !valid {
		r.invalidFrame(frame)
		return
	}
	r.invalidFrames = 0

	centroid := types.Centroid(filtered)

	if r.haveCentroid {
		dx := centroid.X - r.lastCentroid.X
		dy := centroid.Y - r.lastCentroid.Y
		if math.Abs(dx) > outlierThreshold || math.Abs(dy) > outlierThreshold {
			// A finger was added or removed; re-anchor silently.
			r.lastCentroid = centroid
			return
		}
	}

	switch r.state {
	case StateIdle:
		r.state = StatePossibleTap
		r.startTime = frame.Timestamp
		r.lastCentroid = centroid
		r.haveCentroid = true
		r.listener.GestureStarted(centroid)

	case StatePossibleTap:
		if distance(centroid, r.lastCentroid) >= r.cfg.MoveThreshold {
			r.state = StateDragging
			r.listener.DraggingBegan()
		}
		r.lastCentroid = centroid

	case StateDragging:
		dx := centroid.X - r.lastCentroid.X
		dy := centroid.Y - r.lastCentroid.Y
		if math.Abs(dx) > moveEpsilon || math.Abs(dy) > moveEpsilon {
			r.listener.DraggingUpdated(types.DragFrame{
				Centroid:    centroid,
				Previous:    r.lastCentroid,
				FingerCount: n,
			})
		}
		r.lastCentroid = centroid
	}
}

// filterSamples applies the lifecycle, exclusion-zone and contact-size
// filters, in that order, and returns the surviving samples.
func (r *Recognizer) filterSamples(samples []types.TouchSample) []types.TouchSample {
	valid := make([]types.TouchSample, 0, len(samples))
	for _, s := range samples {
		if !s.State.Pressing() {
			continue
		}
		if r.cfg.RejectZone && s.Y < r.cfg.ZoneHeight {
			continue
		}
		if r.cfg.RejectSize && s.Size > r.cfg.MaxContactSize {
			continue
		}
		valid = append(valid, s)
	}
	return valid
}

// invalidFrame advances the stability counter and, once enough
// consecutive invalid frames accumulate, resolves the gesture as a
// tap, a drag end, or a cancellation.
func (r *Recognizer) invalidFrame(frame types.TouchFrame) {
	if r.state == StateIdle {
		r.invalidFrames = 0
		return
	}

	r.invalidFrames++
	if r.invalidFrames < stabilityFrames {
		return
	}

	switch r.state {
	case StatePossibleTap:
		elapsed := frame.Timestamp.Sub(r.startTime)
		if elapsed < r.cfg.TapThreshold && elapsed < r.cfg.MaxTapHold {
			r.listener.GestureTapped()
		} else {
			r.listener.GestureCancelled()
		}
	case StateDragging:
		r.listener.DraggingEnded()
	}
	r.reset()
}

// cancelForHostGesture handles a four-or-more-finger frame: the host's
// own multi-finger gestures always win, so any active gesture is
// cancelled and restart is blocked until the fingers clear.
func (r *Recognizer) cancelForHostGesture() {
	switch r.state {
	case StatePossibleTap:
		r.listener.GestureCancelled()
		r.state = StateWaitingForRelease
	case StateDragging:
		r.listener.DraggingCancelled()
		r.state = StateWaitingForRelease
	}
	r.cooldown = true
	r.invalidFrames = 0
	r.haveCentroid = false
}

// cancelActive emits the cancellation event matching the current
// state. The caller resets afterwards.
func (r *Recognizer) cancelActive() {
	switch r.state {
	case StatePossibleTap:
		r.listener.GestureCancelled()
	case StateDragging:
		r.listener.DraggingCancelled()
	}
}

func (r *Recognizer) reset() {
	r.state = StateIdle
	r.startTime = time.Time{}
	r.lastCentroid = types.Point{}
	r.haveCentroid = false
	r.invalidFrames = 0
	r.cooldown = false
}

func distance(a, b types.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
