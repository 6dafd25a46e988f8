package engine

import (
	"time"

	"github.com/lakitu/middledrag/gesture"
	"github.com/lakitu/middledrag/types"
)

// sourceListener adapts one source's recognizer events into
// synthesizer calls and subscriber notifications. All callbacks run
// on the gesture context.
type sourceListener struct {
	engine *Engine
	source *source
}

var _ gesture.Listener = (*sourceListener)(nil)

func (l *sourceListener) GestureStarted(centroid types.Point) {
	l.publish(types.GestureStarted, &centroid, nil)
}

func (l *sourceListener) GestureTapped() {
	l.engine.synth.PerformClick()
	l.publish(types.GestureTap, nil, nil)
}

func (l *sourceListener) DraggingBegan() {
	// The drag anchors at wherever the pointer currently is.
	l.engine.synth.StartDrag(l.engine.locator.Location())
	l.publish(types.GestureBeginDragging, nil, nil)
}

func (l *sourceListener) DraggingUpdated(frame types.DragFrame) {
	dx, dy := l.engine.translateDelta(frame)
	l.engine.synth.UpdateDrag(dx, dy)
	l.publish(types.GestureUpdateDragging, nil, &frame)
}

func (l *sourceListener) DraggingEnded() {
	l.engine.synth.EndDrag()
	l.publish(types.GestureEndDragging, nil, nil)
}

func (l *sourceListener) GestureCancelled() {
	l.publish(types.GestureCancelled, nil, nil)
}

func (l *sourceListener) DraggingCancelled() {
	// Distinct from a normal end so a held button is released without
	// being mistaken for a user-driven lift.
	l.engine.synth.CancelDrag()
	l.publish(types.GestureCancelledDragging, nil, nil)
}

func (l *sourceListener) publish(kind string, centroid *types.Point, frame *types.DragFrame) {
	l.engine.emit(types.GestureEvent{
		Type:      kind,
		SourceID:  l.source.id,
		Timestamp: time.Now(),
		Centroid:  centroid,
		Frame:     frame,
	})
}

// translateDelta scales a normalized centroid delta into screen
// pixels: sensitivity times the display dimensions, with the vertical
// axis inverted because surface Y grows upward and screen Y grows
// downward.
func (e *Engine) translateDelta(frame types.DragFrame) (float64, float64) {
	cfg := e.snapshot()
	display := e.displayBounds()
	dx := (frame.Centroid.X - frame.Previous.X) * cfg.Sensitivity * display.Width
	dy := -(frame.Centroid.Y - frame.Previous.Y) * cfg.Sensitivity * display.Height
	return dx, dy
}
