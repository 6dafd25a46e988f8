package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakitu/middledrag/types"
)

// recorder captures listener callbacks in order.
type recorder struct {
	events    []string
	centroids []types.Point
	frames    []types.DragFrame
}

func (r *recorder) GestureStarted(c types.Point) {
	r.events = append(r.events, "started")
	r.centroids = append(r.centroids, c)
}
func (r *recorder) GestureTapped()     { r.events = append(r.events, "tap") }
func (r *recorder) DraggingBegan()     { r.events = append(r.events, "beginDragging") }
func (r *recorder) DraggingEnded()     { r.events = append(r.events, "endDragging") }
func (r *recorder) GestureCancelled()  { r.events = append(r.events, "cancelled") }
func (r *recorder) DraggingCancelled() { r.events = append(r.events, "cancelledDragging") }
func (r *recorder) DraggingUpdated(f types.DragFrame) {
	r.events = append(r.events, "updateDragging")
	r.frames = append(r.frames, f)
}

func (r *recorder) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func testConfig() Config {
	return Config{
		MoveThreshold:  0.01,
		TapThreshold:   250 * time.Millisecond,
		MaxTapHold:     750 * time.Millisecond,
		RejectZone:     true,
		ZoneHeight:     0.1,
		RejectSize:     true,
		MaxContactSize: 2.5,
		AllowRelift:    true,
	}
}

func touch(id int, x, y float64) types.TouchSample {
	return types.TouchSample{ID: id, X: x, Y: y, Size: 1.0, State: types.LifecycleActive}
}

// threeFingers returns three contacts whose centroid is (cx, cy).
func threeFingers(cx, cy float64) []types.TouchSample {
	return []types.TouchSample{
		touch(1, cx-0.02, cy),
		touch(2, cx, cy),
		touch(3, cx+0.02, cy),
	}
}

func frameAt(ts time.Time, samples ...types.TouchSample) types.TouchFrame {
	return types.TouchFrame{Timestamp: ts, Samples: samples}
}

func newTestRecognizer(t *testing.T) (*Recognizer, *recorder) {
	t.Helper()
	rec := &recorder{}
	return NewRecognizer(testConfig(), rec), rec
}

// liftAll sends enough empty frames to pass the stability counter.
func liftAll(r *Recognizer, ts time.Time) {
	for i := 0; i < stabilityFrames; i++ {
		r.ProcessFrame(frameAt(ts.Add(time.Duration(i) * 8 * time.Millisecond)))
	}
}

func TestQuickReleaseEmitsExactlyOneTap(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	// ten dwelling frames over ~80ms, centroid fixed
	for i := 0; i < 10; i++ {
		r.ProcessFrame(frameAt(base.Add(time.Duration(i)*8*time.Millisecond), threeFingers(0.5, 0.5)...))
	}
	liftAll(r, base.Add(100*time.Millisecond))

	assert.Equal(t, 1, rec.count("tap"))
	assert.Equal(t, 1, rec.count("started"))
	assert.Zero(t, rec.count("beginDragging"))
	assert.Zero(t, rec.count("updateDragging"))
	assert.Equal(t, StateIdle, r.State())
}

func TestMoveThresholdPromotesToDragRegardlessOfElapsedTime(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	// displacement of 0.02 is past the 0.01 threshold but under the
	// outlier cutoff
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.52, 0.5)...))

	require.Equal(t, []string{"started", "beginDragging"}, rec.events)
	assert.Equal(t, StateDragging, r.State())
}

func TestDwellingFingersNeverStartDrag(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	// slow drift: 0.002 per frame, always below the per-frame threshold,
	// held far past the tap window
	for i := 0; i < 120; i++ {
		cx := 0.3 + float64(i)*0.002
		r.ProcessFrame(frameAt(base.Add(time.Duration(i)*10*time.Millisecond), threeFingers(cx, 0.5)...))
	}
	assert.Zero(t, rec.count("beginDragging"))

	// held 1.2s, past both tap windows, so release cancels
	liftAll(r, base.Add(1200*time.Millisecond))
	assert.Equal(t, 1, rec.count("cancelled"))
	assert.Zero(t, rec.count("tap"))
}

func TestDragLifecycleEmitsUpdatesAndEnd(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.52, 0.5)...))
	r.ProcessFrame(frameAt(base.Add(16*time.Millisecond), threeFingers(0.54, 0.51)...))
	r.ProcessFrame(frameAt(base.Add(24*time.Millisecond), threeFingers(0.55, 0.52)...))
	liftAll(r, base.Add(32*time.Millisecond))

	require.Equal(t, 2, rec.count("updateDragging"))
	assert.Equal(t, 1, rec.count("endDragging"))
	assert.Zero(t, rec.count("tap"))

	first := rec.frames[0]
	assert.InDelta(t, 0.54, first.Centroid.X, 1e-9)
	assert.InDelta(t, 0.52, first.Previous.X, 1e-9)
	assert.Equal(t, 3, first.FingerCount)
}

func TestSingleFrameFlickerIsAbsorbed(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	// one-frame dropout
	r.ProcessFrame(frameAt(base.Add(8 * time.Millisecond)))
	r.ProcessFrame(frameAt(base.Add(16*time.Millisecond), threeFingers(0.5, 0.5)...))

	assert.Zero(t, rec.count("tap"))
	assert.Zero(t, rec.count("cancelled"))
	assert.Equal(t, StatePossibleTap, r.State())
}

func TestFourFingersCancelsAndBlocksRestart(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	four := append(threeFingers(0.5, 0.5), touch(4, 0.6, 0.5))
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), four...))

	require.Equal(t, []string{"started", "cancelled"}, rec.events)
	assert.Equal(t, StateWaitingForRelease, r.State())

	// a 4-to-3 re-lift must not restart the gesture
	r.ProcessFrame(frameAt(base.Add(16*time.Millisecond), threeFingers(0.5, 0.5)...))
	assert.Equal(t, 1, rec.count("started"))

	// fingers clear, then three fingers start fresh
	r.ProcessFrame(frameAt(base.Add(24 * time.Millisecond)))
	r.ProcessFrame(frameAt(base.Add(32*time.Millisecond), threeFingers(0.4, 0.4)...))
	assert.Equal(t, 2, rec.count("started"))
}

func TestFourFingersWhileDraggingEmitsCancelledDragging(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.52, 0.5)...))
	require.Equal(t, StateDragging, r.State())

	four := append(threeFingers(0.52, 0.5), touch(4, 0.6, 0.5))
	r.ProcessFrame(frameAt(base.Add(16*time.Millisecond), four...))

	assert.Equal(t, 1, rec.count("cancelledDragging"))
	assert.Zero(t, rec.count("endDragging"))
}

func TestFourFingersWhileIdleAllowsImmediateThreeFingerStart(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	four := append(threeFingers(0.5, 0.5), touch(4, 0.6, 0.5))
	r.ProcessFrame(frameAt(base, four...))
	assert.Empty(t, rec.events)

	// nothing was interrupted, so dropping to three may start a gesture
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.5, 0.5)...))
	assert.Equal(t, []string{"started"}, rec.events)
}

func TestMissingModifierCancelsActiveGesture(t *testing.T) {
	rec := &recorder{}
	cfg := testConfig()
	cfg.RequiredModifier = types.ModifierFn
	r := NewRecognizer(cfg, rec)
	base := time.Now()

	withMod := types.TouchFrame{
		Timestamp: base,
		Samples:   threeFingers(0.5, 0.5),
		Modifiers: types.ModifierFn,
	}
	r.ProcessFrame(withMod)
	require.Equal(t, []string{"started"}, rec.events)

	// modifier released mid-gesture
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.5, 0.5)...))
	assert.Equal(t, []string{"started", "cancelled"}, rec.events)
	assert.Equal(t, StateIdle, r.State())

	// and without it held, frames are ignored entirely
	r.ProcessFrame(frameAt(base.Add(16*time.Millisecond), threeFingers(0.5, 0.5)...))
	assert.Equal(t, 1, rec.count("started"))
}

func TestPalmSamplesAreFilteredOut(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	// three real fingers plus a palm resting in the bottom band and an
	// oversized contact: still a three-finger frame
	samples := append(threeFingers(0.5, 0.5),
		touch(4, 0.5, 0.05),
		types.TouchSample{ID: 5, X: 0.6, Y: 0.5, Size: 4.0, State: types.LifecycleActive},
	)
	r.ProcessFrame(frameAt(base, samples...))

	assert.Equal(t, []string{"started"}, rec.events)
}

func TestHoveringContactsDoNotCount(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	samples := []types.TouchSample{
		touch(1, 0.4, 0.5),
		touch(2, 0.5, 0.5),
		{ID: 3, X: 0.6, Y: 0.5, Size: 1.0, State: types.LifecycleHovering},
	}
	r.ProcessFrame(frameAt(base, samples...))

	assert.Empty(t, rec.events)
	assert.Equal(t, StateIdle, r.State())
}

func TestCentroidJumpIsTreatedAsArtifact(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.52, 0.5)...))
	require.Equal(t, StateDragging, r.State())

	// a 0.05 jump exceeds the outlier cutoff: re-anchor, no update
	r.ProcessFrame(frameAt(base.Add(16*time.Millisecond), threeFingers(0.57, 0.5)...))
	assert.Zero(t, rec.count("updateDragging"))

	// movement relative to the new anchor flows again
	r.ProcessFrame(frameAt(base.Add(24*time.Millisecond), threeFingers(0.58, 0.5)...))
	require.Equal(t, 1, rec.count("updateDragging"))
	assert.InDelta(t, 0.57, rec.frames[0].Previous.X, 1e-9)
}

func TestReliftKeepsDragAliveOnTwoFingers(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.52, 0.5)...))
	require.Equal(t, StateDragging, r.State())

	two := []types.TouchSample{touch(1, 0.52, 0.5), touch(2, 0.54, 0.5)}
	r.ProcessFrame(frameAt(base.Add(16*time.Millisecond), two...))
	r.ProcessFrame(frameAt(base.Add(24*time.Millisecond), two...))

	assert.Zero(t, rec.count("endDragging"))
	assert.Equal(t, StateDragging, r.State())
}

func TestTwoFingersEndDragWhenReliftDisabled(t *testing.T) {
	rec := &recorder{}
	cfg := testConfig()
	cfg.AllowRelift = false
	r := NewRecognizer(cfg, rec)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.52, 0.5)...))
	require.Equal(t, StateDragging, r.State())

	two := []types.TouchSample{touch(1, 0.52, 0.5), touch(2, 0.54, 0.5)}
	r.ProcessFrame(frameAt(base.Add(16*time.Millisecond), two...))
	r.ProcessFrame(frameAt(base.Add(24*time.Millisecond), two...))

	assert.Equal(t, 1, rec.count("endDragging"))
	assert.Equal(t, StateIdle, r.State())
}

func TestResetCancelsInFlightDrag(t *testing.T) {
	r, rec := newTestRecognizer(t)
	base := time.Now()

	r.ProcessFrame(frameAt(base, threeFingers(0.5, 0.5)...))
	r.ProcessFrame(frameAt(base.Add(8*time.Millisecond), threeFingers(0.52, 0.5)...))
	require.Equal(t, StateDragging, r.State())

	r.Reset()
	assert.Equal(t, 1, rec.count("cancelledDragging"))
	assert.Equal(t, StateIdle, r.State())
}
