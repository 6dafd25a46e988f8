package pointer

import (
	"math"
	"sync"
	"time"

	"github.com/lakitu/middledrag/types"
)

// session is one drag lifecycle. A new StartDrag supersedes the live
// session by bumping the synthesizer's generation counter; delayed
// work captured against an older generation compares and no-ops.
type session struct {
	generation   uint64
	origin       types.Point
	target       types.Point
	smoothed     types.Point
	lastEmitted  types.Point
	startTime    time.Time
	lastActivity time.Time
	watchdog     *time.Timer
}

// Options carries the synthesizer's collaborators. Sink is required;
// Locator defaults to a fixed origin and Clock to time.Now.
type Options struct {
	Sink    EventSink
	Locator PointerLocator
	Display types.ScreenRect
	Clock   func() time.Time
}

// Synthesizer owns the drag/click lifecycle. All exported methods are
// safe for concurrent use: a single mutex serializes every
// read-then-write of session state, which together with the
// generation counter makes supersession and watchdog-abort race-free.
type Synthesizer struct {
	mu      sync.Mutex
	cfg     Config
	sink    EventSink
	locator PointerLocator
	display types.ScreenRect
	clock   func() time.Time

	generation uint64
	sess       *session

	lastClick     time.Time
	emittedClicks int
}

type originLocator struct{}

func (originLocator) Location() types.Point { return types.Point{} }

// FixedOriginLocator returns the fallback locator that always reports
// the display origin.
func FixedOriginLocator() PointerLocator { return originLocator{} }

// NewSynthesizer builds a synthesizer from cfg and opts.
func NewSynthesizer(cfg Config, opts Options) *Synthesizer {
	locator := opts.Locator
	if locator == nil {
		locator = originLocator{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Synthesizer{
		cfg:     cfg,
		sink:    opts.Sink,
		locator: locator,
		display: opts.Display,
		clock:   clock,
	}
}

// SetConfig swaps the tunables used by subsequent operations.
func (s *Synthesizer) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// SetDisplay updates the bounds that emitted positions are clamped to.
func (s *Synthesizer) SetDisplay(display types.ScreenRect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display = display
}

// Display returns the current clamping bounds.
func (s *Synthesizer) Display() types.ScreenRect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// Active reports whether a drag session is live.
func (s *Synthesizer) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess != nil
}

// Generation returns the current session generation counter.
func (s *Synthesizer) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// EmittedClicks reports how many standalone clicks have been emitted.
func (s *Synthesizer) EmittedClicks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emittedClicks
}

// StartDrag begins a new drag session at origin and emits a
// button-down there. A live session is superseded, not an error: its
// generation is abandoned so its watchdog aborts on mismatch, and no
// extra button-up is emitted for it.
func (s *Synthesizer) StartDrag(origin types.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess != nil && s.sess.watchdog != nil {
		s.sess.watchdog.Stop()
	}

	s.generation++
	now := s.clock()
	seeded := s.display.Clamp(origin)
	sess := &session{
		generation:   s.generation,
		origin:       seeded,
		target:       seeded,
		smoothed:     seeded,
		lastEmitted:  seeded,
		startTime:    now,
		lastActivity: now,
	}
	s.sess = sess
	s.sink.MiddleDown(seeded)
	s.armWatchdog(sess, s.cfg.StuckDragTimeout)
}

// UpdateDrag advances the live session by a screen-space delta. No-op
// without a session. The accumulated target is clamped before
// smoothing so an overshoot past the display edge never builds a dead
// zone: reversing direction moves the position immediately.
func (s *Synthesizer) UpdateDrag(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sess
	if sess == nil {
		return
	}

	sess.target = s.display.Clamp(types.Point{
		X: sess.target.X + dx,
		Y: sess.target.Y + dy,
	})

	factor := s.cfg.SmoothingFactor
	sess.smoothed.X += factor * (sess.target.X - sess.smoothed.X)
	sess.smoothed.Y += factor * (sess.target.Y - sess.smoothed.Y)
	sess.smoothed = s.display.Clamp(sess.smoothed)

	if distance(sess.smoothed, sess.lastEmitted) > s.cfg.MinMovement {
		s.sink.MiddleMove(sess.smoothed)
		sess.lastEmitted = sess.smoothed
	}
	sess.lastActivity = s.clock()
}

// EndDrag releases the live session with a button-up at the last
// emitted position. No-op without a session.
func (s *Synthesizer) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

// CancelDrag releases the live session exactly like EndDrag, so a
// cancelled drag can never leave the button logically down. No-op
// without a session.
func (s *Synthesizer) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

// ForceMiddleUp is the last-resort release: it emits a button-up
// whether or not a session is tracked, and clears any session. Always
// safe to call.
func (s *Synthesizer) ForceMiddleUp() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess != nil {
		s.releaseLocked()
		return
	}
	s.sink.MiddleUp(s.display.Clamp(s.locator.Location()))
}

// PerformClick emits a button-down/button-up pair at the current
// pointer position, unless a drag is active or a click was emitted
// within the deduplication window.
func (s *Synthesizer) PerformClick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess != nil {
		return
	}
	now := s.clock()
	if !s.lastClick.IsZero() && now.Sub(s.lastClick) < s.cfg.ClickDedupWindow {
		return
	}
	s.lastClick = now
	s.emittedClicks++

	p := s.display.Clamp(s.locator.Location())
	s.sink.MiddleDown(p)
	if s.cfg.ClickHoldDelay <= 0 {
		s.sink.MiddleUp(p)
		return
	}
	time.AfterFunc(s.cfg.ClickHoldDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sess != nil {
			// A drag claimed the button inside the hold window; its
			// release path owns the button-up now.
			return
		}
		s.sink.MiddleUp(p)
	})
}

// releaseLocked ends the live session. Caller holds s.mu.
func (s *Synthesizer) releaseLocked() {
	sess := s.sess
	if sess == nil {
		return
	}
	if sess.watchdog != nil {
		sess.watchdog.Stop()
	}
	s.sess = nil
	s.sink.MiddleUp(sess.lastEmitted)
}

// armWatchdog schedules the stuck-session check. The callback
// captures the session's generation; if a newer session has taken
// over by the time it fires, the comparison fails and it no-ops.
func (s *Synthesizer) armWatchdog(sess *session, d time.Duration) {
	gen := sess.generation
	sess.watchdog = time.AfterFunc(d, func() {
		s.watchdogCheck(gen)
	})
}

func (s *Synthesizer) watchdogCheck(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sess
	if sess == nil || sess.generation != gen {
		return
	}
	idle := s.clock().Sub(sess.lastActivity)
	if idle >= s.cfg.StuckDragTimeout {
		s.releaseLocked()
		return
	}
	// Activity arrived since arming; check again once the remaining
	// window elapses.
	s.armWatchdog(sess, s.cfg.StuckDragTimeout-idle)
}

func distance(a, b types.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
