// Package engine wires frame sources to the gesture recognizer and
// the pointer synthesizer. Each registered source gets its own
// recognizer; all of them share the one synthesizer, whose session
// supersession rules arbitrate overlapping gestures.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lakitu/middledrag/config"
	"github.com/lakitu/middledrag/gesture"
	"github.com/lakitu/middledrag/pointer"
	"github.com/lakitu/middledrag/types"
)

// maxSources bounds the per-source recognizer table. Evicting a
// source cancels its in-flight gesture, so an abandoned remote source
// can never pin a held button.
const maxSources = 16

// Predicates are the external boolean gates consulted before a frame
// reaches a recognizer. A false result is treated like a frame with
// no valid fingers. Nil funcs pass.
type Predicates struct {
	PointerOverDesktop func() bool
	WindowMeetsMinSize func() bool
}

func (p Predicates) allow() bool {
	if p.PointerOverDesktop != nil && !p.PointerOverDesktop() {
		return false
	}
	if p.WindowMeetsMinSize != nil && !p.WindowMeetsMinSize() {
		return false
	}
	return true
}

// source is one registered frame source and its recognizer.
type source struct {
	id         string
	name       string
	recognizer *gesture.Recognizer
	frames     int
	lastFrame  time.Time
}

// SourceInfo is the externally visible state of a registered source.
type SourceInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	State     string    `json:"state"`
	Frames    int       `json:"frames"`
	LastFrame time.Time `json:"lastFrame,omitempty"`
}

// Options carries the engine's collaborators.
type Options struct {
	Sink       pointer.EventSink
	Locator    pointer.PointerLocator
	Display    types.ScreenRect
	Predicates Predicates
	Clock      func() time.Time
}

// Engine is the coordinator: it owns the gesture execution context,
// the per-source recognizers and the shared synthesizer.
type Engine struct {
	mu      sync.Mutex
	cfg     config.Config
	synth   *pointer.Synthesizer
	locator pointer.PointerLocator
	display types.ScreenRect
	preds   Predicates
	clock   func() time.Time

	exec    *SerialExecutor
	sources *lru.Cache[string, *source]

	// notify receives every recognizer event; nil means no subscriber.
	notify func(types.GestureEvent)
}

// New builds an engine from a clamped config and options.
func New(cfg config.Config, opts Options) (*Engine, error) {
	cfg = cfg.Clamp()
	locator := opts.Locator
	if locator == nil {
		locator = pointer.FixedOriginLocator()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	e := &Engine{
		cfg:     cfg,
		locator: locator,
		display: opts.Display,
		preds:   opts.Predicates,
		clock:   clock,
		exec:    NewSerialExecutor(256),
	}
	e.synth = pointer.NewSynthesizer(pointerConfig(cfg), pointer.Options{
		Sink:    opts.Sink,
		Locator: locator,
		Display: opts.Display,
		Clock:   clock,
	})

	cache, err := lru.NewWithEvict(maxSources, func(_ string, src *source) {
		// Runs on the gesture context (all cache mutation does), so
		// the recognizer's cancel path is race-free.
		src.recognizer.Reset()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create source cache: %w", err)
	}
	e.sources = cache
	return e, nil
}

// Synthesizer exposes the shared synthesizer for registry cleanup and
// the manual click/release commands.
func (e *Engine) Synthesizer() *pointer.Synthesizer {
	return e.synth
}

// SetNotify installs the gesture event subscriber. Events are
// delivered from the gesture context and must be handled without
// blocking.
func (e *Engine) SetNotify(fn func(types.GestureEvent)) {
	e.exec.Sync(func() {
		e.notify = fn
	})
}

// RegisterSource mints a registration ID for a frame source and
// attaches a fresh recognizer to it.
func (e *Engine) RegisterSource(name string) string {
	id := uuid.NewString()
	e.exec.Sync(func() {
		src := &source{id: id, name: name}
		src.recognizer = gesture.NewRecognizer(gestureConfig(e.snapshot()), &sourceListener{engine: e, source: src})
		e.sources.Add(id, src)
	})
	return id
}

// UnregisterSource detaches a source, cancelling any gesture it had
// in flight. Reports whether the ID was known.
func (e *Engine) UnregisterSource(id string) bool {
	removed := false
	e.exec.Sync(func() {
		removed = e.sources.Remove(id)
	})
	return removed
}

// Sources lists the registered sources.
func (e *Engine) Sources() []SourceInfo {
	var infos []SourceInfo
	e.exec.Sync(func() {
		for _, id := range e.sources.Keys() {
			if src, ok := e.sources.Peek(id); ok {
				infos = append(infos, SourceInfo{
					ID:        src.id,
					Name:      src.name,
					State:     src.recognizer.State().String(),
					Frames:    src.frames,
					LastFrame: src.lastFrame,
				})
			}
		}
	})
	return infos
}

// SubmitFrame queues one touch frame for the given source on the
// gesture context. Unknown source IDs are reported as an error;
// queue-full drops are silent, matching the lossy nature of sensor
// delivery.
func (e *Engine) SubmitFrame(sourceID string, frame types.TouchFrame) error {
	known := false
	e.exec.Sync(func() {
		known = e.sources.Contains(sourceID)
	})
	if !known {
		return fmt.Errorf("unknown source: %s", sourceID)
	}
	e.exec.Submit(func() {
		e.processFrame(sourceID, frame)
	})
	return nil
}

// SubmitFrames queues a batch of frames in order.
func (e *Engine) SubmitFrames(sourceID string, frames []types.TouchFrame) error {
	known := false
	e.exec.Sync(func() {
		known = e.sources.Contains(sourceID)
	})
	if !known {
		return fmt.Errorf("unknown source: %s", sourceID)
	}
	e.exec.Submit(func() {
		for _, frame := range frames {
			e.processFrame(sourceID, frame)
		}
	})
	return nil
}

// processFrame runs on the gesture context.
func (e *Engine) processFrame(sourceID string, frame types.TouchFrame) {
	src, ok := e.sources.Get(sourceID)
	if !ok {
		return
	}
	if frame.Timestamp.IsZero() {
		frame.Timestamp = e.clock()
	}
	if !e.preds.allow() {
		// Gate closed: the recognizer sees no valid fingers, ending
		// any gesture through the normal stability path.
		frame.Samples = nil
	}
	src.frames++
	src.lastFrame = frame.Timestamp
	src.recognizer.ProcessFrame(frame)
}

// Config returns the current clamped configuration.
func (e *Engine) Config() config.Config {
	return e.snapshot()
}

// SetConfig clamps and applies a new configuration to the
// synthesizer and every recognizer.
func (e *Engine) SetConfig(cfg config.Config) config.Config {
	cfg = cfg.Clamp()
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()

	e.synth.SetConfig(pointerConfig(cfg))
	gcfg := gestureConfig(cfg)
	e.exec.Sync(func() {
		for _, id := range e.sources.Keys() {
			if src, ok := e.sources.Peek(id); ok {
				src.recognizer.SetConfig(gcfg)
			}
		}
	})
	return cfg
}

// SetDisplay updates the active display bounds used for clamping and
// delta scaling.
func (e *Engine) SetDisplay(display types.ScreenRect) {
	e.mu.Lock()
	e.display = display
	e.mu.Unlock()
	e.synth.SetDisplay(display)
}

// Click emits a deduplicated standalone middle click.
func (e *Engine) Click() {
	e.synth.PerformClick()
}

// ForceRelease is the emergency button-up primitive.
func (e *Engine) ForceRelease() {
	e.synth.ForceMiddleUp()
}

// Close cancels all in-flight gestures, releases the button if held,
// and stops the gesture context.
func (e *Engine) Close() {
	e.exec.Sync(func() {
		e.sources.Purge()
	})
	e.exec.Close()
	e.synth.CancelDrag()
}

func (e *Engine) snapshot() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) displayBounds() types.ScreenRect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

func (e *Engine) emit(ev types.GestureEvent) {
	if e.notify != nil {
		e.notify(ev)
	}
}
