package devices

import (
	"sync"

	"github.com/lakitu/middledrag/pointer"
	"github.com/lakitu/middledrag/utils"
)

// Registry tracks live synthesizers for shutdown cleanup, so a
// SIGTERM can never strand a logically-down middle button.
type Registry struct {
	mu           sync.RWMutex
	synthesizers map[string]*pointer.Synthesizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		synthesizers: make(map[string]*pointer.Synthesizer),
	}
}

// Register adds a synthesizer under a stable name for cleanup
// tracking. Re-registering a name replaces the previous entry.
func (r *Registry) Register(name string, s *pointer.Synthesizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synthesizers[name] = s
}

// Unregister removes a synthesizer from cleanup tracking.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.synthesizers, name)
}

// ReleaseAll force-releases every registered synthesizer. Called from
// the signal path and from server shutdown.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.synthesizers) == 0 {
		return
	}

	for name, s := range r.synthesizers {
		utils.Verbose("force-releasing synthesizer %s", name)
		s.ForceMiddleUp()
	}
	r.synthesizers = make(map[string]*pointer.Synthesizer)
}
