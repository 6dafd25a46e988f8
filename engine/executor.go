package engine

import "sync"

// SerialExecutor runs submitted work on a single goroutine in
// submission order. It is the gesture context: every touch frame is
// processed on it, so the recognizers need no locking of their own.
type SerialExecutor struct {
	work chan func()
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewSerialExecutor starts the worker goroutine. Depth bounds the
// pending-work queue; submissions beyond it are dropped rather than
// blocking the caller, matching the recognizer's tolerance for lost
// frames at sensor rate.
func NewSerialExecutor(depth int) *SerialExecutor {
	e := &SerialExecutor{work: make(chan func(), depth)}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for fn := range e.work {
			fn()
		}
	}()
	return e
}

// Submit enqueues fn. Returns false if the queue is full or the
// executor is closed.
func (e *SerialExecutor) Submit(fn func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	select {
	case e.work <- fn:
		return true
	default:
		return false
	}
}

// Sync submits fn and waits for it to run. Returns false without
// running fn if the executor is closed.
func (e *SerialExecutor) Sync(fn func()) bool {
	done := make(chan struct{})
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	e.work <- func() {
		fn()
		close(done)
	}
	e.mu.Unlock()
	<-done
	return true
}

// Close stops accepting work and waits for pending work to drain.
func (e *SerialExecutor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.work)
	e.mu.Unlock()
	e.wg.Wait()
}
