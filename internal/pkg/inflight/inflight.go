// Package inflight tags backend fetches with the date range they were issued
// for, so a range change can cancel them and late results can be discarded.
package inflight

import (
	"context"
	"sync"
	"time"
)

// IdleTTL matches the web session lifetime. Sessions untouched for longer
// and without pending fetches are pruned.
const IdleTTL = 24 * time.Hour

const sweepInterval = time.Minute

type entry struct {
	key    string
	cancel context.CancelFunc
}

// Registry tracks in-flight fetches and the current range key per session.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	current   map[string]string
	touched   map[string]time.Time
	fetches   map[string]map[uint64]entry
	nextID    uint64
	now       func() time.Time
	lastSweep time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		current: make(map[string]string),
		touched: make(map[string]time.Time),
		fetches: make(map[string]map[uint64]entry),
		now:     time.Now,
	}
}

// touch records activity for session and prunes idle sessions at most once
// per sweepInterval. Callers hold r.mu.
func (r *Registry) touch(session string) {
	now := r.now()
	r.touched[session] = now
	if now.Sub(r.lastSweep) < sweepInterval {
		return
	}
	r.lastSweep = now
	for s, last := range r.touched {
		if now.Sub(last) < IdleTTL || len(r.fetches[s]) > 0 {
			continue
		}
		delete(r.touched, s)
		delete(r.current, s)
	}
}

// Sessions is the number of sessions with a tracked range.
func (r *Registry) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.current)
}

// Begin registers a fetch for session under key and returns a context that is
// cancelled when the session switches to another key. done must be called
// once the fetch has resolved.
func (r *Registry) Begin(parent context.Context, session, key string) (ctx context.Context, done func()) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	r.touch(session)
	if _, ok := r.current[session]; !ok {
		r.current[session] = key
	}
	r.nextID++
	id := r.nextID
	if r.fetches[session] == nil {
		r.fetches[session] = make(map[uint64]entry)
	}
	r.fetches[session][id] = entry{key: key, cancel: cancel}
	r.mu.Unlock()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.fetches[session], id)
			if len(r.fetches[session]) == 0 {
				delete(r.fetches, session)
			}
			r.mu.Unlock()
			cancel()
		})
	}
}

// Switch makes key the session's current range and cancels every fetch
// issued for a different key. It returns how many were cancelled.
func (r *Registry) Switch(session, key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touch(session)
	r.current[session] = key
	cancelled := 0
	for id, e := range r.fetches[session] {
		if e.key == key {
			continue
		}
		e.cancel()
		delete(r.fetches[session], id)
		cancelled++
	}
	return cancelled
}

// Stale reports whether a result tagged with key no longer matches the
// session's current range.
func (r *Registry) Stale(session, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.current[session]
	return ok && current != key
}

// Pending is the number of registered fetches for session.
func (r *Registry) Pending(session string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fetches[session])
}

// Forget drops all state for session, cancelling its fetches.
func (r *Registry) Forget(session string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.fetches[session] {
		e.cancel()
	}
	delete(r.fetches, session)
	delete(r.current, session)
	delete(r.touched, session)
}

var registry = NewRegistry()

// Default is the process-wide registry shared by the web handlers.
func Default() *Registry {
	return registry
}
