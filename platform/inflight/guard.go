// Package inflight rejects re-entrant submissions of the same action while
// one is still running. Unlike singleflight, the second caller does not share
// the first caller's result; it is refused.
package inflight

import "sync"

// Guard tracks keys that currently have an action in progress.
type Guard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// New returns an empty Guard.
func New() *Guard {
	return &Guard{keys: make(map[string]struct{})}
}

// TryAcquire marks key as in progress. It reports false when key is already
// held. The returned release func is idempotent.
func (g *Guard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.keys[key]; busy {
		return func() {}, false
	}
	g.keys[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.keys, key)
			g.mu.Unlock()
		})
	}, true
}

// Busy reports whether key is currently held.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.keys[key]
	return busy
}
