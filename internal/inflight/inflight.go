// Package inflight tracks record identifiers with a mutation already in
// progress, so a second mutation on the same record is rejected instead of
// racing the first.
package inflight

import "sync"

type Guard struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{ids: make(map[string]struct{})}
}

// TryAcquire marks id as in flight. It returns false when a mutation on id
// is already running.
func (g *Guard) TryAcquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.ids[id]; busy {
		return false
	}
	g.ids[id] = struct{}{}
	return true
}

// Release clears id. Safe to call for an id that was never acquired.
func (g *Guard) Release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, id)
}
