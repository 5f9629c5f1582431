package restore

import (
	"sync"
)

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// lockRegistry hands out one mutex per key and forgets it once no caller holds or waits for it.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// acquire blocks until the lock for key is held and returns its release func. Release may be called more than once.
func (r *lockRegistry) acquire(key string) func() {
	r.mu.Lock()
	entry, ok := r.locks[key]
	if !ok {
		entry = &lockEntry{}
		r.locks[key] = entry
	}
	entry.refs++
	r.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			r.mu.Lock()
			defer r.mu.Unlock()
			entry.refs--
			if entry.refs == 0 {
				delete(r.locks, key)
			}
		})
	}
}

func (r *lockRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
