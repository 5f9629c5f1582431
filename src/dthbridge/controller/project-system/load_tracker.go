package projectsystem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// loadTracker records which initialized projects have not yet finished loading.
type loadTracker struct {
	mu      sync.Mutex
	waiting map[int]struct{}
	changed chan struct{}
}

func newLoadTracker() *loadTracker {
	return &loadTracker{
		waiting: make(map[int]struct{}),
		changed: make(chan struct{}),
	}
}

func (t *loadTracker) expect(contextID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.waiting[contextID] = struct{}{}
	t.notify()
}

func (t *loadTracker) loaded(contextID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.waiting[contextID]; !ok {
		return
	}
	delete(t.waiting, contextID)
	t.notify()
}

func (t *loadTracker) pending() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int, 0, len(t.waiting))
	for id := range t.waiting {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// wait blocks until no project is waiting, the timeout elapses or ctx is done.
func (t *loadTracker) wait(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		t.mu.Lock()
		if len(t.waiting) == 0 {
			t.mu.Unlock()
			return nil
		}
		changed := t.changed
		t.mu.Unlock()

		select {
		case <-changed:
		case <-timer.C:
			return fmt.Errorf("timed out after %v", timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// notify must be called with mu held.
func (t *loadTracker) notify() {
	close(t.changed)
	t.changed = make(chan struct{})
}
