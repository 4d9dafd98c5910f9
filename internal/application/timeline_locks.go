package application

import (
	"sort"
	"sync"
)

// timelineLocks serializes mutations that touch the same resource-day
// timeline. Validation reads a timeline and decides, persistence writes to it;
// holding the per-key lock across both steps keeps concurrent requests from
// double-booking a resource between check and write.
type timelineLocks struct {
	mu    sync.Mutex
	locks map[string]*timelineLock
}

type timelineLock struct {
	mu   sync.Mutex
	refs int
}

func newTimelineLocks() *timelineLocks {
	return &timelineLocks{locks: make(map[string]*timelineLock)}
}

// Acquire locks every key and returns a release function. Keys are
// deduplicated and locked in sorted order so overlapping acquisitions cannot
// deadlock.
func (t *timelineLocks) Acquire(keys []string) func() {
	if t == nil || len(keys) == 0 {
		return func() {}
	}

	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	sort.Strings(unique)

	held := make([]*timelineLock, 0, len(unique))
	for _, key := range unique {
		t.mu.Lock()
		lock, ok := t.locks[key]
		if !ok {
			lock = &timelineLock{}
			t.locks[key] = lock
		}
		lock.refs++
		t.mu.Unlock()

		lock.mu.Lock()
		held = append(held, lock)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
		}
		t.mu.Lock()
		for _, key := range unique {
			lock, ok := t.locks[key]
			if !ok {
				continue
			}
			lock.refs--
			if lock.refs <= 0 {
				delete(t.locks, key)
			}
		}
		t.mu.Unlock()
	}
}
