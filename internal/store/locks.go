// internal/store/locks.go
//
// Process-local session locks for the memory store.

package store

import (
	"sync"

	"github.com/zyedidia/generic/mapset"
)

// keyedLocks hands out one non-blocking lock per session id.
type keyedLocks struct {
	mu   sync.Mutex
	held mapset.Set[string]
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{held: mapset.New[string]()}
}

// TryLock acquires id and returns its release func, or nil if id is held.
// Calling release more than once is harmless.
func (k *keyedLocks) TryLock(id string) func() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.held.Has(id) {
		return nil
	}
	k.held.Put(id)
	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Lock()
			k.held.Remove(id)
			k.mu.Unlock()
		})
	}
}
