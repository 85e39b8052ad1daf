package concurrency

import (
	"sync"
)

// LockManager hands out one mutex per key, created on first use
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// TryAcquire takes the lock for key without blocking.
// ok is false when someone else holds it; otherwise release must be called.
// Release drops the key, so keys taken this way must not also go through
// GetLock.
func (lm *LockManager) TryAcquire(key string) (release func(), ok bool) {
	for {
		mu := lm.GetLock(key)
		if !mu.TryLock() {
			return nil, false
		}
		// A holder may have released and dropped this mutex after we loaded it.
		if cur, found := lm.locks.Load(key); found && cur == mu {
			return func() {
				lm.locks.CompareAndDelete(key, mu)
				mu.Unlock()
			}, true
		}
		mu.Unlock()
	}
}

// Len reports how many keys currently have a mutex
func (lm *LockManager) Len() int {
	n := 0
	lm.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
