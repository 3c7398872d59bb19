package utils

import "sync"

// UserLocker serializes ledger mutations per user. The classification
// call is an async suspension point, so two messages from the same user
// can otherwise interleave their read-modify-write of the record.
type UserLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUserLocker() *UserLocker {
	return &UserLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

func (ul *UserLocker) get(key string) *sync.Mutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	l, ok := ul.locks[key]
	if !ok {
		l = &sync.Mutex{}
		ul.locks[key] = l
	}
	return l
}

// Lock acquires the mutex for the given user key, creating it on first use.
func (ul *UserLocker) Lock(key string) {
	ul.get(key).Lock()
}

// Unlock releases the mutex for the given user key.
func (ul *UserLocker) Unlock(key string) {
	ul.get(key).Unlock()
}
