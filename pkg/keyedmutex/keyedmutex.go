// Package keyedmutex serializes operations that share a key, such as
// payments against the same loan. Balance and installment updates are
// read-modify-write, so two concurrent payments on one loan must not
// interleave.
package keyedmutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex hands out one mutex per key. Entries are dropped once the last
// holder unlocks, so the map does not grow with the keyspace.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[uint64]*entry
}

func New() *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[uint64]*entry),
	}
}

func (k *KeyedMutex) Lock(key uint64) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

func (k *KeyedMutex) Unlock(key uint64) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("keyedmutex: unlock of unlocked key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
