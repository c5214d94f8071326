// Package arena implements bump-style, id-indexed allocation regions.
// Handed-out IDs remain valid for the lifetime of the Arena; memory is only
// reclaimed when the whole Arena is dropped. Append is safe from many
// goroutines at once (collect/bind run one goroutine per compilation unit).
package arena

import "sync"

// ID is a handle into an Arena[T], stable for the arena's lifetime. The zero
// ID is reserved and never returned by Alloc.
type ID[T any] uint32

// Arena is a typed, append-only, thread-safe allocation region.
type Arena[T any] struct {
	mu     sync.RWMutex
	values []T
}

// New creates an empty arena for T.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc appends value and returns a stable ID for it.
func (a *Arena[T]) Alloc(value T) ID[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values = append(a.values, value)
	return ID[T](len(a.values)) // 1-based; 0 is reserved
}

// Get returns a copy of the value stored at id.
func (a *Arena[T]) Get(id ID[T]) (T, bool) {
	var zero T
	a.mu.RLock()
	defer a.mu.RUnlock()
	idx := int(id) - 1
	if id == 0 || idx < 0 || idx >= len(a.values) {
		return zero, false
	}
	return a.values[idx], true
}

// Mutate applies f to the value at id in place and reports whether id was
// valid. Used for the handful of write-once fields (type_of, scope,
// block_id) that are set after the value was first allocated.
func (a *Arena[T]) Mutate(id ID[T], f func(*T)) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := int(id) - 1
	if id == 0 || idx < 0 || idx >= len(a.values) {
		return false
	}
	f(&a.values[idx])
	return true
}

// Len returns the number of values allocated so far.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.values)
}

// Each calls f for every id/value pair in allocation order. f must not call
// back into the arena.
func (a *Arena[T]) Each(f func(ID[T], T)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i, v := range a.values {
		f(ID[T](i+1), v)
	}
}

// Vec is an append-only, thread-safe vector arena for variable-sized
// collections that don't need per-element stable ids (e.g. a node's
// children list).
type Vec[T any] struct {
	mu     sync.Mutex
	values []T
}

// NewVec creates an empty vector arena.
func NewVec[T any]() *Vec[T] {
	return &Vec[T]{}
}

// Append adds values and returns the new length.
func (v *Vec[T]) Append(values ...T) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values = append(v.values, values...)
	return len(v.values)
}

// Snapshot returns a copy of the current contents.
func (v *Vec[T]) Snapshot() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]T, len(v.values))
	copy(out, v.values)
	return out
}
