// Package intern provides process-wide string interning with small integer
// keys. Interning is serialized internally; resolution is lock-free-ish via
// a read lock and is safe for concurrent use by many collector/binder
// goroutines at once.
package intern

import "sync"

// Name is an opaque key handed out by a Table. The zero Name is never
// issued by Intern and can be used as an "unset" sentinel.
type Name uint32

// Table is a concurrent string interner. The zero Table is not usable; use
// New.
type Table struct {
	mu      sync.RWMutex
	strings []string
	index   map[string]Name
}

// New creates an empty interning table.
func New() *Table {
	return &Table{
		index: make(map[string]Name, 1024),
	}
}

// Intern returns the key for s, allocating one on first sight. Interning the
// same string always yields the same key; keys are never recycled.
func (t *Table) Intern(s string) Name {
	t.mu.RLock()
	if n, ok := t.index[s]; ok {
		t.mu.RUnlock()
		return n
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	// Re-check under the write lock: another writer may have interned s
	// between the RUnlock above and this Lock.
	if n, ok := t.index[s]; ok {
		return n
	}
	t.strings = append(t.strings, s)
	n := Name(len(t.strings)) // 1-based; 0 is the unset sentinel
	t.index[s] = n
	return n
}

// InternBatch interns every string in ss, preserving order in the result.
func (t *Table) InternBatch(ss []string) []Name {
	out := make([]Name, len(ss))
	for i, s := range ss {
		out[i] = t.Intern(s)
	}
	return out
}

// Resolve returns the string a Name was interned from, if any.
func (t *Table) Resolve(n Name) (string, bool) {
	if n == 0 {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx := int(n) - 1
	if idx < 0 || idx >= len(t.strings) {
		return "", false
	}
	return t.strings[idx], true
}

// WithResolved runs f with the resolved string without copying it out,
// returning f's result. Useful for hot paths that only need to compare or
// hash the text.
func WithResolved[R any](t *Table, n Name, f func(string) R) (R, bool) {
	var zero R
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx := int(n) - 1
	if n == 0 || idx < 0 || idx >= len(t.strings) {
		return zero, false
	}
	return f(t.strings[idx]), true
}

// Len returns the number of distinct interned strings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.strings)
}

// IsEmpty reports whether the table has interned anything yet.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}
