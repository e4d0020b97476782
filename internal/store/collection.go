package store

import (
	"sync"
)

// Key identifies a record: its business key when the resource has one, and
// its backend id.
type Key struct {
	Number string
	ID     string
}

// Matches reports whether k names the record, by business key or by id.
func (k Key) Matches(s string) bool {
	return s != "" && (k.Number == s || k.ID == s)
}

func (k Key) String() string {
	if k.Number != "" {
		return k.Number
	}
	return k.ID
}

// Collection is the cached copy of one backend resource with its loading
// state. Reads return shallow copies; every write is journaled.
type Collection[T any] struct {
	name    string
	keyOf   func(T) Key
	journal *Journal

	mu      sync.RWMutex
	items   []T
	loaded  bool
	loading bool
	err     string
}

func NewCollection[T any](name string, journal *Journal, keyOf func(T) Key) *Collection[T] {
	return &Collection[T]{name: name, keyOf: keyOf, journal: journal, items: []T{}}
}

func (c *Collection[T]) Name() string { return c.name }

// Items returns a copy of the cached records.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err is the message of the last failed load, or "".
func (c *Collection[T]) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Find returns the first record key names.
func (c *Collection[T]) Find(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.keyOf(it).Matches(key) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// KeyOf returns the key of item.
func (c *Collection[T]) KeyOf(item T) Key { return c.keyOf(item) }

// Snapshot captures the collection for a later Restore.
type Snapshot[T any] struct {
	items  []T
	loaded bool
	err    string
}

func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot[T]{items: clone(c.items), loaded: c.loaded, err: c.err}
}

// Restore puts back a snapshot; reason is journaled.
func (c *Collection[T]) Restore(s Snapshot[T], reason string) {
	c.mu.Lock()
	c.items = clone(s.items)
	c.loaded = s.loaded
	c.err = s.err
	n := len(c.items)
	c.mu.Unlock()
	c.record(ActionRestore, "", n, reason)
}

// Replace swaps in items wholesale.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	c.items = clone(items)
	n := len(c.items)
	c.mu.Unlock()
	c.record(ActionReplace, "", n, "")
}

// Insert appends item.
func (c *Collection[T]) Insert(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
	c.record(ActionInsert, c.keyOf(item).String(), 1, "")
}

// Update replaces every record key names with fn's result and returns how
// many records changed.
func (c *Collection[T]) Update(key string, fn func(T) T) int {
	c.mu.Lock()
	n := 0
	for i, it := range c.items {
		if c.keyOf(it).Matches(key) {
			c.items[i] = fn(it)
			n++
		}
	}
	c.mu.Unlock()
	if n > 0 {
		c.record(ActionUpdate, key, n, "")
	}
	return n
}

// Remove drops every record key names and returns how many were dropped.
func (c *Collection[T]) Remove(key string) int {
	c.mu.Lock()
	kept := c.items[:0:0]
	for _, it := range c.items {
		if !c.keyOf(it).Matches(key) {
			kept = append(kept, it)
		}
	}
	n := len(c.items) - len(kept)
	c.items = kept
	c.mu.Unlock()
	if n > 0 {
		c.record(ActionRemove, key, n, "")
	}
	return n
}

// Adjust runs fn over the whole collection under the write lock, for
// derived changes such as stock movements. detail describes the cause.
func (c *Collection[T]) Adjust(detail string, fn func([]T) []T) {
	c.mu.Lock()
	c.items = clone(fn(clone(c.items)))
	n := len(c.items)
	c.mu.Unlock()
	c.record(ActionAdjust, "", n, detail)
}

// BeginLoad marks a fetch in flight.
func (c *Collection[T]) BeginLoad() {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	c.record(ActionLoadStart, "", 0, "")
}

// FinishLoad stores fetched records and marks the resource loaded.
func (c *Collection[T]) FinishLoad(items []T) {
	c.mu.Lock()
	c.items = clone(items)
	c.loaded = true
	c.loading = false
	c.err = ""
	n := len(c.items)
	c.mu.Unlock()
	c.record(ActionLoadDone, "", n, "")
}

// FailLoad records a failed fetch. Cached records are kept.
func (c *Collection[T]) FailLoad(msg string) {
	c.mu.Lock()
	c.loading = false
	c.err = msg
	c.mu.Unlock()
	c.record(ActionLoadFail, "", 0, msg)
}

// MarkStale clears the loaded flag so the next load fetches again.
func (c *Collection[T]) MarkStale() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
	c.record(ActionInvalidate, "", 0, "")
}

func (c *Collection[T]) record(kind ActionKind, key string, count int, detail string) {
	if c.journal == nil {
		return
	}
	c.journal.record(Action{Resource: c.name, Kind: kind, Key: key, Count: count, Detail: detail})
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
