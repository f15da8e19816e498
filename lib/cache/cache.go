package cache

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Entry is the cached state of a key. Present is false for a tombstone, which
// records that the key was deleted and is distinct from a key that was never seen.
type Entry struct {
	Value   []byte
	Present bool
}

// Stats holds diagnostic counters of a cache.
type Stats struct {
	Present    int `json:"present" yaml:"present"`
	Tombstones int `json:"tombstones" yaml:"tombstones"`
}

// ICache is a process-local, thread-safe key to Entry mapping. All operations are
// linearizable with respect to each other. Values passed in and handed out are
// copied, so callers never share memory with the cache.
type ICache interface {
	// Put stores value under key, replacing any previous entry or tombstone.
	Put(key string, value []byte)
	// PutIfAbsent stores value only if key has neither a value nor a tombstone.
	PutIfAbsent(key string, value []byte) (stored bool)
	// Delete tombstones key and reports whether a present value existed before.
	Delete(key string) (existed bool)
	// Get returns the value of a present entry. Tombstones and unknown keys both report found=false.
	Get(key string) (value []byte, found bool)
	// Lookup returns the raw entry. known is false only if the key was never seen.
	Lookup(key string) (entry Entry, known bool)
	// Scan returns a point-in-time copy of all present entries.
	Scan() map[string][]byte
	// Stats counts present entries and tombstones.
	Stats() Stats
}

// --------------------------------------------------------------------------
// Implementation
// --------------------------------------------------------------------------

// cacheImpl keeps entries in an xsync.MapOf, which makes single-key operations
// atomic. Point operations hold scanMu shared and Scan holds it exclusively, so a
// snapshot never interleaves with a write.
type cacheImpl struct {
	scanMu  sync.RWMutex
	entries *xsync.MapOf[string, Entry]
}

// NewCache creates an empty cache.
func NewCache() ICache {
	return &cacheImpl{
		entries: xsync.NewMapOf[string, Entry](),
	}
}

// Put stores a copy of value.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cacheImpl) Put(key string, value []byte) {
	e := Entry{Value: clone(value), Present: true}

	c.scanMu.RLock()
	defer c.scanMu.RUnlock()
	c.entries.Store(key, e)
}

// PutIfAbsent is used to back-fill values read from the durable store. It never
// overwrites a newer write or a tombstone that raced with the read.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cacheImpl) PutIfAbsent(key string, value []byte) bool {
	e := Entry{Value: clone(value), Present: true}

	c.scanMu.RLock()
	defer c.scanMu.RUnlock()
	_, loaded := c.entries.LoadOrStore(key, e)
	return !loaded
}

// Delete replaces the entry with a tombstone. The tombstone is kept so that a
// later read does not fall back to a stale durable row.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cacheImpl) Delete(key string) (existed bool) {
	c.scanMu.RLock()
	defer c.scanMu.RUnlock()

	c.entries.Compute(key, func(old Entry, loaded bool) (Entry, bool) {
		existed = loaded && old.Present
		return Entry{}, false
	})
	return existed
}

// Get returns a copy of the value if the key is present.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cacheImpl) Get(key string) ([]byte, bool) {
	e, ok := c.Lookup(key)
	if !ok || !e.Present {
		return nil, false
	}
	return e.Value, true
}

// Lookup returns a copy of the entry for key.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cacheImpl) Lookup(key string) (Entry, bool) {
	c.scanMu.RLock()
	e, ok := c.entries.Load(key)
	c.scanMu.RUnlock()

	if !ok {
		return Entry{}, false
	}
	if e.Present {
		e.Value = clone(e.Value)
	}
	return e, true
}

// Scan copies every present entry. It is O(n) and meant for diagnostics and bulk
// reads, the snapshot may be stale by the time the caller looks at it.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
// It blocks writers for the duration of the copy.
func (c *cacheImpl) Scan() map[string][]byte {
	c.scanMu.Lock()
	defer c.scanMu.Unlock()

	snapshot := make(map[string][]byte, c.entries.Size())
	c.entries.Range(func(key string, e Entry) bool {
		if e.Present {
			snapshot[key] = clone(e.Value)
		}
		return true
	})
	return snapshot
}

// Stats counts entries without copying values.
func (c *cacheImpl) Stats() Stats {
	c.scanMu.Lock()
	defer c.scanMu.Unlock()

	var s Stats
	c.entries.Range(func(_ string, e Entry) bool {
		if e.Present {
			s.Present++
		} else {
			s.Tombstones++
		}
		return true
	})
	return s
}

// clone copies b and maps nil to an empty, non-nil slice so that an empty value
// stays distinguishable from a missing one.
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
