package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	c := NewCache()

	c.Put("a", []byte("1"))
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	c.Put("a", []byte("2"))
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("2"), v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestEmptyValue(t *testing.T) {
	c := NewCache()

	c.Put("empty", nil)
	v, ok := c.Get("empty")
	require.True(t, ok)
	assert.NotNil(t, v)
	assert.Len(t, v, 0)
}

func TestDeleteLeavesTombstone(t *testing.T) {
	c := NewCache()

	tests := []struct {
		name    string
		setup   func()
		key     string
		existed bool
	}{
		{"present key", func() { c.Put("k1", []byte("v")) }, "k1", true},
		{"unknown key", func() {}, "k2", false},
		{"already deleted", func() { c.Put("k3", []byte("v")); c.Delete("k3") }, "k3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			assert.Equal(t, tt.existed, c.Delete(tt.key))

			_, found := c.Get(tt.key)
			assert.False(t, found)

			e, known := c.Lookup(tt.key)
			assert.True(t, known, "delete must leave a tombstone")
			assert.False(t, e.Present)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	c := NewCache()
	_, known := c.Lookup("never")
	assert.False(t, known)
}

func TestPutAfterDelete(t *testing.T) {
	c := NewCache()
	c.Put("k", []byte("old"))
	c.Delete("k")
	c.Put("k", []byte("new"))

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), v)
}

func TestValuesAreCopied(t *testing.T) {
	c := NewCache()

	in := []byte("abc")
	c.Put("k", in)
	in[0] = 'x'

	out, _ := c.Get("k")
	assert.Equal(t, []byte("abc"), out)

	out[1] = 'y'
	again, _ := c.Get("k")
	assert.Equal(t, []byte("abc"), again)

	snap := c.Scan()
	snap["k"][2] = 'z'
	again, _ = c.Get("k")
	assert.Equal(t, []byte("abc"), again)
}

func TestScan(t *testing.T) {
	c := NewCache()
	c.Put("x", []byte("y"))
	c.Put("z", []byte("w"))
	c.Put("gone", []byte("1"))
	c.Delete("gone")

	snap := c.Scan()
	assert.Equal(t, map[string][]byte{"x": []byte("y"), "z": []byte("w")}, snap)

	// the snapshot is not a live view
	c.Put("late", []byte("1"))
	assert.NotContains(t, snap, "late")

	assert.Equal(t, Stats{Present: 3, Tombstones: 1}, c.Stats())
}

func TestConcurrentAccess(t *testing.T) {
	c := NewCache()

	const workers = 8
	const perWorker = 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("w%d-%d", w, i)
				c.Put(key, []byte(key))
				if i%2 == 0 {
					c.Delete(key)
				}
				_ = c.Scan()
			}
		}(w)
	}
	wg.Wait()

	snap := c.Scan()
	assert.Len(t, snap, workers*perWorker/2)
	for k, v := range snap {
		assert.Equal(t, k, string(v))
	}
}

func TestPutIfAbsent(t *testing.T) {
	c := NewCache()

	assert.True(t, c.PutIfAbsent("k", []byte("durable")))
	v, _ := c.Get("k")
	assert.Equal(t, []byte("durable"), v)

	c.Put("k", []byte("newer"))
	assert.False(t, c.PutIfAbsent("k", []byte("stale")))
	v, _ = c.Get("k")
	assert.Equal(t, []byte("newer"), v)

	c.Delete("k")
	assert.False(t, c.PutIfAbsent("k", []byte("stale")), "a tombstone must not be back-filled")
	_, found := c.Get("k")
	assert.False(t, found)
}
