package testing

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/rKV/lib/durable"
)

// StoreFactory is a function that creates a new, empty durable store
type StoreFactory func(t *testing.T) durable.IDurableStore

// RunDurableStoreTests runs the conformance suite for an IDurableStore implementation.
func RunDurableStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("InitIdempotent", func(t *testing.T) {
			testInitIdempotent(t, factory(t))
		})

		t.Run("InvalidCollection", func(t *testing.T) {
			testInvalidCollection(t, factory(t))
		})

		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory(t))
		})

		t.Run("Upsert", func(t *testing.T) {
			testUpsert(t, factory(t))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory(t))
		})

		t.Run("Collections", func(t *testing.T) {
			testCollections(t, factory(t))
		})

		t.Run("Concurrent", func(t *testing.T) {
			testConcurrent(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

const collection = "kv_store"

func mustInit(t *testing.T, store durable.IDurableStore, name string) {
	t.Helper()
	if err := store.Init(context.Background(), name); err != nil {
		t.Fatalf("Init(%q) failed: %v", name, err)
	}
}

func expectValue(t *testing.T, store durable.IDurableStore, coll, key string, want []byte) {
	t.Helper()
	got, found, err := store.Get(context.Background(), coll, key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	if want == nil {
		if found {
			t.Errorf("Get(%q) found %q, expected no row", key, got)
		}
		return
	}
	if !found {
		t.Fatalf("Get(%q) found nothing, expected %q", key, want)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get(%q) = %q, want %q", key, got, want)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInitIdempotent(t *testing.T, store durable.IDurableStore) {
	defer store.Close()
	mustInit(t, store, collection)
	if err := store.Put(context.Background(), collection, "k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	mustInit(t, store, collection)
	expectValue(t, store, collection, "k", []byte("v"))
}

func testInvalidCollection(t *testing.T, store durable.IDurableStore) {
	defer store.Close()
	for _, name := range []string{"", "1abc", "kv; DROP TABLE users", "a-b"} {
		if err := store.Init(context.Background(), name); err == nil {
			t.Errorf("Init(%q) should fail", name)
		}
	}
}

func testPutGet(t *testing.T, store durable.IDurableStore) {
	defer store.Close()
	mustInit(t, store, collection)
	ctx := context.Background()

	tests := []struct {
		key   string
		value []byte
	}{
		{"a", []byte("1")},
		{"empty", []byte{}},
		{"binary", []byte{0, 1, 2, 255}},
		{"unicode-ключ", []byte("значение")},
	}
	for _, tt := range tests {
		if err := store.Put(ctx, collection, tt.key, tt.value); err != nil {
			t.Fatalf("Put(%q) failed: %v", tt.key, err)
		}
	}
	for _, tt := range tests {
		expectValue(t, store, collection, tt.key, tt.value)
	}
	expectValue(t, store, collection, "missing", nil)
}

func testUpsert(t *testing.T, store durable.IDurableStore) {
	defer store.Close()
	mustInit(t, store, collection)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Put(ctx, collection, "k", []byte(fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	expectValue(t, store, collection, "k", []byte("v2"))
}

func testDelete(t *testing.T, store durable.IDurableStore) {
	defer store.Close()
	mustInit(t, store, collection)
	ctx := context.Background()

	if err := store.Put(ctx, collection, "k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	existed, err := store.Delete(ctx, collection, "k")
	if err != nil || !existed {
		t.Errorf("Delete(k) = %v, %v; want true, nil", existed, err)
	}
	expectValue(t, store, collection, "k", nil)

	existed, err = store.Delete(ctx, collection, "k")
	if err != nil || existed {
		t.Errorf("second Delete(k) = %v, %v; want false, nil", existed, err)
	}
}

func testCollections(t *testing.T, store durable.IDurableStore) {
	defer store.Close()
	mustInit(t, store, "coll_a")
	mustInit(t, store, "coll_b")
	ctx := context.Background()

	if err := store.Put(ctx, "coll_a", "k", []byte("a")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	expectValue(t, store, "coll_a", "k", []byte("a"))
	expectValue(t, store, "coll_b", "k", nil)
}

func testConcurrent(t *testing.T, store durable.IDurableStore) {
	defer store.Close()
	mustInit(t, store, collection)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				key := fmt.Sprintf("w%d-%d", w, i)
				if err := store.Put(ctx, collection, key, []byte(key)); err != nil {
					t.Errorf("Put(%q) failed: %v", key, err)
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < 4; w++ {
		for i := 0; i < 25; i++ {
			key := fmt.Sprintf("w%d-%d", w, i)
			expectValue(t, store, collection, key, []byte(key))
		}
	}
}
