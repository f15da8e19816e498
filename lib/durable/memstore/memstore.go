package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ValentinKolb/rKV/lib/durable"
	"github.com/google/btree"
)

// row is one stored key. It implements btree.Item ordered by key.
type row struct {
	key       string
	value     []byte
	createdAt time.Time
	updatedAt time.Time
}

// Less implements btree.Item.
func (r *row) Less(other btree.Item) bool {
	return r.key < other.(*row).key
}

// Row is an exported copy of a stored row.
type Row struct {
	Key       string
	Value     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemStore is an IDurableStore that keeps one B-tree per collection.
type MemStore struct {
	mu          sync.RWMutex
	collections map[string]*btree.BTree
	closed      bool
	now         func() time.Time
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]*btree.BTree),
		now:         time.Now,
	}
}

// tree returns the collection tree. Callers must hold mu.
func (m *MemStore) tree(collection string) (*btree.BTree, error) {
	if m.closed {
		return nil, fmt.Errorf("memstore: closed")
	}
	t, ok := m.collections[collection]
	if !ok {
		return nil, fmt.Errorf("memstore: collection %q does not exist", collection)
	}
	return t, nil
}

func (m *MemStore) Init(ctx context.Context, collection string) error {
	if err := durable.ValidateCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("memstore: closed")
	}
	if _, ok := m.collections[collection]; !ok {
		m.collections[collection] = btree.New(32)
	}
	return nil
}

func (m *MemStore) Put(ctx context.Context, collection, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.tree(collection)
	if err != nil {
		return err
	}

	now := m.now()
	r := &row{key: key, value: append([]byte{}, value...), createdAt: now, updatedAt: now}
	if old := t.Get(r); old != nil {
		r.createdAt = old.(*row).createdAt
	}
	t.ReplaceOrInsert(r)
	return nil
}

func (m *MemStore) Get(ctx context.Context, collection, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.tree(collection)
	if err != nil {
		return nil, false, err
	}
	item := t.Get(&row{key: key})
	if item == nil {
		return nil, false, nil
	}
	return append([]byte{}, item.(*row).value...), true, nil
}

func (m *MemStore) Delete(ctx context.Context, collection, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.tree(collection)
	if err != nil {
		return false, err
	}
	return t.Delete(&row{key: key}) != nil, nil
}

func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.collections = nil
	return nil
}

// Rows returns all rows of a collection in key order.
func (m *MemStore) Rows(collection string) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.tree(collection)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, t.Len())
	t.Ascend(func(item btree.Item) bool {
		r := item.(*row)
		rows = append(rows, Row{
			Key:       r.key,
			Value:     append([]byte{}, r.value...),
			CreatedAt: r.createdAt,
			UpdatedAt: r.updatedAt,
		})
		return true
	})
	return rows, nil
}

var _ durable.IDurableStore = (*MemStore)(nil)
