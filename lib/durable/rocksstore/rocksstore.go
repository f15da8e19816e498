//go:build rocksdb

package rocksstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/ValentinKolb/rKV/lib/durable"
	"github.com/linxGnu/grocksdb"
)

const (
	collectionPrefix = "\x00collection/" // marker keys of initialized collections
	sep              = "\x00"
)

// RocksStore implements durable.IDurableStore on an embedded RocksDB. Rows of a
// collection are stored under "<collection>\x00<key>".
type RocksStore struct {
	db *grocksdb.DB
	ro *grocksdb.ReadOptions
	wo *grocksdb.WriteOptions

	mu          sync.Mutex // serializes read-modify-write in Delete
	collections sync.Map
}

// Open opens or creates the database in dir.
func Open(dir string) (*RocksStore, error) {
	opts := grocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)
	defer opts.Destroy()

	db, err := grocksdb.OpenDb(opts, dir)
	if err != nil {
		return nil, fmt.Errorf("rocksstore: open %s: %w", dir, err)
	}

	wo := grocksdb.NewDefaultWriteOptions()
	wo.SetSync(true)

	durable.Logger.Infof("rocksstore: opened %s", dir)
	return &RocksStore{
		db: db,
		ro: grocksdb.NewDefaultReadOptions(),
		wo: wo,
	}, nil
}

func rowKey(collection, key string) []byte {
	return []byte(collection + sep + key)
}

func (r *RocksStore) checkCollection(collection string) error {
	if _, ok := r.collections.Load(collection); ok {
		return nil
	}
	s, err := r.db.Get(r.ro, []byte(collectionPrefix+collection))
	if err != nil {
		return fmt.Errorf("rocksstore: %w", err)
	}
	defer s.Free()
	if !s.Exists() {
		return fmt.Errorf("rocksstore: collection %q does not exist", collection)
	}
	r.collections.Store(collection, struct{}{})
	return nil
}

func (r *RocksStore) Init(ctx context.Context, collection string) error {
	if err := durable.ValidateCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.db.Put(r.wo, []byte(collectionPrefix+collection), []byte{1}); err != nil {
		return fmt.Errorf("rocksstore: init %s: %w", collection, err)
	}
	r.collections.Store(collection, struct{}{})
	return nil
}

func (r *RocksStore) Put(ctx context.Context, collection, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.checkCollection(collection); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	if err := r.db.Put(r.wo, rowKey(collection, key), value); err != nil {
		return fmt.Errorf("rocksstore: put %q: %w", key, err)
	}
	return nil
}

func (r *RocksStore) Get(ctx context.Context, collection, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := r.checkCollection(collection); err != nil {
		return nil, false, err
	}
	s, err := r.db.Get(r.ro, rowKey(collection, key))
	if err != nil {
		return nil, false, fmt.Errorf("rocksstore: get %q: %w", key, err)
	}
	defer s.Free()
	if !s.Exists() {
		return nil, false, nil
	}
	return append([]byte{}, s.Data()...), true, nil
}

func (r *RocksStore) Delete(ctx context.Context, collection, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := r.checkCollection(collection); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := rowKey(collection, key)
	s, err := r.db.Get(r.ro, k)
	if err != nil {
		return false, fmt.Errorf("rocksstore: delete %q: %w", key, err)
	}
	existed := s.Exists()
	s.Free()
	if !existed {
		return false, nil
	}
	if err := r.db.Delete(r.wo, k); err != nil {
		return false, fmt.Errorf("rocksstore: delete %q: %w", key, err)
	}
	return true, nil
}

func (r *RocksStore) Close() error {
	r.ro.Destroy()
	r.wo.Destroy()
	r.db.Close()
	return nil
}

var _ durable.IDurableStore = (*RocksStore)(nil)
