//go:build rocksdb

package server

import (
	"github.com/ValentinKolb/rKV/lib/durable"
	"github.com/ValentinKolb/rKV/lib/durable/rocksstore"
)

func openRocksDB(dir string) (durable.IDurableStore, error) {
	s, err := rocksstore.Open(dir)
	if err != nil {
		return nil, err
	}
	return s, nil
}
