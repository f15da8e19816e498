//go:build !rocksdb

package server

import (
	"errors"

	"github.com/ValentinKolb/rKV/lib/durable"
)

func openRocksDB(string) (durable.IDurableStore, error) {
	return nil, errors.New("rkv was built without rocksdb support (build with -tags rocksdb)")
}
