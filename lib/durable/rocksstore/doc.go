//go:build rocksdb

// Package rocksstore implements durable.IDurableStore on an embedded RocksDB via
// grocksdb. It needs cgo and the RocksDB libraries and is only compiled with the
// "rocksdb" build tag:
//
//	go build -tags rocksdb ./...
package rocksstore
