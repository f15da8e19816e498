// Package durable defines the durable store capability: the long-term system of
// record consulted by the store coordinator on cache misses.
//
// Implementations:
//
//   - memstore: an in-memory B-tree per collection (google/btree). Not durable
//     across restarts, used for development and tests.
//   - sqlstore: database/sql with a PostgreSQL (pgx) or MySQL dialect. One table
//     per collection with a unique key column and created/updated timestamps.
//   - rocksstore: an embedded RocksDB (grocksdb), built with the "rocksdb" tag.
//
// The shared conformance suite lives in lib/durable/testing.
package durable
