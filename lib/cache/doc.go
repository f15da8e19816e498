// Package cache implements the in-memory read path of the store: a thread-safe
// mapping from key to Entry that is written by client requests and by the
// replicator, and read by the store coordinator.
//
// Deletes leave tombstones instead of removing keys. A tombstone is authoritative:
// the coordinator treats it as "not found" without consulting the durable store.
// There is no TTL and no eviction.
package cache
