// Package rstore implements store.IStore as the coordinator of a cache, a
// replication log and a durable store.
//
// Write path (Put, Delete):
//
//  1. The cache is updated. This step cannot fail and happens before the call returns.
//  2. A PUT or DELETE record is appended to the log.
//  3. The durable store is written.
//
// Steps 2 and 3 are always attempted, run outside of any cache lock and are
// bounded by a per-call timeout. Their failures are logged, counted and reported
// through the Replicated and Persisted flags; they never fail the call and never
// roll back step 1.
//
// Read path (Get):
//
//	A present cache entry is returned. A tombstone is reported as not found without
//	consulting the durable store. On a cache miss the durable store is read and a
//	hit is back-filled into the cache unless a concurrent write got there first.
//	A durable read failure is reported as not found.
//
// The replicator (lib/replicator) feeds records of every producer into the same
// cache, which is how instances sharing a log converge.
//
// Usage Example:
//
//	s, err := rstore.NewReplicatedStore(ctx, rstore.Options{
//		Log:     memlog.NewBroker(),
//		Durable: memstore.NewMemStore(),
//	})
//	res, _ := s.Put("session:123", data)
//	if !res.Persisted {
//		// the value is only held in memory and in the log
//	}
package rstore
