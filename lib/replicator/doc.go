// Package replicator implements the background loop that applies replication log
// records to the local cache.
//
// The loop polls with a bounded timeout, so cancellation is observed at least once
// per timeout. A timeout is not an error. Poll errors are counted, logged and
// retried behind a rate limiter instead of ending the loop.
//
// Records produced by this process are applied as well, so every subscriber of a
// consumer group ends on the log's last write for a key.
package replicator
