// Package store defines the command surface of the key-value service and its
// unified error handling.
//
// Key Components:
//
//   - IStore Interface: Put, Get, Delete and Scan. Implementations are the
//     replicated store in lib/store/rstore, which coordinates the cache, the
//     replication log and the durable store of one process, and the RPC client in
//     rpc/client, which forwards the same operations to a remote server.
//
//   - Result Types: PutResult and DeleteResult carry three independent outcome
//     flags. A write is accepted as soon as the local cache holds it; whether it
//     also reached the replication log and the durable store is reported
//     separately, so callers that need durability can inspect the flags.
//
//   - Error System: Error wraps a RetCode and a message. Errors are reserved for
//     invalid input and configuration problems. Backend outages during normal
//     operation are never returned as errors.
package store
