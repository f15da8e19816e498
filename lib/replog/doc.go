// Package replog defines the replication log capability: an append-only stream of
// PUT and DELETE records shared by every instance of the service.
//
// Key Components:
//
//   - ILog: Append hands a record to the transport with a fire-and-forget
//     acknowledgement policy. Subscribe joins a consumer group.
//
//   - ISubscription: Poll blocks for at most the given timeout. A timeout yields
//     no record and no error.
//
//   - Record: key, value, op tag and producer id, with a compact binary encoding
//     (Serialize/Deserialize).
//
// Ordering: records appended by one producer reach every consumer group in append
// order. Nothing is guaranteed across producers.
//
// Implementations:
//
//   - memlog: an in-process broker with consumer groups, for single-process
//     deployments and tests.
//   - kafkalog: Apache Kafka through segmentio/kafka-go.
package replog
