// Package kafkalog implements replog.ILog on Apache Kafka using segmentio/kafka-go.
//
// The producer is asynchronous and defaults to acks=none, so Append returns as
// soon as the record is batched. Messages are keyed by the record key and
// partitioned with a hash balancer, which keeps the records of one key in one
// partition and therefore in append order for every consumer group. The op tag and
// the producer id travel as message headers.
//
// Consumers use Kafka consumer groups; the group id decides the replication
// fan-out. A Poll that hits its timeout returns no record and no error.
package kafkalog
