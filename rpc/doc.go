// Package rpc provides a comprehensive framework for remote procedure calls
// in rKV. It acts as the communication layer
// between clients and servers, enabling operations across network boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: RPC client implementation of the store interface, allowing
//     applications to interact with a remote server transparently.
//
//   - server: The server process. It wires the cache, the replication log, the
//     durable store and the replicator, and serves them through a transport
//     (plus the REST routes on the http transport).
package rpc
