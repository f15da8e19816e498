// Package base provides a foundation for the socket based transport layers of
// rKV, implementing client and server RPC communication independent of the
// specific network protocol (TCP, Unix sockets). Protocol-specific connectors
// plug into it.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - Frame-based message protocol with requestID tracking
//   - Response correlation, retries and reconnection
//
// Frame format (big endian):
//
//	| requestID uint64 | length uint32 | payload |
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - clientTransport: Core client implementation that manages multiple connections
//     with round-robin load balancing. Supports multiple connections per endpoint.
//
//   - serverTransport: Core server implementation that accepts connections and
//     passes every frame to the registered handler. Each connection processes up to
//     ServerConfig.WorkersPerConn requests in parallel.
//
// Performance Optimizations:
//
//   - Buffer Pooling: The server uses a sync.Pool to reuse read buffers.
//
//   - Asynchronous Processing: The client sends requests and correlates responses
//     asynchronously using unique request IDs.
//
//   - Frame Batching: net.Buffers combines header and payload into a single write.
//
// Thread Safety:
//
//	All public methods are thread-safe. The server creates a dedicated goroutine
//	for each connection and shuts down gracefully on Shutdown.
package base
