// Package transport defines the interfaces for RPC communication between the rKV
// client and server. It provides a common contract that all transport
// implementations must fulfill, enabling protocol-agnostic communication.
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives requests, passes them to the registered handler and shuts down gracefully.
//
//   - IRouteRegistrar: Optional interface of transports that serve plain http routes
//     next to the RPC endpoint. The http transport implements it.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
