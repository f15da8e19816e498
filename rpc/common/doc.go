// Package common provides the data structures shared by the rKV RPC client and
// server: the wire message, the configuration structs and the logger setup.
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. A single struct is
//     used for requests and responses; which fields are set depends on the
//     MessageType. Factory functions build every request and response.
//
//   - MessageType: Enumeration of the supported operations (put, get, delete,
//     scan) and the generic success / error types.
//
//   - ServerConfig: Configuration of a server process, including the replication
//     log backend, the durable store backend, the per call timeout and the
//     listening endpoints.
//
//   - ClientConfig: Configuration for client components, controlling connection
//     parameters, timeouts, and retry behavior.
//
//   - Logger: zap backed implementation of dragonboat's logger.ILogger. Every
//     package obtains its logger by name through logger.GetLogger, InitLoggers
//     installs the factory and applies the configured level.
package common
