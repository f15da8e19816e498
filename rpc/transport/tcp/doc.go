// Package tcp implements TCP socket-based transport for the rKV RPC system. It
// provides concrete implementations of the base package's connector interfaces.
//
// See the base package documentation for the frame format and the connection
// handling shared with the unix transport.
//
// The default server buffer size is 512 KB. Socket options (TCP_NODELAY,
// keep-alive, linger, buffer sizes) are taken from common.SocketConfig on both
// the client and the server side.
package tcp
