// Package http implements the HTTP transport of the rKV RPC system.
//
// The server side is a chi router. Serialized messages are posted to /rpc, the
// process exposes /health and the Prometheus text format at /metrics, and other
// packages can mount more routes (the REST api of rpc/server) through
// transport.IRouteRegistrar.
//
// The client posts to <endpoint>/rpc and selects endpoints round-robin. Failed
// requests are retried up to ClientConfig.RetryCount times, each retry on the
// next endpoint.
package http
