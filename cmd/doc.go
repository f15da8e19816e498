// Package cmd implements the command-line interface of rKV. It provides
// commands for running the server and for talking to it as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value store operations (put, get, del, scan, perf)
//   - serve: Command for starting and configuring the rKV server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See rkv -help for a list of all commands.
package cmd
