// Package server implements the rKV RPC server. It assembles the backends of a
// process from common.ServerConfig and serves the resulting store.IStore over a
// pluggable transport and serializer.
//
// Key Components:
//
//   - RPCServer: Owns the cache, the replication log (memory or kafka), the durable
//     store (memory, postgres, mysql or rocksdb), the replicator and the transport.
//     Serve blocks until its context is cancelled and then shuts everything down in
//     order: transport, replicator, log, durable store.
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a store.IStore.
//
//   - NewIStoreServerAdapter: Factory function creating an adapter for key-value
//     store operations, translating RPC requests to store.IStore method calls.
//
//   - REST api: On transports implementing transport.IRouteRegistrar (http) the
//     store is also reachable under /key/{key} and /scan.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Endpoint:      "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  Log:           common.LogConfig{Backend: common.LogBackendKafka, Brokers: []string{"localhost:9092"}, Topic: "distributed_kv_store", GroupID: "distributed_group"},
//	  Durable:       common.DurableConfig{Backend: common.DurableBackendPostgres, DSN: "postgres://kv@localhost/kv", Collection: "kv_store"},
//	}
//
//	s := server.NewRPCServer(config, http.NewHttpServerTransport(), serializer.NewBinarySerializer())
//	if err := s.Serve(ctx); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// The rocksdb durable backend is only available in binaries built with the
// rocksdb build tag.
package server
