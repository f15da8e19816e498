// Package client implements the RPC client of rKV. NewRPCStore returns a
// store.IStore that forwards every operation to a remote server via the
// configured transport and serializer.
//
// Errors raised by the remote store (e.g. an empty key) are returned as
// *store.Error with the original return code. Transport failures are returned
// as plain errors. Log and durable store failures on the server never become
// errors; they show up in the Replicated and Persisted flags of the results.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoints:              []string{"localhost:8080"},
//	  TimeoutSecond:          5,
//	  RetryCount:             3,
//	  ConnectionsPerEndpoint: 1,
//	}
//
//	s, err := client.NewRPCStore(config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	if err != nil {
//	  return err
//	}
//
//	res, _ := s.Put("user:123", []byte("Alice"))
//	value, found, _ := s.Get("user:123")
//
// Thread Safety:
//
//	The store client is thread-safe and can be used concurrently from multiple goroutines.
package client
