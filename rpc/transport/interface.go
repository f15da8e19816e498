package transport

import (
	"context"

	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/go-chi/chi/v5"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes a serialized request and returns the serialized response
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a RPCServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and serves incoming requests.
	// It blocks until Shutdown is called (returning nil) or the listener fails.
	Listen(config common.ServerConfig) error
	// Shutdown stops accepting requests and waits for in-flight requests until ctx is done
	Shutdown(ctx context.Context) error
}

// IRouteRegistrar is implemented by server transports that can serve additional
// http routes next to the RPC endpoint (e.g. the REST api, /metrics, /health)
type IRouteRegistrar interface {
	// RegisterRoutes is called once before Listen with the transports router
	RegisterRoutes(fn func(r chi.Router))
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
