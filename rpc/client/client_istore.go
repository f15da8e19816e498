package client

import (
	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/ValentinKolb/rKV/rpc/serializer"
	"github.com/ValentinKolb/rKV/rpc/transport"
)

// NewRPCStore creates a new RPC store
// The function takes a client config, a transport and a serializer as parameters
// It returns a store.IStore and an error
func NewRPCStore(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (store.IStore, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	return &rpcStore{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) Put(key string, value []byte) (store.PutResult, error) {
	req := common.NewPutRequest(key, value)
	resp, err := invokeRPCRequest(req, i.transport, i.serializer)
	if err != nil {
		return store.PutResult{}, err
	}
	return resp.PutResult(), nil
}

func (i *rpcStore) Get(key string) (value []byte, found bool, err error) {
	req := common.NewGetRequest(key)
	resp, err := invokeRPCRequest(req, i.transport, i.serializer)
	if err != nil {
		return nil, false, err
	}
	if resp.Ok && resp.Value == nil {
		// serializers may drop empty values
		return []byte{}, true, nil
	}
	return resp.Value, resp.Ok, nil
}

func (i *rpcStore) Delete(key string) (store.DeleteResult, error) {
	req := common.NewDeleteRequest(key)
	resp, err := invokeRPCRequest(req, i.transport, i.serializer)
	if err != nil {
		return store.DeleteResult{}, err
	}
	return resp.DeleteResult(), nil
}

func (i *rpcStore) Scan() (map[string][]byte, error) {
	req := common.NewScanRequest()
	resp, err := invokeRPCRequest(req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	if resp.Entries == nil {
		return map[string][]byte{}, nil
	}
	return resp.Entries, nil
}
