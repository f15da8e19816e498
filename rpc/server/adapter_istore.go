package server

import (
	"fmt"

	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/rpc/common"
)

func NewIStoreServerAdapter() IRPCServerAdapter {
	return &iStoreServerAdapterImpl{}
}

type iStoreServerAdapterImpl struct{}

func (adapter *iStoreServerAdapterImpl) Handle(req *common.Message, s store.IStore) *common.Message {
	// Check for nil store
	if s == nil {
		return common.NewErrorResponse("handler: store is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTKVPut:
		res, err := s.Put(req.Key, req.Value)
		return common.NewPutResponse(res, err)
	case common.MsgTKVGet:
		val, ok, err := s.Get(req.Key)
		return common.NewGetResponse(val, ok, err)
	case common.MsgTKVDelete:
		res, err := s.Delete(req.Key)
		return common.NewDeleteResponse(res, err)
	case common.MsgTKVScan:
		entries, err := s.Scan()
		return common.NewScanResponse(entries, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC IStoreAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
