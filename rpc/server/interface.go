package server

import (
	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/rpc/common"
)

// IRPCServerAdapter maps a request Message onto a store call.
// Store errors are returned inside the response, never dropped.
type IRPCServerAdapter interface {
	Handle(req *common.Message, store store.IStore) (resp *common.Message)
}
