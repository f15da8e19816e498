package serializer

import "github.com/ValentinKolb/rKV/rpc/common"

// IRPCSerializer converts Messages to bytes and back. Implementations are
// stateless and safe for concurrent use.
type IRPCSerializer interface {
	// Serialize encodes msg
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes b into msg, overwriting every field of msg
	Deserialize(b []byte, msg *common.Message) error
}
