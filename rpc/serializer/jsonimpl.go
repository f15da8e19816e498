package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/rKV/rpc/common"
)

// NewJSONSerializer creates a new serializer using json encoding.
// Values travel base64 encoded, empty values and empty scan results are omitted.
func NewJSONSerializer() IRPCSerializer {
	return jsonSerializerImpl{}
}

type jsonSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("json encode %s message: %w", msg.MsgType, err)
	}
	return data, nil
}

func (jsonSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	// json merges into the target, start from a clean message
	*msg = common.Message{}
	if err := json.Unmarshal(b, msg); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}
