package serializer

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/ValentinKolb/rKV/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present.
// The three outcome booleans carry no payload, the flag is the value.
const (
	hasKey        byte = 1 << 0
	hasValue      byte = 1 << 1
	hasOk         byte = 1 << 2
	hasReplicated byte = 1 << 3
	hasPersisted  byte = 1 << 4
	hasErr        byte = 1 << 5
	hasEntries    byte = 1 << 6
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := 2 // Start after MsgType and flags

	// Handle Key
	if msg.Key != "" {
		flags |= hasKey
		pos = putBytes(result, pos, []byte(msg.Key))
	}

	// Handle Value
	if msg.Value != nil {
		flags |= hasValue
		pos = putBytes(result, pos, msg.Value)
	}

	// Handle outcome flags
	if msg.Ok {
		flags |= hasOk
	}
	if msg.Replicated {
		flags |= hasReplicated
	}
	if msg.Persisted {
		flags |= hasPersisted
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		pos = putBytes(result, pos, []byte(msg.Err))
	}

	// Handle Entries (sorted by key so equal maps encode equally)
	if msg.Entries != nil {
		flags |= hasEntries
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Entries)))
		pos += 4

		keys := make([]string, 0, len(msg.Entries))
		for k := range msg.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			pos = putBytes(result, pos, []byte(k))
			pos = putBytes(result, pos, msg.Entries[k])
		}
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := data[1]

	// Initialize read position
	pos := 2

	// Read Key if present
	msg.Key = ""
	if flags&hasKey != 0 {
		key, next, err := readBytes(data, pos, "key")
		if err != nil {
			return err
		}
		msg.Key = string(key)
		pos = next
	}

	// Read Value if present
	msg.Value = nil
	if flags&hasValue != 0 {
		value, next, err := readBytes(data, pos, "value")
		if err != nil {
			return err
		}
		// an empty slice (not nil) is kept as such
		msg.Value = make([]byte, len(value))
		copy(msg.Value, value)
		pos = next
	}

	msg.Ok = flags&hasOk != 0
	msg.Replicated = flags&hasReplicated != 0
	msg.Persisted = flags&hasPersisted != 0

	// Read Err if present
	msg.Err = ""
	if flags&hasErr != 0 {
		errBytes, next, err := readBytes(data, pos, "error")
		if err != nil {
			return err
		}
		msg.Err = string(errBytes)
		pos = next
	}

	// Read Entries if present
	msg.Entries = nil
	if flags&hasEntries != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for entry count")
		}
		count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		// every entry needs at least two length prefixes
		if count > (len(data)-pos)/8 {
			return fmt.Errorf("data too short for %d entries", count)
		}

		msg.Entries = make(map[string][]byte, count)
		for i := 0; i < count; i++ {
			k, next, err := readBytes(data, pos, "entry key")
			if err != nil {
				return err
			}
			v, next, err := readBytes(data, next, "entry value")
			if err != nil {
				return err
			}
			value := make([]byte, len(v))
			copy(value, v)
			msg.Entries[string(k)] = value
			pos = next
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	// Add sizes for fields that require length encoding
	if msg.Key != "" {
		size += 4 + len(msg.Key) // 4 bytes for length + key string
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value) // 4 bytes for length + value bytes
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}
	if msg.Entries != nil {
		size += 4 // entry count
		for k, v := range msg.Entries {
			size += 8 + len(k) + len(v)
		}
	}

	return size
}

// putBytes writes a length prefixed byte slice at pos and returns the next position
func putBytes(dst []byte, pos int, src []byte) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(src)))
	pos += 4
	copy(dst[pos:pos+len(src)], src)
	return pos + len(src)
}

// readBytes reads a length prefixed byte slice at pos. The returned slice aliases data.
func readBytes(data []byte, pos int, field string) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if n < 0 || pos+n > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s data", field)
	}
	return data[pos : pos+n], pos + n, nil
}
