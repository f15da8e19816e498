package replog

import (
	"encoding/binary"
	"fmt"
)

// Op is the operation carried by a log record.
type Op uint8

const (
	OpPut    Op = iota + 1 // Insert or overwrite the value of a key.
	OpDelete               // Tombstone a key.
)

func (op Op) String() string {
	switch op {
	case OpPut:
		return "PUT"
	case OpDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(op))
	}
}

// Valid reports whether op is a known operation.
func (op Op) Valid() bool {
	return op == OpPut || op == OpDelete
}

// ParseOp converts the textual tag used on the wire into an Op.
func ParseOp(s string) (Op, error) {
	switch s {
	case "PUT":
		return OpPut, nil
	case "DELETE":
		return OpDelete, nil
	default:
		return 0, fmt.Errorf("unknown op tag %q", s)
	}
}

// Record is a single entry of the replication log. The position of a record in the
// log defines its order, there is no explicit sequence number.
type Record struct {
	Op       Op
	Key      string
	Value    []byte // empty for OpDelete
	Producer string // id of the process that appended the record, informational
}

// SizeBytes returns the exact number of bytes needed to serialize this record
func (r *Record) SizeBytes() int {
	return 1 + 2 + len(r.Producer) + 4 + len(r.Key) + len(r.Value)
}

// Serialize serializes a record into a byte array with the format:
// 1 byte for the op,
// 2 bytes for producer length (big endian),
// N bytes for producer,
// 4 bytes for key length (big endian),
// N bytes for key data,
// N bytes for value data (rest of the buffer)
func (r *Record) Serialize() []byte {
	result := make([]byte, r.SizeBytes())

	result[0] = byte(r.Op)
	offset := 1

	binary.BigEndian.PutUint16(result[offset:offset+2], uint16(len(r.Producer)))
	offset += 2
	offset += copy(result[offset:], r.Producer)

	binary.BigEndian.PutUint32(result[offset:offset+4], uint32(len(r.Key)))
	offset += 4
	offset += copy(result[offset:], r.Key)

	copy(result[offset:], r.Value)
	return result
}

// Deserialize extracts all Record fields from a byte array. The value is copied.
func (r *Record) Deserialize(data []byte) error {
	// Minimum size: 1 (Op) + 2 (ProducerLen) + 4 (KeyLen)
	if len(data) < 7 {
		return fmt.Errorf("data too short for record")
	}

	r.Op = Op(data[0])
	offset := 1

	producerLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if len(data) < offset+producerLen+4 {
		return fmt.Errorf("data too short for producer of length %d", producerLen)
	}
	r.Producer = string(data[offset : offset+producerLen])
	offset += producerLen

	keyLen := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if len(data) < offset+keyLen {
		return fmt.Errorf("data too short for key of length %d", keyLen)
	}
	r.Key = string(data[offset : offset+keyLen])
	offset += keyLen

	r.Value = make([]byte, len(data)-offset)
	copy(r.Value, data[offset:])
	return nil
}
