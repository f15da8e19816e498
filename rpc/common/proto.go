package common

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/rKV/lib/store"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request fields
	Key   string `json:"key,omitempty"`   // Used for: Put, Get, Delete
	Value []byte `json:"value,omitempty"` // Used for: Put (request), Get (response)

	// Response only fields
	Ok         bool              `json:"ok,omitempty"`         // Put: accepted, Get: found, Delete: existed
	Replicated bool              `json:"replicated,omitempty"` // Put, Delete: log append succeeded
	Persisted  bool              `json:"persisted,omitempty"`  // Put, Delete: durable write succeeded
	Entries    map[string][]byte `json:"entries,omitempty"`    // Scan response
	Err        string            `json:"err,omitempty"`        // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewPutRequest creates a new Put request
func NewPutRequest(key string, value []byte) *Message {
	if value == nil {
		value = []byte{}
	}
	return &Message{
		MsgType: MsgTKVPut,
		Key:     key,
		Value:   value,
	}
}

// NewPutResponse creates a new Put response
func NewPutResponse(res store.PutResult, err error) *Message {
	msg := &Message{
		MsgType:    MsgTKVPut,
		Ok:         res.Accepted,
		Replicated: res.Replicated,
		Persisted:  res.Persisted,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, found bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTKVGet,
		Ok:      found,
		Value:   value,
	}
	if found && value == nil {
		msg.Value = []byte{}
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVDelete,
		Key:     key,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(res store.DeleteResult, err error) *Message {
	msg := &Message{
		MsgType:    MsgTKVDelete,
		Ok:         res.Existed,
		Replicated: res.Replicated,
		Persisted:  res.Persisted,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewScanRequest creates a new Scan request
func NewScanRequest() *Message {
	return &Message{
		MsgType: MsgTKVScan,
	}
}

// NewScanResponse creates a new Scan response
func NewScanResponse(entries map[string][]byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTKVScan,
		Entries: entries,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// PutResult extracts the put outcome flags of a response
func (m *Message) PutResult() store.PutResult {
	return store.PutResult{Accepted: m.Ok, Replicated: m.Replicated, Persisted: m.Persisted}
}

// DeleteResult extracts the delete outcome flags of a response
func (m *Message) DeleteResult() store.DeleteResult {
	return store.DeleteResult{Existed: m.Ok, Replicated: m.Replicated, Persisted: m.Persisted}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

var messageTypeNames = map[MessageType]string{
	MsgTSuccess:  "success",
	MsgTError:    "error",
	MsgTKVPut:    "put",
	MsgTKVGet:    "get",
	MsgTKVDelete: "delete",
	MsgTKVScan:   "scan",
}

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for typ, name := range messageTypeNames {
		if name == s {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown message type: %s", s)
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IStore operations

	MsgTKVPut    // Put a key-value pair
	MsgTKVGet    // Get a value by key
	MsgTKVDelete // Delete a key
	MsgTKVScan   // Snapshot all present key-value pairs
)
