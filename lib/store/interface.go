package store

import (
	"errors"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// PutResult reports the outcome of a write. Accepted is true once the local cache
// holds the value. Replicated and Persisted report whether the log append and the
// durable write succeeded; a false flag means the write is only locally visible.
type PutResult struct {
	Accepted   bool `json:"accepted" yaml:"accepted"`
	Replicated bool `json:"replicated" yaml:"replicated"`
	Persisted  bool `json:"persisted" yaml:"persisted"`
}

// DeleteResult reports the outcome of a delete. Existed is true if the key held a
// present value in the cache before the delete.
type DeleteResult struct {
	Existed    bool `json:"existed" yaml:"existed"`
	Replicated bool `json:"replicated" yaml:"replicated"`
	Persisted  bool `json:"persisted" yaml:"persisted"`
}

// IStore is the command surface of the key–value service.
// Log and durable store failures never surface as errors, they are reported through
// the result flags. An error is returned only for invalid input or, for remote
// implementations, transport failures.
type IStore interface {
	// Put inserts or updates a key–value pair.
	Put(key string, value []byte) (res PutResult, err error)
	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(key string) (value []byte, found bool, err error)
	// Delete removes a key. Deleted keys are never served from the durable store again by this process.
	Delete(key string) (res DeleteResult, err error)
	// Scan returns a point-in-time copy of all present key–value pairs.
	Scan() (entries map[string][]byte, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ParseError turns the text of an error back into an *Error if it was produced by
// Error.Error (e.g. after crossing the RPC boundary). Other texts become plain errors.
func ParseError(text string) error {
	const prefix = "KVStoreError (code "
	if rest, ok := strings.CutPrefix(text, prefix); ok {
		if name, msg, ok := strings.Cut(rest, "): "); ok {
			for c := RetCSuccess; c <= RetCConfigurationFailure; c++ {
				if c.String() == name {
					return NewError(c, msg)
				}
			}
		}
	}
	return errors.New(text)
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the store.
	RetCInvalidOperation                    // 3: Invalid operation, e.g. an empty key.
	RetCConfigurationFailure                // 4: A backend could not be initialized.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCConfigurationFailure:
		return "ConfigurationFailure"
	default:
		return "Unknown"
	}
}
