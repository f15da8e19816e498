// Package serializer encodes the RPC Message of rKV for the wire. Client and
// server must use the same serializer.
//
// Implementations:
//
//   - binary: compact custom format. One flag byte marks the present fields; the
//     outcome booleans (ok, replicated, persisted) are carried by their flag alone.
//     Scan entries are written as a count followed by length prefixed key/value
//     pairs sorted by key, so equal messages encode to equal bytes. Empty but
//     non-nil values survive a round trip. Recommended for tcp and unix.
//
//   - json: readable, the default of the CLI and handy with curl against /rpc.
//     Values are base64 encoded.
//
//   - gob: Go's gob format. Slower and larger than binary, kept for comparison in
//     the benchmarks.
//
// Usage:
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.Serialize(*common.NewGetRequest("user:123"))
//	// ... send data ...
//	var resp common.Message
//	err = s.Deserialize(respData, &resp)
package serializer
