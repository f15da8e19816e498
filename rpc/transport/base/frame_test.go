package base

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		requestID uint64
		payload   []byte
		buf       []byte
	}{
		{"empty payload", 1, []byte{}, nil},
		{"small payload", 42, []byte("hello"), make([]byte, 64)},
		{"payload larger than buffer", 7, bytes.Repeat([]byte("x"), 1024), make([]byte, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := net.Pipe()
			defer client.Close()
			defer server.Close()

			errCh := make(chan error, 1)
			go func() { errCh <- writeFrame(client, tt.requestID, tt.payload) }()

			id, data, err := readFrame(server, tt.buf)
			require.NoError(t, err)

			// the writer must return once the reader consumed the frame
			select {
			case err := <-errCh:
				require.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("writeFrame did not return after the frame was read")
			}
			assert.Equal(t, tt.requestID, id)
			assert.Equal(t, tt.payload, data)
		})
	}
}

func TestEmptyFramesInSequence(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	errCh := make(chan error, 1)
	go func() {
		for id := uint64(1); id <= 3; id++ {
			if err := writeFrame(client, id, nil); err != nil {
				errCh <- err
				return
			}
		}
		errCh <- writeFrame(client, 4, []byte("last"))
	}()

	for id := uint64(1); id <= 3; id++ {
		got, data, err := readFrame(server, nil)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Empty(t, data)
	}
	got, data, err := readFrame(server, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), got)
	assert.Equal(t, []byte("last"), data)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("writer blocked")
	}
}

func TestReadFrameRejectsOversizedFrames(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint64(header[:8], 3)
	binary.BigEndian.PutUint32(header[8:], maxFrameSize+1)
	go func() { _, _ = client.Write(header) }()

	_, _, err := readFrame(server, nil)
	assert.Error(t, err)
}
