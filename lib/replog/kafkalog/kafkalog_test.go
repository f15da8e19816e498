package kafkalog

import (
	"context"
	"testing"
	"time"

	"github.com/ValentinKolb/rKV/lib/replog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMapping(t *testing.T) {
	tests := []struct {
		name string
		rec  replog.Record
	}{
		{"put", replog.Record{Op: replog.OpPut, Key: "a", Value: []byte("1"), Producer: "node-1"}},
		{"put empty value", replog.Record{Op: replog.OpPut, Key: "a", Value: []byte{}}},
		{"delete", replog.Record{Op: replog.OpDelete, Key: "a", Value: []byte{}, Producer: "node-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := toMessage(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, []byte(tt.rec.Key), msg.Key)

			back, err := fromMessage(msg)
			require.NoError(t, err)
			assert.Equal(t, tt.rec, back)
		})
	}
}

func TestToMessageRejectsInvalidOp(t *testing.T) {
	_, err := toMessage(replog.Record{Key: "k"})
	assert.Error(t, err)
}

func TestFromMessageExternalProducer(t *testing.T) {
	rec, err := fromMessage(kafka.Message{Key: []byte("k"), Value: []byte("v")})
	require.NoError(t, err)
	assert.Equal(t, replog.OpPut, rec.Op)
	assert.Equal(t, "v", string(rec.Value))

	_, err = fromMessage(kafka.Message{
		Key:     []byte("k"),
		Headers: []kafka.Header{{Key: headerOp, Value: []byte("DELETE")}},
	})
	require.NoError(t, err)

	_, err = fromMessage(kafka.Message{
		Key:     []byte("k"),
		Headers: []kafka.Header{{Key: headerOp, Value: []byte("TRUNCATE")}},
	})
	assert.ErrorIs(t, err, replog.ErrMalformedRecord)

	_, err = fromMessage(kafka.Message{Value: []byte("v")})
	assert.ErrorIs(t, err, replog.ErrMalformedRecord)
}

func TestNewKafkaLogConfiguration(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Brokers = nil
	_, err := NewKafkaLog(ctx, cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Topic = ""
	_, err = NewKafkaLog(ctx, cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Acks = "most"
	_, err = NewKafkaLog(ctx, cfg)
	assert.Error(t, err)

	// nothing listens on port 1
	cfg = DefaultConfig()
	cfg.Brokers = []string{"127.0.0.1:1"}
	cfg.DialTimeout = 200 * time.Millisecond
	_, err = NewKafkaLog(ctx, cfg)
	assert.Error(t, err)
}
