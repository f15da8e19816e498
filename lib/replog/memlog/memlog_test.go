package memlog

import (
	"context"
	"testing"
	"time"

	"github.com/ValentinKolb/rKV/lib/replog"
	rltesting "github.com/ValentinKolb/rKV/lib/replog/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	rltesting.RunLogTests(t, "MemLog", NewBroker)
}

func TestLateSubscriberReplays(t *testing.T) {
	log := NewBroker()
	defer log.Close()

	require.NoError(t, log.Append(context.Background(), replog.Record{Op: replog.OpPut, Key: "k", Value: []byte("v")}))

	sub, err := log.Subscribe("late")
	require.NoError(t, err)
	rec, ok, err := sub.Poll(context.Background(), 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "k", rec.Key)
}

func TestGroupKeepsOffsetAcrossSubscriptions(t *testing.T) {
	log := NewBroker()
	defer log.Close()

	ctx := context.Background()
	require.NoError(t, log.Append(ctx, replog.Record{Op: replog.OpPut, Key: "first"}))
	require.NoError(t, log.Append(ctx, replog.Record{Op: replog.OpPut, Key: "second"}))

	sub, err := log.Subscribe("g")
	require.NoError(t, err)
	rec, ok, err := sub.Poll(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", rec.Key)
	require.NoError(t, sub.Close())

	_, _, err = sub.Poll(ctx, time.Millisecond)
	assert.ErrorIs(t, err, ErrClosed)

	sub, err = log.Subscribe("g")
	require.NoError(t, err)
	rec, ok, err = sub.Poll(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", rec.Key)
}

func TestCloseWakesPollers(t *testing.T) {
	log := NewBroker()
	sub, err := log.Subscribe("g")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, _, err := sub.Poll(context.Background(), 10*time.Second)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, log.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Poll did not return after Close")
	}

	assert.ErrorIs(t, log.Append(context.Background(), replog.Record{Op: replog.OpPut, Key: "k"}), ErrClosed)
	_, err = log.Subscribe("other")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestInvalidInput(t *testing.T) {
	log := NewBroker()
	defer log.Close()

	assert.Error(t, log.Append(context.Background(), replog.Record{Key: "k"}))
	_, err := log.Subscribe("")
	assert.Error(t, err)
}

func TestUndecodableRecordIsConsumed(t *testing.T) {
	ctx := context.Background()
	log := NewBroker()
	defer log.Close()

	b := log.(*brokerImpl)
	b.mu.Lock()
	b.records = append(b.records, []byte{0xff})
	b.mu.Unlock()
	require.NoError(t, log.Append(ctx, replog.Record{Op: replog.OpPut, Key: "k", Value: []byte("v")}))

	sub, err := log.Subscribe("g")
	require.NoError(t, err)
	defer sub.Close()

	_, ok, err := sub.Poll(ctx, 50*time.Millisecond)
	assert.ErrorIs(t, err, replog.ErrMalformedRecord)
	assert.False(t, ok)

	rec, ok, err := sub.Poll(ctx, 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "k", rec.Key)
}
