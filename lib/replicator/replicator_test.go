package replicator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ValentinKolb/rKV/lib/cache"
	"github.com/ValentinKolb/rKV/lib/replog"
	"github.com/ValentinKolb/rKV/lib/replog/memlog"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		PollTimeout:  20 * time.Millisecond,
		ErrorBackoff: 5 * time.Millisecond,
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		rec  replog.Record
	}{
		{"put", replog.Record{Op: replog.OpPut, Key: "k", Value: []byte("v")}},
		{"delete", replog.Record{Op: replog.OpDelete, Key: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once, twice := cache.NewCache(), cache.NewCache()
			once.Put("k", []byte("old"))
			twice.Put("k", []byte("old"))

			require.NoError(t, New(nil, once, testOptions()).Apply(tt.rec))
			r := New(nil, twice, testOptions())
			require.NoError(t, r.Apply(tt.rec))
			require.NoError(t, r.Apply(tt.rec))

			assert.Equal(t, once.Scan(), twice.Scan())
			e1, k1 := once.Lookup("k")
			e2, k2 := twice.Lookup("k")
			assert.Equal(t, k1, k2)
			assert.Equal(t, e1, e2)
		})
	}
}

func TestApplyRejectsMalformed(t *testing.T) {
	c := cache.NewCache()
	r := New(nil, c, testOptions())

	assert.Error(t, r.Apply(replog.Record{Op: 42, Key: "k"}))
	assert.Error(t, r.Apply(replog.Record{Op: replog.OpPut}))
	assert.Empty(t, c.Scan())
}

func TestConvergence(t *testing.T) {
	log := memlog.NewBroker()
	defer log.Close()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, replog.Record{Op: replog.OpPut, Key: "k", Value: []byte("v1"), Producer: "A"}))
	require.NoError(t, log.Append(ctx, replog.Record{Op: replog.OpPut, Key: "k", Value: []byte("v2"), Producer: "B"}))
	require.NoError(t, log.Append(ctx, replog.Record{Op: replog.OpPut, Key: "gone", Value: []byte("x"), Producer: "A"}))
	require.NoError(t, log.Append(ctx, replog.Record{Op: replog.OpDelete, Key: "gone", Producer: "B"}))

	// two subscribers in different groups both converge
	caches := []cache.ICache{cache.NewCache(), cache.NewCache()}
	for i, c := range caches {
		sub, err := log.Subscribe([]string{"node-1", "node-2"}[i])
		require.NoError(t, err)
		r := New(sub, c, testOptions())
		r.Start(ctx)
		defer r.Stop()
	}

	for _, c := range caches {
		c := c
		require.Eventually(t, func() bool {
			v, ok := c.Get("k")
			_, known := c.Lookup("gone")
			return ok && string(v) == "v2" && known
		}, time.Second, 5*time.Millisecond)
		_, found := c.Get("gone")
		assert.False(t, found)
	}
}

func TestPollErrorsDoNotStopTheLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockISubscription(ctrl)
	c := cache.NewCache()

	failing := sub.EXPECT().Poll(gomock.Any(), gomock.Any()).
		Return(replog.Record{}, false, errors.New("broker unavailable")).Times(3)
	timeout := sub.EXPECT().Poll(gomock.Any(), gomock.Any()).
		Return(replog.Record{}, false, nil).After(failing)
	record := sub.EXPECT().Poll(gomock.Any(), gomock.Any()).
		Return(replog.Record{Op: replog.OpPut, Key: "k", Value: []byte("v")}, true, nil).After(timeout)
	sub.EXPECT().Poll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ time.Duration) (replog.Record, bool, error) {
			<-ctx.Done()
			return replog.Record{}, false, ctx.Err()
		}).After(record).AnyTimes()
	sub.EXPECT().Close().Return(nil).Times(1)

	r := New(sub, c, testOptions())
	r.Start(context.Background())

	require.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return ok
	}, time.Second, 5*time.Millisecond)

	r.Stop()
}

func TestMalformedRecordsAreSkippedWithoutBackoff(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockISubscription(ctrl)
	c := cache.NewCache()

	malformed := fmt.Errorf("partition 0 offset 7: %w", replog.ErrMalformedRecord)
	bad := sub.EXPECT().Poll(gomock.Any(), gomock.Any()).
		Return(replog.Record{}, false, malformed).Times(2)
	record := sub.EXPECT().Poll(gomock.Any(), gomock.Any()).
		Return(replog.Record{Op: replog.OpPut, Key: "k", Value: []byte("v")}, true, nil).After(bad)
	sub.EXPECT().Poll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ time.Duration) (replog.Record, bool, error) {
			<-ctx.Done()
			return replog.Record{}, false, ctx.Err()
		}).After(record).AnyTimes()
	sub.EXPECT().Close().Return(nil).Times(1)

	skippedBefore, pollErrorsBefore := skipped.Get(), pollErrors.Get()

	// a backoff would stall the loop on the second malformed record
	opts := testOptions()
	opts.ErrorBackoff = time.Hour
	r := New(sub, c, opts)
	r.Start(context.Background())

	require.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return ok
	}, time.Second, 5*time.Millisecond)
	r.Stop()

	assert.Equal(t, skippedBefore+2, skipped.Get())
	assert.Equal(t, pollErrorsBefore, pollErrors.Get())
}

func TestStopClosesSubscription(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockISubscription(ctrl)

	sub.EXPECT().Poll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, d time.Duration) (replog.Record, bool, error) {
			select {
			case <-ctx.Done():
				return replog.Record{}, false, ctx.Err()
			case <-time.After(d):
				return replog.Record{}, false, nil
			}
		}).AnyTimes()
	sub.EXPECT().Close().Return(nil).Times(1)

	r := New(sub, cache.NewCache(), testOptions())
	r.Start(context.Background())
	r.Start(context.Background()) // second start is a no-op

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	r.Stop() // idempotent
}

func TestRunReturnsOnCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockISubscription(ctrl)
	sub.EXPECT().Close().Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	New(sub, cache.NewCache(), testOptions()).Run(ctx)
}
