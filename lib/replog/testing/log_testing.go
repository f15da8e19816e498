package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/rKV/lib/replog"
)

// LogFactory is a function that creates a new, empty replication log
type LogFactory func() replog.ILog

const pollTimeout = 200 * time.Millisecond

// RunLogTests runs the conformance suite for an ILog implementation.
func RunLogTests(t *testing.T, name string, factory LogFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("AppendPoll", func(t *testing.T) {
			testAppendPoll(t, factory())
		})

		t.Run("TimeoutIsNotAnError", func(t *testing.T) {
			testTimeout(t, factory())
		})

		t.Run("GroupFanOut", func(t *testing.T) {
			testGroupFanOut(t, factory())
		})

		t.Run("SharedGroup", func(t *testing.T) {
			testSharedGroup(t, factory())
		})

		t.Run("ProducerOrder", func(t *testing.T) {
			testProducerOrder(t, factory())
		})

		t.Run("ContextCancel", func(t *testing.T) {
			testContextCancel(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustSubscribe(t *testing.T, log replog.ILog, group string) replog.ISubscription {
	t.Helper()
	sub, err := log.Subscribe(group)
	if err != nil {
		t.Fatalf("Subscribe(%q) failed: %v", group, err)
	}
	t.Cleanup(func() { _ = sub.Close() })
	return sub
}

func mustPoll(t *testing.T, sub replog.ISubscription) replog.Record {
	t.Helper()
	rec, ok, err := sub.Poll(context.Background(), pollTimeout)
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if !ok {
		t.Fatalf("Poll timed out, expected a record")
	}
	return rec
}

func mustAppend(t *testing.T, log replog.ILog, rec replog.Record) {
	t.Helper()
	if err := log.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append(%v) failed: %v", rec, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testAppendPoll(t *testing.T, log replog.ILog) {
	defer log.Close()
	sub := mustSubscribe(t, log, "g")

	mustAppend(t, log, replog.Record{Op: replog.OpPut, Key: "a", Value: []byte("1"), Producer: "p"})
	mustAppend(t, log, replog.Record{Op: replog.OpDelete, Key: "a", Producer: "p"})

	rec := mustPoll(t, sub)
	if rec.Op != replog.OpPut || rec.Key != "a" || string(rec.Value) != "1" || rec.Producer != "p" {
		t.Errorf("unexpected first record: %+v", rec)
	}
	rec = mustPoll(t, sub)
	if rec.Op != replog.OpDelete || rec.Key != "a" || len(rec.Value) != 0 {
		t.Errorf("unexpected second record: %+v", rec)
	}
}

func testTimeout(t *testing.T, log replog.ILog) {
	defer log.Close()
	sub := mustSubscribe(t, log, "g")

	start := time.Now()
	_, ok, err := sub.Poll(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("timeout must not be an error, got %v", err)
	}
	if ok {
		t.Fatalf("expected no record on an empty log")
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Errorf("Poll returned before the timeout elapsed")
	}
}

func testGroupFanOut(t *testing.T, log replog.ILog) {
	defer log.Close()
	subA := mustSubscribe(t, log, "group-a")
	subB := mustSubscribe(t, log, "group-b")

	mustAppend(t, log, replog.Record{Op: replog.OpPut, Key: "k", Value: []byte("v")})

	for _, sub := range []replog.ISubscription{subA, subB} {
		if rec := mustPoll(t, sub); rec.Key != "k" {
			t.Errorf("expected key k, got %q", rec.Key)
		}
	}
}

func testSharedGroup(t *testing.T, log replog.ILog) {
	defer log.Close()
	sub1 := mustSubscribe(t, log, "shared")
	sub2 := mustSubscribe(t, log, "shared")

	mustAppend(t, log, replog.Record{Op: replog.OpPut, Key: "only-once", Value: []byte("v")})

	_ = mustPoll(t, sub1)
	if _, ok, err := sub2.Poll(context.Background(), 50*time.Millisecond); err != nil || ok {
		t.Errorf("record was delivered twice within one group (ok=%v, err=%v)", ok, err)
	}
}

func testProducerOrder(t *testing.T, log replog.ILog) {
	defer log.Close()
	sub := mustSubscribe(t, log, "g")

	const producers = 4
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				rec := replog.Record{
					Op:       replog.OpPut,
					Key:      fmt.Sprintf("p%d", p),
					Value:    []byte(fmt.Sprintf("%d", i)),
					Producer: fmt.Sprintf("p%d", p),
				}
				if err := log.Append(context.Background(), rec); err != nil {
					t.Errorf("Append failed: %v", err)
				}
			}
		}(p)
	}
	wg.Wait()

	last := map[string]int{}
	for n := 0; n < producers*perProducer; n++ {
		rec := mustPoll(t, sub)
		var i int
		if _, err := fmt.Sscanf(string(rec.Value), "%d", &i); err != nil {
			t.Fatalf("bad value %q", rec.Value)
		}
		if prev, ok := last[rec.Producer]; ok && i != prev+1 {
			t.Errorf("producer %s out of order: %d after %d", rec.Producer, i, prev)
		}
		last[rec.Producer] = i
	}
}

func testContextCancel(t *testing.T, log replog.ILog) {
	defer log.Close()
	sub := mustSubscribe(t, log, "g")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, ok, err := sub.Poll(ctx, 10*time.Second)
	if ok || err == nil {
		t.Errorf("expected a context error, got ok=%v err=%v", ok, err)
	}
}
