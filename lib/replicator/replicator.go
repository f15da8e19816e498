package replicator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ValentinKolb/rKV/lib/cache"
	"github.com/ValentinKolb/rKV/lib/replog"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"golang.org/x/time/rate"
)

//go:generate mockgen -destination=mocks_test.go -package=replicator github.com/ValentinKolb/rKV/lib/replog ISubscription

var Logger = logger.GetLogger("replicator")

var (
	appliedPuts    = metrics.GetOrCreateCounter(`rkv_replicator_applied_total{op="put"}`)
	appliedDeletes = metrics.GetOrCreateCounter(`rkv_replicator_applied_total{op="delete"}`)
	pollErrors     = metrics.GetOrCreateCounter(`rkv_replicator_poll_errors_total`)
	skipped        = metrics.GetOrCreateCounter(`rkv_replicator_skipped_total`)
)

// Options configures a Replicator.
type Options struct {
	// PollTimeout bounds every Poll. Zero means one second.
	PollTimeout time.Duration
	// IdlePause is slept after a Poll that returned no record. Zero disables it.
	IdlePause time.Duration
	// ErrorBackoff is the minimum distance between two retries after poll errors.
	// Zero means 500ms.
	ErrorBackoff time.Duration
}

// DefaultOptions returns the default replicator options
func DefaultOptions() Options {
	return Options{
		PollTimeout:  time.Second,
		ErrorBackoff: 500 * time.Millisecond,
	}
}

// Replicator drains a log subscription into a cache. It is the only component
// that writes data into the cache which did not originate from this process's own
// requests.
type Replicator struct {
	sub     replog.ISubscription
	cache   cache.ICache
	opts    Options
	limiter *rate.Limiter

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a replicator. It takes ownership of sub and closes it when Run returns.
func New(sub replog.ISubscription, c cache.ICache, opts Options) *Replicator {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = time.Second
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = 500 * time.Millisecond
	}
	return &Replicator{
		sub:     sub,
		cache:   c,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.ErrorBackoff), 1),
	}
}

// --------------------------------------------------------------------------
// Loop
// --------------------------------------------------------------------------

// Run drains the subscription until ctx is done. Poll errors are logged and
// retried; they never end the loop. Malformed records are skipped without backoff. The subscription is closed before Run returns.
func (r *Replicator) Run(ctx context.Context) {
	defer func() {
		if err := r.sub.Close(); err != nil {
			Logger.Warningf("closing log subscription: %v", err)
		}
		Logger.Infof("replicator stopped")
	}()

	Logger.Infof("replicator started (poll timeout %s)", r.opts.PollTimeout)
	for ctx.Err() == nil {
		rec, ok, err := r.sub.Poll(ctx, r.opts.PollTimeout)
		switch {
		case errors.Is(err, replog.ErrMalformedRecord):
			// the record is consumed, nothing to back off from
			skipped.Inc()
			Logger.Warningf("skipping record: %v", err)
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			pollErrors.Inc()
			Logger.Warningf("poll failed: %v", err)
			if r.limiter.Wait(ctx) != nil {
				return
			}
		case !ok:
			if r.opts.IdlePause > 0 {
				sleep(ctx, r.opts.IdlePause)
			}
		default:
			if err := r.Apply(rec); err != nil {
				skipped.Inc()
				Logger.Warningf("skipping record: %v", err)
			}
		}
	}
}

// Apply writes one record into the cache. Applying a record twice leaves the
// cache in the same state as applying it once.
func (r *Replicator) Apply(rec replog.Record) error {
	if rec.Key == "" {
		return errors.New("record without key")
	}
	switch rec.Op {
	case replog.OpPut:
		r.cache.Put(rec.Key, rec.Value)
		appliedPuts.Inc()
	case replog.OpDelete:
		r.cache.Delete(rec.Key)
		appliedDeletes.Inc()
	default:
		return fmt.Errorf("unknown op %s for key %q", rec.Op, rec.Key)
	}
	Logger.Debugf("applied %s %q from %q", rec.Op, rec.Key, rec.Producer)
	return nil
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Start runs the loop in a background goroutine.
func (r *Replicator) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		r.Run(ctx)
	}(r.done)
}

// Stop cancels the loop and waits until the subscription is closed.
func (r *Replicator) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if done == nil {
		return
	}
	cancel()
	<-done
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
