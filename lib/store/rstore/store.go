package rstore

import (
	"context"
	"errors"
	"time"

	"github.com/ValentinKolb/rKV/lib/cache"
	"github.com/ValentinKolb/rKV/lib/durable"
	"github.com/ValentinKolb/rKV/lib/replog"
	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

//go:generate mockgen -destination=mock_log_test.go -package=rstore github.com/ValentinKolb/rKV/lib/replog ILog
//go:generate mockgen -destination=mock_durable_test.go -package=rstore github.com/ValentinKolb/rKV/lib/durable IDurableStore

var Logger = logger.GetLogger("store")

var (
	putRequests    = metrics.GetOrCreateCounter(`rkv_requests_total{op="put"}`)
	getRequests    = metrics.GetOrCreateCounter(`rkv_requests_total{op="get"}`)
	deleteRequests = metrics.GetOrCreateCounter(`rkv_requests_total{op="delete"}`)
	scanRequests   = metrics.GetOrCreateCounter(`rkv_requests_total{op="scan"}`)

	logAppendFailures    = metrics.GetOrCreateCounter(`rkv_log_append_failures_total`)
	durablePutFailures   = metrics.GetOrCreateCounter(`rkv_durable_failures_total{op="put"}`)
	durableGetFailures   = metrics.GetOrCreateCounter(`rkv_durable_failures_total{op="get"}`)
	durableDelFailures   = metrics.GetOrCreateCounter(`rkv_durable_failures_total{op="delete"}`)
	cacheBackfills       = metrics.GetOrCreateCounter(`rkv_cache_backfills_total`)
	cacheTombstoneMasked = metrics.GetOrCreateCounter(`rkv_cache_tombstone_hits_total`)
)

// DefaultTimeout bounds each log and durable store call.
const DefaultTimeout = 5 * time.Second

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options wires the store to its collaborators.
type Options struct {
	Cache      cache.ICache          // nil creates an empty cache
	Log        replog.ILog           // required
	Durable    durable.IDurableStore // required
	Collection string                // durable collection, defaults to durable.DefaultCollection
	Producer   string                // id stamped on appended records, defaults to a random uuid
	Timeout    time.Duration         // per call timeout for log and durable calls, defaults to DefaultTimeout
}

// --------------------------------------------------------------------------
// Store
// --------------------------------------------------------------------------

type storeImpl struct {
	cache      cache.ICache
	log        replog.ILog
	durable    durable.IDurableStore
	collection string
	producer   string
	timeout    time.Duration
}

// NewReplicatedStore creates the store coordinator and initializes the durable
// collection. An error means the store cannot be used and is a configuration failure.
func NewReplicatedStore(ctx context.Context, opts Options) (store.IStore, error) {
	if opts.Log == nil || opts.Durable == nil {
		return nil, store.NewError(store.RetCConfigurationFailure, "log and durable store are required")
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewCache()
	}
	if opts.Collection == "" {
		opts.Collection = durable.DefaultCollection
	}
	if opts.Producer == "" {
		opts.Producer = uuid.NewString()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	initCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := opts.Durable.Init(initCtx, opts.Collection); err != nil {
		return nil, store.NewError(store.RetCConfigurationFailure, "initializing durable collection: "+err.Error())
	}

	Logger.Infof("replicated store ready (collection=%s, producer=%s)", opts.Collection, opts.Producer)
	return &storeImpl{
		cache:      opts.Cache,
		log:        opts.Log,
		durable:    opts.Durable,
		collection: opts.Collection,
		producer:   opts.Producer,
		timeout:    opts.Timeout,
	}, nil
}

func validateKey(key string) error {
	if key == "" {
		return store.NewError(store.RetCInvalidOperation, "key must not be empty")
	}
	return nil
}

// Put writes the cache first, then appends to the log and writes the durable store.
// The later steps are attempted even if an earlier one failed and never undo the
// cache write.
func (s *storeImpl) Put(key string, value []byte) (store.PutResult, error) {
	if err := validateKey(key); err != nil {
		return store.PutResult{}, err
	}
	putRequests.Inc()

	s.cache.Put(key, value)
	res := store.PutResult{Accepted: true}

	res.Replicated = s.appendLog(replog.Record{Op: replog.OpPut, Key: key, Value: value, Producer: s.producer})

	ctx, cancel := s.callContext()
	defer cancel()
	if err := s.durable.Put(ctx, s.collection, key, value); err != nil {
		durablePutFailures.Inc()
		Logger.Warningf("durable put of %q failed, value is not persisted: %v", key, err)
	} else {
		res.Persisted = true
	}
	return res, nil
}

// Get serves from the cache. A tombstone is final. On a miss the durable store is
// read and a hit is back-filled into the cache.
func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	getRequests.Inc()

	if e, known := s.cache.Lookup(key); known {
		if !e.Present {
			cacheTombstoneMasked.Inc()
			return nil, false, nil
		}
		return e.Value, true, nil
	}

	ctx, cancel := s.callContext()
	defer cancel()
	value, found, err := s.durable.Get(ctx, s.collection, key)
	if err != nil {
		durableGetFailures.Inc()
		Logger.Warningf("durable get of %q failed, reporting not found: %v", key, err)
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}

	if s.cache.PutIfAbsent(key, value) {
		cacheBackfills.Inc()
		return value, true, nil
	}
	// a concurrent write or delete won the race against the durable read
	value, found = s.cache.Get(key)
	return value, found, nil
}

// Delete tombstones the key in the cache, then appends a DELETE record and removes
// the durable row. Existed reflects the cache only.
func (s *storeImpl) Delete(key string) (store.DeleteResult, error) {
	if err := validateKey(key); err != nil {
		return store.DeleteResult{}, err
	}
	deleteRequests.Inc()

	res := store.DeleteResult{Existed: s.cache.Delete(key)}

	res.Replicated = s.appendLog(replog.Record{Op: replog.OpDelete, Key: key, Value: []byte{}, Producer: s.producer})

	ctx, cancel := s.callContext()
	defer cancel()
	if _, err := s.durable.Delete(ctx, s.collection, key); err != nil {
		durableDelFailures.Inc()
		Logger.Warningf("durable delete of %q failed, stale row remains: %v", key, err)
	} else {
		res.Persisted = true
	}
	return res, nil
}

// Scan returns the cache snapshot. Keys that only exist in the durable store are
// not included.
func (s *storeImpl) Scan() (map[string][]byte, error) {
	scanRequests.Inc()
	return s.cache.Scan(), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (s *storeImpl) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *storeImpl) appendLog(rec replog.Record) bool {
	ctx, cancel := s.callContext()
	defer cancel()

	if err := s.log.Append(ctx, rec); err != nil {
		logAppendFailures.Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			Logger.Warningf("log append of %s %q timed out after %s", rec.Op, rec.Key, s.timeout)
		} else {
			Logger.Warningf("log append of %s %q failed: %v", rec.Op, rec.Key, err)
		}
		return false
	}
	return true
}
