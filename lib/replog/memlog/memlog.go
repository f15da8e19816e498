package memlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ValentinKolb/rKV/lib/replog"
	"github.com/puzpuzpuz/xsync/v3"
)

// ErrClosed is returned by every operation after the broker or the subscription was closed.
var ErrClosed = errors.New("memlog: closed")

// --------------------------------------------------------------------------
// Broker
// --------------------------------------------------------------------------

// group is the shared read position of a consumer group, guarded by brokerImpl.mu.
type group struct {
	offset int
}

type brokerImpl struct {
	mu      sync.Mutex
	records [][]byte      // serialized records, never modified after append
	notify  chan struct{} // closed and replaced on every append
	closed  bool

	groups *xsync.MapOf[string, *group]
}

// NewBroker creates an empty in-process log. New consumer groups start at the
// first record, so a late subscriber replays the full history.
func NewBroker() replog.ILog {
	return &brokerImpl{
		notify: make(chan struct{}),
		groups: xsync.NewMapOf[string, *group](),
	}
}

// Append stores a serialized copy of rec and wakes all waiting consumers.
func (b *brokerImpl) Append(ctx context.Context, rec replog.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !rec.Op.Valid() {
		return errors.New("memlog: invalid op " + rec.Op.String())
	}
	data := rec.Serialize()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.records = append(b.records, data)
	close(b.notify)
	b.notify = make(chan struct{})
	return nil
}

// Subscribe joins group, creating it on first use.
func (b *brokerImpl) Subscribe(groupID string) (replog.ISubscription, error) {
	if groupID == "" {
		return nil, errors.New("memlog: consumer group must not be empty")
	}
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	g, _ := b.groups.LoadOrCompute(groupID, func() *group { return &group{} })
	replog.Logger.Debugf("memlog: subscribed to group %q", groupID)
	return &subscriptionImpl{broker: b, group: g}, nil
}

// Close wakes all waiting consumers, which then return ErrClosed.
func (b *brokerImpl) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.notify)
	return nil
}

// --------------------------------------------------------------------------
// Subscription
// --------------------------------------------------------------------------

type subscriptionImpl struct {
	broker *brokerImpl
	group  *group
	closed bool // guarded by broker.mu
}

// Poll returns the next record of the group or waits until one is appended,
// the timeout elapses or ctx is done.
func (s *subscriptionImpl) Poll(ctx context.Context, timeout time.Duration) (replog.Record, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		data, wait, err := s.next()
		if err != nil {
			return replog.Record{}, false, err
		}
		if data != nil {
			var rec replog.Record
			if err := rec.Deserialize(data); err != nil {
				return replog.Record{}, false, fmt.Errorf("%w: %w", replog.ErrMalformedRecord, err)
			}
			return rec, true, nil
		}

		select {
		case <-wait:
		case <-timer.C:
			return replog.Record{}, false, nil
		case <-ctx.Done():
			return replog.Record{}, false, ctx.Err()
		}
	}
}

// next claims the record at the group offset, or returns the channel to wait on.
func (s *subscriptionImpl) next() ([]byte, <-chan struct{}, error) {
	b := s.broker
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.closed || b.closed {
		return nil, nil, ErrClosed
	}
	if s.group.offset < len(b.records) {
		data := b.records[s.group.offset]
		s.group.offset++
		return data, nil, nil
	}
	return nil, b.notify, nil
}

// Close detaches the subscription. The group keeps its offset.
func (s *subscriptionImpl) Close() error {
	s.broker.mu.Lock()
	s.closed = true
	s.broker.mu.Unlock()
	return nil
}
