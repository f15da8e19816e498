package replog

import (
	"context"
	"errors"
	"time"

	"github.com/lni/dragonboat/v4/logger"
)

// Logger is shared by the log adapters.
var Logger = logger.GetLogger("replog")

// ErrMalformedRecord is wrapped by Poll errors for a record that was consumed
// but could not be decoded. The subscription has moved past it.
var ErrMalformedRecord = errors.New("malformed record")

// ILog is the producer side of a replication log and the factory for consumers.
type ILog interface {
	// Append hands rec to the transport. A nil error means the record was accepted
	// for delivery, not that the log has committed it.
	Append(ctx context.Context, rec Record) error
	// Subscribe joins the consumer group. Every group receives every record once;
	// subscriptions sharing a group split the records between them.
	Subscribe(group string) (ISubscription, error)
	// Close releases the producer side. Open subscriptions must be closed separately.
	Close() error
}

// ISubscription is the consumer side of a replication log.
type ISubscription interface {
	// Poll waits at most timeout for the next record. ok=false with a nil error
	// means the timeout elapsed without a record, which is not an error. A record
	// that cannot be decoded yields an error wrapping ErrMalformedRecord.
	Poll(ctx context.Context, timeout time.Duration) (rec Record, ok bool, err error)
	// Close leaves the consumer group.
	Close() error
}
