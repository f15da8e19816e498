package durable

import (
	"context"
	"fmt"
	"regexp"

	"github.com/lni/dragonboat/v4/logger"
)

// Logger is shared by the durable store adapters.
var Logger = logger.GetLogger("durable")

// DefaultCollection is the collection (table) name used when none is configured.
const DefaultCollection = "kv_store"

// IDurableStore is the persistent system of record. Every call is its own atomic
// unit; there are no multi-call transactions. Backend failures are returned as
// errors and must never panic.
type IDurableStore interface {
	// Init creates the collection if it does not exist. It is idempotent.
	Init(ctx context.Context, collection string) error
	// Put inserts or overwrites the value of key.
	Put(ctx context.Context, collection, key string, value []byte) error
	// Get returns the stored value of key.
	Get(ctx context.Context, collection, key string) (value []byte, found bool, err error)
	// Delete removes key and reports whether a row existed.
	Delete(ctx context.Context, collection, key string) (existed bool, err error)
	// Close releases all connections and handles.
	Close() error
}

var collectionPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateCollection checks that name is usable as a table identifier in every backend.
func ValidateCollection(name string) error {
	if !collectionPattern.MatchString(name) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}
