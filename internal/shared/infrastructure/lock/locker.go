// Package lock serializes mutations per key, typically per subscription id.
package lock

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTimeout is returned when a lock could not be taken in time.
var ErrTimeout = errors.New("lock wait timed out")

// Locker hands out exclusive locks by key. The returned unlock func must be
// called exactly once; it is safe to call from a defer.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// SubscriptionKey is the lock key for everything that mutates one subscription.
func SubscriptionKey(id uuid.UUID) string {
	return "subscription:" + id.String()
}
