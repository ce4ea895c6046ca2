package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock acquired through a Locker.
type UnlockFunc func(ctx context.Context) error

// Locker defines the interface for keyed mutual exclusion.
// It lets pkg/section coordinate access across goroutines or across replicas.
type Locker interface {
	// Lock attempts to acquire a lock for the given key.
	// It blocks until the lock is acquired or the context is canceled.
	// The lock expires on its own after ttl (implementations may treat ttl <= 0 as "no expiry").
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
