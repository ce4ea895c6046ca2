package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/scope/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
)

// DefaultPollInterval is how often a contended lock is retried.
const DefaultPollInterval = 100 * time.Millisecond

// unlockScript deletes the key only if we still own it.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Locker implements ports.Locker using Redis.
type Locker struct {
	client       *backend.Client
	prefix       string
	pollInterval time.Duration
}

// LockerOption configures a Locker.
type LockerOption func(*Locker)

// WithPollInterval changes how often a contended lock is retried.
func WithPollInterval(d time.Duration) LockerOption {
	return func(l *Locker) {
		if d > 0 {
			l.pollInterval = d
		}
	}
}

// NewLocker creates a new Redis locker. Keys are stored as prefix + "lock:" + key.
func NewLocker(client *backend.Client, prefix string, opts ...LockerOption) *Locker {
	l := &Locker{
		client:       client,
		prefix:       prefix,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires a lock for the given key using Redis SET NX PX.
// The value is a random token so the returned UnlockFunc never deletes a lock
// that expired and was taken over by someone else.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		success, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLockAcquire, key, err)
		}
		if success {
			return func(ctx context.Context) error {
				return l.client.Eval(ctx, unlockScript, []string{lockKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
