package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/scope/pkg/ports"
)

// DefaultPollInterval is how often a contended lock is retried.
const DefaultPollInterval = 10 * time.Millisecond

type lease struct {
	token   uint64
	expires time.Time // zero means no expiry
}

// Locker implements ports.Locker in memory.
// Safe for concurrent use. Useful for tests and single-replica deployments.
type Locker struct {
	mu     sync.Mutex
	leases map[string]lease
	next   uint64
	poll   time.Duration
	now    func() time.Time
}

// NewLocker creates a new in-memory locker.
func NewLocker() *Locker {
	return &Locker{
		leases: make(map[string]lease),
		poll:   DefaultPollInterval,
		now:    time.Now,
	}
}

// Lock acquires the lock for key, polling until it is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	for {
		if token, ok := l.tryLock(key, ttl); ok {
			return func(context.Context) error {
				l.unlock(key, token)
				return nil
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.poll):
		}
	}
}

// Held reports whether key is currently locked.
func (l *Locker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.leases[key]
	return ok && !l.expired(cur)
}

func (l *Locker) tryLock(key string, ttl time.Duration) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.leases[key]; ok && !l.expired(cur) {
		return 0, false
	}

	l.next++
	ls := lease{token: l.next}
	if ttl > 0 {
		ls.expires = l.now().Add(ttl)
	}
	l.leases[key] = ls
	return ls.token, true
}

func (l *Locker) unlock(key string, token uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Only the current owner may release; an expired owner's unlock is ignored.
	if cur, ok := l.leases[key]; ok && cur.token == token {
		delete(l.leases, key)
	}
}

func (l *Locker) expired(ls lease) bool {
	return !ls.expires.IsZero() && !l.now().Before(ls.expires)
}
