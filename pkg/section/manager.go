package section

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/scope"
	"github.com/aretw0/scope/internal/logging"
	"github.com/aretw0/scope/pkg/ports"
)

// DefaultTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultTTL = 30 * time.Second

// entry holds the one-slot semaphore and the reference count.
type entry struct {
	sem  chan struct{}
	refs int
}

// Lease is a held critical section.
type Lease struct {
	Key    string
	entry  *entry
	unlock ports.UnlockFunc // releases the distributed lock, if any
	ctx    context.Context
}

// Manager orchestrates keyed critical sections.
// It uses reference counting to garbage collect unused entries.
type Manager struct {
	mu      sync.Mutex        // Global lock for the map
	entries map[string]*entry // Map of active entries

	locker ports.Locker // Optional distributed locker
	ttl    time.Duration
	logger *slog.Logger // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithTTL sets the expiry passed to the distributed locker.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new section Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		entries: make(map[string]*entry),
		ttl:     DefaultTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enter returns a single-pass critical section for key:
//
//	for _, err := range mgr.Enter(ctx, "pool") {
//		if err != nil {
//			return err
//		}
//		// exclusive
//	}
//
// If ctx is done while waiting for another holder, or the distributed lock
// cannot be taken, the body runs once with the error and nothing is held.
func (m *Manager) Enter(ctx context.Context, key string) iter.Seq2[*Lease, error] {
	return scope.Acquire(m.lockFunc(ctx, key), m.unlock)
}

// WithLock executes fn while holding the critical section for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	return scope.With(m.lockFunc(ctx, key), m.unlock, func(*Lease) error {
		return fn(ctx)
	})
}

// Active returns the number of keys that are held or waited on.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) lockFunc(ctx context.Context, key string) func() (*Lease, error) {
	return func() (*Lease, error) {
		return m.lock(ctx, key)
	}
}

func (m *Manager) lock(ctx context.Context, key string) (*Lease, error) {
	e := m.acquire(key)
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(key)
		return nil, fmt.Errorf("waiting for section %q: %w", key, ctx.Err())
	}

	lease := &Lease{Key: key, entry: e, ctx: ctx}
	if m.locker == nil {
		return lease, nil
	}

	unlock, err := m.locker.Lock(ctx, key, m.ttl)
	if err != nil {
		<-e.sem
		m.release(key)
		return nil, fmt.Errorf("failed to acquire distributed lock for %q: %w", key, err)
	}
	lease.unlock = unlock
	return lease, nil
}

func (m *Manager) unlock(l *Lease) {
	if l.unlock != nil {
		// The caller's context may already be canceled; the lock must still go.
		ctx := context.WithoutCancel(l.ctx)
		if err := l.unlock(ctx); err != nil {
			m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
				"key", l.Key,
				"err", err,
			)
		}
	}
	<-l.entry.sem
	m.release(l.Key)
}

// acquire gets or creates an entry and increments its reference count.
// The caller MUST take entry.sem, and then call release(key) after giving it back.
func (m *Manager) acquire(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entries[key]
	if !exists {
		e = &entry{sem: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entries[key]
	if !exists {
		return // Should not happen if paired correctly
	}

	e.refs--
	if e.refs <= 0 {
		delete(m.entries, key)
	}
}
