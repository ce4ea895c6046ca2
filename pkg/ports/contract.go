package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLockerContract runs a suite of tests to verify that a Locker implementation
// adheres to the defined interface contract.
func RunLockerContract(t *testing.T, locker Locker) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405.000000")
	key := func(name string) string { return fmt.Sprintf("%s-%s", prefix, name) }

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key("basic"), time.Minute)
		require.NoError(t, err, "Lock should not return error")
		require.NotNil(t, unlock)
		require.NoError(t, unlock(ctx), "Unlock should not return error")

		// Lock must be available again
		unlock, err = locker.Lock(ctx, key("basic"), time.Minute)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Contended Lock Honors Context", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key("contended"), time.Minute)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, key("contended"), time.Minute)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		unlockA, err := locker.Lock(ctx, key("a"), time.Minute)
		require.NoError(t, err)
		defer func() { _ = unlockA(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		unlockB, err := locker.Lock(waitCtx, key("b"), time.Minute)
		require.NoError(t, err, "a held key must not block another key")
		require.NoError(t, unlockB(ctx))
	})

	t.Run("Waiter Acquires After Release", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key("handoff"), time.Minute)
		require.NoError(t, err)

		acquired := make(chan error, 1)
		go func() {
			waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			u, err := locker.Lock(waitCtx, key("handoff"), time.Minute)
			if err == nil {
				err = u(ctx)
			}
			acquired <- err
		}()

		time.Sleep(20 * time.Millisecond)
		require.NoError(t, unlock(ctx))
		assert.NoError(t, <-acquired)
	})
}
