package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) *Locker {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client)
}

func TestAcquireAccountLocks_GrantsAllOnFreshKeys(t *testing.T) {
	locker := newTestLocker(t)
	ctx := context.Background()

	tokens, err := locker.AcquireAccountLocks(ctx, []string{"b-account", "a-account"}, time.Second)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	require.NotEmpty(t, tokens["a-account"])
	require.NotEmpty(t, tokens["b-account"])
	require.NotEqual(t, tokens["a-account"], tokens["b-account"])
}

func TestAcquireAccountLocks_PartialConflictReleasesWhatItTook(t *testing.T) {
	locker := newTestLocker(t)
	ctx := context.Background()

	// Pre-hold the lexicographically second key, so acquisition order
	// (sorted) takes "a-account" first, then fails on "b-account".
	held, err := locker.AcquireAccountLocks(ctx, []string{"b-account"}, time.Minute)
	require.NoError(t, err)

	_, err = locker.AcquireAccountLocks(ctx, []string{"a-account", "b-account"}, time.Second)
	require.ErrorIs(t, err, ErrAcquireTimeout)

	// "a-account" must have been released again since the overall call failed.
	tokens, err := locker.AcquireAccountLocks(ctx, []string{"a-account"}, time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, tokens["a-account"])

	locker.ReleaseAccountLocks(ctx, held)
	locker.ReleaseAccountLocks(ctx, tokens)
}

func TestReleaseAccountLocks_OnlyDeletesMatchingToken(t *testing.T) {
	locker := newTestLocker(t)
	ctx := context.Background()

	tokens, err := locker.AcquireAccountLocks(ctx, []string{"acct-1"}, time.Minute)
	require.NoError(t, err)

	// Simulate the lock having expired and been re-acquired by someone else
	// with a different token.
	stale := map[string]string{"acct-1": "not-the-real-token"}
	errs := locker.ReleaseAccountLocks(ctx, stale)
	require.Empty(t, errs)

	// The real holder's lock must still be held: a fresh acquire attempt fails.
	_, err = locker.AcquireAccountLocks(ctx, []string{"acct-1"}, time.Second)
	require.ErrorIs(t, err, ErrAcquireTimeout)

	locker.ReleaseAccountLocks(ctx, tokens)

	// Now that the real token released it, acquisition succeeds again.
	_, err = locker.AcquireAccountLocks(ctx, []string{"acct-1"}, time.Second)
	require.NoError(t, err)
}

func TestAcquireAccountLocks_AcceptsEitherInputOrder(t *testing.T) {
	locker := newTestLocker(t)
	ctx := context.Background()

	tokensA, err := locker.AcquireAccountLocks(ctx, []string{"z", "a"}, time.Second)
	require.NoError(t, err)
	locker.ReleaseAccountLocks(ctx, tokensA)

	tokensB, err := locker.AcquireAccountLocks(ctx, []string{"a", "z"}, time.Second)
	require.NoError(t, err)
	locker.ReleaseAccountLocks(ctx, tokensB)
}
