// Package lock implements the gateway's distributed account lock: a
// Redis SET NX PX per account plus a Lua compare-and-delete on release, so a
// transfer never partially applies while another transfer touching either
// account is also running.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "acctlock:"
	DefaultTTL = 10 * time.Second
)

var ErrAcquireTimeout = errors.New("lock: could not acquire all account locks")

// releaseScript only deletes a key if its value still matches the token this
// process set, so releasing never clobbers a lock some other holder has
// since acquired after this one's TTL expired.
var releaseScript = redis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
	return redis.call('del', KEYS[1])
else
	return 0
end`)

// Connect parses url and pings the server once, failing fast at startup
// rather than lazily dialing on first use.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("lock: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("lock: ping redis: %w", err)
	}
	return client, nil
}

type Locker struct {
	client *redis.Client
}

func New(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// AcquireAccountLocks locks every account in accountIDs, always in sorted
// order, so two transfers over the same pair of accounts never deadlock by
// acquiring them in opposite order. On any failure it releases whatever it
// had already acquired before returning ErrAcquireTimeout.
func (l *Locker) AcquireAccountLocks(ctx context.Context, accountIDs []string, ttl time.Duration) (map[string]string, error) {
	sorted := append([]string(nil), accountIDs...)
	sort.Strings(sorted)

	acquired := make(map[string]string, len(sorted))
	for _, id := range sorted {
		token := uuid.NewString()
		ok, err := l.client.SetNX(ctx, keyPrefix+id, token, ttl).Result()
		if err != nil {
			l.ReleaseAccountLocks(context.WithoutCancel(ctx), acquired)
			return nil, fmt.Errorf("lock: set %s: %w", id, err)
		}
		if !ok {
			l.ReleaseAccountLocks(context.WithoutCancel(ctx), acquired)
			return nil, ErrAcquireTimeout
		}
		acquired[id] = token
	}
	return acquired, nil
}

// ReleaseAccountLocks best-effort releases every lock in tokens. Callers run
// this from a defer after acquiring; a release failure is logged by the
// caller, never treated as fatal, since the TTL bounds how long a stuck lock
// can outlive its holder.
func (l *Locker) ReleaseAccountLocks(ctx context.Context, tokens map[string]string) map[string]error {
	var errs map[string]error
	for id, token := range tokens {
		if err := releaseScript.Run(ctx, l.client, []string{keyPrefix + id}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			if errs == nil {
				errs = make(map[string]error)
			}
			errs[id] = err
		}
	}
	return errs
}
