package support

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultLeadershipTTL = 45 * time.Second

	acquireRetryDelay = time.Second
	redisOpTimeout    = 5 * time.Second
)

var holderSeq atomic.Uint64

// Renewal and release both check the stored holder id first so a lock that
// expired and was taken over by another instance is never touched.
var (
	renewLeaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

	releaseLeaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)
)

// RunWithLeader runs fn whenever this instance holds the named Redis lock.
// The context handed to fn is cancelled as soon as a renewal fails, so the
// work stops before another instance can take the lease over. Returns only
// when ctx is done or the Redis client cannot be created at all.
func RunWithLeader(ctx context.Context, key string, ttl time.Duration, fn func(context.Context)) error {
	if fn == nil {
		return errors.New("support: leader function cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if ttl <= 0 {
		ttl = DefaultLeadershipTTL
	}

	client, err := GetRedisClient()
	if err != nil {
		return fmt.Errorf("support: leadership redis client: %w", err)
	}

	holder := fmt.Sprintf("%s-%d-%d-%d", hostname(), os.Getpid(), time.Now().UnixNano(), holderSeq.Add(1))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		acquired, err := client.SetNX(ctx, key, holder, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("leadership: acquire failed", "key", key, "error", err)
		}
		if err != nil || !acquired {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(acquireRetryDelay):
			}
			continue
		}

		log.Debug("leadership: acquired", "key", key)
		leadAs(ctx, client, key, holder, ttl, fn)
		log.Debug("leadership: released", "key", key)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(acquireRetryDelay):
		}
	}
}

// leadAs holds the lease for the duration of fn, renewing it at a third of
// the TTL and releasing it when fn returns.
func leadAs(ctx context.Context, client *redis.Client, key, holder string, ttl time.Duration, fn func(context.Context)) {
	leaseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	renewEvery := ttl / 3
	if renewEvery < time.Second {
		renewEvery = time.Second
	}

	renewDone := make(chan struct{})
	go func() {
		defer close(renewDone)
		ticker := time.NewTicker(renewEvery)
		defer ticker.Stop()

		for {
			select {
			case <-leaseCtx.Done():
				return
			case <-ticker.C:
				if err := renewLease(client, key, holder, ttl); err != nil {
					log.Warn("leadership: lease lost", "key", key, "error", err)
					cancel()
					return
				}
			}
		}
	}()

	fn(leaseCtx)

	cancel()
	<-renewDone
	releaseLease(client, key, holder)
}

func renewLease(client *redis.Client, key, holder string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	res, err := renewLeaseScript.Run(ctx, client, []string{key}, holder, ttl.Milliseconds()).Result()
	if err != nil {
		return err
	}
	if n, ok := res.(int64); ok && n == 0 {
		return errors.New("lease held by another instance")
	}
	return nil
}

func releaseLease(client *redis.Client, key, holder string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if _, err := releaseLeaseScript.Run(ctx, client, []string{key}, holder).Result(); err != nil && !errors.Is(err, redis.Nil) {
		log.Warn("leadership: release failed", "key", key, "error", err)
	}
}

func hostname() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}
