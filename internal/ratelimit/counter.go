package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter tracks per-key hits inside a fixed window. Incr returns the hit
// count including the current one; the count resets once the window elapses.
// Increments for the same key must be atomic.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

var incrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count`)

// RedisCounter shares window state across instances. The INCR and the expiry
// of the first hit run in one Lua script so concurrent requests near the
// window boundary cannot under- or over-count.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	result, err := incrScript.Run(ctx, c.client, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}

	count, ok := result.(int64)
	if !ok {
		return 0, nil
	}
	return count, nil
}

// MemoryCounter is a process-local Counter used in tests and when Redis is not
// reachable at startup.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	count   int64
	started time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	w, found := c.windows[key]
	if !found || now.Sub(w.started) >= window {
		w = &memoryWindow{started: now}
		c.windows[key] = w
	}

	w.count++
	return w.count, nil
}
