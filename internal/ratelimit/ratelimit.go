// Package ratelimit counts events per identity inside a fixed window.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter admits at most a fixed number of events per key per window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type window struct {
	count     int
	expiresAt time.Time
}

// MemoryLimiter keeps counters in process. Expired counters are evicted lazily.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	ttl     time.Duration
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryLimiter(limit int, ttl time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		ttl:     ttl,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	w, ok := l.windows[key]
	if !ok {
		w = &window{expiresAt: now.Add(l.ttl)}
		l.windows[key] = w
	}
	if w.count >= l.limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// Len reports how many live counters are held.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *MemoryLimiter) evict(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}

// RedisLimiter shares counters between instances.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	ttl    time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, ttl time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, ttl: ttl}
}

// incrWindow counts a hit and opens the window in the same step. A counter
// left without an expiry is given one, so no key outlives its window for good.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := incrWindow.Run(ctx, l.client, []string{l.prefix + key}, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= int64(l.limit), nil
}

// NewRedisClient builds a client for addr. Connectivity is checked on first use.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
}
