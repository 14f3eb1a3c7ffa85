package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter. Allow reports whether the caller behind
// key may proceed and, when it may not, how long until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisLimiter(cfg RedisConfig, limit int, window time.Duration) *RedisLimiter {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := "ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()

	if err != nil {
		return false, 0, err
	}

	// first hit opens the window
	if count == 1 {
		err = l.client.Expire(ctx, redisKey, l.window).Err()

		if err != nil {
			return false, 0, err
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()

		if err != nil || ttl < 0 {
			ttl = l.window
		}

		return false, ttl, nil
	}

	return true, 0, nil
}

func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// MemoryLimiter is the single-process fallback used when no redis address is
// configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientBucket),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[key]

	if !ok || now.After(b.windowEnd) {
		l.clients[key] = &clientBucket{
			count:     1,
			windowEnd: now.Add(l.window),
		}

		return true, 0, nil
	}

	if b.count >= l.limit {
		retryAfter := time.Until(b.windowEnd)

		if retryAfter < 0 {
			retryAfter = 0
		}

		return false, retryAfter, nil
	}

	b.count++

	return true, 0, nil
}
