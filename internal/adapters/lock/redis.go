package lock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"water-route-service/internal/ports"
)

var _ ports.Locker = (*RedisLocker)(nil)

// Deletes the key only while it still holds our token, so a lock that expired
// and was taken by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every replica pointing at the same Redis.
type RedisLocker struct {
	client      redis.Cmdable
	prefix      string
	ttl         time.Duration
	waitTimeout time.Duration
	pollEvery   time.Duration
	logger      *slog.Logger
}

type RedisOption func(*RedisLocker)

func WithPrefix(prefix string) RedisOption {
	return func(l *RedisLocker) { l.prefix = prefix }
}

// WithWaitTimeout bounds how long Lock waits for a held key before giving up with ports.ErrLockBusy.
func WithWaitTimeout(d time.Duration) RedisOption {
	return func(l *RedisLocker) { l.waitTimeout = d }
}

func WithLockLogger(logger *slog.Logger) RedisOption {
	return func(l *RedisLocker) { l.logger = logger }
}

func NewRedisLocker(client redis.Cmdable, ttl time.Duration, opts ...RedisOption) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("new redis locker: client is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("new redis locker: ttl must be positive, got %s", ttl)
	}

	l := &RedisLocker{
		client:      client,
		prefix:      "water-route:lock:",
		ttl:         ttl,
		waitTimeout: 5 * time.Second,
		pollEvery:   25 * time.Millisecond,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.waitTimeout)
	defer cancel()

	backoff := l.pollEvery
	for {
		ok, err := l.tryAcquire(waitCtx, redisKey, token)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("lock %q: %w", key, ports.ErrLockBusy)
			}
			return nil, fmt.Errorf("lock %q: %w", key, err)
		}
		if ok {
			return l.unlocker(redisKey, token), nil
		}

		timer := time.NewTimer(backoff)
		select {
		case <-waitCtx.Done():
			timer.Stop()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("lock %q: %w", key, ports.ErrLockBusy)
		case <-timer.C:
		}

		if backoff < 16*l.pollEvery {
			backoff *= 2
		}
	}
}

// tryAcquire retries transient network failures using exponential backoff
// while respecting context cancellation.
func (l *RedisLocker) tryAcquire(ctx context.Context, key, token string) (bool, error) {
	const maxAttempts = 4
	backoff := 50 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err == nil {
			return ok, nil
		}
		lastErr = err

		var netErr net.Error
		if !errors.As(err, &netErr) || attempt == maxAttempts {
			return false, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return false, lastErr
}

func (l *RedisLocker) unlocker(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be cancelled; release on our own budget.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("lock release failed", slog.String("lock.key", key), slog.String("error", err.Error()))
			}
		})
	}
}
