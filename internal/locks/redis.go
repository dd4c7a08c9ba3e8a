package locks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyLock = "handbookqa:lock:%s"

	defaultLockTTL      = 2 * time.Minute
	defaultPollInterval = 50 * time.Millisecond
)

// deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extends the key only while it still holds our token
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker serializes writes across server replicas. A held lock is
// renewed every third of its TTL until released, so the TTL only bounds how
// long a crashed holder blocks the key.
type RedisLocker struct {
	client       *redis.Client
	ttl          time.Duration
	pollInterval time.Duration
}

var _ Locker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	return &RedisLocker{
		client:       client,
		ttl:          ttl,
		pollInterval: defaultPollInterval,
	}
}

// creates a redis client from a URL and checks the connection
func NewRedisClientFromURL(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // G104: error path cleanup
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// polls SET NX until the lock is free or ctx is done
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := fmt.Sprintf(keyLock, key)
	token := uuid.NewString()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if ok {
			return l.hold(lockKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// hold starts the renewal loop and returns the idempotent unlock func
func (l *RedisLocker) hold(lockKey, token string) func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go l.keepAlive(lockKey, token, stop, done)

	var once sync.Once

	return func() {
		once.Do(func() {
			close(stop)
			<-done
			l.release(lockKey, token)
		})
	}
}

func (l *RedisLocker) keepAlive(lockKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := l.ttl / 3

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		held, err := renewScript.Run(ctx, l.client, []string{lockKey}, token, l.ttl.Milliseconds()).Int()
		cancel()

		if err != nil {
			logger.WarnErr(err, "failed to renew lock", "key", lockKey)
			continue
		}

		if held == 0 {
			logger.Warn("lock expired before release", "key", lockKey)
			return
		}
	}
}

// release runs on its own context so a canceled request still frees the lock
func (l *RedisLocker) release(lockKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err(); err != nil {
		logger.WarnErr(err, "failed to release lock", "key", lockKey)
	}
}
