package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned by TryLock when another holder owns the key
var ErrLockHeld = errors.New("lock held")

// Locker hands out exclusive locks keyed by string. A held lock is renewed
// until it is released; a lock whose holder died expires after its TTL.
type Locker interface {
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}

// MemoryLocker keeps locks in process memory. Suitable for a single instance.
type MemoryLocker struct {
	ttl   time.Duration
	mu    sync.Mutex
	held  map[string]memoryLock
	next  uint64
	clock func() time.Time
}

type memoryLock struct {
	token   uint64
	expires time.Time
}

func NewMemoryLocker(ttl time.Duration) *MemoryLocker {
	return &MemoryLocker{ttl: ttl, held: make(map[string]memoryLock), clock: time.Now}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if existing, ok := l.held[key]; ok && now.Before(existing.expires) {
		return nil, ErrLockHeld
	}

	l.next++
	token := l.next

	l.held[key] = memoryLock{token: token, expires: now.Add(l.ttl)}
	stop := keepAlive(l.ttl, func(context.Context) bool {
		return l.extend(key, token)
	})
	return func() {
		stop()
		l.mu.Lock()
		defer l.mu.Unlock()
		if current, ok := l.held[key]; ok && current.token == token {
			delete(l.held, key)
		}
	}, nil
}

func (l *MemoryLocker) extend(key string, token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.held[key]
	if !ok || current.token != token {
		return false
	}
	current.expires = l.clock().Add(l.ttl)
	l.held[key] = current
	return true
}

// keepAlive calls extend every third of ttl until stop is called or extend
// reports the lock was lost.
func keepAlive(ttl time.Duration, extend func(ctx context.Context) bool) (stop func()) {
	interval := ttl / 3
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				ok := extend(ctx)
				cancel()
				if !ok {
					return
				}
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript renews the key's TTL only if it still holds our token
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker holds locks in Redis so every instance sees them
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisLocker(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

func (l *RedisLocker) TryLock(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", fullKey, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	stop := keepAlive(l.ttl, func(ctx context.Context) bool {
		n, err := extendScript.Run(ctx, l.client, []string{fullKey}, token, l.ttl.Milliseconds()).Int()
		// a transient error keeps trying; only a lost key ends renewal
		return err != nil || n == 1
	})

	return func() {
		stop()
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{fullKey}, token).Err()
	}, nil
}
