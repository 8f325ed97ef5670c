package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_ExclusiveUntilUnlocked(t *testing.T) {
	l := NewMemoryLocker(time.Minute)
	ctx := context.Background()

	unlock, err := l.TryLock(ctx, "publish:a1")
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "publish:a1")
	assert.ErrorIs(t, err, ErrLockHeld)

	other, err := l.TryLock(ctx, "publish:a2")
	require.NoError(t, err)
	other()

	unlock()
	again, err := l.TryLock(ctx, "publish:a1")
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_ExpiredLockCanBeTaken(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLocker(time.Minute)
	l.clock = func() time.Time { return now }
	ctx := context.Background()

	staleUnlock, err := l.TryLock(ctx, "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	unlock, err := l.TryLock(ctx, "k")
	require.NoError(t, err)

	// releasing the expired holder must not free the new one
	staleUnlock()
	_, err = l.TryLock(ctx, "k")
	assert.ErrorIs(t, err, ErrLockHeld)
	unlock()
}

func TestMemoryLocker_HeldLockOutlivesTTL(t *testing.T) {
	l := NewMemoryLocker(60 * time.Millisecond)
	ctx := context.Background()

	unlock, err := l.TryLock(ctx, "publish:slow")
	require.NoError(t, err)

	// a slow publish keeps its lock past the TTL
	time.Sleep(250 * time.Millisecond)
	_, err = l.TryLock(ctx, "publish:slow")
	assert.ErrorIs(t, err, ErrLockHeld)

	unlock()
	again, err := l.TryLock(ctx, "publish:slow")
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_UnlockIsIdempotent(t *testing.T) {
	l := NewMemoryLocker(30 * time.Millisecond)

	unlock, err := l.TryLock(context.Background(), "k")
	require.NoError(t, err)
	unlock()
	assert.NotPanics(t, unlock)
}

func TestRedisLocker(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLocker(client, "pressdeck-test:"+t.Name()+":", 300*time.Millisecond)

	unlock, err := l.TryLock(ctx, "article-1")
	require.NoError(t, err)

	time.Sleep(time.Second)
	_, err = l.TryLock(ctx, "article-1")
	assert.ErrorIs(t, err, ErrLockHeld)

	unlock()
	again, err := l.TryLock(ctx, "article-1")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	_, err := NewRedisLocker(client, "p:", time.Minute).TryLock(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockHeld)
}
