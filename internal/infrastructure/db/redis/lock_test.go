package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockKey(t *testing.T) {
	assert.Equal(t, "lock:location:abc-123", lockKey("abc-123"))
}

func TestNewLocationLocker_DefaultTTL(t *testing.T) {
	l := NewLocationLocker(nil, 0)
	assert.Equal(t, defaultLockTTL, l.ttl)

	l = NewLocationLocker(nil, time.Minute)
	assert.Equal(t, time.Minute, l.ttl)
}

func TestLocationLocker_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	l := NewLocationLocker(client, time.Second)

	token, ok, err := l.Acquire(context.Background(), "loc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire lock")
	assert.False(t, ok)
	assert.Empty(t, token)

	err = l.Release(context.Background(), "loc-1", "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "release lock")
}

func TestConnect_RequiresAddr(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping 127.0.0.1:1")
}
