package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/99minutos/address-verification/internal/core/ports"
)

const defaultLockTTL = time.Minute

// releaseScript deletes the lock only if it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LocationLocker serializes verifications of one location across processes.
// Key format: lock:location:<location_id>
type LocationLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ ports.LocationLocker = (*LocationLocker)(nil)

// NewLocationLocker creates a LocationLocker. ttl bounds how long a crashed
// holder can block a location; a default applies when zero.
func NewLocationLocker(client redis.UniversalClient, ttl time.Duration) *LocationLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &LocationLocker{client: client, ttl: ttl}
}

// Acquire takes the lock with SET NX. ok is false when another holder has it.
func (l *LocationLocker) Acquire(ctx context.Context, locationID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(locationID), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lock if token still owns it.
func (l *LocationLocker) Release(ctx context.Context, locationID, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey(locationID)}, token).Err(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

func lockKey(locationID string) string {
	return "lock:location:" + locationID
}
