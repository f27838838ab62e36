package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrTimeout is returned when the lock could not be taken before the wait ran out.
var ErrTimeout = errors.New("lock wait timed out")

// release deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a SET NX PX lock shared by every API instance on the same Redis.
// TTL bounds how long a crashed holder blocks others.
type Locker struct {
	rdb    redis.Cmdable
	TTL    time.Duration
	Wait   time.Duration
	Retry  time.Duration
	Logger *logrus.Logger
}

func New(rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Locker{rdb: rdb, TTL: ttl, Wait: ttl, Retry: 25 * time.Millisecond, Logger: logger}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.Wait)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, key)
		}
		t := time.NewTimer(l.Retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return func() {
		// the request context may already be cancelled here
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			l.Logger.WithError(err).WithField("key", key).Warn("failed to release lock")
		}
	}, nil
}
