package application

import "context"

// Locker serializes work on a key across request handlers. The returned
// unlock func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// NopLocker does not lock. Concurrent creates for the same user may both
// pass the conflict check and both commit.
type NopLocker struct{}

func (NopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

func scheduleLockKey(userID string) string {
	return "schedule:user:" + userID
}
