package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a held lock. Calling it more than once is safe; only
// the first call releases.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates session ownership across processes. Lock
// blocks until the lock is acquired, the TTL strategy gives up, or ctx is
// done. A successful acquisition returns the release function.
//
// Single-process deployments can leave this nil; the session manager then
// falls back to in-process mutexes only.
type DistributedLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
