package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// Locked runs fn while holding an exclusive advisory lock on path. It waits for
// other holders until ctx is done.
func Locked(ctx context.Context, path string, fn func() error) error {
	lock := flock.New(LockPath(path))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", path)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}
