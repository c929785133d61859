package idcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockFileName = ".catalogid.lock"

// Lock holds exclusive ownership of a cache directory for one run.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the directory lock, retrying until ctx is done.
func Acquire(ctx context.Context, dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	path := filepath.Join(dir, lockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("cache directory %s is locked by another run", dir)
	}
	return &Lock{path: path, lock: fl}, nil
}

// TryAcquire takes the directory lock without waiting.
func TryAcquire(dir string) (*Lock, bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("create cache directory: %w", err)
	}
	path := filepath.Join(dir, lockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Lock{path: path, lock: fl}, true, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks the directory.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release cache lock: %w", err)
	}
	return nil
}
