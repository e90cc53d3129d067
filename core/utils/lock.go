package utils

import (
	"fmt"
	"path/filepath"

	"dat-matcher/core/reconcile"

	"github.com/gofrs/flock"
)

// LockFileName is the lock file created in an output root while a run is active.
const LockFileName = reconcile.LockFileName

// OutputLock is an exclusive lock on an output directory.
type OutputLock struct {
	lock *flock.Flock
}

// LockOutput takes the lock for dir without blocking. A lock held by another
// process is a configuration error.
func LockOutput(dir string) (*OutputLock, error) {
	path := filepath.Join(dir, LockFileName)
	l := flock.New(path)

	ok, err := l.TryLock()
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrIO, "lock", path, err)
	}
	if !ok {
		return nil, reconcile.Wrap(reconcile.ErrConfig, "lock", fmt.Sprintf("another run is using %s", dir), nil)
	}
	return &OutputLock{lock: l}, nil
}

// Path returns the lock file path.
func (o *OutputLock) Path() string {
	return o.lock.Path()
}

// Release unlocks. The lock file itself is left behind and skipped by the walk.
func (o *OutputLock) Release() error {
	if o == nil || o.lock == nil {
		return nil
	}
	return o.lock.Unlock()
}
