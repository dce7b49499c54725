package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	log "github.com/sul-dlss/ld4p-deploy/pkg/logger"
)

const (
	retryInterval = 10 * time.Millisecond
	lockDirName   = "ld4p-deploy"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// RunLock serializes runs for one application on this machine.
type RunLock struct {
	lock *flock.Flock
}

// PathFor returns the lock file used for application, under the XDG runtime dir
// or the temp dir when that cannot be created.
func PathFor(application string) string {
	name := "ld4p-deploy-" + unsafeChars.ReplaceAllString(application, "_") + ".lock"
	path, err := xdg.RuntimeFile(filepath.Join(lockDirName, name))
	if err != nil {
		log.Trace("XDG runtime dir unavailable, locking in the temp dir", "error", err)
		return filepath.Join(os.TempDir(), name)
	}
	return path
}

// Acquire takes the lock at path, retrying for up to wait.
// A lock still held after that is ErrRunLocked.
func Acquire(path string, wait time.Duration) (*RunLock, error) {
	fl := flock.New(path)
	deadline := time.Now().Add(wait)

	for {
		locked, err := fl.TryLock()
		if err != nil {
			return nil, errors.Join(errUtils.ErrRunLocked, err)
		}
		if locked {
			log.Trace("Acquired run lock", "path", path)
			return &RunLock{lock: fl}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s", errUtils.ErrRunLocked, path)
		}
		time.Sleep(retryInterval)
	}
}

// Release drops the lock. The lock file is left in place for the next run.
func (l *RunLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		log.Trace("Failed to release run lock", "error", err, "path", l.lock.Path())
		return err
	}
	return nil
}
