// Package lockfile writes translation files under an exclusive lock.
//
// Writers in the same process are serialized per path with a mutex; on
// unix systems an exclusive flock additionally keeps other processes that
// honor the lock from interleaving with the write.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// locks maps an absolute path to its *sync.Mutex.
var locks sync.Map

func pathLock(path string) *sync.Mutex {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}
	mu, _ := locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// WriteFile replaces the contents of path with data. Missing parent
// directories are created. The file is opened without truncation, locked,
// and only then truncated, so a concurrent locked reader never sees a
// half-written file.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	mu := pathLock(path)
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := lock(f); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer unlock(f)

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	return nil
}
