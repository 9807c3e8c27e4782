//go:build unix

package lockfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// lock blocks until an exclusive flock on f is held.
func lock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

// unlock releases the flock. Closing f releases it as well, so errors are
// ignored.
func unlock(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
