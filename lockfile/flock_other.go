//go:build !unix

package lockfile

import "os"

// lock is a no-op where flock is unavailable; the in-process mutex is the
// only protection there.
func lock(*os.File) error { return nil }

func unlock(*os.File) {}
