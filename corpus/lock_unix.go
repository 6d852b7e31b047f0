//go:build !windows

package corpus

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// lockOutput takes an exclusive advisory lock; errWouldBlock is returned
// when wait is false and another process holds it.
func lockOutput(f *os.File, wait bool) error {
	how := unix.LOCK_EX
	if !wait {
		how |= unix.LOCK_NB
	}
	err := unix.Flock(int(f.Fd()), how)
	if err != nil && (errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN)) {
		return errWouldBlock
	}
	return err
}

func unlockOutput(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
