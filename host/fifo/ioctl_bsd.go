//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package fifo

import "golang.org/x/sys/unix"

// pendingBytes returns the number of unread bytes buffered in a pipe.
func pendingBytes(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.FIONREAD)
}
