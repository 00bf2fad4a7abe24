//go:build unix

package pkg

import (
	"errors"

	"golang.org/x/sys/unix"
)

// errnoTable maps sentinel errors to the errno a character device driver
// would return for them. Order matters: the first match wins.
var errnoTable = []struct {
	err   error
	errno unix.Errno
}{
	{ErrBusy, unix.EBUSY},
	{ErrNotSupported, unix.EINVAL},
	{ErrFault, unix.EFAULT},
	{ErrNoDevice, unix.ENODEV},
	{ErrClosed, unix.EBADF},
	{ErrInUse, unix.ETXTBSY},
	{ErrAlreadyRegistered, unix.EEXIST},
	{ErrNotRegistered, unix.ENOENT},
	{ErrInvalidParameter, unix.ERANGE},
	{ErrBufferTooSmall, unix.EMSGSIZE},
	{ErrNoResources, unix.ENOSPC},
	{ErrProtocol, unix.EPROTO},
}

// Errno returns the errno for err. A nil error maps to 0, and an error
// outside the sentinel set maps to EIO.
func Errno(err error) unix.Errno {
	if err == nil {
		return 0
	}
	for _, e := range errnoTable {
		if errors.Is(err, e.err) {
			return e.errno
		}
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return unix.EIO
}

// FromErrno returns the sentinel error for errno. Errnos without a sentinel
// are returned as-is, and 0 maps to nil.
func FromErrno(errno unix.Errno) error {
	if errno == 0 {
		return nil
	}
	for _, e := range errnoTable {
		if e.errno == errno {
			return e.err
		}
	}
	return errno
}
