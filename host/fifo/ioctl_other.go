//go:build unix && !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package fifo

import "errors"

// pendingBytes is not available on this platform. Callers treat the error
// as "stop waiting".
func pendingBytes(fd int) (int, error) {
	return 0, errors.ErrUnsupported
}
