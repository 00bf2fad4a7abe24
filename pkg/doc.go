// Package pkg provides shared utilities for the softchar device stack.
//
// This package contains common functionality used by the device, the host
// framework and the FIFO bus, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for device and host failures
//   - Errno mapping for the FIFO bus wire format
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with component context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentDevice, "loaded", "major", 254)
//
// # Errors
//
// Errors are sentinel values tested with [errors.Is]:
//
//	if errors.Is(err, pkg.ErrBusy) {
//	    // Another session is open; try again later
//	}
//
// On unix, [Errno] and [FromErrno] translate the sentinels to and from the
// errno a kernel driver would return (EBUSY, EINVAL, EFAULT, ...).
package pkg
