package pkg

import "errors"

// Device and host framework errors.
var (
	// ErrBusy indicates the device already has an active session.
	ErrBusy = errors.New("device or resource busy")

	// ErrNotSupported indicates an unsupported operation, such as a write.
	ErrNotSupported = errors.New("operation not supported")

	// ErrFault indicates the destination buffer could not accept the data.
	ErrFault = errors.New("bad address")

	// ErrClosed indicates an operation on a released session or file.
	ErrClosed = errors.New("file already closed")

	// ErrNoDevice indicates no device is registered under the given identity,
	// or that its owning module is going away.
	ErrNoDevice = errors.New("no such device")

	// ErrInUse indicates a module still holds liveness references.
	ErrInUse = errors.New("module is in use")

	// ErrAlreadyRegistered indicates a duplicate device or module name.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrNotRegistered indicates an unknown device or module.
	ErrNotRegistered = errors.New("not registered")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrBufferTooSmall indicates a fixed-size buffer cannot hold the data.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrNoResources indicates no free identifiers remain.
	ErrNoResources = errors.New("no resources available")

	// ErrProtocol indicates a malformed bus frame.
	ErrProtocol = errors.New("protocol error")

	// ErrAlreadyRunning indicates the server is already running.
	ErrAlreadyRunning = errors.New("already running")

	// ErrNotRunning indicates the server is not running.
	ErrNotRunning = errors.New("not running")
)
