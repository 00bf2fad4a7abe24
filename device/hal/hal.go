package hal

import "github.com/ardnew/softchar/pkg"

// Driver is the handler table a character device exposes to its host.
//
// The host routes every open of the device's major number to Open. The
// returned File receives the read, write and release calls for that open.
type Driver interface {
	// Name returns the name the device registers under.
	Name() string

	// Open starts a new session on the device.
	// Implementations reject the open with [pkg.ErrBusy] when they cannot
	// admit another session.
	Open() (File, error)
}

// File is one open instance of a device, created by [Driver.Open].
//
// The host calls Release exactly once for every successful Open.
type File interface {
	// Read copies up to dst.Len() bytes into dst and advances the file
	// position. It returns io.EOF once the stream is exhausted.
	Read(dst UserBuffer) (int, error)

	// Write hands data to the device.
	Write(p []byte) (int, error)

	// Release ends the session.
	Release() error
}

// UserBuffer is a caller-owned destination for device reads.
//
// It stands in for a user-space pointer: the device never holds a reference
// to the memory and may only deposit bytes through CopyOut, which can fail.
type UserBuffer interface {
	// Len returns the number of bytes the caller asked for.
	Len() int

	// CopyOut writes src at offset off of the destination.
	// A non-nil error means none of src may be considered delivered.
	CopyOut(off int, src []byte) error
}

// Buffer adapts a byte slice to [UserBuffer]. It never faults except when a
// copy would run past the end of the slice.
type Buffer []byte

// Len returns the slice length.
func (b Buffer) Len() int { return len(b) }

// CopyOut copies src into the slice at off.
func (b Buffer) CopyOut(off int, src []byte) error {
	if off < 0 || off+len(src) > len(b) {
		return pkg.ErrFault
	}
	copy(b[off:], src)
	return nil
}

// Module is the liveness reference count of the code that owns a driver.
//
// A driver takes a reference for as long as a session is open so that the
// host refuses to unload the owner underneath it.
type Module interface {
	// Get takes a reference. It returns false if the module is going away.
	Get() bool

	// Put drops a reference taken by Get.
	Put()
}

// NopModule is a [Module] that always grants references and tracks nothing.
type NopModule struct{}

// Get always succeeds.
func (NopModule) Get() bool { return true }

// Put does nothing.
func (NopModule) Put() {}

// Registrar assigns device numbers and routes opens to drivers.
type Registrar interface {
	// RegisterChrdev registers drv under name. A major of 0 requests a
	// dynamically allocated number. It returns the major actually assigned.
	RegisterChrdev(major int, name string, drv Driver) (int, error)

	// UnregisterChrdev removes the registration made under major and name.
	UnregisterChrdev(major int, name string) error
}

// Compile-time interface checks
var (
	_ UserBuffer = Buffer(nil)
	_ Module     = NopModule{}
)
