// Package hal defines the contract between a character device and the host
// framework it is registered with.
//
// A device provides a [Driver] handler table. The host assigns it a major
// number through a [Registrar], routes opens to [Driver.Open] and delivers
// reads, writes and releases to the resulting [File]. The device never picks
// its own identifier.
//
// # Design Principles
//
// The contract is designed to be:
//
//   - Minimal: only open, read, write and release cross the boundary
//   - Synchronous: no operation blocks or waits for data
//   - Fault-aware: reads deposit bytes through a [UserBuffer] whose copies
//     may fail, so a device can keep its state consistent on a bad buffer
//
// # Liveness
//
// A device holds a [Module] reference while any session is open. Hosts use
// the count to refuse unloading code that is still in use.
//
// # Example
//
//	type zero struct{}
//
//	func (zero) Name() string             { return "zero" }
//	func (zero) Open() (hal.File, error)  { return zeroFile{}, nil }
//
//	type zeroFile struct{}
//
//	func (zeroFile) Read(dst hal.UserBuffer) (int, error) {
//	    return dst.Len(), dst.CopyOut(0, make([]byte, dst.Len()))
//	}
//	func (zeroFile) Write(p []byte) (int, error) { return len(p), nil }
//	func (zeroFile) Release() error              { return nil }
package hal
