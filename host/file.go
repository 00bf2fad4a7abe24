package host

import (
	"io"
	"sync"

	"github.com/ardnew/softchar/device/hal"
	"github.com/ardnew/softchar/pkg"
)

// File is an open device returned by [Host.Open].
//
// It adapts the driver's [hal.File] to the standard io interfaces and calls
// the driver's release exactly once, however many times Close is called.
type File struct {
	major int
	name  string
	f     hal.File

	once   sync.Once
	mutex  sync.RWMutex
	closed bool
}

func newFile(major int, name string, f hal.File) *File {
	return &File{major: major, name: name, f: f}
}

// Major returns the major number the file was opened through.
func (f *File) Major() int {
	return f.major
}

// Name returns the name of the opened device.
func (f *File) Name() string {
	return f.name
}

// Read reads from the device into p. It returns io.EOF at end-of-stream.
func (f *File) Read(p []byte) (int, error) {
	return f.ReadTo(hal.Buffer(p))
}

// ReadTo reads from the device into a caller-provided destination.
func (f *File) ReadTo(dst hal.UserBuffer) (int, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	if f.closed {
		return 0, pkg.ErrClosed
	}
	return f.f.Read(dst)
}

// Write passes p to the device.
func (f *File) Write(p []byte) (int, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	if f.closed {
		return 0, pkg.ErrClosed
	}
	return f.f.Write(p)
}

// Close releases the device.
func (f *File) Close() error {
	var err error
	f.once.Do(func() {
		f.mutex.Lock()
		f.closed = true
		f.mutex.Unlock()
		err = f.f.Release()
	})
	return err
}

// Compile-time interface checks
var (
	_ io.Reader = (*File)(nil)
	_ io.Writer = (*File)(nil)
	_ io.Closer = (*File)(nil)
)
