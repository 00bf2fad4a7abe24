package device

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ardnew/softchar/device/hal"
	"github.com/ardnew/softchar/pkg"
)

// Session is one open of a [Device].
//
// It owns the stream cursor for the open. The device's gate admits one
// session at a time. Its methods may be called concurrently; reads are
// serialized on the session.
type Session struct {
	id     uuid.UUID
	dev    *Device
	cursor *Cursor

	mutex    sync.Mutex
	released bool
	once     sync.Once
}

// ID returns the unique identifier of the session.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Offset returns the number of stream bytes delivered so far.
func (s *Session) Offset() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.cursor == nil {
		return 0
	}
	return s.cursor.Offset()
}

// Read copies up to dst.Len() bytes of the stream into dst.
// It returns io.EOF at end-of-stream and [pkg.ErrClosed] after release.
func (s *Session) Read(dst hal.UserBuffer) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.released {
		return 0, pkg.ErrClosed
	}

	n, err := s.cursor.ReadTo(dst)
	if err == nil {
		pkg.LogDebug(pkg.ComponentSession, "read",
			"session", s.id,
			"requested", dst.Len(),
			"returned", n,
			"offset", s.cursor.Offset())
	}
	return n, err
}

// ReadBytes is like [Session.Read] for a plain byte slice.
func (s *Session) ReadBytes(p []byte) (int, error) {
	return s.Read(hal.Buffer(p))
}

// Write always fails with [pkg.ErrNotSupported]. It does not touch the
// session, the device or the message.
func (s *Session) Write(p []byte) (int, error) {
	pkg.LogWarn(pkg.ComponentDevice, "write not supported",
		"device", s.dev.name,
		"session", s.id,
		"length", len(p))
	return 0, pkg.ErrNotSupported
}

// Release ends the session: it drops the cursor, reopens the device gate and
// returns the owner's liveness reference. Only the first call has an effect.
func (s *Session) Release() error {
	s.once.Do(func() {
		s.mutex.Lock()
		s.released = true
		offset := s.cursor.Offset()
		s.cursor = nil
		s.mutex.Unlock()

		s.dev.gate.Release()
		s.dev.owner.Put()

		pkg.LogDebug(pkg.ComponentSession, "session released",
			"device", s.dev.name,
			"session", s.id,
			"delivered", offset)
	})
	return nil
}

// Close is an alias for [Session.Release] so a session is an io.Closer.
func (s *Session) Close() error {
	return s.Release()
}

// Compile-time interface check
var _ hal.File = (*Session)(nil)
