// Package device implements a pure-Go character device whose content is a
// fixed message repeated [Repetitions] times per open.
//
// The device is platform-agnostic and reaches its host framework only through
// the interfaces in [github.com/ardnew/softchar/device/hal]: a [Device] is a
// [hal.Driver], each open yields a [Session] that is a [hal.File], and the
// host assigns the major number through a [hal.Registrar].
//
// # Architecture
//
// The device is organized into a few small parts:
//
//   - [Message] is the immutable payload shared by every session
//   - [Gate] admits at most one session with a single compare-and-swap
//   - [Cursor] is the read engine over the virtual repeated stream
//   - [Session] ties a cursor to one open and rejects writes
//   - [Device] is the handler table registered with the host
//
// # Stream Semantics
//
// A session sees the message repeated exactly [Repetitions] times and then
// io.EOF, however the caller sizes its reads:
//
//	msg := device.MustMessage("hi\n")  // 3 bytes, stream is 30 bytes
//	s, _ := device.New(msg).OpenSession()
//	buf := make([]byte, 5)
//	s.ReadBytes(buf)                   // "hi\nhi", offset 5
//	s.ReadBytes(make([]byte, 100))     // remaining 25 bytes, offset 30
//	s.ReadBytes(buf)                   // 0, io.EOF
//	s.Release()
//
// The cursor stores only an absolute offset. The position within the message
// is recomputed on every read, so partial reads resume mid-message without
// any separate repetition counter.
//
// # Device States
//
// The gate implements a two-state machine:
//
//	Idle → Open → Idle
//
// A second open while Open fails with [pkg.ErrBusy]; it is not queued.
// Writes always fail with [pkg.ErrNotSupported].
package device
