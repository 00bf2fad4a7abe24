package device

import (
	"fmt"
	"io"

	"github.com/ardnew/softchar/device/hal"
	"github.com/ardnew/softchar/pkg"
)

// Cursor is a read position in the virtual stream formed by a [Message]
// repeated [Repetitions] times.
//
// The stream is never materialised. Every read derives its position in the
// message from the absolute offset alone, so reads of any size resume at the
// right byte. The offset stays within [0, Total()].
type Cursor struct {
	msg    *Message
	offset int64
}

// NewCursor returns a cursor at the start of the stream for msg.
func NewCursor(msg *Message) *Cursor {
	return &Cursor{msg: msg}
}

// Total returns the length of the virtual stream.
func (c *Cursor) Total() int64 {
	return Repetitions * int64(c.msg.Len())
}

// Offset returns the number of bytes delivered so far.
func (c *Cursor) Offset() int64 {
	return c.offset
}

// Remaining returns the number of bytes left before end-of-stream.
func (c *Cursor) Remaining() int64 {
	return c.Total() - c.offset
}

// Repetition returns the zero-based index of the repetition the next byte
// belongs to, or [Repetitions] at end-of-stream.
func (c *Cursor) Repetition() int {
	return int(c.offset / int64(c.msg.Len()))
}

// ReadTo copies up to dst.Len() bytes of the stream into dst.
//
// It returns io.EOF once the stream is exhausted, and keeps returning it on
// every later call. A copy failure aborts the read with an error wrapping
// [pkg.ErrFault] and leaves the offset where it was.
func (c *Cursor) ReadTo(dst hal.UserBuffer) (int, error) {
	total := c.Total()
	if c.offset >= total {
		return 0, io.EOF
	}

	toCopy := int64(dst.Len())
	if remaining := total - c.offset; toCopy > remaining {
		toCopy = remaining
	}

	msgLen := int64(c.msg.Len())
	var copied int64
	for copied < toCopy {
		pos := (c.offset + copied) % msgLen
		step := min(msgLen-pos, toCopy-copied)

		if err := dst.CopyOut(int(copied), c.msg.run(int(pos))[:step]); err != nil {
			pkg.LogDebug(pkg.ComponentStream, "copy to destination failed",
				"offset", c.offset,
				"copied", copied,
				"error", err)
			return 0, fmt.Errorf("copy at stream offset %d: %w", c.offset+copied, pkg.ErrFault)
		}
		copied += step
	}

	c.offset += toCopy
	return int(toCopy), nil
}

// Read implements io.Reader over the stream.
func (c *Cursor) Read(p []byte) (int, error) {
	return c.ReadTo(hal.Buffer(p))
}

// Compile-time interface check
var _ io.Reader = (*Cursor)(nil)
