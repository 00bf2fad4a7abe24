package device

import (
	"fmt"

	"github.com/ardnew/softchar/pkg"
)

// Message is the immutable payload a device repeats.
//
// A Message is created once and never modified, so any number of sessions
// may share one by pointer without locking.
type Message struct {
	data []byte
}

// NewMessage copies s into a new Message.
// It returns [pkg.ErrInvalidParameter] if s is empty and
// [pkg.ErrBufferTooSmall] if s does not fit in [MaxMessageLen]-1 bytes.
func NewMessage(s string) (*Message, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("empty message: %w", pkg.ErrInvalidParameter)
	}
	if len(s) >= MaxMessageLen {
		return nil, fmt.Errorf("message length %d exceeds %d: %w",
			len(s), MaxMessageLen-1, pkg.ErrBufferTooSmall)
	}
	return &Message{data: []byte(s)}, nil
}

// MustMessage is like [NewMessage] but panics on error.
// It is intended for package-level message constants.
func MustMessage(s string) *Message {
	m, err := NewMessage(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the message length in bytes.
func (m *Message) Len() int {
	return len(m.data)
}

// Bytes returns a copy of the message.
func (m *Message) Bytes() []byte {
	return append([]byte(nil), m.data...)
}

// String returns the message as a string.
func (m *Message) String() string {
	return string(m.data)
}

// run returns the bytes from pos to the end of the message.
// The result aliases the message and must not be modified.
func (m *Message) run(pos int) []byte {
	return m.data[pos:]
}
