package device

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/softchar/pkg"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"short", "hi\n", nil},
		{"single byte", "x", nil},
		{"largest", strings.Repeat("a", MaxMessageLen-1), nil},
		{"empty", "", pkg.ErrInvalidParameter},
		{"too long", strings.Repeat("a", MaxMessageLen), pkg.ErrBufferTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMessage(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewMessage() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if m.Len() != len(tt.input) {
				t.Errorf("Len() = %d, want %d", m.Len(), len(tt.input))
			}
			if m.String() != tt.input {
				t.Errorf("String() = %q, want %q", m.String(), tt.input)
			}
		})
	}
}

func TestMessageBytesIsCopy(t *testing.T) {
	m := MustMessage("hi\n")
	b := m.Bytes()
	b[0] = 'X'
	if m.String() != "hi\n" {
		t.Errorf("message mutated through Bytes(): %q", m.String())
	}
}

func TestNewMessageCopiesInput(t *testing.T) {
	src := []byte("abc")
	m := MustMessage(string(src))
	src[0] = 'z'
	if m.String() != "abc" {
		t.Errorf("message aliased its input: %q", m.String())
	}
}

func TestMustMessagePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustMessage(\"\") did not panic")
		}
	}()
	MustMessage("")
}
