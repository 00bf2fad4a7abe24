//go:build unix

package fifo

import (
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ardnew/softchar/pkg"
)

// MaxPayload is the largest payload a single frame carries.
const MaxPayload = 4096

// Message types for the FIFO protocol (client → server).
const (
	msgOpen    = 0x01 // Open the named device
	msgRead    = 0x02 // Read up to a u16 number of bytes
	msgWrite   = 0x03 // Write the payload
	msgRelease = 0x04 // Release the open device
	msgList    = 0x05 // List registered devices
	msgLog     = 0x06 // Fetch the kernel log
	msgHangup  = 0x07 // Client is going away
)

// Message types for the FIFO protocol (server → client).
const (
	msgData  = 0x81 // Payload bytes; empty after a read means end-of-stream
	msgAck   = 0x82 // Request succeeded
	msgError = 0x83 // Request failed; payload is a u16 errno
)

// Header size for messages.
const headerSize = 3 // type (1) + length (2)

// FIFO file and directory names.
const (
	fifoRequest  = "request"
	fifoResponse = "response"

	clientPrefix  = "client-"
	stagingPrefix = ".client-"
)

// Timing for FIFO I/O.
const (
	pollSlice    = 100 * time.Millisecond
	writeTimeout = time.Second
)

// conn is one side of a request/response FIFO pair.
type conn struct {
	in  *os.File
	out *os.File

	// alive is consulted whenever a read times out; returning false ends
	// the read with io.EOF.
	alive func() bool

	header [headerSize]byte
}

// createFIFO creates a named pipe at the given path.
func createFIFO(dir, name string) error {
	path := filepath.Join(dir, name)

	// Remove existing file if any
	os.Remove(path)

	if err := unix.Mkfifo(path, 0o666); err != nil {
		return &os.PathError{Op: "mkfifo", Path: path, Err: err}
	}
	return nil
}

// openFIFO opens a named pipe for non-blocking I/O. Opening read-write keeps
// the pipe alive whether or not the peer has it open yet.
func openFIFO(dir, name string) (*os.File, error) {
	return os.OpenFile(filepath.Join(dir, name), os.O_RDWR|unix.O_NONBLOCK, 0)
}

// readFull reads exactly len(buf) bytes with context cancellation support.
func (c *conn) readFull(ctx context.Context, buf []byte) error {
	total := 0
	for total < len(buf) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.in.SetReadDeadline(time.Now().Add(pollSlice))
		n, err := c.in.Read(buf[total:])
		total += n
		if err != nil {
			if os.IsTimeout(err) {
				if c.alive != nil && !c.alive() {
					return io.EOF
				}
				continue
			}
			return err
		}
	}
	return nil
}

// send writes a frame [type, len_lo, len_hi, payload...].
func (c *conn) send(msgType byte, payload []byte) error {
	if len(payload) > MaxPayload {
		return pkg.ErrBufferTooSmall
	}

	frame := make([]byte, headerSize+len(payload))
	frame[0] = msgType
	binary.LittleEndian.PutUint16(frame[1:3], uint16(len(payload)))
	copy(frame[headerSize:], payload)

	c.out.SetWriteDeadline(time.Now().Add(writeTimeout))
	written := 0
	for written < len(frame) {
		n, err := c.out.Write(frame[written:])
		written += n
		if err != nil {
			return err
		}
	}
	return nil
}

// recv reads one frame.
func (c *conn) recv(ctx context.Context) (byte, []byte, error) {
	if err := c.readFull(ctx, c.header[:]); err != nil {
		return 0, nil, err
	}
	msgType := c.header[0]
	length := int(binary.LittleEndian.Uint16(c.header[1:3]))
	if length > MaxPayload {
		return 0, nil, pkg.ErrProtocol
	}

	payload := make([]byte, length)
	if err := c.readFull(ctx, payload); err != nil {
		return 0, nil, err
	}
	return msgType, payload, nil
}

// sendError sends err as an errno frame.
func (c *conn) sendError(err error) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(pkg.Errno(err)))
	return c.send(msgError, buf[:])
}

// close closes both FIFOs.
func (c *conn) close() {
	if c.in != nil {
		c.in.Close()
		c.in = nil
	}
	if c.out != nil {
		c.out.Close()
		c.out = nil
	}
}

// pipeDrained reports whether everything written to f has been read.
// It queries the descriptor through SyscallConn so f stays non-blocking.
func pipeDrained(f *os.File) (bool, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return false, err
	}
	var (
		pending int
		ioErr   error
	)
	if err := rc.Control(func(fd uintptr) {
		pending, ioErr = pendingBytes(int(fd))
	}); err != nil {
		return false, err
	}
	if ioErr != nil {
		return false, ioErr
	}
	return pending == 0, nil
}

// decodeError converts an errno frame payload back to an error.
func decodeError(payload []byte) error {
	if len(payload) < 2 {
		return pkg.ErrProtocol
	}
	return pkg.FromErrno(unix.Errno(binary.LittleEndian.Uint16(payload)))
}
