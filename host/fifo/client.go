//go:build unix

package fifo

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ardnew/softchar/host"
	"github.com/ardnew/softchar/pkg"
)

// hangupTimeout bounds how long Close waits to notify the server.
const hangupTimeout = time.Second

// Client is a connection to a [Server] through its bus directory.
//
// A Client issues one request at a time and is safe for concurrent use.
type Client struct {
	id  uuid.UUID
	dir string

	mutex  sync.Mutex
	c      *conn
	closed bool
}

// Dial creates a client directory under busDir and returns a connected
// client. The server picks the client up on its next scan.
func Dial(ctx context.Context, busDir string) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(busDir, 0o755); err != nil {
		return nil, fmt.Errorf("create bus dir: %w", err)
	}

	id := uuid.New()
	staging := filepath.Join(busDir, stagingPrefix+id.String())
	dir := filepath.Join(busDir, clientPrefix+id.String())

	// FIFOs are created in a staging directory and renamed into place so the
	// server never sees a half-built client.
	if err := os.Mkdir(staging, 0o755); err != nil {
		return nil, fmt.Errorf("create client dir: %w", err)
	}
	for _, name := range []string{fifoRequest, fifoResponse} {
		if err := createFIFO(staging, name); err != nil {
			os.RemoveAll(staging)
			return nil, err
		}
	}
	if err := os.Rename(staging, dir); err != nil {
		os.RemoveAll(staging)
		return nil, fmt.Errorf("publish client dir: %w", err)
	}

	out, err := openFIFO(dir, fifoRequest)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	in, err := openFIFO(dir, fifoResponse)
	if err != nil {
		out.Close()
		os.RemoveAll(dir)
		return nil, err
	}

	pkg.LogDebug(pkg.ComponentFIFO, "client dialed",
		"busDir", busDir,
		"client", id)

	return &Client{
		id:  id,
		dir: dir,
		c:   &conn{in: in, out: out},
	}, nil
}

// ID returns the client identifier used in its directory name.
func (cl *Client) ID() uuid.UUID {
	return cl.id
}

// Dir returns the client directory path.
func (cl *Client) Dir() string {
	return cl.dir
}

// roundTrip sends a request and waits for its response. An error frame is
// returned as the matching sentinel error.
func (cl *Client) roundTrip(ctx context.Context, msgType byte, payload []byte) (byte, []byte, error) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	if cl.closed {
		return 0, nil, pkg.ErrClosed
	}

	if err := cl.c.send(msgType, payload); err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	respType, resp, err := cl.c.recv(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("receive response: %w", err)
	}
	switch respType {
	case msgError:
		return respType, nil, decodeError(resp)
	case msgAck, msgData:
		return respType, resp, nil
	default:
		return 0, nil, pkg.ErrProtocol
	}
}

// expect performs a round trip that must answer with wantType.
func (cl *Client) expect(ctx context.Context, msgType, wantType byte, payload []byte) ([]byte, error) {
	respType, resp, err := cl.roundTrip(ctx, msgType, payload)
	if err != nil {
		return nil, err
	}
	if respType != wantType {
		return nil, pkg.ErrProtocol
	}
	return resp, nil
}

// Open opens the named device on the server.
func (cl *Client) Open(ctx context.Context, name string) error {
	_, err := cl.expect(ctx, msgOpen, msgAck, []byte(name))
	return err
}

// Read reads up to n bytes from the open device. It returns io.EOF at
// end-of-stream. n is capped at [MaxPayload].
func (cl *Client) Read(ctx context.Context, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	var req [2]byte
	binary.LittleEndian.PutUint16(req[:], uint16(min(n, MaxPayload)))

	data, err := cl.expect(ctx, msgRead, msgData, req[:])
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, io.EOF
	}
	return data, nil
}

// Write writes p to the open device.
func (cl *Client) Write(ctx context.Context, p []byte) (int, error) {
	if len(p) > MaxPayload {
		return 0, pkg.ErrBufferTooSmall
	}
	if _, err := cl.expect(ctx, msgWrite, msgAck, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Release releases the open device.
func (cl *Client) Release(ctx context.Context) error {
	_, err := cl.expect(ctx, msgRelease, msgAck, nil)
	return err
}

// Devices lists the devices registered on the server.
func (cl *Client) Devices(ctx context.Context) ([]host.DeviceInfo, error) {
	data, err := cl.expect(ctx, msgList, msgData, nil)
	if err != nil {
		return nil, err
	}

	var out []host.DeviceInfo
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		major, name, ok := strings.Cut(scanner.Text(), " ")
		if !ok {
			return nil, pkg.ErrProtocol
		}
		m, err := strconv.Atoi(major)
		if err != nil {
			return nil, pkg.ErrProtocol
		}
		out = append(out, host.DeviceInfo{Major: m, Name: name})
	}
	return out, nil
}

// Log returns the server's kernel log lines, oldest first.
func (cl *Client) Log(ctx context.Context) ([]string, error) {
	data, err := cl.expect(ctx, msgLog, msgData, nil)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// Reader returns an io.Reader that reads the open device in requests of
// chunk bytes.
func (cl *Client) Reader(ctx context.Context, chunk int) io.Reader {
	return &reader{ctx: ctx, cl: cl, chunk: chunk}
}

// Close notifies the server, closes the FIFOs and removes the client
// directory. Any device still open is released by the server.
func (cl *Client) Close() error {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	if cl.closed {
		return nil
	}
	cl.closed = true

	if err := cl.c.send(msgHangup, nil); err != nil {
		pkg.LogDebug(pkg.ComponentFIFO, "hangup not delivered", "client", cl.id, "error", err)
	}
	// Give the server a moment to drain the hangup before the pipe goes away.
	deadline := time.Now().Add(hangupTimeout)
	for time.Now().Before(deadline) {
		if drained, err := pipeDrained(cl.c.out); err != nil || drained {
			break
		}
		time.Sleep(pollSlice / 10)
	}
	cl.c.close()
	return os.RemoveAll(cl.dir)
}

// reader adapts a Client to io.Reader.
type reader struct {
	ctx   context.Context
	cl    *Client
	chunk int
	buf   []byte
}

func (r *reader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		data, err := r.cl.Read(r.ctx, max(r.chunk, 1))
		if err != nil {
			return 0, err
		}
		r.buf = data
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
