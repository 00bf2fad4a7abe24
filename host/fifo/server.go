//go:build unix

package fifo

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ardnew/softchar/host"
	"github.com/ardnew/softchar/pkg"
)

// DefaultPollInterval is how often the server scans the bus directory.
const DefaultPollInterval = 100 * time.Millisecond

// Server exports the devices of a [host.Host] through a bus directory.
//
// Each client creates its own client-{uuid}/ subdirectory holding a request
// and a response FIFO. The server discovers new subdirectories by polling and
// serves each client on its own goroutine. A client holds at most one open
// device at a time; the server releases it when the client goes away.
type Server struct {
	busDir       string
	host         *host.Host
	pollInterval time.Duration

	mutex   sync.Mutex
	running bool
	clients map[string]bool // dir -> still being served
	wg      sync.WaitGroup
}

// Option configures a [Server].
type Option func(*Server)

// WithPollInterval sets how often the bus directory is scanned.
func WithPollInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// NewServer creates a server for h on busDir.
func NewServer(busDir string, h *host.Host, opts ...Option) *Server {
	s := &Server{
		busDir:       busDir,
		host:         h,
		pollInterval: DefaultPollInterval,
		clients:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BusDir returns the bus directory path.
func (s *Server) BusDir() string {
	return s.busDir
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := 0
	for _, serving := range s.clients {
		if serving {
			n++
		}
	}
	return n
}

// Serve creates the bus directory and serves clients until ctx is done.
// When it returns, every client connection is closed and every device the
// clients had open is released.
func (s *Server) Serve(ctx context.Context) error {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		return pkg.ErrAlreadyRunning
	}
	s.running = true
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.running = false
		s.mutex.Unlock()
	}()

	if err := os.MkdirAll(s.busDir, 0o755); err != nil {
		return fmt.Errorf("create bus dir: %w", err)
	}

	pkg.LogInfo(pkg.ComponentFIFO, "fifo bus serving", "busDir", s.busDir)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		s.scan(ctx)
		select {
		case <-ctx.Done():
			s.wg.Wait()
			pkg.LogInfo(pkg.ComponentFIFO, "fifo bus stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// scan starts a goroutine for every client directory not yet served.
// A client that hung up stays known until its directory is removed, so it
// is never accepted twice.
func (s *Server) scan(ctx context.Context) {
	entries, err := os.ReadDir(s.busDir)
	if err != nil {
		pkg.LogWarn(pkg.ComponentFIFO, "failed to read bus dir", "error", err)
		return
	}

	present := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), clientPrefix) {
			continue
		}
		dir := filepath.Join(s.busDir, entry.Name())
		present[dir] = true

		s.mutex.Lock()
		_, known := s.clients[dir]
		s.mutex.Unlock()
		if known {
			continue
		}

		c, err := s.accept(dir)
		if err != nil {
			pkg.LogDebug(pkg.ComponentFIFO, "client not ready", "dir", dir, "error", err)
			continue
		}

		s.mutex.Lock()
		s.clients[dir] = true
		s.mutex.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveClient(ctx, dir, c)
		}()
	}

	s.mutex.Lock()
	for dir, serving := range s.clients {
		if !serving && !present[dir] {
			delete(s.clients, dir)
		}
	}
	s.mutex.Unlock()
}

// accept opens the FIFOs of a client directory.
func (s *Server) accept(dir string) (*conn, error) {
	in, err := openFIFO(dir, fifoRequest)
	if err != nil {
		return nil, err
	}
	out, err := openFIFO(dir, fifoResponse)
	if err != nil {
		in.Close()
		return nil, err
	}
	return &conn{
		in:  in,
		out: out,
		alive: func() bool {
			_, err := os.Stat(dir)
			return err == nil
		},
	}, nil
}

// serveClient handles requests from one client until it hangs up, its
// directory disappears or ctx is done.
func (s *Server) serveClient(ctx context.Context, dir string, c *conn) {
	var file *host.File
	client := filepath.Base(dir)

	pkg.LogDebug(pkg.ComponentFIFO, "client connected", "client", client)

	defer func() {
		if file != nil {
			file.Close()
			pkg.LogDebug(pkg.ComponentFIFO, "released file of departed client",
				"client", client,
				"device", file.Name())
		}
		c.close()

		s.mutex.Lock()
		s.clients[dir] = false
		s.mutex.Unlock()

		pkg.LogDebug(pkg.ComponentFIFO, "client disconnected", "client", client)
	}()

	for {
		msgType, payload, err := c.recv(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				pkg.LogDebug(pkg.ComponentFIFO, "receive failed", "client", client, "error", err)
			}
			return
		}

		if msgType == msgHangup {
			return
		}

		if err := s.handle(c, &file, msgType, payload); err != nil {
			pkg.LogWarn(pkg.ComponentFIFO, "failed to send response",
				"client", client,
				"error", err)
			return
		}
	}
}

// handle executes one request and sends its response.
func (s *Server) handle(c *conn, file **host.File, msgType byte, payload []byte) error {
	switch msgType {
	case msgOpen:
		if *file != nil {
			return c.sendError(pkg.ErrBusy)
		}
		f, err := s.host.OpenName(string(payload))
		if err != nil {
			return c.sendError(err)
		}
		*file = f
		return c.send(msgAck, nil)

	case msgRead:
		if *file == nil {
			return c.sendError(pkg.ErrClosed)
		}
		if len(payload) < 2 {
			return c.sendError(pkg.ErrProtocol)
		}
		buf := make([]byte, min(int(binary.LittleEndian.Uint16(payload)), MaxPayload))
		n, err := (*file).Read(buf)
		if errors.Is(err, io.EOF) {
			return c.send(msgData, nil)
		}
		if err != nil {
			return c.sendError(err)
		}
		return c.send(msgData, buf[:n])

	case msgWrite:
		if *file == nil {
			return c.sendError(pkg.ErrClosed)
		}
		if _, err := (*file).Write(payload); err != nil {
			return c.sendError(err)
		}
		return c.send(msgAck, nil)

	case msgRelease:
		if *file == nil {
			return c.sendError(pkg.ErrClosed)
		}
		err := (*file).Close()
		*file = nil
		if err != nil {
			return c.sendError(err)
		}
		return c.send(msgAck, nil)

	case msgList:
		var b strings.Builder
		for _, d := range s.host.Devices() {
			fmt.Fprintf(&b, "%d %s\n", d.Major, d.Name)
		}
		return c.send(msgData, tail([]byte(b.String())))

	case msgLog:
		var b strings.Builder
		for _, e := range s.host.Log().Entries() {
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
		return c.send(msgData, tail([]byte(b.String())))

	default:
		return c.sendError(pkg.ErrProtocol)
	}
}

// tail trims newline-separated text to the last lines that fit in one frame.
func tail(text []byte) []byte {
	if len(text) <= MaxPayload {
		return text
	}
	text = text[len(text)-MaxPayload:]
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return text
}
