//go:build unix

package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardnew/softchar/device"
	"github.com/ardnew/softchar/host/fifo"
	"github.com/ardnew/softchar/internal/config"
	"github.com/ardnew/softchar/pkg"
)

// startServe runs serve on a private bus directory until the test ends.
func startServe(t *testing.T, msg string) *config.Config {
	t.Helper()

	c := config.Default()
	c.BusDir = setupTestEnv(t)
	c.PollInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, c, device.MustMessage(msg)) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve() = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("serve did not stop")
		}
	})

	// Wait for the first answer so the device is registered before the test
	// reconfigures logging through runCmd.
	readyCtx, readyCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer readyCancel()
	cl, err := fifo.Dial(readyCtx, c.BusDir)
	if err != nil {
		t.Fatalf("Dial() = %v", err)
	}
	defer cl.Close()
	if _, err := cl.Devices(readyCtx); err != nil {
		t.Fatalf("server not ready: %v", err)
	}
	return c
}

func TestServeCat(t *testing.T) {
	c := startServe(t, "hi\n")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, chunk := range []int{1, 4, 64} {
		var out bytes.Buffer
		if err := catDevice(ctx, c.BusDir, c.Device, chunk, &out); err != nil {
			t.Fatalf("catDevice(chunk %d) = %v", chunk, err)
		}
		if want := strings.Repeat("hi\n", device.Repetitions); out.String() != want {
			t.Errorf("catDevice(chunk %d) = %q, want %q", chunk, out.String(), want)
		}
	}

	if err := catDevice(ctx, c.BusDir, "missing", 8, &bytes.Buffer{}); !errors.Is(err, pkg.ErrNoDevice) {
		t.Errorf("catDevice(missing) = %v, want ErrNoDevice", err)
	}
}

func TestServeWriteRejected(t *testing.T) {
	c := startServe(t, "hi\n")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := writeDevice(ctx, c.BusDir, c.Device, []byte("hello"))
	if !errors.Is(err, pkg.ErrNotSupported) {
		t.Fatalf("writeDevice() = %d, %v; want ErrNotSupported", n, err)
	}
	if n != 0 {
		t.Errorf("writeDevice() = %d bytes, want 0", n)
	}
	if !strings.Contains(err.Error(), "EINVAL") {
		t.Errorf("error does not name the errno: %v", err)
	}

	// The failed write released the device for the next reader.
	var out bytes.Buffer
	if err := catDevice(ctx, c.BusDir, c.Device, 64, &out); err != nil {
		t.Fatalf("catDevice() after write = %v", err)
	}
	if out.Len() != 3*device.Repetitions {
		t.Errorf("catDevice() = %d bytes, want %d", out.Len(), 3*device.Repetitions)
	}
}

func TestServeClientCommands(t *testing.T) {
	startServe(t, "hi\n")

	stdout, stderr, code := runCmd(t, "devices")
	if code != 0 {
		t.Fatalf("devices: exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "254 softchar") {
		t.Errorf("devices output: %s", stdout)
	}

	stdout, stderr, code = runCmd(t, "dmesg")
	if code != 0 {
		t.Fatalf("dmesg: exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "loaded") {
		t.Errorf("dmesg output: %s", stdout)
	}

	stdout, stderr, code = runCmd(t, "cat")
	if code != 0 {
		t.Fatalf("cat: exit %d: %s", code, stderr)
	}
	if stdout != strings.Repeat("hi\n", device.Repetitions) {
		t.Errorf("cat output: %q", stdout)
	}

	if _, stderr, code := runCmd(t, "write", "hello", "world"); code == 0 {
		t.Error("write succeeded")
	} else if !strings.Contains(stderr, "operation not supported") {
		t.Errorf("write error: %s", stderr)
	}
}

func TestClientTimeout(t *testing.T) {
	setupTestEnv(t)

	// No server is running, so the request is never answered.
	_, _, code := runCmdTimeout(t, 50*time.Millisecond, "devices")
	if code == 0 {
		t.Fatal("devices succeeded without a server")
	}
}

// runCmdTimeout is runCmd with a custom --timeout.
func runCmdTimeout(t *testing.T, d time.Duration, args ...string) (string, string, int) {
	t.Helper()
	return runCmd(t, append(args, "--timeout", d.String())...)
}
