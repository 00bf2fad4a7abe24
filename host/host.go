package host

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ardnew/softchar/device/hal"
	"github.com/ardnew/softchar/pkg"
)

// DeviceInfo describes one registered character device.
type DeviceInfo struct {
	Major int
	Name  string
}

// Host is an in-process character device framework.
//
// It assigns major numbers, routes opens to registered drivers, tracks module
// liveness and keeps a bounded kernel log. A Host is safe for concurrent use.
type Host struct {
	devices map[int]*chrdev
	modules map[string]*Module
	log     *Log
	mutex   sync.RWMutex
}

type chrdev struct {
	major int
	name  string
	drv   hal.Driver
}

// Option configures a [Host].
type Option func(*Host)

// WithLogCapacity sets how many kernel log entries the host keeps.
func WithLogCapacity(n int) Option {
	return func(h *Host) {
		h.log = NewLog(n)
	}
}

// New creates an empty host.
func New(opts ...Option) *Host {
	h := &Host{
		devices: make(map[int]*chrdev),
		modules: make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = NewLog(DefaultLogCapacity)
	}
	return h
}

// Log returns the host's kernel log.
func (h *Host) Log() *Log {
	return h.log
}

// InstallLogger routes the shared softchar logger through the kernel log so
// that every record is kept in the ring as well as written by next.
func (h *Host) InstallLogger(next slog.Handler) {
	pkg.SetLogger(slog.New(h.log.Handler(next)))
}

// RegisterChrdev registers drv under name.
//
// A major of 0 allocates a free number between [DynamicMajorStart] and
// [DynamicMajorEnd]. It returns the assigned major.
func (h *Host) RegisterChrdev(major int, name string, drv hal.Driver) (int, error) {
	if name == "" || drv == nil || major < 0 || major > MaxMajor {
		return 0, pkg.ErrInvalidParameter
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, d := range h.devices {
		if d.name == name {
			return 0, fmt.Errorf("device %q: %w", name, pkg.ErrAlreadyRegistered)
		}
	}

	if major == 0 {
		for m := DynamicMajorStart; m >= DynamicMajorEnd; m-- {
			if _, used := h.devices[m]; !used {
				major = m
				break
			}
		}
		if major == 0 {
			return 0, fmt.Errorf("dynamic major for %q: %w", name, pkg.ErrNoResources)
		}
	} else if _, used := h.devices[major]; used {
		return 0, fmt.Errorf("major %d: %w", major, pkg.ErrBusy)
	}

	h.devices[major] = &chrdev{major: major, name: name, drv: drv}
	pkg.LogDebug(pkg.ComponentHost, "chrdev registered",
		"major", major,
		"name", name)
	return major, nil
}

// UnregisterChrdev removes the device registered under major and name.
func (h *Host) UnregisterChrdev(major int, name string) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	d, ok := h.devices[major]
	if !ok || d.name != name {
		return fmt.Errorf("major %d name %q: %w", major, name, pkg.ErrNotRegistered)
	}
	delete(h.devices, major)
	pkg.LogDebug(pkg.ComponentHost, "chrdev unregistered",
		"major", major,
		"name", name)
	return nil
}

// Devices returns the registered devices ordered by major number.
func (h *Host) Devices() []DeviceInfo {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	out := make([]DeviceInfo, 0, len(h.devices))
	for _, d := range h.devices {
		out = append(out, DeviceInfo{Major: d.major, Name: d.name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Major < out[j].Major })
	return out
}

// Lookup returns the major number registered under name.
func (h *Host) Lookup(name string) (int, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for _, d := range h.devices {
		if d.name == name {
			return d.major, true
		}
	}
	return 0, false
}

// Open opens the device registered under major.
func (h *Host) Open(major int) (*File, error) {
	h.mutex.RLock()
	d, ok := h.devices[major]
	h.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("major %d: %w", major, pkg.ErrNoDevice)
	}

	f, err := d.drv.Open()
	if err != nil {
		return nil, err
	}
	return newFile(d.major, d.name, f), nil
}

// OpenName opens the device registered under name.
func (h *Host) OpenName(name string) (*File, error) {
	major, ok := h.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("device %q: %w", name, pkg.ErrNoDevice)
	}
	return h.Open(major)
}

// Compile-time interface check
var _ hal.Registrar = (*Host)(nil)
