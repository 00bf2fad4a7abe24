package device

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ardnew/softchar/device/hal"
	"github.com/ardnew/softchar/pkg"
)

// Device is a character device that delivers its message [Repetitions]
// times per open and rejects all writes.
//
// At most one session is open at any moment across the whole device.
type Device struct {
	name  string
	msg   *Message
	owner hal.Module
	gate  Gate

	mutex sync.RWMutex
	major int
}

// Option configures a [Device].
type Option func(*Device)

// WithName sets the name the device registers under.
func WithName(name string) Option {
	return func(d *Device) {
		d.name = name
	}
}

// WithOwner sets the module whose liveness count tracks open sessions.
func WithOwner(owner hal.Module) Option {
	return func(d *Device) {
		if owner != nil {
			d.owner = owner
		}
	}
}

// New creates a device that repeats msg.
func New(msg *Message, opts ...Option) *Device {
	d := &Device{
		name:  DefaultName,
		msg:   msg,
		owner: hal.NopModule{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDefault creates a device that repeats [DefaultMessage].
func NewDefault(opts ...Option) *Device {
	return New(MustMessage(DefaultMessage), opts...)
}

// Name returns the device name.
func (d *Device) Name() string {
	return d.name
}

// Message returns the message the device repeats.
func (d *Device) Message() *Message {
	return d.msg
}

// Busy reports whether a session is currently open.
func (d *Device) Busy() bool {
	return d.gate.Active()
}

// Major returns the major number assigned at registration, or -1 if the
// device is not registered.
func (d *Device) Major() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	if d.major == 0 {
		return -1
	}
	return d.major
}

// Open starts a new session with a cursor at the start of the stream.
//
// It returns [pkg.ErrBusy] if another session is open, and
// [pkg.ErrNoDevice] if the owning module refuses a liveness reference.
func (d *Device) Open() (hal.File, error) {
	return d.OpenSession()
}

// OpenSession is like [Device.Open] but returns the concrete session.
func (d *Device) OpenSession() (*Session, error) {
	if err := d.gate.Acquire(); err != nil {
		pkg.LogDebug(pkg.ComponentDevice, "open rejected",
			"device", d.name,
			"error", err)
		return nil, err
	}
	if !d.owner.Get() {
		d.gate.Release()
		return nil, fmt.Errorf("%s: owner unloading: %w", d.name, pkg.ErrNoDevice)
	}

	s := &Session{
		id:     uuid.New(),
		dev:    d,
		cursor: NewCursor(d.msg),
	}
	pkg.LogDebug(pkg.ComponentSession, "session opened",
		"device", d.name,
		"session", s.id)
	return s, nil
}

// Register asks r for a dynamically assigned major number and announces the
// result.
func (d *Device) Register(r hal.Registrar) (int, error) {
	major, err := r.RegisterChrdev(0, d.name, d)
	if err != nil {
		pkg.LogError(pkg.ComponentDevice, "could not register device",
			"device", d.name,
			"error", err)
		return 0, err
	}

	d.mutex.Lock()
	d.major = major
	d.mutex.Unlock()

	pkg.LogInfo(pkg.ComponentDevice, "loaded",
		"device", d.name,
		"major", major)
	return major, nil
}

// Unregister removes the registration made by [Device.Register].
func (d *Device) Unregister(r hal.Registrar) error {
	d.mutex.Lock()
	major := d.major
	d.major = 0
	d.mutex.Unlock()

	if major == 0 {
		return pkg.ErrNotRegistered
	}
	if err := r.UnregisterChrdev(major, d.name); err != nil {
		return err
	}
	pkg.LogInfo(pkg.ComponentDevice, "unloaded",
		"device", d.name)
	return nil
}

// Compile-time interface check
var _ hal.Driver = (*Device)(nil)
