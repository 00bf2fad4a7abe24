// Package host implements an in-process character device framework.
//
// It plays the role a kernel plays for a character driver: drivers register
// a [hal.Driver] handler table and receive a major number, callers open the
// device by major or name, and the framework routes reads, writes and
// releases to the driver's [hal.File].
//
// # Architecture
//
// The host is organized into a few parts:
//
//   - [Host] keeps the device registry and the module table
//   - [File] is an open device exposing io.Reader, io.Writer and io.Closer
//   - [Module] counts liveness references and guards unloading
//   - [Log] is a bounded kernel log fed through log/slog
//
// # Device Numbers
//
// Registering with major 0 allocates a free number from 254 down to 234,
// the Linux dynamic range. Static registration accepts any free major up to
// [MaxMajor].
//
// # Module Lifecycle
//
// Modules move through three states:
//
//	live → going → gone
//
// [Host.UnloadModule] refuses with [pkg.ErrInUse] while a device owned by the
// module has an open session.
//
// # Example
//
//	h := host.New()
//	h.LoadModule("softchar", func(m *host.Module) error {
//	    dev := device.NewDefault(device.WithOwner(m))
//	    _, err := dev.Register(h)
//	    return err
//	}, nil)
//
//	f, _ := h.OpenName("softchar")
//	io.Copy(os.Stdout, f)
//	f.Close()
package host
