package commands

import (
	"github.com/ardnew/softchar/device"
	"github.com/ardnew/softchar/host"
)

// moduleName is the module that owns the device on the host.
const moduleName = "softchar"

// loadDevice loads the softchar module into h. Its init registers a device
// repeating msg under name, and its exit unregisters it.
func loadDevice(h *host.Host, name string, msg *device.Message) (*host.Module, *device.Device, error) {
	var dev *device.Device
	m, err := h.LoadModule(moduleName,
		func(m *host.Module) error {
			dev = device.New(msg, device.WithName(name), device.WithOwner(m))
			_, err := dev.Register(m.Host())
			return err
		},
		func(m *host.Module) {
			dev.Unregister(m.Host())
		},
	)
	if err != nil {
		return nil, nil, err
	}
	return m, dev, nil
}
