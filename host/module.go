package host

import (
	"fmt"
	"sync"

	"github.com/ardnew/softchar/device/hal"
	"github.com/ardnew/softchar/pkg"
)

// Module is a unit of loaded code with a liveness reference count.
//
// Drivers take a reference with Get while a session is open. The host keeps
// the module loaded until every reference is returned.
type Module struct {
	name  string
	exit  func(*Module)
	host  *Host
	mutex sync.Mutex
	refs  int
	state ModuleState
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Host returns the host the module is loaded into.
func (m *Module) Host() *Host {
	return m.host
}

// Get takes a liveness reference. It fails once the module starts unloading.
func (m *Module) Get() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.state != ModuleLive {
		return false
	}
	m.refs++
	return true
}

// Put returns a reference taken by Get.
func (m *Module) Put() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.refs > 0 {
		m.refs--
	}
}

// Refs returns the number of outstanding references.
func (m *Module) Refs() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.refs
}

// State returns the module lifecycle state.
func (m *Module) State() ModuleState {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}

// LoadModule creates a module and runs init with it.
//
// If init fails the module is discarded and its error returned. exit, if not
// nil, runs when the module is unloaded.
func (h *Host) LoadModule(name string, init func(*Module) error, exit func(*Module)) (*Module, error) {
	if name == "" {
		return nil, pkg.ErrInvalidParameter
	}

	m := &Module{name: name, exit: exit, host: h}

	h.mutex.Lock()
	if _, ok := h.modules[name]; ok {
		h.mutex.Unlock()
		return nil, fmt.Errorf("module %q: %w", name, pkg.ErrAlreadyRegistered)
	}
	h.modules[name] = m
	h.mutex.Unlock()

	if init != nil {
		if err := init(m); err != nil {
			h.mutex.Lock()
			delete(h.modules, name)
			h.mutex.Unlock()

			m.mutex.Lock()
			m.state = ModuleGone
			m.mutex.Unlock()

			pkg.LogWarn(pkg.ComponentModule, "module init failed",
				"module", name,
				"error", err)
			return nil, fmt.Errorf("init module %q: %w", name, err)
		}
	}

	pkg.LogDebug(pkg.ComponentModule, "module loaded", "module", name)
	return m, nil
}

// UnloadModule runs the module's exit function and removes it.
// It returns [pkg.ErrInUse] and leaves the module loaded while any reference
// is outstanding.
func (h *Host) UnloadModule(name string) error {
	h.mutex.RLock()
	m, ok := h.modules[name]
	h.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("module %q: %w", name, pkg.ErrNotRegistered)
	}

	m.mutex.Lock()
	if m.state != ModuleLive {
		m.mutex.Unlock()
		return fmt.Errorf("module %q is %s: %w", name, m.state, pkg.ErrNotRegistered)
	}
	if m.refs > 0 {
		refs := m.refs
		m.mutex.Unlock()
		pkg.LogDebug(pkg.ComponentModule, "unload refused",
			"module", name,
			"refs", refs)
		return fmt.Errorf("module %q has %d references: %w", name, refs, pkg.ErrInUse)
	}
	m.state = ModuleGoing
	m.mutex.Unlock()

	if m.exit != nil {
		m.exit(m)
	}

	h.mutex.Lock()
	delete(h.modules, name)
	h.mutex.Unlock()

	m.mutex.Lock()
	m.state = ModuleGone
	m.mutex.Unlock()

	pkg.LogDebug(pkg.ComponentModule, "module unloaded", "module", name)
	return nil
}

// Module returns the loaded module with the given name.
func (h *Host) Module(name string) (*Module, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	m, ok := h.modules[name]
	return m, ok
}

// Compile-time interface check
var _ hal.Module = (*Module)(nil)
