package device

import (
	"sync/atomic"

	"github.com/ardnew/softchar/pkg"
)

// Gate admits at most one session at a time.
//
// The zero value is an idle gate. Admission is a single compare-and-swap, so
// two racing opens can never both succeed.
type Gate struct {
	state atomic.Int32
}

// Acquire moves the gate from Idle to Open.
// It returns [pkg.ErrBusy] without touching any state if the gate is already
// open. Rejected attempts are not queued.
func (g *Gate) Acquire() error {
	if !g.state.CompareAndSwap(int32(GateIdle), int32(GateOpen)) {
		return pkg.ErrBusy
	}
	return nil
}

// Release moves the gate from Open back to Idle.
// Releasing an idle gate has no effect.
func (g *Gate) Release() {
	g.state.CompareAndSwap(int32(GateOpen), int32(GateIdle))
}

// State returns the current gate state.
func (g *Gate) State() GateState {
	return GateState(g.state.Load())
}

// Active reports whether a session currently holds the gate.
func (g *Gate) Active() bool {
	return g.State() == GateOpen
}
