package device

import "fmt"

// Stream limits.
const (
	// Repetitions is the number of times the message is delivered per session.
	Repetitions = 10

	// MaxMessageLen is the size of the message buffer, including the
	// terminator slot, so a message holds at most MaxMessageLen-1 bytes.
	MaxMessageLen = 64
)

// Defaults used when a device is built without options.
const (
	// DefaultName is the name the device registers under.
	DefaultName = "softchar"

	// DefaultMessage is the message delivered by [NewDefault].
	DefaultMessage = "Hello from the softchar device!\n"
)

// Gate states.
const (
	GateIdle GateState = 0 // No session is open
	GateOpen GateState = 1 // A session is open
)

// GateState represents the admission state of a [Gate].
type GateState int32

// String returns a human-readable state description.
func (s GateState) String() string {
	switch s {
	case GateIdle:
		return "Idle"
	case GateOpen:
		return "Open"
	default:
		return fmt.Sprintf("Unknown State (%d)", s)
	}
}
