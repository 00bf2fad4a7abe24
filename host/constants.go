package host

// Dynamic major number range, allocated from the top down as Linux does.
const (
	// DynamicMajorStart is the first major number tried for dynamic allocation.
	DynamicMajorStart = 254

	// DynamicMajorEnd is the last major number tried for dynamic allocation.
	DynamicMajorEnd = 234

	// MaxMajor is the largest major number accepted for static registration.
	MaxMajor = 511
)

// DefaultLogCapacity is the number of entries the kernel log keeps.
const DefaultLogCapacity = 256

// Module states.
const (
	ModuleLive  ModuleState = iota // Loaded and accepting references
	ModuleGoing                    // Unloading; new references are refused
	ModuleGone                     // Removed from the host
)

// ModuleState represents the lifecycle state of a [Module].
type ModuleState int32

// String returns a human-readable state name.
func (s ModuleState) String() string {
	switch s {
	case ModuleLive:
		return "live"
	case ModuleGoing:
		return "going"
	case ModuleGone:
		return "gone"
	default:
		return "unknown"
	}
}
