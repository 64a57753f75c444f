package conceal

// State is the refresh controller's state.
type State uint8

const (
	// StateIdle means no pass is running.
	StateIdle State = iota

	// StateFullRefreshing means the persistent namespace is being rebuilt.
	StateFullRefreshing

	// StateVolatileRefreshing means the volatile namespace is being rebuilt.
	StateVolatileRefreshing

	// StateSuppressing means volatile overlays on the cursor row are being removed.
	StateSuppressing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFullRefreshing:
		return "full-refreshing"
	case StateVolatileRefreshing:
		return "volatile-refreshing"
	case StateSuppressing:
		return "suppressing"
	default:
		return "unknown"
	}
}

// TransitionFunc observes controller state changes.
type TransitionFunc func(from, to State)
