package standalone

// PresenterState is the presentation thread's state
type PresenterState int

const (
	// StateSurfaceInit (re)builds the display surface and waits for the
	// module to bring up its video
	StateSurfaceInit PresenterState = iota
	// StateSteadyState presents one paced frame per step
	StateSteadyState
	// StateQuit is terminal
	StateQuit
)

// String returns the string representation of the state
func (s PresenterState) String() string {
	switch s {
	case StateSurfaceInit:
		return "SurfaceInit"
	case StateSteadyState:
		return "SteadyState"
	case StateQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
