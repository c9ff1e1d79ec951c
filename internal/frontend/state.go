package frontend

// UIState is the only state the page keeps: whether the authenticated
// sections (profile form, recommendations, logout button) are shown.
type UIState int

const (
	Anonymous UIState = iota
	Authenticated
)

func (s UIState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

type Event int

const (
	EventLogin Event = iota
	EventLogout
	EventSessionRestored
)

// Transition returns the next state. ok is true when the backend reported
// success for the event (status "ok", or logged_in for a restore).
// A failed event never changes the state.
func Transition(s UIState, ev Event, ok bool) UIState {
	if !ok {
		return s
	}
	switch ev {
	case EventLogin, EventSessionRestored:
		return Authenticated
	case EventLogout:
		return Anonymous
	}
	return s
}
