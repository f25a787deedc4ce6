package stream

// State is the lifecycle position of a Channel.
type State int

const (
	Idle State = iota
	Connecting
	Opened
	Receiving
	Closed
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Opened:
		return "open"
	case Receiving:
		return "receiving"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Closed || s == Errored
}
