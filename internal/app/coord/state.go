package coord

// State is the session lifecycle state. Transitions are serialized by the
// controller's transition guard; triggers invalid in the current state are
// ignored rather than queued.
type State int

const (
	StateIdle State = iota
	StateCreating
	StateJoining
	StateJoined
	StateLeaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCreating:
		return "creating"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateLeaving:
		return "leaving"
	default:
		return "invalid"
	}
}
