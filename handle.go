package scope

// State is the run-state of a single guard activation.
type State uint8

const (
	// StateNotEntered is the state of a guard whose before action has not run.
	StateNotEntered State = iota
	// StateBeforeDone means the before action ran and the guarded block is live.
	StateBeforeDone
	// StateAfterDone is terminal: the after action has run.
	StateAfterDone
)

func (s State) String() string {
	switch s {
	case StateNotEntered:
		return "not_entered"
	case StateBeforeDone:
		return "before_done"
	case StateAfterDone:
		return "after_done"
	default:
		return "unknown"
	}
}

// Handle is one activation of a guard.
// It owns the after action and makes sure it fires on exactly one transition
// from StateBeforeDone to StateAfterDone, no matter how many times Exit is called.
//
// A Handle is not safe for concurrent use.
type Handle struct {
	after func()
	state State
}

// Enter runs before (nil means no-op) and returns a live Handle.
// If before panics the Handle is never created and after never runs.
func Enter(before, after func()) *Handle {
	h := &Handle{after: after}
	if before != nil {
		before()
	}
	h.state = StateBeforeDone
	return h
}

// Exit runs the after action if it has not run yet.
// Calling Exit on a nil or already exited Handle does nothing.
func (h *Handle) Exit() {
	if h == nil || h.state != StateBeforeDone {
		return
	}
	// Flip first so a panicking after action is still never retried.
	h.state = StateAfterDone
	if h.after != nil {
		h.after()
	}
}

// State reports the current run-state.
func (h *Handle) State() State {
	if h == nil {
		return StateNotEntered
	}
	return h.state
}

// Done reports whether the after action has run.
func (h *Handle) Done() bool {
	return h.State() == StateAfterDone
}
