package pipeline

import "fmt"

// RunState tracks the batch lifecycle. A run always ends in RunCompleted or
// RunAborted; RunAborted is reserved for fatal engine loss.
type RunState int

const (
	RunIdle RunState = iota
	RunEnumerating
	RunRendering
	RunCleaning
	RunCompleted
	RunAborted
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunEnumerating:
		return "enumerating"
	case RunRendering:
		return "rendering"
	case RunCleaning:
		return "cleaning"
	case RunCompleted:
		return "completed"
	case RunAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state ends the run.
func IsTerminal(s RunState) bool {
	return s == RunCompleted || s == RunAborted
}

func allowedTransition(from, to RunState) bool {
	switch from {
	case RunIdle:
		return to == RunEnumerating
	case RunEnumerating:
		return to == RunRendering || to == RunCompleted || to == RunAborted
	case RunRendering:
		return to == RunCleaning || to == RunCompleted || to == RunAborted
	case RunCleaning:
		return to == RunRendering || to == RunCompleted || to == RunAborted
	default:
		return false
	}
}

// tracker holds the current run state and rejects disallowed transitions.
// A rejected transition indicates an orchestration bug, not a bad input.
type tracker struct {
	cur RunState
}

func (t *tracker) to(next RunState) error {
	if !allowedTransition(t.cur, next) {
		return fmt.Errorf("disallowed run transition: %s -> %s", t.cur, next)
	}
	t.cur = next
	return nil
}
