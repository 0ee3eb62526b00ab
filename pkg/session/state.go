package session

import "fmt"

// State tracks a run through its stages. For geometry, Failed is only
// reachable from Validating: later stages assume validated input and
// degrade on pathological geometry instead of failing. A sink that breaks
// its contract mid-emission also fails the run.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateVoxelizing
	StateClassifying
	StateEmitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateVoxelizing:
		return "voxelizing"
	case StateClassifying:
		return "classifying"
	case StateEmitting:
		return "emitting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
