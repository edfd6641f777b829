package countdown

import "tugas/internal/service"

// State is the derived display state of a task. It is never persisted.
type State string

const (
	// Computing means the task has not been ticked yet.
	Computing State = "computing"
	Active    State = "active"
	Expired   State = "expired"
	Completed State = "completed"
)

// StateOf derives the display state of task from its last countdown string.
// ticked is false until the first tick has covered the task.
func StateOf(task service.Task, remaining string, ticked bool) State {
	switch {
	case task.Completed:
		return Completed
	case !ticked:
		return Computing
	case remaining == ExpiredText:
		return Expired
	default:
		return Active
	}
}

// Text returns what to display for remaining, substituting ComputingText
// before the first tick.
func Text(remaining string, ticked bool) string {
	if !ticked {
		return ComputingText
	}
	return remaining
}
