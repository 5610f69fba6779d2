package environment

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when an environment is stepped
	// before it was reset
	ErrNotInitialized = errors.New("environment not initialized: call Reset first")

	// ErrEpisodeTerminated is returned when an environment is stepped
	// after its session has terminated
	ErrEpisodeTerminated = errors.New("episode terminated: call Reset to start a new session")

	// ErrUnimplementedSchedule is returned by a Schedule that has no
	// concrete way of generating reward probabilities
	ErrUnimplementedSchedule = errors.New("schedule does not implement trial generation")

	// ErrInvalidConfig is returned when a task or schedule is
	// configured with illegal parameters
	ErrInvalidConfig = errors.New("invalid configuration")
)

// InvalidActionError is returned when an action outside of the action
// space is taken
type InvalidActionError struct {
	Action     int
	NumActions int
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("illegal action %v ∉ [0, %v)", e.Action,
		e.NumActions)
}
