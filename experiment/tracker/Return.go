package tracker

import (
	"fmt"
	"sync"

	ts "github.com/samuelfneumann/foraging/timestep"
)

// Return tracks and saves the total reward of each session in an
// experiment. When an environment returns a TimeStep, this Tracker
// will extract the reward and accumulate the return for the session.
//
// Note: A session must finish for this Tracker to save its data. If
// the last session in an experiment does not finish, that session's
// return will not be saved.
//
// Return is safe for concurrent use, but tracks one session at a time.
type Return struct {
	mu             sync.Mutex
	lastTimeStep   int
	currentReturn  float64
	sessionReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{lastTimeStep: -1, filename: filename}
}

// Track tracks the rewards seen on a timestep. When a new session
// starts, this method will automatically detect this and start
// accumulating the rewards for this new session separately from the
// rewards seen on previous sessions.
//
// Track returns an error if it is called for non-sequential timesteps.
// The Last timestep of a session repeats the trial number of the
// timestep before it.
func (r *Return) Track(step ts.TimeStep) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case step.First():
		r.currentReturn = 0
		r.lastTimeStep = step.Number
		return nil

	case r.lastTimeStep < 0:
		return fmt.Errorf("track: timestep %v tracked before the first "+
			"timestep of a session", step.Number)

	case step.Mid() && step.Number != r.lastTimeStep+1,
		step.Last() && step.Number != r.lastTimeStep:
		return fmt.Errorf("track: last two timesteps tracked are not "+
			"sequential: timestep %v --> timestep %v were tracked",
			r.lastTimeStep, step.Number)
	}

	r.currentReturn += step.Reward
	r.lastTimeStep = step.Number

	if step.Last() {
		// Session has ended, save the return and begin tracking the
		// return for a new session
		r.sessionReturns = append(r.sessionReturns, r.currentReturn)
		r.currentReturn = 0
		r.lastTimeStep = -1
	}
	return nil
}

// Returns returns the returns of all finished sessions
func (r *Return) Returns() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.sessionReturns...)
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := saveData(r.filename, r.sessionReturns); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
