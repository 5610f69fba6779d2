// Package environment outlines the interfaces and structs needed to
// implement dynamic foraging tasks: the environment that agents act
// in, the reward schedules that drive the hidden reward probabilities,
// and the observations agents receive.
package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/foraging/spec"
	"github.com/samuelfneumann/foraging/timestep"
)

// Schedule generates the hidden reward probability of each arm on each
// trial of a session. Schedules never own a random source. All
// randomness is drawn from the source handed in by the environment so
// that a whole session is reproducible from a single seed.
type Schedule interface {
	// Validate returns an error if the schedule cannot be used with
	// numArms arms
	Validate(numArms int) error

	// Initialize resets the schedule's internal state and returns the
	// reward probabilities of trial 0
	Initialize(src rand.Source, numArms int) ([]float64, error)

	// Advance returns the reward probabilities of the next trial,
	// given the probabilities of all previous trials. Advance must not
	// modify history.
	Advance(src rand.Source, history [][]float64) ([]float64, error)

	// Bounds returns the interval that each arm's reward probability
	// is restricted to
	Bounds(numArms int) []r1.Interval
}

// ActionObserver is a Schedule whose dynamics depend on the choices of
// the agent. The environment calls ObserveAction with the action taken
// on a trial before advancing to the next trial.
type ActionObserver interface {
	Schedule
	ObserveAction(action int)
}

// History gives read-only access to the recorded state of a session.
// All returned slices and matrices are copies and reflect the state of
// the session at call time.
type History interface {
	// Trial returns the index of the current trial, or -1 if the
	// environment has never been reset
	Trial() int

	NumArms() int
	NumTrials() int

	// NumActions returns the number of legal actions, which includes
	// the ignore action if it is allowed
	NumActions() int

	ChoiceHistory() []int
	RewardHistory() []int

	// PReward returns the reward probability history as a matrix with
	// one row per arm and one column per trial
	PReward() *mat.Dense
}

// Info holds information about the environment that the agent is not
// supposed to know, such as the hidden reward probabilities. It is
// useful to evaluate the agent's performance.
type Info struct {
	Trial int

	// Task is a read-only handle on the environment's history
	Task History
}

// Environment implements a dynamic foraging task that agents act in
type Environment interface {
	// Reset starts a new session seeded by seed
	Reset(seed uint64) (timestep.TimeStep, Info, error)

	// Step takes action on the current trial and returns the next
	// timestep and whether the session has terminated
	Step(action int) (timestep.TimeStep, bool, error)

	Info() Info
	ActionSpec() spec.Environment
	ObservationSpec() spec.Environment
}

// Observer maps the state of an environment to the observation an
// agent receives
type Observer interface {
	Observe(h History) *mat.VecDense

	// ObservationSpec returns the specification of the observations
	// constructed for a session of numTrials trials with numActions
	// legal actions
	ObservationSpec(numActions, numTrials int) spec.Environment
}
