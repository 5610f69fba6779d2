// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep in a foraging session.
//
// Number is the index of the trial that the Observation describes. For
// a TimeStep returned by a Step call, Reward is the outcome of the
// action taken on the previous trial. On the Last TimeStep of an
// episode Number does not advance, since no further trial is generated.
type TimeStep struct {
	StepType
	Reward      float64
	Observation *mat.VecDense
	Number      int
}

// New returns a new TimeStep
func New(t StepType, r float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{t, r, o, n}
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// Truncated returns whether the episode was cut short. Foraging
// sessions always run for their full number of trials, so episodes
// are never truncated.
func (t *TimeStep) Truncated() bool {
	return false
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Trial:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Number)
}
