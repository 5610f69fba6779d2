package wrappers

import (
	"fmt"

	"github.com/samuelfneumann/foraging/environment"
	"github.com/samuelfneumann/foraging/spec"
	"github.com/samuelfneumann/foraging/timestep"
)

// Observed wraps an environment and replaces the observation of every
// timestep with the observation constructed by an environment.Observer.
// Rewards, step types, and trial numbers are left unchanged.
//
// Observed itself implements the environment.Environment interface,
// and is therefore itself an Environment. Several Observed wrappers
// may wrap the same environment, but only the wrapper that was
// stepped returns the new observation.
type Observed struct {
	environment.Environment
	observer environment.Observer
}

// NewObserved returns a new Observed environment wrapper
func NewObserved(env environment.Environment,
	observer environment.Observer) (*Observed, error) {
	if env == nil || observer == nil {
		return nil, fmt.Errorf("newObserved: %w: environment and observer "+
			"must not be nil", environment.ErrInvalidConfig)
	}
	return &Observed{env, observer}, nil
}

// Reset resets the wrapped environment and returns the first timestep
// with the observer's observation
func (o *Observed) Reset(seed uint64) (timestep.TimeStep,
	environment.Info, error) {
	step, info, err := o.Environment.Reset(seed)
	if err != nil {
		return step, info, err
	}

	step.Observation = o.observer.Observe(info.Task)
	return step, info, nil
}

// Step takes one step in the wrapped environment and returns the next
// timestep with the observer's observation
func (o *Observed) Step(action int) (timestep.TimeStep, bool, error) {
	step, done, err := o.Environment.Step(action)
	if err != nil {
		return step, done, err
	}

	step.Observation = o.observer.Observe(o.Info().Task)
	return step, done, nil
}

// Observer returns the observer used to construct observations
func (o *Observed) Observer() environment.Observer {
	return o.observer
}

// ObservationSpec returns the observation specification of the
// observer
func (o *Observed) ObservationSpec() spec.Environment {
	h := o.Info().Task
	return o.observer.ObservationSpec(h.NumActions(), h.NumTrials())
}

func (o *Observed) String() string {
	return fmt.Sprintf("Observed %T: %v", o.observer, o.Environment)
}
