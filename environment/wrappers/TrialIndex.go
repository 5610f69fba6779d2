// Package wrappers provides wrappers for environments and the
// observers that they use to construct observations
package wrappers

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/foraging/environment"
	"github.com/samuelfneumann/foraging/spec"
)

// TrialIndex observes only the index of the current trial. Time is
// the only state of a foraging task that the agent can observe.
type TrialIndex struct{}

// NewTrialIndex returns a new TrialIndex observer
func NewTrialIndex() TrialIndex {
	return TrialIndex{}
}

// Observe implements the environment.Observer interface
func (TrialIndex) Observe(h environment.History) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(h.Trial())})
}

// ObservationSpec implements the environment.Observer interface
func (TrialIndex) ObservationSpec(_, numTrials int) spec.Environment {
	return spec.Uniform(1, spec.Observation, 0, float64(numTrials-1),
		spec.Discrete)
}
