// Package random implements agents that choose actions at random
// without learning
package random

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/foraging/agent"
)

// BiasedIgnoreWeights are the relative weights with which a
// BiasedIgnore agent chooses the left arm, the right arm, and the
// ignore action
var BiasedIgnoreWeights = []float64{100, 20, 1}

// Random implements an agent that samples actions from a fixed
// categorical distribution and never learns. Random implements the
// agent.Agent interface.
type Random struct {
	weights []float64
	dist    distuv.Categorical
}

// NewUniform returns a new Random agent that chooses uniformly among
// numActions actions
func NewUniform(numActions int, seed uint64) (*Random, error) {
	if err := agent.ValidateNumActions(numActions); err != nil {
		return nil, fmt.Errorf("newUniform: %w", err)
	}

	weights := make([]float64, numActions)
	for i := range weights {
		weights[i] = 1.0 / float64(numActions)
	}
	return NewWeighted(weights, seed)
}

// NewWeighted returns a new Random agent that chooses action i with
// probability proportional to weights[i]
func NewWeighted(weights []float64, seed uint64) (*Random, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("newWeighted: no action weights")
	}
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("newWeighted: action %v has negative "+
				"weight %v", i, w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("newWeighted: all action weights are zero")
	}

	source := rand.NewSource(seed)
	w := append([]float64(nil), weights...)
	return &Random{weights: w, dist: distuv.NewCategorical(w, source)}, nil
}

// NewBiasedIgnore returns a new Random agent for two-armed tasks that
// allow ignoring. The agent is biased towards the left arm and rarely
// ignores trials.
func NewBiasedIgnore(seed uint64) (*Random, error) {
	return NewWeighted(BiasedIgnoreWeights, seed)
}

// Act implements the agent.Policy interface
func (r *Random) Act(*mat.VecDense) (int, error) {
	return int(r.dist.Rand()), nil
}

// Learn implements the agent.Learner interface. Random agents do not
// learn.
func (r *Random) Learn(*mat.VecDense, int, float64, *mat.VecDense,
	bool) error {
	return nil
}

// NumActions returns the number of actions the agent chooses from
func (r *Random) NumActions() int {
	return len(r.weights)
}
