// Package egreedy implements an ε-greedy action-value agent for
// bandit tasks
package egreedy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/foraging/agent"
	"github.com/samuelfneumann/foraging/utils/floatutils"
)

// EGreedy implements an ε-greedy agent that estimates the value of
// each action from the rewards it receives and ignores observations.
// With probability ε a random action is selected. Otherwise a greedy
// action is selected, with ties broken randomly.
//
// Action values are updated as
//
//	Q(a) <- Q(a) + α * (r - Q(a))
//
// where α is the constant learning rate. If the learning rate is 0,
// then α = 1 / N(a), the sample average of the rewards for action a.
//
// EGreedy implements the agent.Agent and agent.Resetter interfaces.
type EGreedy struct {
	epsilon      float64
	learningRate float64
	init         float64

	values []float64
	counts []int

	rng     *rand.Rand
	explore distuv.Bernoulli
}

// New returns a new EGreedy agent for numActions actions. All action
// values start at init.
func New(numActions int, epsilon, learningRate, init float64,
	seed uint64) (*EGreedy, error) {
	if err := agent.ValidateNumActions(numActions); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("new: epsilon %v ∉ [0, 1]", epsilon)
	}
	if learningRate < 0 || learningRate > 1 {
		return nil, fmt.Errorf("new: learning rate %v ∉ [0, 1]",
			learningRate)
	}

	source := rand.NewSource(seed)
	e := &EGreedy{
		epsilon:      epsilon,
		learningRate: learningRate,
		init:         init,
		values:       make([]float64, numActions),
		counts:       make([]int, numActions),
		rng:          rand.New(source),
		explore:      distuv.Bernoulli{P: epsilon, Src: source},
	}
	e.Reset()
	return e, nil
}

// Reset resets all action values to their initial value
func (e *EGreedy) Reset() {
	for i := range e.values {
		e.values[i] = e.init
		e.counts[i] = 0
	}
}

// Act implements the agent.Policy interface
func (e *EGreedy) Act(*mat.VecDense) (int, error) {
	if e.explore.Rand() == 1 {
		return e.rng.Intn(len(e.values)), nil
	}

	_, greedy := floatutils.MaxSlice(e.values)
	return greedy[e.rng.Intn(len(greedy))], nil
}

// Learn implements the agent.Learner interface
func (e *EGreedy) Learn(_ *mat.VecDense, action int, reward float64,
	_ *mat.VecDense, _ bool) error {
	if action < 0 || action >= len(e.values) {
		return fmt.Errorf("learn: illegal action %v ∉ [0, %v)", action,
			len(e.values))
	}

	e.counts[action]++
	step := e.learningRate
	if step == 0 {
		step = 1.0 / float64(e.counts[action])
	}
	e.values[action] += step * (reward - e.values[action])
	return nil
}

// Values returns the current action value estimates
func (e *EGreedy) Values() []float64 {
	return append([]float64(nil), e.values...)
}

// Epsilon returns the probability of selecting a random action
func (e *EGreedy) Epsilon() float64 {
	return e.epsilon
}
