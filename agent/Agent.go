// Package agent defines the contract between foraging environments
// and the agents that act in them
package agent

import (
	"gonum.org/v1/gonum/mat"
)

// Agent chooses actions from observations and learns from the rewards
// it receives. Environments require nothing of an Agent beyond legal
// actions.
type Agent interface {
	Policy
	Learner
}

// Policy selects actions
type Policy interface {
	// Act chooses an action given the current observation
	Act(obs *mat.VecDense) (int, error)
}

// Learner updates an agent's knowledge from the outcome of an action
type Learner interface {
	// Learn records that taking action given obs led to reward and
	// the next observation next. The done argument indicates whether
	// the session ended.
	Learn(obs *mat.VecDense, action int, reward float64,
		next *mat.VecDense, done bool) error
}

// Resetter is an Agent with internal state that must be reset between
// sessions
type Resetter interface {
	Agent
	Reset()
}
