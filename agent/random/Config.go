package random

import (
	"fmt"

	"github.com/samuelfneumann/foraging/agent"
)

func init() {
	agent.Register(agent.Random, Config{})
	agent.Register(agent.BiasedIgnore, BiasedIgnoreConfig{})
}

// Config configures a Random agent. If Weights is empty, the agent
// chooses actions uniformly.
type Config struct {
	Weights []float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// Validate implements the agent.Config interface
func (c Config) Validate() error {
	for i, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("validate: action %v has negative weight %v",
				i, w)
		}
	}
	return nil
}

// CreateAgent implements the agent.Config interface
func (c Config) CreateAgent(numActions int, seed uint64) (agent.Agent,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createAgent: %w", err)
	}
	if len(c.Weights) == 0 {
		return NewUniform(numActions, seed)
	}
	if len(c.Weights) != numActions {
		return nil, fmt.Errorf("createAgent: %v weights for %v actions",
			len(c.Weights), numActions)
	}
	return NewWeighted(c.Weights, seed)
}

// BiasedIgnoreConfig configures a BiasedIgnore agent
type BiasedIgnoreConfig struct{}

// Validate implements the agent.Config interface
func (BiasedIgnoreConfig) Validate() error {
	return nil
}

// CreateAgent implements the agent.Config interface
func (BiasedIgnoreConfig) CreateAgent(numActions int, seed uint64) (
	agent.Agent, error) {
	if numActions != len(BiasedIgnoreWeights) {
		return nil, fmt.Errorf("createAgent: biased ignore agents need %v "+
			"actions (left, right, ignore), got %v",
			len(BiasedIgnoreWeights), numActions)
	}
	return NewBiasedIgnore(seed)
}
