package egreedy

import (
	"fmt"

	"github.com/samuelfneumann/foraging/agent"
)

func init() {
	agent.Register(agent.EGreedy, Config{})
}

// Config configures an EGreedy agent
type Config struct {
	Epsilon      float64 `json:"epsilon" yaml:"epsilon"`
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`
	Init         float64 `json:"init" yaml:"init"`
}

// Validate implements the agent.Config interface
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon %v ∉ [0, 1]", c.Epsilon)
	}
	if c.LearningRate < 0 || c.LearningRate > 1 {
		return fmt.Errorf("validate: learning rate %v ∉ [0, 1]",
			c.LearningRate)
	}
	return nil
}

// CreateAgent implements the agent.Config interface
func (c Config) CreateAgent(numActions int, seed uint64) (agent.Agent,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createAgent: %w", err)
	}
	return New(numActions, c.Epsilon, c.LearningRate, c.Init, seed)
}
