package agent

import (
	"fmt"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes for an
	// environment with numActions legal actions
	CreateAgent(numActions int, seed uint64) (Agent, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}

// ValidateNumActions returns an error if an agent cannot act in an
// environment with numActions legal actions
func ValidateNumActions(numActions int) error {
	if numActions < 1 {
		return fmt.Errorf("agent: need at least one action, got %v",
			numActions)
	}
	return nil
}
