package experiment

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/foraging/agent"
	"github.com/samuelfneumann/foraging/agent/random"
	"github.com/samuelfneumann/foraging/environment/envconfig"
)

// Config represents a configuration of a batch of sessions. Each
// session i of the batch resets its task and seeds its agent with
// Seed + i.
type Config struct {
	Name     string            `json:"name" yaml:"name"`
	Sessions int               `json:"sessions" yaml:"sessions"`
	Seed     uint64            `json:"seed" yaml:"seed"`
	Workers  int               `json:"workers" yaml:"workers"`
	Env      envconfig.Config  `json:"environment" yaml:"environment"`
	Agent    agent.TypedConfig `json:"agent" yaml:"agent"`
}

// DefaultConfig returns a configuration of a single session of the
// default task with a uniformly random agent
func DefaultConfig() Config {
	return Config{
		Name:     "foraging",
		Sessions: 1,
		Seed:     42,
		Workers:  runtime.GOMAXPROCS(0),
		Env:      envconfig.Default(),
		Agent:    agent.NewTypedConfig(agent.Random, random.Config{}),
	}
}

// LoadConfig reads a YAML or JSON configuration from path. Fields
// missing from the file keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v: %w", path, err)
	}
	return c, nil
}

// Validate returns an error describing whether or not the
// configuration is valid or not
func (c Config) Validate() error {
	if c.Sessions < 1 {
		return fmt.Errorf("validate: need at least one session, got %v",
			c.Sessions)
	}
	if c.Workers < 1 {
		return fmt.Errorf("validate: need at least one worker, got %v",
			c.Workers)
	}
	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
