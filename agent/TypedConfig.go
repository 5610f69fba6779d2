package agent

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TypedConfig wraps a Config to enable a Config to be JSON or YAML
// unmarshaled into its underlying concrete type. The concrete type is
// looked up from the registered Types.
//
// In YAML, a TypedConfig looks like:
//
//	type: EGreedy
//	config:
//	  epsilon: 0.1
//	  learning_rate: 0.1
type TypedConfig struct {
	Type   Type   `json:"type" yaml:"type"`
	Config Config `json:"config" yaml:"config"`
}

// NewTypedConfig returns a new TypedConfig
func NewTypedConfig(t Type, c Config) TypedConfig {
	return TypedConfig{Type: t, Config: c}
}

// CreateAgent creates the agent described by the wrapped Config
func (t TypedConfig) CreateAgent(numActions int, seed uint64) (Agent, error) {
	if t.Config == nil {
		return nil, fmt.Errorf("createAgent: no config for agent type %v",
			t.Type)
	}
	return t.Config.CreateAgent(numActions, seed)
}

// Validate validates the wrapped Config
func (t TypedConfig) Validate() error {
	if t.Config == nil {
		return fmt.Errorf("validate: no config for agent type %v", t.Type)
	}
	return t.Config.Validate()
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type            `json:"type"`
		Config json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	config, err := NewConfig(raw.Type)
	if err != nil {
		return err
	}
	if len(raw.Config) > 0 {
		if err := json.Unmarshal(raw.Config, config); err != nil {
			return fmt.Errorf("unmarshalJSON: agent %v: %w", raw.Type, err)
		}
	}

	t.Type = raw.Type
	t.Config = config
	return nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (t *TypedConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Type   Type      `yaml:"type"`
		Config yaml.Node `yaml:"config"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	config, err := NewConfig(raw.Type)
	if err != nil {
		return err
	}
	if !raw.Config.IsZero() {
		if err := raw.Config.Decode(config); err != nil {
			return fmt.Errorf("unmarshalYAML: agent %v: %w", raw.Type, err)
		}
	}

	t.Type = raw.Type
	t.Config = config
	return nil
}
