package envconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a task configuration from a YAML or JSON file. Fields
// missing from the file keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML or JSON task configuration. Fields missing from
// data keep their Default values.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	return c, nil
}
