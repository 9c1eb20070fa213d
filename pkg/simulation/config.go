package simulation

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SimulationConfig represents the configuration structure for a simulation
// loaded from simulation.yaml
type SimulationConfig struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Version     string      `yaml:"version"`
	Category    string      `yaml:"category"`
	Parameters  []Parameter `yaml:"parameters"`
}

// Parameter defines a configurable parameter for a simulation
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"` // integer, float, string, duration, boolean
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"` // For string enums
}

var parameterTypes = map[string]bool{
	"integer":  true,
	"float":    true,
	"string":   true,
	"duration": true,
	"boolean":  true,
}

// ParseConfig decodes and validates a simulation.yaml document
func ParseConfig(data []byte) (SimulationConfig, error) {
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SimulationConfig{}, fmt.Errorf("failed to parse simulation config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return SimulationConfig{}, err
	}
	return cfg, nil
}

// Validate checks that the config names the simulation and every parameter
// has a known type.
func (c SimulationConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("simulation name is required")
	}

	seen := make(map[string]bool, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("simulation %s: parameter name is required", c.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("simulation %s: duplicate parameter %s", c.Name, p.Name)
		}
		seen[p.Name] = true
		if !parameterTypes[p.Type] {
			return fmt.Errorf("simulation %s: parameter %s has unsupported type %q", c.Name, p.Name, p.Type)
		}
	}
	return nil
}

// Parameter returns the parameter with the given name
func (c SimulationConfig) Parameter(name string) (Parameter, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}
