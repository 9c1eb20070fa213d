package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/ship-battle-sim/pkg/simulation"
)

// SimulationInfo contains information about a registered simulation
type SimulationInfo struct {
	Name   string
	Config simulation.SimulationConfig
}

// DiscoverSimulations lists the simulations known to the registry, sorted by name
func DiscoverSimulations(registry *simulation.Registry) ([]SimulationInfo, error) {
	names := registry.List()
	simulations := make([]SimulationInfo, 0, len(names))

	for _, name := range names {
		cfg, err := registry.Config(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read simulation %s: %w", name, err)
		}
		simulations = append(simulations, SimulationInfo{Name: name, Config: cfg})
	}

	return simulations, nil
}

// LoadParametersFile reads simulation parameters from a YAML mapping
func LoadParametersFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}

	params := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file: %w", err)
	}

	return params, nil
}
