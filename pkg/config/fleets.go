package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/ship-battle-sim/pkg/combat"
)

const (
	configDirName  = ".battle-sim"
	fleetsFileName = "fleets.yaml"

	// DefaultFleetName is the fleet used when none is selected
	DefaultFleetName = "Classic"
)

// Fleet is a named roster of ships
type Fleet struct {
	Name  string               `yaml:"name"`
	Ships []combat.Participant `yaml:"ships"`
}

// Validate checks the fleet name and its roster
func (f Fleet) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("fleet name is required")
	}
	if err := combat.ValidateRoster(f.Ships); err != nil {
		return fmt.Errorf("fleet %s: %w", f.Name, err)
	}
	return nil
}

// Fleets holds the saved fleet configurations
type Fleets struct {
	Fleets   []Fleet `yaml:"fleets"`
	Selected string  `yaml:"selected,omitempty"`
}

// Find returns the fleet with the given name
func (c *Fleets) Find(name string) (*Fleet, bool) {
	for i := range c.Fleets {
		if c.Fleets[i].Name == name {
			return &c.Fleets[i], true
		}
	}
	return nil, false
}

// Names returns the fleet names in file order
func (c *Fleets) Names() []string {
	names := make([]string, len(c.Fleets))
	for i, f := range c.Fleets {
		names[i] = f.Name
	}
	return names
}

// Remove deletes the named fleet and reports whether it existed
func (c *Fleets) Remove(name string) bool {
	kept := make([]Fleet, 0, len(c.Fleets))
	for _, f := range c.Fleets {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	removed := len(kept) != len(c.Fleets)
	c.Fleets = kept
	if removed && c.Selected == name {
		c.Selected = ""
	}
	return removed
}

// Dir returns the per-user configuration directory
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// LoadFleets loads fleet configurations from the default location
func LoadFleets() (*Fleets, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFleetsFromFile(filepath.Join(dir, fleetsFileName))
}

// LoadFleetsFromFile loads fleet configurations from a specific file.
// A missing file yields the built-in fleets.
func LoadFleetsFromFile(path string) (*Fleets, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultFleets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fleets file: %w", err)
	}

	var fleets Fleets
	if err := yaml.Unmarshal(data, &fleets); err != nil {
		return nil, fmt.Errorf("failed to parse fleets file: %w", err)
	}

	for _, f := range fleets.Fleets {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("invalid fleets file %s: %w", path, err)
		}
	}

	return &fleets, nil
}

// SaveFleets saves the fleet configuration to the default location
func SaveFleets(fleets *Fleets) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return SaveFleetsToFile(fleets, filepath.Join(dir, fleetsFileName))
}

// SaveFleetsToFile writes the fleet configuration to path
func SaveFleetsToFile(fleets *Fleets, path string) error {
	for _, f := range fleets.Fleets {
		if err := f.Validate(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(fleets)
	if err != nil {
		return fmt.Errorf("failed to marshal fleets: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write fleets file: %w", err)
	}

	return nil
}

// ClassicFleet returns the two-ship duel the simulator ships with
func ClassicFleet() Fleet {
	return Fleet{
		Name: DefaultFleetName,
		Ships: []combat.Participant{
			{Name: "Mad Sheep", Health: 5, Shield: 8},
			{Name: "Strong Viking", Health: 8, Shield: 3},
		},
	}
}

// DefaultFleets returns the built-in fleet configuration
func DefaultFleets() *Fleets {
	return &Fleets{
		Fleets: []Fleet{
			ClassicFleet(),
			{
				Name: "Armada",
				Ships: []combat.Participant{
					{Name: "Mad Sheep", Health: 5, Shield: 8},
					{Name: "Strong Viking", Health: 8, Shield: 3},
					{Name: "Iron Gull", Health: 6, Shield: 5},
					{Name: "Paper Tiger", Health: 10, Shield: 0},
				},
			},
		},
		Selected: DefaultFleetName,
	}
}
