package config

import (
	"fmt"
	"time"

	"github.com/picogrid/ship-battle-sim/pkg/combat"
)

// MaxRoundInterval caps the pause between rounds
const MaxRoundInterval = 10 * time.Second

// BattleConfig holds the complete battle configuration
type BattleConfig struct {
	// Basic simulation settings
	Simulation SimulationSettings `yaml:"simulation"`

	// Ships in combat order
	Fleet []combat.Participant `yaml:"fleet"`

	// Logging and reporting
	Logging LoggingConfig `yaml:"logging"`

	// Advanced options
	Advanced AdvancedConfig `yaml:"advanced"`
}

// SimulationSettings holds basic simulation settings
type SimulationSettings struct {
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	FleetName     string        `yaml:"fleet_name,omitempty"`
	RoundInterval time.Duration `yaml:"round_interval"`
}

// LoggingConfig defines logging and reporting settings
type LoggingConfig struct {
	ConsoleLevel     string `yaml:"console_level"` // "debug", "info", "warn", "error"
	EnableReport     bool   `yaml:"enable_report"`
	ReportFormat     string `yaml:"report_format"` // "json", "markdown"
	ReportOutputPath string `yaml:"report_output_path"`
	EventBufferSize  int    `yaml:"event_buffer_size"`
}

// AdvancedConfig defines advanced simulation options
type AdvancedConfig struct {
	Seed           int64 `yaml:"seed"`       // 0 picks a time based seed
	MaxRounds      int   `yaml:"max_rounds"` // 0 means no limit
	VerboseLogging bool  `yaml:"verbose_logging"`
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validReportFormats = []string{"json", "markdown"}
)

// Validate validates the configuration
func (c *BattleConfig) Validate() error {
	if c.Simulation.Name == "" {
		return fmt.Errorf("simulation name is required")
	}

	if c.Simulation.RoundInterval < 0 {
		return fmt.Errorf("round interval must not be negative")
	}
	if c.Simulation.RoundInterval > MaxRoundInterval {
		return fmt.Errorf("round interval must be at most %s", MaxRoundInterval)
	}

	if err := combat.ValidateRoster(c.Fleet); err != nil {
		return fmt.Errorf("invalid fleet: %w", err)
	}

	if c.Logging.ConsoleLevel != "" && !contains(validLogLevels, c.Logging.ConsoleLevel) {
		return fmt.Errorf("console level must be one of %v", validLogLevels)
	}

	if c.Logging.EnableReport {
		if !contains(validReportFormats, c.Logging.ReportFormat) {
			return fmt.Errorf("report format must be one of %v", validReportFormats)
		}
		if c.Logging.ReportOutputPath == "" {
			return fmt.Errorf("report output path is required when reports are enabled")
		}
	}

	if c.Logging.EventBufferSize < 0 {
		return fmt.Errorf("event buffer size must not be negative")
	}

	if c.Advanced.MaxRounds < 0 {
		return fmt.Errorf("max rounds must not be negative")
	}

	return nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *BattleConfig {
	return &BattleConfig{
		Simulation: SimulationSettings{
			Name:          "ship-battle",
			Description:   "Last Ship Standing",
			FleetName:     "Classic",
			RoundInterval: 500 * time.Millisecond,
		},
		Fleet: []combat.Participant{
			{Name: "Mad Sheep", Health: 5, Shield: 8},
			{Name: "Strong Viking", Health: 8, Shield: 3},
		},
		Logging: LoggingConfig{
			ConsoleLevel:     "info",
			EnableReport:     false,
			ReportFormat:     "markdown",
			ReportOutputPath: "./reports",
			EventBufferSize:  10000,
		},
		Advanced: AdvancedConfig{
			Seed:           0,
			MaxRounds:      1000,
			VerboseLogging: false,
		},
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
