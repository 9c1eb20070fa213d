package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/picogrid/ship-battle-sim/pkg/combat"
	"github.com/picogrid/ship-battle-sim/pkg/logger"
)

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*BattleConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config BattleConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadConfigOrDefault loads config from file or returns default, with environment overrides
func LoadConfigOrDefault(path string) (*BattleConfig, error) {
	var config *BattleConfig
	var err error

	if path != "" {
		config, err = LoadConfig(path)
		if err != nil {
			// An explicitly requested file must load.
			return nil, err
		}
		logger.Debugf("Loaded battle config from: %s", path)
	}

	if config == nil {
		defaultPaths := []string{
			"ship-battle.yaml",
			filepath.Join("cmd", "ship-battle", "config.yaml"),
		}

		for _, p := range defaultPaths {
			if _, statErr := os.Stat(p); statErr != nil {
				continue
			}
			config, err = LoadConfig(p)
			if err != nil {
				logger.Warnf("Could not load config from %s: %v", p, err)
				config = nil
				continue
			}
			logger.Debugf("Loaded battle config from: %s", p)
			break
		}
	}

	if config == nil {
		logger.Debug("Using default battle configuration")
		config = GetDefaultConfig()
	}

	if err := MergeWithEnvironment(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *BattleConfig, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// MergeWithCLIOverrides applies CLI parameter overrides to the configuration.
// Values of the wrong type or out of range are ignored.
func MergeWithCLIOverrides(config *BattleConfig, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "seed":
			if seed, ok := toInt64(value); ok {
				config.Advanced.Seed = seed
			}
		case "max_rounds":
			if rounds, ok := toInt64(value); ok && rounds >= 0 {
				config.Advanced.MaxRounds = int(rounds)
			}
		case "round_interval":
			if interval, ok := toDuration(value); ok && interval >= 0 {
				config.Simulation.RoundInterval = interval
			}
		case "fleet":
			if ships, ok := value.([]combat.Participant); ok {
				config.Fleet = ships
			}
		case "fleet_name":
			if name, ok := value.(string); ok && name != "" {
				config.Simulation.FleetName = name
			}
		case "report":
			if enable, ok := value.(bool); ok {
				config.Logging.EnableReport = enable
			}
		case "report_format":
			if format, ok := value.(string); ok && contains(validReportFormats, format) {
				config.Logging.ReportFormat = format
			}
		case "report_output_path":
			if path, ok := value.(string); ok && path != "" {
				config.Logging.ReportOutputPath = path
			}
		case "verbose_logging":
			if verbose, ok := value.(bool); ok {
				config.Advanced.VerboseLogging = verbose
			}
		case "log_level":
			if level, ok := value.(string); ok && contains(validLogLevels, level) {
				config.Logging.ConsoleLevel = level
			}
		}
	}
}

// LoadConfigWithOverrides loads config and applies both environment and CLI overrides
func LoadConfigWithOverrides(path string, cliOverrides map[string]interface{}) (*BattleConfig, error) {
	config, err := LoadConfigOrDefault(path)
	if err != nil {
		return nil, err
	}

	if cliOverrides != nil {
		MergeWithCLIOverrides(config, cliOverrides)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed after overrides: %w", err)
	}

	return config, nil
}

// environment lists the variables that override the battle config. Unset
// variables stay nil.
type environment struct {
	Seed          *int64         `env:"BATTLE_SEED"`
	MaxRounds     *int           `env:"BATTLE_MAX_ROUNDS"`
	RoundInterval *time.Duration `env:"BATTLE_ROUND_INTERVAL"`
	LogLevel      *string        `env:"LOG_LEVEL"`
	EnableReport  *bool          `env:"ENABLE_REPORT"`
	ReportPath    *string        `env:"REPORT_OUTPUT_PATH"`
	Verbose       *bool          `env:"VERBOSE_LOGGING"`
}

// MergeWithEnvironment merges config with environment variables and
// validates the result.
func MergeWithEnvironment(config *BattleConfig) error {
	var e environment
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if e.Seed != nil {
		config.Advanced.Seed = *e.Seed
	}
	if e.MaxRounds != nil {
		config.Advanced.MaxRounds = *e.MaxRounds
	}
	if e.RoundInterval != nil {
		config.Simulation.RoundInterval = *e.RoundInterval
	}
	if e.LogLevel != nil {
		config.Logging.ConsoleLevel = strings.ToLower(*e.LogLevel)
	}
	if e.EnableReport != nil {
		config.Logging.EnableReport = *e.EnableReport
	}
	if e.ReportPath != nil && *e.ReportPath != "" {
		config.Logging.ReportOutputPath = *e.ReportPath
	}
	if e.Verbose != nil {
		config.Advanced.VerboseLogging = *e.Verbose
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}

func toInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

func toDuration(v interface{}) (time.Duration, bool) {
	switch val := v.(type) {
	case time.Duration:
		return val, true
	case string:
		d, err := time.ParseDuration(val)
		return d, err == nil
	default:
		return 0, false
	}
}
