package simulation

import (
	"fmt"
	"time"

	"github.com/picogrid/ship-battle-sim/cmd/ship-battle/config"
)

// Params holds the validated run parameters. Overrides only carries the
// parameters that were actually supplied, keyed for config.MergeWithCLIOverrides.
type Params struct {
	Fleet      string
	ConfigFile string
	Overrides  map[string]interface{}
}

// ValidateAndParse validates and parses the raw parameters
func ValidateAndParse(params map[string]interface{}) (*Params, error) {
	p := &Params{Overrides: make(map[string]interface{})}

	// Parse fleet
	if v, ok := params["fleet"]; ok && v != nil {
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("fleet must be a string")
		}
		p.Fleet = name
	}

	// Parse config_file
	if v, ok := params["config_file"]; ok && v != nil {
		path, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("config_file must be a string")
		}
		p.ConfigFile = path
	}

	// Parse seed
	if v, ok := params["seed"]; ok {
		seed, err := parseInt(v)
		if err != nil {
			return nil, fmt.Errorf("seed %w", err)
		}
		p.Overrides["seed"] = seed
	}

	// Parse max_rounds
	if v, ok := params["max_rounds"]; ok {
		rounds, err := parseInt(v)
		if err != nil {
			return nil, fmt.Errorf("max_rounds %w", err)
		}
		if rounds < 0 {
			return nil, fmt.Errorf("max_rounds must not be negative")
		}
		p.Overrides["max_rounds"] = rounds
	}

	// Parse round_interval
	if v, ok := params["round_interval"]; ok {
		var interval time.Duration
		switch val := v.(type) {
		case time.Duration:
			interval = val
		case string:
			d, err := time.ParseDuration(val)
			if err != nil {
				return nil, fmt.Errorf("invalid round_interval format: %w", err)
			}
			interval = d
		case int:
			interval = time.Duration(val) * time.Second
		case float64:
			interval = time.Duration(val * float64(time.Second))
		default:
			return nil, fmt.Errorf("round_interval must be a duration")
		}
		if interval < 0 || interval > config.MaxRoundInterval {
			return nil, fmt.Errorf("round_interval must be between 0s and %s", config.MaxRoundInterval)
		}
		p.Overrides["round_interval"] = interval
	}

	// Parse booleans
	for param, key := range map[string]string{
		"verbose": "verbose_logging",
		"report":  "report",
	} {
		v, ok := params[param]
		if !ok {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%s must be a boolean", param)
		}
		p.Overrides[key] = b
	}

	// Parse report_format
	if v, ok := params["report_format"]; ok {
		format := fmt.Sprintf("%v", v)
		if format != "json" && format != "markdown" {
			return nil, fmt.Errorf("report_format must be one of: json, markdown")
		}
		p.Overrides["report_format"] = format
	}

	// Parse report_output_path
	if v, ok := params["report_output_path"]; ok {
		p.Overrides["report_output_path"] = fmt.Sprintf("%v", v)
	}

	return p, nil
}

func parseInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("must be an integer")
		}
		return int(val), nil
	default:
		return 0, fmt.Errorf("must be an integer")
	}
}
