package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"

	"github.com/picogrid/ship-battle-sim/pkg/simulation"
)

// EnvPrefix prefixes the environment variables that supply parameter values
const EnvPrefix = "BATTLE_"

// Interactive reports whether parameters may be asked for on the terminal.
// BATTLE_SKIP_PROMPTS=true or a non-terminal stdin disable prompting.
func Interactive() bool {
	if os.Getenv(EnvPrefix+"SKIP_PROMPTS") == "true" {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptForParameters collects simulation parameters. Values already present
// in preset are kept as is; the rest come from BATTLE_<NAME> environment
// variables, interactive prompts, or parameter defaults.
func PromptForParameters(params []simulation.Parameter, preset map[string]interface{}) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(params))
	for k, v := range preset {
		result[k] = v
	}

	interactive := Interactive()
	for _, param := range params {
		if _, ok := result[param.Name]; ok {
			continue
		}

		value, err := resolveParameter(param, interactive)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		if value != nil {
			result[param.Name] = value
		}
	}

	return result, nil
}

// resolveParameter returns nil for an optional parameter with no value
func resolveParameter(param simulation.Parameter, interactive bool) (interface{}, error) {
	envKey := EnvPrefix + strings.ToUpper(param.Name)
	envValue := os.Getenv(envKey)

	if !interactive {
		if envValue != "" {
			return parseEnvValue(envValue, param)
		}
		if param.Default != nil {
			return normalizeDefault(param)
		}
		if param.Required {
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return nil, nil
	}

	// The environment only changes the default offered in the prompt.
	if envValue != "" {
		parsed, err := parseEnvValue(envValue, param)
		if err == nil {
			param.Default = parsed
		}
	}

	return promptForParameter(param)
}

func promptForParameter(param simulation.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		return promptInteger(param)
	case "float":
		return promptFloat(param)
	case "string":
		return promptString(param)
	case "boolean":
		return promptBoolean(param)
	case "duration":
		return promptDuration(param)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// normalizeDefault converts a YAML default to the type a prompt would return
func normalizeDefault(param simulation.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		return toInt(param.Default), nil
	case "float":
		return toFloat64(param.Default), nil
	case "duration":
		if d, ok := param.Default.(time.Duration); ok {
			return d, nil
		}
		return parseEnvValue(fmt.Sprintf("%v", param.Default), param)
	case "boolean":
		if b, ok := param.Default.(bool); ok {
			return b, nil
		}
		return parseEnvValue(fmt.Sprintf("%v", param.Default), param)
	case "string":
		return fmt.Sprintf("%v", param.Default), nil
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// parseEnvValue parses an environment variable value according to the parameter type
func parseEnvValue(value string, param simulation.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		return v, checkIntRange(v, param)
	case "float":
		return strconv.ParseFloat(value, 64)
	case "string":
		if len(param.Options) > 0 && !containsString(param.Options, value) {
			return nil, fmt.Errorf("value must be one of %v", param.Options)
		}
		return value, nil
	case "boolean":
		return strconv.ParseBool(value)
	case "duration":
		return time.ParseDuration(value)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

func checkIntRange(value int, param simulation.Parameter) error {
	if param.Min != nil {
		if minRange := toInt(param.Min); value < minRange {
			return fmt.Errorf("value must be at least %d", minRange)
		}
	}
	if param.Max != nil {
		if maxRange := toInt(param.Max); value > maxRange {
			return fmt.Errorf("value must be at most %d", maxRange)
		}
	}
	return nil
}

func promptInteger(param simulation.Parameter) (int, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = strconv.Itoa(toInt(param.Default))
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultStr,
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required)); err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(result)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}

	if err := checkIntRange(value, param); err != nil {
		return 0, err
	}

	return value, nil
}

func promptFloat(param simulation.Parameter) (float64, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultStr,
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required)); err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}

	if param.Min != nil {
		if minRange := toFloat64(param.Min); value < minRange {
			return 0, fmt.Errorf("value must be at least %g", minRange)
		}
	}
	if param.Max != nil {
		if maxRange := toFloat64(param.Max); value > maxRange {
			return 0, fmt.Errorf("value must be at most %g", maxRange)
		}
	}

	return value, nil
}

func promptString(param simulation.Parameter) (string, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	// If options are provided, use a select prompt
	if len(param.Options) > 0 {
		prompt := &survey.Select{
			Message: param.Description,
			Options: param.Options,
		}
		if containsString(param.Options, defaultStr) {
			prompt.Default = defaultStr
		}

		var result string
		if err := survey.AskOne(prompt, &result); err != nil {
			return "", err
		}
		return result, nil
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultStr,
	}

	var opts []survey.AskOpt
	if param.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	var result string
	if err := survey.AskOne(prompt, &result, opts...); err != nil {
		return "", err
	}

	return result, nil
}

func promptBoolean(param simulation.Parameter) (bool, error) {
	defaultBool := false
	if param.Default != nil {
		switch v := param.Default.(type) {
		case bool:
			defaultBool = v
		case string:
			defaultBool = v == "true" || v == "yes" || v == "1"
		}
	}

	prompt := &survey.Confirm{
		Message: param.Description,
		Default: defaultBool,
	}

	var result bool
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}

	return result, nil
}

func promptDuration(param simulation.Parameter) (time.Duration, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	prompt := &survey.Input{
		Message: param.Description + " (e.g., 500ms, 2s)",
		Default: defaultStr,
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		if _, err := time.ParseDuration(str); err != nil {
			return fmt.Errorf("invalid duration format (use formats like 500ms, 2s, 1m)")
		}
		return nil
	})); err != nil {
		return 0, err
	}

	duration, err := time.ParseDuration(result)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// Helper functions
func toInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
