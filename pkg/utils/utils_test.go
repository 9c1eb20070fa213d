package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/picogrid/ship-battle-sim/pkg/simulation"
)

var testParams = []simulation.Parameter{
	{Name: "fleet", Type: "string", Default: "Classic", Required: true},
	{Name: "seed", Type: "integer", Default: 0},
	{Name: "max_rounds", Type: "integer", Default: 1000, Min: 0},
	{Name: "round_interval", Type: "duration", Default: "500ms"},
	{Name: "verbose", Type: "boolean", Default: false},
	{Name: "report_format", Type: "string", Default: "markdown", Options: []string{"markdown", "json"}},
	{Name: "notes", Type: "string"},
}

func TestPromptForParametersNonInteractiveDefaults(t *testing.T) {
	t.Setenv("BATTLE_SKIP_PROMPTS", "true")

	params, err := PromptForParameters(testParams, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if params["fleet"] != "Classic" {
		t.Errorf("Expected fleet 'Classic', got %v", params["fleet"])
	}
	if params["max_rounds"] != 1000 {
		t.Errorf("Expected max_rounds 1000, got %v", params["max_rounds"])
	}
	if params["round_interval"] != 500*time.Millisecond {
		t.Errorf("Expected round_interval 500ms, got %v", params["round_interval"])
	}
	if params["verbose"] != false {
		t.Errorf("Expected verbose false, got %v", params["verbose"])
	}
	if _, ok := params["notes"]; ok {
		t.Errorf("Optional parameter without default should be absent")
	}
}

func TestPromptForParametersEnvironmentAndPreset(t *testing.T) {
	t.Setenv("BATTLE_SKIP_PROMPTS", "true")
	t.Setenv("BATTLE_SEED", "99")
	t.Setenv("BATTLE_ROUND_INTERVAL", "0s")
	t.Setenv("BATTLE_FLEET", "Ignored")

	params, err := PromptForParameters(testParams, map[string]interface{}{"fleet": "Armada"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if params["fleet"] != "Armada" {
		t.Errorf("Preset values must win, got %v", params["fleet"])
	}
	if params["seed"] != 99 {
		t.Errorf("Expected seed 99 from environment, got %v", params["seed"])
	}
	if params["round_interval"] != time.Duration(0) {
		t.Errorf("Expected zero round interval, got %v", params["round_interval"])
	}
}

func TestPromptForParametersRejectsBadEnvironment(t *testing.T) {
	t.Setenv("BATTLE_SKIP_PROMPTS", "true")

	tests := []struct {
		env   string
		value string
	}{
		{env: "BATTLE_SEED", value: "many"},
		{env: "BATTLE_MAX_ROUNDS", value: "-4"},
		{env: "BATTLE_REPORT_FORMAT", value: "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			if _, err := PromptForParameters(testParams, nil); err == nil {
				t.Errorf("Expected error for %s=%s", tt.env, tt.value)
			}
		})
	}
}

func TestPromptForParametersRequiredWithoutDefault(t *testing.T) {
	t.Setenv("BATTLE_SKIP_PROMPTS", "true")

	_, err := PromptForParameters([]simulation.Parameter{{Name: "target", Type: "string", Required: true}}, nil)
	if err == nil {
		t.Error("Expected error for required parameter without value")
	}
}

type stubSimulation struct{}

func (stubSimulation) Name() string                                  { return "stub" }
func (stubSimulation) Description() string                           { return "stub" }
func (stubSimulation) Configure(params map[string]interface{}) error { return nil }
func (stubSimulation) Run(ctx context.Context) error                 { return nil }
func (stubSimulation) Stop() error                                   { return nil }

func TestDiscoverSimulations(t *testing.T) {
	registry := simulation.NewRegistry()
	factory := func() simulation.Simulation { return stubSimulation{} }
	for _, name := range []string{"Zulu", "Alpha"} {
		if err := registry.Register(simulation.SimulationConfig{Name: name, Version: "1.0.0"}, factory); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	infos, err := DiscoverSimulations(registry)
	if err != nil {
		t.Fatalf("DiscoverSimulations failed: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "Alpha" || infos[1].Config.Version != "1.0.0" {
		t.Errorf("Unexpected simulations: %+v", infos)
	}
}

func TestLoadParametersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	data := []byte("fleet: Armada\nseed: 12\nround_interval: 0s\nreport: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	params, err := LoadParametersFile(path)
	if err != nil {
		t.Fatalf("LoadParametersFile failed: %v", err)
	}
	if params["fleet"] != "Armada" || params["seed"] != 12 || params["report"] != true {
		t.Errorf("Unexpected parameters: %v", params)
	}
	if params["round_interval"] != "0s" {
		t.Errorf("Expected round_interval string, got %v", params["round_interval"])
	}

	if _, err := LoadParametersFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
