package simulation

import (
	"context"
	"strings"
	"testing"
)

type stubSimulation struct {
	name string
}

func (s *stubSimulation) Name() string                                  { return s.name }
func (s *stubSimulation) Description() string                           { return "stub" }
func (s *stubSimulation) Configure(params map[string]interface{}) error { return nil }
func (s *stubSimulation) Run(ctx context.Context) error                 { return nil }
func (s *stubSimulation) Stop() error                                   { return nil }

func stubFactory(name string) Factory {
	return func() Simulation { return &stubSimulation{name: name} }
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(SimulationConfig{Name: "b"}, stubFactory("b")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(SimulationConfig{Name: "a"}, stubFactory("a")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	sim, err := r.Get("a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sim.Name() != "a" {
		t.Errorf("Expected simulation 'a', got '%s'", sim.Name())
	}

	names := r.List()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Expected sorted names [a b], got %v", names)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	cfg := SimulationConfig{Name: "dup"}

	if err := r.Register(cfg, stubFactory("dup")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err := r.Register(cfg, stubFactory("dup"))
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Errorf("Expected duplicate registration error, got %v", err)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("missing"); err == nil {
		t.Error("Expected error for unknown simulation")
	}
	if _, err := r.Config("missing"); err == nil {
		t.Error("Expected error for unknown simulation config")
	}
}

func TestRegistryReturnsFreshInstances(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(SimulationConfig{Name: "x"}, stubFactory("x")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	a, _ := r.Get("x")
	b, _ := r.Get("x")
	if a == b {
		t.Error("Expected a new instance on every Get")
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
name: Ship Battle
description: test
version: 1.0.0
parameters:
  - name: seed
    type: integer
    default: 0
  - name: round_interval
    type: duration
    default: 500ms
`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.Name != "Ship Battle" {
		t.Errorf("Expected name 'Ship Battle', got '%s'", cfg.Name)
	}
	if len(cfg.Parameters) != 2 {
		t.Fatalf("Expected 2 parameters, got %d", len(cfg.Parameters))
	}
	if p, ok := cfg.Parameter("round_interval"); !ok || p.Type != "duration" {
		t.Errorf("Expected duration parameter round_interval, got %+v", p)
	}
}

func TestParseConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing name", data: "description: nope\n"},
		{name: "bad type", data: "name: x\nparameters:\n  - name: a\n    type: matrix\n"},
		{name: "duplicate parameter", data: "name: x\nparameters:\n  - name: a\n    type: integer\n  - name: a\n    type: integer\n"},
		{name: "bad yaml", data: "name: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}
