package cmd

import (
	"testing"

	"github.com/picogrid/ship-battle-sim/pkg/config"
	"github.com/picogrid/ship-battle-sim/pkg/simulation"
)

func TestWithSavedFleets(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	fleets := config.DefaultFleets()
	fleets.Selected = "Armada"
	if err := config.SaveFleets(fleets); err != nil {
		t.Fatalf("SaveFleets failed: %v", err)
	}

	params := []simulation.Parameter{
		{Name: "fleet", Type: "string", Default: "Classic"},
		{Name: "seed", Type: "integer", Default: 0},
	}

	got := withSavedFleets(params)

	if len(got[0].Options) != 2 || got[0].Options[0] != "Classic" || got[0].Options[1] != "Armada" {
		t.Errorf("Expected saved fleet names as options, got %v", got[0].Options)
	}
	if got[0].Default != "Armada" {
		t.Errorf("Expected selected fleet as default, got %v", got[0].Default)
	}
	if got[1].Options != nil {
		t.Errorf("Non-fleet parameters must be untouched, got %v", got[1].Options)
	}
	if params[0].Options != nil || params[0].Default != "Classic" {
		t.Error("Input parameters must not be modified")
	}
}

func TestSimulationIsRegistered(t *testing.T) {
	if _, err := simulation.DefaultRegistry.Config("Ship Battle"); err != nil {
		t.Fatalf("Expected ship battle to be registered: %v", err)
	}
}
