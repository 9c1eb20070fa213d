package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/picogrid/ship-battle-sim/cmd/ship-battle/simulation"
)

// Runs a battle with settings from the environment and the default config
// locations. Use 'battle-sim run' for interactive runs.
func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := map[string]interface{}{}
	if fleet := os.Getenv("BATTLE_FLEET"); fleet != "" {
		params["fleet"] = fleet
	}
	if path := os.Getenv("BATTLE_CONFIG"); path != "" {
		params["config_file"] = path
	}

	battle := simulation.NewShipBattleWithOutput(os.Stdout)
	if err := battle.Configure(params); err != nil {
		return err
	}

	if err := battle.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("battle failed: %w", err)
	}
	return nil
}
