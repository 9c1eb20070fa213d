package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/picogrid/ship-battle-sim/pkg/config"
	"github.com/picogrid/ship-battle-sim/pkg/logger"
	"github.com/picogrid/ship-battle-sim/pkg/simulation"
	"github.com/picogrid/ship-battle-sim/pkg/utils"

	// Import simulations to register them
	_ "github.com/picogrid/ship-battle-sim/cmd/ship-battle/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long:  `Run a simulation interactively or with specified parameters`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().StringP("simulation", "s", "", "simulation name to run")
	runCmd.Flags().StringP("params", "p", "", "parameters file (YAML)")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	simName, err := selectSimulation(cmd)
	if err != nil {
		return fmt.Errorf("failed to select simulation: %w", err)
	}

	sim, err := simulation.DefaultRegistry.Get(simName)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}

	simConfig, err := simulation.DefaultRegistry.Config(simName)
	if err != nil {
		return fmt.Errorf("simulation configuration not found for %s: %w", simName, err)
	}

	preset := map[string]interface{}{}
	if paramsFile, _ := cmd.Flags().GetString("params"); paramsFile != "" {
		preset, err = utils.LoadParametersFile(paramsFile)
		if err != nil {
			return err
		}
	}

	params, err := utils.PromptForParameters(withSavedFleets(simConfig.Parameters), preset)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	if err := sim.Configure(params); err != nil {
		return fmt.Errorf("failed to configure simulation: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
			return
		}
		logger.Warn("Received interrupt signal, stopping simulation...")
		if err := sim.Stop(); err != nil {
			logger.Errorf("Failed to stop simulation: %v", err)
		}
		cancel()
	}()

	logger.LogSection(fmt.Sprintf("Starting %s", sim.Name()))
	if err := sim.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Simulation stopped")
			return nil
		}
		return fmt.Errorf("simulation failed: %w", err)
	}

	logger.Success("Simulation completed successfully")
	return nil
}

// withSavedFleets offers the saved fleet names for a "fleet" parameter and
// makes the selected fleet its default.
func withSavedFleets(params []simulation.Parameter) []simulation.Parameter {
	fleets, err := config.LoadFleets()
	if err != nil {
		logger.Warnf("Failed to load saved fleets: %v", err)
		return params
	}

	out := make([]simulation.Parameter, len(params))
	copy(out, params)
	for i := range out {
		if out[i].Name != "fleet" || out[i].Type != "string" {
			continue
		}
		out[i].Options = fleets.Names()
		if _, ok := fleets.Find(fleets.Selected); ok {
			out[i].Default = fleets.Selected
		}
	}
	return out
}

func selectSimulation(cmd *cobra.Command) (string, error) {
	// Check if simulation is specified via flag
	simName, _ := cmd.Flags().GetString("simulation")
	if simName != "" {
		return simName, nil
	}

	simInfos, err := utils.DiscoverSimulations(simulation.DefaultRegistry)
	if err != nil {
		return "", err
	}

	if len(simInfos) == 0 {
		return "", fmt.Errorf("no simulations found")
	}

	// Nothing to choose between
	if len(simInfos) == 1 || !utils.Interactive() {
		return simInfos[0].Name, nil
	}

	options := make([]string, len(simInfos))
	descriptions := make(map[string]string)

	for i, info := range simInfos {
		options[i] = info.Config.Name
		descriptions[info.Config.Name] = info.Config.Description
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select simulation:",
		Options: options,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}
