package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/picogrid/ship-battle-sim/pkg/combat"
	"github.com/picogrid/ship-battle-sim/pkg/config"
	"github.com/picogrid/ship-battle-sim/pkg/logger"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Manage saved fleets",
	Long:  `Manage the fleets stored in $HOME/.battle-sim/fleets.yaml`,
}

var fleetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved fleets",
	RunE:  listFleets,
}

var fleetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new fleet",
	RunE:  addFleet,
}

var fleetRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a fleet",
	RunE:  removeFleet,
}

var fleetSelectCmd = &cobra.Command{
	Use:   "select [name]",
	Short: "Select the fleet offered by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  selectFleet,
}

func init() {
	fleetCmd.AddCommand(fleetListCmd)
	fleetCmd.AddCommand(fleetAddCmd)
	fleetCmd.AddCommand(fleetRemoveCmd)
	fleetCmd.AddCommand(fleetSelectCmd)
}

func listFleets(cmd *cobra.Command, args []string) error {
	fleets, err := config.LoadFleets()
	if err != nil {
		return fmt.Errorf("failed to load fleets: %w", err)
	}

	if len(fleets.Fleets) == 0 {
		fmt.Println("No fleets configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FLEET\tSHIP\tHEALTH\tSHIELD")
	_, _ = fmt.Fprintln(w, "-----\t----\t------\t------")

	for _, fleet := range fleets.Fleets {
		name := fleet.Name
		if name == fleets.Selected {
			name += " *"
		}
		for _, ship := range fleet.Ships {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", name, ship.Name, ship.Health, ship.Shield)
			name = ""
		}
	}

	return w.Flush()
}

func addFleet(cmd *cobra.Command, args []string) error {
	fleets, err := config.LoadFleets()
	if err != nil {
		return fmt.Errorf("failed to load fleets: %w", err)
	}

	var fleet config.Fleet

	namePrompt := &survey.Input{
		Message: "Fleet name:",
	}
	if err := survey.AskOne(namePrompt, &fleet.Name, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if _, exists := fleets.Find(fleet.Name); exists {
		return fmt.Errorf("fleet %s already exists", fleet.Name)
	}

	for {
		ship, err := promptShip(len(fleet.Ships) + 1)
		if err != nil {
			return err
		}
		fleet.Ships = append(fleet.Ships, ship)

		more := false
		morePrompt := &survey.Confirm{
			Message: "Add another ship?",
			Default: len(fleet.Ships) < 2,
		}
		if err := survey.AskOne(morePrompt, &more); err != nil {
			return err
		}
		if !more {
			break
		}
	}

	if err := fleet.Validate(); err != nil {
		return err
	}

	fleets.Fleets = append(fleets.Fleets, fleet)

	if err := config.SaveFleets(fleets); err != nil {
		return fmt.Errorf("failed to save fleets: %w", err)
	}

	logger.Successf("Fleet %s added with %d ships", fleet.Name, len(fleet.Ships))
	return nil
}

func promptShip(n int) (combat.Participant, error) {
	answers := struct {
		Name   string
		Health string
		Shield string
	}{}

	questions := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: fmt.Sprintf("Ship %d name:", n)},
			Validate: survey.Required,
		},
		{
			Name:     "health",
			Prompt:   &survey.Input{Message: "Health:", Default: "5"},
			Validate: nonNegativeInt,
		},
		{
			Name:     "shield",
			Prompt:   &survey.Input{Message: "Shield (0-10):", Default: "5"},
			Validate: nonNegativeInt,
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return combat.Participant{}, err
	}

	health, _ := strconv.Atoi(answers.Health)
	shield, _ := strconv.Atoi(answers.Shield)
	return combat.Participant{Name: answers.Name, Health: health, Shield: shield}, nil
}

func nonNegativeInt(val interface{}) error {
	str, _ := val.(string)
	n, err := strconv.Atoi(str)
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func removeFleet(cmd *cobra.Command, args []string) error {
	fleets, err := config.LoadFleets()
	if err != nil {
		return fmt.Errorf("failed to load fleets: %w", err)
	}

	if len(fleets.Fleets) == 0 {
		fmt.Println("No fleets to remove")
		return nil
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select fleet to remove:",
		Options: fleets.Names(),
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return err
	}

	var confirm bool
	confirmPrompt := &survey.Confirm{
		Message: fmt.Sprintf("Are you sure you want to remove %s?", selected),
		Default: false,
	}
	if err := survey.AskOne(confirmPrompt, &confirm); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("Removal cancelled")
		return nil
	}

	fleets.Remove(selected)

	if err := config.SaveFleets(fleets); err != nil {
		return fmt.Errorf("failed to save fleets: %w", err)
	}

	logger.Successf("Fleet %s removed", selected)
	return nil
}

func selectFleet(cmd *cobra.Command, args []string) error {
	fleets, err := config.LoadFleets()
	if err != nil {
		return fmt.Errorf("failed to load fleets: %w", err)
	}

	var selected string
	if len(args) == 1 {
		selected = args[0]
	} else {
		prompt := &survey.Select{
			Message: "Select default fleet:",
			Options: fleets.Names(),
		}
		if err := survey.AskOne(prompt, &selected); err != nil {
			return err
		}
	}

	if _, ok := fleets.Find(selected); !ok {
		return fmt.Errorf("fleet %s not found", selected)
	}
	fleets.Selected = selected

	if err := config.SaveFleets(fleets); err != nil {
		return fmt.Errorf("failed to save fleets: %w", err)
	}

	logger.Successf("Fleet %s selected", selected)
	return nil
}
