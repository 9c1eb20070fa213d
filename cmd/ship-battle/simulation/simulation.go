package simulation

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/picogrid/ship-battle-sim/cmd/ship-battle/config"
	"github.com/picogrid/ship-battle-sim/cmd/ship-battle/reporting"
	"github.com/picogrid/ship-battle-sim/pkg/combat"
	fleetconfig "github.com/picogrid/ship-battle-sim/pkg/config"
	"github.com/picogrid/ship-battle-sim/pkg/logger"
	"github.com/picogrid/ship-battle-sim/pkg/simulation"
)

//go:embed simulation.yaml
var simulationYAML []byte

// Result describes a finished battle
type Result struct {
	BattleID   string
	Seed       int64
	Rounds     int
	Outcome    reporting.Outcome
	Survivors  []combat.Participant
	ReportPath string
}

// ShipBattle runs a combat.Simulator round by round
type ShipBattle struct {
	meta   simulation.SimulationConfig
	config *config.BattleConfig
	out    io.Writer
	fleets func() (*fleetconfig.Fleets, error)

	mu       sync.Mutex
	result   *Result
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewShipBattle creates a new instance of the ship battle simulation
func NewShipBattle() simulation.Simulation {
	return NewShipBattleWithOutput(os.Stdout)
}

// NewShipBattleWithOutput creates a ship battle that prints to w
func NewShipBattleWithOutput(w io.Writer) *ShipBattle {
	meta, _ := simulation.ParseConfig(simulationYAML)
	return &ShipBattle{
		meta:     meta,
		out:      w,
		fleets:   fleetconfig.LoadFleets,
		stopChan: make(chan struct{}),
	}
}

// Name returns the simulation name
func (s *ShipBattle) Name() string {
	return s.meta.Name
}

// Description returns the simulation description
func (s *ShipBattle) Description() string {
	return s.meta.Description
}

// Config returns the resolved battle configuration, nil before Configure
func (s *ShipBattle) Config() *config.BattleConfig {
	return s.config
}

// Configure sets up the simulation with provided parameters
func (s *ShipBattle) Configure(params map[string]interface{}) error {
	p, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if p.Fleet != "" {
		fleets, err := s.fleets()
		if err != nil {
			return fmt.Errorf("failed to load fleets: %w", err)
		}
		fleet, ok := fleets.Find(p.Fleet)
		if !ok {
			return fmt.Errorf("configuration error: fleet %s not found", p.Fleet)
		}
		p.Overrides["fleet"] = fleet.Ships
		p.Overrides["fleet_name"] = fleet.Name
	}

	cfg, err := config.LoadConfigWithOverrides(p.ConfigFile, p.Overrides)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	s.config = cfg
	return nil
}

// Run executes the battle until a ship wins, all ships are destroyed, the
// round limit is hit, Stop is called or ctx is cancelled.
func (s *ShipBattle) Run(ctx context.Context) error {
	if s.config == nil {
		return fmt.Errorf("simulation %s is not configured", s.Name())
	}
	cfg := s.config

	seed := cfg.Advanced.Seed
	if seed == 0 {
		seed = combat.NewSeed()
	}

	sim, err := combat.New(cfg.Fleet, combat.NewDice(seed))
	if err != nil {
		return fmt.Errorf("failed to set up battle: %w", err)
	}

	battleLog := reporting.NewBattleLogger(reporting.Options{
		Writer:    s.out,
		Verbose:   cfg.Advanced.VerboseLogging,
		MaxEvents: cfg.Logging.EventBufferSize,
	})
	log := logger.WithField("battle", battleLog.BattleID().String()[:8])
	log.Infof("Starting %s with %d ships (seed %d)", s.Name(), len(cfg.Fleet), seed)

	battleLog.RegisterFleet(cfg.Fleet)

	var tick <-chan time.Time
	if cfg.Simulation.RoundInterval > 0 {
		ticker := time.NewTicker(cfg.Simulation.RoundInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var runErr error
	for {
		round := sim.Step()
		battleLog.LogRound(round)

		if round.Terminal.Done() {
			battleLog.LogOutcome(round.Terminal)
			break
		}

		if cfg.Advanced.MaxRounds > 0 && round.Number >= cfg.Advanced.MaxRounds {
			battleLog.LogStalemate(fmt.Sprintf("round limit of %d reached", cfg.Advanced.MaxRounds))
			break
		}

		if err := s.waitForNextRound(ctx, tick); err != nil {
			if errors.Is(err, errStopped) {
				log.Info("Simulation stopped by user")
				battleLog.LogAborted("stopped by user")
			} else {
				battleLog.LogAborted("context cancelled")
				runErr = err
			}
			break
		}
	}

	summary := battleLog.GetSummary()
	result := &Result{
		BattleID:  summary.BattleID,
		Seed:      seed,
		Rounds:    sim.Rounds(),
		Outcome:   summary.Outcome,
		Survivors: sim.Roster(),
	}

	battleLog.PrintSummary()
	log.Infof("Replay this battle with seed %d", seed)

	if cfg.Logging.EnableReport {
		path, err := s.writeReport(battleLog, seed)
		if err != nil {
			battleLog.LogError("Failed to write battle report", err)
		}
		result.ReportPath = path
	}

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()

	return runErr
}

func (s *ShipBattle) writeReport(battleLog *reporting.BattleLogger, seed int64) (string, error) {
	gen := reporting.NewReportGenerator(battleLog, reporting.ReportConfig{
		OutputDir: s.config.Logging.ReportOutputPath,
		Format:    s.config.Logging.ReportFormat,
		FleetName: s.config.Simulation.FleetName,
		Seed:      seed,
		MaxRounds: s.config.Advanced.MaxRounds,
	})

	report, err := gen.GenerateReport()
	if err != nil {
		return "", err
	}
	return gen.SaveReport(report)
}

var errStopped = errors.New("simulation stopped")

// waitForNextRound blocks until the next tick, or returns at once when tick
// is nil. Stop and ctx cancellation win over a pending tick.
func (s *ShipBattle) waitForNextRound(ctx context.Context, tick <-chan time.Time) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopChan:
		return errStopped
	default:
	}

	if tick == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopChan:
		return errStopped
	case <-tick:
		return nil
	}
}

// Stop gracefully shuts down the simulation
func (s *ShipBattle) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	return nil
}

// Result returns the outcome of the last Run, nil if it has not finished
func (s *ShipBattle) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// init registers the simulation
func init() {
	meta, err := simulation.ParseConfig(simulationYAML)
	if err != nil {
		logger.Errorf("Failed to parse simulation config: %v", err)
		return
	}
	if err := simulation.DefaultRegistry.Register(meta, NewShipBattle); err != nil {
		logger.Errorf("Failed to register simulation: %v", err)
	}
}
