package reporting

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/picogrid/ship-battle-sim/pkg/combat"
	"github.com/picogrid/ship-battle-sim/pkg/logger"
)

// BattleLogger records battle events and prints them as they happen
type BattleLogger struct {
	battleID  uuid.UUID
	startTime time.Time
	endTime   time.Time
	out       io.Writer
	verbose   bool
	maxEvents int

	events  []BattleEvent
	ships   map[string]*ShipStats
	order   []string
	rounds  int
	outcome Outcome

	mu sync.RWMutex
}

// BattleEvent represents a logged battle event
type BattleEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Round     int       `json:"round"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Ship      string    `json:"ship,omitempty"`
	Health    int       `json:"health"`
	Message   string    `json:"message"`
}

// ShipStats tracks what happened to a single ship
type ShipStats struct {
	Name            string `json:"name"`
	StartHealth     int    `json:"start_health"`
	Shield          int    `json:"shield"`
	Health          int    `json:"health"`
	HitsTaken       int    `json:"hits_taken"`
	HitsAvoided     int    `json:"hits_avoided"`
	Eliminated      bool   `json:"eliminated"`
	EliminatedRound int    `json:"eliminated_round,omitempty"`
}

// Outcome is the final result of a battle
type Outcome struct {
	Result string `json:"result"`
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Outcome results
const (
	ResultPending       = "pending"
	ResultVictory       = "victory"
	ResultAllEliminated = "all_eliminated"
	ResultStalemate     = "stalemate"
	ResultAborted       = "aborted"
)

// EventType constants
const (
	EventTypeRound       = "round"
	EventTypeDamage      = "damage"
	EventTypeNoDamage    = "no_damage"
	EventTypeElimination = "elimination"
	EventTypeOutcome     = "outcome"
	EventTypeSystem      = "system"
)

// Severity constants
const (
	SeverityDebug    = "debug"
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

const defaultMaxEvents = 10000

// Color definitions
var (
	colorDebug    = color.New(color.FgHiBlack)
	colorInfo     = color.New(color.FgCyan)
	colorWarning  = color.New(color.FgYellow)
	colorError    = color.New(color.FgRed)
	colorCritical = color.New(color.FgRed, color.Bold)
	colorShip     = color.New(color.FgBlue, color.Bold)
	colorSuccess  = color.New(color.FgGreen)
	colorVictory  = color.New(color.FgGreen, color.Bold)
)

// Options configures a BattleLogger
type Options struct {
	// BattleID identifies the run; a random one is generated when zero
	BattleID uuid.UUID
	// Writer receives console output, os.Stdout when nil
	Writer io.Writer
	// Verbose also prints rounds where a ship took no damage
	Verbose bool
	// MaxEvents bounds the in-memory event buffer
	MaxEvents int
}

// NewBattleLogger creates a new battle logger
func NewBattleLogger(opts Options) *BattleLogger {
	id := opts.BattleID
	if id == uuid.Nil {
		id = uuid.New()
	}
	out := opts.Writer
	if out == nil {
		out = os.Stdout
	}
	maxEvents := opts.MaxEvents
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}

	return &BattleLogger{
		battleID:  id,
		startTime: time.Now(),
		out:       out,
		verbose:   opts.Verbose,
		maxEvents: maxEvents,
		events:    make([]BattleEvent, 0),
		ships:     make(map[string]*ShipStats),
		outcome:   Outcome{Result: ResultPending},
	}
}

// BattleID returns the identifier of this battle
func (bl *BattleLogger) BattleID() uuid.UUID {
	return bl.battleID
}

// RegisterFleet records the starting state of every ship
func (bl *BattleLogger) RegisterFleet(ships []combat.Participant) {
	bl.mu.Lock()
	for _, ship := range ships {
		if _, exists := bl.ships[ship.Name]; !exists {
			bl.order = append(bl.order, ship.Name)
		}
		bl.ships[ship.Name] = &ShipStats{
			Name:        ship.Name,
			StartHealth: ship.Health,
			Shield:      ship.Shield,
			Health:      ship.Health,
		}
	}
	bl.mu.Unlock()

	bl.logColoredMessage(SeverityInfo, logger.IconRocket+" Battle Started",
		fmt.Sprintf("ID: %s | Ships: %d", bl.shortID(), len(ships)))
	for _, ship := range ships {
		bl.printf("   %s %s | Health: %d | Shield: %d\n",
			logger.IconDot, colorShip.Sprint(ship.Name), ship.Health, ship.Shield)
	}
}

// LogRound records and prints every event of a round
func (bl *BattleLogger) LogRound(round combat.Round) {
	if len(round.Events) == 0 {
		return
	}

	bl.mu.Lock()
	bl.rounds = round.Number
	bl.mu.Unlock()

	bl.logColoredMessage(SeverityDebug, "Round", fmt.Sprintf("%d", round.Number))
	for _, ev := range round.Events {
		bl.LogEvent(round.Number, ev)
	}
}

// LogEvent records a single combat event
func (bl *BattleLogger) LogEvent(roundNumber int, ev combat.Event) {
	event := BattleEvent{
		Timestamp: time.Now(),
		Round:     roundNumber,
		Ship:      ev.Name,
		Health:    ev.Health,
	}

	bl.mu.Lock()
	stats := bl.shipStats(ev.Name)
	stats.Health = ev.Health
	switch ev.Kind {
	case combat.EventDamage:
		stats.HitsTaken++
		event.Type = EventTypeDamage
		event.Severity = SeverityInfo
		event.Message = fmt.Sprintf("Ship %s received damage, health is %d", ev.Name, ev.Health)
	case combat.EventNoDamage:
		stats.HitsAvoided++
		event.Type = EventTypeNoDamage
		event.Severity = SeverityDebug
		event.Message = fmt.Sprintf("Ship %s took no damage, health is %d", ev.Name, ev.Health)
	case combat.EventEliminated:
		stats.Eliminated = true
		stats.EliminatedRound = roundNumber
		event.Type = EventTypeElimination
		event.Severity = SeverityWarning
		event.Message = fmt.Sprintf("Ship %s exploded", ev.Name)
	}
	bl.appendEvent(event)
	bl.mu.Unlock()

	name := colorShip.Sprint(ev.Name)
	switch ev.Kind {
	case combat.EventDamage:
		bl.logColoredMessage(SeverityInfo, logger.IconHit+" Hit",
			fmt.Sprintf("%s received damage | Health: %s", name, colorError.Sprint(ev.Health)))
	case combat.EventNoDamage:
		if bl.verbose {
			bl.logColoredMessage(SeverityDebug, logger.IconShield+" Miss",
				fmt.Sprintf("%s took no damage | Health: %d", name, ev.Health))
		}
	case combat.EventEliminated:
		bl.logColoredMessage(SeverityWarning, logger.IconExplosion+" Ship Destroyed",
			fmt.Sprintf("+++ %s has exploded! +++", name))
	}
}

// LogOutcome records the terminal state reported by the simulator
func (bl *BattleLogger) LogOutcome(state combat.TerminalState) {
	switch state.Status {
	case combat.WonBy:
		bl.finish(Outcome{Result: ResultVictory, Winner: state.Winner.Name},
			fmt.Sprintf("Ship %s won the battle", state.Winner.Name))
		bl.logColoredMessage(SeverityInfo, logger.IconTrophy+" Victory",
			colorVictory.Sprintf("*** Ship %s won the battle! ***", state.Winner.Name))
	case combat.AllEliminated:
		bl.finish(Outcome{Result: ResultAllEliminated}, "All ships destroyed")
		bl.logColoredMessage(SeverityCritical, logger.IconSkull+" All Dead", "No ship survived the battle")
	}
}

// LogStalemate records a battle the host stopped before it was decided
func (bl *BattleLogger) LogStalemate(reason string) {
	bl.finish(Outcome{Result: ResultStalemate, Reason: reason}, "Battle ended without a winner: "+reason)
	bl.logColoredMessage(SeverityWarning, logger.IconFlag+" Stalemate", reason)
}

// LogAborted records a battle interrupted by the user or a cancelled context
func (bl *BattleLogger) LogAborted(reason string) {
	bl.finish(Outcome{Result: ResultAborted, Reason: reason}, "Battle aborted: "+reason)
	bl.logColoredMessage(SeverityWarning, logger.IconWarning+" Aborted", reason)
}

// LogError logs an error event
func (bl *BattleLogger) LogError(message string, err error) {
	bl.mu.Lock()
	bl.appendEvent(BattleEvent{
		Timestamp: time.Now(),
		Round:     bl.rounds,
		Type:      EventTypeSystem,
		Severity:  SeverityError,
		Message:   fmt.Sprintf("%s: %v", message, err),
	})
	bl.mu.Unlock()

	logger.Errorf("%s: %v", message, err)
}

func (bl *BattleLogger) finish(outcome Outcome, message string) {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	bl.outcome = outcome
	bl.endTime = time.Now()
	bl.appendEvent(BattleEvent{
		Timestamp: bl.endTime,
		Round:     bl.rounds,
		Type:      EventTypeOutcome,
		Severity:  SeverityInfo,
		Ship:      outcome.Winner,
		Message:   message,
	})
}

// shipStats returns the stats for name, creating them for unregistered ships.
// Must be called with mu held.
func (bl *BattleLogger) shipStats(name string) *ShipStats {
	stats, ok := bl.ships[name]
	if !ok {
		stats = &ShipStats{Name: name}
		bl.ships[name] = stats
		bl.order = append(bl.order, name)
	}
	return stats
}

// appendEvent must be called with mu held
func (bl *BattleLogger) appendEvent(event BattleEvent) {
	bl.events = append(bl.events, event)
	if len(bl.events) > bl.maxEvents {
		bl.events = bl.events[len(bl.events)-bl.maxEvents:]
	}
}

// GetEvents returns all logged events
func (bl *BattleLogger) GetEvents() []BattleEvent {
	bl.mu.RLock()
	defer bl.mu.RUnlock()

	events := make([]BattleEvent, len(bl.events))
	copy(events, bl.events)
	return events
}

// BattleSummary represents a summary of the battle
type BattleSummary struct {
	BattleID    string         `json:"battle_id"`
	StartTime   time.Time      `json:"start_time"`
	Duration    time.Duration  `json:"duration"`
	Rounds      int            `json:"rounds"`
	TotalEvents int            `json:"total_events"`
	EventCounts map[string]int `json:"event_counts"`
	Ships       []ShipStats    `json:"ships"`
	Outcome     Outcome        `json:"outcome"`
}

// GetSummary returns a battle summary
func (bl *BattleLogger) GetSummary() BattleSummary {
	bl.mu.RLock()
	defer bl.mu.RUnlock()

	end := bl.endTime
	if end.IsZero() {
		end = time.Now()
	}

	eventCounts := make(map[string]int)
	for _, event := range bl.events {
		eventCounts[event.Type]++
	}

	ships := make([]ShipStats, 0, len(bl.order))
	for _, name := range bl.order {
		ships = append(ships, *bl.ships[name])
	}

	return BattleSummary{
		BattleID:    bl.battleID.String(),
		StartTime:   bl.startTime,
		Duration:    end.Sub(bl.startTime),
		Rounds:      bl.rounds,
		TotalEvents: len(bl.events),
		EventCounts: eventCounts,
		Ships:       ships,
		Outcome:     bl.outcome,
	}
}

// PrintSummary prints a formatted summary
func (bl *BattleLogger) PrintSummary() {
	summary := bl.GetSummary()
	line := strings.Repeat("=", 56)

	bl.printf("\n%s\n", colorSuccess.Sprint(line))
	bl.printf("%s\n", colorSuccess.Sprintf("  BATTLE SUMMARY - %s", summary.BattleID[:8]))
	bl.printf("%s\n", colorSuccess.Sprint(line))

	bl.printf("\nRounds: %d | Duration: %v | Events: %d\n",
		summary.Rounds, summary.Duration.Round(time.Millisecond), summary.TotalEvents)

	switch summary.Outcome.Result {
	case ResultVictory:
		bl.printf("Outcome: %s\n", colorVictory.Sprintf("%s %s wins", logger.IconTrophy, summary.Outcome.Winner))
	default:
		bl.printf("Outcome: %s\n", outcomeLabel(summary.Outcome))
	}

	types := make([]string, 0, len(summary.EventCounts))
	for eventType := range summary.EventCounts {
		types = append(types, eventType)
	}
	sort.Strings(types)

	bl.printf("\nEvent Distribution:\n")
	for _, eventType := range types {
		bl.printf("   %-14s: %d\n", eventType, summary.EventCounts[eventType])
	}

	table := logger.NewTable("SHIP", "HEALTH", "SHIELD", "HITS", "AVOIDED", "STATUS")
	for _, ship := range summary.Ships {
		status := "afloat"
		if ship.Eliminated {
			status = fmt.Sprintf("destroyed (round %d)", ship.EliminatedRound)
		}
		table.AddRow(ship.Name,
			fmt.Sprintf("%d/%d", ship.Health, ship.StartHealth),
			fmt.Sprintf("%d", ship.Shield),
			fmt.Sprintf("%d", ship.HitsTaken),
			fmt.Sprintf("%d", ship.HitsAvoided),
			status)
	}
	bl.printf("\n%s", table.String())
	bl.printf("%s\n", colorSuccess.Sprint(line))
}

func outcomeLabel(o Outcome) string {
	switch o.Result {
	case ResultVictory:
		return o.Winner + " wins"
	case ResultAllEliminated:
		return "all ships destroyed"
	case ResultStalemate:
		return "stalemate (" + o.Reason + ")"
	case ResultAborted:
		return "aborted (" + o.Reason + ")"
	default:
		return o.Result
	}
}

// logColoredMessage logs a message with color based on severity
func (bl *BattleLogger) logColoredMessage(severity, eventType, message string) {
	timestamp := time.Now().Format("15:04:05.000")

	var severityColor *color.Color
	switch severity {
	case SeverityDebug:
		severityColor = colorDebug
	case SeverityInfo:
		severityColor = colorInfo
	case SeverityWarning:
		severityColor = colorWarning
	case SeverityError:
		severityColor = colorError
	case SeverityCritical:
		severityColor = colorCritical
	default:
		severityColor = colorInfo
	}

	bl.printf("[%s] %s %s | %s\n",
		timestamp,
		severityColor.Sprint(fmt.Sprintf("%-8s", severity)),
		eventType,
		message)
}

func (bl *BattleLogger) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(bl.out, format, args...)
}

func (bl *BattleLogger) shortID() string {
	return bl.battleID.String()[:8]
}
