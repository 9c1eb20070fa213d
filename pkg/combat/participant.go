// Package combat implements the round-based ship battle: probabilistic
// damage with shield mitigation, elimination of destroyed ships and
// detection of the end of the battle.
package combat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParticipant is returned when a ship has an empty name or
	// negative health or shield.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrDuplicateName is returned when two ships share a name.
	ErrDuplicateName = errors.New("duplicate participant name")

	// ErrNilDice is returned when a simulator is built without a random source.
	ErrNilDice = errors.New("dice must not be nil")
)

// Participant is a ship taking part in the battle
type Participant struct {
	Name   string `yaml:"name" json:"name"`
	Health int    `yaml:"health" json:"health"`
	Shield int    `yaml:"shield" json:"shield"`
}

// Alive reports whether the ship still has health left.
func (p Participant) Alive() bool {
	return p.Health > 0
}

// Validate checks a single participant.
func (p Participant) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidParticipant)
	}
	if p.Health < 0 {
		return fmt.Errorf("%w: ship %s has negative health %d", ErrInvalidParticipant, p.Name, p.Health)
	}
	if p.Shield < 0 {
		return fmt.Errorf("%w: ship %s has negative shield %d", ErrInvalidParticipant, p.Name, p.Shield)
	}
	return nil
}

// ValidateRoster checks every participant and rejects duplicate names.
func ValidateRoster(roster []Participant) error {
	seen := make(map[string]struct{}, len(roster))
	for i, p := range roster {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("ship %d: %w", i+1, err)
		}
		if _, exists := seen[p.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// EventKind identifies what happened to a ship
type EventKind int

const (
	EventDamage EventKind = iota
	EventNoDamage
	EventEliminated
)

// String returns a short label for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventDamage:
		return "damage"
	case EventNoDamage:
		return "no_damage"
	case EventEliminated:
		return "eliminated"
	default:
		return "unknown"
	}
}

// Event is a single observable outcome of a round.
// Health is the resulting health for damage events and the unchanged
// health for no-damage events. It is zero or less for eliminations.
type Event struct {
	Kind   EventKind
	Name   string
	Health int
}

// Status of the battle after a round
type Status int

const (
	Ongoing Status = iota
	WonBy
	AllEliminated
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case WonBy:
		return "won"
	case AllEliminated:
		return "all eliminated"
	default:
		return "unknown"
	}
}

// TerminalState is the result of a terminal check. Winner is set only for WonBy.
type TerminalState struct {
	Status Status
	Winner *Participant
}

// Done reports whether the host loop should stop.
func (t TerminalState) Done() bool {
	return t.Status != Ongoing
}
