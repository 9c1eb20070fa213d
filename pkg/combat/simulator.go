package combat

import (
	"iter"
)

const (
	// ShieldRollMin and ShieldRollMax bound the shield draw. A shield of
	// ShieldRollMax or more blocks every hit.
	ShieldRollMin = 1
	ShieldRollMax = 10

	// DamagePerHit is the health lost by an unprotected ship.
	DamagePerHit = 1
)

// Round is everything that happened during one application of Step.
type Round struct {
	Number   int
	Events   []Event
	Terminal TerminalState
}

// Simulator owns the roster of a single battle. It is not safe for
// concurrent use; the host calls Step (or the three phases in order) from
// one goroutine.
type Simulator struct {
	roster     []Participant
	aliveCount int
	rounds     int
	dice       Dice
}

// New creates a simulator for the given roster. Roster order is combat order.
func New(roster []Participant, dice Dice) (*Simulator, error) {
	if dice == nil {
		return nil, ErrNilDice
	}
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}

	ships := make([]Participant, len(roster))
	copy(ships, roster)

	return &Simulator{
		roster:     ships,
		aliveCount: len(ships),
		dice:       dice,
	}, nil
}

// ResolveRound applies damage to every ship still in play and returns the
// outcomes in roster order. Health changes are applied before ResolveRound
// returns; the returned sequence only replays them and can be ranged once.
//
// When exactly one ship is alive the round is skipped and the sequence is
// empty. Ships already at zero health are left alone until they are pruned,
// so health never goes below zero.
func (s *Simulator) ResolveRound() iter.Seq[Event] {
	s.rounds++
	events := s.resolve()

	consumed := false
	return func(yield func(Event) bool) {
		if consumed {
			return
		}
		consumed = true
		for _, ev := range events {
			if !yield(ev) {
				return
			}
		}
	}
}

func (s *Simulator) resolve() []Event {
	if s.aliveCount == 1 {
		return nil
	}

	events := make([]Event, 0, len(s.roster))
	for i := range s.roster {
		ship := &s.roster[i]
		if !ship.Alive() {
			continue
		}

		gotDamage := s.dice.CoinFlip()
		protected := ship.Shield >= s.dice.Roll(ShieldRollMin, ShieldRollMax)

		if gotDamage && !protected {
			ship.Health -= DamagePerHit
			events = append(events, Event{Kind: EventDamage, Name: ship.Name, Health: ship.Health})
		} else {
			events = append(events, Event{Kind: EventNoDamage, Name: ship.Name, Health: ship.Health})
		}
	}
	return events
}

// PruneAndRecount removes destroyed ships and recomputes the alive count.
func (s *Simulator) PruneAndRecount() []Event {
	var events []Event
	kept := s.roster[:0]
	for _, ship := range s.roster {
		if ship.Health <= 0 {
			events = append(events, Event{Kind: EventEliminated, Name: ship.Name, Health: ship.Health})
			continue
		}
		kept = append(kept, ship)
	}
	clear(s.roster[len(kept):])
	s.roster = kept
	s.aliveCount = len(s.roster)
	return events
}

// CheckTerminal inspects the current roster.
func (s *Simulator) CheckTerminal() TerminalState {
	switch len(s.roster) {
	case 0:
		return TerminalState{Status: AllEliminated}
	case 1:
		winner := s.roster[0]
		return TerminalState{Status: WonBy, Winner: &winner}
	default:
		return TerminalState{Status: Ongoing}
	}
}

// Step runs one full round: resolve, prune, terminal check.
func (s *Simulator) Step() Round {
	var events []Event
	for ev := range s.ResolveRound() {
		events = append(events, ev)
	}
	events = append(events, s.PruneAndRecount()...)

	return Round{
		Number:   s.rounds,
		Events:   events,
		Terminal: s.CheckTerminal(),
	}
}

// Roster returns a copy of the ships still in play.
func (s *Simulator) Roster() []Participant {
	ships := make([]Participant, len(s.roster))
	copy(ships, s.roster)
	return ships
}

// AliveCount returns the count computed by the last prune.
func (s *Simulator) AliveCount() int {
	return s.aliveCount
}

// Rounds returns how many rounds have been resolved.
func (s *Simulator) Rounds() int {
	return s.rounds
}
