package combat

import (
	"errors"
	"testing"
)

// scriptedDice replays fixed draws and falls back to the defaults once a
// script runs out.
type scriptedDice struct {
	flips       []bool
	rolls       []int
	defaultFlip bool
	defaultRoll int
	calls       int
}

func (d *scriptedDice) CoinFlip() bool {
	d.calls++
	if len(d.flips) == 0 {
		return d.defaultFlip
	}
	f := d.flips[0]
	d.flips = d.flips[1:]
	return f
}

func (d *scriptedDice) Roll(min, max int) int {
	d.calls++
	if len(d.rolls) == 0 {
		return d.defaultRoll
	}
	r := d.rolls[0]
	d.rolls = d.rolls[1:]
	return r
}

func mustNew(t *testing.T, roster []Participant, dice Dice) *Simulator {
	t.Helper()
	sim, err := New(roster, dice)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return sim
}

func collect(sim *Simulator) []Event {
	var events []Event
	for ev := range sim.ResolveRound() {
		events = append(events, ev)
	}
	return events
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		roster  []Participant
		dice    Dice
		wantErr error
	}{
		{
			name:    "nil dice",
			roster:  []Participant{{Name: "A", Health: 1}},
			dice:    nil,
			wantErr: ErrNilDice,
		},
		{
			name:    "empty name",
			roster:  []Participant{{Name: "", Health: 1}},
			dice:    NewDice(1),
			wantErr: ErrInvalidParticipant,
		},
		{
			name:    "negative health",
			roster:  []Participant{{Name: "A", Health: -1}},
			dice:    NewDice(1),
			wantErr: ErrInvalidParticipant,
		},
		{
			name:    "negative shield",
			roster:  []Participant{{Name: "A", Health: 1, Shield: -3}},
			dice:    NewDice(1),
			wantErr: ErrInvalidParticipant,
		},
		{
			name:    "duplicate names",
			roster:  []Participant{{Name: "A", Health: 1}, {Name: "A", Health: 2}},
			dice:    NewDice(1),
			wantErr: ErrDuplicateName,
		},
		{
			name:   "empty roster",
			roster: nil,
			dice:   NewDice(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.roster, tt.dice)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewCopiesRoster(t *testing.T) {
	roster := []Participant{{Name: "A", Health: 3}, {Name: "B", Health: 3}}
	sim := mustNew(t, roster, &scriptedDice{defaultFlip: true, defaultRoll: 10})

	roster[0].Health = 99
	if got := sim.Roster()[0].Health; got != 3 {
		t.Errorf("Expected simulator to keep its own copy, got health %d", got)
	}
}

func TestEmptyRosterIsAllEliminated(t *testing.T) {
	sim := mustNew(t, nil, NewDice(7))

	round := sim.Step()
	if len(round.Events) != 0 {
		t.Errorf("Expected no events, got %d", len(round.Events))
	}
	if round.Terminal.Status != AllEliminated {
		t.Errorf("Expected AllEliminated, got %s", round.Terminal.Status)
	}
	if !round.Terminal.Done() {
		t.Error("Expected terminal state to be done")
	}
}

func TestSingleShipWinsImmediately(t *testing.T) {
	dice := &scriptedDice{defaultFlip: true, defaultRoll: 1}
	sim := mustNew(t, []Participant{{Name: "A", Health: 1, Shield: 0}}, dice)

	round := sim.Step()
	if len(round.Events) != 0 {
		t.Errorf("Expected no events for a lone ship, got %v", round.Events)
	}
	if dice.calls != 0 {
		t.Errorf("Expected no random draws, got %d", dice.calls)
	}
	if round.Terminal.Status != WonBy {
		t.Fatalf("Expected WonBy, got %s", round.Terminal.Status)
	}
	if round.Terminal.Winner.Name != "A" {
		t.Errorf("Expected winner A, got %s", round.Terminal.Winner.Name)
	}
}

func TestFullShieldAlwaysProtects(t *testing.T) {
	// Lone ship: the guard fires before any draw.
	sim := mustNew(t, []Participant{{Name: "A", Health: 1, Shield: 10}},
		&scriptedDice{defaultFlip: true, defaultRoll: 10})
	if round := sim.Step(); round.Terminal.Status != WonBy {
		t.Errorf("Expected WonBy, got %s", round.Terminal.Status)
	}

	// Two fully shielded ships never lose health whatever the draws are.
	sim = mustNew(t, []Participant{
		{Name: "A", Health: 1, Shield: 10},
		{Name: "B", Health: 1, Shield: 10},
	}, NewDice(42))

	for i := 0; i < 500; i++ {
		round := sim.Step()
		for _, ev := range round.Events {
			if ev.Kind != EventNoDamage {
				t.Fatalf("Round %d: expected only no-damage events, got %s for %s", round.Number, ev.Kind, ev.Name)
			}
		}
		if round.Terminal.Done() {
			t.Fatalf("Round %d: battle should not end", round.Number)
		}
	}
}

func TestBothShipsDestroyedSameRound(t *testing.T) {
	dice := &scriptedDice{defaultFlip: true, defaultRoll: 1}
	sim := mustNew(t, []Participant{
		{Name: "A", Health: 1, Shield: 0},
		{Name: "B", Health: 1, Shield: 0},
	}, dice)

	round := sim.Step()

	want := []Event{
		{Kind: EventDamage, Name: "A", Health: 0},
		{Kind: EventDamage, Name: "B", Health: 0},
		{Kind: EventEliminated, Name: "A", Health: 0},
		{Kind: EventEliminated, Name: "B", Health: 0},
	}
	if len(round.Events) != len(want) {
		t.Fatalf("Expected %d events, got %d: %v", len(want), len(round.Events), round.Events)
	}
	for i := range want {
		if round.Events[i] != want[i] {
			t.Errorf("Event %d: expected %+v, got %+v", i, want[i], round.Events[i])
		}
	}
	if round.Terminal.Status != AllEliminated {
		t.Errorf("Expected AllEliminated, got %s", round.Terminal.Status)
	}
	if round.Terminal.Winner != nil {
		t.Errorf("Expected no winner, got %s", round.Terminal.Winner.Name)
	}
}

func TestDamageOnlyOnFirstShip(t *testing.T) {
	// Draw order per ship is coin flip then shield roll.
	dice := &scriptedDice{
		flips:       []bool{true, false},
		rolls:       []int{5, 5},
		defaultFlip: false,
		defaultRoll: 10,
	}
	sim := mustNew(t, []Participant{
		{Name: "A", Health: 1, Shield: 0},
		{Name: "B", Health: 2, Shield: 0},
	}, dice)

	round := sim.Step()
	if round.Number != 1 {
		t.Errorf("Expected round 1, got %d", round.Number)
	}
	if sim.AliveCount() != 1 {
		t.Errorf("Expected alive count 1, got %d", sim.AliveCount())
	}
	if round.Terminal.Status != WonBy || round.Terminal.Winner.Name != "B" {
		t.Fatalf("Expected WonBy(B), got %+v", round.Terminal)
	}
	if round.Terminal.Winner.Health != 2 {
		t.Errorf("Expected B to keep health 2, got %d", round.Terminal.Winner.Health)
	}

	calls := dice.calls
	next := sim.Step()
	if len(next.Events) != 0 {
		t.Errorf("Expected guard to skip resolution, got %v", next.Events)
	}
	if dice.calls != calls {
		t.Errorf("Expected no draws once one ship is left")
	}
	if next.Terminal.Status != WonBy || next.Terminal.Winner.Name != "B" {
		t.Errorf("Expected WonBy(B) again, got %+v", next.Terminal)
	}
}

func TestShieldBlocksWhenRollNotAboveShield(t *testing.T) {
	tests := []struct {
		name       string
		shield     int
		roll       int
		wantHealth int
	}{
		{name: "roll above shield", shield: 3, roll: 4, wantHealth: 4},
		{name: "roll equals shield", shield: 3, roll: 3, wantHealth: 5},
		{name: "roll below shield", shield: 8, roll: 1, wantHealth: 5},
		{name: "no shield", shield: 0, roll: 1, wantHealth: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dice := &scriptedDice{defaultFlip: true, rolls: []int{tt.roll}, defaultRoll: 10}
			sim := mustNew(t, []Participant{
				{Name: "A", Health: 5, Shield: tt.shield},
				{Name: "B", Health: 5, Shield: 10},
			}, dice)

			events := collect(sim)
			if events[0].Name != "A" || events[0].Health != tt.wantHealth {
				t.Errorf("Expected A at health %d, got %+v", tt.wantHealth, events[0])
			}
		})
	}
}

func TestNoDamageWithoutCoinFlip(t *testing.T) {
	dice := &scriptedDice{defaultFlip: false, defaultRoll: 1}
	sim := mustNew(t, []Participant{
		{Name: "A", Health: 2, Shield: 0},
		{Name: "B", Health: 2, Shield: 0},
	}, dice)

	for _, ev := range collect(sim) {
		if ev.Kind != EventNoDamage || ev.Health != 2 {
			t.Errorf("Expected no damage, got %+v", ev)
		}
	}
}

func TestResolveRoundSequenceIsOneShot(t *testing.T) {
	sim := mustNew(t, []Participant{
		{Name: "A", Health: 3},
		{Name: "B", Health: 3},
	}, &scriptedDice{defaultFlip: true, defaultRoll: 10})

	seq := sim.ResolveRound()
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}

	if first != 2 {
		t.Errorf("Expected 2 events on first pass, got %d", first)
	}
	if second != 0 {
		t.Errorf("Expected sequence to be exhausted, got %d events", second)
	}
}

func TestResolveRoundAppliesDamageEvenIfNotRanged(t *testing.T) {
	sim := mustNew(t, []Participant{
		{Name: "A", Health: 3},
		{Name: "B", Health: 3},
	}, &scriptedDice{defaultFlip: true, defaultRoll: 1})

	_ = sim.ResolveRound()

	for _, ship := range sim.Roster() {
		if ship.Health != 2 {
			t.Errorf("Expected %s at health 2, got %d", ship.Name, ship.Health)
		}
	}
}

func TestZeroHealthShipIsNotDamaged(t *testing.T) {
	dice := &scriptedDice{defaultFlip: true, defaultRoll: 1}
	sim := mustNew(t, []Participant{
		{Name: "Wreck", Health: 0},
		{Name: "A", Health: 3},
		{Name: "B", Health: 3},
	}, dice)

	events := collect(sim)
	for _, ev := range events {
		if ev.Name == "Wreck" {
			t.Errorf("Expected wreck to be skipped, got %+v", ev)
		}
	}
	for _, ship := range sim.Roster() {
		if ship.Health < 0 {
			t.Errorf("Health of %s went negative: %d", ship.Name, ship.Health)
		}
	}

	pruned := sim.PruneAndRecount()
	if len(pruned) != 1 || pruned[0].Name != "Wreck" || pruned[0].Kind != EventEliminated {
		t.Errorf("Expected Wreck to be eliminated, got %v", pruned)
	}
	if sim.AliveCount() != 2 {
		t.Errorf("Expected alive count 2, got %d", sim.AliveCount())
	}
}

func TestPruneKeepsRosterOrder(t *testing.T) {
	sim := mustNew(t, []Participant{
		{Name: "A", Health: 0},
		{Name: "B", Health: 4},
		{Name: "C", Health: 0},
		{Name: "D", Health: 1},
	}, NewDice(3))

	sim.PruneAndRecount()

	roster := sim.Roster()
	if len(roster) != 2 || roster[0].Name != "B" || roster[1].Name != "D" {
		t.Errorf("Expected [B D], got %v", roster)
	}
}

func TestBattlesTerminateAndKeepInvariants(t *testing.T) {
	roster := []Participant{
		{Name: "Mad Sheep", Health: 5, Shield: 8},
		{Name: "Strong Viking", Health: 8, Shield: 3},
		{Name: "Rusty Barge", Health: 3, Shield: 0},
		{Name: "Glass Cannon", Health: 1, Shield: 9},
	}

	for seed := int64(1); seed <= 50; seed++ {
		sim := mustNew(t, roster, NewDice(seed))

		finished := false
		for i := 0; i < 10000; i++ {
			before := len(sim.Roster())
			round := sim.Step()

			alive := 0
			for _, ship := range sim.Roster() {
				if ship.Health < 0 {
					t.Fatalf("seed %d: health of %s went negative", seed, ship.Name)
				}
				if ship.Health > 0 {
					alive++
				}
			}
			if alive != sim.AliveCount() {
				t.Fatalf("seed %d: alive count %d, want %d", seed, sim.AliveCount(), alive)
			}
			if len(sim.Roster()) > before {
				t.Fatalf("seed %d: roster grew", seed)
			}
			if round.Terminal.Done() {
				finished = true
				break
			}
		}
		if !finished {
			t.Errorf("seed %d: battle did not finish", seed)
		}
	}
}

func TestSameSeedSameBattle(t *testing.T) {
	roster := []Participant{
		{Name: "Mad Sheep", Health: 5, Shield: 8},
		{Name: "Strong Viking", Health: 8, Shield: 3},
	}

	run := func() []Round {
		sim := mustNew(t, roster, NewDice(1234))
		var rounds []Round
		for {
			round := sim.Step()
			rounds = append(rounds, round)
			if round.Terminal.Done() {
				return rounds
			}
		}
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("Expected identical round counts, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if len(a[i].Events) != len(b[i].Events) {
			t.Fatalf("Round %d differs", i+1)
		}
		for j := range a[i].Events {
			if a[i].Events[j] != b[i].Events[j] {
				t.Fatalf("Round %d event %d differs: %+v vs %+v", i+1, j, a[i].Events[j], b[i].Events[j])
			}
		}
	}
}

func TestDiceRollRange(t *testing.T) {
	dice := NewDice(99)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		r := dice.Roll(ShieldRollMin, ShieldRollMax)
		if r < ShieldRollMin || r > ShieldRollMax {
			t.Fatalf("Roll out of range: %d", r)
		}
		seen[r] = true
	}
	if len(seen) != ShieldRollMax-ShieldRollMin+1 {
		t.Errorf("Expected every face to come up, saw %d", len(seen))
	}
}
