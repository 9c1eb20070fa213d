package combat

import (
	"math/rand/v2"
	"time"
)

// Dice is the random source used for damage and shield draws.
type Dice interface {
	// CoinFlip returns a uniformly distributed boolean.
	CoinFlip() bool
	// Roll returns a uniformly distributed integer in [min, max].
	Roll(min, max int) int
}

type pcgDice struct {
	rng *rand.Rand
}

// NewDice returns a seeded Dice. The same seed always produces the same
// sequence of draws.
func NewDice(seed int64) Dice {
	return &pcgDice{
		rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

// NewSeed returns a seed derived from the current time. It never returns 0
// so that 0 can mean "pick one for me" in configuration.
func NewSeed() int64 {
	seed := time.Now().UnixNano()
	if seed == 0 {
		seed = 1
	}
	return seed
}

func (d *pcgDice) CoinFlip() bool {
	return d.rng.IntN(2) == 1
}

func (d *pcgDice) Roll(min, max int) int {
	if max <= min {
		return min
	}
	return min + d.rng.IntN(max-min+1)
}
