// Package rewards produces the randomized reward for a waste scan.
package rewards

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Scan reward bounds. Ranges are inclusive at both ends.
const (
	MinCoins    = 50
	MaxCoins    = 150
	ScanXP      = 50
	MinWeightKg = 0.1
	MaxWeightKg = 1.5
)

// WasteTypes are the labels a scan can be classified as.
var WasteTypes = []string{"Plastique", "Verre", "Métal", "Papier", "Carton"}

// ScanReward is what a single validated scan earns.
type ScanReward struct {
	Coins     int     `json:"coins"`
	XP        int     `json:"xp"`
	WeightKg  float64 `json:"weight"`
	WasteType string  `json:"type"`
}

// Generator draws rewards from a uniform source. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator over rng. A nil rng uses a randomly seeded PCG.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// Seeded returns a deterministic Generator, handy in tests.
func Seeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Scan generates one scan reward.
func (g *Generator) Scan() ScanReward {
	g.mu.Lock()
	coins := MinCoins + g.rng.IntN(MaxCoins-MinCoins+1)
	weight := MinWeightKg + g.rng.Float64()*(MaxWeightKg-MinWeightKg)
	label := WasteTypes[g.rng.IntN(len(WasteTypes))]
	g.mu.Unlock()

	return ScanReward{
		Coins:     coins,
		XP:        ScanXP,
		WeightKg:  clamp(Round2(weight), MinWeightKg, MaxWeightKg),
		WasteType: label,
	}
}

// ApplyMultiplier scales the coins of r. Multipliers below 1 are ignored.
func ApplyMultiplier(r ScanReward, multiplier int) ScanReward {
	if multiplier > 1 {
		r.Coins *= multiplier
	}
	return r
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
