package game

import (
	"hash/fnv"
	"math/rand"
)

// RNGFactory produces deterministic RNG instances for game subsystems.
type RNGFactory func(rootSeed, label string) *rand.Rand

func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

// jitter returns a uniform offset in [-spread/2, spread/2).
func jitter(rng *rand.Rand, spread float64) float64 {
	return (rng.Float64() - 0.5) * spread
}
