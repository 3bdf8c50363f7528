package domain

import (
	"log/slog"
	"math/rand"
	"sort"
	"time"
)

// NewRand returns the single random stream of a run. Seed 0 picks a
// time-based seed, which is logged so the run can be reproduced.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
		slog.Info("Using time-based seed", "seed", seed)
	}

	// #nosec G404 - search randomness, not security sensitive
	return rand.New(rand.NewSource(seed)), seed
}

// WeightedChoice draws a key with probability proportional to its weight.
// Keys are visited in a shuffled order so ties carry no positional bias.
// With a zero total the smallest key is returned. ok is false for an empty map.
func WeightedChoice(rng *rand.Rand, weights map[int]float64) (key int, ok bool) {
	if len(weights) == 0 {
		return 0, false
	}

	keys := make([]int, 0, len(weights))
	total := 0.0

	for k, w := range weights {
		keys = append(keys, k)

		if w > 0 {
			total += w
		}
	}

	sort.Ints(keys)

	if total == 0 {
		return keys[0], true
	}

	draw := rng.Float64() * total

	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	cumulative := 0.0
	last := keys[0]

	for _, k := range keys {
		if weights[k] <= 0 {
			continue
		}

		last = k

		cumulative += weights[k]
		if cumulative > draw {
			return k, true
		}
	}

	return last, true
}
