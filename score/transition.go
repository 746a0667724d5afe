package score

import (
	"math/rand/v2"
)

// DefaultScoreProbability is the chance each team scores on a tick.
const DefaultScoreProbability = 0.3

// Transition computes the next snapshot from the previous one.
type Transition func(prev Snapshot) Snapshot

// RandomScoring gives each team an independent probability p of scoring
// one point per tick.
func RandomScoring(rng *rand.Rand, p float64) Transition {
	return func(prev Snapshot) Snapshot {
		next := prev
		if rng.Float64() < p {
			next.Score.Team1++
		}
		if rng.Float64() < p {
			next.Score.Team2++
		}
		return next
	}
}
