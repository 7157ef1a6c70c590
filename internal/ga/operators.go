package ga

import (
	"math/rand"

	"github.com/limaJavier/evoschedule/internal/model"
)

// randomCandidate pairs each session with a random (slot, room). Slots are
// drawn from the teacher's availability when one is declared, which seeds the
// population closer to feasibility without guaranteeing it.
func randomCandidate(catalog *model.Catalog, rng *rand.Rand) *model.Candidate {
	assignments := make([]model.Assignment, len(catalog.Sessions))
	for position, session := range catalog.Sessions {
		assignments[position] = model.Assignment{
			Slot: randomSlot(catalog, session.Teacher, rng),
			Room: uint64(rng.Intn(len(catalog.Rooms))),
		}
	}
	return model.NewCandidate(assignments)
}

func randomSlot(catalog *model.Catalog, teacher uint64, rng *rand.Rand) uint64 {
	available := catalog.Teachers[teacher].Available
	if available == nil {
		return uint64(rng.Intn(len(catalog.Slots)))
	}

	candidates := []uint64{}
	for slot, ok := range available {
		if ok {
			candidates = append(candidates, uint64(slot))
		}
	}
	if len(candidates) == 0 {
		return uint64(rng.Intn(len(catalog.Slots)))
	}
	return candidates[rng.Intn(len(candidates))]
}

// tournament picks the best-scoring candidate out of `size` uniformly drawn
// population members. Scores must already be cached for the whole population.
func tournament(population []*model.Candidate, size int, rng *rand.Rand) *model.Candidate {
	best := population[rng.Intn(len(population))]
	bestScore, _ := best.CachedScore()
	for range size - 1 {
		contestant := population[rng.Intn(len(population))]
		if score, _ := contestant.CachedScore(); score > bestScore {
			best, bestScore = contestant, score
		}
	}
	return best
}

// crossover exchanges the assignment tails of two parents at a single point.
// Positions are indexed by session order, which is fixed across the
// population, so every offspring still carries each session exactly once.
func crossover(first, second *model.Candidate, rng *rand.Rand) (*model.Candidate, *model.Candidate) {
	n := len(first.Assignments)
	if n < 2 {
		return first.Clone(), second.Clone()
	}

	point := 1 + rng.Intn(n-1)
	childA := make([]model.Assignment, n)
	childB := make([]model.Assignment, n)
	copy(childA, first.Assignments[:point])
	copy(childA[point:], second.Assignments[point:])
	copy(childB, second.Assignments[:point])
	copy(childB[point:], first.Assignments[point:])

	return model.NewCandidate(childA), model.NewCandidate(childB)
}

// mutate reassigns each gene with probability rate, drawing either a fresh
// slot (biased to the teacher's availability) or a fresh room. The cached
// score is invalidated whenever an assignment changes.
func mutate(catalog *model.Catalog, candidate *model.Candidate, rate float64, rng *rand.Rand) {
	mutated := false
	for position := range candidate.Assignments {
		if rng.Float64() >= rate {
			continue
		}

		if rng.Intn(2) == 0 {
			candidate.Assignments[position].Slot = randomSlot(catalog, catalog.Sessions[position].Teacher, rng)
		} else {
			candidate.Assignments[position].Room = uint64(rng.Intn(len(catalog.Rooms)))
		}
		mutated = true
	}

	if mutated {
		candidate.Invalidate()
	}
}
