package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/limaJavier/evoschedule/internal/model"
)

func TestRandomCandidate(t *testing.T) {
	t.Run("stays inside the slot and room domains", func(t *testing.T) {
		// Arrange
		catalog := testCatalog()
		rng := rand.New(rand.NewSource(1))

		// Act & Assert
		for range 50 {
			candidate := randomCandidate(catalog, rng)
			assert.NoError(t, candidate.CheckIntegrity(catalog))
		}
	})

	t.Run("draws from the teacher's availability when declared", func(t *testing.T) {
		// Arrange: curie teaches physics_1 and is available on mon_1 only
		catalog := testCatalog()
		catalog.Teachers[1].Available = []bool{true, false, false}
		rng := rand.New(rand.NewSource(1))

		// Act & Assert
		for range 50 {
			candidate := randomCandidate(catalog, rng)
			assert.Equal(t, uint64(0), candidate.Assignments[2].Slot)
		}
	})

	t.Run("is deterministic under a fixed seed", func(t *testing.T) {
		catalog := testCatalog()

		first := randomCandidate(catalog, rand.New(rand.NewSource(7)))
		second := randomCandidate(catalog, rand.New(rand.NewSource(7)))

		assert.Equal(t, first.Assignments, second.Assignments)
	})
}

func TestCrossoverClosure(t *testing.T) {
	// Arrange: parents with recognizable halves
	catalog := testCatalog()
	rng := rand.New(rand.NewSource(3))
	first := model.NewCandidate([]model.Assignment{
		{Slot: 0, Room: 0}, {Slot: 0, Room: 0}, {Slot: 0, Room: 0},
	})
	second := model.NewCandidate([]model.Assignment{
		{Slot: 2, Room: 1}, {Slot: 2, Room: 1}, {Slot: 2, Room: 1},
	})

	for range 50 {
		// Act
		childA, childB := crossover(first, second, rng)

		// Assert: both children keep one assignment per session, every gene
		// inherited from whichever parent contributed that position
		assert.NoError(t, childA.CheckIntegrity(catalog))
		assert.NoError(t, childB.CheckIntegrity(catalog))
		for position := range childA.Assignments {
			geneA, geneB := childA.Assignments[position], childB.Assignments[position]
			assert.Contains(t, []model.Assignment{first.Assignments[position], second.Assignments[position]}, geneA)
			assert.Contains(t, []model.Assignment{first.Assignments[position], second.Assignments[position]}, geneB)
			assert.NotEqual(t, geneA, geneB)
		}

		// Parents are untouched
		assert.Equal(t, model.Assignment{Slot: 0, Room: 0}, first.Assignments[0])
		assert.Equal(t, model.Assignment{Slot: 2, Room: 1}, second.Assignments[0])
	}
}

func TestMutate(t *testing.T) {
	t.Run("keeps the candidate in-domain and invalidates its score", func(t *testing.T) {
		// Arrange
		catalog := testCatalog()
		rng := rand.New(rand.NewSource(5))
		candidate := model.NewCandidate([]model.Assignment{
			{Slot: 0, Room: 0}, {Slot: 1, Room: 0}, {Slot: 2, Room: 1},
		})
		candidate.SetScore(1)

		// Act: rate 1 guarantees every gene mutates
		mutate(catalog, candidate, 1, rng)

		// Assert
		assert.NoError(t, candidate.CheckIntegrity(catalog))
		_, ok := candidate.CachedScore()
		assert.False(t, ok)
	})

	t.Run("keeps the cached score when nothing mutates", func(t *testing.T) {
		catalog := testCatalog()
		rng := rand.New(rand.NewSource(5))
		candidate := model.NewCandidate([]model.Assignment{
			{Slot: 0, Room: 0}, {Slot: 1, Room: 0}, {Slot: 2, Room: 1},
		})
		candidate.SetScore(1)

		mutate(catalog, candidate, 0, rng)

		score, ok := candidate.CachedScore()
		assert.True(t, ok)
		assert.Equal(t, 1.0, score)
	})
}

func TestTournament(t *testing.T) {
	// Arrange: with the tournament spanning the whole population, the winner
	// must be the top-scoring candidate
	population := []*model.Candidate{}
	for i := range 2 {
		candidate := model.NewCandidate([]model.Assignment{{Slot: 0, Room: 0}})
		candidate.SetScore(float64(i))
		population = append(population, candidate)
	}
	rng := rand.New(rand.NewSource(11))

	// Act & Assert
	winner := tournament(population, 1000, rng)
	score, _ := winner.CachedScore()
	assert.Equal(t, 1.0, score)
}
