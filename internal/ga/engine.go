package ga

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/limaJavier/evoschedule/internal/model"
)

type StopReason string

const (
	StoppedBudget     StopReason = "generation-budget"
	StoppedStagnation StopReason = "stagnation"
	StoppedTarget     StopReason = "target-score"
	StoppedCancelled  StopReason = "cancelled"
)

// Result carries the best-ever candidate seen across all generations, which
// elitism should make coincide with the final generation's best, though
// callers must not assume it.
type Result struct {
	Best        *model.Candidate
	Score       float64
	Violations  []Violation
	Generations int
	Reason      StopReason
	Duration    time.Duration
}

// Engine owns one search's mutable state: the population, the generation
// counter and the seeded random stream. Independent engines can run
// concurrently since nothing is shared through package state.
type Engine struct {
	catalog   *model.Catalog
	config    Config
	evaluator *Evaluator
	rng       *rand.Rand
	logger    *slog.Logger

	population []*model.Candidate
	generation int
	best       *model.Candidate
	bestScore  float64
}

// NewEngine validates the configuration and prepares a run. Given the same
// catalog, configuration and seed, the produced sequence of populations is
// identical: all randomness flows through the engine's own generator.
func NewEngine(catalog *model.Catalog, config Config, logger *slog.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		catalog:   catalog,
		config:    config,
		evaluator: NewEvaluator(catalog, config.HardWeight, config.SoftWeights),
		rng:       rand.New(rand.NewSource(config.Seed)),
		logger:    logger,
	}, nil
}

// Evaluator exposes the engine's evaluator so callers can register extra
// metrics before Run or break down the result's score afterwards.
func (engine *Engine) Evaluator() *Evaluator {
	return engine.evaluator
}

// Run executes the generation loop until the budget is exhausted, the best
// score stagnates, or the target score is reached. An expired context stops
// the run before the next generation; the best-ever candidate found so far is
// still returned. Over-constrained catalogs never fail: the result simply
// reports its remaining violations.
func (engine *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	engine.population = make([]*model.Candidate, engine.config.Population)
	for i := range engine.population {
		engine.population[i] = randomCandidate(engine.catalog, engine.rng)
	}

	stagnant := 0
	reason := StoppedBudget

	for engine.generation = 0; engine.generation < engine.config.Generations; engine.generation++ {
		if ctx.Err() != nil && engine.best != nil {
			reason = StoppedCancelled
			break
		}

		improved, err := engine.evaluate()
		if err != nil {
			return Result{}, err
		}

		if engine.generation%20 == 0 {
			engine.logger.Info("generation evaluated",
				slog.Int("generation", engine.generation),
				slog.Float64("best", engine.bestScore),
			)
		}

		if improved {
			stagnant = 0
		} else {
			stagnant++
		}

		if engine.config.TargetScore != 0 && engine.bestScore >= engine.config.TargetScore {
			reason = StoppedTarget
			break
		}
		if engine.config.Stagnation > 0 && stagnant >= engine.config.Stagnation {
			reason = StoppedStagnation
			break
		}
		if engine.generation == engine.config.Generations-1 {
			break
		}

		if err := engine.advance(); err != nil {
			return Result{}, err
		}
	}

	// The cancelled path breaks before evaluating its generation; the other
	// stops break after.
	generations := engine.generation + 1
	if reason == StoppedCancelled {
		generations = engine.generation
	}

	result := Result{
		Best:        engine.best.Clone(),
		Score:       engine.bestScore,
		Violations:  Validate(engine.catalog, engine.best),
		Generations: generations,
		Reason:      reason,
		Duration:    time.Since(start),
	}

	engine.logger.Info("search finished",
		slog.String("reason", string(reason)),
		slog.Int("generations", result.Generations),
		slog.Float64("best", result.Score),
		slog.Int("violations", len(result.Violations)),
	)

	return result, nil
}

// evaluate scores every candidate whose cache is stale and refreshes the
// best-ever candidate. It reports whether the best score improved. With more
// than one worker configured, scoring fans out across goroutines and joins on
// a barrier before any selection happens; workers only read candidates and
// return scores, so no locks guard the population.
func (engine *Engine) evaluate() (bool, error) {
	for _, candidate := range engine.population {
		if err := candidate.CheckIntegrity(engine.catalog); err != nil {
			return false, err
		}
	}

	if engine.config.Workers > 1 {
		var wg sync.WaitGroup
		jobs := make(chan *model.Candidate)

		wg.Add(engine.config.Workers)
		for range engine.config.Workers {
			go func() {
				defer wg.Done()
				for candidate := range jobs {
					candidate.SetScore(engine.evaluator.Score(candidate))
				}
			}()
		}
		for _, candidate := range engine.population {
			if _, ok := candidate.CachedScore(); !ok {
				jobs <- candidate
			}
		}
		close(jobs)
		wg.Wait()
	} else {
		for _, candidate := range engine.population {
			if _, ok := candidate.CachedScore(); !ok {
				candidate.SetScore(engine.evaluator.Score(candidate))
			}
		}
	}

	improved := false
	for _, candidate := range engine.population {
		score, ok := candidate.CachedScore()
		if !ok {
			return false, fmt.Errorf("candidate left unscored after evaluation barrier")
		}
		if engine.best == nil || score > engine.bestScore {
			engine.best = candidate.Clone()
			engine.bestScore = score
			improved = true
		}
	}
	return improved, nil
}

// advance breeds the next generation: the top elite candidates are cloned
// unchanged, the rest are produced by tournament selection, crossover,
// mutation and, when enabled, room repair.
func (engine *Engine) advance() error {
	ranked := slices.Clone(engine.population)
	slices.SortStableFunc(ranked, func(a, b *model.Candidate) int {
		scoreA, _ := a.CachedScore()
		scoreB, _ := b.CachedScore()
		if scoreA > scoreB {
			return -1
		} else if scoreA < scoreB {
			return 1
		}
		return 0
	})

	next := make([]*model.Candidate, 0, engine.config.Population)
	for _, elite := range ranked[:engine.config.Elite] {
		next = append(next, elite.Clone())
	}

	for len(next) < engine.config.Population {
		first := tournament(engine.population, engine.config.TournamentSize, engine.rng)
		second := tournament(engine.population, engine.config.TournamentSize, engine.rng)

		var childA, childB *model.Candidate
		if engine.rng.Float64() < engine.config.CrossoverRate {
			childA, childB = crossover(first, second, engine.rng)
		} else {
			childA, childB = first.Clone(), second.Clone()
		}

		for _, child := range []*model.Candidate{childA, childB} {
			if len(next) == engine.config.Population {
				break
			}
			mutate(engine.catalog, child, engine.config.MutationRate, engine.rng)
			if engine.config.Repair {
				repairRooms(engine.catalog, child)
			}
			if err := child.CheckIntegrity(engine.catalog); err != nil {
				return err
			}
			next = append(next, child)
		}
	}

	engine.population = next
	return nil
}
