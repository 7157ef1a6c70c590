package ga

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config carries every run-time knob of the search. Weights are configuration
// rather than constants so operators can retune priorities without touching
// the algorithm.
type Config struct {
	Population     int     `validate:"gt=1"`
	Generations    int     `validate:"gt=0"`
	TournamentSize int     `validate:"gt=0"`
	CrossoverRate  float64 `validate:"gte=0,lte=1"`
	MutationRate   float64 `validate:"gte=0,lte=1"`
	Elite          int     `validate:"gte=0"`
	Stagnation     int     `validate:"gte=0"` // 0 disables the stagnation stop
	TargetScore    float64 // 0 disables the target-score stop
	Seed           int64
	Repair         bool
	Workers        int `validate:"gte=0"` // 0 or 1 evaluates sequentially

	// HardWeight multiplies the violation count; it must dominate the sum of
	// all soft weights so any feasible candidate outscores any infeasible one.
	HardWeight  float64 `validate:"gt=0"`
	SoftWeights map[string]float64
}

func DefaultConfig() Config {
	return Config{
		Population:     100,
		Generations:    800,
		TournamentSize: 3,
		CrossoverRate:  0.9,
		MutationRate:   0.2,
		Elite:          4,
		Stagnation:     0,
		TargetScore:    0,
		Seed:           42,
		Repair:         true,
		HardWeight:     1e6,
		SoftWeights: map[string]float64{
			MetricGaps:         1,
			MetricBalance:      1,
			MetricPreference:   1,
			MetricAvailability: 5,
			MetricCapacity:     5,
		},
	}
}

var validate = validator.New()

func (config Config) Validate() error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if config.Elite >= config.Population {
		return fmt.Errorf("invalid configuration: elite count %v must be smaller than population size %v",
			config.Elite, config.Population)
	}
	if config.TournamentSize > config.Population {
		return fmt.Errorf("invalid configuration: tournament size %v must not exceed population size %v",
			config.TournamentSize, config.Population)
	}

	softTotal := 0.0
	for name, weight := range config.SoftWeights {
		if weight < 0 {
			return fmt.Errorf("invalid configuration: soft weight %v is negative", name)
		}
		softTotal += weight
	}
	if config.HardWeight <= softTotal {
		return fmt.Errorf("invalid configuration: hard weight %v does not dominate the soft weights (total %v)",
			config.HardWeight, softTotal)
	}

	return nil
}
