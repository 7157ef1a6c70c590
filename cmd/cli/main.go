package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/limaJavier/evoschedule/internal/export"
	"github.com/limaJavier/evoschedule/internal/ga"
	"github.com/limaJavier/evoschedule/internal/model"
)

func main() {
	defaults := ga.DefaultConfig()

	// Define arguments
	filePath := pflag.String("file", "", "Path to the input catalog file (JSON)")
	outFile := pflag.String("out", "", "Path to the CSV file where the timetable will be written; if empty, it'll be written into the Standard Output")
	population := pflag.Int("population", defaults.Population, "Population size")
	generations := pflag.Int("generations", defaults.Generations, "Generation budget")
	tournamentSize := pflag.Int("tournament", defaults.TournamentSize, "Tournament size used by parent selection")
	crossoverRate := pflag.Float64("crossover", defaults.CrossoverRate, "Crossover rate (between 0 and 1)")
	mutationRate := pflag.Float64("mutation", defaults.MutationRate, "Mutation rate (between 0 and 1)")
	elite := pflag.Int("elite", defaults.Elite, "Number of top candidates copied unchanged into each next generation")
	stagnation := pflag.Int("stagnation", defaults.Stagnation, "Stop after this many generations without improvement; 0 disables the stop")
	targetScore := pflag.Float64("target", defaults.TargetScore, "Stop once the best score reaches this value; 0 disables the stop")
	seed := pflag.Int64("seed", defaults.Seed, "Random seed; identical seed, catalog and configuration reproduce the identical run")
	repair := pflag.Bool("repair", defaults.Repair, "Repair room double-bookings after mutation")
	workers := pflag.Int("workers", 0, "Number of parallel fitness-evaluation workers; 0 or 1 evaluates sequentially")
	timeout := pflag.Duration("timeout", 0, "Run-level timeout; 0 disables it")
	report := pflag.Bool("report", false, "Print a schedule-quality report to the Standard Error")
	pflag.Parse()

	// Validate arguments
	if *filePath == "" {
		log.Fatal("an input file must be specified")
	}

	config := defaults
	config.Population = *population
	config.Generations = *generations
	config.TournamentSize = *tournamentSize
	config.CrossoverRate = *crossoverRate
	config.MutationRate = *mutationRate
	config.Elite = *elite
	config.Stagnation = *stagnation
	config.TargetScore = *targetScore
	config.Seed = *seed
	config.Repair = *repair
	config.Workers = *workers

	// Extract input
	input, err := model.InputFromJson(*filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	catalog, err := model.NewPreprocessor().BuildCatalog(input)
	if err != nil {
		log.Fatalf("cannot build catalog: %v", err)
	}

	// Initialize engine
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	engine, err := ga.NewEngine(catalog, config, logger)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	// Search
	result, err := engine.Run(ctx)
	if err != nil {
		log.Fatalf("an error occurred during the search: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Best score: %v (%v generations, stopped by %v, took %v)\n",
		result.Score, result.Generations, result.Reason, result.Duration.Round(time.Millisecond))
	for _, violation := range result.Violations {
		fmt.Fprintf(os.Stderr, "Remaining violation: %v of sessions %v and %v in slot %v\n",
			violation.Kind,
			catalog.Sessions[violation.First].Id,
			catalog.Sessions[violation.Second].Id,
			catalog.Slots[violation.Slot].Id,
		)
	}

	// Write timetable
	out := os.Stdout
	if *outFile != "" {
		out, err = os.Create(*outFile)
		if err != nil {
			log.Fatalf("cannot create output file: %v", err)
		}
		defer out.Close()
	}
	if err := export.WriteCSV(out, catalog, result.Best); err != nil {
		log.Fatalf("cannot write timetable: %v", err)
	}

	if *report {
		qualityReport, err := export.BuildReport(catalog, result.Best)
		if err != nil {
			log.Fatal(err)
		}
		if err := export.WriteReport(os.Stderr, catalog, qualityReport); err != nil {
			log.Fatal(err)
		}
	}

	if len(result.Violations) > 0 {
		os.Exit(15)
	}
}
