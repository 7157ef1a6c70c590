package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/stat"

	"github.com/limaJavier/evoschedule/internal/ga"
	"github.com/limaJavier/evoschedule/internal/model"
)

type runResult struct {
	Catalog      string
	Seed         int64
	Score        float64
	Violations   int
	Generations  int
	Milliseconds int64
}

func main() {
	directory := pflag.String("dir", "../../test/catalogs", "Directory containing catalog JSON files")
	seeds := pflag.Int("seeds", 5, "Number of seeds to run per catalog")
	generations := pflag.Int("generations", 200, "Generation budget per run")
	outFile := pflag.String("out", "", "Path to the CSV file where per-run results will be written; if empty, results go to the Standard Output")
	pflag.Parse()

	entries, err := os.ReadDir(*directory)
	if err != nil {
		log.Fatalf("cannot read catalog directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // keep runs quiet, aggregate below

	results := []runResult{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		input, err := model.InputFromJson(path.Join(*directory, entry.Name()))
		if err != nil {
			log.Fatalf("cannot parse %v: %v", entry.Name(), err)
		}
		catalog, err := model.NewPreprocessor().BuildCatalog(input)
		if err != nil {
			log.Fatalf("cannot build catalog from %v: %v", entry.Name(), err)
		}

		fmt.Printf("Catalog %v: %v sessions, %v slots, %v rooms\n",
			entry.Name(),
			humanize.Comma(int64(len(catalog.Sessions))),
			humanize.Comma(int64(len(catalog.Slots))),
			humanize.Comma(int64(len(catalog.Rooms))),
		)

		for seed := range *seeds {
			config := ga.DefaultConfig()
			config.Generations = *generations
			config.Seed = int64(seed)

			engine, err := ga.NewEngine(catalog, config, logger)
			if err != nil {
				log.Fatal(err)
			}
			result, err := engine.Run(context.Background())
			if err != nil {
				log.Fatalf("run failed on %v with seed %v: %v", entry.Name(), seed, err)
			}

			results = append(results, runResult{
				Catalog:      entry.Name(),
				Seed:         int64(seed),
				Score:        result.Score,
				Violations:   len(result.Violations),
				Generations:  result.Generations,
				Milliseconds: result.Duration.Milliseconds(),
			})
		}

		scores, feasible := []float64{}, 0
		for _, result := range results {
			if result.Catalog != entry.Name() {
				continue
			}
			scores = append(scores, result.Score)
			if result.Violations == 0 {
				feasible++
			}
		}
		mean, deviation := stat.MeanStdDev(scores, nil)
		fmt.Printf("  mean score %.3f (stddev %.3f), %v/%v feasible runs\n",
			mean, deviation, feasible, len(scores))
	}

	out := os.Stdout
	if *outFile != "" {
		out, err = os.Create(*outFile)
		if err != nil {
			log.Fatalf("cannot create output file: %v", err)
		}
		defer out.Close()
	}
	if err := writeResults(out, results); err != nil {
		log.Fatalf("cannot write results: %v", err)
	}
}

func writeResults(w io.Writer, results []runResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"catalog", "seed", "score", "violations", "generations", "milliseconds"}); err != nil {
		return err
	}
	for _, result := range results {
		record := []string{
			result.Catalog,
			strconv.FormatInt(result.Seed, 10),
			strconv.FormatFloat(result.Score, 'f', 6, 64),
			strconv.Itoa(result.Violations),
			strconv.Itoa(result.Generations),
			strconv.FormatInt(result.Milliseconds, 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
