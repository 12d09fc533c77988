package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/datvo/accessengine/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		celebrities   = flag.Int("celebrities", cfg.NumCelebrities, "number of celebrities to generate")
		minNodes      = flag.Int("min-nodes", cfg.MinNodesPerCeleb, "minimum warm nodes per celebrity")
		maxNodes      = flag.Int("max-nodes", cfg.MaxNodesPerCeleb, "maximum warm nodes per celebrity")
		contactChance = flag.Float64("contact-chance", cfg.ContactInfoChance, "probability a node carries contact info")
		secondHop     = flag.Float64("second-hop-chance", cfg.SecondHopChance, "probability a node sits two hops out")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir     = flag.String("output-dir", "data", "directory to write celebrities.json and nodes.json")
		writeStdout   = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumCelebrities:    *celebrities,
		MinNodesPerCeleb:  *minNodes,
		MaxNodesPerCeleb:  *maxNodes,
		ContactInfoChance: clampProbability(*contactChance),
		SecondHopChance:   clampProbability(*secondHop),
		Seed:              *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d celebrities and %d nodes into %s\n", len(dataset.Celebrities), len(dataset.Nodes), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
