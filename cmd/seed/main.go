package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/datvo/accessengine/internal/config"
	"github.com/datvo/accessengine/internal/graph"
	"github.com/datvo/accessengine/internal/logging"
	"github.com/datvo/accessengine/internal/repository"
	"github.com/datvo/accessengine/internal/service"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir  = flag.String("dataset-dir", "./seed-data", "Directory containing celebrities.json and nodes.json")
		celebsPath  = flag.String("celebrities", "", "Path to celebrities.json (overrides dataset-dir)")
		nodesPath   = flag.String("nodes", "", "Path to nodes.json (overrides dataset-dir)")
		workers     = flag.Int("workers", 4, "Number of concurrent workers for seeding")
		skipRescore = flag.Bool("skip-rescore", false, "Skip access score recalculation after seeding")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	celebsFile, nodesFile, err := resolveDatasetPaths(*datasetDir, *celebsPath, *nodesPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	celebs, err := loadCelebrityInputs(celebsFile)
	if err != nil {
		logger.Error("failed to load celebrities", "error", err, "path", celebsFile)
		os.Exit(1)
	}
	if len(celebs) == 0 {
		logger.Error("celebrities dataset empty", "path", celebsFile)
		os.Exit(1)
	}

	seeds, err := loadNodeSeeds(nodesFile)
	if err != nil {
		logger.Error("failed to load nodes", "error", err, "path", nodesFile)
		os.Exit(1)
	}
	if len(seeds) == 0 {
		logger.Error("nodes dataset empty", "path", nodesFile)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	svc := service.NewAccessService(repo, nil, nil, logger)
	seeder := service.NewBulkSeeder(svc, *workers)

	start := time.Now()
	logger.Info("seeding celebrities", "count", len(celebs), "workers", *workers)
	if err := seeder.SeedCelebrities(ctx, celebs); err != nil {
		logger.Error("celebrity seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding nodes", "count", len(seeds))
	if err := seeder.SeedNodes(ctx, seeds); err != nil {
		logger.Error("node seeding failed", "error", err)
		os.Exit(1)
	}

	if !*skipRescore {
		logger.Info("recalculating access scores", "celebrities", len(celebs))
		for _, celeb := range celebs {
			if _, err := svc.AccessScore(ctx, celeb.ID); err != nil {
				logger.Warn("access score recalculation failed", "error", err, "celebrityId", celeb.ID)
			}
		}
	}

	logger.Info("seeding complete", "duration", time.Since(start).String(), "celebrities", len(celebs), "nodes", len(seeds))
}

func resolveDatasetPaths(baseDir, celebsPath, nodesPath string) (string, string, error) {
	resolve := func(explicitPath, fallbackFile string) (string, error) {
		if explicitPath != "" {
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, fallbackFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", errMissingDataset, path)
		}
		return path, nil
	}

	celebsFile, err := resolve(celebsPath, "celebrities.json")
	if err != nil {
		return "", "", err
	}
	nodesFile, err := resolve(nodesPath, "nodes.json")
	if err != nil {
		return "", "", err
	}
	return celebsFile, nodesFile, nil
}

func loadCelebrityInputs(path string) ([]service.CelebrityInput, error) {
	var celebs []service.CelebrityInput
	if err := loadJSON(path, &celebs); err != nil {
		return nil, err
	}
	return celebs, nil
}

func loadNodeSeeds(path string) ([]service.NodeSeed, error) {
	var seeds []service.NodeSeed
	if err := loadJSON(path, &seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}

func loadJSON(path string, target any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for seeding")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
