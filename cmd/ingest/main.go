// Package main provides the entry point for the data ingestion CLI tool.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IsaJohn05/nba-player-props-model/internal/config"
	"github.com/IsaJohn05/nba-player-props-model/internal/database"
	"github.com/IsaJohn05/nba-player-props-model/internal/export"
	"github.com/IsaJohn05/nba-player-props-model/internal/features"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
	"github.com/IsaJohn05/nba-player-props-model/internal/repository"
	"github.com/IsaJohn05/nba-player-props-model/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		gamesPath  = flag.String("games", "", "Path to a game-log CSV to ingest")
		rosterPath = flag.String("roster", "", "Path to a roster CSV; replaces the stored snapshot")
		batchSize  = flag.Int("batch-size", 500, "Insert batch size for game events")
		exportDir  = flag.String("export-features", "", "Directory to write training feature CSVs into")
		through    = flag.String("through", "", "Export cutoff date (YYYY-MM-DD, exclusive); defaults to now")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	if *gamesPath == "" && *rosterPath == "" && *exportDir == "" {
		logger.Fatal("Nothing to do: provide -games, -roster, and/or -export-features")
	}

	cfg := loadConfigWithSecrets(*configPath, logger)

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	svc, err := service.NewIngestionService(repos, logger, *batchSize)
	if err != nil {
		logger.Fatalf("Failed to create ingestion service: %v", err)
	}

	if *gamesPath != "" {
		ingestGames(ctx, svc, *gamesPath, logger)
	}
	if *rosterPath != "" {
		ingestRoster(ctx, svc, *rosterPath, logger)
	}
	if *exportDir != "" {
		exportTrainingData(ctx, cfg, repos, *exportDir, *through, logger)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// exportTrainingData materializes feature and defense histories through the
// cutoff as CSVs for the external model-fitting job.
func exportTrainingData(ctx context.Context, cfg *config.Config, repos *repository.Repositories, dir, through string, logger *logrus.Logger) {
	cutoff := time.Now()
	if through != "" {
		loc, err := cfg.Location()
		if err != nil {
			logger.Fatalf("Invalid timezone in config: %v", err)
		}
		cutoff, err = time.ParseInLocation("2006-01-02", through, loc)
		if err != nil {
			logger.Fatalf("Invalid -through date %q: %v", through, err)
		}
	}

	eventPtrs, err := repos.GameEvent.GetThrough(ctx, cutoff)
	if err != nil {
		logger.Fatalf("Failed to load game events: %v", err)
	}
	events := make([]models.GameEvent, len(eventPtrs))
	for i, ev := range eventPtrs {
		events[i] = *ev
	}

	builder, err := features.NewBuilder(features.Config{
		Specs:   features.DefaultSpecs(),
		Starter: features.DetectStarterSignal(events, cfg.Features.StarterMinutesThreshold),
		Workers: cfg.Features.Workers,
	})
	if err != nil {
		logger.Fatalf("Failed to create feature builder: %v", err)
	}
	exporter := export.NewTrainingExporter(builder, logger)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Fatalf("Failed to create export directory %s: %v", dir, err)
	}

	writeExport(filepath.Join(dir, "player_features.csv"), logger, func(w io.Writer) (int, error) {
		return exporter.WritePlayerFeatures(ctx, w, events)
	})
	writeExport(filepath.Join(dir, "team_defense.csv"), logger, func(w io.Writer) (int, error) {
		return exporter.WriteTeamDefense(w, events)
	})
}

func writeExport(path string, logger *logrus.Logger, write func(io.Writer) (int, error)) {
	f, err := os.Create(path)
	if err != nil {
		logger.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	n, err := write(f)
	if err != nil {
		logger.Fatalf("Export to %s failed: %v", path, err)
	}
	logger.WithFields(logrus.Fields{"path": path, "rows": n}).Info("Training export written")
}

func ingestGames(ctx context.Context, svc *service.IngestionService, path string, logger *logrus.Logger) {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("Failed to open game log %s: %v", path, err)
	}
	defer f.Close()

	stats, err := svc.IngestGameLog(ctx, f)
	if err != nil {
		logger.Fatalf("Game log ingestion failed: %v", err)
	}
	logger.WithField("stats", stats.String()).Info("Game log ingested")
}

func ingestRoster(ctx context.Context, svc *service.IngestionService, path string, logger *logrus.Logger) {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("Failed to open roster %s: %v", path, err)
	}
	defer f.Close()

	count, err := svc.IngestRosterSnapshot(ctx, f)
	if err != nil {
		logger.Fatalf("Roster ingestion failed: %v", err)
	}
	logger.WithField("players", count).Info("Roster snapshot replaced")
}
