// Package main provides the entry point for the props slate service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/IsaJohn05/nba-player-props-model/internal/config"
	"github.com/IsaJohn05/nba-player-props-model/internal/database"
	"github.com/IsaJohn05/nba-player-props-model/internal/datasource"
	"github.com/IsaJohn05/nba-player-props-model/internal/health"
	"github.com/IsaJohn05/nba-player-props-model/internal/logger"
	"github.com/IsaJohn05/nba-player-props-model/internal/metrics"
	"github.com/IsaJohn05/nba-player-props-model/internal/ml"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
	"github.com/IsaJohn05/nba-player-props-model/internal/repository"
	"github.com/IsaJohn05/nba-player-props-model/internal/scheduler"
	"github.com/IsaJohn05/nba-player-props-model/internal/service"
	"github.com/IsaJohn05/nba-player-props-model/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	category   string
	asOfDate   string
	appLogger  *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	pipeline   *service.Pipeline
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	slateCmd.Flags().StringVar(&category, "category", "", "Run a single category (points, assists, rebounds); default runs all configured")
	slateCmd.Flags().StringVar(&asOfDate, "date", "", "Run as of date (YYYY-MM-DD); default now")
	rootCmd.AddCommand(slateCmd)
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "props",
	Short: "NBA player prop edge pipeline",
	Long:  `Fetches player prop lines, scores them against model projections, and selects the daily slate of highest-edge picks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var slateCmd = &cobra.Command{
	Use:   "slate",
	Short: "Run the slate pipeline once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSlates(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled daily slate service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	return config.ValidateEnvironment(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLogger = logger.NewLogger(cfg.App.LogLevel)

	if err := tracing.Initialize(tracing.Config{
		ServiceName:  cfg.App.Name,
		Enabled:      cfg.Tracing.Enabled,
		SamplingRate: cfg.Tracing.SamplingRate,
		DaemonAddr:   cfg.Tracing.DaemonAddr,
	}, appLogger); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.OddsAPI.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.OddsAPI.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         cfg.OddsAPI.RateLimit,
		CircuitBreakerMax: 5,
	}, nil)
	oddsClient := datasource.NewOddsAPIClient(httpClient, cfg.OddsAPI.BaseURL, cfg.OddsAPI.APIKey, cfg.OddsAPI.Sport, cfg.OddsAPI.Regions, true, nil)

	predictor := ml.NewCachedPredictor(
		ml.NewHTTPClient(&cfg.ModelService, appLogger),
		time.Duration(cfg.ModelService.CacheTTLSeconds)*time.Second,
	)

	pipeline, err = service.NewPipeline(cfg, oddsClient, repos, predictor, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	return nil
}

func configuredCategories() ([]models.StatCategory, error) {
	if category != "" {
		return []models.StatCategory{models.StatCategory(category)}, nil
	}
	categories := make([]models.StatCategory, 0, len(cfg.Pipeline.Categories))
	for _, c := range cfg.Pipeline.Categories {
		categories = append(categories, models.StatCategory(c))
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories configured")
	}
	return categories, nil
}

func runSlates(ctx context.Context) error {
	categories, err := configuredCategories()
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	asOf := time.Now().In(loc)
	if asOfDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", asOfDate, loc)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", asOfDate, err)
		}
		asOf = parsed
	}

	var failed bool
	for _, c := range categories {
		result, err := runTraced(ctx, c, asOf)
		switch {
		case errors.Is(err, models.ErrNoEligibleCandidates):
			appLogger.WithField("category", c).Warn("No eligible candidates; no slate produced")
		case err != nil:
			appLogger.WithError(err).WithField("category", c).Error("Slate run failed")
			failed = true
		default:
			for _, pick := range result.Picks {
				fmt.Printf("%-24s %-20s %8.2f%%\n", pick.Player, pick.Label(), pick.Rating)
			}
		}
	}
	if failed {
		return fmt.Errorf("one or more slate runs failed")
	}
	return nil
}

// runTraced wraps a slate run in an X-Ray segment when tracing is enabled.
func runTraced(ctx context.Context, c models.StatCategory, asOf time.Time) (*service.SlateResult, error) {
	if !cfg.Tracing.Enabled {
		return pipeline.RunSlate(ctx, c, asOf)
	}
	var result *service.SlateResult
	err := tracing.TraceSlateRun(ctx, string(c), func(ctx context.Context) error {
		var runErr error
		result, runErr = pipeline.RunSlate(ctx, c, asOf)
		return runErr
	})
	return result, err
}

func serve(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Logger:      appLogger,
	})
	healthServer.AddCheck("database", db)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLogger.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLogger.WithError(err).Error("Metrics server error")
			}
		}()
	}

	if !cfg.Schedule.Enabled {
		return fmt.Errorf("schedule.enabled must be true for serve mode")
	}
	categories, err := configuredCategories()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(pipeline, loc, appLogger)
	if err := sched.ScheduleDailySlates(cfg.Schedule.Cron, categories); err != nil {
		return fmt.Errorf("failed to schedule slate runs: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	healthServer.SetReady(true)

	appLogger.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Slate service running")

	<-sigChan
	appLogger.Info("Shutdown signal received")
	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLogger.WithError(err).Error("Scheduler stop failed")
	}
	return nil
}
