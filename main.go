// Package main
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"scraper/packages/config"
	"scraper/packages/domain"
	"scraper/packages/fetch"
	"scraper/packages/metrics"
	"scraper/packages/scrape"
	"scraper/packages/sink"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

func setupLogger(cfg config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logDir := filepath.Dir(cfg.LogFile)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error(
			"Failed to create log directory", "path", logDir, "error", err,
		)
	}

	logRotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}

	multiWriter := io.MultiWriter(os.Stdout, logRotator)

	handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
		Level: level,
	}).WithAttrs([]slog.Attr{slog.String("service", "hoops-scraper")})

	slog.SetDefault(slog.New(handler))
}

type runParams struct {
	startYear  int
	endYear    int
	outputDir  string
	useBrowser bool
	pacing     time.Duration
	categories []domain.Category
}

func runScrape(ctx context.Context, cfg config.Config, p runParams) error {
	if p.startYear > p.endYear {
		return fmt.Errorf("--start-year (%d) must not be after --end-year (%d)", p.startYear, p.endYear)
	}

	var static fetch.Fetcher = fetch.NewStatic(cfg.FetchTimeout, cfg.RequestInterval, cfg.UserAgent)
	var rendered fetch.Fetcher = fetch.NewRendered(cfg.RenderWait, cfg.UserAgent)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		static = fetch.NewCached(static, rdb, cfg.PageCacheTTL)
		rendered = fetch.NewCached(rendered, rdb, cfg.PageCacheTTL)
	}

	sinks := sink.Multi{sink.NewCSV(p.outputDir)}
	if cfg.DatabaseURL != "" {
		pg, err := sink.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres sink: %w", err)
		}
		defer pg.Close()
		sinks = append(sinks, pg)
	}

	runner := scrape.NewRunner(static, rendered, scrape.JobConfig{
		MaxAttempts:   cfg.MaxAttempts,
		Backoff:       cfg.RetryBackoff,
		ForceRendered: p.useBrowser,
	})
	orch := scrape.New(runner, sinks, scrape.Config{
		Pacing:   p.pacing,
		Parallel: cfg.ParallelCategories,
	})

	slog.Info("Batch starting",
		"start_year", p.startYear, "end_year", p.endYear,
		"categories", p.categories, "output_dir", p.outputDir,
		"use_browser", p.useBrowser)

	summary := orch.Run(ctx, p.startYear, p.endYear, p.categories)
	reportSummary(summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", summary.Failed, len(summary.Outcomes))
	}
	return nil
}

// reportSummary prints the batch report to stdout regardless of log level or
// exit status, so a cron wrapper always sees which pairs need a re-run.
func reportSummary(s domain.Summary) {
	fmt.Printf("scrape summary: %d succeeded, %d failed, %d skipped\n", s.Succeeded, s.Failed, s.Skipped)
	for _, f := range s.Failures() {
		fmt.Printf("  FAILED season=%d category=%s kind=%s: %s\n", f.Season, f.Category, f.Kind, f.Message)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	var (
		startYear  int
		endYear    int
		outputDir  string
		useBrowser bool

		noTeamStats     bool
		noOpponentStats bool
		noRankings      bool
		waitTime        float64
	)

	root := &cobra.Command{
		Use:          "scraper",
		Short:        "ESPN NCAA men's basketball historical stats scraper",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cats []domain.Category
			if !noTeamStats {
				cats = append(cats, domain.TeamStats)
			}
			if !noOpponentStats {
				cats = append(cats, domain.OpponentStats)
			}
			if !noRankings {
				cats = append(cats, domain.Rankings)
			}
			if len(cats) == 0 {
				return errors.New("every category is disabled, nothing to scrape")
			}

			pacing := cfg.JobPacing
			if cmd.Flags().Changed("wait-time") {
				pacing = time.Duration(waitTime * float64(time.Second))
			}

			return runScrape(cmd.Context(), cfg, runParams{
				startYear:  startYear,
				endYear:    endYear,
				outputDir:  outputDir,
				useBrowser: useBrowser,
				pacing:     pacing,
				categories: cats,
			})
		},
	}

	thisYear := time.Now().Year()
	root.PersistentFlags().IntVar(&startYear, "start-year", thisYear-5, "First season to scrape (year the tournament concludes)")
	root.PersistentFlags().IntVar(&endYear, "end-year", thisYear, "Last season to scrape, inclusive")
	root.PersistentFlags().StringVar(&outputDir, "output-dir", "data", "Directory for per-season output files")
	root.PersistentFlags().BoolVar(&useBrowser, "use-browser", false, "Force browser rendering even for categories that default to a static fetch")

	root.Flags().BoolVar(&noTeamStats, "no-team-stats", false, "Skip team stats scraping")
	root.Flags().BoolVar(&noOpponentStats, "no-opponent-stats", false, "Skip opponent stats scraping")
	root.Flags().BoolVar(&noRankings, "no-rankings", false, "Skip rankings scraping")
	root.Flags().Float64Var(&waitTime, "wait-time", cfg.JobPacing.Seconds(), "Seconds to wait between jobs")

	single := func(use string, cat domain.Category) *cobra.Command {
		return &cobra.Command{
			Use:          use,
			Short:        fmt.Sprintf("Scrape only %s", strings.ReplaceAll(string(cat), "_", " ")),
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runScrape(cmd.Context(), cfg, runParams{
					startYear:  startYear,
					endYear:    endYear,
					outputDir:  outputDir,
					useBrowser: useBrowser,
					pacing:     cfg.JobPacing,
					categories: []domain.Category{cat},
				})
			},
		}
	}
	root.AddCommand(single("team-stats", domain.TeamStats))
	root.AddCommand(single("opponent-stats", domain.OpponentStats))
	root.AddCommand(single("rankings", domain.Rankings))

	return root
}

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go metrics.ExposeMetrics(cfg.MetricsAddr)
	}

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
