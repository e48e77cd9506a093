package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradejournal/internal/analytics"
	"tradejournal/internal/config"
	"tradejournal/internal/logging"
	"tradejournal/internal/metrics"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
	"tradejournal/internal/workpool"
	"tradejournal/pkg/utils"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies. Store, Pool and Engine are
// created on first use so that commands like version never touch the database.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Pool    *workpool.WorkerPool
	Engine  *analytics.Engine
	Metrics *metrics.Registry

	configDir string
	now       func() time.Time
}

// Execute builds the command tree and runs it, releasing the store and
// worker pool afterwards.
func Execute(ctx context.Context, logger zerolog.Logger) error {
	app := &App{Logger: logger}
	defer app.Close()
	return NewRootCmd(app).ExecuteContext(ctx)
}

// NewRootCmd creates the root command for the CLI. A nil app.Config is
// loaded from the --config directory before any subcommand runs.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tradejournal",
		Short: "Trading journal performance analytics",
		Long: `tradejournal records closed trades, daily journal answers and goals,
and turns them into a performance report: equity and drawdown, daily
velocity and edge, bootstrap projections, journal correlations and goal
status.

Use 'tradejournal serve' to expose the same report over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				dir, _ := cmd.Flags().GetString("config")
				cfg, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = cfg
				app.configDir = dir
				app.Logger = logging.NewLoggerWithConfig(cfg.Logging)
			}

			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradejournal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addReportCommands(rootCmd, app)
	addGoalCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addJournalCommands(rootCmd, app)
	addStatsCommands(rootCmd, app)
	addServeCommand(rootCmd, app)

	return rootCmd
}

// dataStore opens the SQLite store on first use, retrying while another
// process holds the write lock.
func (a *App) dataStore(ctx context.Context) (store.DataStore, error) {
	if a.Store != nil {
		return a.Store, nil
	}

	path := a.Config.Store.Path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	s, err := utils.RetryWithResult(ctx, busyRetry(), func() (*store.SQLiteStore, error) {
		return store.NewSQLiteStore(path)
	})
	if err != nil {
		return nil, err
	}

	a.Logger.Debug().Str("path", path).Msg("SQLite store initialized")
	a.Store = s
	return s, nil
}

// busyRetry retries operations that lost a SQLite lock to another process.
func busyRetry() utils.RetryConfig {
	retry := utils.DefaultRetryConfig()
	retry.Retryable = store.IsBusy
	return retry
}

// recompute rebuilds a user's aggregates, retrying on lock contention.
func (a *App) recompute(ctx context.Context, s store.DataStore, userID string) error {
	return utils.Retry(ctx, busyRetry(), func() error {
		_, err := s.RecomputeAggregates(ctx, userID)
		return err
	})
}

// engine builds the analytics engine and its worker pool on first use.
func (a *App) engine(ctx context.Context) (*analytics.Engine, error) {
	if a.Engine != nil {
		return a.Engine, nil
	}
	s, err := a.dataStore(ctx)
	if err != nil {
		return nil, err
	}

	workers := a.Config.Analytics.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	a.Pool = workpool.NewWorkerPool(workers)
	a.Pool.Start()

	a.Engine = analytics.NewEngine(s, engineOptions(a.Config, a.Logger), a.Pool, a.Logger)
	if a.Metrics != nil {
		a.Engine.WithObserver(a.Metrics)
	}
	if a.now != nil {
		a.Engine.WithClock(a.now)
	}
	return a.Engine, nil
}

// Close stops the worker pool and closes the store.
func (a *App) Close() error {
	if a.Pool != nil {
		a.Pool.Stop()
		a.Pool = nil
	}
	a.Engine = nil
	if a.Store != nil {
		err := a.Store.Close()
		a.Store = nil
		return err
	}
	return nil
}

func (a *App) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// engineOptions maps configuration onto analytics options. Goal thresholds
// for unknown goal types are ignored.
func engineOptions(cfg *config.Config, logger zerolog.Logger) analytics.Options {
	opts := analytics.DefaultOptions()
	opts.Simulations = cfg.Analytics.Simulations
	opts.Horizons = append([]int(nil), cfg.Analytics.Horizons...)
	opts.BandHorizon = cfg.Analytics.BandHorizon
	opts.ParallelChunks = cfg.Analytics.ParallelChunks

	for name, th := range cfg.Goals {
		t := models.GoalType(name)
		if !t.Valid() {
			logger.Warn().Str("goal_type", name).Msg("Ignoring thresholds for unknown goal type")
			continue
		}
		opts.Goals[t] = analytics.GoalThreshold{
			OnTrackRatio: th.OnTrackRatio,
			BrokenRatio:  th.BrokenRatio,
		}
	}
	return opts
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("tradejournal v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			dir := app.configDir
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsJSON() {
				output.JSON(map[string]string{"path": dir})
			} else {
				output.Println(dir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Analytics")
	output.Printf("  Simulations:     %d\n", cfg.Analytics.Simulations)
	output.Printf("  Horizons:        %v\n", cfg.Analytics.Horizons)
	output.Printf("  Band Horizon:    %d\n", cfg.Analytics.BandHorizon)
	output.Printf("  Chunks:          %d\n", cfg.Analytics.ParallelChunks)
	output.Printf("  Workers:         %d\n", cfg.Analytics.Workers)
	output.Println()

	output.Bold("Goal Thresholds")
	names := make([]string, 0, len(cfg.Goals))
	for name := range cfg.Goals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		th := cfg.Goals[name]
		output.Printf("  %-18s on_track %.2f  broken %.2f\n", name, th.OnTrackRatio, th.BrokenRatio)
	}
	output.Println()

	output.Bold("Store")
	output.Printf("  Path:            %s\n", cfg.Store.Path)
	output.Println()

	output.Bold("Server")
	output.Printf("  Listen:          %s\n", cfg.Server.ListenAddr)
	output.Printf("  Read Timeout:    %s\n", cfg.Server.ReadTimeout)
	output.Printf("  Write Timeout:   %s\n", cfg.Server.WriteTimeout)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v (%s)\n", cfg.Logging.File, cfg.Logging.FilePath)
}

// requireUser reads the mandatory --user flag.
func requireUser(cmd *cobra.Command) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		return "", fmt.Errorf("--user is required")
	}
	return user, nil
}

// commandContext bounds a command's storage work.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, 2*time.Minute)
}
