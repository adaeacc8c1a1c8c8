package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/good-yellow-bee/modites/internal/api"
	"github.com/good-yellow-bee/modites/internal/data"
	"github.com/good-yellow-bee/modites/internal/metrics"
	"github.com/good-yellow-bee/modites/internal/projects"
	"github.com/good-yellow-bee/modites/internal/storage"
	"github.com/good-yellow-bee/modites/internal/upstream"
	"github.com/good-yellow-bee/modites/pkg/config"
)

var (
	configFile string
	envFile    string
	httpAddr   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "modites-server",
	Short: "Modites - team roster and directory",
	Long: `Modites serves the team roster: a searchable list of members with
their local time, and a detail view with projects and map location.`,
	SilenceUsage: true,
	RunE:         runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.VersionString("modites-server"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and per-request logs")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the configuration: file, then environment, then flags.
func loadConfig() (*Config, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	cfg.ApplyEnv()
	if httpAddr != "" {
		cfg.Server.HTTPAddress = httpAddr
	}
	cfg.Verbose = verbose

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Logging, cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	metrics.SetBuildInfo(config.Version, config.Commit, config.BuildTime)

	// Auto-create data directory
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	db := storage.NewSQLiteStorage(cfg.Database.Path)
	if err := db.Open(); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database initialized", zap.String("path", cfg.Database.Path))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	importer := projects.NewImporter(db.Projects(), logger.Named("projects"))
	if cfg.Projects.SeedFile != "" {
		if _, err := importer.ImportFile(ctx, cfg.Projects.SeedFile); err != nil {
			return fmt.Errorf("import %s: %w", cfg.Projects.SeedFile, err)
		}
	}

	timeout, _ := cfg.RosterTimeout()
	client, err := upstream.NewClient(upstream.Config{URL: cfg.Roster.URL, Timeout: timeout}, logger.Named("upstream"))
	if err != nil {
		return err
	}
	store := data.NewStore(client, db.Projects(), logger.Named("data"))
	store.Prime()

	srv, err := api.New(&api.Config{
		Address:            cfg.Server.HTTPAddress,
		WebUIEnabled:       *cfg.Server.WebUI,
		UseSecureCookies:   cfg.Server.SecureCookies,
		HTTPTLSEnabled:     cfg.Server.TLS.Enabled,
		HTTPTLSCertFile:    cfg.Server.TLS.CertFile,
		HTTPTLSKeyFile:     cfg.Server.TLS.KeyFile,
		SessionTTL:         cfg.SessionTTL(),
		RateLimitPerMinute: cfg.Server.RateLimit.PerMinute,
		RateLimitBurst:     cfg.Server.RateLimit.Burst,
		DefaultMapHeight:   cfg.Map.DefaultHeight,
		Verbose:            cfg.Verbose,
	}, store, db, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	logger.Info("starting modites-server",
		zap.String("version", config.Version),
		zap.String("roster_url", cfg.Roster.URL),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	})

	if cfg.Projects.Watch {
		watcher, err := projects.NewWatcher(cfg.Projects.SeedFile, cfg.ProjectsDebounce(),
			seedReloader(importer, store, cfg.Projects.SeedFile, logger), logger.Named("watcher"))
		if err != nil {
			return err
		}
		g.Go(func() error { return watcher.Run(ctx) })
	}

	if cfg.Metrics.Enabled {
		ms := metrics.NewServer(cfg.Metrics.Address, logger.Named("metrics"))
		g.Go(ms.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return ms.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// seedReloader re-imports the seed file and refreshes the in-memory project
// collection after each change.
func seedReloader(importer *projects.Importer, store *data.Store, path string, logger *zap.Logger) func(ctx context.Context) {
	return func(ctx context.Context) {
		if _, err := importer.ImportFile(ctx, path); err != nil {
			logger.Warn("seed import failed", zap.String("path", path), zap.Error(err))
			return
		}
		if err := store.ReloadProjects(ctx); err != nil {
			logger.Warn("seed imported but project reload failed",
				zap.String("path", path), zap.Error(err))
		}
	}
}
