// Package cmd contains the CLI commands for modctl.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/storage"
	"github.com/good-yellow-bee/modites/internal/upstream"
	"github.com/good-yellow-bee/modites/pkg/config"
)

// Environment variables read when the matching flag is not set.
const (
	EnvRosterURL = "MODITES_ROSTER_URL"
	EnvDBPath    = "MODITES_DB_PATH"
)

const defaultDBPath = "./data/modites.db"

var (
	// Used for flags
	verbose       bool
	output        string
	envFile       string
	rosterURL     string
	rosterTimeout time.Duration
	dbPath        string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modctl",
	Short: "Modites - team roster from the command line",
	Long: `modctl lists the Modites roster with every member's local time and
day/night status, shows member details with their projects, and manages the
project store shared with modites-server.

Examples:
  # List the roster
  modctl list

  # Only members whose name contains "ann"
  modctl list --filter ann

  # Member detail with projects and map viewport
  modctl show U024BE7LH

  # Interactive roster
  modctl tui`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
		flags := cmd.Flags()
		if v := os.Getenv(EnvRosterURL); v != "" && !flags.Changed("roster-url") {
			rosterURL = v
		}
		if v := os.Getenv(EnvDBPath); v != "" && !flags.Changed("db") {
			dbPath = v
		}
		switch output {
		case "table", "json", "plain":
			return nil
		default:
			return fmt.Errorf("invalid output format %q (use: table, json, plain)", output)
		}
	},
	// Run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&output, "output", "o", "table", "output format (table, json, plain)")
	pf.StringVar(&envFile, "env-file", ".env", "load environment variables from this file if it exists")
	pf.StringVar(&rosterURL, "roster-url", upstream.DefaultRosterURL, "roster endpoint URL (env "+EnvRosterURL+")")
	pf.DurationVar(&rosterTimeout, "roster-timeout", 0, "roster request timeout, 0 for none")
	pf.StringVar(&dbPath, "db", defaultDBPath, "path to SQLite project database (env "+EnvDBPath+")")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// GetOutput returns the output format.
func GetOutput() string {
	return output
}

// PrintVerbose prints a message to stderr only if verbose mode is enabled.
func PrintVerbose(cmd *cobra.Command, format string, args ...any) {
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}

// newLogger builds the CLI logger. Without --verbose only warnings reach
// stderr.
func newLogger() (*zap.Logger, error) {
	return config.NewLogger(config.LogConfig{Level: "warn", Format: config.LogFormatConsole}, verbose)
}

func newRosterClient(logger *zap.Logger) (*upstream.Client, error) {
	return upstream.NewClient(upstream.Config{URL: rosterURL, Timeout: rosterTimeout}, logger)
}

// openProjectDB opens and migrates the project database.
func openProjectDB() (*storage.SQLiteStorage, error) {
	store := storage.NewSQLiteStorage(dbPath)
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("open database at %s: %w", dbPath, err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return store, nil
}
