package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	userconfig "jobdeck/cmd/jobdeck/config"
	"jobdeck/cmd/jobdeck/tui"
	"jobdeck/internal/config"
	"jobdeck/internal/history"
	"jobdeck/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=v0.3.0".
var version = "dev"

var (
	// Global flags
	verbose    bool
	configPath string
	baseURL    string

	// Loaded by PersistentPreRunE for every command
	appCfg  *config.Config
	userCfg userconfig.Config

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jobdeck",
	Short: "jobdeck - terminal job search dashboard",
	Long: `jobdeck is a terminal dashboard for job hunting.

It keeps your search history in a local SQLite database, repeats
searches against the job platform, requests password resets for your
platform account, and turns recent activity into an AI digest.

Run without arguments to start the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine; exported variables still apply.
		_ = godotenv.Load()

		if configPath == "" {
			configPath = defaultConfigPath()
		}
		var err error
		appCfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if baseURL != "" {
			appCfg.Platform.BaseURL = baseURL
		}
		if err := appCfg.Validate(); err != nil {
			return err
		}

		// User preferences fall back to defaults when unreadable.
		userCfg, _ = userconfig.Load()

		// Category file logging stays silent unless debug_mode is set.
		if cwd, err := os.Getwd(); err == nil {
			_ = logging.Initialize(cwd)
		}

		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "jobdeck" && cmd.CalledAs() == "jobdeck" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive dashboard
		return tui.Run(appCfg, configPath, userCfg)
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jobdeck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jobdeck %s\n", version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: .jobdeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Job platform origin (or set JOBDECK_BASE_URL)")

	// Add commands to root
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetRequestCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// defaultConfigPath puts config.yaml next to the user-config JSON so
// both live in the same .jobdeck directory.
func defaultConfigPath() string {
	dir, err := userconfig.ConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

// openStore opens the history store configured for this run.
func openStore() (*history.Store, error) {
	store, err := history.NewStore(appCfg.History.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}
