package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cnsetzer/redback/internal/config"
)

var (
	logLevel   string
	archiveDir string
	logger     = newLogger(slog.LevelInfo)
)

var rootCmd = &cobra.Command{
	Use:   "transientsim",
	Short: "Simulate survey observations of optical transients",
	Long: `transientsim injects a population of transients on the sky, finds the
survey pointings that see each one and samples noisy photometry from them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := config.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger = newLogger(loadLogLevel(logger, level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&archiveDir, "archive-dir", config.DefaultArchiveDir, "Directory holding survey pointing archives")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(pointingsCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(surveysCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func loadLogLevel(logger *slog.Logger, level slog.Level) slog.Level {
	if v := os.Getenv("TRANSIENTSIM_LOG_LEVEL"); v != "" {
		l, err := config.ParseLevel(v)
		if err != nil {
			logger.Warn("invalid TRANSIENTSIM_LOG_LEVEL value, using default", "value", v, "default", level.String())
		} else {
			level = l
		}
	}
	return level
}

// loadSimulationEnv applies TRANSIENTSIM_* overrides on top of the file
// configuration.
func loadSimulationEnv(logger *slog.Logger, cfg config.SimulationConfig) config.SimulationConfig {
	if v := os.Getenv("TRANSIENTSIM_ARCHIVE_DIR"); v != "" {
		cfg.ArchiveDir = v
	}

	if v := os.Getenv("TRANSIENTSIM_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			logger.Warn("invalid TRANSIENTSIM_SEED value, using configured seed", "value", v, "default", cfg.Seed)
		} else {
			cfg.Seed = n
		}
	}

	if v := os.Getenv("TRANSIENTSIM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid TRANSIENTSIM_WORKERS value, using configured workers", "value", v, "default", cfg.Workers)
		} else {
			cfg.Workers = n
		}
	}

	logger.Info("simulation config",
		"model", cfg.Model,
		"survey", cfg.Survey,
		"archive_dir", cfg.ArchiveDir,
		"events", len(cfg.Parameters),
		"seed", cfg.Seed,
		"workers", cfg.Workers,
	)

	return cfg
}

// loadArchiveDir resolves the archive directory for commands without a
// config file: the environment wins over the flag default but not over an
// explicit flag.
func loadArchiveDir(cmd *cobra.Command) string {
	if cmd.Flags().Changed("archive-dir") {
		return archiveDir
	}
	if v := os.Getenv("TRANSIENTSIM_ARCHIVE_DIR"); v != "" {
		return v
	}
	return archiveDir
}
