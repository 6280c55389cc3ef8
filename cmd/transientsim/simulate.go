package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cnsetzer/redback/internal/config"
	"github.com/cnsetzer/redback/internal/metrics"
	"github.com/cnsetzer/redback/internal/observe"
	"github.com/cnsetzer/redback/internal/plot"
	"github.com/cnsetzer/redback/internal/simulate"
	"github.com/cnsetzer/redback/internal/store"
)

var configPath string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulation described by a YAML config",
	Args:  cobra.NoArgs,
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the simulation config (required)")
	_ = simulateCmd.MarkFlagRequired("config")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("log-level") {
		logger = newLogger(loadLogLevel(logger, cfg.Level()))
	}

	sim := loadSimulationEnv(logger, cfg.Simulation)
	opts, err := sim.Options(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := simulate.New(opts)
	if err != nil {
		return err
	}
	res, err := s.Run(ctx)
	if err != nil {
		return err
	}

	if err := writeOutputs(ctx, cfg, res); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d events, %d observations\n",
		res.RunID, len(res.Parameters), len(res.Records))
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeOutputs(ctx context.Context, cfg *config.Config, res *simulate.Result) error {
	out := cfg.Output

	if out.CSV != "" {
		if err := writeRecordsFile(out.CSV, res.Records); err != nil {
			return err
		}
		logger.Info("wrote observation table", "path", out.CSV, "records", len(res.Records))
	}

	if out.SQLite != "" {
		db, err := store.Open(out.SQLite)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := store.SaveRun(ctx, db, res); err != nil {
			return err
		}
		logger.Info("stored run", "path", out.SQLite, "run_id", res.RunID.String())
	}

	if out.MetricsFile != "" {
		if err := metrics.WriteTextfile(out.MetricsFile); err != nil {
			return err
		}
	}

	if cfg.Plot.Enabled {
		pcfg := cfg.Plot.Config(res.Model)
		path, err := plot.SaveData(res.Records, pcfg)
		if errors.Is(err, plot.ErrNoData) {
			logger.Warn("no detections to plot", "model", res.Model)
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("wrote data plot", "path", path)

		if cfg.Plot.Multiband {
			path, err := plot.SaveMultibandData(res.Records, pcfg)
			if err != nil {
				return err
			}
			logger.Info("wrote multiband plot", "path", path)
		}
	}
	return nil
}

func writeRecordsFile(path string, recs []observe.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := observe.WriteCSV(f, recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readRecordsFile(path string) ([]observe.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return observe.ReadCSV(f)
}
