package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/cnsetzer/redback/internal/config"
	"github.com/cnsetzer/redback/internal/model"
	"github.com/cnsetzer/redback/internal/observe"
	"github.com/cnsetzer/redback/internal/photometry"
	"github.com/cnsetzer/redback/internal/plot"
	"github.com/cnsetzer/redback/internal/posterior"
)

var plotFlags struct {
	posterior    string
	model        string
	class        string
	event        int
	name         string
	outDir       string
	multiband    bool
	randomModels int
	seed         uint64
}

var plotCmd = &cobra.Command{
	Use:   "plot <records.csv>",
	Short: "Plot an observation table, optionally with posterior light curves",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlot,
}

func init() {
	f := plotCmd.Flags()
	f.StringVar(&plotFlags.posterior, "posterior", "", "Posterior samples CSV; draws model light curves over the data")
	f.StringVar(&plotFlags.model, "model", "", "Model used to evaluate posterior samples")
	f.StringVar(&plotFlags.class, "class", "", "Transient class, sets the model time grid")
	f.IntVar(&plotFlags.event, "event", -1, "Plot a single event; -1 plots every record")
	f.StringVar(&plotFlags.name, "name", "transient", "File name prefix")
	f.StringVar(&plotFlags.outDir, "out-dir", ".", "Output directory")
	f.BoolVar(&plotFlags.multiband, "multiband", false, "Also draw one panel per band")
	f.IntVar(&plotFlags.randomModels, "random-models", 100, "Posterior draws to overplot")
	f.Uint64Var(&plotFlags.seed, "seed", 0, "Seed for posterior draws")
}

func runPlot(cmd *cobra.Command, args []string) error {
	recs, err := readRecordsFile(args[0])
	if err != nil {
		return err
	}
	if plotFlags.event >= 0 {
		recs = observe.Event(recs, plotFlags.event)
	}

	cfg := config.PlotConfig{
		Name:         plotFlags.name,
		OutDir:       plotFlags.outDir,
		RandomModels: plotFlags.randomModels,
	}.Config(plotFlags.model)

	var written []string
	if plotFlags.posterior == "" {
		path, err := plot.SaveData(recs, cfg)
		if err != nil {
			return err
		}
		written = append(written, path)
	} else {
		path, err := plotPosterior(recs, cfg)
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	if plotFlags.multiband {
		path, err := plot.SaveMultibandData(recs, cfg)
		if err != nil && !errors.Is(err, plot.ErrNoData) {
			return err
		}
		if err == nil {
			written = append(written, path)
		}
	}

	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func plotPosterior(recs []observe.Record, cfg plot.Config) (string, error) {
	if plotFlags.model == "" {
		return "", errors.New("--model is required with --posterior")
	}
	m, err := model.Lookup(plotFlags.model)
	if err != nil {
		return "", err
	}
	bands, err := photometry.Default()
	if err != nil {
		return "", err
	}

	f, err := os.Open(plotFlags.posterior)
	if err != nil {
		return "", err
	}
	post, err := posterior.ReadCSV(f)
	f.Close()
	if err != nil {
		return "", err
	}

	src := config.SimulationConfig{Class: plotFlags.class}.SourceOptions()
	rng := rand.New(rand.NewPCG(plotFlags.seed, plotFlags.seed))
	return plot.SaveLightCurve(recs, post, plot.ModelCurve(m, bands, src), cfg, rng)
}
