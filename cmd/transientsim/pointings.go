package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cnsetzer/redback/internal/pointing"
)

var (
	cadenceOut  string
	cadenceSeed uint64
)

var pointingsCmd = &cobra.Command{
	Use:   "pointings <cadence.yaml>",
	Short: "Build a pointing archive from a cadence description",
	Args:  cobra.ExactArgs(1),
	RunE:  runPointings,
}

var surveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "List the known survey archives",
	Args:  cobra.NoArgs,
	RunE:  runSurveys,
}

func init() {
	pointingsCmd.Flags().StringVarP(&cadenceOut, "out", "o", "pointings.csv.gz", "Output archive path")
	pointingsCmd.Flags().Uint64Var(&cadenceSeed, "seed", 0, "Seed for the interval scatter")
}

func runPointings(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read cadence: %w", err)
	}
	var spec pointing.CadenceSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("parse cadence: %w", err)
	}

	table, err := pointing.FromCadence(spec, rand.New(rand.NewPCG(cadenceSeed, cadenceSeed)))
	if err != nil {
		return err
	}
	if err := pointing.WriteArchiveFile(cadenceOut, table); err != nil {
		return err
	}

	start, end := table.Span()
	logger.Info("wrote cadence archive",
		"path", cadenceOut,
		"pointings", table.Len(),
		"start_mjd", start,
		"end_mjd", end,
	)
	return nil
}

func runSurveys(cmd *cobra.Command, args []string) error {
	archives := pointing.NewArchives(loadArchiveDir(cmd), logger)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFOV_DEG2\tFILE\tPRESENT")
	for _, s := range pointing.Surveys() {
		_, err := os.Stat(archives.Path(s))
		fmt.Fprintf(w, "%s\t%g\t%s\t%t\n", s.Name, s.FOVArea, s.File, err == nil)
	}
	return w.Flush()
}
