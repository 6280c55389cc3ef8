// Package config loads the YAML run configuration for the transientsim CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cnsetzer/redback/internal/astro"
	"github.com/cnsetzer/redback/internal/model"
	"github.com/cnsetzer/redback/internal/photometry"
	"github.com/cnsetzer/redback/internal/plot"
	"github.com/cnsetzer/redback/internal/pointing"
	"github.com/cnsetzer/redback/internal/simulate"
	"gopkg.in/yaml.v3"
)

// DefaultArchiveDir holds the published survey archives.
const DefaultArchiveDir = "data/surveys"

type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Simulation SimulationConfig `yaml:"simulation"`
	Output     OutputConfig     `yaml:"output"`
	Plot       PlotConfig       `yaml:"plot"`
}

type SimulationConfig struct {
	Model      string               `yaml:"model"`
	Class      string               `yaml:"class"` // default grid span when MaxTime is zero
	MaxTime    float64              `yaml:"max_time"`
	NumTimes   int                  `yaml:"num_times"`
	Parameters []map[string]float64 `yaml:"parameters"`

	Survey         string                `yaml:"survey"`
	PointingsFile  string                `yaml:"pointings_file"`
	ArchiveDir     string                `yaml:"archive_dir"`
	Cadence        *pointing.CadenceSpec `yaml:"cadence"`
	BandpassesFile string                `yaml:"bandpasses_file"`

	// Radians.
	MinDec *float64 `yaml:"min_dec"`
	MaxDec *float64 `yaml:"max_dec"`

	StartMJD   *float64 `yaml:"start_mjd"`
	EndMJD     *float64 `yaml:"end_mjd"`
	BufferDays *float64 `yaml:"buffer_days"`
	FOVArea    float64  `yaml:"fov_area"`

	// RFC3339 alternatives to StartMJD and EndMJD.
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`

	RestrictToSource bool   `yaml:"restrict_to_source"`
	Seed             uint64 `yaml:"seed"`
	Workers          int    `yaml:"workers"`
}

type OutputConfig struct {
	CSV         string `yaml:"csv"`
	SQLite      string `yaml:"sqlite"`
	MetricsFile string `yaml:"metrics_file"`
}

type PlotConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Multiband    bool   `yaml:"multiband"`
	Name         string `yaml:"name"`
	OutDir       string `yaml:"out_dir"`
	DPI          int    `yaml:"dpi"`
	RandomModels int    `yaml:"random_models"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Simulation.ArchiveDir == "" {
		c.Simulation.ArchiveDir = DefaultArchiveDir
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = simulate.DefaultWorkers
	}
	if c.Simulation.Survey == "" && c.Simulation.PointingsFile == "" && c.Simulation.Cadence == nil {
		c.Simulation.Survey = simulate.DefaultSurvey
	}
	if c.Plot.Name == "" {
		c.Plot.Name = c.Simulation.Model
	}
	if c.Plot.OutDir == "" {
		c.Plot.OutDir = "."
	}
}

func (c *Config) validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	sim := c.Simulation
	if sim.Model == "" {
		return errors.New("simulation.model is required")
	}
	if _, err := model.Lookup(sim.Model); err != nil {
		return fmt.Errorf("simulation.model: %w", err)
	}
	if _, err := model.ParseClass(sim.Class); err != nil {
		return fmt.Errorf("simulation.class: %w", err)
	}
	if len(sim.Parameters) == 0 {
		return errors.New("simulation.parameters must list at least one parameter set")
	}
	if sim.MaxTime < 0 {
		return errors.New("simulation.max_time must not be negative")
	}
	if sim.NumTimes < 0 {
		return errors.New("simulation.num_times must not be negative")
	}
	if sim.Workers < 1 {
		return errors.New("simulation.workers must be at least 1")
	}
	if sim.Survey != "" && sim.PointingsFile != "" {
		return errors.New("simulation.survey and simulation.pointings_file are mutually exclusive")
	}
	if sim.Survey != "" {
		if _, err := pointing.LookupSurvey(sim.Survey); err != nil {
			return fmt.Errorf("simulation.survey: %w", err)
		}
	}
	if sim.Cadence != nil {
		if err := sim.Cadence.Validate(); err != nil {
			return fmt.Errorf("simulation.cadence: %w", err)
		}
	}
	if sim.StartDate != "" && sim.StartMJD != nil {
		return errors.New("simulation.start_date and simulation.start_mjd are mutually exclusive")
	}
	if sim.EndDate != "" && sim.EndMJD != nil {
		return errors.New("simulation.end_date and simulation.end_mjd are mutually exclusive")
	}
	if _, err := dateMJD(sim.StartDate); err != nil {
		return fmt.Errorf("simulation.start_date: %w", err)
	}
	if _, err := dateMJD(sim.EndDate); err != nil {
		return fmt.Errorf("simulation.end_date: %w", err)
	}
	if sim.BufferDays != nil && *sim.BufferDays < 0 {
		return errors.New("simulation.buffer_days must not be negative")
	}
	if sim.FOVArea < 0 {
		return errors.New("simulation.fov_area must not be negative")
	}
	if c.Plot.DPI < 0 || c.Plot.RandomModels < 0 {
		return errors.New("plot.dpi and plot.random_models must not be negative")
	}
	return nil
}

// ParseLevel maps a level name such as "debug" or "WARN" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return l, nil
}

// Level returns the configured log level; validate has already checked it.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// SourceOptions returns the grid options for the configured model.
func (s SimulationConfig) SourceOptions() model.SourceOptions {
	opts := model.SourceOptions{MaxTime: s.MaxTime, NumTimes: s.NumTimes}
	if opts.MaxTime == 0 && s.Class != "" {
		if class, err := model.ParseClass(s.Class); err == nil {
			opts.MaxTime = class.DefaultMaxTime()
		}
	}
	return opts
}

// Bands loads the bandpass table named by BandpassesFile, or the embedded
// one when it is empty.
func (s SimulationConfig) Bands() (*photometry.Registry, error) {
	if s.BandpassesFile == "" {
		return photometry.Default()
	}
	raw, err := os.ReadFile(s.BandpassesFile)
	if err != nil {
		return nil, fmt.Errorf("read bandpasses: %w", err)
	}
	defs, err := photometry.ParseDefinitions(raw)
	if err != nil {
		return nil, err
	}
	return photometry.NewRegistry(defs)
}

// Options builds the simulate options for this configuration. A pointings
// file is read here; survey archives are loaded lazily by the simulator.
func (s SimulationConfig) Options(logger *slog.Logger) (simulate.Options, error) {
	bands, err := s.Bands()
	if err != nil {
		return simulate.Options{}, err
	}

	params := make([]model.Params, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = model.Params(p).Clone()
	}

	opts := simulate.Options{
		Model:            model.Spec{Name: s.Model},
		Parameters:       params,
		Survey:           s.Survey,
		Cadence:          s.Cadence,
		MinDec:           s.MinDec,
		MaxDec:           s.MaxDec,
		StartMJD:         s.StartMJD,
		EndMJD:           s.EndMJD,
		BufferDays:       s.BufferDays,
		FOVArea:          s.FOVArea,
		Source:           s.SourceOptions(),
		RestrictToSource: s.RestrictToSource,
		Seed:             s.Seed,
		Workers:          s.Workers,
		Bands:            bands,
		Logger:           logger,
	}

	if opts.StartMJD == nil {
		if opts.StartMJD, err = dateMJD(s.StartDate); err != nil {
			return simulate.Options{}, err
		}
	}
	if opts.EndMJD == nil {
		if opts.EndMJD, err = dateMJD(s.EndDate); err != nil {
			return simulate.Options{}, err
		}
	}

	if s.PointingsFile != "" {
		table, err := pointing.ReadArchiveFile(s.PointingsFile)
		if err != nil {
			return simulate.Options{}, err
		}
		opts.Table = table
	} else if s.Survey != "" {
		opts.Archives = pointing.NewArchives(s.ArchiveDir, logger)
	}
	return opts, nil
}

// dateMJD converts an RFC3339 timestamp to an MJD; empty gives nil.
func dateMJD(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return simulate.Float(astro.MJD(t)), nil
}

// Config returns the plot settings for the given output directory layout.
func (p PlotConfig) Config(modelName string) plot.Config {
	return plot.Config{
		Name:         p.Name,
		OutDir:       p.OutDir,
		ModelName:    modelName,
		DPI:          p.DPI,
		RandomModels: p.RandomModels,
	}
}
