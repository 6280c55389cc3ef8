package config

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cnsetzer/redback/internal/pointing"
	"github.com/cnsetzer/redback/internal/simulate"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
simulation:
  model: kilonova_blackbody
  parameters:
    - {luminosity_distance: 40, velocity: 0.2, temperature_0: 6000, temperature_index: 0.5}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Fatalf("expected log level default info, got %s", cfg.LogLevel)
	}
	if cfg.Simulation.Survey != simulate.DefaultSurvey {
		t.Fatalf("expected default survey %s, got %s", simulate.DefaultSurvey, cfg.Simulation.Survey)
	}
	if cfg.Simulation.ArchiveDir != DefaultArchiveDir {
		t.Fatalf("expected default archive dir %s, got %s", DefaultArchiveDir, cfg.Simulation.ArchiveDir)
	}
	if cfg.Simulation.Workers != 1 {
		t.Fatalf("expected 1 worker by default, got %d", cfg.Simulation.Workers)
	}
	if cfg.Plot.Name != "kilonova_blackbody" {
		t.Fatalf("expected plot name to fall back to the model, got %s", cfg.Plot.Name)
	}
	if cfg.Plot.OutDir != "." {
		t.Fatalf("expected plot out dir ., got %s", cfg.Plot.OutDir)
	}
}

func TestLoadCadence(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
simulation:
  model: kilonova_blackbody
  class: kilonova
  seed: 42
  workers: 4
  parameters:
    - {luminosity_distance: 40, velocity: 0.2, temperature_0: 6000, temperature_index: 0.5, ra: 1.0, dec: -0.5, mjd: 60000}
  cadence:
    ra_deg: 57.3
    dec_deg: -28.6
    num_obs: {lsstg: 5, lsstr: 5}
    cadence: {lsstg: 1, lsstr: 2}
    scatter: {lsstg: 0, lsstr: 0}
    limiting_mag: {lsstg: 24.5, lsstr: 24.0}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Simulation.Survey != "" {
		t.Fatalf("cadence runs should not default a survey, got %s", cfg.Simulation.Survey)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.Level())
	}

	opts, err := cfg.Simulation.Options(testLogger)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Cadence == nil || opts.Cadence.NumObs["lsstr"] != 5 {
		t.Fatalf("cadence not carried into options: %+v", opts.Cadence)
	}
	if opts.Archives != nil {
		t.Error("cadence run without a survey should not open archives")
	}
	if opts.Seed != 42 || opts.Workers != 4 {
		t.Errorf("seed/workers = %d/%d, want 42/4", opts.Seed, opts.Workers)
	}
	if opts.Source.MaxTime != 10 {
		t.Errorf("kilonova class should give a 10 day grid, got %v", opts.Source.MaxTime)
	}
	if opts.Bands == nil {
		t.Error("expected the embedded bandpass table")
	}
	if len(opts.Parameters) != 1 || opts.Parameters[0]["mjd"] != 60000 {
		t.Errorf("parameters = %v", opts.Parameters)
	}
}

func TestOptionsPointingsFile(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "custom.csv.gz")
	table := &pointing.Table{Pointings: []pointing.Pointing{
		{MJD: 60000, RADeg: 10, DecDeg: -20, Filter: "lsstg", FiveSigmaDepth: 24},
		{MJD: 60001, RADeg: 10, DecDeg: -20, Filter: "lsstr", FiveSigmaDepth: 24},
	}}
	if err := pointing.WriteArchiveFile(archive, table); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	path := writeConfig(t, `
simulation:
  model: supernova_nickel
  pointings_file: `+archive+`
  parameters:
    - {luminosity_distance: 100, nickel_mass: 0.1, temperature: 8000}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	opts, err := cfg.Simulation.Options(testLogger)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Table.Len() != 2 {
		t.Fatalf("expected 2 pointings, got %d", opts.Table.Len())
	}
	if opts.Archives != nil || opts.Survey != "" {
		t.Error("a pointings file should not select a survey")
	}
}

func TestOptionsDates(t *testing.T) {
	path := writeConfig(t, `
simulation:
  model: kilonova_blackbody
  start_date: 2026-01-01T00:00:00Z
  end_date: 2026-03-01T12:00:00Z
  parameters:
    - {luminosity_distance: 40, velocity: 0.2, temperature_0: 6000, temperature_index: 0.5}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	opts, err := cfg.Simulation.Options(testLogger)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.StartMJD == nil || math.Abs(*opts.StartMJD-61041) > 1e-6 {
		t.Errorf("start_date gave StartMJD %v, want 61041", opts.StartMJD)
	}
	if opts.EndMJD == nil || math.Abs(*opts.EndMJD-61100.5) > 1e-6 {
		t.Errorf("end_date gave EndMJD %v, want 61100.5", opts.EndMJD)
	}
}

func TestBandpassesFile(t *testing.T) {
	dir := t.TempDir()
	bands := filepath.Join(dir, "bands.yaml")
	data := "- {name: box, wave_min: 4000, wave_max: 5000, ramp: 100, peak: 1}\n"
	if err := os.WriteFile(bands, []byte(data), 0o600); err != nil {
		t.Fatalf("write bands: %v", err)
	}

	reg, err := SimulationConfig{BandpassesFile: bands}.Bands()
	if err != nil {
		t.Fatalf("bands: %v", err)
	}
	if _, err := reg.Lookup("box"); err != nil {
		t.Errorf("lookup box: %v", err)
	}
	if _, err := reg.Lookup("lsstg"); err == nil {
		t.Error("custom table should replace the embedded one")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "missing model",
			data: "simulation:\n  parameters: [{luminosity_distance: 40}]\n",
			want: "simulation.model is required",
		},
		{
			name: "unknown model",
			data: "simulation:\n  model: nope\n  parameters: [{luminosity_distance: 40}]\n",
			want: "unknown model",
		},
		{
			name: "no parameters",
			data: "simulation:\n  model: kilonova_blackbody\n",
			want: "simulation.parameters",
		},
		{
			name: "bad log level",
			data: "log_level: loud\nsimulation:\n  model: kilonova_blackbody\n  parameters: [{luminosity_distance: 40}]\n",
			want: "log_level",
		},
		{
			name: "unknown survey",
			data: "simulation:\n  model: kilonova_blackbody\n  survey: Foo\n  parameters: [{luminosity_distance: 40}]\n",
			want: "unknown survey",
		},
		{
			name: "survey and file",
			data: "simulation:\n  model: kilonova_blackbody\n  survey: ZTF_wfd\n  pointings_file: x.csv.gz\n  parameters: [{luminosity_distance: 40}]\n",
			want: "mutually exclusive",
		},
		{
			name: "negative buffer",
			data: "simulation:\n  model: kilonova_blackbody\n  buffer_days: -1\n  parameters: [{luminosity_distance: 40}]\n",
			want: "buffer_days",
		},
		{
			name: "bad class",
			data: "simulation:\n  model: kilonova_blackbody\n  class: nova\n  parameters: [{luminosity_distance: 40}]\n",
			want: "simulation.class",
		},
		{
			name: "mismatched cadence",
			data: "simulation:\n  model: kilonova_blackbody\n  parameters: [{luminosity_distance: 40}]\n  cadence:\n    num_obs: {lsstg: 1}\n    cadence: {lsstr: 1}\n    scatter: {lsstg: 0}\n    limiting_mag: {lsstg: 24}\n",
			want: "simulation.cadence",
		},
		{
			name: "bad start date",
			data: "simulation:\n  model: kilonova_blackbody\n  start_date: yesterday\n  parameters: [{luminosity_distance: 40}]\n",
			want: "simulation.start_date",
		},
		{
			name: "end date and end mjd",
			data: "simulation:\n  model: kilonova_blackbody\n  end_date: 2026-01-01T00:00:00Z\n  end_mjd: 61041\n  parameters: [{luminosity_distance: 40}]\n",
			want: "mutually exclusive",
		},
		{
			name: "negative workers",
			data: "simulation:\n  model: kilonova_blackbody\n  workers: -2\n  parameters: [{luminosity_distance: 40}]\n",
			want: "simulation.workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
