package plot

import (
	"bytes"
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/cnsetzer/redback/internal/model"
	"github.com/cnsetzer/redback/internal/observe"
	"github.com/cnsetzer/redback/internal/photometry"
	"github.com/cnsetzer/redback/internal/posterior"
)

func sampleRecords() []observe.Record {
	return []observe.Record{
		{Band: "lsstg", Phase: 1, Magnitude: 21, MagnitudeError: 0.1},
		{Band: "lsstg", Phase: 4, Magnitude: 22, MagnitudeError: 0.2},
		{Band: "lsstr", Phase: 2, Magnitude: 20.5, MagnitudeError: 0.1},
		{Band: "lsstr", Phase: 8, Magnitude: math.NaN(), MagnitudeError: 0.5},
	}
}

func TestDataPlot(t *testing.T) {
	p, err := DataPlot(sampleRecords(), Config{Name: "kn"})
	if err != nil {
		t.Fatalf("DataPlot: %v", err)
	}
	// Phases run 1..4 once the NaN magnitude is dropped.
	if p.X.Min != 0.5 || p.X.Max != 8 {
		t.Errorf("x range = [%g, %g], want [0.5, 8]", p.X.Min, p.X.Max)
	}
	if p.Title.Text != "kn" {
		t.Errorf("title = %q", p.Title.Text)
	}
}

func TestDataPlotLimits(t *testing.T) {
	lo, hi, ylo := 0.1, 10.0, 25.0
	p, err := DataPlot(sampleRecords(), Config{XLimLow: &lo, XLimHigh: &hi, YLimLow: &ylo})
	if err != nil {
		t.Fatal(err)
	}
	if p.X.Min != lo || p.X.Max != hi || p.Y.Min != ylo {
		t.Errorf("limits = x[%g, %g] y.min %g", p.X.Min, p.X.Max, p.Y.Min)
	}

	// Negative phases fall back to padding the data range.
	recs := []observe.Record{
		{Band: "g", Phase: -2, Magnitude: 20, MagnitudeError: 0.1},
		{Band: "g", Phase: 8, Magnitude: 21, MagnitudeError: 0.1},
	}
	p, err = DataPlot(recs, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if p.X.Min != -3 || p.X.Max != 9 {
		t.Errorf("padded x range = [%g, %g], want [-3, 9]", p.X.Min, p.X.Max)
	}
}

func TestDataPlotNoData(t *testing.T) {
	recs := []observe.Record{{Band: "g", Magnitude: math.NaN()}}
	if _, err := DataPlot(recs, Config{}); !errors.Is(err, ErrNoData) {
		t.Errorf("DataPlot error = %v, want ErrNoData", err)
	}
}

func TestLightCurvePlotDrawsEveryModel(t *testing.T) {
	post, err := posterior.New([]posterior.Sample{
		{Params: model.Params{"m": 21}, LogLikelihood: -1},
		{Params: model.Params{"m": 22}, LogLikelihood: -5},
	})
	if err != nil {
		t.Fatal(err)
	}

	var calls int
	var best bool
	curve := func(p model.Params, bands []string, phases []float64) (map[string][]float64, error) {
		calls++
		if p["m"] == 21 && calls == 4 {
			best = true
		}
		out := map[string][]float64{}
		for _, b := range bands {
			mags := make([]float64, len(phases))
			for i := range mags {
				mags[i] = p["m"]
			}
			out[b] = mags
		}
		return out, nil
	}

	_, err = LightCurvePlot(sampleRecords(), post, curve, Config{RandomModels: 3}, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("LightCurvePlot: %v", err)
	}
	if calls != 4 {
		t.Errorf("curve evaluated %d times, want 3 random + 1 best", calls)
	}
	if !best {
		t.Error("maximum-likelihood curve was not drawn last")
	}
}

func TestModelCurve(t *testing.T) {
	bands, err := photometry.Default()
	if err != nil {
		t.Fatal(err)
	}
	// 3631 Jy flat f_nu is magnitude zero in every band, up to the linear
	// interpolation of F_lambda on the default wavelength grid.
	flat := model.Model{Name: "flat", Eval: func(phase float64, wave []float64, p model.Params) ([]float64, error) {
		out := make([]float64, len(wave))
		for i := range out {
			out[i] = photometry.ABZeroPointJy * 1e3
		}
		return out, nil
	}}
	curve := ModelCurve(flat, bands, model.SourceOptions{Times: []float64{0, 10}})

	mags, err := curve(model.Params{}, []string{"lsstg", "ztfr"}, []float64{1, 5, 9})
	if err != nil {
		t.Fatalf("curve: %v", err)
	}
	for band, ms := range mags {
		for i, m := range ms {
			if math.Abs(m) > 0.01 {
				t.Errorf("%s[%d] = %g, want 0", band, i, m)
			}
		}
	}

	if _, err := curve(model.Params{}, []string{"nope"}, []float64{1}); !errors.Is(err, photometry.ErrUnknownBandpass) {
		t.Errorf("unknown band error = %v", err)
	}
}

func TestSaveWritesPNG(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Name: "kn", OutDir: dir, DPI: 30}

	paths := map[string]func() (string, error){
		"data":      func() (string, error) { return SaveData(sampleRecords(), cfg) },
		"multiband": func() (string, error) { return SaveMultibandData(sampleRecords(), cfg) },
	}
	for name, save := range paths {
		t.Run(name, func(t *testing.T) {
			path, err := save()
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if filepath.Dir(path) != dir {
				t.Errorf("saved to %s, want under %s", path, dir)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte("\x89PNG")) {
				t.Error("output is not a PNG")
			}
		})
	}
}
