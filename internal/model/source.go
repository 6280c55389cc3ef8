package model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/cnsetzer/redback/internal/photometry"
)

// Default grid settings.
const (
	DefaultNumTimes = 200
	DefaultMinPhase = 1e-3 // days; avoids the t=0 singularity of power laws
	DefaultWaveMin  = 100.0
	DefaultWaveMax  = 20000.0
	DefaultNumWaves = 100
)

// SourceOptions controls the grid a model is sampled on. Zero values select
// the defaults documented on each field.
type SourceOptions struct {
	// Times is an explicit ascending phase grid in days. When empty,
	// NumTimes points from DefaultMinPhase to MaxTime are used.
	Times []float64
	// MaxTime is the grid end in days; 0 selects the model class default.
	MaxTime float64
	// NumTimes is the grid size when Times is empty; 0 selects 200.
	NumTimes int
	// Wavelengths is an explicit ascending observer-frame grid in Angstrom.
	// When empty, 100 geometric steps from 100 A to 20000 A are used.
	Wavelengths []float64
}

// Source is a model sampled on a phase x wavelength grid, stored as F_lambda
// (erg/s/cm^2/A). It is immutable after construction.
type Source struct {
	name   string
	phases []float64
	waves  []float64
	rows   []interp.PiecewiseLinear
}

// NewSource evaluates m with parameters p over the grid described by opts
// and converts the result from mJy to F_lambda.
func NewSource(m Model, p Params, opts SourceOptions) (*Source, error) {
	if m.Eval == nil {
		return nil, ErrInvalidModel
	}
	if err := p.Require(m.Required...); err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}

	phases, err := phaseGrid(m.Class, opts)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	waves, err := waveGrid(opts)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}

	s := &Source{
		name:   m.Name,
		phases: phases,
		waves:  waves,
		rows:   make([]interp.PiecewiseLinear, len(phases)),
	}
	for i, t := range phases {
		mjy, err := m.Eval(t, waves, p)
		if err != nil {
			return nil, fmt.Errorf("evaluating model %s at phase %g: %w", m.Name, t, err)
		}
		if len(mjy) != len(waves) {
			return nil, fmt.Errorf("model %s returned %d values for %d wavelengths", m.Name, len(mjy), len(waves))
		}
		row := make([]float64, len(waves))
		for j, v := range mjy {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("model %s: non-finite flux density at phase %g, wavelength %g", m.Name, t, waves[j])
			}
			row[j] = photometry.MJyToFLambda(v, waves[j])
		}
		if err := s.rows[i].Fit(waves, row); err != nil {
			return nil, fmt.Errorf("model %s: interpolating phase %g: %w", m.Name, t, err)
		}
	}
	return s, nil
}

func phaseGrid(class Class, opts SourceOptions) ([]float64, error) {
	if len(opts.Times) > 0 {
		if err := checkAscending("time grid", opts.Times); err != nil {
			return nil, err
		}
		return append([]float64(nil), opts.Times...), nil
	}
	maxTime := opts.MaxTime
	if maxTime == 0 {
		maxTime = class.DefaultMaxTime()
	}
	if maxTime <= DefaultMinPhase {
		return nil, fmt.Errorf("max time %g days must exceed %g", maxTime, DefaultMinPhase)
	}
	n := opts.NumTimes
	if n == 0 {
		n = DefaultNumTimes
	}
	if n < 2 {
		return nil, fmt.Errorf("time grid needs at least 2 points, got %d", n)
	}
	return floats.Span(make([]float64, n), DefaultMinPhase, maxTime), nil
}

func waveGrid(opts SourceOptions) ([]float64, error) {
	if len(opts.Wavelengths) > 0 {
		if err := checkAscending("wavelength grid", opts.Wavelengths); err != nil {
			return nil, err
		}
		if opts.Wavelengths[0] <= 0 {
			return nil, fmt.Errorf("wavelength grid must be positive, got %g", opts.Wavelengths[0])
		}
		return append([]float64(nil), opts.Wavelengths...), nil
	}
	return floats.LogSpan(make([]float64, DefaultNumWaves), DefaultWaveMin, DefaultWaveMax), nil
}

func checkAscending(what string, xs []float64) error {
	if len(xs) < 2 {
		return fmt.Errorf("%s needs at least 2 points, got %d", what, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return fmt.Errorf("%s must be strictly ascending (index %d)", what, i)
		}
	}
	return nil
}

// Name returns the model name the source was built from.
func (s *Source) Name() string { return s.name }

// MinPhase and MaxPhase bound the sampled phase range in days.
func (s *Source) MinPhase() float64 { return s.phases[0] }
func (s *Source) MaxPhase() float64 { return s.phases[len(s.phases)-1] }

// MinWave and MaxWave bound the sampled wavelength range in Angstrom.
func (s *Source) MinWave() float64 { return s.waves[0] }
func (s *Source) MaxWave() float64 { return s.waves[len(s.waves)-1] }

// Covers reports whether [lo, hi] lies inside the wavelength grid.
func (s *Source) Covers(lo, hi float64) bool {
	return lo >= s.MinWave() && hi <= s.MaxWave()
}

// Flux returns F_lambda at the given phase for each wavelength. Values
// outside the sampled phase or wavelength range are zero.
func (s *Source) Flux(phase float64, wave []float64) []float64 {
	out := make([]float64, len(wave))
	if phase < s.MinPhase() || phase > s.MaxPhase() {
		return out
	}

	hi := sort.SearchFloat64s(s.phases, phase)
	if s.phases[hi] == phase {
		s.fill(out, wave, hi, hi, 0)
		return out
	}
	lo := hi - 1
	frac := (phase - s.phases[lo]) / (s.phases[hi] - s.phases[lo])
	s.fill(out, wave, lo, hi, frac)
	return out
}

func (s *Source) fill(out, wave []float64, lo, hi int, frac float64) {
	for i, w := range wave {
		if w < s.MinWave() || w > s.MaxWave() {
			continue
		}
		a := s.rows[lo].Predict(w)
		if frac == 0 {
			out[i] = a
			continue
		}
		b := s.rows[hi].Predict(w)
		out[i] = a + frac*(b-a)
	}
}
