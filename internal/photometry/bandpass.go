// Package photometry turns spectra into band fluxes and magnitudes.
//
// Band fluxes follow the photon-counting convention: the integral of
// F_lambda * T(lambda) * lambda / (h c) over the bandpass, in photons/s/cm^2.
// Magnitudes are AB, measured against the band flux of a flat 3631 Jy source.
package photometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gopkg.in/yaml.v3"
)

// ErrUnknownBandpass is returned when a filter name is not in the registry.
var ErrUnknownBandpass = errors.New("unknown bandpass")

// Physical constants (cgs, wavelengths in Angstrom).
const (
	// SpeedOfLightAA is c in Angstrom/s.
	SpeedOfLightAA = 2.99792458e18
	// PlanckTimesC is h*c in erg*Angstrom.
	PlanckTimesC = 6.62607015e-27 * SpeedOfLightAA
	// ABZeroPointJy is the flux density of an AB magnitude 0 source.
	ABZeroPointJy = 3631.0
	// JanskyCGS is 1 Jy in erg/s/cm^2/Hz.
	JanskyCGS = 1e-23
)

// gridStep is the wavelength sampling of generated transmission curves.
const gridStep = 10.0

// Definition describes a trapezoidal filter throughput.
type Definition struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	WaveMin float64  `yaml:"wave_min"`
	WaveMax float64  `yaml:"wave_max"`
	Ramp    float64  `yaml:"ramp"`
	Peak    float64  `yaml:"peak"`
}

// Bandpass is a sampled filter transmission curve.
type Bandpass struct {
	Name  string
	Wave  []float64 // Angstrom, ascending
	Trans []float64 // dimensionless throughput

	effWave float64
	refFlux float64
}

// Spectrum is anything that can report F_lambda (erg/s/cm^2/A) at a phase
// (days) for a set of observer-frame wavelengths (A).
type Spectrum interface {
	Flux(phase float64, wave []float64) []float64
}

// NewBandpass builds a bandpass from a trapezoidal definition.
func NewBandpass(def Definition) (*Bandpass, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("bandpass definition missing name")
	}
	if def.WaveMax <= def.WaveMin {
		return nil, fmt.Errorf("bandpass %s: wave_max %.1f must exceed wave_min %.1f", def.Name, def.WaveMax, def.WaveMin)
	}
	if def.Peak <= 0 || def.Peak > 1 {
		return nil, fmt.Errorf("bandpass %s: peak %.3f outside (0, 1]", def.Name, def.Peak)
	}
	ramp := def.Ramp
	if ramp <= 0 {
		ramp = gridStep
	}

	n := int(math.Round((def.WaveMax-def.WaveMin)/gridStep)) + 1
	if n < 2 {
		n = 2
	}
	wave := make([]float64, n)
	floats.Span(wave, def.WaveMin, def.WaveMax)

	trans := make([]float64, n)
	for i, w := range wave {
		edge := math.Min((w-def.WaveMin)/ramp, (def.WaveMax-w)/ramp)
		trans[i] = def.Peak * math.Max(0, math.Min(1, edge))
	}

	return newSampled(strings.ToLower(def.Name), wave, trans)
}

// newSampled finalizes a bandpass and precomputes its effective wavelength
// and AB reference flux.
func newSampled(name string, wave, trans []float64) (*Bandpass, error) {
	if len(wave) < 2 || len(wave) != len(trans) {
		return nil, fmt.Errorf("bandpass %s: need matching wave/trans samples, got %d/%d", name, len(wave), len(trans))
	}
	if !sort.Float64sAreSorted(wave) {
		return nil, fmt.Errorf("bandpass %s: wavelengths must be ascending", name)
	}

	b := &Bandpass{Name: name, Wave: wave, Trans: trans}

	weighted := make([]float64, len(wave))
	invWave := make([]float64, len(wave))
	for i, w := range wave {
		weighted[i] = w * trans[i]
		invWave[i] = trans[i] / w
	}
	norm := integrate.Trapezoidal(wave, trans)
	if norm <= 0 {
		return nil, fmt.Errorf("bandpass %s: zero throughput", name)
	}
	b.effWave = integrate.Trapezoidal(wave, weighted) / norm

	// Flat f_nu: F_lambda = f_nu c / lambda^2, so the photon integrand is
	// f_nu c / (h c) * T / lambda.
	fnu := ABZeroPointJy * JanskyCGS
	b.refFlux = fnu * SpeedOfLightAA / PlanckTimesC * integrate.Trapezoidal(wave, invWave)

	return b, nil
}

// EffectiveWavelength returns the throughput-weighted mean wavelength (A).
func (b *Bandpass) EffectiveWavelength() float64 { return b.effWave }

// ReferenceFlux returns the band flux of an AB magnitude 0 source
// (photons/s/cm^2).
func (b *Bandpass) ReferenceFlux() float64 { return b.refFlux }

// MinWave and MaxWave bound the sampled transmission curve.
func (b *Bandpass) MinWave() float64 { return b.Wave[0] }
func (b *Bandpass) MaxWave() float64 { return b.Wave[len(b.Wave)-1] }

// BandFlux integrates a spectrum through the bandpass at the given phase.
func (b *Bandpass) BandFlux(s Spectrum, phase float64) float64 {
	flux := s.Flux(phase, b.Wave)
	integrand := make([]float64, len(b.Wave))
	for i, w := range b.Wave {
		integrand[i] = flux[i] * b.Trans[i] * w / PlanckTimesC
	}
	return integrate.Trapezoidal(b.Wave, integrand)
}

// Registry resolves filter names (and aliases) to bandpasses.
type Registry struct {
	bands map[string]*Bandpass
	names []string
}

// NewRegistry builds a registry from definitions. Names and aliases are
// case-insensitive and must be unique.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{bands: make(map[string]*Bandpass, len(defs))}
	for _, def := range defs {
		b, err := NewBandpass(def)
		if err != nil {
			return nil, err
		}
		keys := append([]string{def.Name}, def.Aliases...)
		for _, k := range keys {
			k = strings.ToLower(strings.TrimSpace(k))
			if _, dup := r.bands[k]; dup {
				return nil, fmt.Errorf("duplicate bandpass name %q", k)
			}
			r.bands[k] = b
		}
		r.names = append(r.names, b.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// ParseDefinitions decodes a YAML list of bandpass definitions.
func ParseDefinitions(raw []byte) ([]Definition, error) {
	var defs []Definition
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("decoding bandpass table: %w", err)
	}
	return defs, nil
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	defs, err := ParseDefinitions(defaultBandpasses)
	if err != nil {
		return nil, err
	}
	return NewRegistry(defs)
})

// Default returns the registry built from the embedded filter table.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// Lookup returns the bandpass registered under name.
func (r *Registry) Lookup(name string) (*Bandpass, error) {
	b, ok := r.bands[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBandpass, name)
	}
	return b, nil
}

// Names returns the canonical bandpass names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
