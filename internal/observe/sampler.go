// Package observe turns a synthetic source and a set of survey pointings
// into noisy photometric observation records.
package observe

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/cnsetzer/redback/internal/photometry"
	"github.com/cnsetzer/redback/internal/pointing"
)

// ErrUnsupportedFilter is returned when a pointing's bandpass extends
// beyond the source's wavelength grid.
var ErrUnsupportedFilter = errors.New("filter not covered by source")

// Record is one simulated observation.
type Record struct {
	Event            int
	Time             float64 // MJD
	Magnitude        float64 // NaN when the noisy flux is not positive
	MagnitudeError   float64
	Band             string
	System           string
	FluxDensity      float64 // mJy
	FluxDensityError float64
	Flux             float64 // erg/s/cm^2
	FluxError        float64
	Phase            float64 // days since the source reference time
}

// Source is the view of a synthetic source the sampler needs.
type Source interface {
	photometry.Spectrum
	Name() string
	Covers(lo, hi float64) bool
}

// Sampler draws observations through a bandpass registry.
type Sampler struct {
	bands *photometry.Registry
}

// NewSampler creates a Sampler that resolves filters through bands.
func NewSampler(bands *photometry.Registry) *Sampler {
	return &Sampler{bands: bands}
}

// Check resolves every filter and verifies the source covers it.
func (s *Sampler) Check(src Source, filters []string) error {
	for _, f := range filters {
		if _, err := s.band(src, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sampler) band(src Source, filter string) (*photometry.Bandpass, error) {
	b, err := s.bands.Lookup(filter)
	if err != nil {
		return nil, err
	}
	if !src.Covers(b.MinWave(), b.MaxWave()) {
		return nil, fmt.Errorf("%w: %s spans %g-%g A, source %s does not",
			ErrUnsupportedFilter, filter, b.MinWave(), b.MaxWave(), src.Name())
	}
	return b, nil
}

// Observe evaluates src at each pointing, with t0 the MJD of phase zero.
// Each pointing consumes exactly one normal draw from rng, in order, so a
// seeded generator reproduces the records bit for bit. The first filter
// that cannot be evaluated aborts with no records.
func (s *Sampler) Observe(event int, src Source, t0 float64, pointings []pointing.Pointing, rng *rand.Rand) ([]Record, error) {
	resolved := make(map[string]*photometry.Bandpass)
	out := make([]Record, 0, len(pointings))
	for _, p := range pointings {
		b, ok := resolved[p.Filter]
		if !ok {
			var err error
			b, err = s.band(src, p.Filter)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", event, err)
			}
			resolved[p.Filter] = b
		}
		out = append(out, sample(event, src, b, t0, p, rng))
	}
	return out, nil
}

func sample(event int, src Source, b *photometry.Bandpass, t0 float64, p pointing.Pointing, rng *rand.Rand) Record {
	ref := b.ReferenceFlux()
	phase := p.MJD - t0

	trueFlux := b.BandFlux(src, phase)
	sigma := photometry.FluxErrorFromLimitingMag(p.FiveSigmaDepth, ref)
	noisy := trueFlux + sigma*rng.NormFloat64()

	density := photometry.FluxDensityMJy(noisy, ref)
	densityErr := photometry.FluxDensityMJy(sigma, ref)
	return Record{
		Event:            event,
		Time:             p.MJD,
		Magnitude:        photometry.FluxToMagnitude(noisy, ref),
		MagnitudeError:   photometry.MagnitudeError(trueFlux, sigma),
		Band:             p.Filter,
		System:           photometry.SystemAB,
		FluxDensity:      density,
		FluxDensityError: densityErr,
		Flux:             photometry.EnergyFlux(density, b.EffectiveWavelength()),
		FluxError:        photometry.EnergyFlux(densityErr, b.EffectiveWavelength()),
		Phase:            phase,
	}
}
