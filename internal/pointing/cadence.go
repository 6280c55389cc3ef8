package pointing

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
)

// DefaultStartMJD is the cadence reference epoch (2022-01-01) used when a
// CadenceSpec leaves StartMJD unset.
const DefaultStartMJD = 59580.0

var (
	// ErrFilterMismatch reports cadence maps keyed by different filters.
	ErrFilterMismatch = errors.New("cadence filter keys do not match")
	// ErrInvalidCadence reports a non-positive count or cadence.
	ErrInvalidCadence = errors.New("invalid cadence")
)

// CadenceSpec describes a synthetic observing plan at a fixed sky
// position. All per-filter maps are keyed by filter name.
type CadenceSpec struct {
	RADeg       float64            `yaml:"ra_deg"`
	DecDeg      float64            `yaml:"dec_deg"`
	NumObs      map[string]int     `yaml:"num_obs"`
	Cadence     map[string]float64 `yaml:"cadence"`      // mean days between exposures
	Scatter     map[string]float64 `yaml:"scatter"`      // std-dev of the interval, days
	LimitingMag map[string]float64 `yaml:"limiting_mag"` // 5-sigma depth
	StartMJD    float64            `yaml:"start_mjd"`
}

// Filters returns the filters named by NumObs in sorted order.
func (c CadenceSpec) Filters() []string {
	out := make([]string, 0, len(c.NumObs))
	for f := range c.NumObs {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Epoch returns StartMJD or DefaultStartMJD when it is unset.
func (c CadenceSpec) Epoch() float64 {
	if c.StartMJD == 0 {
		return DefaultStartMJD
	}
	return c.StartMJD
}

// Validate checks that every per-filter map names the same filters and that
// counts, cadences and scatters are usable.
func (c CadenceSpec) Validate() error {
	filters := c.Filters()
	if len(filters) == 0 {
		return fmt.Errorf("%w: no filters", ErrInvalidCadence)
	}
	if !sameKeys(filters, c.Cadence) {
		return fmt.Errorf("%w: num_obs %v, cadence %v", ErrFilterMismatch, filters, sortedKeys(c.Cadence))
	}
	if !sameKeys(filters, c.LimitingMag) {
		return fmt.Errorf("%w: num_obs %v, limiting_mag %v", ErrFilterMismatch, filters, sortedKeys(c.LimitingMag))
	}
	for f := range c.Scatter {
		if _, ok := c.NumObs[f]; !ok {
			return fmt.Errorf("%w: scatter names unknown filter %q", ErrFilterMismatch, f)
		}
	}

	for _, f := range filters {
		if c.NumObs[f] <= 0 {
			return fmt.Errorf("%w: filter %s needs a positive observation count, got %d", ErrInvalidCadence, f, c.NumObs[f])
		}
		if c.Cadence[f] <= 0 {
			return fmt.Errorf("%w: filter %s needs a positive cadence, got %g", ErrInvalidCadence, f, c.Cadence[f])
		}
		if c.Scatter[f] < 0 {
			return fmt.Errorf("%w: filter %s has negative scatter %g", ErrInvalidCadence, f, c.Scatter[f])
		}
	}
	return nil
}

// FromCadence builds a pointing table from spec. For each filter, in sorted
// order, exposure times are the epoch plus a running sum of Gaussian
// interval draws. Negative draws are clamped to zero so times never
// decrease within a filter.
func FromCadence(spec CadenceSpec, rng *rand.Rand) (*Table, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var total int
	for _, n := range spec.NumObs {
		total += n
	}

	t := &Table{Source: "cadence", Pointings: make([]Pointing, 0, total)}
	epoch := spec.Epoch()
	for _, f := range spec.Filters() {
		mjd := epoch
		for range spec.NumObs[f] {
			step := spec.Cadence[f] + spec.Scatter[f]*rng.NormFloat64()
			mjd += max(step, 0)
			t.Pointings = append(t.Pointings, Pointing{
				MJD:            mjd,
				RADeg:          spec.RADeg,
				DecDeg:         spec.DecDeg,
				Filter:         f,
				FiveSigmaDepth: spec.LimitingMag[f],
			})
		}
	}
	return t, nil
}

func sameKeys[V any](want []string, m map[string]V) bool {
	return slices.Equal(want, sortedKeys(m))
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
