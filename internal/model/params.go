package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingParameter is returned when a model is evaluated without one of
// its required parameters.
var ErrMissingParameter = errors.New("missing model parameter")

// Well-known parameter names injected by the simulation driver.
const (
	ParamRA       = "ra"       // right ascension, radians
	ParamDec      = "dec"      // declination, radians
	ParamMJD      = "mjd"      // reference (explosion) time, MJD
	ParamRedshift = "redshift" // cosmological redshift
)

// Params maps parameter names to values for one transient.
type Params map[string]float64

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// GetOr returns the named value, or def when it is absent.
func (p Params) GetOr(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Require reports every name in names that p does not contain.
func (p Params) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := p[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMissingParameter, missing)
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
