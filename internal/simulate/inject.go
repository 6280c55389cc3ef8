package simulate

import (
	"math"
	"math/rand/v2"

	"github.com/cnsetzer/redback/internal/model"
)

// inject fills missing sky position and reference time in each parameter
// set. RA is uniform on [0, 2pi); DEC is uniform on the sphere between the
// declination bounds; MJD is uniform over mjd, the pointing span without
// the buffer. Inputs are not modified.
func inject(params []model.Params, dec, mjd window, rng *rand.Rand) []model.Params {
	// sin is monotonic on [-pi/2, pi/2], so u runs from (1-sin lo)/2 down to
	// (1-sin hi)/2 and arccos(2u-1)-pi/2 maps it back onto [lo, hi].
	uLo := (1 - math.Sin(dec.lo)) / 2
	uHi := (1 - math.Sin(dec.hi)) / 2

	out := make([]model.Params, len(params))
	for i, p := range params {
		q := p.Clone()
		if _, ok := q[model.ParamRA]; !ok {
			q[model.ParamRA] = 2 * math.Pi * rng.Float64()
		}
		if _, ok := q[model.ParamDec]; !ok {
			u := uLo + (uHi-uLo)*rng.Float64()
			q[model.ParamDec] = clamp(math.Acos(2*u-1)-math.Pi/2, dec.lo, dec.hi)
		}
		if _, ok := q[model.ParamMJD]; !ok {
			q[model.ParamMJD] = mjd.lo + (mjd.hi-mjd.lo)*rng.Float64()
		}
		out[i] = q
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
