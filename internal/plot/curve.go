package plot

import (
	"fmt"

	"github.com/cnsetzer/redback/internal/model"
	"github.com/cnsetzer/redback/internal/photometry"
)

// ModelCurve returns a CurveFunc that builds a source from m for each
// parameter set and integrates it through the named bandpasses.
func ModelCurve(m model.Model, bands *photometry.Registry, opts model.SourceOptions) CurveFunc {
	return func(p model.Params, names []string, phases []float64) (map[string][]float64, error) {
		src, err := model.NewSource(m, p, opts)
		if err != nil {
			return nil, err
		}

		out := make(map[string][]float64, len(names))
		for _, name := range names {
			b, err := bands.Lookup(name)
			if err != nil {
				return nil, err
			}
			if !src.Covers(b.MinWave(), b.MaxWave()) {
				return nil, fmt.Errorf("band %s lies outside the model wavelength grid", name)
			}
			mags := make([]float64, len(phases))
			for i, phase := range phases {
				mags[i] = photometry.FluxToMagnitude(b.BandFlux(src, phase), b.ReferenceFlux())
			}
			out[name] = mags
		}
		return out, nil
	}
}
