package photometry

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_FluxMagnitudeRoundTrip validates that flux -> magnitude -> flux
// reproduces the input for any positive flux and reference.
func TestProperty_FluxMagnitudeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("MagnitudeToFlux(FluxToMagnitude(f)) == f", prop.ForAll(
		func(logFlux, logRef float64) bool {
			flux := math.Pow(10, logFlux)
			ref := math.Pow(10, logRef)
			back := MagnitudeToFlux(FluxToMagnitude(flux, ref), ref)
			return math.Abs(back-flux) <= 1e-12*flux
		},
		gen.Float64Range(-20, 20),
		gen.Float64Range(-5, 10),
	))

	properties.TestingRun(t)
}

func TestFluxToMagnitudeNonPositive(t *testing.T) {
	for _, f := range []float64{0, -1e-3} {
		if m := FluxToMagnitude(f, 1); !math.IsNaN(m) {
			t.Errorf("FluxToMagnitude(%g) = %g, want NaN", f, m)
		}
	}
}

func TestLimitingMagnitudeIsFiveSigma(t *testing.T) {
	const ref = 1e6
	const limMag = 24.5

	sigma := FluxErrorFromLimitingMag(limMag, ref)
	flux := MagnitudeToFlux(limMag, ref)
	if snr := flux / sigma; math.Abs(snr-5) > 1e-12 {
		t.Errorf("SNR at limiting magnitude = %g, want 5", snr)
	}

	// 2.5/ln10/5 ~= 0.2171
	if got := MagnitudeError(flux, sigma); math.Abs(got-0.21714724095162588) > 1e-12 {
		t.Errorf("MagnitudeError at 5 sigma = %.6f, want 0.2171", got)
	}
}

func TestMagnitudeErrorZeroFlux(t *testing.T) {
	if got := MagnitudeError(0, 1); !math.IsInf(got, 1) {
		t.Errorf("MagnitudeError(0, 1) = %g, want +Inf", got)
	}
	if got := MagnitudeError(-2, 1); got <= 0 {
		t.Errorf("MagnitudeError(-2, 1) = %g, want positive", got)
	}
}

func TestFluxDensityConversions(t *testing.T) {
	// A source at the reference flux is 3631 Jy = 3.631e6 mJy.
	if got := FluxDensityMJy(5, 5); math.Abs(got-3.631e6) > 1e-6 {
		t.Errorf("FluxDensityMJy(ref) = %g, want 3.631e6", got)
	}

	// 1 mJy at 5000 A: F_lambda = 1e-26 * c / lambda^2.
	want := 1e-26 * SpeedOfLightAA / (5000.0 * 5000.0)
	if got := MJyToFLambda(1, 5000); math.Abs(got-want) > 1e-12*want {
		t.Errorf("MJyToFLambda(1, 5000) = %g, want %g", got, want)
	}

	// nu*F_nu = lambda*F_lambda.
	if got, want := EnergyFlux(1, 5000), MJyToFLambda(1, 5000)*5000; math.Abs(got-want) > 1e-12*want {
		t.Errorf("EnergyFlux(1, 5000) = %g, want %g", got, want)
	}
}
