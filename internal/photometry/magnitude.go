package photometry

import "math"

// SystemAB is the only photometric system the simulator emits.
const SystemAB = "AB"

// pogson is 2.5 / ln(10), the flux-to-magnitude error scale.
var pogson = 2.5 / math.Ln10

// FluxToMagnitude converts a band flux to an AB magnitude given the band's
// reference flux. Non-positive fluxes have no magnitude and return NaN.
func FluxToMagnitude(flux, refFlux float64) float64 {
	if flux <= 0 {
		return math.NaN()
	}
	return -2.5 * math.Log10(flux/refFlux)
}

// MagnitudeToFlux is the inverse of FluxToMagnitude.
func MagnitudeToFlux(mag, refFlux float64) float64 {
	return refFlux * math.Pow(10, -0.4*mag)
}

// FluxErrorFromLimitingMag returns the 1-sigma flux error implied by a
// 5-sigma limiting magnitude.
func FluxErrorFromLimitingMag(limitingMag, refFlux float64) float64 {
	return MagnitudeToFlux(limitingMag, refFlux) / 5.0
}

// MagnitudeError propagates a flux error to a magnitude error.
func MagnitudeError(flux, fluxErr float64) float64 {
	if flux == 0 {
		return math.Inf(1)
	}
	return pogson * fluxErr / math.Abs(flux)
}

// FluxDensityMJy converts a band flux to the equivalent AB flux density in mJy.
func FluxDensityMJy(flux, refFlux float64) float64 {
	return ABZeroPointJy * 1e3 * flux / refFlux
}

// EnergyFlux converts a flux density in mJy to nu*F_nu (erg/s/cm^2) at the
// given wavelength in Angstrom.
func EnergyFlux(fluxDensityMJy, waveAA float64) float64 {
	return fluxDensityMJy * 1e-3 * JanskyCGS * SpeedOfLightAA / waveAA
}

// MJyToFLambda converts a flux density in mJy to F_lambda (erg/s/cm^2/A).
func MJyToFLambda(fluxDensityMJy, waveAA float64) float64 {
	return fluxDensityMJy * 1e-3 * JanskyCGS * SpeedOfLightAA / (waveAA * waveAA)
}
