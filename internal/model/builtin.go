package model

import "math"

// cgs constants.
const (
	planckH     = 6.62607015e-27        // erg s
	boltzmannK  = 1.380649e-16          // erg/K
	speedC      = 2.99792458e10         // cm/s
	stefanBoltz = 5.670374419e-5        // erg/s/cm^2/K^4
	megaparsec  = 3.0856775814913673e24 // cm
	solarMass   = 1.98847e33            // g
	secondsDay  = 86400.0
	mjyCGS      = 1e-26 // erg/s/cm^2/Hz
	angstromCM  = 1e-8
)

// Radioactive heating (Nadyozhin 1994).
const (
	tauNickel     = 8.8    // days
	tauCobalt     = 111.3  // days
	epsilonNickel = 3.9e10 // erg/s/g
	epsilonCobalt = 6.78e9 // erg/s/g
)

// afterglowRefWave is the wavelength at which afterglow_powerlaw's f0 is quoted.
const afterglowRefWave = 6000.0

func init() {
	register(Model{
		Name:     "afterglow_powerlaw",
		Class:    ClassAfterglow,
		Required: []string{"f0", "alpha", "beta"},
		Eval:     afterglowPowerLaw,
	})
	register(Model{
		Name:     "kilonova_blackbody",
		Class:    ClassKilonova,
		Required: []string{"luminosity_distance", "velocity", "temperature_0", "temperature_index"},
		Eval:     kilonovaBlackbody,
	})
	register(Model{
		Name:     "tde_fallback",
		Class:    ClassTDE,
		Required: []string{"luminosity_distance", "peak_luminosity", "temperature", "rise_time"},
		Eval:     tdeFallback,
	})
	register(Model{
		Name:     "supernova_nickel",
		Class:    ClassSupernova,
		Required: []string{"luminosity_distance", "nickel_mass", "temperature"},
		Eval:     supernovaNickel,
	})
}

// afterglowPowerLaw is F_nu = f0 * t^-alpha * nu^-beta, normalized at one day
// and 6000 A. Since nu ~ 1/lambda, nu^-beta = (lambda/lambda_ref)^beta.
func afterglowPowerLaw(phase float64, wave []float64, p Params) ([]float64, error) {
	if err := p.Require("f0", "alpha", "beta"); err != nil {
		return nil, err
	}
	out := make([]float64, len(wave))
	if phase <= 0 {
		return out, nil
	}
	temporal := p["f0"] * math.Pow(phase, -p["alpha"])
	for i, w := range wave {
		out[i] = temporal * math.Pow(w/afterglowRefWave, p["beta"])
	}
	return out, nil
}

// kilonovaBlackbody is a homologously expanding photosphere (R = v t) with a
// power-law cooling temperature, floored at temperature_floor.
func kilonovaBlackbody(phase float64, wave []float64, p Params) ([]float64, error) {
	if err := p.Require("luminosity_distance", "velocity", "temperature_0", "temperature_index"); err != nil {
		return nil, err
	}
	z := p.GetOr(ParamRedshift, 0)
	rest := phase / (1 + z)
	if rest <= 0 {
		return make([]float64, len(wave)), nil
	}

	radius := p["velocity"] * speedC * rest * secondsDay
	temp := math.Max(p["temperature_0"]*math.Pow(rest, -p["temperature_index"]), p.GetOr("temperature_floor", 1000))
	return blackbodyMJy(wave, z, temp, radius*radius, p["luminosity_distance"]*megaparsec), nil
}

// tdeFallback follows the t^-5/3 fallback rate with a fixed photospheric
// temperature; the radius follows from L = 4 pi R^2 sigma T^4.
func tdeFallback(phase float64, wave []float64, p Params) ([]float64, error) {
	if err := p.Require("luminosity_distance", "peak_luminosity", "temperature", "rise_time"); err != nil {
		return nil, err
	}
	z := p.GetOr(ParamRedshift, 0)
	rest := phase / (1 + z)
	if rest < 0 {
		return make([]float64, len(wave)), nil
	}

	t0 := p["rise_time"]
	lum := p["peak_luminosity"] * math.Pow((rest+t0)/t0, -5.0/3.0)
	return blackbodyFromLuminosity(wave, z, lum, p["temperature"], p["luminosity_distance"]), nil
}

// supernovaNickel powers a fixed-temperature photosphere with the
// 56Ni -> 56Co -> 56Fe decay chain.
func supernovaNickel(phase float64, wave []float64, p Params) ([]float64, error) {
	if err := p.Require("luminosity_distance", "nickel_mass", "temperature"); err != nil {
		return nil, err
	}
	z := p.GetOr(ParamRedshift, 0)
	rest := phase / (1 + z)
	if rest < 0 {
		return make([]float64, len(wave)), nil
	}

	mass := p["nickel_mass"] * solarMass
	lum := mass * ((epsilonNickel-epsilonCobalt)*math.Exp(-rest/tauNickel) + epsilonCobalt*math.Exp(-rest/tauCobalt))
	return blackbodyFromLuminosity(wave, z, lum, p["temperature"], p["luminosity_distance"]), nil
}

func blackbodyFromLuminosity(wave []float64, z, lum, temp, distanceMpc float64) []float64 {
	r2 := lum / (4 * math.Pi * stefanBoltz * math.Pow(temp, 4))
	return blackbodyMJy(wave, z, temp, r2, distanceMpc*megaparsec)
}

// blackbodyMJy returns the observed flux density (mJy) of a spherical
// blackbody with squared radius r2 (cm^2) at luminosity distance dist (cm):
// F_nu(obs) = (1+z) * pi * B_nu(nu_rest, T) * R^2 / d_L^2.
func blackbodyMJy(wave []float64, z, temp, r2, dist float64) []float64 {
	out := make([]float64, len(wave))
	scale := (1 + z) * math.Pi * r2 / (dist * dist) / mjyCGS
	for i, w := range wave {
		nuRest := speedC / (w * angstromCM) * (1 + z)
		out[i] = scale * planckNu(nuRest, temp)
	}
	return out
}

// planckNu is the blackbody specific intensity B_nu (erg/s/cm^2/Hz/sr).
func planckNu(nu, temp float64) float64 {
	x := planckH * nu / (boltzmannK * temp)
	if x > 700 {
		return 0
	}
	return 2 * planckH * nu * nu * nu / (speedC * speedC) / math.Expm1(x)
}
