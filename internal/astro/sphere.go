// Package astro holds the small amount of spherical astronomy the simulator
// needs: time scales and equatorial coordinates on the unit sphere.
//
// All angles are radians unless a name says otherwise (RADeg, DecDeg).
package astro

import "math"

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// UnitVector is a direction on the celestial sphere in Cartesian form.
type UnitVector [3]float64

// UnitVectorFromEquatorial converts right ascension and declination (radians)
// to a unit vector: x toward (RA 0, Dec 0), z toward the north celestial pole.
func UnitVectorFromEquatorial(ra, dec float64) UnitVector {
	cosDec := math.Cos(dec)
	return UnitVector{
		math.Cos(ra) * cosDec,
		math.Sin(ra) * cosDec,
		math.Sin(dec),
	}
}

// SquaredDistance returns the squared Euclidean (chord) distance between two vectors.
func (u UnitVector) SquaredDistance(v UnitVector) float64 {
	dx := u[0] - v[0]
	dy := u[1] - v[1]
	dz := u[2] - v[2]
	return dx*dx + dy*dy + dz*dz
}

// ChordLength returns the straight-line distance between two points on the
// unit sphere separated by the given angle (law of cosines).
func ChordLength(angle float64) float64 {
	return math.Sqrt(2 - 2*math.Cos(angle))
}

// AngularSeparation returns the great-circle angle between two equatorial
// positions using the Vincenty formula, which stays accurate at both small
// and antipodal separations.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	dRA := ra2 - ra1
	sinD1, cosD1 := math.Sincos(dec1)
	sinD2, cosD2 := math.Sincos(dec2)
	sinDRA, cosDRA := math.Sincos(dRA)

	num1 := cosD2 * sinDRA
	num2 := cosD1*sinD2 - sinD1*cosD2*cosDRA
	den := sinD1*sinD2 + cosD1*cosD2*cosDRA

	return math.Atan2(math.Hypot(num1, num2), den)
}

// FOVRadiusFromArea converts the area of a circular field of view in square
// degrees to its angular radius in radians (small-angle disc).
func FOVRadiusFromArea(areaDeg2 float64) float64 {
	if areaDeg2 <= 0 {
		return 0
	}
	return math.Sqrt(areaDeg2 * (math.Pi / 180.0) * (math.Pi / 180.0) / math.Pi)
}

// NormalizeRA wraps a right ascension into [0, 2π).
func NormalizeRA(ra float64) float64 {
	ra = math.Mod(ra, 2*math.Pi)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return ra
}
