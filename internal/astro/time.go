package astro

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// mjdOffset converts a Julian Date to a Modified Julian Date.
const mjdOffset = 2400000.5

// unixEpochMJD is the MJD of 1970-01-01T00:00:00Z.
const unixEpochMJD = 40587.0

// SecondsPerDay is the length of a civil day in seconds.
const SecondsPerDay = 86400.0

// JulianDate converts a time.Time (UTC) to Julian Date.
//
// The calendar part comes from go-satellite's JDay (Vallado's jday, valid
// for 1900-2100); sub-second precision is added back here because JDay
// takes whole seconds.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	jd := satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	return jd + float64(t.Nanosecond())/1e9/SecondsPerDay
}

// MJD converts a time.Time to a Modified Julian Date.
func MJD(t time.Time) float64 {
	return JulianDate(t) - mjdOffset
}

// TimeFromMJD converts a Modified Julian Date to a UTC time.Time.
// The result is rounded to the nearest microsecond.
func TimeFromMJD(mjd float64) time.Time {
	sec := (mjd - unixEpochMJD) * SecondsPerDay
	whole := math.Floor(sec)
	nsec := math.Round((sec-whole)*1e6) * 1e3
	return time.Unix(int64(whole), int64(nsec)).UTC()
}
