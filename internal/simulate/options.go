// Package simulate drives a population of transients through the pointing,
// sky-overlap, source and sampling stages to produce observation records.
package simulate

import (
	"errors"
	"log/slog"
	"math"

	"github.com/cnsetzer/redback/internal/model"
	"github.com/cnsetzer/redback/internal/photometry"
	"github.com/cnsetzer/redback/internal/pointing"
)

// Defaults applied by New.
const (
	DefaultSurvey     = "Rubin_10yr_baseline"
	DefaultBufferDays = 100.0
	DefaultWorkers    = 1
	// DefaultFOVArea (square degrees) is used for user tables when no
	// survey names the instrument.
	DefaultFOVArea = 9.6
)

var (
	// ErrNoEvents is returned when Options carries no parameter sets.
	ErrNoEvents = errors.New("no parameter sets to simulate")
	// ErrNoArchives is returned when a survey is requested without an
	// archive cache to load it from.
	ErrNoArchives = errors.New("survey requested without an archive directory")
	// ErrInvalidRange reports an empty declination or MJD range.
	ErrInvalidRange = errors.New("invalid injection range")
)

// Mode names how pointings are obtained.
type Mode string

const (
	// ModeSurvey filters a survey archive by sky position and time.
	ModeSurvey Mode = "survey"
	// ModeTable filters a caller-supplied pointing table.
	ModeTable Mode = "table"
	// ModeCadence builds a follow-up cadence at each event's position.
	ModeCadence Mode = "cadence"
)

// Options configures a simulation. Pointer fields are optional; nil selects
// the default documented on the field.
type Options struct {
	// Model is resolved once in New.
	Model model.Spec
	// Parameters holds one parameter set per event. A single set is a
	// single-transient simulation. Missing ra, dec (radians) and mjd are
	// injected; present values are kept.
	Parameters []model.Params

	// Survey names a pointing archive; DefaultSurvey when Table and Cadence
	// are both nil. With a Cadence it only supplies the time span and
	// declination range.
	Survey string
	// Table is a caller-supplied pointing table used instead of an archive.
	Table *pointing.Table
	// Cadence switches to follow-up mode.
	Cadence *pointing.CadenceSpec
	// Archives loads survey archives. Required when a survey is used.
	Archives *pointing.Archives

	// MinDec and MaxDec bound injected declinations (radians). Default: the
	// pointing table's range, else the whole sky.
	MinDec, MaxDec *float64
	// StartMJD and EndMJD bound the simulated span. Default: the pointing
	// table's span, else the cadence span.
	StartMJD, EndMJD *float64
	// BufferDays extends the span backwards so events that started before
	// the first pointing are observed. Default DefaultBufferDays.
	BufferDays *float64
	// FOVArea overrides the survey field of view (square degrees).
	FOVArea float64

	// Source controls the grid each model is sampled on.
	Source model.SourceOptions
	// RestrictToSource drops pointings outside the source's phase range.
	RestrictToSource bool

	// Seed drives injection and every event's noise stream.
	Seed uint64
	// Workers is the number of events evaluated concurrently. Default 1.
	Workers int

	// Bands resolves filter names; nil uses the embedded table.
	Bands  *photometry.Registry
	Logger *slog.Logger
}

// Float returns a pointer to v, for the optional Options fields.
func Float(v float64) *float64 {
	return &v
}

func (o *Options) mode() Mode {
	switch {
	case o.Cadence != nil:
		return ModeCadence
	case o.Table != nil:
		return ModeTable
	default:
		return ModeSurvey
	}
}

func (o *Options) buffer() float64 {
	if o.BufferDays == nil {
		return DefaultBufferDays
	}
	return *o.BufferDays
}

// window is an inclusive range.
type window struct {
	lo, hi float64
}

func (w window) contains(v float64) bool {
	return v >= w.lo && v <= w.hi
}

func (w window) valid() bool {
	return !math.IsNaN(w.lo) && !math.IsNaN(w.hi) && w.lo <= w.hi
}
