package simulate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/cnsetzer/redback/internal/astro"
	"github.com/cnsetzer/redback/internal/metrics"
	"github.com/cnsetzer/redback/internal/model"
	"github.com/cnsetzer/redback/internal/observe"
	"github.com/cnsetzer/redback/internal/photometry"
	"github.com/cnsetzer/redback/internal/pointing"
	"github.com/cnsetzer/redback/internal/sky"
)

// Simulator holds everything resolved from Options. It is immutable after
// New and Run may be called more than once.
type Simulator struct {
	mode    Mode
	model   model.Model
	sampler *observe.Sampler
	logger  *slog.Logger

	table   *pointing.Table
	survey  string
	cadence *pointing.CadenceSpec

	start, end float64
	buffer     float64
	window     window // [start - buffer, end]
	radius     float64
	// bounded clips pointings to window. Off for cadence-only runs, where
	// each event's cadence table is its own pointing table.
	bounded bool

	params   []model.Params
	source   model.SourceOptions
	restrict bool
	seed     uint64
	workers  int
}

// Result is the output of one run.
type Result struct {
	RunID      uuid.UUID
	Mode       Mode
	Model      string
	Survey     string
	Seed       uint64
	StartMJD   float64
	EndMJD     float64
	BufferDays float64
	StartedAt  time.Time
	Parameters []model.Params
	Records    []observe.Record
}

// New resolves the model and pointings, fixes the time span and injects
// missing positions and reference times.
func New(opts Options) (*Simulator, error) {
	if len(opts.Parameters) == 0 {
		return nil, ErrNoEvents
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m, err := model.Resolve(opts.Model)
	if err != nil {
		return nil, fmt.Errorf("resolving model: %w", err)
	}

	bands := opts.Bands
	if bands == nil {
		if bands, err = photometry.Default(); err != nil {
			return nil, fmt.Errorf("loading bandpasses: %w", err)
		}
	}

	s := &Simulator{
		mode:     opts.mode(),
		model:    m,
		sampler:  observe.NewSampler(bands),
		logger:   logger,
		cadence:  opts.Cadence,
		buffer:   opts.buffer(),
		source:   opts.Source,
		restrict: opts.RestrictToSource,
		seed:     opts.Seed,
		workers:  opts.Workers,
	}
	if s.workers <= 0 {
		s.workers = DefaultWorkers
	}
	if s.buffer < 0 {
		return nil, fmt.Errorf("%w: negative buffer %g days", ErrInvalidRange, s.buffer)
	}
	if s.cadence != nil {
		if err := s.cadence.Validate(); err != nil {
			return nil, err
		}
	}

	fov, err := s.loadPointings(opts)
	if err != nil {
		return nil, err
	}
	if opts.FOVArea > 0 {
		fov = opts.FOVArea
	}
	s.radius = astro.FOVRadiusFromArea(fov)

	if err := s.resolveSpan(opts); err != nil {
		return nil, err
	}
	s.bounded = s.table.Len() > 0 || opts.StartMJD != nil || opts.EndMJD != nil
	dec, err := s.decRange(opts)
	if err != nil {
		return nil, err
	}

	s.params = inject(opts.Parameters, dec, window{lo: s.start, hi: s.end}, streamRand(s.seed, injectionStream))

	logger.Info("simulation prepared",
		"mode", string(s.mode),
		"model", m.Name,
		"survey", s.survey,
		"events", len(s.params),
		"start_mjd", s.start,
		"end_mjd", s.end,
		"fov_radius_deg", astro.RadToDeg(s.radius),
	)
	return s, nil
}

// loadPointings picks the pointing table for the mode and returns the
// field-of-view area that goes with it.
func (s *Simulator) loadPointings(opts Options) (float64, error) {
	name := opts.Survey
	if name == "" && s.mode == ModeSurvey {
		name = DefaultSurvey
	}

	fov := DefaultFOVArea
	if name != "" {
		survey, err := pointing.LookupSurvey(name)
		if err != nil {
			return 0, err
		}
		s.survey = survey.Name
		fov = survey.FOVArea
	}

	switch {
	case opts.Table != nil:
		s.table = opts.Table
	case name != "":
		if opts.Archives == nil {
			return 0, fmt.Errorf("%w: %s", ErrNoArchives, name)
		}
		t, _, err := opts.Archives.Load(name)
		if err != nil {
			return 0, err
		}
		s.table = t
	}

	if s.mode != ModeCadence && s.table.Len() == 0 {
		return 0, fmt.Errorf("%w: pointing table is empty", ErrInvalidRange)
	}
	return fov, nil
}

func (s *Simulator) resolveSpan(opts Options) error {
	switch {
	case s.table.Len() > 0:
		s.start, s.end = s.table.Span()
	case s.cadence != nil:
		s.start = s.cadence.Epoch()
		s.end = s.start
		for f, n := range s.cadence.NumObs {
			s.end = math.Max(s.end, s.start+float64(n)*s.cadence.Cadence[f])
		}
	}
	if opts.StartMJD != nil {
		s.start = *opts.StartMJD
	}
	if opts.EndMJD != nil {
		s.end = *opts.EndMJD
	}

	s.window = window{lo: s.start - s.buffer, hi: s.end}
	if !s.window.valid() || s.start > s.end {
		return fmt.Errorf("%w: MJD span [%g, %g]", ErrInvalidRange, s.start, s.end)
	}
	return nil
}

func (s *Simulator) decRange(opts Options) (window, error) {
	dec := window{lo: -math.Pi / 2, hi: math.Pi / 2}
	if s.table.Len() > 0 {
		lo, hi := s.table.DecRange()
		dec = window{lo: astro.DegToRad(lo), hi: astro.DegToRad(hi)}
	}
	if opts.MinDec != nil {
		dec.lo = *opts.MinDec
	}
	if opts.MaxDec != nil {
		dec.hi = *opts.MaxDec
	}
	dec.lo = clamp(dec.lo, -math.Pi/2, math.Pi/2)
	dec.hi = clamp(dec.hi, -math.Pi/2, math.Pi/2)
	if !dec.valid() {
		return window{}, fmt.Errorf("%w: declination [%g, %g] rad", ErrInvalidRange, dec.lo, dec.hi)
	}
	return dec, nil
}

// Mode returns how pointings are obtained.
func (s *Simulator) Mode() Mode { return s.mode }

// Span returns the simulated MJD span and the buffer before it.
func (s *Simulator) Span() (start, end, buffer float64) {
	return s.start, s.end, s.buffer
}

// Parameters returns a copy of the per-event parameters after injection.
func (s *Simulator) Parameters() []model.Params {
	out := make([]model.Params, len(s.params))
	for i, p := range s.params {
		out[i] = p.Clone()
	}
	return out
}

// Run simulates every event. Records are ordered by event and, within an
// event, by pointing order; they do not depend on the worker count. Any
// failure returns no records.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New()
	started := time.Now()
	logger := s.logger.With("run_id", runID.String(), "mode", string(s.mode))

	var perEvent [][]observe.Record
	err := metrics.Track(string(s.mode), func() error {
		var overlaps [][]int
		if s.mode != ModeCadence {
			overlaps = sky.Overlaps(s.targets(), tableCoords(s.table.Pointings), s.radius)
		}

		pool := NewWorkerPool(s.workers, logger)
		var err error
		perEvent, err = pool.RunBatch(ctx, len(s.params), func(ctx context.Context, i int) ([]observe.Record, error) {
			var idx []int
			if overlaps != nil {
				idx = overlaps[i]
			}
			return s.simulateEvent(i, idx)
		})
		return err
	})
	if err != nil {
		logger.Error("simulation failed", "error", err)
		return nil, err
	}

	var records []observe.Record
	for _, recs := range perEvent {
		records = append(records, recs...)
	}

	logger.Info("simulation complete",
		"events", len(s.params),
		"records", len(records),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return &Result{
		RunID:      runID,
		Mode:       s.mode,
		Model:      s.model.Name,
		Survey:     s.survey,
		Seed:       s.seed,
		StartMJD:   s.start,
		EndMJD:     s.end,
		BufferDays: s.buffer,
		StartedAt:  started,
		Parameters: s.Parameters(),
		Records:    records,
	}, nil
}

func (s *Simulator) simulateEvent(event int, overlap []int) ([]observe.Record, error) {
	p := s.params[event]
	src, err := model.NewSource(s.model, p, s.source)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", event, err)
	}

	// Cadence draws come first, then one noise draw per retained pointing.
	rng := streamRand(s.seed, uint64(event))
	var pts []pointing.Pointing
	if s.mode == ModeCadence {
		if pts, err = s.followUp(p, rng); err != nil {
			return nil, fmt.Errorf("event %d: %w", event, err)
		}
	} else {
		pts = s.table.Subset(overlap)
	}

	t0 := p[model.ParamMJD]
	pts = s.clip(pts, t0, src)

	recs, err := s.sampler.Observe(event, src, t0, pts, rng)
	if err != nil {
		return nil, err
	}
	metrics.ObserveEvent(string(s.mode), len(pts), bandCounts(recs))
	return recs, nil
}

// followUp builds the event's cadence table and keeps the pointings inside
// the field of view. Without an explicit cadence epoch the table starts at
// the span start when the span is bounded, else at the event's t0.
func (s *Simulator) followUp(p model.Params, rng *rand.Rand) ([]pointing.Pointing, error) {
	spec := *s.cadence
	spec.RADeg = astro.RadToDeg(p[model.ParamRA])
	spec.DecDeg = astro.RadToDeg(p[model.ParamDec])
	if spec.StartMJD == 0 {
		spec.StartMJD = p[model.ParamMJD]
		if s.bounded {
			spec.StartMJD = s.start
		}
	}

	t, err := pointing.FromCadence(spec, rng)
	if err != nil {
		return nil, err
	}
	target := sky.Coord{RA: p[model.ParamRA], Dec: p[model.ParamDec]}
	idx := sky.NewIndex(tableCoords(t.Pointings)).Within(target, s.radius)
	return t.Subset(idx), nil
}

func (s *Simulator) clip(pts []pointing.Pointing, t0 float64, src *model.Source) []pointing.Pointing {
	out := make([]pointing.Pointing, 0, len(pts))
	for _, p := range pts {
		if s.bounded && !s.window.contains(p.MJD) {
			continue
		}
		if s.restrict {
			phase := p.MJD - t0
			if phase < src.MinPhase() || phase > src.MaxPhase() {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func (s *Simulator) targets() []sky.Coord {
	out := make([]sky.Coord, len(s.params))
	for i, p := range s.params {
		out[i] = sky.Coord{RA: p[model.ParamRA], Dec: p[model.ParamDec]}
	}
	return out
}

func tableCoords(pts []pointing.Pointing) []sky.Coord {
	out := make([]sky.Coord, len(pts))
	for i, p := range pts {
		out[i] = sky.Coord{RA: astro.NormalizeRA(astro.DegToRad(p.RADeg)), Dec: astro.DegToRad(p.DecDeg)}
	}
	return out
}

func bandCounts(recs []observe.Record) map[string]int {
	out := make(map[string]int)
	for _, r := range recs {
		out[r.Band]++
	}
	return out
}
