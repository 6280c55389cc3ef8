package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/cnsetzer/redback/internal/astro"
	"github.com/cnsetzer/redback/internal/model"
	"github.com/cnsetzer/redback/internal/observe"
	"github.com/cnsetzer/redback/internal/simulate"
)

// DBExecutor is satisfied by both *sql.DB and *sql.Tx.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Run summarises a stored simulation run.
type Run struct {
	ID         string
	Mode       string
	Model      string
	Survey     string
	Seed       uint64
	StartMJD   float64
	EndMJD     float64
	BufferDays float64
	StartedAt  time.Time
	StartedMJD float64
	Events     int
	Records    int
}

// SaveRun stores a run, its injected parameters and its records in one
// transaction.
func SaveRun(ctx context.Context, db *sql.DB, res *simulate.Result) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	id := res.RunID.String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, mode, model, survey, seed, start_mjd, end_mjd, buffer_days, started_at, started_mjd, events, records)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(res.Mode), res.Model, res.Survey, int64(res.Seed),
		res.StartMJD, res.EndMJD, res.BufferDays, res.StartedAt.UTC(), astro.MJD(res.StartedAt),
		len(res.Parameters), len(res.Records),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	paramStmt, err := tx.PrepareContext(ctx, `INSERT INTO parameters (run_id, event, name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare parameters: %w", err)
	}
	defer paramStmt.Close()
	for event, p := range res.Parameters {
		for _, name := range p.Keys() {
			if _, err := paramStmt.ExecContext(ctx, id, event, name, p[name]); err != nil {
				return fmt.Errorf("insert parameter %s for event %d: %w", name, event, err)
			}
		}
	}

	obsStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (run_id, seq, event, time, magnitude, e_magnitude, band, system,
		                           flux_density, flux_density_error, flux, flux_error, phase)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare observations: %w", err)
	}
	defer obsStmt.Close()
	for seq, r := range res.Records {
		_, err := obsStmt.ExecContext(ctx, id, seq, r.Event, r.Time,
			nullable(r.Magnitude), nullable(r.MagnitudeError), r.Band, r.System,
			r.FluxDensity, r.FluxDensityError, r.Flux, r.FluxError, r.Phase)
		if err != nil {
			return fmt.Errorf("insert observation %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SQLite has no NaN; it is stored as NULL.
func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// GetRun returns the stored run with the given id.
func GetRun(ctx context.Context, db DBExecutor, id string) (Run, error) {
	var r Run
	var seed int64
	err := db.QueryRowContext(ctx,
		`SELECT id, mode, model, survey, seed, start_mjd, end_mjd, buffer_days, started_at, started_mjd, events, records
		 FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.Mode, &r.Model, &r.Survey, &seed, &r.StartMJD, &r.EndMJD, &r.BufferDays, &r.StartedAt, &r.StartedMJD, &r.Events, &r.Records)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	r.Seed = uint64(seed)
	return r, nil
}

// ListRuns returns every stored run, newest first.
func ListRuns(ctx context.Context, db DBExecutor) ([]Run, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, mode, model, survey, seed, start_mjd, end_mjd, buffer_days, started_at, started_mjd, events, records
		 FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var seed int64
		if err := rows.Scan(&r.ID, &r.Mode, &r.Model, &r.Survey, &seed, &r.StartMJD, &r.EndMJD, &r.BufferDays, &r.StartedAt, &r.StartedMJD, &r.Events, &r.Records); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Seed = uint64(seed)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadRecords returns a run's observations in the order they were saved.
func LoadRecords(ctx context.Context, db DBExecutor, runID string) ([]observe.Record, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT event, time, magnitude, e_magnitude, band, system,
		        flux_density, flux_density_error, flux, flux_error, phase
		 FROM observations WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []observe.Record
	for rows.Next() {
		var r observe.Record
		var mag, magErr sql.NullFloat64
		if err := rows.Scan(&r.Event, &r.Time, &mag, &magErr, &r.Band, &r.System,
			&r.FluxDensity, &r.FluxDensityError, &r.Flux, &r.FluxError, &r.Phase); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		r.Magnitude = fromNullable(mag)
		r.MagnitudeError = fromNullable(magErr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadParameters returns a run's per-event parameters.
func LoadParameters(ctx context.Context, db DBExecutor, runID string) ([]model.Params, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT event, name, value FROM parameters WHERE run_id = ? ORDER BY event, name`, runID)
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}
	defer rows.Close()

	var out []model.Params
	for rows.Next() {
		var event int
		var name string
		var value float64
		if err := rows.Scan(&event, &name, &value); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		for len(out) <= event {
			out = append(out, model.Params{})
		}
		out[event][name] = value
	}
	return out, rows.Err()
}
