package observe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Header is the column layout of an observation table.
var Header = []string{
	"event",
	"time",
	"magnitude",
	"e_magnitude",
	"band",
	"system",
	"flux_density(mjy)",
	"flux_density_error",
	"flux(erg/cm2/s)",
	"flux_error",
	"time (days)",
}

// WriteCSV writes records under Header.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, len(Header))
	for _, r := range records {
		row[0] = strconv.Itoa(r.Event)
		row[1] = formatFloat(r.Time)
		row[2] = formatFloat(r.Magnitude)
		row[3] = formatFloat(r.MagnitudeError)
		row[4] = r.Band
		row[5] = r.System
		row[6] = formatFloat(r.FluxDensity)
		row[7] = formatFloat(r.FluxDensityError)
		row[8] = formatFloat(r.Flux)
		row[9] = formatFloat(r.FluxError)
		row[10] = formatFloat(r.Phase)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV. The header must match exactly.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("unexpected header %q", header)
	}

	var out []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
}

func parseRow(row []string) (Record, error) {
	event, err := strconv.Atoi(row[0])
	if err != nil {
		return Record{}, fmt.Errorf("column event: %w", err)
	}
	rec := Record{Event: event, Band: row[4], System: row[5]}
	fields := []struct {
		col int
		dst *float64
	}{
		{1, &rec.Time},
		{2, &rec.Magnitude},
		{3, &rec.MagnitudeError},
		{6, &rec.FluxDensity},
		{7, &rec.FluxDensityError},
		{8, &rec.Flux},
		{9, &rec.FluxError},
		{10, &rec.Phase},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(row[f.col], 64)
		if err != nil {
			return Record{}, fmt.Errorf("column %s: %w", Header[f.col], err)
		}
		*f.dst = v
	}
	return rec, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
