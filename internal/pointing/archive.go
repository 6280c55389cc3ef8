package pointing

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Archive column names.
const (
	ColMJD   = "expMJD"
	ColRA    = "_ra"
	ColDec   = "_dec"
	ColBand  = "filter"
	ColDepth = "fiveSigmaDepth"
)

var archiveColumns = []string{ColMJD, ColRA, ColDec, ColBand, ColDepth}

// ParseArchive reads a gzip-compressed CSV pointing archive. Columns may
// appear in any order and extra columns are ignored; a missing column or a
// malformed row is an error.
func ParseArchive(r io.Reader) ([]Pointing, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer zr.Close()

	cr := csv.NewReader(zr)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading archive header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	cols := make([]int, len(archiveColumns))
	for i, name := range archiveColumns {
		c, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("archive is missing column %q", name)
		}
		cols[i] = c
	}

	var out []Pointing
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive line %d: %w", line, err)
		}

		var nums [4]float64
		for i, col := range []int{cols[0], cols[1], cols[2], cols[4]} {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("archive line %d column %s: %w", line, header[col], err)
			}
			nums[i] = v
		}
		band := strings.TrimSpace(rec[cols[3]])
		if band == "" {
			return nil, fmt.Errorf("archive line %d: empty filter", line)
		}
		out = append(out, Pointing{
			MJD:            nums[0],
			RADeg:          nums[1],
			DecDeg:         nums[2],
			Filter:         band,
			FiveSigmaDepth: nums[3],
		})
	}
	return out, nil
}

// WriteArchive writes pointings in the format ParseArchive reads.
func WriteArchive(w io.Writer, pointings []Pointing) error {
	zw := gzip.NewWriter(w)
	cw := csv.NewWriter(zw)
	if err := cw.Write(archiveColumns); err != nil {
		return fmt.Errorf("writing archive header: %w", err)
	}

	row := make([]string, len(archiveColumns))
	for _, p := range pointings {
		row[0] = formatFloat(p.MJD)
		row[1] = formatFloat(p.RADeg)
		row[2] = formatFloat(p.DecDeg)
		row[3] = p.Filter
		row[4] = formatFloat(p.FiveSigmaDepth)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing archive row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing archive: %w", err)
	}
	return zw.Close()
}

// ReadArchiveFile parses the archive at path into a Table whose Source is
// the file name.
func ReadArchiveFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	pts, err := ParseArchive(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &Table{Source: filepath.Base(path), Pointings: pts}, nil
}

// WriteArchiveFile writes t to path through a temporary file in the same
// directory, creating the directory if needed.
func WriteArchiveFile(path string, t *Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".archive-*")
	if err != nil {
		return fmt.Errorf("creating temp archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteArchive(tmp, t.Pointings); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("installing archive: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
