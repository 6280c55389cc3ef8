package pointing

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func writeSurvey(t *testing.T, dir, name string, pts []Pointing) {
	t.Helper()
	s, err := LookupSurvey(name)
	if err != nil {
		t.Fatal(err)
	}
	a := NewArchives(dir, testLogger)
	if err := WriteArchiveFile(a.Path(s), &Table{Pointings: pts}); err != nil {
		t.Fatal(err)
	}
}

func TestArchivesLoad(t *testing.T) {
	dir := t.TempDir()
	writeSurvey(t, dir, "ZTF_wfd", []Pointing{
		{MJD: 59000, RADeg: 1, DecDeg: 2, Filter: "ztfg", FiveSigmaDepth: 20.5},
		{MJD: 59001, RADeg: 3, DecDeg: 4, Filter: "ztfr", FiveSigmaDepth: 20.3},
	})

	a := NewArchives(dir, testLogger)
	t1, s, err := a.Load("ZTF_wfd")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.FOVArea != ztfFOV || s.Name != "ZTF_wfd" {
		t.Errorf("survey = %+v", s)
	}
	if t1.Len() != 2 {
		t.Errorf("Len = %d, want 2", t1.Len())
	}

	// A second request is served from memory even if the file is gone.
	if err := os.Remove(a.Path(s)); err != nil {
		t.Fatal(err)
	}
	t2, _, err := a.Load("ZTF_wfd")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if t1 != t2 {
		t.Error("second Load returned a different table")
	}
}

func TestArchivesLoadConcurrent(t *testing.T) {
	dir := t.TempDir()
	writeSurvey(t, dir, "Rubin_10yr_wfd", []Pointing{{MJD: 1, Filter: "lsstg", FiveSigmaDepth: 24}})
	a := NewArchives(dir, testLogger)

	var wg sync.WaitGroup
	tables := make([]*Table, 8)
	for i := range tables {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tbl, _, err := a.Load("Rubin_10yr_wfd")
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			tables[i] = tbl
		}()
	}
	wg.Wait()

	for i := 1; i < len(tables); i++ {
		if tables[i] != tables[0] {
			t.Fatalf("goroutine %d got a different table", i)
		}
	}
	if a.Loaded() != 1 {
		t.Errorf("Loaded = %d, want 1", a.Loaded())
	}
}

func TestArchivesUnknownSurvey(t *testing.T) {
	a := NewArchives(t.TempDir(), testLogger)
	tbl, _, err := a.Load("Foo_Survey")
	if !errors.Is(err, ErrUnknownSurvey) {
		t.Fatalf("Load(Foo_Survey) = %v, want ErrUnknownSurvey", err)
	}
	if tbl != nil {
		t.Error("expected no table for unknown survey")
	}
}

func TestArchivesMissingFile(t *testing.T) {
	a := NewArchives(t.TempDir(), testLogger)
	if _, _, err := a.Load("ZTF_deep"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load with no archive = %v, want os.ErrNotExist", err)
	}
	if a.Loaded() != 0 {
		t.Error("failed load was cached")
	}
}

func TestSurveys(t *testing.T) {
	all := Surveys()
	if len(all) != 6 {
		t.Fatalf("got %d surveys, want 6", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Errorf("surveys not sorted: %s before %s", all[i-1].Name, all[i].Name)
		}
	}
	s, err := LookupSurvey("Rubin_10yr_baseline")
	if err != nil {
		t.Fatal(err)
	}
	if s.File != "rubin_baseline_nexp1_v1_7_10yrs.csv.gz" || s.FOVArea != 9.6 {
		t.Errorf("Rubin_10yr_baseline = %+v", s)
	}
}

func TestTableSummaries(t *testing.T) {
	tbl := &Table{Pointings: []Pointing{
		{MJD: 5, DecDeg: -10, Filter: "r"},
		{MJD: 2, DecDeg: 40, Filter: "g"},
		{MJD: 9, DecDeg: 0, Filter: "r"},
	}}
	if s, e := tbl.Span(); s != 2 || e != 9 {
		t.Errorf("Span = (%g, %g), want (2, 9)", s, e)
	}
	if lo, hi := tbl.DecRange(); lo != -10 || hi != 40 {
		t.Errorf("DecRange = (%g, %g), want (-10, 40)", lo, hi)
	}
	if f := tbl.Filters(); len(f) != 2 || f[0] != "g" || f[1] != "r" {
		t.Errorf("Filters = %v, want [g r]", f)
	}
	if sub := tbl.Subset([]int{2, 0}); sub[0].MJD != 9 || sub[1].MJD != 5 {
		t.Errorf("Subset = %+v", sub)
	}

	var empty *Table
	if s, e := empty.Span(); s != 0 || e != 0 || empty.Filters() != nil {
		t.Error("nil table should summarise to zeros")
	}
}
