package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrack(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"success", nil, OutcomeOK},
		{"failure", errors.New("boom"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(runsTotal.WithLabelValues("test_track", tt.outcome))
			got := Track("test_track", func() error { return tt.err })
			if !errors.Is(got, tt.err) {
				t.Errorf("Track returned %v, want %v", got, tt.err)
			}
			after := testutil.ToFloat64(runsTotal.WithLabelValues("test_track", tt.outcome))
			if after-before != 1 {
				t.Errorf("runs_total{outcome=%s} grew by %g, want 1", tt.outcome, after-before)
			}
		})
	}
}

func TestObserveEvent(t *testing.T) {
	events := testutil.ToFloat64(eventsTotal.WithLabelValues("test_event"))
	g := testutil.ToFloat64(recordsTotal.WithLabelValues("test_g"))
	r := testutil.ToFloat64(recordsTotal.WithLabelValues("test_r"))

	ObserveEvent("test_event", 5, map[string]int{"test_g": 2, "test_r": 3})

	if d := testutil.ToFloat64(eventsTotal.WithLabelValues("test_event")) - events; d != 1 {
		t.Errorf("events_total grew by %g, want 1", d)
	}
	if d := testutil.ToFloat64(recordsTotal.WithLabelValues("test_g")) - g; d != 2 {
		t.Errorf("records_total{band=test_g} grew by %g, want 2", d)
	}
	if d := testutil.ToFloat64(recordsTotal.WithLabelValues("test_r")) - r; d != 3 {
		t.Errorf("records_total{band=test_r} grew by %g, want 3", d)
	}
}

func TestWriteTextfile(t *testing.T) {
	Track("test_textfile", func() error { return nil })

	path := filepath.Join(t.TempDir(), "transientsim.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `transientsim_runs_total{mode="test_textfile",outcome="ok"}`) {
		t.Errorf("textfile missing runs_total sample:\n%s", data)
	}
}
