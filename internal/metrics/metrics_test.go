package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func counterValue(t *testing.T, r *Recorder, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				return g.GetValue()
			}
		}
	}
	return 0
}

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.Scraped("tate-modern", 12)
	r.Scraped("tate-modern", 3)
	r.Reconciled("tate-modern", 4, 11)
	r.Errors("tate-modern", "reconcile", 1)
	r.Errors("tate-modern", "fetch", 0)

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"artsea_events_scraped_total", map[string]string{"venue": "tate-modern"}, 15},
		{"artsea_events_inserted_total", map[string]string{"venue": "tate-modern"}, 4},
		{"artsea_events_updated_total", map[string]string{"venue": "tate-modern"}, 11},
		{"artsea_errors_total", map[string]string{"venue": "tate-modern", "stage": "reconcile"}, 1},
		{"artsea_errors_total", map[string]string{"venue": "tate-modern", "stage": "fetch"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := counterValue(t, r, tt.name, tt.labels); got != tt.want {
				t.Errorf("%s%v = %v, want %v", tt.name, tt.labels, got, tt.want)
			}
		})
	}
}

func TestRecorder_VenueDone(t *testing.T) {
	r := New()

	r.VenueDone("ok-venue", 2*time.Second, true)
	r.VenueDone("bad-venue", time.Second, false)

	if got := counterValue(t, r, "artsea_last_success_timestamp_seconds", map[string]string{"venue": "ok-venue"}); got == 0 {
		t.Error("successful venue has no success timestamp")
	}
	if got := counterValue(t, r, "artsea_last_success_timestamp_seconds", map[string]string{"venue": "bad-venue"}); got != 0 {
		t.Errorf("failed venue success timestamp = %v, want unset", got)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.Scraped("barbican-centre", 2)
	r.RunDone(90 * time.Second)

	path := filepath.Join(t.TempDir(), "artsea.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading metrics file: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`artsea_events_scraped_total{venue="barbican-centre"} 2`,
		"artsea_run_duration_seconds 90",
		"# HELP artsea_events_scraped_total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics file missing %q:\n%s", want, out)
		}
	}
}

func TestRecorder_WriteTextfile_BadPath(t *testing.T) {
	r := New()
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")); err == nil {
		t.Error("expected error writing to a missing directory")
	}
}
