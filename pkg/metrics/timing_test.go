package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestTimingMetric_RecordAndStats(t *testing.T) {
	prev := enabled
	enabled = true
	t.Cleanup(func() { enabled = prev })

	m := newTimingMetric("sample")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	s := m.Stats()
	if s.Count != 2 {
		t.Fatalf("Count = %d, want 2", s.Count)
	}
	if s.Max != 4*time.Millisecond || s.Min != 2*time.Millisecond || s.Avg != 3*time.Millisecond {
		t.Fatalf("unexpected stats %+v", s)
	}

	m.Reset()
	if m.Count() != 0 {
		t.Fatalf("Reset did not clear count")
	}
}

func TestTimer_DisabledRecordsNothing(t *testing.T) {
	prev := enabled
	enabled = false
	t.Cleanup(func() { enabled = prev })

	m := newTimingMetric("off")
	Timer(m)()
	if m.Count() != 0 {
		t.Fatalf("disabled Timer recorded %d samples", m.Count())
	}
}

func TestReport_OnlyListsMetricsWithData(t *testing.T) {
	prev := enabled
	enabled = true
	t.Cleanup(func() {
		enabled = prev
		ResetAll()
	})

	ResetAll()
	Request.Record(10 * time.Millisecond)

	out := Report()
	if !strings.Contains(out, "request: n=1") {
		t.Fatalf("Report missing request line: %q", out)
	}
	if strings.Contains(out, "export:") {
		t.Fatalf("Report lists metric without data: %q", out)
	}
}
