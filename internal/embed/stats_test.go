package embed

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	s := NewStats(time.Hour)

	// 100 samples: 5, 10, 15, ..., 500.
	for i := 1; i <= 100; i++ {
		s.Record(int64(i * 5))
	}

	snap := s.SnapshotNow()
	if snap.Count != 100 {
		t.Fatalf("expected 100 samples, got %d", snap.Count)
	}
	if snap.MinMs != 5 {
		t.Errorf("expected min 5, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Errorf("expected max 500, got %d", snap.MaxMs)
	}

	wantAvg := 252.5
	if snap.AvgMs != wantAvg {
		t.Errorf("expected avg %v, got %v", wantAvg, snap.AvgMs)
	}
	if snap.P50Ms != 252.5 {
		t.Errorf("expected p50 252.5, got %v", snap.P50Ms)
	}
	if snap.P95Ms != 475.25 {
		t.Errorf("expected p95 475.25, got %v", snap.P95Ms)
	}
	if snap.P99Ms != 495.05 {
		t.Errorf("expected p99 495.05, got %v", snap.P99Ms)
	}
}

func TestStatsEmptySnapshot(t *testing.T) {
	s := NewStats(time.Hour)
	snap := s.SnapshotNow()
	if snap.Count != 0 || snap.MinMs != 0 || snap.P99Ms != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	s := NewStats(50 * time.Millisecond)

	s.Record(100)
	s.Record(200)
	time.Sleep(80 * time.Millisecond)
	s.Record(300)

	snap := s.SnapshotNow()
	if snap.Count != 1 {
		t.Fatalf("expected 1 surviving sample, got %d", snap.Count)
	}
	if snap.MinMs != 300 || snap.MaxMs != 300 {
		t.Errorf("expected only the fresh sample, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(-50)

	snap := s.SnapshotNow()
	if snap.Count != 1 {
		t.Fatalf("expected 1 sample, got %d", snap.Count)
	}
	if snap.MinMs != 0 {
		t.Errorf("expected negative duration clamped to 0, got %d", snap.MinMs)
	}
}

func TestStatsSingleSample(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(42)

	snap := s.SnapshotNow()
	if snap.Count != 1 || snap.MinMs != 42 || snap.MaxMs != 42 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.P50Ms != 42 || snap.P95Ms != 42 || snap.P99Ms != 42 {
		t.Errorf("expected all percentiles to equal the lone sample, got %+v", snap)
	}
}
