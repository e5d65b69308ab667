package utils

import (
	"testing"
	"time"
)

func TestLatencyTrackerPercentile(t *testing.T) {
	tracker := NewLatencyTracker(8)
	for i := 1; i <= 10; i++ {
		tracker.Observe(time.Duration(i) * time.Millisecond)
	}

	if got := tracker.Count(); got != 8 {
		t.Fatalf("expected bounded sample count 8, got %d", got)
	}
	// Oldest two samples were dropped, so the window is 3ms..10ms.
	if p0 := tracker.Percentile(0); p0 != 3*time.Millisecond {
		t.Fatalf("expected min 3ms, got %v", p0)
	}
	if p100 := tracker.Percentile(100); p100 != 10*time.Millisecond {
		t.Fatalf("expected max 10ms, got %v", p100)
	}
	if p95 := tracker.Percentile(95); p95 < 3*time.Millisecond || p95 > 10*time.Millisecond {
		t.Fatalf("p95 outside window: %v", p95)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	tracker := NewLatencyTracker(4)
	if got := tracker.Percentile(95); got != 0 {
		t.Fatalf("expected zero for empty tracker, got %v", got)
	}
}
