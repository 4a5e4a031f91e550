package content

import (
	"sync"
	"testing"
	"time"
)

func within(got, want time.Duration) bool {
	d := got - want
	return d > -time.Microsecond && d < time.Microsecond
}

func TestStatsSummary(t *testing.T) {
	stats := NewStats()
	for _, ms := range []int{300, 100, 500, 200, 400} {
		stats.Record(time.Duration(ms)*time.Millisecond, ms != 500)
	}

	sum := stats.Summary()
	if sum.Requests != 5 || sum.Failed != 1 {
		t.Fatalf("expected 5 requests with 1 failure, got %+v", sum)
	}
	if sum.Min != 100*time.Millisecond || sum.Max != 500*time.Millisecond {
		t.Errorf("unexpected range %v..%v", sum.Min, sum.Max)
	}
	if sum.Mean != 300*time.Millisecond {
		t.Errorf("expected mean 300ms, got %v", sum.Mean)
	}
	if !within(sum.P50, 300*time.Millisecond) {
		t.Errorf("expected p50 300ms, got %v", sum.P50)
	}
	if !within(sum.P95, 480*time.Millisecond) {
		t.Errorf("expected p95 480ms, got %v", sum.P95)
	}
	if !within(sum.P99, 496*time.Millisecond) {
		t.Errorf("expected p99 496ms, got %v", sum.P99)
	}
}

func TestStatsSummarySingleSample(t *testing.T) {
	stats := NewStats()
	stats.Record(42*time.Millisecond, true)
	sum := stats.Summary()
	if sum.P50 != 42*time.Millisecond || sum.P95 != 42*time.Millisecond || sum.P99 != 42*time.Millisecond {
		t.Errorf("expected every quantile to be the sample, got %+v", sum)
	}
}

func TestStatsEmptySummary(t *testing.T) {
	if sum := NewStats().Summary(); sum != (FetchSummary{}) {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}

func TestStatsNegativeDuration(t *testing.T) {
	stats := NewStats()
	stats.Record(-time.Second, true)
	if sum := stats.Summary(); sum.Min != 0 || sum.Max != 0 {
		t.Fatalf("expected clamped duration, got %+v", sum)
	}
}

func TestStatsConcurrentRecord(t *testing.T) {
	stats := NewStats()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.Record(time.Duration(i)*time.Millisecond, i%5 != 0)
		}()
	}
	wg.Wait()
	if sum := stats.Summary(); sum.Requests != 50 || sum.Failed != 10 {
		t.Fatalf("expected 50 requests with 10 failures, got %+v", sum)
	}
}
