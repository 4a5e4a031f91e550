package content

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// FetchSummary aggregates the downloads of one run.
type FetchSummary struct {
	Requests int
	Failed   int
	Min      time.Duration
	Max      time.Duration
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
}

func (s FetchSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("requests", s.Requests),
		slog.Int("failed", s.Failed),
		slog.Duration("min", s.Min),
		slog.Duration("max", s.Max),
		slog.Duration("mean", s.Mean),
		slog.Duration("p50", s.P50),
		slog.Duration("p95", s.P95),
		slog.Duration("p99", s.P99),
	)
}

// Stats collects download latencies. Safe for concurrent use.
type Stats struct {
	mu      sync.Mutex
	samples []time.Duration
	failed  int
}

func NewStats() *Stats {
	return &Stats{}
}

// Record adds one download. Negative durations count as zero.
func (s *Stats) Record(d time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, max(d, 0))
	if !ok {
		s.failed++
	}
}

func (s *Stats) Summary() FetchSummary {
	s.mu.Lock()
	sorted := slices.Clone(s.samples)
	failed := s.failed
	s.mu.Unlock()

	if len(sorted) == 0 {
		return FetchSummary{}
	}
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	return FetchSummary{
		Requests: len(sorted),
		Failed:   failed,
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Mean:     total / time.Duration(len(sorted)),
		P50:      quantile(sorted, 0.50),
		P95:      quantile(sorted, 0.95),
		P99:      quantile(sorted, 0.99),
	}
}

// quantile interpolates between the two nearest ranks of sorted.
func quantile(sorted []time.Duration, q float64) time.Duration {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + time.Duration(frac*float64(sorted[lo+1]-sorted[lo]))
}
