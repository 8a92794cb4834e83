package benchmarks

import (
	"slices"
	"testing"
	"time"
)

// Latencies collects per-operation durations so benchmarks can report tail
// latency next to the ns/op average.
type Latencies struct {
	Durations []time.Duration
}

func NewLatencies(capacity int) *Latencies {
	return &Latencies{Durations: make([]time.Duration, 0, capacity)}
}

// Time runs fn and records how long it took.
func (l *Latencies) Time(fn func()) {
	start := time.Now()
	fn()
	l.Durations = append(l.Durations, time.Since(start))
}

func (l *Latencies) P50() time.Duration { return l.percentile(0.50) }
func (l *Latencies) P95() time.Duration { return l.percentile(0.95) }
func (l *Latencies) P99() time.Duration { return l.percentile(0.99) }

func (l *Latencies) percentile(p float64) time.Duration {
	if len(l.Durations) == 0 {
		return 0
	}
	sorted := slices.Clone(l.Durations)
	slices.Sort(sorted)
	return sorted[int(float64(len(sorted)-1)*p)]
}

// Report attaches the percentiles to the benchmark output.
func (l *Latencies) Report(b *testing.B) {
	b.ReportMetric(float64(l.P50().Nanoseconds()), "ns_p50")
	b.ReportMetric(float64(l.P95().Nanoseconds()), "ns_p95")
	b.ReportMetric(float64(l.P99().Nanoseconds()), "ns_p99")
}
