package service

import (
	"sync/atomic"
	"time"

	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/domain"
)

// Metrics tracks generation runs for the lifetime of the process.
type Metrics struct {
	requests        atomic.Int64
	rejected        atomic.Int64
	completed       atomic.Int64
	failed          atomic.Int64
	cancelled       atomic.Int64
	fragments       atomic.Int64
	bytes           atomic.Int64
	upstreamLatency atomic.Int64 // time to first fragment, nanoseconds
	firstFragments  atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Requests          int64   `json:"requests"`
	Rejected          int64   `json:"rejected"`
	Completed         int64   `json:"completed"`
	Failed            int64   `json:"failed"`
	Cancelled         int64   `json:"cancelled"`
	Fragments         int64   `json:"fragments"`
	Bytes             int64   `json:"bytes"`
	AvgFirstFragMs    float64 `json:"avg_first_fragment_ms"`
	UpstreamErrorRate float64 `json:"upstream_error_rate"`
}

func NewMetrics() *Metrics { return &Metrics{} }

// Snapshot returns the current metrics snapshot
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Requests:  m.requests.Load(),
		Rejected:  m.rejected.Load(),
		Completed: m.completed.Load(),
		Failed:    m.failed.Load(),
		Cancelled: m.cancelled.Load(),
		Fragments: m.fragments.Load(),
		Bytes:     m.bytes.Load(),
	}
	if n := m.firstFragments.Load(); n > 0 {
		s.AvgFirstFragMs = float64(m.upstreamLatency.Load()) / float64(n) / 1e6
	}
	if finished := s.Completed + s.Failed + s.Rejected; finished > 0 {
		s.UpstreamErrorRate = float64(s.Failed+s.Rejected) / float64(finished) * 100
	}
	return s
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.requests, &m.rejected, &m.completed, &m.failed, &m.cancelled,
		&m.fragments, &m.bytes, &m.upstreamLatency, &m.firstFragments,
	} {
		c.Store(0)
	}
}

func (m *Metrics) recordRequest() { m.requests.Add(1) }

// recordRejected counts streams that failed to open at all.
func (m *Metrics) recordRejected() { m.rejected.Add(1) }

func (m *Metrics) recordFirstFragment(d time.Duration) {
	m.firstFragments.Add(1)
	m.upstreamLatency.Add(d.Nanoseconds())
}

func (m *Metrics) recordFragment(f domain.Fragment) {
	m.fragments.Add(1)
	m.bytes.Add(int64(len(f)))
}

func (m *Metrics) recordOutcome(state domain.StreamState) {
	switch state {
	case domain.StateCompleted:
		m.completed.Add(1)
	case domain.StateFailed:
		m.failed.Add(1)
	case domain.StateCancelled:
		m.cancelled.Add(1)
	}
}
