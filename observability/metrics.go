package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/probelab/accessprobe/access"
)

// Metrics collects in-process invocation statistics keyed by
// catalogue.
type Metrics struct {
	catalogStats  map[string]*CatalogStats
	totalDuration int64
	minDuration   int64
	maxDuration   int64
	durationCount int64
	total         int64
	succeeded     int64
	failed        int64
	unsupported   int64
	rateLimited   int64
	canceled      int64
	mu            sync.RWMutex
}

// CatalogStats contains per-catalogue statistics.
type CatalogStats struct {
	LastAccessAt  time.Time
	Catalog       string
	LastStatus    string
	Total         int64
	Succeeded     int64
	Failed        int64
	TotalDuration int64
	AvgDuration   int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		catalogStats: make(map[string]*CatalogStats),
		minDuration:  -1,
	}
}

// RecordAccess records one invocation report.
func (m *Metrics) RecordAccess(report *access.Report) {
	if report == nil {
		return
	}
	atomic.AddInt64(&m.total, 1)

	switch report.Status {
	case access.StatusSuccess:
		atomic.AddInt64(&m.succeeded, 1)
	case access.StatusUnsupported:
		atomic.AddInt64(&m.unsupported, 1)
		atomic.AddInt64(&m.failed, 1)
	case access.StatusRateLimited:
		atomic.AddInt64(&m.rateLimited, 1)
		atomic.AddInt64(&m.failed, 1)
	case access.StatusCanceled:
		atomic.AddInt64(&m.canceled, 1)
		atomic.AddInt64(&m.failed, 1)
	default:
		atomic.AddInt64(&m.failed, 1)
	}

	duration := report.Duration.Nanoseconds()
	atomic.AddInt64(&m.totalDuration, duration)
	atomic.AddInt64(&m.durationCount, 1)

	for {
		old := atomic.LoadInt64(&m.minDuration)
		if old >= 0 && duration >= old {
			break
		}
		if atomic.CompareAndSwapInt64(&m.minDuration, old, duration) {
			break
		}
	}

	for {
		old := atomic.LoadInt64(&m.maxDuration)
		if duration <= old {
			break
		}
		if atomic.CompareAndSwapInt64(&m.maxDuration, old, duration) {
			break
		}
	}

	m.updateCatalogStats(report)
}

func (m *Metrics) updateCatalogStats(report *access.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.catalogStats[report.Catalog]
	if !ok {
		stats = &CatalogStats{Catalog: report.Catalog}
		m.catalogStats[report.Catalog] = stats
	}

	stats.Total++
	stats.TotalDuration += report.Duration.Nanoseconds()
	stats.AvgDuration = stats.TotalDuration / stats.Total
	stats.LastAccessAt = time.Now()
	stats.LastStatus = report.Status.String()

	if report.Status == access.StatusSuccess {
		stats.Succeeded++
	} else {
		stats.Failed++
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Total:        atomic.LoadInt64(&m.total),
		Succeeded:    atomic.LoadInt64(&m.succeeded),
		Failed:       atomic.LoadInt64(&m.failed),
		Unsupported:  atomic.LoadInt64(&m.unsupported),
		RateLimited:  atomic.LoadInt64(&m.rateLimited),
		Canceled:     atomic.LoadInt64(&m.canceled),
		AvgDuration:  m.avgDuration(),
		MinDuration:  time.Duration(atomic.LoadInt64(&m.minDuration)),
		MaxDuration:  time.Duration(atomic.LoadInt64(&m.maxDuration)),
		CatalogStats: m.getCatalogStats(),
	}
}

// MetricsSnapshot is a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	CatalogStats map[string]*CatalogStats
	Total        int64
	Succeeded    int64
	Failed       int64
	Unsupported  int64
	RateLimited  int64
	Canceled     int64
	AvgDuration  time.Duration
	MinDuration  time.Duration
	MaxDuration  time.Duration
}

// SuccessRate returns the success rate as a percentage.
func (s MetricsSnapshot) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100
}

// ErrorRate returns the error rate as a percentage.
func (s MetricsSnapshot) ErrorRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Total) * 100
}

func (m *Metrics) avgDuration() time.Duration {
	count := atomic.LoadInt64(&m.durationCount)
	if count == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&m.totalDuration) / count)
}

func (m *Metrics) getCatalogStats() map[string]*CatalogStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]*CatalogStats, len(m.catalogStats))
	for k, v := range m.catalogStats {
		copied := *v
		result[k] = &copied
	}
	return result
}

// Reset resets all metrics.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.total, 0)
	atomic.StoreInt64(&m.succeeded, 0)
	atomic.StoreInt64(&m.failed, 0)
	atomic.StoreInt64(&m.unsupported, 0)
	atomic.StoreInt64(&m.rateLimited, 0)
	atomic.StoreInt64(&m.canceled, 0)
	atomic.StoreInt64(&m.totalDuration, 0)
	atomic.StoreInt64(&m.durationCount, 0)
	atomic.StoreInt64(&m.minDuration, -1)
	atomic.StoreInt64(&m.maxDuration, 0)

	m.mu.Lock()
	m.catalogStats = make(map[string]*CatalogStats)
	m.mu.Unlock()
}

// MetricsHook bridges the metrics collector into the runner's hook
// chain.
type MetricsHook struct {
	metrics *Metrics
}

// NewMetricsHook creates a metrics hook over the given collector.
func NewMetricsHook(metrics *Metrics) *MetricsHook {
	return &MetricsHook{metrics: metrics}
}

// PreAccess implements the runner hook contract.
func (h *MetricsHook) PreAccess(ctx context.Context, catalog string, id int) error {
	return nil
}

// PostAccess records the finished invocation.
func (h *MetricsHook) PostAccess(ctx context.Context, report *access.Report, accessErr error) error {
	h.metrics.RecordAccess(report)
	return nil
}
