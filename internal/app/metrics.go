package app

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks launcher performance counters.
type Metrics struct {
	// Query timing
	queryCount   atomic.Uint64
	queryTotalNs atomic.Int64
	queryMinNs   atomic.Int64
	queryMaxNs   atomic.Int64
	lastQueryNs  atomic.Int64

	// View cache
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Launches and refreshes
	executeCount  atomic.Uint64
	refreshCount  atomic.Uint64
	refreshNs     atomic.Int64
	invalidations atomic.Uint64
	saveErrors    atomic.Uint64

	// Start time for uptime calculation
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so the first query will be smaller
	m.queryMinNs.Store(1<<63 - 1)
	return m
}

// RecordQuery records view assembly timing.
func (m *Metrics) RecordQuery(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.queryCount.Add(1)
	m.queryTotalNs.Add(ns)
	m.lastQueryNs.Store(ns)

	// Update min (atomic compare-and-swap loop)
	for {
		old := m.queryMinNs.Load()
		if ns >= old {
			break
		}
		if m.queryMinNs.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.queryMaxNs.Load()
		if ns <= old {
			break
		}
		if m.queryMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordCacheHit records a view served from the query cache.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a view that had to be assembled.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordExecute records a launched candidate.
func (m *Metrics) RecordExecute() {
	m.executeCount.Add(1)
}

// RecordRefresh records a pool rebuild and its duration.
func (m *Metrics) RecordRefresh(duration time.Duration) {
	m.refreshCount.Add(1)
	m.refreshNs.Add(duration.Nanoseconds())
}

// RecordInvalidation records a consumed watcher signal.
func (m *Metrics) RecordInvalidation() {
	m.invalidations.Add(1)
}

// RecordSaveError records a failed usage store write.
func (m *Metrics) RecordSaveError() {
	m.saveErrors.Add(1)
}

// Snapshot returns a point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	queryCount := m.queryCount.Load()
	refreshCount := m.refreshCount.Load()

	var avgQueryNs int64
	if queryCount > 0 {
		avgQueryNs = m.queryTotalNs.Load() / int64(queryCount)
	}

	var avgRefreshNs int64
	if refreshCount > 0 {
		avgRefreshNs = m.refreshNs.Load() / int64(refreshCount)
	}

	minQueryNs := m.queryMinNs.Load()
	if minQueryNs == 1<<63-1 {
		minQueryNs = 0
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		QueryCount:     queryCount,
		AvgQueryTimeNs: avgQueryNs,
		MinQueryTimeNs: minQueryNs,
		MaxQueryTimeNs: m.queryMaxNs.Load(),
		LastQueryNs:    m.lastQueryNs.Load(),
		CacheHits:      m.cacheHits.Load(),
		CacheMisses:    m.cacheMisses.Load(),
		ExecuteCount:   m.executeCount.Load(),
		RefreshCount:   refreshCount,
		AvgRefreshNs:   avgRefreshNs,
		Invalidations:  m.invalidations.Load(),
		SaveErrors:     m.saveErrors.Load(),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.queryCount.Store(0)
	m.queryTotalNs.Store(0)
	m.queryMinNs.Store(1<<63 - 1)
	m.queryMaxNs.Store(0)
	m.lastQueryNs.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.executeCount.Store(0)
	m.refreshCount.Store(0)
	m.refreshNs.Store(0)
	m.invalidations.Store(0)
	m.saveErrors.Store(0)
	m.startTime = time.Now()
}

// MetricsSnapshot is a point-in-time view of the metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	QueryCount     uint64
	AvgQueryTimeNs int64
	MinQueryTimeNs int64
	MaxQueryTimeNs int64
	LastQueryNs    int64
	CacheHits      uint64
	CacheMisses    uint64
	ExecuteCount   uint64
	RefreshCount   uint64
	AvgRefreshNs   int64
	Invalidations  uint64
	SaveErrors     uint64
}

// HitRate returns the percentage of queries served from the cache.
func (s MetricsSnapshot) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total) * 100
}

// AvgQueryMs returns the average view assembly time in milliseconds.
func (s MetricsSnapshot) AvgQueryMs() float64 {
	return float64(s.AvgQueryTimeNs) / 1e6
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ElapsedMs returns the elapsed time in milliseconds.
func (t *Timer) ElapsedMs() float64 {
	return float64(t.Elapsed().Nanoseconds()) / 1e6
}

// appMetrics is the application-wide metrics instance.
var (
	appMetrics     *Metrics
	appMetricsOnce sync.Once
)

// GetMetrics returns the application metrics.
func GetMetrics() *Metrics {
	appMetricsOnce.Do(func() {
		if appMetrics == nil {
			appMetrics = NewMetrics()
		}
	})
	return appMetrics
}

// SetMetrics sets the application-wide metrics.
func SetMetrics(m *Metrics) {
	appMetrics = m
}

// Metrics returns the App's metrics instance.
func (a *App) Metrics() *Metrics {
	if a.metrics == nil {
		return GetMetrics()
	}
	return a.metrics
}
