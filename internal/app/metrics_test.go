package app

import (
	"testing"
	"time"
)

func TestMetrics_RecordQuery(t *testing.T) {
	m := NewMetrics()

	m.RecordQuery(10 * time.Millisecond)
	m.RecordQuery(20 * time.Millisecond)
	m.RecordQuery(30 * time.Millisecond)

	snap := m.Snapshot()
	if snap.QueryCount != 3 {
		t.Errorf("QueryCount = %d, want 3", snap.QueryCount)
	}
	if snap.AvgQueryTimeNs != (20 * time.Millisecond).Nanoseconds() {
		t.Errorf("AvgQueryTimeNs = %d, want %d", snap.AvgQueryTimeNs, (20 * time.Millisecond).Nanoseconds())
	}
	if snap.MinQueryTimeNs != (10 * time.Millisecond).Nanoseconds() {
		t.Errorf("MinQueryTimeNs = %d, want %d", snap.MinQueryTimeNs, (10 * time.Millisecond).Nanoseconds())
	}
	if snap.MaxQueryTimeNs != (30 * time.Millisecond).Nanoseconds() {
		t.Errorf("MaxQueryTimeNs = %d, want %d", snap.MaxQueryTimeNs, (30 * time.Millisecond).Nanoseconds())
	}
	if snap.LastQueryNs != (30 * time.Millisecond).Nanoseconds() {
		t.Errorf("LastQueryNs = %d, want %d", snap.LastQueryNs, (30 * time.Millisecond).Nanoseconds())
	}
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	m := NewMetrics()
	snap := m.Snapshot()

	if snap.QueryCount != 0 {
		t.Errorf("QueryCount = %d, want 0", snap.QueryCount)
	}
	if snap.MinQueryTimeNs != 0 {
		t.Errorf("MinQueryTimeNs = %d, want 0 before any query", snap.MinQueryTimeNs)
	}
	if snap.HitRate() != 0 {
		t.Errorf("HitRate() = %v, want 0", snap.HitRate())
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordExecute()
	m.RecordInvalidation()
	m.RecordSaveError()
	m.RecordRefresh(5 * time.Millisecond)

	snap := m.Snapshot()
	if snap.CacheHits != 2 {
		t.Errorf("CacheHits = %d, want 2", snap.CacheHits)
	}
	if snap.CacheMisses != 1 {
		t.Errorf("CacheMisses = %d, want 1", snap.CacheMisses)
	}
	if snap.ExecuteCount != 1 {
		t.Errorf("ExecuteCount = %d, want 1", snap.ExecuteCount)
	}
	if snap.Invalidations != 1 {
		t.Errorf("Invalidations = %d, want 1", snap.Invalidations)
	}
	if snap.SaveErrors != 1 {
		t.Errorf("SaveErrors = %d, want 1", snap.SaveErrors)
	}
	if snap.RefreshCount != 1 {
		t.Errorf("RefreshCount = %d, want 1", snap.RefreshCount)
	}
	if snap.AvgRefreshNs != (5 * time.Millisecond).Nanoseconds() {
		t.Errorf("AvgRefreshNs = %d, want %d", snap.AvgRefreshNs, (5 * time.Millisecond).Nanoseconds())
	}
}

func TestMetricsSnapshot_HitRate(t *testing.T) {
	tests := []struct {
		hits   uint64
		misses uint64
		want   float64
	}{
		{0, 0, 0},
		{1, 1, 50},
		{3, 1, 75},
		{0, 4, 0},
		{4, 0, 100},
	}

	for _, tt := range tests {
		snap := MetricsSnapshot{CacheHits: tt.hits, CacheMisses: tt.misses}
		if got := snap.HitRate(); got != tt.want {
			t.Errorf("HitRate(%d, %d) = %v, want %v", tt.hits, tt.misses, got, tt.want)
		}
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()

	m.RecordQuery(time.Millisecond)
	m.RecordCacheHit()
	m.RecordExecute()
	m.Reset()

	snap := m.Snapshot()
	if snap.QueryCount != 0 || snap.CacheHits != 0 || snap.ExecuteCount != 0 {
		t.Errorf("counters after Reset = %+v, want zeros", snap)
	}
	if snap.MinQueryTimeNs != 0 {
		t.Errorf("MinQueryTimeNs after Reset = %d, want 0", snap.MinQueryTimeNs)
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(10 * time.Millisecond)

	if elapsed := timer.Elapsed(); elapsed < 10*time.Millisecond {
		t.Errorf("Elapsed() = %v, want >= 10ms", elapsed)
	}
	if ms := timer.ElapsedMs(); ms < 10 {
		t.Errorf("ElapsedMs() = %v, want >= 10", ms)
	}
}

func TestGetMetrics(t *testing.T) {
	m := GetMetrics()
	if m == nil {
		t.Fatal("GetMetrics() returned nil")
	}
	if GetMetrics() != m {
		t.Error("expected GetMetrics() to return same instance")
	}
}
