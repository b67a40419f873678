package perf

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestCollector_RecordAndSnapshot verifies request and query aggregation.
func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := NewCollector(100, nil)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /api/admin/bookings", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /api/admin/bookings", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "QueryContext", DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 3 || snap.Requests != 2 {
		t.Errorf("TotalRecorded = %d, Requests = %d", snap.TotalRecorded, snap.Requests)
	}
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].AvgMs != 20 || snap.SlowestPaths[0].MaxMs != 30 {
		t.Fatalf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Count != 1 {
		t.Fatalf("SlowestQueries = %+v", snap.SlowestQueries)
	}
}

// TestCollector_RingOverwrites verifies oldest entries drop out when full.
func TestCollector_RingOverwrites(t *testing.T) {
	c := NewCollector(3, nil)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /x", DurationMs: float64(i), Timestamp: now})
	}
	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.SlowestPaths[0].Count != 3 || snap.SlowestPaths[0].AvgMs != 3 {
		t.Errorf("ring should keep entries 2,3,4, got %+v", snap.SlowestPaths[0])
	}
}

// TestCollector_Percentiles verifies interpolation over 1..100.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200, nil)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /p", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 50 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v", snap.RequestP50Ms)
	}
	if snap.RequestP99Ms < 98 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v", snap.RequestP99Ms)
	}
}

// TestCollector_SnapshotSince verifies old entries are excluded.
func TestCollector_SnapshotSince(t *testing.T) {
	c := NewCollector(10, nil)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Path: "GET /old", DurationMs: 100, Timestamp: now.Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindRequest, Path: "GET /new", DurationMs: 10, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "GET /new" {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
}

// TestCollector_Prometheus verifies entries reach the registered histograms.
func TestCollector_Prometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(10, reg)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Path: "GET /", StatusCode: 200, DurationMs: 3, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "POST /booking", StatusCode: 303, DurationMs: 8, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "ExecContext", DurationMs: 1, Timestamp: now})

	if n := testutil.CollectAndCount(c.requests); n != 2 {
		t.Errorf("request series = %d, want 2", n)
	}
	if n := testutil.CollectAndCount(c.queries); n != 1 {
		t.Errorf("query series = %d, want 1", n)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(mfs) != 2 {
		t.Errorf("registered families = %d, want 2", len(mfs))
	}
}

// TestCollector_ConcurrentWrites verifies Record is goroutine safe.
func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(1000, prometheus.NewRegistry())
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Record(Entry{Kind: KindRequest, Path: "GET /c", StatusCode: 200, DurationMs: float64(n), Timestamp: now})
			}
		}(i)
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}

// BenchmarkCollectorRecord measures per-call cost of Record.
func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize, nil)
	e := Entry{Kind: KindRequest, Path: "GET /bench", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}
