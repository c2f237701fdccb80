package observability

import (
	"context"
	"testing"
	"time"

	"github.com/probelab/accessprobe/access"
)

func report(catalog string, status access.Status, d time.Duration) *access.Report {
	return &access.Report{
		ID:       "test",
		Catalog:  catalog,
		MethodID: 1,
		Status:   status,
		Duration: d,
	}
}

func TestMetricsRecordAccess(t *testing.T) {
	m := NewMetrics()
	m.RecordAccess(report("fs.read", access.StatusSuccess, 10*time.Millisecond))
	m.RecordAccess(report("fs.read", access.StatusFailure, 30*time.Millisecond))
	m.RecordAccess(report("net.connect", access.StatusUnsupported, 20*time.Millisecond))
	m.RecordAccess(nil)

	snap := m.Snapshot()
	if snap.Total != 3 {
		t.Errorf("Total = %d, want 3", snap.Total)
	}
	if snap.Succeeded != 1 || snap.Failed != 2 || snap.Unsupported != 1 {
		t.Errorf("Succeeded/Failed/Unsupported = %d/%d/%d", snap.Succeeded, snap.Failed, snap.Unsupported)
	}
	if snap.MinDuration != 10*time.Millisecond {
		t.Errorf("MinDuration = %v", snap.MinDuration)
	}
	if snap.MaxDuration != 30*time.Millisecond {
		t.Errorf("MaxDuration = %v", snap.MaxDuration)
	}
	if snap.AvgDuration != 20*time.Millisecond {
		t.Errorf("AvgDuration = %v", snap.AvgDuration)
	}

	stats, ok := snap.CatalogStats["fs.read"]
	if !ok {
		t.Fatal("fs.read stats missing")
	}
	if stats.Total != 2 || stats.Succeeded != 1 || stats.Failed != 1 {
		t.Errorf("fs.read stats = %+v", stats)
	}

	if got := snap.SuccessRate(); got < 33 || got > 34 {
		t.Errorf("SuccessRate() = %f", got)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordAccess(report("fs.read", access.StatusSuccess, time.Millisecond))
	m.Reset()

	snap := m.Snapshot()
	if snap.Total != 0 || len(snap.CatalogStats) != 0 {
		t.Errorf("snapshot after reset = %+v", snap)
	}
	if snap.SuccessRate() != 0 || snap.ErrorRate() != 0 {
		t.Error("rates not zero after reset")
	}
}

func TestMetricsHook(t *testing.T) {
	m := NewMetrics()
	hook := NewMetricsHook(m)
	if err := hook.PreAccess(context.Background(), "fs.read", 1); err != nil {
		t.Errorf("PreAccess: %v", err)
	}
	if err := hook.PostAccess(context.Background(), report("fs.read", access.StatusSuccess, time.Millisecond), nil); err != nil {
		t.Errorf("PostAccess: %v", err)
	}
	if m.Snapshot().Total != 1 {
		t.Error("report not recorded through hook")
	}
}

func TestCreateAuditEvent(t *testing.T) {
	r := report("fs.read", access.StatusSuccess, time.Millisecond)
	r.Message = "Successfully read resource at /tmp/x"

	event := CreateAuditEvent(r, nil)
	if event.Type != AuditEventAccess {
		t.Errorf("Type = %q", event.Type)
	}
	if event.Catalog != "fs.read" || event.Status != "success" {
		t.Errorf("event = %+v", event)
	}

	r.Status = access.StatusRateLimited
	event = CreateAuditEvent(r, nil)
	if event.Type != AuditEventRateLimited {
		t.Errorf("Type = %q, want rate_limited", event.Type)
	}
}
