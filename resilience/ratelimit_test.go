package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	if rl == nil {
		t.Fatal("NewRateLimiter returned nil")
	}
	if !rl.Allow("fs.read") {
		t.Error("Rate limiter should allow initial requests")
	}
}

func TestRateLimiter_GlobalMode(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = false
	config.DefaultLimit = 10.0
	config.DefaultBurst = 5
	rl := NewRateLimiter(config)

	if !rl.Allow("fs.read") || !rl.Allow("net.connect") {
		t.Error("Should allow initial requests in global mode")
	}
}

func TestRateLimiter_PerCatalogMode(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = true
	config.DefaultLimit = 100.0
	config.DefaultBurst = 10
	rl := NewRateLimiter(config)

	if !rl.Allow("fs.read") {
		t.Error("Should allow request for fs.read")
	}
	if !rl.Allow("net.connect") {
		t.Error("Should allow request for net.connect")
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.DefaultLimit = 10.0
	config.DefaultBurst = 2
	rl := NewRateLimiter(config)

	if err := rl.Wait(context.Background(), "fs.read"); err != nil {
		t.Errorf("Wait should not error initially: %v", err)
	}
}

func TestRateLimiter_Wait_ContextCanceled(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.DefaultLimit = 0.1
	rl := NewRateLimiter(config)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.Wait(ctx, "fs.read")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRateLimiter_SetLimit(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = true
	rl := NewRateLimiter(config)

	rl.SetLimit("fs.read", rate.Limit(50.0), 10)
	if !rl.Allow("fs.read") {
		t.Error("Should allow with new limit")
	}
}

func TestRateLimiter_SetLimit_Existing(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = true
	rl := NewRateLimiter(config)

	rl.Allow("fs.read")
	rl.SetLimit("fs.read", rate.Limit(100.0), 20)
	if !rl.Allow("fs.read") {
		t.Error("Should allow with updated limit")
	}
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = true
	rl := NewRateLimiter(config)

	var wg sync.WaitGroup
	var allowed int32
	concurrency := 50

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("fs.read") {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&allowed) == 0 {
		t.Error("Should allow some concurrent requests")
	}
}

func TestRateLimiter_CatalogLimits(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = true
	config.CatalogLimits = map[string]CatalogLimit{
		"fs.read":     {Limit: 50.0, Burst: 10},
		"net.connect": {Limit: 100.0, Burst: 20},
	}

	rl := NewRateLimiter(config)

	if !rl.Allow("fs.read") {
		t.Error("fs.read should be allowed")
	}
	if !rl.Allow("net.connect") {
		t.Error("net.connect should be allowed")
	}
}

func TestRateLimiter_NewCatalogDefaults(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = true
	config.DefaultLimit = 25.0
	config.DefaultBurst = 5
	rl := NewRateLimiter(config)

	if !rl.Allow("task.spawn") {
		t.Error("New catalogue should use default limits")
	}
}

func TestRateLimiter_ConcurrentCatalogCreation(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = true
	rl := NewRateLimiter(config)

	var wg sync.WaitGroup
	catalogCount := 20

	for i := 0; i < catalogCount; i++ {
		wg.Add(1)
		catalog := "catalog" + string(rune('a'+i))
		go func(c string) {
			defer wg.Done()
			rl.Allow(c)
			_ = rl.Wait(context.Background(), c)
		}(catalog)
	}
	wg.Wait()

	for i := 0; i < catalogCount; i++ {
		catalog := "catalog" + string(rune('a'+i))
		if !rl.Allow(catalog) {
			t.Errorf("Should allow requests for %s", catalog)
		}
	}
}

func TestRateLimiter_WaitRespectsLimit(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.PerCatalog = false
	config.DefaultLimit = 50.0
	config.DefaultBurst = 1
	rl := NewRateLimiter(config)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(context.Background(), "fs.read"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Wait did not pace invocations")
	}
}
