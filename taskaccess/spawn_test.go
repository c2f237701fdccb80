package taskaccess

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/probelab/accessprobe/pool"
)

func newTestPool(t *testing.T) pool.Pool {
	t.Helper()
	p, err := pool.New(pool.Config{Workers: 2, QueueSize: 8})
	if err != nil {
		t.Fatalf("pool.New: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		p.Shutdown(ctx)
	})
	return p
}

func TestSpawnCatalogMetadata(t *testing.T) {
	cat := NewSpawnCatalog(nil)
	if cat.Name() != "task.spawn" {
		t.Errorf("Name() = %q", cat.Name())
	}
	if cat.MethodCount() != 12 {
		t.Errorf("MethodCount() = %d, want 12", cat.MethodCount())
	}
	if res := cat.Resources(); len(res) != 1 || res[0] != "goroutine" {
		t.Errorf("Resources() = %v", res)
	}
}

func TestSpawnCatalogAllVariants(t *testing.T) {
	cat := NewSpawnCatalog(newTestPool(t))
	for id := 1; id <= cat.MethodCount(); id++ {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully triggered goroutine creation on goroutine") {
			t.Errorf("id %d: message %q", id, msg)
		}
	}
}

func TestSpawnCatalogUnsupportedID(t *testing.T) {
	cat := NewSpawnCatalog(nil)
	for _, id := range []int{0, 13, -5} {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
		}
		if !strings.HasPrefix(msg, "Failed to trigger goroutine creation on goroutine") {
			t.Errorf("id %d: message %q", id, msg)
		}
	}
}

func TestSpawnCatalogPoolVariantWithoutPool(t *testing.T) {
	cat := NewSpawnCatalog(nil)
	msg, err := cat.AccessByID(context.Background(), 5)
	if err == nil {
		t.Fatal("expected error without a pool")
	}
	if !errors.Is(err, errNoPool) {
		t.Errorf("error = %v, want errNoPool", err)
	}
	if !strings.HasPrefix(msg, "Failed to trigger goroutine creation on goroutine") {
		t.Errorf("message %q", msg)
	}
}
