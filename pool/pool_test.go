package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolExecutesSubmittedTasks(t *testing.T) {
	p, err := New(Config{Workers: 2, QueueSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		err := p.SubmitFunc(context.Background(), func() {
			atomic.AddInt64(&counter, 1)
			wg.Done()
		})
		if err != nil {
			t.Fatalf("SubmitFunc: %v", err)
		}
	}
	wg.Wait()

	if got := atomic.LoadInt64(&counter); got != 10 {
		t.Errorf("counter = %d, want 10", got)
	}
	stats := p.Stats()
	if stats.TotalSubmitted != 10 {
		t.Errorf("TotalSubmitted = %d, want 10", stats.TotalSubmitted)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	p, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if err := p.SubmitFunc(context.Background(), func() {}); err != ErrPoolShutdown {
		t.Errorf("SubmitFunc after shutdown = %v, want ErrPoolShutdown", err)
	}
	// A second shutdown is a no-op.
	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}

func TestPoolRecoversFromPanickingTask(t *testing.T) {
	p, err := New(Config{Workers: 1, QueueSize: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan struct{})
	if err := p.SubmitFunc(context.Background(), func() { panic("boom") }); err != nil {
		t.Fatalf("SubmitFunc: %v", err)
	}
	if err := p.SubmitFunc(context.Background(), func() { close(done) }); err != nil {
		t.Fatalf("SubmitFunc: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive panic")
	}
}
